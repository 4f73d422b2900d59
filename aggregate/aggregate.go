// Package aggregate implements the Aggregator contract (§4.4): the
// pluggable per-unit combine rule the implicit forest folds leaves and
// internal nodes with, plus the two reference aggregators (Max and
// TimestepBoundsOrDominates) §9 requires every forest property test to
// pass against.
package aggregate

import (
	"github.com/lachlansneff/ligeia/format"
	"github.com/lachlansneff/ligeia/logic"
)

// Aggregator is an associative per-unit combine rule. The forest lifts it
// elementwise across a packed LogicSlice; Aggregator implementations only
// need to define the single-unit case.
type Aggregator interface {
	// CombineUnit returns the aggregate of lhs's span followed by rhs's
	// span, for one logic unit of the given variant. Must be
	// associative: CombineUnit(CombineUnit(a,b),c) == CombineUnit(a,
	// CombineUnit(b,c)).
	CombineUnit(variant format.LogicVariant, lhs, rhs logic.Unit) logic.Unit

	// EmptyUnit returns the identity unit for CombineUnit under this
	// aggregator: CombineUnit(variant, EmptyUnit(variant), x) == x.
	EmptyUnit(variant format.LogicVariant) logic.Unit
}

// Combine folds rhs into lhs in place, unit by unit, using agg. lhs and
// rhs must share the same variant and width; the tail bits of lhs are
// re-masked afterward so a partial tail byte never picks up garbage from
// the fold.
func Combine(agg Aggregator, lhs logic.SliceMut, rhs logic.Slice) {
	variant := lhs.Variant()
	width := lhs.Width()

	for i := 0; i < width; i++ {
		l, _ := lhs.Get(i)
		r, _ := rhs.Get(i)
		_ = lhs.Set(i, agg.CombineUnit(variant, l, r))
	}

	logic.MaskTail(variant, width, lhs.Bytes())
}

// Empty builds a fresh LogicArray of the given variant and width, filled
// with agg's identity unit (§4.4: "query of an empty forest returns...an
// empty-valued LogicArray").
func Empty(agg Aggregator, variant format.LogicVariant, width int) *logic.Array {
	return logic.NewArray(variant, width, agg.EmptyUnit(variant))
}
