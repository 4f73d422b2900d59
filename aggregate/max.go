package aggregate

import (
	"github.com/lachlansneff/ligeia/format"
	"github.com/lachlansneff/ligeia/logic"
)

// Max is the reference "elementwise max" aggregator (§4.4, §9): the
// combine rule is simply the greater of the two unit values' numeric
// ordinal within their variant's domain. It is appropriate for monotone
// visualisations (e.g. a counter that should never appear to decrease
// under aggregation) but carries no special handling of unknown/high-Z
// states.
type Max struct{}

// CombineUnit returns the greater of lhs and rhs by raw ordinal value.
func (Max) CombineUnit(_ format.LogicVariant, lhs, rhs logic.Unit) logic.Unit {
	if rhs > lhs {
		return rhs
	}

	return lhs
}

// EmptyUnit returns 0, the identity for max: every variant's domain has
// its smallest ordinal at value 0 (TwoZero, FourZero, NineZeroStrong).
func (Max) EmptyUnit(_ format.LogicVariant) logic.Unit {
	return 0
}
