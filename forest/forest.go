// Package forest implements ImplicitForest (§4.4): the implicit,
// gigatrace-style forest of complete binary segment trees that makes a
// signal's range-aggregate queries O(log n) instead of O(n).
//
// Loosely based on https://github.com/trishume/gigatrace, by way of
// original_source/ligeia-core/src/implicit_forest.rs's push/range_query
// bit arithmetic.
package forest

import (
	"fmt"
	"math/bits"

	"github.com/lachlansneff/ligeia/aggregate"
	"github.com/lachlansneff/ligeia/errs"
	"github.com/lachlansneff/ligeia/format"
	"github.com/lachlansneff/ligeia/logic"
)

// element is one physical slot: a leaf (pushed in insertion order) or an
// internal aggregate node (written between leaves so that for L leaves
// the physical length is 2L).
type element struct {
	bounds Bounds
	value  *logic.Array
}

// Forest is one signal's implicit forest. It owns its own element
// storage; it has no dependency on ChangeStore, so any leaf source that
// can supply (Bounds, LogicSlice) pairs in push order can drive it.
type Forest struct {
	agg       aggregate.Aggregator
	variant   format.LogicVariant
	width     int
	elems     []element
	leafCount int
}

// New creates an empty Forest for a signal of the given logic variant and
// bit width, folding with agg.
func New(agg aggregate.Aggregator, variant format.LogicVariant, width int) *Forest {
	return &Forest{agg: agg, variant: variant, width: width}
}

// LeafCount returns the number of leaves pushed so far.
func (f *Forest) LeafCount() int { return f.leafCount }

func cloneArray(variant format.LogicVariant, width int, src logic.Slice) *logic.Array {
	a := logic.NewArray(variant, width, 0)
	a.CopyFrom(src)

	return a
}

func trailingOnes(n int) int {
	return bits.TrailingZeros64(^uint64(n))
}

// Push appends a new leaf with the given bounds and packed value, folding
// it into the ancestor aggregate nodes its insertion completes. value
// must share the forest's variant and width.
func (f *Forest) Push(bounds Bounds, value logic.Slice) {
	f.elems = append(f.elems, element{bounds: bounds, value: cloneArray(f.variant, f.width, value)})
	f.leafCount++

	n := len(f.elems) // always odd: the previous push cycle left an even count
	k := trailingOnes(n) - 1

	current := n - 1
	for level := 0; level < k; level++ {
		prevHigherLevel := current - (1 << level)

		lhs := &f.elems[prevHigherLevel]
		rhs := f.elems[current]

		aggregate.Combine(f.agg, lhs.value.AsSliceMut(), rhs.value.AsSlice())
		lhs.bounds = lhs.bounds.Union(rhs.bounds)

		current = prevHigherLevel
	}

	// current now equals n - (1<<k): copy the newly-formed aggregate
	// element to the tail so the physical length advances by 2.
	tail := f.elems[current]
	f.elems = append(f.elems, element{bounds: tail.bounds, value: cloneArray(f.variant, f.width, tail.value.AsSlice())})
}

func lsp(x uint) uint { return x & -x }

func msp(x uint) uint {
	if x == 0 {
		return 0
	}

	return 1 << (bits.Len(x) - 1)
}

// largestPrefixInsideSkip returns the largest power-of-two-aligned block
// size starting at min that still fits inside [min, max).
func largestPrefixInsideSkip(min, max uint) uint {
	return lsp(min | msp(max-min))
}

func aggNode(i, skip uint) uint { return i + (skip >> 1) - 1 }

// Query folds the aggregate of leaves [start, end) into a fresh
// identity-initialized accumulator, walking at most 2*log2(n) aggregate
// nodes. Fails with errs.ErrRangeOutOfBounds if the range falls outside
// [0, LeafCount()). query(a, a) always returns the aggregator's empty
// summary and empty-valued array (§4.4's identity case).
func (f *Forest) Query(start, end int) (Bounds, *logic.Array, error) {
	if start < 0 || end > f.leafCount || start > end {
		return Bounds{}, nil, fmt.Errorf("%w: leaf range [%d, %d), forest has %d leaves", errs.ErrRangeOutOfBounds, start, end, f.leafCount)
	}

	accumulator := aggregate.Empty(f.agg, f.variant, f.width)
	if start == end {
		return Bounds{}, accumulator, nil
	}

	var accBounds Bounds
	haveBounds := false

	ri, riEnd := uint(start*2), uint(end*2)
	for ri < riEnd {
		skip := largestPrefixInsideSkip(ri, riEnd)
		idx := aggNode(ri, skip)

		node := f.elems[idx]
		aggregate.Combine(f.agg, accumulator.AsSliceMut(), node.value.AsSlice())

		if !haveBounds {
			accBounds = node.bounds
			haveBounds = true
		} else {
			accBounds = accBounds.Union(node.bounds)
		}

		ri += skip
	}

	return accBounds, accumulator, nil
}
