package forest

import (
	"math/rand"
	"testing"

	"github.com/lachlansneff/ligeia/aggregate"
	"github.com/lachlansneff/ligeia/errs"
	"github.com/lachlansneff/ligeia/format"
	"github.com/lachlansneff/ligeia/logic"
	"github.com/stretchr/testify/require"
)

func naiveFold(agg aggregate.Aggregator, variant format.LogicVariant, width int, leaves []logic.Slice) (Bounds, *logic.Array, bool) {
	if len(leaves) == 0 {
		return Bounds{}, aggregate.Empty(agg, variant, width), false
	}

	acc := aggregate.Empty(agg, variant, width)
	for _, l := range leaves {
		aggregate.Combine(agg, acc.AsSliceMut(), l)
	}

	return Bounds{}, acc, true
}

func unitSlice(variant format.LogicVariant, width int, units ...logic.Unit) logic.Slice {
	a := logic.NewArray(variant, width, 0)
	for i, u := range units {
		_ = a.Set(i, u)
	}

	return a.AsSlice()
}

func TestQueryEmptyRangeIsIdentity(t *testing.T) {
	f := New(aggregate.Max{}, format.Two, 1)
	f.Push(Bounds{Start: 1, End: 1}, unitSlice(format.Two, 1, logic.TwoOne))

	_, got, err := f.Query(0, 0)
	require.NoError(t, err)
	u, err := got.AsSlice().Get(0)
	require.NoError(t, err)
	require.Equal(t, logic.TwoZero, u)
}

func TestQueryOutOfBounds(t *testing.T) {
	f := New(aggregate.Max{}, format.Two, 1)
	f.Push(Bounds{Start: 1, End: 1}, unitSlice(format.Two, 1, logic.TwoOne))

	_, _, err := f.Query(0, 5)
	require.ErrorIs(t, err, errs.ErrRangeOutOfBounds)
}

func TestQueryWholeRangeMatchesNaiveFold(t *testing.T) {
	var agg aggregate.TimestepBoundsOrDominates
	variant, width := format.Four, 1

	f := New(agg, variant, width)
	var leaves []logic.Slice
	values := []logic.Unit{logic.FourZero, logic.FourOne, logic.FourUnknown, logic.FourZero, logic.FourHighZ, logic.FourOne, logic.FourZero}
	for i, v := range values {
		s := unitSlice(variant, width, v)
		leaves = append(leaves, s)
		f.Push(Bounds{Start: uint64(i), End: uint64(i)}, s)
	}

	_, want, _ := naiveFold(agg, variant, width, leaves)
	_, got, err := f.Query(0, len(values))
	require.NoError(t, err)

	wu, _ := want.AsSlice().Get(0)
	gu, _ := got.AsSlice().Get(0)
	require.Equal(t, wu, gu)
}

func TestQueryArbitraryRangesMatchNaiveFoldRandom(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	var agg aggregate.TimestepBoundsOrDominates
	variant, width := format.Nine, 1
	allNine := []logic.Unit{
		logic.NineZeroStrong, logic.NineOneStrong, logic.NineZeroWeak, logic.NineOneWeak,
		logic.NineUnknownStrong, logic.NineUnknownWeak, logic.NineZeroUnknown, logic.NineOneUnknown,
		logic.NineHighImpedance,
	}

	f := New(agg, variant, width)
	var leaves []logic.Slice
	const n = 300
	for i := 0; i < n; i++ {
		v := allNine[r.Intn(len(allNine))]
		s := unitSlice(variant, width, v)
		leaves = append(leaves, s)
		f.Push(Bounds{Start: uint64(i), End: uint64(i)}, s)
	}

	for q := 0; q < 1000; q++ {
		a := r.Intn(n + 1)
		b := a + r.Intn(n+1-a)

		_, want, _ := naiveFold(agg, variant, width, leaves[a:b])
		_, got, err := f.Query(a, b)
		require.NoError(t, err)

		wu, _ := want.AsSlice().Get(0)
		gu, _ := got.AsSlice().Get(0)
		require.Equalf(t, wu, gu, "range [%d,%d)", a, b)
	}
}

func TestQueryChangingOneLeafChangesResult(t *testing.T) {
	var agg aggregate.Max
	variant, width := format.Two, 1

	f := New(agg, variant, width)
	for i := 0; i < 8; i++ {
		f.Push(Bounds{Start: uint64(i), End: uint64(i)}, unitSlice(variant, width, logic.TwoZero))
	}

	_, before, err := f.Query(0, 8)
	require.NoError(t, err)
	bu, _ := before.AsSlice().Get(0)
	require.Equal(t, logic.TwoZero, bu)

	f2 := New(agg, variant, width)
	for i := 0; i < 8; i++ {
		v := logic.TwoZero
		if i == 4 {
			v = logic.TwoOne
		}
		f2.Push(Bounds{Start: uint64(i), End: uint64(i)}, unitSlice(variant, width, v))
	}

	_, after, err := f2.Query(0, 8)
	require.NoError(t, err)
	au, _ := after.AsSlice().Get(0)
	require.Equal(t, logic.TwoOne, au)
	require.NotEqual(t, bu, au)
}

func TestBoundsUnionAcrossPush(t *testing.T) {
	f := New(aggregate.Max{}, format.Two, 1)
	f.Push(Bounds{Start: 5, End: 5}, unitSlice(format.Two, 1, logic.TwoZero))
	f.Push(Bounds{Start: 10, End: 10}, unitSlice(format.Two, 1, logic.TwoOne))
	f.Push(Bounds{Start: 20, End: 20}, unitSlice(format.Two, 1, logic.TwoZero))
	f.Push(Bounds{Start: 30, End: 30}, unitSlice(format.Two, 1, logic.TwoOne))

	bounds, _, err := f.Query(0, 4)
	require.NoError(t, err)
	require.Equal(t, uint64(5), bounds.Start)
	require.Equal(t, uint64(30), bounds.End)
}
