package waveform

import (
	"testing"

	"github.com/lachlansneff/ligeia/aggregate"
	"github.com/lachlansneff/ligeia/errs"
	"github.com/lachlansneff/ligeia/format"
	"github.com/lachlansneff/ligeia/logic"
	"github.com/lachlansneff/ligeia/meta"
	"github.com/lachlansneff/ligeia/paged"
	"github.com/stretchr/testify/require"
)

func setVal(u logic.Unit) func(logic.SliceMut) error {
	return func(s logic.SliceMut) error { return s.Set(0, u) }
}

// TestTwoValuedMaxAggregatorScenario mirrors scenario 1: width 1, three
// changes at t=0,5,10 with values 0,1,0, folded with the max aggregator.
func TestTwoValuedMaxAggregatorScenario(t *testing.T) {
	db, err := New(WithAggregator(format.Two, aggregate.Max{}))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.DeclareSignal(1, format.Two, 1, 0))

	for i, tpl := range []struct {
		ts  uint64
		val logic.Unit
	}{
		{0, logic.TwoZero},
		{5, logic.TwoOne},
		{10, logic.TwoZero},
	} {
		require.NoError(t, db.PushTimestep(tpl.ts))
		require.NoError(t, db.PushChange(1, setVal(tpl.val)), "change %d", i)
	}

	_, arr, err := db.Query(1, 0, 11)
	require.NoError(t, err)
	u, err := arr.AsSlice().Get(0)
	require.NoError(t, err)
	require.Equal(t, logic.TwoOne, u)

	_, arr, err = db.Query(1, 0, 5)
	require.NoError(t, err)
	u, err = arr.AsSlice().Get(0)
	require.NoError(t, err)
	require.Equal(t, logic.TwoZero, u)

	_, arr, err = db.Query(1, 5, 10)
	require.NoError(t, err)
	u, err = arr.AsSlice().Get(0)
	require.NoError(t, err)
	require.Equal(t, logic.TwoOne, u)

	_, arr, err = db.Query(1, 10, 11)
	require.NoError(t, err)
	u, err = arr.AsSlice().Get(0)
	require.NoError(t, err)
	require.Equal(t, logic.TwoZero, u)
}

// TestFourValuedOrDominatesScenario mirrors scenario 2: two changes whose
// combined state, folded with the or-dominates aggregator, must retain
// every non-zero state across the width.
func TestFourValuedOrDominatesScenario(t *testing.T) {
	db, err := New()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.DeclareSignal(1, format.Four, 4, 0))

	require.NoError(t, db.PushTimestep(0))
	require.NoError(t, db.PushChange(1, func(s logic.SliceMut) error {
		require.NoError(t, s.Set(0, logic.FourZero))
		require.NoError(t, s.Set(1, logic.FourOne))
		require.NoError(t, s.Set(2, logic.FourUnknown))
		require.NoError(t, s.Set(3, logic.FourHighZ))
		return nil
	}))

	require.NoError(t, db.PushTimestep(5))
	require.NoError(t, db.PushChange(1, func(s logic.SliceMut) error {
		for i := 0; i < 4; i++ {
			require.NoError(t, s.Set(i, logic.FourZero))
		}
		return nil
	}))

	_, arr, err := db.Query(1, 0, 6)
	require.NoError(t, err)

	want := []logic.Unit{logic.FourZero, logic.FourOne, logic.FourUnknown, logic.FourHighZ}
	i := 0
	for u := range arr.AsSlice().All() {
		require.Equal(t, want[i], u, "unit %d", i)
		i++
	}
}

// TestTimestepMonotonicityScenario mirrors scenario 4: push_timestep(10),
// push_change, push_timestep(10) again (no-op, same index), push_change,
// then push_timestep(9) fails.
func TestTimestepMonotonicityScenario(t *testing.T) {
	db, err := New()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.DeclareSignal(1, format.Two, 1, 0))

	require.NoError(t, db.PushTimestep(10))
	require.NoError(t, db.PushChange(1, setVal(logic.TwoZero)))

	require.NoError(t, db.PushTimestep(10))
	require.NoError(t, db.PushChange(1, setVal(logic.TwoOne)))

	it, err := db.IterChanges(1)
	require.NoError(t, err)
	var timestamps []uint64
	for ts := range it {
		timestamps = append(timestamps, ts)
	}
	require.Equal(t, []uint64{10, 10}, timestamps)

	err = db.PushTimestep(9)
	require.ErrorIs(t, err, errs.ErrTimestepRegression)
}

func TestPushChangeUnknownSignal(t *testing.T) {
	db, err := New()
	require.NoError(t, err)
	defer db.Close()

	err = db.PushChange(99, setVal(logic.TwoOne))
	require.ErrorIs(t, err, errs.ErrUnknownSignal)
}

func TestQueryUnknownSignal(t *testing.T) {
	db, err := New()
	require.NoError(t, err)
	defer db.Close()

	_, _, err = db.Query(99, 0, 10)
	require.ErrorIs(t, err, errs.ErrUnknownSignal)
}

func TestIterChangesRoundTripsPackedBytes(t *testing.T) {
	db, err := New()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.DeclareSignal(1, format.Nine, 2, 0))

	vals := []logic.Unit{logic.NineZeroStrong, logic.NineOneStrong, logic.NineUnknownStrong}
	for i, v := range vals {
		require.NoError(t, db.PushTimestep(uint64(i*2)))
		require.NoError(t, db.PushChange(1, func(s logic.SliceMut) error {
			require.NoError(t, s.Set(0, v))
			require.NoError(t, s.Set(1, v))
			return nil
		}))
	}

	it, err := db.IterChanges(1)
	require.NoError(t, err)

	i := 0
	for ts, slice := range it {
		require.Equal(t, uint64(i*2), ts)
		u, err := slice.Get(0)
		require.NoError(t, err)
		require.Equal(t, vals[i], u)
		i++
	}
	require.Equal(t, len(vals), i)
}

func TestScopeAndVariableIngestThroughDB(t *testing.T) {
	db, err := New()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.DeclareScope(0, 1, "top"))
	require.NoError(t, db.DeclareVariable(1, "clk", meta.None()))

	tree := db.ScopeTree()
	require.Len(t, tree.Children, 1)
	require.Equal(t, "top", tree.Children[0].Scope.Name)

	blob, err := db.ExportMetadata(format.CompressionZstd)
	require.NoError(t, err)
	require.NotEmpty(t, blob)
}

func TestListSignalsSorted(t *testing.T) {
	db, err := New()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.DeclareSignal(5, format.Two, 1, 0))
	require.NoError(t, db.DeclareSignal(2, format.Two, 1, 0))
	require.NoError(t, db.DeclareSignal(8, format.Two, 1, 0))

	require.Equal(t, []uint32{2, 5, 8}, db.ListSignals())
}

func TestDeclareSignalDuplicateFails(t *testing.T) {
	db, err := New()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.DeclareSignal(1, format.Two, 1, 0))
	err = db.DeclareSignal(1, format.Two, 1, 0)
	require.ErrorIs(t, err, errs.ErrAlreadyDeclared)
}

func TestQueryEmptyRangeIsAggregatorIdentity(t *testing.T) {
	db, err := New(WithAggregator(format.Two, aggregate.Max{}))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.DeclareSignal(1, format.Two, 1, 0))
	require.NoError(t, db.PushTimestep(0))
	require.NoError(t, db.PushChange(1, setVal(logic.TwoOne)))

	_, arr, err := db.Query(1, 100, 100)
	require.NoError(t, err)
	u, err := arr.AsSlice().Get(0)
	require.NoError(t, err)
	require.Equal(t, logic.TwoZero, u)
}

func TestWithAllocatorShared(t *testing.T) {
	alloc := paged.NewAllocator()

	db1, err := New(WithAllocator(alloc))
	require.NoError(t, err)
	defer db1.Close()

	db2, err := New(WithAllocator(alloc))
	require.NoError(t, err)
	defer db2.Close()

	require.Same(t, alloc, db1.Allocator())
	require.Same(t, alloc, db2.Allocator())
}
