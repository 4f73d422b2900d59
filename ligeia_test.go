package ligeia

import (
	"testing"

	"github.com/lachlansneff/ligeia/aggregate"
	"github.com/lachlansneff/ligeia/format"
	"github.com/lachlansneff/ligeia/logic"
	"github.com/lachlansneff/ligeia/meta"
	"github.com/lachlansneff/ligeia/paged"
	"github.com/stretchr/testify/require"
)

func TestNewEndToEndIngestAndQuery(t *testing.T) {
	db, err := New()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.DeclareScope(0, 1, "top"))
	require.NoError(t, db.DeclareVariable(1, "clk", meta.None()))
	require.NoError(t, db.DeclareSignal(7, format.Two, 1, 0))

	require.NoError(t, db.PushTimestep(0))
	require.NoError(t, db.PushChange(7, func(s logic.SliceMut) error { return s.Set(0, logic.TwoZero) }))
	require.NoError(t, db.PushTimestep(5))
	require.NoError(t, db.PushChange(7, func(s logic.SliceMut) error { return s.Set(0, logic.TwoOne) }))

	_, result, err := db.Query(7, 0, 10)
	require.NoError(t, err)
	u, err := result.AsSlice().Get(0)
	require.NoError(t, err)
	require.Equal(t, logic.TwoOne, u)
}

func TestWithAllocatorSharesAcrossInstances(t *testing.T) {
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

func TestWithAggregatorOverridesDefault(t *testing.T) {
	db, err := New(WithAggregator(format.Two, aggregate.Max{}))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.DeclareSignal(1, format.Two, 1, 0))
	require.NoError(t, db.PushTimestep(0))
	require.NoError(t, db.PushChange(1, func(s logic.SliceMut) error { return s.Set(0, logic.TwoOne) }))
	require.NoError(t, db.PushTimestep(1))
	require.NoError(t, db.PushChange(1, func(s logic.SliceMut) error { return s.Set(0, logic.TwoZero) }))

	_, result, err := db.Query(1, 0, 2)
	require.NoError(t, err)
	u, err := result.AsSlice().Get(0)
	require.NoError(t, err)
	require.Equal(t, logic.TwoOne, u, "max-aggregator keeps the highest ordinal across the range")
}
