package timestep

import (
	"testing"

	"github.com/lachlansneff/ligeia/errs"
	"github.com/stretchr/testify/require"
)

func TestTablePushDeduplicates(t *testing.T) {
	tbl := New()

	idx0, err := tbl.Push(10)
	require.NoError(t, err)
	require.Equal(t, uint32(0), idx0)

	idx1, err := tbl.Push(10)
	require.NoError(t, err)
	require.Equal(t, idx0, idx1, "pushing the same timestep returns the previous index")

	idx2, err := tbl.Push(20)
	require.NoError(t, err)
	require.Equal(t, idx1+1, idx2, "pushing a strictly later timestep allocates the next index")

	require.Equal(t, 2, tbl.Len())
}

func TestTablePushRegression(t *testing.T) {
	tbl := New()
	_, err := tbl.Push(10)
	require.NoError(t, err)

	_, err = tbl.Push(9)
	require.ErrorIs(t, err, errs.ErrTimestepRegression)
}

func TestTableGetOutOfBounds(t *testing.T) {
	tbl := New()
	_, err := tbl.Push(1)
	require.NoError(t, err)

	_, err = tbl.Get(5)
	require.ErrorIs(t, err, errs.ErrOutOfBounds)
}

func TestTableGetRoundTrip(t *testing.T) {
	tbl := New()
	want := []uint64{1, 3, 7, 7, 100}

	var lastIdx uint32
	for _, ts := range want {
		idx, err := tbl.Push(ts)
		require.NoError(t, err)
		lastIdx = idx
	}
	require.Equal(t, uint32(3), lastIdx) // 4 distinct values, last index is 3

	got, err := tbl.Get(0)
	require.NoError(t, err)
	require.Equal(t, uint64(1), got)

	got, err = tbl.Get(3)
	require.NoError(t, err)
	require.Equal(t, uint64(100), got)
}
