package logic

import (
	"testing"

	"github.com/lachlansneff/ligeia/errs"
	"github.com/lachlansneff/ligeia/format"
	"github.com/stretchr/testify/require"
)

func TestArraySetGet(t *testing.T) {
	arr := NewArray(format.Nine, 1, NineHighImpedance)

	require.NoError(t, arr.Set(0, NineUnknownStrong))

	u, err := arr.Get(0)
	require.NoError(t, err)
	require.Equal(t, NineUnknownStrong, u)
}

func TestArraySetIter(t *testing.T) {
	two := NewArray(format.Two, 3, TwoZero)
	require.NoError(t, two.Set(0, TwoOne))

	var got []Unit
	for u := range two.AsSlice().All() {
		got = append(got, u)
	}
	require.Equal(t, []Unit{TwoOne, TwoZero, TwoZero}, got)

	four := NewArray(format.Four, 3, FourHighZ)
	require.NoError(t, four.Set(0, FourOne))

	got = got[:0]
	for u := range four.AsSlice().All() {
		got = append(got, u)
	}
	require.Equal(t, []Unit{FourOne, FourHighZ, FourHighZ}, got)

	nine := NewArray(format.Nine, 3, NineUnknownWeak)
	require.NoError(t, nine.Set(0, NineOneWeak))

	got = got[:0]
	for u := range nine.AsSlice().All() {
		got = append(got, u)
	}
	require.Equal(t, []Unit{NineOneWeak, NineUnknownWeak, NineUnknownWeak}, got)
}

func TestSliceGetOutOfBounds(t *testing.T) {
	arr := NewArray(format.Two, 3, TwoZero)

	_, err := arr.Get(3)
	require.ErrorIs(t, err, errs.ErrOutOfBounds)
}

func TestSliceMutSetIsolation(t *testing.T) {
	arr := NewArray(format.Four, 5, FourZero)
	require.NoError(t, arr.Set(2, FourUnknown))

	for i := 0; i < 5; i++ {
		u, err := arr.Get(i)
		require.NoError(t, err)
		if i == 2 {
			require.Equal(t, FourUnknown, u)
		} else {
			require.Equal(t, FourZero, u)
		}
	}
}

func TestMaskTail(t *testing.T) {
	// Two: 8 units per byte, width 3 leaves 5 tail bits that must be zero.
	bytes := []byte{0xFF}
	MaskTail(format.Two, 3, bytes)
	require.Equal(t, byte(0b0000_0111), bytes[0])

	// Width divides the byte exactly: no masking performed.
	bytes = []byte{0xFF}
	MaskTail(format.Two, 8, bytes)
	require.Equal(t, byte(0xFF), bytes[0])
}

func TestToTwoLossless(t *testing.T) {
	u, err := ToTwo(format.Four, FourZero)
	require.NoError(t, err)
	require.Equal(t, TwoZero, u)

	u, err = ToTwo(format.Nine, NineOneWeak)
	require.NoError(t, err)
	require.Equal(t, TwoOne, u)
}

func TestToTwoLossy(t *testing.T) {
	_, err := ToTwo(format.Four, FourUnknown)
	require.ErrorIs(t, err, errs.ErrConversionLossy)

	_, err = ToTwo(format.Nine, NineHighImpedance)
	require.ErrorIs(t, err, errs.ErrConversionLossy)
}

func TestNineClampsOutOfDomainPattern(t *testing.T) {
	// Pattern 9 (0b1001) has no Nine meaning; Get must clamp to HighImpedance
	// rather than fail, per §4.1's documented escape hatch.
	bytes := []byte{0x09}
	s := NewSlice(format.Nine, 2, bytes)

	u, err := s.Get(0)
	require.NoError(t, err)
	require.Equal(t, NineHighImpedance, u)
}

func TestEmptyPerVariant(t *testing.T) {
	require.Equal(t, Unit(0), Empty(format.Two))
	require.Equal(t, Unit(0), Empty(format.Four))
	require.Equal(t, NineUnknownWeak, Empty(format.Nine))
}
