package logic

import (
	"github.com/lachlansneff/ligeia/format"
)

// Array is an owned, fixed-width packed logic vector.
type Array struct {
	Slice
}

// NewArray allocates a new Array of width units, all initialized to fill.
func NewArray(variant format.LogicVariant, width int, fill Unit) *Array {
	bytes := make([]byte, ByteLen(variant, width))
	a := &Array{Slice: NewSlice(variant, width, bytes)}

	for i := 0; i < width; i++ {
		setUnit(variant, a.bytes, i, fill)
	}

	return a
}

// Set writes unit at offset, in place. Fails with errs.ErrOutOfBounds if
// offset is not in [0, width).
func (a *Array) Set(offset int, u Unit) error {
	return SliceMut{Slice: a.Slice}.Set(offset, u)
}

// AsSlice returns a read-only Slice view over the array's bytes.
func (a *Array) AsSlice() Slice {
	return a.Slice
}

// AsSliceMut returns a mutable SliceMut view over the array's bytes.
func (a *Array) AsSliceMut() SliceMut {
	return SliceMut{Slice: a.Slice}
}

// CopyFrom overwrites the array's bytes from src, which must share this
// array's variant and width. It reuses the array's existing bytes and
// does not allocate.
func (a *Array) CopyFrom(src Slice) {
	copy(a.bytes, src.bytes)
}
