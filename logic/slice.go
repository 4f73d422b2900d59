package logic

import (
	"fmt"
	"iter"

	"github.com/lachlansneff/ligeia/errs"
	"github.com/lachlansneff/ligeia/format"
)

// Slice is a borrowed, read-only view over a fixed-width packed logic
// vector. Its width is fixed at construction; the byte length is
// ceil(width / units_per_byte).
type Slice struct {
	variant format.LogicVariant
	width   int
	bytes   []byte
}

// NewSlice wraps bytes as a read-only Slice of the given variant and width.
// bytes must be at least ByteLen(variant, width) long.
func NewSlice(variant format.LogicVariant, width int, bytes []byte) Slice {
	return Slice{variant: variant, width: width, bytes: bytes}
}

// Variant returns the logic variant this slice is packed in.
func (s Slice) Variant() format.LogicVariant { return s.variant }

// Width returns the number of units in this slice.
func (s Slice) Width() int { return s.width }

// Bytes returns the underlying packed byte representation. Callers must
// not mutate the returned slice.
func (s Slice) Bytes() []byte { return s.bytes }

// Get returns the unit at offset. Fails with errs.ErrOutOfBounds if offset
// is not in [0, width).
func (s Slice) Get(offset int) (Unit, error) {
	if offset < 0 || offset >= s.width {
		return 0, fmt.Errorf("%w: logic slice offset %d, width %d", errs.ErrOutOfBounds, offset, s.width)
	}

	return getUnit(s.variant, s.bytes, offset), nil
}

// All iterates every unit in the slice in low-to-high order.
func (s Slice) All() iter.Seq[Unit] {
	return func(yield func(Unit) bool) {
		for i := 0; i < s.width; i++ {
			if !yield(getUnit(s.variant, s.bytes, i)) {
				return
			}
		}
	}
}

// SliceMut is a borrowed, mutable view over a fixed-width packed logic
// vector. It shares the same backing bytes as the Slice it wraps, so Set
// mutates the caller-owned storage in place.
type SliceMut struct {
	Slice
}

// NewSliceMut wraps bytes as a mutable SliceMut of the given variant and
// width. bytes must be at least ByteLen(variant, width) long.
func NewSliceMut(variant format.LogicVariant, width int, bytes []byte) SliceMut {
	return SliceMut{Slice: NewSlice(variant, width, bytes)}
}

// Set writes unit at offset. Fails with errs.ErrOutOfBounds if offset is
// not in [0, width).
func (s SliceMut) Set(offset int, u Unit) error {
	if offset < 0 || offset >= s.width {
		return fmt.Errorf("%w: logic slice offset %d, width %d", errs.ErrOutOfBounds, offset, s.width)
	}

	setUnit(s.variant, s.bytes, offset, u)

	return nil
}
