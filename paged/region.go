package paged

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/lachlansneff/ligeia/errs"
)

// Region is one allocation handed out by Allocator: either a plain heap
// slice or an anonymous-file-backed mapping. Callers address it through
// Bytes, which always returns the current backing storage.
type Region struct {
	mmapped bool
	size    int

	// heap-backed
	heap []byte

	// mmap-backed
	file    *os.File
	mapping mmap.MMap
}

// Bytes returns the region's storage. The returned slice is valid until
// the next Grow call on this region.
func (r *Region) Bytes() []byte {
	if r.mmapped {
		return r.mapping
	}

	return r.heap
}

// Size returns the region's current length in bytes.
func (r *Region) Size() int { return r.size }

// Mmapped reports whether this region is backed by an anonymous file
// mapping rather than the heap.
func (r *Region) Mmapped() bool { return r.mmapped }

func newHeapRegion(size int) *Region {
	return &Region{heap: make([]byte, size), size: size}
}

// newMmapRegion creates an anonymous-temporary-file-backed mapping of the
// given size. The file is unlinked immediately after creation so it has no
// name on disk and is reclaimed by the OS once every handle (including
// this mapping) is closed, matching §6: "Backing files are anonymous,
// deleted at close, and carry no persistent on-disk format."
func newMmapRegion(size int) (*Region, error) {
	f, err := os.CreateTemp("", "ligeia-paged-*")
	if err != nil {
		return nil, fmt.Errorf("%w: create backing file: %v", errs.ErrAllocFailure, err)
	}

	name := f.Name()
	if err := os.Remove(name); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: unlink backing file: %v", errs.ErrAllocFailure, err)
	}

	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: size backing file: %v", errs.ErrAllocFailure, err)
	}

	m, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: map backing file: %v", errs.ErrAllocFailure, err)
	}

	return &Region{mmapped: true, size: size, file: f, mapping: m}, nil
}

// grow resizes the region in place: for heap regions, a fresh larger slice
// is allocated and the old contents copied in; for mmap regions, the
// mapping is torn down, the backing file truncated to the new length, and
// remapped, per §4.6's "file truncate + remap" growth strategy.
func (r *Region) grow(newSize int) error {
	if newSize <= r.size {
		return nil
	}

	if !r.mmapped {
		grown := make([]byte, newSize)
		copy(grown, r.heap)
		r.heap = grown
		r.size = newSize

		return nil
	}

	if err := r.mapping.Unmap(); err != nil {
		return fmt.Errorf("%w: unmap for growth: %v", errs.ErrAllocFailure, err)
	}

	if err := r.file.Truncate(int64(newSize)); err != nil {
		return fmt.Errorf("%w: truncate for growth: %v", errs.ErrAllocFailure, err)
	}

	m, err := mmap.Map(r.file, mmap.RDWR, 0)
	if err != nil {
		return fmt.Errorf("%w: remap after growth: %v", errs.ErrAllocFailure, err)
	}

	r.mapping = m
	r.size = newSize

	return nil
}

// upgradeToMmap converts a heap region to an mmap-backed one in place,
// copying existing contents across. This is the one direction the
// allocator permits crossing the heap/mmap boundary after the fact: §4.6
// forbids silently copying an *overflowed* (mmap) region back to heap, not
// promoting a small region that has grown past the threshold.
func (r *Region) upgradeToMmap() error {
	if r.mmapped {
		return nil
	}

	replacement, err := newMmapRegion(r.size)
	if err != nil {
		return err
	}

	copy(replacement.mapping, r.heap)

	r.mmapped = true
	r.file = replacement.file
	r.mapping = replacement.mapping
	r.heap = nil

	return nil
}

// release closes and unmaps an mmap-backed region, or simply drops the
// heap slice for a heap region.
func (r *Region) release() {
	if !r.mmapped {
		r.heap = nil
		return
	}

	_ = r.mapping.Unmap()
	_ = r.file.Close()
}
