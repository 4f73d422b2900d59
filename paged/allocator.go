// Package paged implements PagedAllocator (§4.6): an allocator that
// transparently backs large allocations with anonymous file mappings, and
// AppendLog, the append-only growable byte region built on top of it that
// backs ChangeStore.
package paged

import (
	"sync"

	"github.com/lachlansneff/ligeia/internal/options"
)

// Allocator tracks cumulative allocation and decides, per request, whether
// to satisfy it from the heap or from an anonymous mmap. It is safe for
// concurrent use from multiple goroutines (§5: "PagedAllocator must be
// thread-safe for its internal mapping table").
type Allocator struct {
	mu        sync.Mutex
	cfg       Config
	allocated uint64
}

// NewAllocator constructs a private Allocator. Tests that want isolation
// from process-wide state should use this instead of Default (§9: "Global
// state... tests must reset it or instantiate a private one").
func NewAllocator(opts ...options.Option[*Config]) *Allocator {
	cfg := defaultConfig()
	_ = options.Apply(&cfg, opts...)

	return &Allocator{cfg: cfg}
}

var (
	defaultMu  sync.Mutex
	defaultAlc = NewAllocator()
)

// Default returns the process-scoped shared Allocator used when an
// AppendLog (and so a ChangeStore) is created with a nil allocator.
func Default() *Allocator {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	return defaultAlc
}

// ResetDefault replaces the process-scoped shared Allocator with a fresh
// one. Intended for test isolation between scenarios that rely on
// Default().
func ResetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultAlc = NewAllocator()
}

// shouldMmap decides the heap-vs-mmap policy: an allocation is mmap-backed
// if it exceeds MmapThreshold on its own, or if cumulative allocation,
// counting this request, would reach half of MemoryBudget.
func (a *Allocator) shouldMmap(size int) bool {
	if uint64(size) >= a.cfg.MmapThreshold {
		return true
	}

	return a.allocated+uint64(size) >= a.cfg.MemoryBudget/2
}

// Alloc satisfies a new allocation of size bytes, choosing heap or mmap
// per the configured policy.
func (a *Allocator) Alloc(size int) (*Region, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var (
		region *Region
		err    error
	)

	if a.shouldMmap(size) {
		region, err = newMmapRegion(size)
	} else {
		region = newHeapRegion(size)
	}
	if err != nil {
		return nil, err
	}

	a.allocated += uint64(size)

	return region, nil
}

// Grow resizes region to at least newSize bytes, growing the underlying
// heap slice or mmap in place. A heap region that crosses the mmap policy
// on this call is transparently upgraded to an mmap backing; an
// already-mmap-backed region is never copied back to the heap.
func (a *Allocator) Grow(region *Region, newSize int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if newSize <= region.size {
		return nil
	}

	delta := uint64(newSize - region.size)

	if !region.mmapped && a.shouldMmap(newSize) {
		if err := region.upgradeToMmap(); err != nil {
			return err
		}
	}

	if err := region.grow(newSize); err != nil {
		return err
	}

	a.allocated += delta

	return nil
}

// Free releases region's resources and accounts for the freed bytes.
func (a *Allocator) Free(region *Region) {
	a.mu.Lock()
	defer a.mu.Unlock()

	region.release()

	if a.allocated >= uint64(region.size) {
		a.allocated -= uint64(region.size)
	} else {
		a.allocated = 0
	}
}

// Allocated returns the allocator's current bookkeeping total, for tests
// and diagnostics.
func (a *Allocator) Allocated() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.allocated
}
