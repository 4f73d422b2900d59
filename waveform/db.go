// Package waveform implements WaveformDB (§4.5): the façade tying
// ChangeStore, ImplicitForest, TimestepTable, and the scope/variable
// Registry together into the engine's single entry point for ingest and
// query.
package waveform

import (
	"fmt"
	"iter"
	"sort"
	"sync"

	"github.com/lachlansneff/ligeia/aggregate"
	"github.com/lachlansneff/ligeia/change"
	"github.com/lachlansneff/ligeia/errs"
	"github.com/lachlansneff/ligeia/forest"
	"github.com/lachlansneff/ligeia/format"
	"github.com/lachlansneff/ligeia/internal/options"
	"github.com/lachlansneff/ligeia/logic"
	"github.com/lachlansneff/ligeia/meta"
	"github.com/lachlansneff/ligeia/paged"
)

// signalState is everything WaveformDB tracks for one declared signal
// beyond what ChangeStore itself already keeps.
type signalState struct {
	variant   format.LogicVariant
	width     int
	lsbOffset uint32
	forest    *forest.Forest

	// leafTimestamps holds the absolute timestep of each leaf pushed into
	// forest, in the same append order, so Query can binary search a
	// timestep range down to a leaf-index range before calling
	// ImplicitForest.query.
	leafTimestamps []uint64
}

// DB is the engine's single entry point (§4.5). Ingest methods
// (Declare*/Push*) take exclusive access; query methods (List/Query/Iter/
// Export) take shared access and run concurrently with each other,
// blocking only behind an in-progress ingest call (§5).
type DB struct {
	ingestMu sync.Mutex   // serializes concurrent ingest callers (single-writer)
	mu       sync.RWMutex // query surface; an ingest call also takes this for write

	alloc       *paged.Allocator
	changes     *change.ChangeStore
	registry    *meta.Registry
	aggregators map[format.LogicVariant]aggregate.Aggregator
	signals     map[uint32]*signalState
}

// New creates an empty WaveformDB, applying the given functional options
// over the default Config.
func New(opts ...options.Option[*Config]) (*DB, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	alloc := cfg.Allocator
	if alloc == nil {
		alloc = paged.NewAllocator()
	}

	changes, err := change.New(alloc)
	if err != nil {
		return nil, err
	}

	return &DB{
		alloc:       alloc,
		changes:     changes,
		registry:    meta.NewRegistry(),
		aggregators: cfg.Aggregators,
		signals:     make(map[uint32]*signalState),
	}, nil
}

// Close releases the change store's backing storage. The allocator itself,
// whether shared via WithAllocator or created privately by New, is left
// as it is.
func (db *DB) Close() {
	db.changes.Close()
}

// Allocator returns the *paged.Allocator backing this WaveformDB's
// storage, whether shared (via WithAllocator) or privately created.
func (db *DB) Allocator() *paged.Allocator { return db.alloc }

func (db *DB) aggregatorFor(variant format.LogicVariant) aggregate.Aggregator {
	if agg, ok := db.aggregators[variant]; ok && agg != nil {
		return agg
	}

	return aggregate.TimestepBoundsOrDominates{}
}

// DeclareScope registers scopeID as a child of parentScopeID (§6).
func (db *DB) DeclareScope(parentScopeID, scopeID uint32, name string) error {
	db.ingestMu.Lock()
	defer db.ingestMu.Unlock()
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.registry.DeclareScope(parentScopeID, scopeID, name)
}

// DeclareVariable registers a named, interpreted view under scopeID (§6).
func (db *DB) DeclareVariable(scopeID uint32, name string, interp meta.Interpretation) error {
	db.ingestMu.Lock()
	defer db.ingestMu.Unlock()
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.registry.DeclareVariable(scopeID, name, interp)
}

// DeclareSignal registers signalID's logic variant, bit width, and LSB
// offset (the bit position its least-significant unit occupies within a
// wider reassembled bus, per an Integer Interpretation referencing it),
// and allocates its ChangeStore block chain and ImplicitForest (§6).
func (db *DB) DeclareSignal(signalID uint32, variant format.LogicVariant, width int, lsbOffset uint32) error {
	db.ingestMu.Lock()
	defer db.ingestMu.Unlock()
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.changes.Declare(signalID, variant, width); err != nil {
		return err
	}

	db.signals[signalID] = &signalState{
		variant:   variant,
		width:     width,
		lsbOffset: lsbOffset,
		forest:    forest.New(db.aggregatorFor(variant), variant, width),
	}

	return nil
}

// PushTimestep advances the ingest clock (§6). Fails with
// errs.ErrTimestepRegression if ts moves the clock backward.
func (db *DB) PushTimestep(ts uint64) error {
	db.ingestMu.Lock()
	defer db.ingestMu.Unlock()
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.changes.PushTimestep(ts)
}

// PushChange appends a ValueChange record for signalID at the current
// timestep and folds it into the signal's ImplicitForest as a new leaf
// (§6). fill is called once with a writable view over the record's
// packed bits (zero until written); its return value, if an error, aborts
// the record. Reserving the slice and folding the forest leaf both happen
// synchronously within this call, so the engine always folds exactly the
// bytes the caller wrote — there is no separate "commit" step for a
// caller to forget.
func (db *DB) PushChange(signalID uint32, fill func(logic.SliceMut) error) error {
	db.ingestMu.Lock()
	defer db.ingestMu.Unlock()
	db.mu.Lock()
	defer db.mu.Unlock()

	st, ok := db.signals[signalID]
	if !ok {
		return fmt.Errorf("%w: signal %d", errs.ErrUnknownSignal, signalID)
	}

	slice, err := db.changes.Append(signalID)
	if err != nil {
		return err
	}

	if fill != nil {
		if err := fill(slice); err != nil {
			return fmt.Errorf("waveform: fill signal %d: %w", signalID, err)
		}
	}

	ts, err := db.changes.CurrentTimestep()
	if err != nil {
		return err
	}
	st.forest.Push(forest.Bounds{Start: ts, End: ts}, slice.Slice)
	st.leafTimestamps = append(st.leafTimestamps, ts)

	return nil
}

// ListSignals returns every declared signal id, sorted ascending.
func (db *DB) ListSignals() []uint32 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	ids := make([]uint32, 0, len(db.signals))
	for id := range db.signals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// ScopeTree returns the scope/variable tree (read-only) (§6).
func (db *DB) ScopeTree() *meta.ScopeNode {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.registry.ScopeTree()
}

// ExportMetadata serializes the scope/variable tree to a compact,
// compressed byte form (§6, §9.1's supplement).
func (db *DB) ExportMetadata(compressionType format.CompressionType) ([]byte, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.registry.ExportMetadata(compressionType)
}

// IterChanges yields every ValueChange record for signalID in append
// order, each resolved to its absolute timestep and packed value (§6).
func (db *DB) IterChanges(signalID uint32) (iter.Seq2[uint64, logic.Slice], error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	it, err := db.changes.Iter(signalID)
	if err != nil {
		return nil, err
	}

	return func(yield func(uint64, logic.Slice) bool) {
		for offset := range it {
			tsIdx, value, err := db.changes.Fetch(signalID, offset)
			if err != nil {
				return
			}

			ts, err := db.changes.Timestep(tsIdx)
			if err != nil {
				return
			}

			if !yield(ts, value) {
				return
			}
		}
	}, nil
}

// Query folds signalID's changes over the timestep range [tStart, tEnd)
// into a single aggregate result (§6). It translates the timestep range
// to a leaf-index range via binary search over the signal's per-leaf
// timestamps, then calls ImplicitForest.query.
func (db *DB) Query(signalID uint32, tStart, tEnd uint64) (forest.Bounds, *logic.Array, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	st, ok := db.signals[signalID]
	if !ok {
		return forest.Bounds{}, nil, fmt.Errorf("%w: signal %d", errs.ErrUnknownSignal, signalID)
	}

	start := sort.Search(len(st.leafTimestamps), func(i int) bool { return st.leafTimestamps[i] >= tStart })
	end := sort.Search(len(st.leafTimestamps), func(i int) bool { return st.leafTimestamps[i] >= tEnd })

	return st.forest.Query(start, end)
}
