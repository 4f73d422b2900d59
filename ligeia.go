// Package ligeia provides a storage and query engine for digital-logic
// waveform traces: append-only per-signal change logs, an implicit
// segment-tree forest for O(log n) range-aggregate queries, and a
// supplemented scope/variable metadata registry.
//
// Ligeia is built for scenarios with many signals captured over a long
// simulation or capture run (e.g. thousands of bus/register signals over
// millions of timesteps), favoring compact bit-packed storage and
// amortized-constant ingest over general-purpose columnar flexibility.
//
// # Core Features
//
//   - Two/Four/Nine-valued logic packing (boolean, IEEE-1164-style X/Z,
//     full nine-value domains) at 8/4/2 units per byte
//   - Block-chained append-only ValueChange log per signal, transparently
//     spilling to mmap-backed storage under PagedAllocator once an
//     allocation crosses its configured threshold
//   - Implicit forest of complete binary segment trees per signal for
//     O(log n) range-aggregate queries, foldable with a pluggable
//     Aggregator
//   - Scope/variable metadata registry with a compact, compressed export
//     path for a separate renderer process
//
// # Basic Usage
//
// Ingest and query a single two-valued signal:
//
//	db, _ := ligeia.New()
//	defer db.Close()
//
//	db.DeclareScope(0, 1, "top")
//	db.DeclareVariable(1, "clk", meta.None())
//	db.DeclareSignal(7, format.Two, 1, 0)
//
//	db.PushTimestep(0)
//	db.PushChange(7, func(s logic.SliceMut) error { return s.Set(0, logic.TwoZero) })
//	db.PushTimestep(5)
//	db.PushChange(7, func(s logic.SliceMut) error { return s.Set(0, logic.TwoOne) })
//
//	_, result, _ := db.Query(7, 0, 10)
//
// # Package Structure
//
// This file provides a convenient top-level wrapper around waveform.DB,
// the engine's façade. For advanced configuration (a shared
// *paged.Allocator across multiple WaveformDBs, or a non-default
// Aggregator per logic variant), use the waveform package directly.
package ligeia

import (
	"github.com/lachlansneff/ligeia/aggregate"
	"github.com/lachlansneff/ligeia/format"
	"github.com/lachlansneff/ligeia/internal/options"
	"github.com/lachlansneff/ligeia/paged"
	"github.com/lachlansneff/ligeia/waveform"
)

// DB is the engine's entry point. It is an alias for waveform.DB so
// callers that only need the top-level wrapper never have to import the
// waveform package directly.
type DB = waveform.DB

// New creates an empty DB, applying the given functional options over
// waveform's default Config. A nil allocator option (the default)
// allocates a private *paged.Allocator for this DB alone.
func New(opts ...options.Option[*waveform.Config]) (*DB, error) {
	return waveform.New(opts...)
}

// WithAllocator uses alloc as the shared backing allocator instead of a
// private per-DB one. See paged.Default for the process-scoped shared
// allocator singleton.
func WithAllocator(alloc *paged.Allocator) options.Option[*waveform.Config] {
	return waveform.WithAllocator(alloc)
}

// WithAggregator overrides the Aggregator a logic variant's signals fold
// their ImplicitForest nodes with. See the aggregate package for the
// reference Max and TimestepBoundsOrDominates implementations.
func WithAggregator(variant format.LogicVariant, agg aggregate.Aggregator) options.Option[*waveform.Config] {
	return waveform.WithAggregator(variant, agg)
}
