// Package timestep implements TimestepTable (§4.3): the global deduplicated,
// monotone table of absolute timesteps that ValueChange records reference
// by index.
package timestep

import (
	"fmt"
	"math"

	"github.com/lachlansneff/ligeia/errs"
)

// Table is a monotone append-only sequence of absolute timesteps with
// random access by index. Random access needs to be O(1), which rules out
// reusing a sequential delta-compressed codec here; a plain growable slice
// is the whole implementation.
type Table struct {
	values []uint64
}

// New creates an empty Table.
func New() *Table {
	return &Table{}
}

// Len returns the number of distinct timesteps recorded.
func (t *Table) Len() int { return len(t.values) }

// Last returns the most recently pushed timestep and true, or (0, false)
// if the table is empty.
func (t *Table) Last() (uint64, bool) {
	if len(t.values) == 0 {
		return 0, false
	}

	return t.values[len(t.values)-1], true
}

// Push records ts as the current timestep. If ts equals the most recent
// value, no new entry is allocated and the existing index is returned
// (§4.3: "duplicates do not allocate an index"). Fails with
// errs.ErrTimestepRegression if ts is less than the most recent value, and
// with errs.ErrTimestepIndexOverflow if the table has already reached
// 2^32 entries.
func (t *Table) Push(ts uint64) (index uint32, err error) {
	if n := len(t.values); n > 0 {
		last := t.values[n-1]
		if ts == last {
			return uint32(n - 1), nil
		}
		if ts < last {
			return 0, fmt.Errorf("%w: pushed %d after %d", errs.ErrTimestepRegression, ts, last)
		}
	}

	if uint64(len(t.values)) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: table already holds 2^32 timesteps", errs.ErrTimestepIndexOverflow)
	}

	t.values = append(t.values, ts)

	return uint32(len(t.values) - 1), nil
}

// Get returns the absolute timestep at index. Fails with
// errs.ErrOutOfBounds if index is not a valid entry.
func (t *Table) Get(index uint32) (uint64, error) {
	if int(index) >= len(t.values) {
		return 0, fmt.Errorf("%w: timestep index %d, table has %d entries", errs.ErrOutOfBounds, index, len(t.values))
	}

	return t.values[index], nil
}
