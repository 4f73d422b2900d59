// Package errs defines the sentinel error taxonomy shared across the
// storage engine. Callers match a specific failure with errors.Is against
// one of these sentinels; wrapped detail is added with fmt.Errorf("%w: ...").
package errs

import "errors"

var (
	// ErrOutOfBounds is returned for a LogicSlice/LogicArray index, forest
	// leaf index, or timestep index outside its valid range.
	ErrOutOfBounds = errors.New("out of bounds")

	// ErrRangeOutOfBounds is returned when an ImplicitForest query range
	// falls outside [0, leaf_count).
	ErrRangeOutOfBounds = errors.New("range out of bounds")

	// ErrUnknownSignal is returned for any operation against a signal id
	// that was never declared.
	ErrUnknownSignal = errors.New("unknown signal")

	// ErrAlreadyDeclared is returned when a signal id is declared twice.
	ErrAlreadyDeclared = errors.New("signal already declared")

	// ErrWidthZero is returned when a signal is declared with width 0.
	ErrWidthZero = errors.New("width must be non-zero")

	// ErrWidthMismatch is returned when a caller's width does not match a
	// signal's declared width.
	ErrWidthMismatch = errors.New("width mismatch")

	// ErrTimestepRegression is returned when ingest attempts to move the
	// timestep clock backward.
	ErrTimestepRegression = errors.New("timestep regression")

	// ErrTimestepIndexOverflow is returned when more than 2^32 distinct
	// timesteps have been pushed.
	ErrTimestepIndexOverflow = errors.New("timestep index overflow")

	// ErrInvalidEncoding is returned when a packed byte decodes to a
	// bit-pattern outside a logic variant's defined set.
	ErrInvalidEncoding = errors.New("invalid logic encoding")

	// ErrConversionLossy is returned when a logic unit has no
	// representation in the target variant.
	ErrConversionLossy = errors.New("lossy logic conversion")

	// ErrAllocFailure is returned when PagedAllocator exhausts both the
	// heap and mmap paths.
	ErrAllocFailure = errors.New("allocation failure")

	// ErrUnknownScope is returned when declare_variable or declare_scope
	// references a scope id that was never declared.
	ErrUnknownScope = errors.New("unknown scope")
)
