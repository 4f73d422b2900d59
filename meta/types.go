// Package meta implements the supplemented scope/variable metadata
// registry (§3.1): the arena-based grouping tree over variables, their
// interpretation tags, and the byte-serialized export path a separate
// renderer process can consume.
package meta

import "github.com/lachlansneff/ligeia/logic"

// Scope is a named node in the arena-based grouping tree over variables.
// Scope 0 is the implicit root: its ParentID is always 0 (the
// self-referencing sentinel), and it is present in every Registry without
// being separately declared.
type Scope struct {
	ID       uint32
	ParentID uint32
	Name     string
}

// IsRoot reports whether this scope is the implicit root (id 0, or any
// scope whose parent sentinel points at itself).
func (s Scope) IsRoot() bool { return s.ParentID == s.ID }

// Signedness is how an Integer interpretation's reassembled bus should be
// read.
type Signedness uint8

const (
	Unsigned             Signedness = iota // Unsigned: no sign extension.
	SignedTwosComplement                   // SignedTwosComplement: the MSB is a sign bit.
)

// InterpretationKind tags which variant of Interpretation is populated.
type InterpretationKind uint8

const (
	// InterpretationNone is opaque: no semantic interpretation beyond
	// the raw signal(s).
	InterpretationNone InterpretationKind = iota
	// InterpretationInteger reassembles a multi-bit bus from one or
	// more signals.
	InterpretationInteger
	// InterpretationEnum names the states of a single signal (e.g. an
	// FSM state bus).
	InterpretationEnum
	// InterpretationUtf8 interprets a single signal's changes as UTF-8
	// text.
	InterpretationUtf8
)

// EnumEntry names one state of an Enum interpretation.
type EnumEntry struct {
	Value *logic.Array
	Name  string
}

// Interpretation is the tagged union describing how to read a variable's
// signal(s) (§3.1). Only the fields relevant to Kind are populated.
type Interpretation struct {
	Kind InterpretationKind

	// Integer fields.
	SignalIDs  []uint32
	MSB, LSB   uint32
	Signedness Signedness

	// Enum/Utf8 fields.
	SignalID uint32
	Entries  []EnumEntry // Enum only
}

// None returns the opaque interpretation.
func None() Interpretation {
	return Interpretation{Kind: InterpretationNone}
}

// Integer returns an Interpretation reassembling signalIDs into a
// [lsb, msb] bus with the given signedness.
func Integer(signalIDs []uint32, msb, lsb uint32, signedness Signedness) Interpretation {
	return Interpretation{
		Kind:       InterpretationInteger,
		SignalIDs:  signalIDs,
		MSB:        msb,
		LSB:        lsb,
		Signedness: signedness,
	}
}

// Enum returns an Interpretation naming signalID's states.
func Enum(signalID uint32, entries []EnumEntry) Interpretation {
	return Interpretation{Kind: InterpretationEnum, SignalID: signalID, Entries: entries}
}

// Utf8 returns an Interpretation reading signalID's changes as text.
func Utf8(signalID uint32) Interpretation {
	return Interpretation{Kind: InterpretationUtf8, SignalID: signalID}
}

// Variable is a named, interpreted view over one or more signals,
// declared under a single parent Scope.
type Variable struct {
	ScopeID        uint32
	Name           string
	Interpretation Interpretation
}
