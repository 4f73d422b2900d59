package aggregate

import (
	"github.com/lachlansneff/ligeia/format"
	"github.com/lachlansneff/ligeia/logic"
)

// TimestepBoundsOrDominates is the reference "or-with-unknown-dominates"
// aggregator (§4.4, §9): it behaves as a boolean OR over the variant's
// defined 0/1 states, except that if either operand carries any
// uncertainty (X, Z, or an unknown/high-impedance Nine state) the
// uncertainty wins over a definite result. Weak Nine 0/1 states count as
// definite 0/1. Its name records that it is exercised together
// with the forest's always-on timestep-bounds union, not that it combines
// bounds itself.
type TimestepBoundsOrDominates struct{}

// tri is the three-state projection every variant's domain collapses to
// before the dominance rule is applied.
type tri int

const (
	triZero tri = iota
	triOne
	triUnknown
)

func toTri(variant format.LogicVariant, u logic.Unit) tri {
	switch variant {
	case format.Two:
		if u == logic.TwoOne {
			return triOne
		}
		return triZero
	case format.Four:
		switch u {
		case logic.FourOne:
			return triOne
		case logic.FourZero:
			return triZero
		default: // FourUnknown, FourHighZ
			return triUnknown
		}
	default: // format.Nine
		switch u {
		case logic.NineOneStrong, logic.NineOneWeak:
			return triOne
		case logic.NineZeroStrong, logic.NineZeroWeak:
			return triZero
		default: // unknown/high-Z variants, incl. strong/weak unknown
			return triUnknown
		}
	}
}

func fromTri(variant format.LogicVariant, t tri) logic.Unit {
	switch variant {
	case format.Two:
		if t == triOne {
			return logic.TwoOne
		}
		return logic.TwoZero
	case format.Four:
		switch t {
		case triOne:
			return logic.FourOne
		case triZero:
			return logic.FourZero
		default:
			return logic.FourUnknown
		}
	default: // format.Nine
		switch t {
		case triOne:
			return logic.NineOneStrong
		case triZero:
			return logic.NineZeroStrong
		default:
			return logic.NineUnknownStrong
		}
	}
}

// CombineUnit ORs lhs and rhs's definite values, but yields to whichever
// side is more uncertain (unknown beats one beats zero) the moment they
// differ. It returns the dominant side's exact raw unit rather than a
// resynthesized representative, so a HighZ or weak state survives a
// combine against a definite Zero unchanged; ties (both sides project to
// the same tri-state) keep lhs's raw unit. This leftmost-on-tie rule is
// what keeps the combine associative despite Four and Nine having more
// than one raw representative per tri-state.
func (TimestepBoundsOrDominates) CombineUnit(variant format.LogicVariant, lhs, rhs logic.Unit) logic.Unit {
	l, r := toTri(variant, lhs), toTri(variant, rhs)

	if r > l {
		return rhs
	}

	return lhs
}

// EmptyUnit returns the variant's strong zero/false representative, the
// identity for OR. Because ties keep lhs, combining it with another raw
// zero representative (Nine's NineZeroWeak) yields NineZeroStrong, not
// the other operand.
func (TimestepBoundsOrDominates) EmptyUnit(variant format.LogicVariant) logic.Unit {
	return fromTri(variant, triZero)
}
