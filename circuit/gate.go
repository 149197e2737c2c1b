// Package circuit defines the wire/register model, the primitive reversible
// gate variants and the circuit algebra (composition, adjoint and
// control-wrapping) used by the operator builders in package arith.
//
// A Gate is a closed tagged variant; every variant has a well-defined inverse
// and a well-defined controlled-wrapped form, so adjoint and control-wrapping
// of whole circuits are structural folds over the gate list.
package circuit

import (
	"fmt"
	"strings"
)

// Kind discriminates the primitive gate variants.
type Kind uint8

const (
	// KindRotation is a phase rotation: the |1> component of the target wire
	// picks up the phase e^(i*Angle).
	KindRotation Kind = iota + 1
	// KindBitFlip is the bit flip (X) gate. With one control wire it is the
	// controlled bit flip (CNOT).
	KindBitFlip
	// KindHadamard is the one-wire basis change out of which the Fourier
	// transform is built.
	KindHadamard
	// KindSwap exchanges two wires.
	KindSwap
)

func (k Kind) String() string {
	switch k {
	case KindRotation:
		return "R"
	case KindBitFlip:
		return "X"
	case KindHadamard:
		return "H"
	case KindSwap:
		return "SWAP"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Gate is a primitive reversible operation over one or two wires. Any variant
// may carry additional control wires; the gate then acts only where every
// control wire is 1. Control wires must be distinct from the acted-on wires.
type Gate struct {
	Kind   Kind
	Target Wire
	// Other is the second wire of a swap. Unused by the other variants.
	Other Wire
	// Angle is the rotation angle in radians. Unused by the other variants.
	Angle float64
	// Controls is nil for an unconditional gate.
	Controls []Wire
}

// NewRotation returns a phase rotation of the given angle on target.
func NewRotation(target Wire, angle float64) Gate {
	return Gate{Kind: KindRotation, Target: target, Angle: angle}
}

// NewBitFlip returns a bit flip on target.
func NewBitFlip(target Wire) Gate {
	return Gate{Kind: KindBitFlip, Target: target}
}

// NewCNOT returns a bit flip on target controlled on control.
func NewCNOT(control, target Wire) Gate {
	return Gate{Kind: KindBitFlip, Target: target, Controls: []Wire{control}}
}

// NewHadamard returns a Hadamard gate on target.
func NewHadamard(target Wire) Gate {
	return Gate{Kind: KindHadamard, Target: target}
}

// NewSwap returns a swap of wires a and b.
func NewSwap(a, b Wire) Gate {
	return Gate{Kind: KindSwap, Target: a, Other: b}
}

// Inverse returns the inverse gate. Bit flips, Hadamards and swaps are their
// own inverse; a rotation inverts by negating its angle. Controls carry over
// unchanged.
func (g Gate) Inverse() Gate {
	inv := g
	if g.Kind == KindRotation {
		inv.Angle = -g.Angle
	}
	return inv
}

// WithControls returns a copy of the gate extended with the given control
// wires. The receiver's control list is not shared with the result.
func (g Gate) WithControls(extra ...Wire) Gate {
	if len(extra) == 0 {
		return g
	}
	out := g
	out.Controls = make([]Wire, 0, len(g.Controls)+len(extra))
	out.Controls = append(out.Controls, g.Controls...)
	out.Controls = append(out.Controls, extra...)
	return out
}

// Wires returns every wire the gate touches, target(s) first, then controls.
func (g Gate) Wires() []Wire {
	out := make([]Wire, 0, 2+len(g.Controls))
	out = append(out, g.Target)
	if g.Kind == KindSwap {
		out = append(out, g.Other)
	}
	out = append(out, g.Controls...)
	return out
}

// Equal reports structural equality. A nil and an empty control list are
// considered equal.
func (g Gate) Equal(other Gate) bool {
	if g.Kind != other.Kind || g.Target != other.Target {
		return false
	}
	if g.Kind == KindSwap && g.Other != other.Other {
		return false
	}
	if g.Kind == KindRotation && g.Angle != other.Angle {
		return false
	}
	if len(g.Controls) != len(other.Controls) {
		return false
	}
	for i := range g.Controls {
		if g.Controls[i] != other.Controls[i] {
			return false
		}
	}
	return true
}

func (g Gate) String() string {
	var sb strings.Builder
	sb.WriteString(g.Kind.String())
	if g.Kind == KindRotation {
		fmt.Fprintf(&sb, "(%g)", g.Angle)
	}
	if g.Kind == KindSwap {
		fmt.Fprintf(&sb, "[%d,%d]", g.Target, g.Other)
	} else {
		fmt.Fprintf(&sb, "[%d]", g.Target)
	}
	if len(g.Controls) > 0 {
		sb.WriteString("c")
		fmt.Fprintf(&sb, "%v", g.Controls)
	}
	return sb.String()
}
