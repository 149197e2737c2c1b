package circuit

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/qforge/revmod/profile"
)

// Circuit is an ordered sequence of gates. The zero value is the empty
// circuit. A Circuit is immutable once built and safe to share read-only
// across repeated executions; all algebra operations return new circuits.
type Circuit struct {
	gates []Gate
}

// FromGates builds a circuit from the given gates. The slice is copied.
// Gates created through FromGates are sampled by active profiling sessions.
func FromGates(gates ...Gate) Circuit {
	profile.RecordGates(len(gates))
	out := make([]Gate, len(gates))
	copy(out, gates)
	return Circuit{gates: out}
}

// fromOwnedGates wraps a slice the caller guarantees not to retain.
func fromOwnedGates(gates []Gate) Circuit {
	return Circuit{gates: gates}
}

// NbGates returns the number of gates.
func (c Circuit) NbGates() int { return len(c.gates) }

// Gates returns the gate sequence, in execution order. The returned slice is
// a copy; it is what an executor consumes.
func (c Circuit) Gates() []Gate {
	out := make([]Gate, len(c.gates))
	copy(out, c.gates)
	return out
}

// Compose concatenates circuits in order. Composition is associative and
// order-preserving.
func Compose(cs ...Circuit) Circuit {
	n := 0
	for _, c := range cs {
		n += len(c.gates)
	}
	out := make([]Gate, 0, n)
	for _, c := range cs {
		out = append(out, c.gates...)
	}
	return fromOwnedGates(out)
}

// Adjoint returns the inverse circuit: gate order reversed, each gate
// inverted. Adjoint is an involution.
func (c Circuit) Adjoint() Circuit {
	out := make([]Gate, len(c.gates))
	for i, g := range c.gates {
		out[len(c.gates)-1-i] = g.Inverse()
	}
	return fromOwnedGates(out)
}

// Controlled wraps every gate of the circuit with the given additional control
// wires, preserving relative order. The controls must be distinct and disjoint
// from every wire used in the circuit; otherwise ErrWireConflict is returned.
//
// Controlled commutes with Adjoint: c.Adjoint().Controlled(w) equals
// c.Controlled(w) followed by Adjoint.
func (c Circuit) Controlled(controls ...Wire) (Circuit, error) {
	if err := Disjoint(controls); err != nil {
		return Circuit{}, err
	}
	support := c.Wires()
	for _, ctrl := range controls {
		if support.Test(uint(ctrl)) {
			return Circuit{}, fmt.Errorf("%w: control wire %d is used by the circuit", ErrWireConflict, ctrl)
		}
	}
	out := make([]Gate, len(c.gates))
	for i, g := range c.gates {
		out[i] = g.WithControls(controls...)
	}
	return fromOwnedGates(out), nil
}

// Wires returns the set of wires the circuit touches, controls included.
func (c Circuit) Wires() *bitset.BitSet {
	support := bitset.New(64)
	for _, g := range c.gates {
		for _, w := range g.Wires() {
			if w >= 0 {
				support.Set(uint(w))
			}
		}
	}
	return support
}

// Equal reports structural equality of the two gate sequences.
func (c Circuit) Equal(other Circuit) bool {
	if len(c.gates) != len(other.gates) {
		return false
	}
	for i := range c.gates {
		if !c.gates[i].Equal(other.gates[i]) {
			return false
		}
	}
	return true
}
