package circuit

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Wire is an opaque identifier of a single wire. Wires are unique within a
// circuit; an Allocator must be used to obtain fresh, non-overlapping ids.
type Wire int

// Register is an ordered sequence of wires representing one unsigned binary
// integer, most-significant wire first. Its width is fixed at construction;
// builder functions borrow registers and never resize them.
type Register []Wire

// Width returns the number of wires of the register.
func (r Register) Width() int { return len(r) }

// MSB returns the most-significant wire.
func (r Register) MSB() Wire { return r[0] }

// LSB returns the least-significant wire.
func (r Register) LSB() Wire { return r[len(r)-1] }

// Validate checks that the register is non-empty and made of distinct,
// non-negative wires.
func (r Register) Validate() error {
	if len(r) == 0 {
		return fmt.Errorf("%w: empty register", ErrInvalidParameter)
	}
	return Disjoint(r)
}

// Disjoint checks that all wires across all groups are distinct and
// non-negative. It returns ErrWireConflict (wrapped, naming the offending
// wire) otherwise.
func Disjoint(groups ...[]Wire) error {
	seen := bitset.New(64)
	for _, group := range groups {
		for _, w := range group {
			if w < 0 {
				return fmt.Errorf("%w: negative wire id %d", ErrInvalidParameter, w)
			}
			if seen.Test(uint(w)) {
				return fmt.Errorf("%w: wire %d used twice", ErrWireConflict, w)
			}
			seen.Set(uint(w))
		}
	}
	return nil
}

// Allocator issues fresh wire identifiers and tracks a free list so that
// released ancilla wires can be reused. Releasing a wire is only legal once it
// is logically reset to 0; that responsibility stays with the caller.
//
// An Allocator is not safe for concurrent use; circuit construction is a
// single-goroutine computation.
type Allocator struct {
	inUse *bitset.BitSet
	next  int // high-water mark, one past the largest wire ever issued
}

// NewAllocator returns an empty allocator.
func NewAllocator() *Allocator {
	return &Allocator{inUse: bitset.New(64)}
}

// Alloc returns a fresh wire. Freed wires are reused lowest-id first, which
// keeps allocation deterministic.
func (a *Allocator) Alloc() Wire {
	if w, ok := a.inUse.NextClear(0); ok && w < uint(a.next) {
		a.inUse.Set(w)
		return Wire(w)
	}
	w := a.next
	a.inUse.Set(uint(w))
	a.next++
	return Wire(w)
}

// AllocRegister returns a register of width fresh wires, most-significant
// first.
func (a *Allocator) AllocRegister(width int) (Register, error) {
	if width < 1 {
		return nil, fmt.Errorf("%w: register width %d", ErrInvalidParameter, width)
	}
	r := make(Register, width)
	for i := range r {
		r[i] = a.Alloc()
	}
	return r, nil
}

// Free returns wires to the free pool. The caller asserts they are logically
// reset to 0.
func (a *Allocator) Free(ws ...Wire) {
	for _, w := range ws {
		if w >= 0 {
			a.inUse.Clear(uint(w))
		}
	}
}

// NbWires returns the total number of distinct wires ever issued. It is the
// state width an executor needs to run circuits built over this allocator.
func (a *Allocator) NbWires() int { return a.next }
