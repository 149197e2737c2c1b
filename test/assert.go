// Package test provides helpers to test synthesized circuits: basis-mapping
// checks against the reference simulator, ancilla-restoration checks,
// synthesis determinism and serialization round trips.
package test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/qforge/revmod/circuit"
	"github.com/qforge/revmod/simulator"
)

// Assert is a helper to test circuits
type Assert struct {
	t *testing.T
	*require.Assertions
}

// NewAssert returns an Assert helper embedding a testify/require object for
// convenience
func NewAssert(t *testing.T) *Assert {
	return &Assert{t: t, Assertions: require.New(t)}
}

// Run runs the test function fn as a subtest. The subtest is parametrized by
// the description strings descs.
func (a *Assert) Run(fn func(assert *Assert), descs ...string) {
	desc := strings.Join(descs, "/")
	a.t.Run(desc, func(t *testing.T) {
		assert := &Assert{t, require.New(t)}
		fn(assert)
	})
}

// BasisState binds a register to a classical value.
type BasisState struct {
	Reg   circuit.Register
	Value uint64
}

// Maps executes c on a fresh nbWires-wide state prepared with the in
// assignment and checks that every register of out reads back its expected
// value and that every wire of zeroed reads 0.
func (a *Assert) Maps(nbWires int, c circuit.Circuit, in, out []BasisState, zeroed ...circuit.Wire) {
	s, err := simulator.New(nbWires)
	a.NoError(err)
	for _, b := range in {
		a.NoError(s.Prepare(b.Reg, b.Value))
	}
	a.NoError(s.Run(c))
	for _, b := range out {
		got, err := s.Value(b.Reg)
		a.NoError(err)
		a.Equal(b.Value, got, "register read back %d, expected %d", got, b.Value)
	}
	for _, w := range zeroed {
		a.InDelta(1.0, s.ProbabilityZero(w), 1e-6, "ancilla wire %d not restored to 0", w)
	}
}

// Deterministic checks that two synthesis calls produce structurally equal
// circuits and byte-identical serializations.
func (a *Assert) Deterministic(build func() (circuit.Circuit, error)) {
	c1, err := build()
	a.NoError(err)
	c2, err := build()
	a.NoError(err)
	a.Empty(cmp.Diff(c1.Gates(), c2.Gates(), cmpopts.EquateEmpty()))

	b1, err := c1.ToBytes()
	a.NoError(err)
	b2, err := c2.ToBytes()
	a.NoError(err)
	a.Equal(b1, b2)
}

// RoundTrips checks that serialization of c round trips and preserves the
// fingerprint.
func (a *Assert) RoundTrips(c circuit.Circuit) {
	data, err := c.ToBytes()
	a.NoError(err)
	var back circuit.Circuit
	n, err := back.FromBytes(data)
	a.NoError(err)
	a.Equal(len(data), n)
	a.True(c.Equal(back), "decoded circuit differs from the original")

	fp1, err := c.Fingerprint()
	a.NoError(err)
	fp2, err := back.Fingerprint()
	a.NoError(err)
	a.Equal(fp1, fp2)
}
