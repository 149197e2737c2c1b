package circuit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateInverse(t *testing.T) {
	r := NewRotation(2, math.Pi/8)
	inv := r.Inverse()
	assert.Equal(t, -math.Pi/8, inv.Angle)
	assert.True(t, r.Equal(inv.Inverse()), "double inverse must be the identity")

	for _, g := range []Gate{NewBitFlip(0), NewHadamard(1), NewSwap(0, 3), NewCNOT(1, 2)} {
		assert.True(t, g.Equal(g.Inverse()), "%s must be self-inverse", g)
	}

	ctrl := NewRotation(0, 1.5).WithControls(4, 5)
	assert.Equal(t, []Wire{4, 5}, ctrl.Inverse().Controls, "inverse must keep controls")
}

func TestGateWithControls(t *testing.T) {
	g := NewBitFlip(0).WithControls(1)
	g2 := g.WithControls(2)
	g3 := g.WithControls(3)

	require.Equal(t, []Wire{1}, g.Controls)
	require.Equal(t, []Wire{1, 2}, g2.Controls)
	require.Equal(t, []Wire{1, 3}, g3.Controls, "control lists must not share backing storage")

	same := g.WithControls()
	assert.True(t, g.Equal(same))
}

func TestGateWires(t *testing.T) {
	assert.Equal(t, []Wire{2}, NewBitFlip(2).Wires())
	assert.Equal(t, []Wire{2, 5}, NewSwap(2, 5).Wires())
	assert.Equal(t, []Wire{3, 1, 7}, NewRotation(3, 1).WithControls(1, 7).Wires())
}

func TestGateEqual(t *testing.T) {
	assert.True(t, NewBitFlip(1).Equal(Gate{Kind: KindBitFlip, Target: 1, Controls: []Wire{}}), "nil and empty controls are equal")
	assert.False(t, NewRotation(0, 1).Equal(NewRotation(0, 2)))
	assert.False(t, NewSwap(0, 1).Equal(NewSwap(0, 2)))
	assert.False(t, NewBitFlip(0).Equal(NewHadamard(0)))
	assert.False(t, NewCNOT(1, 0).Equal(NewCNOT(2, 0)))

	// swaps are structural: operand order matters for Equal even though the
	// operation is symmetric
	assert.False(t, NewSwap(1, 0).Equal(NewSwap(0, 1)))
}

func TestGateString(t *testing.T) {
	assert.Equal(t, "X[3]", NewBitFlip(3).String())
	assert.Equal(t, "SWAP[1,2]", NewSwap(1, 2).String())
	assert.Equal(t, "X[0]c[2]", NewCNOT(2, 0).String())
}
