package arith_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qforge/revmod/arith"
	"github.com/qforge/revmod/circuit"
	"github.com/qforge/revmod/simulator"
	"github.com/qforge/revmod/test"
)

func TestFourierAdjointIdentity(t *testing.T) {
	assert := test.NewAssert(t)

	for width := 1; width <= 4; width++ {
		alloc := circuit.NewAllocator()
		reg, err := alloc.AllocRegister(width)
		assert.NoError(err)
		qft, err := arith.Fourier(reg)
		assert.NoError(err)
		roundTrip := circuit.Compose(qft, qft.Adjoint())

		for a := uint64(0); a < uint64(1)<<width; a++ {
			assert.Maps(alloc.NbWires(), roundTrip,
				[]test.BasisState{{Reg: reg, Value: a}},
				[]test.BasisState{{Reg: reg, Value: a}},
			)
		}
	}
}

// TestSumKAddsModPowerOfTwo checks the basis-change convention end to end:
// conjugating SumK(k) by the Fourier transform must add k modulo 2^width.
func TestSumKAddsModPowerOfTwo(t *testing.T) {
	assert := test.NewAssert(t)

	for width := 1; width <= 4; width++ {
		alloc := circuit.NewAllocator()
		reg, err := alloc.AllocRegister(width)
		assert.NoError(err)
		qft, err := arith.Fourier(reg)
		assert.NoError(err)

		mod := uint64(1) << width
		for k := uint64(0); k < mod; k++ {
			sum, err := arith.SumK(k, reg)
			assert.NoError(err)
			adder := circuit.Compose(qft, sum, qft.Adjoint())
			for a := uint64(0); a < mod; a++ {
				assert.Maps(alloc.NbWires(), adder,
					[]test.BasisState{{Reg: reg, Value: a}},
					[]test.BasisState{{Reg: reg, Value: (a + k) % mod}},
				)
			}
		}
	}
}

// SumK reduces its constant modulo the wire period, so adding a constant far
// above the register range is exact.
func TestSumKLargeConstant(t *testing.T) {
	assert := test.NewAssert(t)

	alloc := circuit.NewAllocator()
	reg, err := alloc.AllocRegister(3)
	assert.NoError(err)
	qft, err := arith.Fourier(reg)
	assert.NoError(err)

	const k = uint64(1)<<63 + 5
	sum, err := arith.SumK(k, reg)
	assert.NoError(err)
	assert.Maps(alloc.NbWires(), circuit.Compose(qft, sum, qft.Adjoint()),
		[]test.BasisState{{Reg: reg, Value: 2}},
		[]test.BasisState{{Reg: reg, Value: (2 + k) % 8}},
	)
}

func TestFourierStructure(t *testing.T) {
	reg := circuit.Register{0}
	qft, err := arith.Fourier(reg)
	require.NoError(t, err)
	require.Equal(t, 1, qft.NbGates())
	assert.Equal(t, circuit.KindHadamard, qft.Gates()[0].Kind)

	reg4 := circuit.Register{3, 2, 1, 0}
	qft4, err := arith.Fourier(reg4)
	require.NoError(t, err)
	// n Hadamards, n(n-1)/2 controlled rotations, floor(n/2) swaps
	assert.Equal(t, 4+6+2, qft4.NbGates())
}

func TestFourierSuperposition(t *testing.T) {
	// on the all-zero state the transform yields the uniform superposition
	alloc := circuit.NewAllocator()
	reg, err := alloc.AllocRegister(3)
	require.NoError(t, err)
	qft, err := arith.Fourier(reg)
	require.NoError(t, err)

	s, err := simulator.New(alloc.NbWires())
	require.NoError(t, err)
	require.NoError(t, s.Run(qft))
	for v := uint64(0); v < 8; v++ {
		assert.InDelta(t, 1.0/8, s.Probability(reg, v), 1e-12, "value %d", v)
	}
}

func TestFourierErrors(t *testing.T) {
	_, err := arith.Fourier(circuit.Register{})
	assert.ErrorIs(t, err, circuit.ErrInvalidParameter)
	_, err = arith.Fourier(circuit.Register{1, 1})
	assert.ErrorIs(t, err, circuit.ErrWireConflict)
	_, err = arith.SumK(1, circuit.Register{})
	assert.ErrorIs(t, err, circuit.ErrInvalidParameter)
}
