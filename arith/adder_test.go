package arith_test

import (
	"math/bits"
	"testing"

	"github.com/qforge/revmod/arith"
	"github.com/qforge/revmod/circuit"
	"github.com/qforge/revmod/test"
)

// regWidth returns the smallest register width holding any value < N.
func regWidth(N uint64) int {
	return bits.Len64(N - 1)
}

func TestAddRegMod(t *testing.T) {
	assert := test.NewAssert(t)

	for _, N := range []uint64{2, 3, 5, 6} {
		alloc := circuit.NewAllocator()
		regA, err := alloc.AllocRegister(regWidth(N))
		assert.NoError(err)
		regB, err := alloc.AllocRegister(regWidth(N))
		assert.NoError(err)
		overflow := alloc.Alloc()
		support := alloc.Alloc()

		c, err := arith.AddRegMod(N, regA, regB, overflow, support)
		assert.NoError(err)

		for a := uint64(0); a < N; a++ {
			for b := uint64(0); b < N; b++ {
				assert.Maps(alloc.NbWires(), c,
					[]test.BasisState{{Reg: regA, Value: a}, {Reg: regB, Value: b}},
					[]test.BasisState{{Reg: regA, Value: a}, {Reg: regB, Value: (a + b) % N}},
					overflow, support,
				)
			}
		}
	}
}

func TestAddRegModAdjoint(t *testing.T) {
	assert := test.NewAssert(t)

	const N = 5
	alloc := circuit.NewAllocator()
	regA, err := alloc.AllocRegister(3)
	assert.NoError(err)
	regB, err := alloc.AllocRegister(3)
	assert.NoError(err)
	overflow := alloc.Alloc()
	support := alloc.Alloc()

	c, err := arith.AddRegMod(N, regA, regB, overflow, support)
	assert.NoError(err)
	roundTrip := circuit.Compose(c, c.Adjoint())

	for a := uint64(0); a < N; a++ {
		for b := uint64(0); b < N; b++ {
			assert.Maps(alloc.NbWires(), roundTrip,
				[]test.BasisState{{Reg: regA, Value: a}, {Reg: regB, Value: b}},
				[]test.BasisState{{Reg: regA, Value: a}, {Reg: regB, Value: b}},
				overflow, support,
			)
		}
	}
}

func TestAddOut(t *testing.T) {
	assert := test.NewAssert(t)

	for _, N := range []uint64{3, 5} {
		alloc := circuit.NewAllocator()
		regA, err := alloc.AllocRegister(regWidth(N))
		assert.NoError(err)
		regB, err := alloc.AllocRegister(regWidth(N))
		assert.NoError(err)
		regRes, err := alloc.AllocRegister(regWidth(N))
		assert.NoError(err)
		overflow := alloc.Alloc()
		support := alloc.Alloc()

		c, err := arith.AddOut(N, regA, regB, regRes, overflow, support)
		assert.NoError(err)

		for a := uint64(0); a < N; a++ {
			for b := uint64(0); b < N; b++ {
				assert.Maps(alloc.NbWires(), c,
					[]test.BasisState{{Reg: regA, Value: a}, {Reg: regB, Value: b}},
					[]test.BasisState{
						{Reg: regA, Value: a},
						{Reg: regB, Value: b},
						{Reg: regRes, Value: (a + b) % N},
					},
					overflow, support,
				)
			}
		}
	}
}

func TestAdderErrors(t *testing.T) {
	assert := test.NewAssert(t)

	regA := circuit.Register{2, 1, 0}
	regB := circuit.Register{5, 4, 3}

	// overlapping operands
	_, err := arith.AddRegMod(5, regA, regA, 6, 7)
	assert.ErrorIs(err, circuit.ErrWireConflict)

	// ancilla inside an operand
	_, err = arith.AddRegMod(5, regA, regB, 0, 7)
	assert.ErrorIs(err, circuit.ErrWireConflict)

	// modulus too large for regB
	_, err = arith.AddRegMod(9, regA, regB, 6, 7)
	assert.ErrorIs(err, circuit.ErrInvalidParameter)

	// result register width mismatch
	_, err = arith.AddOut(5, regA, regB, circuit.Register{7, 6}, 8, 9)
	assert.ErrorIs(err, circuit.ErrWidthMismatch)
}

func TestAddRegModDeterministic(t *testing.T) {
	assert := test.NewAssert(t)
	assert.Deterministic(func() (circuit.Circuit, error) {
		return arith.AddRegMod(5, circuit.Register{2, 1, 0}, circuit.Register{5, 4, 3}, 6, 7)
	})
}
