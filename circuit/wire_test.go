package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	r := Register{5, 3, 1}
	assert.Equal(t, 3, r.Width())
	assert.Equal(t, Wire(5), r.MSB())
	assert.Equal(t, Wire(1), r.LSB())
	assert.NoError(t, r.Validate())

	assert.ErrorIs(t, Register{}.Validate(), ErrInvalidParameter)
	assert.ErrorIs(t, Register{1, 1}.Validate(), ErrWireConflict)
	assert.ErrorIs(t, Register{0, -1}.Validate(), ErrInvalidParameter)
}

func TestDisjoint(t *testing.T) {
	assert.NoError(t, Disjoint([]Wire{0, 1}, []Wire{2, 3}))
	assert.ErrorIs(t, Disjoint([]Wire{0, 1}, []Wire{1, 2}), ErrWireConflict)
	assert.ErrorIs(t, Disjoint([]Wire{-2}), ErrInvalidParameter)
	assert.NoError(t, Disjoint())
}

func TestAllocator(t *testing.T) {
	a := NewAllocator()
	w0 := a.Alloc()
	w1 := a.Alloc()
	require.Equal(t, Wire(0), w0)
	require.Equal(t, Wire(1), w1)

	reg, err := a.AllocRegister(3)
	require.NoError(t, err)
	require.Equal(t, Register{2, 3, 4}, reg)
	require.Equal(t, 5, a.NbWires())

	// freed wires are reused lowest-id first, high-water mark is unchanged
	a.Free(w1, reg[0])
	assert.Equal(t, Wire(1), a.Alloc())
	assert.Equal(t, Wire(2), a.Alloc())
	assert.Equal(t, Wire(5), a.Alloc())
	assert.Equal(t, 6, a.NbWires())

	_, err = a.AllocRegister(0)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}
