package circuit_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qforge/revmod"
	"github.com/qforge/revmod/circuit"
	"github.com/qforge/revmod/test"
)

func sampleCircuit() circuit.Circuit {
	return circuit.FromGates(
		circuit.NewHadamard(0),
		circuit.NewRotation(1, math.Pi/4),
		circuit.NewRotation(2, -math.Pi/8).WithControls(0, 3),
		circuit.NewCNOT(3, 1),
		circuit.NewSwap(0, 2).WithControls(4),
		circuit.NewBitFlip(4),
	)
}

func TestSerializationRoundTrip(t *testing.T) {
	assert := test.NewAssert(t)

	assert.RoundTrips(sampleCircuit())
	assert.RoundTrips(circuit.Circuit{})
	assert.RoundTrips(circuit.FromGates(circuit.NewRotation(1000000, 1e-12)))
}

func TestSerializationDeterministic(t *testing.T) {
	c := sampleCircuit()
	b1, err := c.ToBytes()
	require.NoError(t, err)
	b2, err := c.ToBytes()
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestFingerprint(t *testing.T) {
	c := sampleCircuit()
	fp1, err := c.Fingerprint()
	require.NoError(t, err)
	fp2, err := c.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, fp1, fp2)

	different, err := circuit.FromGates(circuit.NewBitFlip(0)).Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, fp1, different)

	// a changed angle must change the fingerprint
	tweaked, err := circuit.FromGates(circuit.NewRotation(0, 1.0)).Fingerprint()
	require.NoError(t, err)
	base, err := circuit.FromGates(circuit.NewRotation(0, 1.0000001)).Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, tweaked, base)
}

func TestFromBytesErrors(t *testing.T) {
	var c circuit.Circuit

	_, err := c.FromBytes(nil)
	assert.Error(t, err)

	data, err := sampleCircuit().ToBytes()
	require.NoError(t, err)

	// corrupt magic
	bad := append([]byte(nil), data...)
	bad[0] ^= 0xff
	_, err = c.FromBytes(bad)
	assert.Error(t, err)

	// truncated payload
	_, err = c.FromBytes(data[:len(data)-1])
	assert.Error(t, err)
}

// Hostile section lengths in the header must be rejected before slicing: a
// length with the top bit set used to overflow the total and panic.
func TestFromBytesHeaderBounds(t *testing.T) {
	data, err := sampleCircuit().ToBytes()
	require.NoError(t, err)

	var c circuit.Circuit
	for _, tc := range []struct {
		name   string
		offset int
		length uint64
	}{
		{"tags top bit", 8, 1 << 63},
		{"ids top bit", 16, 1 << 63},
		{"body top bit", 24, 1 << 63},
		{"tags beyond input", 8, uint64(len(data))},
		{"sections sum beyond input", 16, uint64(len(data)) - 32},
	} {
		t.Run(tc.name, func(t *testing.T) {
			bad := append([]byte(nil), data...)
			binary.LittleEndian.PutUint64(bad[tc.offset:tc.offset+8], tc.length)
			_, err := c.FromBytes(bad)
			assert.Error(t, err)
		})
	}
}

// Decoded counts must be capped by the bytes present, not trusted for
// allocation sizes.
func TestFromBytesCorruptCounts(t *testing.T) {
	empty, err := circuit.Circuit{}.ToBytes()
	require.NoError(t, err)
	var c circuit.Circuit

	// the wire-id section of the empty circuit is its leading word count;
	// inflate it without providing the words
	idsStart := 32
	huge := append([]byte(nil), empty...)
	binary.LittleEndian.PutUint64(huge[idsStart:idsStart+8], 1<<40)
	_, err = c.FromBytes(huge)
	assert.Error(t, err)

	// a body declaring a huge gate count over an empty tag section
	bodyBytes, err := cbor.Marshal(map[int]interface{}{
		1: revmod.Version.String(),
		2: uint64(1) << 40,
		3: []float64{},
	})
	require.NoError(t, err)
	bodyLen := binary.LittleEndian.Uint64(empty[24:32])
	crafted := append([]byte(nil), empty[:uint64(len(empty))-bodyLen]...)
	crafted = append(crafted, bodyBytes...)
	binary.LittleEndian.PutUint64(crafted[24:32], uint64(len(bodyBytes)))
	_, err = c.FromBytes(crafted)
	assert.Error(t, err)
}

func TestFromBytesTrailingData(t *testing.T) {
	c := sampleCircuit()
	data, err := c.ToBytes()
	require.NoError(t, err)

	// trailing bytes after the encoded circuit are left unread
	var back circuit.Circuit
	n, err := back.FromBytes(append(data, 0xde, 0xad))
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.True(t, c.Equal(back))
}
