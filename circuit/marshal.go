package circuit

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/blang/semver/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/icza/bitio"
	"github.com/ronanh/intcomp"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"

	"github.com/qforge/revmod"
)

// Serialized layout: a fixed-size header (magic + section lengths), a
// bit-packed gate-kind section, an integer-compressed wire-id section and a
// cbor body (version, gate count, rotation angles). The encoding is
// deterministic: equal circuits serialize to identical bytes, so the
// fingerprint can serve as a cache key.

var magic = [8]byte{'r', 'e', 'v', 'm', 'o', 'd', 'c', '1'}

const headerLen = 8 + 3*8

const kindBits = 3

type header struct {
	tagsLen uint64
	idsLen  uint64
	bodyLen uint64
}

func (h header) toBytes() []byte {
	buf := make([]byte, headerLen)
	copy(buf[:8], magic[:])
	binary.LittleEndian.PutUint64(buf[8:16], h.tagsLen)
	binary.LittleEndian.PutUint64(buf[16:24], h.idsLen)
	binary.LittleEndian.PutUint64(buf[24:32], h.bodyLen)
	return buf
}

func (h *header) fromBytes(buf []byte) error {
	if !bytes.Equal(buf[:8], magic[:]) {
		return errors.New("invalid magic bytes")
	}
	h.tagsLen = binary.LittleEndian.Uint64(buf[8:16])
	h.idsLen = binary.LittleEndian.Uint64(buf[16:24])
	h.bodyLen = binary.LittleEndian.Uint64(buf[24:32])
	return nil
}

type body struct {
	Version string    `cbor:"1,keyasint"`
	NbGates uint64    `cbor:"2,keyasint"`
	Angles  []float64 `cbor:"3,keyasint"`
}

// ToBytes serializes the circuit. The output is deterministic.
func (c Circuit) ToBytes() ([]byte, error) {
	var tags, ids []byte
	var g errgroup.Group
	g.Go(func() error {
		var err error
		tags, err = c.tagsToBytes()
		return err
	})
	g.Go(func() error {
		var err error
		ids, err = c.idsToBytes()
		return err
	})

	angles := make([]float64, 0)
	for _, gate := range c.gates {
		if gate.Kind == KindRotation {
			angles = append(angles, gate.Angle)
		}
	}
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	bodyBytes, err := em.Marshal(body{
		Version: revmod.Version.String(),
		NbGates: uint64(len(c.gates)),
		Angles:  angles,
	})
	if err != nil {
		return nil, err
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	h := header{
		tagsLen: uint64(len(tags)),
		idsLen:  uint64(len(ids)),
		bodyLen: uint64(len(bodyBytes)),
	}
	buf := h.toBytes()
	buf = append(buf, tags...)
	buf = append(buf, ids...)
	buf = append(buf, bodyBytes...)
	return buf, nil
}

func (c Circuit) tagsToBytes() ([]byte, error) {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	for _, gate := range c.gates {
		if gate.Kind < KindRotation || gate.Kind > KindSwap {
			return nil, fmt.Errorf("unknown gate kind %d", gate.Kind)
		}
		if err := w.WriteBits(uint64(gate.Kind), kindBits); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// idsToBytes flattens, per gate, the target wire, the second swap wire if any,
// the number of controls and the control wires, then integer-compresses the
// stream.
func (c Circuit) idsToBytes() ([]byte, error) {
	flat := make([]uint32, 0, 2*len(c.gates))
	appendWire := func(w Wire) error {
		if w < 0 || int64(w) > math.MaxUint32 {
			return fmt.Errorf("wire id %d out of serializable range", w)
		}
		flat = append(flat, uint32(w))
		return nil
	}
	for _, gate := range c.gates {
		if err := appendWire(gate.Target); err != nil {
			return nil, err
		}
		if gate.Kind == KindSwap {
			if err := appendWire(gate.Other); err != nil {
				return nil, err
			}
		}
		flat = append(flat, uint32(len(gate.Controls)))
		for _, ctrl := range gate.Controls {
			if err := appendWire(ctrl); err != nil {
				return nil, err
			}
		}
	}
	compressed := intcomp.CompressUint32(flat, nil)
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, uint64(len(compressed))); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, compressed); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromBytes deserializes the circuit from data and returns the number of bytes
// read.
func (c *Circuit) FromBytes(data []byte) (int, error) {
	if len(data) < headerLen {
		return 0, errors.New("invalid data length")
	}
	var h header
	if err := h.fromBytes(data[:headerLen]); err != nil {
		return 0, err
	}
	// bound each section length by the bytes actually present, so hostile
	// lengths cannot overflow the total or the slice bounds below
	rest := uint64(len(data) - headerLen)
	if h.tagsLen > rest || h.idsLen > rest-h.tagsLen || h.bodyLen > rest-h.tagsLen-h.idsLen {
		return 0, errors.New("invalid data length")
	}
	total := headerLen + int(h.tagsLen+h.idsLen+h.bodyLen)
	tags := data[headerLen : headerLen+int(h.tagsLen)]
	ids := data[headerLen+int(h.tagsLen) : headerLen+int(h.tagsLen)+int(h.idsLen)]
	bodyBytes := data[headerLen+int(h.tagsLen)+int(h.idsLen) : total]

	var b body
	if err := cbor.Unmarshal(bodyBytes, &b); err != nil {
		return 0, err
	}
	if err := checkVersion(b.Version); err != nil {
		return 0, err
	}

	kinds, err := kindsFromBytes(tags, b.NbGates)
	if err != nil {
		return 0, err
	}
	flat, err := idsFromBytes(ids)
	if err != nil {
		return 0, err
	}

	gates := make([]Gate, len(kinds))
	pos, anglePos := 0, 0
	next := func() (uint32, error) {
		if pos >= len(flat) {
			return 0, errors.New("truncated wire-id section")
		}
		v := flat[pos]
		pos++
		return v, nil
	}
	for i, kind := range kinds {
		g := Gate{Kind: kind}
		w, err := next()
		if err != nil {
			return 0, err
		}
		g.Target = Wire(w)
		if kind == KindSwap {
			if w, err = next(); err != nil {
				return 0, err
			}
			g.Other = Wire(w)
		}
		nbControls, err := next()
		if err != nil {
			return 0, err
		}
		if nbControls > 0 {
			g.Controls = make([]Wire, nbControls)
			for j := range g.Controls {
				if w, err = next(); err != nil {
					return 0, err
				}
				g.Controls[j] = Wire(w)
			}
		}
		if kind == KindRotation {
			if anglePos >= len(b.Angles) {
				return 0, errors.New("truncated angle section")
			}
			g.Angle = b.Angles[anglePos]
			anglePos++
		}
		gates[i] = g
	}
	if anglePos != len(b.Angles) {
		return 0, errors.New("angle count mismatch")
	}
	if pos != len(flat) {
		return 0, errors.New("wire-id count mismatch")
	}

	c.gates = gates
	return total, nil
}

func checkVersion(v string) error {
	stored, err := semver.ParseTolerant(v)
	if err != nil {
		return fmt.Errorf("invalid serialization version %q: %w", v, err)
	}
	if stored.Major != revmod.Version.Major {
		return fmt.Errorf("incompatible serialization version %s (library is %s)", stored, revmod.Version)
	}
	return nil
}

func kindsFromBytes(tags []byte, nbGates uint64) ([]Kind, error) {
	// the decoded gate count sizes the allocation below; cap it by what the
	// tag section can actually hold
	if nbGates > uint64(len(tags))*8/kindBits {
		return nil, errors.New("gate count exceeds the gate-kind section")
	}
	r := bitio.NewReader(bytes.NewReader(tags))
	kinds := make([]Kind, nbGates)
	for i := range kinds {
		v, err := r.ReadBits(kindBits)
		if err != nil {
			return nil, err
		}
		k := Kind(v)
		if k < KindRotation || k > KindSwap {
			return nil, fmt.Errorf("unknown gate kind %d", v)
		}
		kinds[i] = k
	}
	return kinds, nil
}

func idsFromBytes(ids []byte) ([]uint32, error) {
	buf := bytes.NewReader(ids)
	var n uint64
	if err := binary.Read(buf, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	if n > uint64(buf.Len())/4 {
		return nil, errors.New("word count exceeds the wire-id section")
	}
	compressed := make([]uint32, n)
	if err := binary.Read(buf, binary.LittleEndian, compressed); err != nil {
		return nil, err
	}
	return intcomp.UncompressUint32(compressed, nil), nil
}

// Fingerprint returns a 256-bit content hash of the serialized circuit,
// usable as a cache key across repeated executions.
func (c Circuit) Fingerprint() ([32]byte, error) {
	data, err := c.ToBytes()
	if err != nil {
		return [32]byte{}, err
	}
	return blake2b.Sum256(data), nil
}
