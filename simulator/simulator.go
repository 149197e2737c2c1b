// Package simulator implements a dense state-vector executor for reversible
// circuits. It supports every gate variant of package circuit, including
// N-fold controlled forms, basis-state preparation per register, exact
// probability readback and deterministic sampling.
//
// It exists to execute synthesized circuits in the test suite and the
// examples; it is not a physical simulation (no noise, no topology).
package simulator

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/qforge/revmod/circuit"
	"github.com/qforge/revmod/internal/utils"
)

// maxWires caps the state size at 2^30 amplitudes.
const maxWires = 30

// parallelThreshold is the amplitude count above which gate application is
// chunked across goroutines.
const parallelThreshold = 1 << 14

// readTol is the probability tolerance for classical readback.
const readTol = 1e-6

// State is a dense state vector over nbWires wires. Wire w maps to bit w of
// the amplitude index.
type State struct {
	nbWires int
	amps    []complex128
}

// New returns the all-zero basis state over nbWires wires.
func New(nbWires int) (*State, error) {
	if nbWires < 1 || nbWires > maxWires {
		return nil, fmt.Errorf("%w: state width %d, supported range is [1,%d]", circuit.ErrInvalidParameter, nbWires, maxWires)
	}
	amps := make([]complex128, 1<<nbWires)
	amps[0] = 1
	return &State{nbWires: nbWires, amps: amps}, nil
}

// NbWires returns the number of wires of the state.
func (s *State) NbWires() int { return s.nbWires }

// Reset returns the state to the all-zero basis state.
func (s *State) Reset() {
	for i := range s.amps {
		s.amps[i] = 0
	}
	s.amps[0] = 1
}

// Prepare flips the wires of reg corresponding to the set bits of value
// (most-significant wire first). On zeroed wires this initializes the
// register to the basis state value.
func (s *State) Prepare(reg circuit.Register, value uint64) error {
	width := reg.Width()
	if width < 64 && value >= uint64(1)<<width {
		return fmt.Errorf("%w: value %d does not fit in %d wires", circuit.ErrInvalidParameter, value, width)
	}
	for j, w := range reg {
		if value&(uint64(1)<<(width-1-j)) != 0 {
			if err := s.apply(circuit.NewBitFlip(w)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Run executes the circuit's gate sequence on the state.
func (s *State) Run(c circuit.Circuit) error {
	for _, g := range c.Gates() {
		if err := s.apply(g); err != nil {
			return err
		}
	}
	return nil
}

func (s *State) apply(g circuit.Gate) error {
	ctrlMask, err := s.mask(g.Controls)
	if err != nil {
		return err
	}
	tbit, err := s.bit(g.Target)
	if err != nil {
		return err
	}
	if tbit&ctrlMask != 0 {
		return fmt.Errorf("%w: gate %s targets one of its control wires", circuit.ErrWireConflict, g)
	}

	switch g.Kind {
	case circuit.KindRotation:
		phase := cmplx.Rect(1, g.Angle)
		s.forRange(func(lo, hi int) {
			for i := lo; i < hi; i++ {
				if i&tbit != 0 && i&ctrlMask == ctrlMask {
					s.amps[i] *= phase
				}
			}
		})
	case circuit.KindBitFlip:
		s.forRange(func(lo, hi int) {
			for i := lo; i < hi; i++ {
				if i&tbit == 0 && i&ctrlMask == ctrlMask {
					j := i | tbit
					s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
				}
			}
		})
	case circuit.KindHadamard:
		norm := complex(1/math.Sqrt2, 0)
		s.forRange(func(lo, hi int) {
			for i := lo; i < hi; i++ {
				if i&tbit == 0 && i&ctrlMask == ctrlMask {
					j := i | tbit
					a, b := s.amps[i], s.amps[j]
					s.amps[i] = norm * (a + b)
					s.amps[j] = norm * (a - b)
				}
			}
		})
	case circuit.KindSwap:
		obit, err := s.bit(g.Other)
		if err != nil {
			return err
		}
		if obit == tbit || obit&ctrlMask != 0 {
			return fmt.Errorf("%w: gate %s", circuit.ErrWireConflict, g)
		}
		s.forRange(func(lo, hi int) {
			for i := lo; i < hi; i++ {
				if i&tbit != 0 && i&obit == 0 && i&ctrlMask == ctrlMask {
					j := i ^ tbit ^ obit
					s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
				}
			}
		})
	default:
		return fmt.Errorf("%w: unknown gate kind %d", circuit.ErrInvalidParameter, g.Kind)
	}
	return nil
}

// forRange runs f over chunks of the index space, in parallel for large
// states. Chunks only ever write the amplitudes of their representative
// indices and their partners on the flipped target bit, which no other chunk
// selects, so parallel application is race free.
func (s *State) forRange(f func(lo, hi int)) {
	n := len(s.amps)
	if n < parallelThreshold {
		f(0, n)
		return
	}
	nbChunks := utils.Max(1, runtime.NumCPU())
	chunkSize := utils.Max(1, n/nbChunks)
	var g errgroup.Group
	for lo := 0; lo < n; lo += chunkSize {
		lo := lo
		hi := lo + chunkSize
		if hi > n {
			hi = n
		}
		g.Go(func() error {
			f(lo, hi)
			return nil
		})
	}
	g.Wait() //nolint:errcheck // chunk workers never fail
}

func (s *State) bit(w circuit.Wire) (int, error) {
	if w < 0 || int(w) >= s.nbWires {
		return 0, fmt.Errorf("%w: wire %d outside state of %d wires", circuit.ErrInvalidParameter, w, s.nbWires)
	}
	return 1 << int(w), nil
}

func (s *State) mask(ws []circuit.Wire) (int, error) {
	mask := 0
	for _, w := range ws {
		b, err := s.bit(w)
		if err != nil {
			return 0, err
		}
		if mask&b != 0 {
			return 0, fmt.Errorf("%w: duplicate control wire %d", circuit.ErrWireConflict, w)
		}
		mask |= b
	}
	return mask, nil
}

// valueOf reads the register value encoded in basis index i.
func valueOf(i int, reg circuit.Register) uint64 {
	v := uint64(0)
	for _, w := range reg {
		v <<= 1
		if i&(1<<int(w)) != 0 {
			v |= 1
		}
	}
	return v
}

// Value returns the basis value of reg, provided the register is classical
// (one value holds all but readTol of the probability mass) across the whole
// superposition.
func (s *State) Value(reg circuit.Register) (uint64, error) {
	if reg.Width() > s.nbWires {
		return 0, fmt.Errorf("%w: register wider than state", circuit.ErrInvalidParameter)
	}
	dist := make([]float64, 1<<reg.Width())
	for i, amp := range s.amps {
		p := real(amp)*real(amp) + imag(amp)*imag(amp)
		if p == 0 {
			continue
		}
		dist[valueOf(i, reg)] += p
	}
	best, bestP := uint64(0), 0.0
	for v, p := range dist {
		if p > bestP {
			best, bestP = uint64(v), p
		}
	}
	if bestP < 1-readTol {
		return 0, fmt.Errorf("register is in superposition (top value %d with probability %f)", best, bestP)
	}
	return best, nil
}

// Probability returns the probability of reading value on reg.
func (s *State) Probability(reg circuit.Register, value uint64) float64 {
	p := 0.0
	for i, amp := range s.amps {
		if valueOf(i, reg) == value {
			p += real(amp)*real(amp) + imag(amp)*imag(amp)
		}
	}
	return p
}

// ProbabilityZero returns the probability of reading 0 on a single wire. It
// is the ancilla-restoration check used throughout the test suite.
func (s *State) ProbabilityZero(w circuit.Wire) float64 {
	b := 1 << int(w)
	p := 0.0
	for i, amp := range s.amps {
		if i&b == 0 {
			p += real(amp)*real(amp) + imag(amp)*imag(amp)
		}
	}
	return p
}

// Probabilities returns the full probability vector over basis states.
func (s *State) Probabilities() []float64 {
	out := make([]float64, len(s.amps))
	for i, amp := range s.amps {
		out[i] = real(amp)*real(amp) + imag(amp)*imag(amp)
	}
	return out
}

// Sample draws one basis-state index from the state's distribution using r.
func (s *State) Sample(r *rand.Rand) int {
	x := r.Float64()
	acc := 0.0
	for i, amp := range s.amps {
		acc += real(amp)*real(amp) + imag(amp)*imag(amp)
		if x < acc {
			return i
		}
	}
	return len(s.amps) - 1
}
