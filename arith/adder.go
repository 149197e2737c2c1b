package arith

import (
	"fmt"

	"github.com/qforge/revmod/circuit"
	"github.com/qforge/revmod/internal/utils"
	"github.com/qforge/revmod/logger"
)

// AddRegMod builds the circuit mapping basis values (a, b) to (a, (a+b) mod N)
// for 0 <= a, b < N, accumulating into regB. support becomes an extra
// most-significant wire of regB inside the Fourier envelope, absorbing carry
// growth; overflow serves the inner comparisons. Both ancillas must be zeroed
// and are restored on exit.
//
// The bits of regA are applied in strictly decreasing bit-weight order so the
// running value is reduced below N before the next conditional addition.
func AddRegMod(N uint64, regA, regB circuit.Register, overflow, support circuit.Wire) (circuit.Circuit, error) {
	if err := validateModulus(N); err != nil {
		return circuit.Circuit{}, err
	}
	if err := regA.Validate(); err != nil {
		return circuit.Circuit{}, err
	}
	if err := regB.Validate(); err != nil {
		return circuit.Circuit{}, err
	}
	if err := circuit.Disjoint(regA, regB, []circuit.Wire{overflow, support}); err != nil {
		return circuit.Circuit{}, err
	}
	if err := validateCapacity(N, regB.Width()); err != nil {
		return circuit.Circuit{}, err
	}

	ext := extend(support, regB)
	qft, err := Fourier(ext)
	if err != nil {
		return circuit.Circuit{}, err
	}

	nA := regA.Width()
	parts := make([]circuit.Circuit, 0, nA+2)
	parts = append(parts, qft)
	for i, ctrl := range regA {
		weight := utils.ModExp(2, uint64(nA-1-i), N)
		add, err := AddConstMod(weight, N, ext, overflow, WithFourierInput(), WithFourierOutput())
		if err != nil {
			return circuit.Circuit{}, err
		}
		wrapped, err := add.Controlled(ctrl)
		if err != nil {
			return circuit.Circuit{}, err
		}
		parts = append(parts, wrapped)
	}
	parts = append(parts, qft.Adjoint())

	c := circuit.Compose(parts...)
	log := logger.Logger()
	log.Debug().Uint64("N", N).Int("widthA", nA).Int("widthB", regB.Width()).
		Int("nbGates", c.NbGates()).Msg("synthesized modular register adder")
	return c, nil
}

// AddOut builds the out-of-place adder mapping (a, b, 0) to (a, b, (a+b) mod N):
// regB is copied wire by wire into the zeroed regRes, then regA is accumulated
// into regRes as in AddRegMod.
func AddOut(N uint64, regA, regB, regRes circuit.Register, overflow, support circuit.Wire) (circuit.Circuit, error) {
	if regB.Width() != regRes.Width() {
		return circuit.Circuit{}, fmt.Errorf("%w: regB is %d wires, regRes is %d", circuit.ErrWidthMismatch, regB.Width(), regRes.Width())
	}
	if err := regB.Validate(); err != nil {
		return circuit.Circuit{}, err
	}
	if err := regRes.Validate(); err != nil {
		return circuit.Circuit{}, err
	}
	if err := circuit.Disjoint(regA, regB, regRes, []circuit.Wire{overflow, support}); err != nil {
		return circuit.Circuit{}, err
	}

	copyGates := make([]circuit.Gate, regB.Width())
	for i := range regB {
		copyGates[i] = circuit.NewCNOT(regB[i], regRes[i])
	}
	add, err := AddRegMod(N, regA, regRes, overflow, support)
	if err != nil {
		return circuit.Circuit{}, err
	}
	return circuit.Compose(circuit.FromGates(copyGates...), add), nil
}

// extend prepends w as the new most-significant wire of reg.
func extend(w circuit.Wire, reg circuit.Register) circuit.Register {
	ext := make(circuit.Register, 0, reg.Width()+1)
	ext = append(ext, w)
	return append(ext, reg...)
}
