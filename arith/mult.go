package arith

import (
	"fmt"

	"github.com/qforge/revmod/circuit"
	"github.com/qforge/revmod/internal/utils"
	"github.com/qforge/revmod/logger"
)

// MultOutConst builds the circuit mapping basis values (a, b) to
// (a, (b + k·a) mod N) for 0 <= a, b < N and 0 <= k < N, accumulating into
// regB. ancillas must hold at least two zeroed wires: the comparison ancilla
// and the carry extension wire; both are restored on exit.
func MultOutConst(k, N uint64, regA, regB circuit.Register, ancillas []circuit.Wire) (circuit.Circuit, error) {
	anc, err := takeAncillas(ancillas, 2)
	if err != nil {
		return circuit.Circuit{}, err
	}
	overflow, carry := anc[0], anc[1]

	if err := validateModulus(N); err != nil {
		return circuit.Circuit{}, err
	}
	if err := validateConst(k, N); err != nil {
		return circuit.Circuit{}, err
	}
	if err := regA.Validate(); err != nil {
		return circuit.Circuit{}, err
	}
	if err := regB.Validate(); err != nil {
		return circuit.Circuit{}, err
	}
	if err := circuit.Disjoint(regA, regB, anc); err != nil {
		return circuit.Circuit{}, err
	}
	if err := validateCapacity(N, regB.Width()); err != nil {
		return circuit.Circuit{}, err
	}

	ext := extend(carry, regB)
	qft, err := Fourier(ext)
	if err != nil {
		return circuit.Circuit{}, err
	}

	nA := regA.Width()
	parts := make([]circuit.Circuit, 0, nA+2)
	parts = append(parts, qft)
	for i, ctrl := range regA {
		weight := utils.MulMod(k, utils.ModExp(2, uint64(nA-1-i), N), N)
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
	log.Debug().Uint64("k", k).Uint64("N", N).Int("widthA", nA).Int("widthB", regB.Width()).
		Int("nbGates", c.NbGates()).Msg("synthesized out-of-place constant multiplier")
	return c, nil
}

// MultInConst builds the circuit mapping a basis value a to (k·a) mod N, in
// place on reg. It requires gcd(k, N) = 1: the out-of-place product is swapped
// into reg and the borrowed support register is uncomputed back to 0 through
// the modular inverse of k. support must be a zeroed register of the same
// width as reg; ancillas as in MultOutConst.
//
// If k has no inverse modulo N the builder fails with circuit.ErrNoInverse
// before any gate is emitted.
func MultInConst(k, N uint64, reg, support circuit.Register, ancillas []circuit.Wire) (circuit.Circuit, error) {
	if err := validateModulus(N); err != nil {
		return circuit.Circuit{}, err
	}
	if err := validateConst(k, N); err != nil {
		return circuit.Circuit{}, err
	}
	if reg.Width() != support.Width() {
		return circuit.Circuit{}, fmt.Errorf("%w: reg is %d wires, support is %d", circuit.ErrWidthMismatch, reg.Width(), support.Width())
	}
	kinv, ok := utils.ModInverse(k, N)
	if !ok {
		return circuit.Circuit{}, fmt.Errorf("%w: k=%d, N=%d", circuit.ErrNoInverse, k, N)
	}

	forward, err := MultOutConst(k, N, reg, support, ancillas)
	if err != nil {
		return circuit.Circuit{}, err
	}
	swaps := make([]circuit.Gate, reg.Width())
	for i := range reg {
		swaps[i] = circuit.NewSwap(reg[i], support[i])
	}
	backward, err := MultOutConst(kinv, N, reg, support, ancillas)
	if err != nil {
		return circuit.Circuit{}, err
	}

	return circuit.Compose(forward, circuit.FromGates(swaps...), backward.Adjoint()), nil
}

// MultOutReg builds the full register-register product, mapping basis values
// (a, b, 0) to (a, b, (a·b) mod N): every bit pair (i of regA, j of regB)
// contributes its combined weight through a doubly-controlled constant
// addition into regRes. ancillas as in MultOutConst.
func MultOutReg(N uint64, regA, regB, regRes circuit.Register, ancillas []circuit.Wire) (circuit.Circuit, error) {
	anc, err := takeAncillas(ancillas, 2)
	if err != nil {
		return circuit.Circuit{}, err
	}
	overflow, carry := anc[0], anc[1]

	if err := validateModulus(N); err != nil {
		return circuit.Circuit{}, err
	}
	for _, reg := range []circuit.Register{regA, regB, regRes} {
		if err := reg.Validate(); err != nil {
			return circuit.Circuit{}, err
		}
	}
	if err := circuit.Disjoint(regA, regB, regRes, anc); err != nil {
		return circuit.Circuit{}, err
	}
	if err := validateCapacity(N, regRes.Width()); err != nil {
		return circuit.Circuit{}, err
	}

	ext := extend(carry, regRes)
	qft, err := Fourier(ext)
	if err != nil {
		return circuit.Circuit{}, err
	}

	nA, nB := regA.Width(), regB.Width()
	parts := make([]circuit.Circuit, 0, nA*nB+2)
	parts = append(parts, qft)
	for i, ctrlA := range regA {
		for j, ctrlB := range regB {
			weight := utils.ModExp(2, uint64((nA-1-i)+(nB-1-j)), N)
			add, err := AddConstMod(weight, N, ext, overflow, WithFourierInput(), WithFourierOutput())
			if err != nil {
				return circuit.Circuit{}, err
			}
			wrapped, err := add.Controlled(ctrlA, ctrlB)
			if err != nil {
				return circuit.Circuit{}, err
			}
			parts = append(parts, wrapped)
		}
	}
	parts = append(parts, qft.Adjoint())

	c := circuit.Compose(parts...)
	log := logger.Logger()
	log.Debug().Uint64("N", N).Int("widthA", nA).Int("widthB", nB).
		Int("nbGates", c.NbGates()).Msg("synthesized register multiplier")
	return c, nil
}
