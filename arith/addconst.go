package arith

import (
	"github.com/qforge/revmod/circuit"
)

// AddConstMod builds the circuit mapping a basis value a to (a+k) mod N, in
// place on reg, for any 0 <= a < N. It requires 0 <= k < N and 2N <= 2^width:
// the most-significant wire doubles as the sign wire of the intermediate
// comparison against N.
//
// overflow must be a zeroed ancilla wire outside reg; the circuit restores it
// to 0 on exit. With WithFourierInput / WithFourierOutput the outer basis
// changes are skipped, for callers that keep the register in the Fourier basis
// across several additions.
func AddConstMod(k, N uint64, reg circuit.Register, overflow circuit.Wire, opts ...Option) (circuit.Circuit, error) {
	var cfg addConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := validateModulus(N); err != nil {
		return circuit.Circuit{}, err
	}
	if err := validateConst(k, N); err != nil {
		return circuit.Circuit{}, err
	}
	if err := reg.Validate(); err != nil {
		return circuit.Circuit{}, err
	}
	if err := circuit.Disjoint(reg, []circuit.Wire{overflow}); err != nil {
		return circuit.Circuit{}, err
	}
	if err := validateSignCapacity(N, reg.Width()); err != nil {
		return circuit.Circuit{}, err
	}

	qft, err := Fourier(reg)
	if err != nil {
		return circuit.Circuit{}, err
	}
	sumK, err := SumK(k, reg)
	if err != nil {
		return circuit.Circuit{}, err
	}
	sumN, err := SumK(N, reg)
	if err != nil {
		return circuit.Circuit{}, err
	}
	// re-add N only on the branches that went negative
	condSumN, err := sumN.Controlled(overflow)
	if err != nil {
		return circuit.Circuit{}, err
	}

	msb := reg.MSB()
	parts := make([]circuit.Circuit, 0, 13)
	if !cfg.fourierIn {
		parts = append(parts, qft)
	}
	parts = append(parts,
		// a+k, then compare against N by subtracting it
		sumK,
		sumN.Adjoint(),
		// the sign of a+k-N sits on the most-significant wire; latch it
		qft.Adjoint(),
		circuit.FromGates(circuit.NewCNOT(msb, overflow)),
		qft,
		condSumN,
		// subtract k to test the sign without k's contribution, which
		// uncomputes the latch
		sumK.Adjoint(),
		qft.Adjoint(),
		circuit.FromGates(
			circuit.NewBitFlip(msb),
			circuit.NewCNOT(msb, overflow),
			circuit.NewBitFlip(msb),
		),
		qft,
		sumK,
	)
	if !cfg.fourierOut {
		parts = append(parts, qft.Adjoint())
	}

	return circuit.Compose(parts...), nil
}
