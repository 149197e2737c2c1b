package arith

import (
	"math"

	"github.com/qforge/revmod/circuit"
)

// Fourier returns the circuit implementing the discrete Fourier basis change
// over reg. After the transform, wire j (counting from the most significant)
// carries the phase 2π·a/2^(j+1) of the register value a, so that adding a
// classical constant becomes one local rotation per wire (see SumK).
func Fourier(reg circuit.Register) (circuit.Circuit, error) {
	if err := reg.Validate(); err != nil {
		return circuit.Circuit{}, err
	}
	n := reg.Width()
	gates := make([]circuit.Gate, 0, n*(n+1)/2+n/2)
	for i := 0; i < n; i++ {
		gates = append(gates, circuit.NewHadamard(reg[i]))
		for j := i + 1; j < n; j++ {
			angle := math.Ldexp(2*math.Pi, -(j - i + 1))
			gates = append(gates, circuit.NewRotation(reg[i], angle).WithControls(reg[j]))
		}
	}
	// the basis change is defined with the coarse phase on the top wire; the
	// rotation cascade above produces the mirrored order
	for i := 0; i < n/2; i++ {
		gates = append(gates, circuit.NewSwap(reg[i], reg[n-1-i]))
	}
	return circuit.FromGates(gates...), nil
}

// SumK returns the circuit adding the classical constant k to a
// Fourier-transformed register: one rotation per wire, wire j (rank from the
// top) receiving the angle k·π/2^j. Its adjoint subtracts k.
func SumK(k uint64, reg circuit.Register) (circuit.Circuit, error) {
	if err := reg.Validate(); err != nil {
		return circuit.Circuit{}, err
	}
	gates := make([]circuit.Gate, 0, reg.Width())
	for j := range reg {
		// the phase on wire j has period 2^(j+1) in k; reduce in the integer
		// domain so large constants do not lose precision
		kr := k
		if j < 63 {
			kr = k & (uint64(1)<<(j+1) - 1)
		}
		angle := math.Pi * math.Ldexp(float64(kr), -j)
		gates = append(gates, circuit.NewRotation(reg[j], angle))
	}
	return circuit.FromGates(gates...), nil
}
