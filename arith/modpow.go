package arith

import (
	"fmt"

	"github.com/qforge/revmod/circuit"
	"github.com/qforge/revmod/internal/utils"
	"github.com/qforge/revmod/logger"
)

// PrepareOne returns the circuit setting a zeroed register to the basis state
// 1, by flipping its least-significant wire. ModPow expects its result
// register prepared this way.
func PrepareOne(reg circuit.Register) (circuit.Circuit, error) {
	if err := reg.Validate(); err != nil {
		return circuit.Circuit{}, err
	}
	return circuit.FromGates(circuit.NewBitFlip(reg.LSB())), nil
}

// ModPow builds the modular exponentiator mapping basis values (x, 1, 0) to
// (x, a^x mod N, 0): square-and-multiply realized as one controlled in-place
// multiplication per exponent bit, most significant first, with the
// precomputed classical constants a^(2^i) mod N.
//
// regRes must be prepared to the basis state 1 (see PrepareOne); support must
// be a zeroed register of the same width. Requires gcd(a, N) = 1 and
// 0 <= a < N; ancillas as in MultOutConst.
func ModPow(a, N uint64, regX, regRes, support circuit.Register, ancillas []circuit.Wire) (circuit.Circuit, error) {
	if err := validateModulus(N); err != nil {
		return circuit.Circuit{}, err
	}
	if err := validateConst(a, N); err != nil {
		return circuit.Circuit{}, err
	}
	if utils.GCD(a, N) != 1 {
		return circuit.Circuit{}, fmt.Errorf("%w: a=%d, N=%d", circuit.ErrNoInverse, a, N)
	}
	if err := regX.Validate(); err != nil {
		return circuit.Circuit{}, err
	}
	if err := circuit.Disjoint(regX, regRes, support, ancillas); err != nil {
		return circuit.Circuit{}, err
	}

	// cs[i] = a^(2^(nX-1-i)) mod N, the constant multiplied in when exponent
	// bit i is set
	nX := regX.Width()
	cs := make([]uint64, nX)
	cs[nX-1] = a % N
	for i := nX - 2; i >= 0; i-- {
		cs[i] = utils.MulMod(cs[i+1], cs[i+1], N)
	}

	parts := make([]circuit.Circuit, 0, nX)
	for i, ctrl := range regX {
		mult, err := MultInConst(cs[i], N, regRes, support, ancillas)
		if err != nil {
			return circuit.Circuit{}, err
		}
		wrapped, err := mult.Controlled(ctrl)
		if err != nil {
			return circuit.Circuit{}, err
		}
		parts = append(parts, wrapped)
	}

	c := circuit.Compose(parts...)
	log := logger.Logger()
	log.Debug().Uint64("a", a).Uint64("N", N).Int("widthX", nX).Int("widthRes", regRes.Width()).
		Int("nbGates", c.NbGates()).Msg("synthesized modular exponentiator")
	return c, nil
}
