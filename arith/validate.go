package arith

import (
	"fmt"

	"github.com/qforge/revmod/circuit"
)

func validateModulus(n uint64) error {
	if n < 2 {
		return fmt.Errorf("%w: modulus %d, need at least 2", circuit.ErrInvalidParameter, n)
	}
	return nil
}

func validateConst(k, n uint64) error {
	if k >= n {
		return fmt.Errorf("%w: constant %d not reduced modulo %d", circuit.ErrInvalidParameter, k, n)
	}
	return nil
}

// validateCapacity checks that a width-wide register can hold any value < n.
func validateCapacity(n uint64, width int) error {
	if width < 64 && n > uint64(1)<<width {
		return fmt.Errorf("%w: width %d cannot hold values modulo %d", circuit.ErrInvalidParameter, width, n)
	}
	return nil
}

// validateSignCapacity checks that a width-wide register leaves its
// most-significant wire free to absorb transient overflow, i.e. 2n <= 2^width.
func validateSignCapacity(n uint64, width int) error {
	if width < 2 {
		return fmt.Errorf("%w: width %d, in-place adders need at least 2 wires", circuit.ErrInvalidParameter, width)
	}
	if width-1 < 64 && n > uint64(1)<<(width-1) {
		return fmt.Errorf("%w: width %d leaves no overflow headroom for modulus %d", circuit.ErrInvalidParameter, width, n)
	}
	return nil
}

// takeAncillas checks that the caller supplied at least n ancilla wires and
// returns the first n. Extra wires are ignored.
func takeAncillas(ancillas []circuit.Wire, n int) ([]circuit.Wire, error) {
	if len(ancillas) < n {
		return nil, fmt.Errorf("%w: need %d, got %d", circuit.ErrInsufficientAncilla, n, len(ancillas))
	}
	return ancillas[:n], nil
}
