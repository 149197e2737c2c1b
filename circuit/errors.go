package circuit

import "errors"

// Synthesis errors. All are construction-time and fatal: a builder either
// returns a fully valid circuit or returns one of these (possibly wrapped) and
// emits nothing.
var (
	// ErrWireConflict signals overlapping wire use between an operator and its
	// controls, ancillas or operand registers.
	ErrWireConflict = errors.New("wire conflict")

	// ErrInsufficientAncilla signals that a caller supplied fewer ancilla
	// wires than an operator requires.
	ErrInsufficientAncilla = errors.New("insufficient ancilla wires")

	// ErrNoInverse signals that a multiplier constant has no inverse modulo N,
	// so the in-place multiplication cannot be uncomputed.
	ErrNoInverse = errors.New("constant has no inverse modulo N")

	// ErrWidthMismatch signals that two registers expected to have equal width
	// do not.
	ErrWidthMismatch = errors.New("register width mismatch")

	// ErrInvalidParameter signals an out-of-range classical parameter
	// (constant, modulus or register width).
	ErrInvalidParameter = errors.New("invalid parameter")
)
