// Package arith builds reversible circuits implementing modular integer
// arithmetic: the Fourier basis change, in-place addition of classical
// constants modulo N, register-register addition, constant and
// register-register multiplication, and modular exponentiation.
//
// All builders are pure: they validate their classical parameters and wire
// arguments, then either return a complete circuit or an error from package
// circuit, without emitting anything. Every ancilla wire a builder borrows is
// restored to its input value by the returned circuit.
//
// Registers are most-significant wire first. Unless stated otherwise a
// register of width w holding a value < N requires N <= 2^w, and in-place
// adders additionally reserve the most-significant wire for transient
// overflow, requiring 2N <= 2^w.
package arith
