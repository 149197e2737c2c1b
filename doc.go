// Package revmod synthesizes reversible circuits implementing modular integer
// arithmetic over fixed-width binary registers, for use as building blocks of
// quantum algorithms such as Shor's period finding.
//
// The library is organized as follows:
//   - package circuit defines the wire/register model, the primitive gate
//     variants and the circuit algebra (composition, adjoint, control-wrapping)
//   - package arith builds the composite operators: Fourier transform, modular
//     constant adder, register adder, modular multipliers and the modular
//     exponentiator
//   - package simulator is a dense state-vector executor used by the test suite
//     and the examples
//
// Synthesis is a pure, deterministic computation: builders either return a
// fully valid circuit or an error, and two calls with identical parameters emit
// bit-for-bit identical gate sequences.
package revmod

import "github.com/blang/semver/v4"

// Version of the library.
var Version = semver.MustParse("0.1.0")
