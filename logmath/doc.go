// SPDX-License-Identifier: MIT

// Package logmath provides a signed log-domain scalar and a small dense
// matrix over it, used where products of many exponentials would overflow or
// underflow float64 (determinants and inverses of exponentiated score
// matrices).
//
// What & Why
//
//	A Value stores a real number x as (log|x|, sign(x)). Multiplication and
//	division become additions of logarithms; addition becomes a signed
//	log-sum-exp. The representation keeps full relative precision for
//	magnitudes far outside [1e-308, 1e308].
//
//	Arithmetic is exposed as named functions (Add, Sub, Mul, Div, Neg) rather
//	than methods with operator semantics, so every call site spells out what
//	it computes.
//
// Matrix routines:
//
//   - Dense.LU: Doolittle factorisation with partial pivoting on magnitude.
//   - Dense.Determinant: product of U's diagonal times the permutation parity.
//   - Dense.Inverse: n forward/backward substitutions against the LU factors.
//
// Complexity: scalar operations are O(1); LU, Determinant and Inverse are
// O(n³) time and O(n²) memory.
package logmath
