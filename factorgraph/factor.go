// SPDX-License-Identifier: MIT

package factorgraph

import (
	"github.com/katalvlaran/depdecode/numeric"
)

// Factor solves the local quadratic program of one factor:
//
//	min ½‖μ − a‖² − bᵀν   over the factor's marginal polytope,
//
// writing μ (one entry per attached variable, in the factor's own, possibly
// negated, coordinates) and ν (one entry per additional score).
// a and b must not be retained.
type Factor interface {
	SolveQP(a, b, mu, nu []float64)
}

// XOR constrains exactly one variable to be 1.
type XOR struct{}

// SolveQP projects a onto the probability simplex.
func (XOR) SolveQP(a, _, mu, _ []float64) {
	copy(mu, a)
	numeric.ProjectOntoSimplex(mu, 1)
}

// AtMostOne constrains at most one variable to be 1.
type AtMostOne struct{}

// SolveQP projects a onto {0 ≤ μ ≤ 1, Σμ ≤ 1}.
func (AtMostOne) SolveQP(a, _, mu, _ []float64) {
	copy(mu, a)
	numeric.ProjectOntoBudget(mu, 1)
}

// Imply constrains each of the variables after the first to imply the first.
type Imply struct{}

// SolveQP projects a onto {0 ≤ μ_i ≤ μ_0 ≤ 1}.
func (Imply) SolveQP(a, _, mu, _ []float64) {
	copy(mu[1:], a[1:])
	mu[0] = numeric.ProjectOntoCone(a[0], mu[1:])
}
