// SPDX-License-Identifier: MIT

// Package factorgraph implements approximate MAP inference over binary
// variables by alternating directions dual decomposition (AD3).
//
// Model
//
//	A Graph holds binary variables, each with a unary score, and factors,
//	each attached to an ordered list of variables (optionally negated) and
//	carrying its own additional scores. The relaxed problem is
//
//	  max Σ_i score_i·p_i + Σ_α additional_α·ν_α
//
//	over beliefs p ∈ [0,1] that every factor can reproduce as a convex
//	combination of its feasible configurations.
//
// Algorithm (one iteration)
//
//  1. Every factor α solves a small quadratic program on its own variables:
//     min ½‖μ − a‖² − bᵀν with a_i = p_i + (score_i/deg_i + λ_αi)/η and
//     b = additional_α/η.
//  2. Beliefs are averaged: p_i = mean of μ_αi over the factors of i.
//  3. Multipliers move: λ_αi −= η(μ_αi − p_i).
//  4. Primal residual r (disagreement) and dual residual s (belief change)
//     are measured; η doubles when r > 10s and halves when s > 10r.
//
// The loop stops when both residuals fall below the threshold or after
// MaxIterations. Factors whose inputs did not change reuse their previous
// solution.
//
// Factors
//
//   - XOR: exactly one variable is 1 (projection onto the simplex).
//     Negating the last variable turns it into XOR-with-output.
//   - AtMostOne: at most one variable is 1 (projection onto the budget
//     polytope).
//   - Imply: every other variable implies the first one (projection onto a
//     clipped cone).
//   - Generic: any factor that can maximize, evaluate and count overlaps
//     between its configurations; its QP is solved with an active-set
//     method over configurations using gonum/mat.
//   - Pair: logical AND of two variables with one additional score.
//
// Variables attached to no factor take value 1 iff their score is positive.
package factorgraph
