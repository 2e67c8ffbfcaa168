// SPDX-License-Identifier: MIT

// Package numeric collects the small numeric kernels shared by the decoders:
// Euclidean projections onto the simplex, the budget polytope and the
// implication cone, boolean transitive closure and a stable insertion sort
// for nearly sorted inputs.
//
// What & Why
//
//   - Projections are the closed-form quadratic subproblems of the logic
//     factors in package factorgraph (XOR, AtMostOne, Imply). Every call sorts
//     a short vector that changes little between consensus iterations, which
//     is why the sorts here are insertion sorts and not sort.Float64s.
//   - TransitiveClosure is the reachability pre-pass that lets the flow
//     formulation drop path and flow variables that can never be active.
//
// All routines are pure, allocation-light and deterministic: identical inputs
// always give bit-identical outputs.
//
// Complexity:
//
//   - ProjectOntoSimplex, ProjectOntoBudget, ProjectOntoCone: O(k²) worst case,
//     O(k) on nearly sorted input (insertion sort dominates).
//   - TransitiveClosure: O(n³) time, O(1) extra space.
package numeric
