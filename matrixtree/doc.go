// SPDX-License-Identifier: MIT

// Package matrixtree computes arc marginals, the log-partition function and
// the entropy of the Gibbs distribution over dependency trees defined by
// arc scores.
//
// What & Why
//
//   - P(tree) ∝ exp(Σ_{arcs in tree} score). By the Matrix-Tree theorem the
//     normaliser Z equals the determinant of the weighted Laplacian with the
//     root row and column removed, and ∂log Z/∂score(h→m) is the marginal
//     probability of the arc.
//
//   - The root may take several children (multi-root trees), matching the
//     maximum arborescence decoders in package arborescence.
//
// Numerics
//
//	Scores are shifted by their mean before exponentiation and every matrix
//	entry is a logmath.Value (log-magnitude plus sign), so long sentences with
//	large scores neither overflow nor underflow. The shift is added back into
//	log Z analytically: every tree has n−1 arcs. Each Laplacian column is
//	further scaled by its largest incoming weight; the scales multiply into
//	the determinant and cancel out of the marginals.
//
//	Tree existence is decided structurally (root reachability) before any
//	arithmetic. A structurally valid Laplacian whose factorisation still
//	cancels to zero or to a negative determinant is reported as
//	ErrIllConditioned and logged at Warn.
//
// Drift handling
//
//	Marginals outside [0,1] and negative entropies are clamped to the valid
//	range. Drift larger than the tolerance (default 1e-6) is logged at Warn
//	and counted in Result.Clamped.
//
// Complexity: O(n³) time, O(n²) memory.
package matrixtree
