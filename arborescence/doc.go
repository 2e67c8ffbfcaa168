// SPDX-License-Identifier: MIT

// Package arborescence finds the maximum-scoring dependency tree over a set
// of scored candidate arcs: the directed, root-anchored analogue of a maximum
// spanning tree.
//
// What & Why
//
//   - An arborescence rooted at node 0 gives every other node exactly one
//     incoming arc and contains no cycle, so every node is reachable from
//     the root. With arc-factored scores the best dependency tree is the
//     maximum-weight arborescence.
//
// Algorithms Provided
//
//   - ChuLiuEdmonds(n, arcs, scores) (Solution, error)
//
//   - Strategy: pick the best incoming arc of every node; if the choice is
//     acyclic it is optimal. Otherwise contract one cycle into a single node,
//     rescore the arcs entering it by the intra-cycle arc they would displace,
//     solve the smaller graph recursively and expand.
//
//   - Every recursion level owns its own candidate lists; nothing is mutated
//     across levels, so expansion never sees a half-updated graph.
//
//   - Complexity: O(n²) per level, O(n³) worst case overall; recursion depth
//     is bounded by n because each contraction removes at least one node.
//
//   - Eisner(n, arcs, scores) (Solution, error)
//
//   - Strategy: cubic-time span dynamic program over complete and incomplete
//     spans; returns the best projective tree (no crossing arcs).
//
//   - Complexity: O(n³) time, O(n²) memory.
//
// Determinism
//
//	Ties are broken in favour of the first candidate met in iteration order
//	(arc order for Chu–Liu/Edmonds, split point order for Eisner), so equal
//	inputs always produce equal trees.
//
// Error Conditions
//
//   - ErrEmptySentence   : n < 2.
//   - ErrLengthMismatch  : len(scores) != len(arcs).
//   - ErrArcIntoRoot     : an arc has modifier 0.
//   - ErrBadArc          : an arc endpoint is out of range, or a self-loop.
//   - ErrNoCandidateHead : some non-root node has no incoming candidate.
//   - ErrDisconnected    : no spanning arborescence exists (e.g. a group of
//     nodes is only reachable from itself, or no projective tree exists).
package arborescence
