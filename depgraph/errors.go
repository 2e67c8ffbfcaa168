// SPDX-License-Identifier: MIT

package depgraph

import "errors"

var (
	// ErrLengthMismatch indicates a score vector not aligned with the parts.
	ErrLengthMismatch = errors.New("depgraph: scores and parts differ in length")

	// ErrNoCandidateHead indicates a non-root node without candidate arcs.
	ErrNoCandidateHead = errors.New("depgraph: node has no candidate head")

	// ErrNoTree indicates that the candidate arcs admit no (projective) tree.
	ErrNoTree = errors.New("depgraph: candidate arcs admit no tree")
)
