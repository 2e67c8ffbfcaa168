// SPDX-License-Identifier: MIT

package decoder

import "errors"

var (
	// ErrLengthMismatch indicates a score or gold vector not aligned with the parts.
	ErrLengthMismatch = errors.New("decoder: vector and parts differ in length")

	// ErrMissingArc indicates a labeled arc whose unlabeled arc is not a candidate.
	ErrMissingArc = errors.New("decoder: labeled arc without candidate arc")

	// ErrNoLabels indicates a candidate arc without labeled arcs in labeled mode.
	ErrNoLabels = errors.New("decoder: arc has no candidate label")

	// ErrNotArcFactored indicates higher-order parts where only arcs are supported.
	ErrNotArcFactored = errors.New("decoder: marginals need an arc-factored model")

	// ErrProjectiveMarginals indicates a marginal request for projective trees.
	ErrProjectiveMarginals = errors.New("decoder: marginals are not available for projective trees")

	// ErrNotImplemented is returned by decode variants a decoder does not offer.
	ErrNotImplemented = errors.New("decoder: not implemented")
)
