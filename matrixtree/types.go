// SPDX-License-Identifier: MIT

package matrixtree

import (
	"errors"
	"log/slog"
	"math"
)

var (
	// ErrEmptySentence indicates that fewer than two nodes were given.
	ErrEmptySentence = errors.New("matrixtree: need the root and at least one node")

	// ErrLengthMismatch indicates that scores and arcs are not aligned.
	ErrLengthMismatch = errors.New("matrixtree: scores and arcs differ in length")

	// ErrBadArc indicates an out-of-range endpoint, a self-loop or an arc into the root.
	ErrBadArc = errors.New("matrixtree: invalid arc")

	// ErrNoCandidateHead indicates a non-root node without incoming candidates.
	ErrNoCandidateHead = errors.New("matrixtree: node has no candidate head")

	// ErrNoTree indicates that some node cannot be reached from the root.
	ErrNoTree = errors.New("matrixtree: candidate arcs admit no spanning tree")

	// ErrIllConditioned indicates that the Laplacian of a graph that does
	// span a tree factorised as singular or with a non-positive determinant.
	ErrIllConditioned = errors.New("matrixtree: Laplacian too ill-conditioned for float64")

	// ErrNonFinite indicates a NaN or infinite score.
	ErrNonFinite = errors.New("matrixtree: non-finite score")
)

// DefaultTolerance is the drift allowed before a clamp is logged.
const DefaultTolerance = 1e-6

// Result of Marginals.
//
// Fields:
//
//	Marginals    []float64: P(arc in tree), aligned with the input arcs.
//	LogPartition float64  : log Z.
//	Entropy      float64  : log Z − Σ marginal·score, clamped at 0.
//	Clamped      int      : number of values clamped beyond tolerance.
type Result struct {
	Marginals    []float64
	LogPartition float64
	Entropy      float64
	Clamped      int
}

// Options configures Marginals.
type Options struct {
	Logger    *slog.Logger
	Tolerance float64
}

// Option mutates Options.
type Option func(*Options)

// WithLogger sets the logger used for clamp diagnostics; nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithTolerance sets the drift tolerance. Panics on a negative or NaN value.
func WithTolerance(tol float64) Option {
	if tol < 0 || math.IsNaN(tol) {
		panic("matrixtree: WithTolerance: tolerance must be non-negative")
	}

	return func(o *Options) { o.Tolerance = tol }
}

// DefaultOptions returns slog.Default() and DefaultTolerance.
func DefaultOptions() Options {
	return Options{Logger: slog.Default(), Tolerance: DefaultTolerance}
}
