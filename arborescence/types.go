// SPDX-License-Identifier: MIT

package arborescence

import (
	"errors"
	"log/slog"
)

var (
	// ErrEmptySentence indicates that fewer than two nodes were given.
	ErrEmptySentence = errors.New("arborescence: need the root and at least one node")

	// ErrLengthMismatch indicates that scores and arcs are not aligned.
	ErrLengthMismatch = errors.New("arborescence: scores and arcs differ in length")

	// ErrArcIntoRoot indicates a candidate arc whose modifier is the root.
	ErrArcIntoRoot = errors.New("arborescence: arc into the root")

	// ErrBadArc indicates an out-of-range endpoint or a self-loop.
	ErrBadArc = errors.New("arborescence: invalid arc")

	// ErrNoCandidateHead indicates a non-root node without incoming candidates.
	ErrNoCandidateHead = errors.New("arborescence: node has no candidate head")

	// ErrDisconnected indicates that no spanning arborescence exists.
	ErrDisconnected = errors.New("arborescence: no spanning tree over the candidate arcs")
)

// Arc is a candidate dependency head → modifier.
type Arc struct {
	Head     int
	Modifier int
}

// Solution is a decoded tree.
//
// Fields:
//
//	Heads    []int  : Heads[m] is the head of node m; Heads[0] == -1.
//	Selected []int  : Selected[m] is the index (into the input arcs) of the
//	                   arc entering m; Selected[0] == -1.
//	Value    float64: sum of the scores of the selected arcs.
type Solution struct {
	Heads    []int
	Selected []int
	Value    float64
}

// Options configures MaximumArborescence.
//
// Fields:
//
//	Projective bool        : restrict to projective trees (Eisner).
//	Logger     *slog.Logger: receives Debug records on cycle contraction.
type Options struct {
	Projective bool
	Logger     *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// WithProjective selects Eisner's projective algorithm when p is true.
func WithProjective(p bool) Option {
	return func(o *Options) { o.Projective = p }
}

// WithLogger sets the logger; a nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// DefaultOptions returns non-projective decoding with slog.Default().
func DefaultOptions() Options {
	return Options{Projective: false, Logger: slog.Default()}
}

// MaximumArborescence dispatches to ChuLiuEdmonds or Eisner according to the options.
func MaximumArborescence(n int, arcs []Arc, scores []float64, opts ...Option) (Solution, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Projective {
		return Eisner(n, arcs, scores)
	}

	return chuLiuEdmonds(n, arcs, scores, o.Logger)
}

// validate checks the shared preconditions of both algorithms.
func validate(n int, arcs []Arc, scores []float64) error {
	if n < 2 {
		return ErrEmptySentence
	}
	if len(arcs) != len(scores) {
		return ErrLengthMismatch
	}
	hasHead := make([]bool, n)
	for _, a := range arcs {
		if a.Modifier == 0 {
			return ErrArcIntoRoot
		}
		if a.Head < 0 || a.Head >= n || a.Modifier < 0 || a.Modifier >= n || a.Head == a.Modifier {
			return ErrBadArc
		}
		hasHead[a.Modifier] = true
	}
	for m := 1; m < n; m++ {
		if !hasHead[m] {
			return ErrNoCandidateHead
		}
	}

	return nil
}
