// SPDX-License-Identifier: MIT

package depgraph

import (
	"log/slog"

	"github.com/katalvlaran/depdecode/factorgraph"
)

// Options configures Build.
//
// Fields:
//
//	Projective        bool                : restrict to projective trees.
//	UseHeadAutomata   bool                : head automata for sibling-family parts.
//	UseSequenceFactor bool                : one SequenceFactor for head bigrams.
//	FactorGraph       []factorgraph.Option: passed to Graph.Solve.
//	Logger            *slog.Logger
type Options struct {
	Projective        bool
	UseHeadAutomata   bool
	UseSequenceFactor bool
	FactorGraph       []factorgraph.Option
	Logger            *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions: non-projective, head automata and sequence factor on.
func DefaultOptions() Options {
	return Options{
		UseHeadAutomata:   true,
		UseSequenceFactor: true,
		Logger:            slog.Default(),
	}
}

// WithProjective restricts decoding to projective trees.
func WithProjective(p bool) Option {
	return func(o *Options) { o.Projective = p }
}

// WithHeadAutomata toggles head automata.
func WithHeadAutomata(use bool) Option {
	return func(o *Options) { o.UseHeadAutomata = use }
}

// WithSequenceFactor toggles the head-bigram SequenceFactor.
func WithSequenceFactor(use bool) Option {
	return func(o *Options) { o.UseSequenceFactor = use }
}

// WithFactorGraphOptions appends options for the consensus solver.
func WithFactorGraphOptions(opts ...factorgraph.Option) Option {
	return func(o *Options) { o.FactorGraph = append(o.FactorGraph, opts...) }
}

// WithLogger sets the logger; nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
			o.FactorGraph = append(o.FactorGraph, factorgraph.WithLogger(l))
		}
	}
}
