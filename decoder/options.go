// SPDX-License-Identifier: MIT

package decoder

import (
	"log/slog"
	"math"

	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/depdecode/depgraph"
	"github.com/katalvlaran/depdecode/factorgraph"
)

// Default Hamming cost weights.
const (
	DefaultFalsePositiveCost = 0.5
	DefaultFalseNegativeCost = 0.5
)

// clampTolerance is the drift below zero tolerated without a warning.
const clampTolerance = 1e-6

// Options configures a DependencyDecoder.
//
// Fields:
//
//	Labeled           bool                : decode labels from LabeledArc parts.
//	Projective        bool                : restrict to projective trees.
//	FalsePositiveCost float64             : cost of a predicted part absent from gold.
//	FalseNegativeCost float64             : cost of a gold part not predicted.
//	UseHeadAutomata   bool                : see depgraph.Options.
//	UseSequenceFactor bool                : see depgraph.Options.
//	FactorGraph       []factorgraph.Option: consensus solver settings.
//	Logger            *slog.Logger
//	Tracer            trace.Tracer        : one span per decode call.
type Options struct {
	Labeled           bool
	Projective        bool
	FalsePositiveCost float64
	FalseNegativeCost float64
	UseHeadAutomata   bool
	UseSequenceFactor bool
	FactorGraph       []factorgraph.Option
	Logger            *slog.Logger
	Tracer            trace.Tracer
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns unlabeled, non-projective decoding with symmetric
// 0.5/0.5 costs, head automata and the sequence factor.
func DefaultOptions() Options {
	return Options{
		FalsePositiveCost: DefaultFalsePositiveCost,
		FalseNegativeCost: DefaultFalseNegativeCost,
		UseHeadAutomata:   true,
		UseSequenceFactor: true,
		Logger:            slog.Default(),
		Tracer:            defaultTracer(),
	}
}

// WithLabeled enables label decoding.
func WithLabeled(on bool) Option {
	return func(o *Options) { o.Labeled = on }
}

// WithProjective restricts decoding to projective trees.
func WithProjective(on bool) Option {
	return func(o *Options) { o.Projective = on }
}

// WithCosts sets the false-positive and false-negative weights.
// Panics on negative or non-finite weights.
func WithCosts(falsePositive, falseNegative float64) Option {
	for _, c := range []float64{falsePositive, falseNegative} {
		if c < 0 || math.IsNaN(c) || math.IsInf(c, 0) {
			panic("decoder: WithCosts: weights must be finite and non-negative")
		}
	}

	return func(o *Options) {
		o.FalsePositiveCost = falsePositive
		o.FalseNegativeCost = falseNegative
	}
}

// WithHeadAutomata toggles head automata in the factor graph.
func WithHeadAutomata(on bool) Option {
	return func(o *Options) { o.UseHeadAutomata = on }
}

// WithSequenceFactor toggles the head-bigram sequence factor.
func WithSequenceFactor(on bool) Option {
	return func(o *Options) { o.UseSequenceFactor = on }
}

// WithFactorGraphOptions appends consensus solver options.
func WithFactorGraphOptions(opts ...factorgraph.Option) Option {
	return func(o *Options) { o.FactorGraph = append(o.FactorGraph, opts...) }
}

// WithLogger sets the logger; nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithTracer sets the tracer of the decode spans; nil is ignored.
func WithTracer(t trace.Tracer) Option {
	return func(o *Options) {
		if t != nil {
			o.Tracer = t
		}
	}
}

// graphOptions translates the decoder settings for depgraph.
func (o Options) graphOptions() []depgraph.Option {
	return []depgraph.Option{
		depgraph.WithProjective(o.Projective),
		depgraph.WithHeadAutomata(o.UseHeadAutomata),
		depgraph.WithSequenceFactor(o.UseSequenceFactor),
		depgraph.WithFactorGraphOptions(o.FactorGraph...),
		depgraph.WithLogger(o.Logger),
	}
}
