// SPDX-License-Identifier: MIT

package factorgraph

import (
	"log/slog"
	"math"
)

// Defaults.
const (
	DefaultMaxIterations     = 500
	DefaultEta               = 0.1
	DefaultResidualThreshold = 1e-6
)

// step-size bounds for the adaptive penalty.
const (
	minEta = 1e-3
	maxEta = 1e3
)

// Options configures Solve.
//
// Fields:
//
//	MaxIterations     int         : iteration cap.
//	Eta               float64     : initial penalty.
//	AdaptStepSize     bool        : residual-balanced penalty updates.
//	ResidualThreshold float64     : convergence threshold on both residuals.
//	CacheSolutions    bool        : skip factors whose inputs are unchanged.
//	Logger            *slog.Logger: Debug progress records.
type Options struct {
	MaxIterations     int
	Eta               float64
	AdaptStepSize     bool
	ResidualThreshold float64
	CacheSolutions    bool
	Logger            *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		MaxIterations:     DefaultMaxIterations,
		Eta:               DefaultEta,
		AdaptStepSize:     true,
		ResidualThreshold: DefaultResidualThreshold,
		CacheSolutions:    true,
		Logger:            slog.Default(),
	}
}

// WithMaxIterations sets the iteration cap. Panics if n < 1.
func WithMaxIterations(n int) Option {
	if n < 1 {
		panic("factorgraph: WithMaxIterations: cap must be positive")
	}

	return func(o *Options) { o.MaxIterations = n }
}

// WithEta sets the initial penalty. Panics on a non-positive or non-finite value.
func WithEta(eta float64) Option {
	if !(eta > 0) || math.IsInf(eta, 1) {
		panic("factorgraph: WithEta: eta must be positive and finite")
	}

	return func(o *Options) { o.Eta = eta }
}

// WithAdaptStepSize toggles penalty adaptation.
func WithAdaptStepSize(adapt bool) Option {
	return func(o *Options) { o.AdaptStepSize = adapt }
}

// WithResidualThreshold sets the convergence threshold. Panics if negative or NaN.
func WithResidualThreshold(t float64) Option {
	if t < 0 || math.IsNaN(t) {
		panic("factorgraph: WithResidualThreshold: threshold must be non-negative")
	}

	return func(o *Options) { o.ResidualThreshold = t }
}

// WithCacheSolutions toggles reuse of unchanged factor solutions.
func WithCacheSolutions(cache bool) Option {
	return func(o *Options) { o.CacheSolutions = cache }
}

// WithLogger sets the logger; nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// Apply folds opts into a copy of o.
func (o Options) Apply(opts ...Option) Options {
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
