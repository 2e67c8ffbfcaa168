// SPDX-License-Identifier: MIT

package decoder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/depdecode/arborescence"
	"github.com/katalvlaran/depdecode/depgraph"
	"github.com/katalvlaran/depdecode/parts"
)

// Decoder is the contract between the training loop and the inference
// core. All vectors are aligned with the part collection.
type Decoder interface {
	// Decode returns the MAP output.
	Decode(p *parts.Parts, scores []float64) ([]float64, error)
	// DecodeCostAugmented returns the MAP output under cost-perturbed scores,
	// the realised cost and the margin loss.
	DecodeCostAugmented(p *parts.Parts, scores, gold []float64) (out []float64, cost, loss float64, err error)
	// DecodeMarginals returns part marginals, entropy and log-likelihood loss.
	DecodeMarginals(p *parts.Parts, scores, gold []float64) (out []float64, entropy, loss float64, err error)
	// DecodeCostAugmentedMarginals returns cost-augmented marginals.
	DecodeCostAugmentedMarginals(p *parts.Parts, scores, gold []float64) (out []float64, entropy, loss float64, err error)
}

// DependencyDecoder decodes unlabeled or labeled dependency trees.
type DependencyDecoder struct {
	opts Options
}

var _ Decoder = (*DependencyDecoder)(nil)

// New returns a decoder configured by opts.
func New(opts ...Option) *DependencyDecoder {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &DependencyDecoder{opts: o}
}

// Options returns the decoder's configuration.
func (d *DependencyDecoder) Options() Options { return d.opts }

// Decode returns the MAP output: 1 for every part of the best tree, 0
// elsewhere. With higher-order parts the values come from the relaxation and
// may be fractional.
func (d *DependencyDecoder) Decode(p *parts.Parts, scores []float64) (out []float64, err error) {
	decodeCalls.WithLabelValues(modeMAP).Inc()
	ctx, span := d.startSpan("decoder.Decode", modeMAP, p)
	defer func() { finish(span, err) }()
	start := time.Now()
	out, err = d.decode(ctx, p, scores)
	if err != nil {
		return nil, fmt.Errorf("decoder: Decode: %w", err)
	}
	decodeDuration.WithLabelValues(modeMAP).Observe(time.Since(start).Seconds())

	return out, nil
}

// DecodeCostAugmentedMarginals is not offered for dependency trees.
func (d *DependencyDecoder) DecodeCostAugmentedMarginals(p *parts.Parts, _, _ []float64) ([]float64, float64, float64, error) {
	decodeCalls.WithLabelValues(modeCostAugmentedMarginals).Inc()
	_, span := d.startSpan("decoder.DecodeCostAugmentedMarginals", modeCostAugmentedMarginals, p)
	err := fmt.Errorf("decoder: DecodeCostAugmentedMarginals: %w", ErrNotImplemented)
	finish(span, err)

	return nil, 0, 0, err
}

// check validates the collection and the vectors aligned with it.
func check(p *parts.Parts, vectors ...[]float64) error {
	if !p.Built() {
		return parts.ErrNotBuilt
	}
	if !p.Indexed() {
		return parts.ErrNotIndexed
	}
	for _, v := range vectors {
		if len(v) != p.Len() {
			return ErrLengthMismatch
		}
	}

	return nil
}

// decode runs MAP decoding.
//
// Steps:
//  1. Validate; in labeled mode pick the best label per arc and fold its
//     score into the arc.
//  2. Arc-factored: exact tree solver. Otherwise: factor graph.
//  3. Copy each arc's value onto its chosen label.
func (d *DependencyDecoder) decode(ctx context.Context, p *parts.Parts, scores []float64) ([]float64, error) {
	if err := check(p, scores); err != nil {
		return nil, err
	}
	folded := scores
	var best []int
	if d.opts.Labeled {
		var err error
		if best, err = bestLabels(p, scores); err != nil {
			return nil, err
		}
		folded = foldLabels(p, scores, best)
	}

	var out []float64
	var err error
	if p.ArcFactored() {
		out, err = d.decodeTree(p, folded)
	} else {
		out, err = d.decodeGraph(ctx, p, folded)
	}
	if err != nil {
		return nil, err
	}

	if d.opts.Labeled {
		start, end := p.Range(parts.KindArc)
		for i := start; i < end; i++ {
			out[best[i-start]] = out[i]
		}
	}

	return out, nil
}

// decodeTree solves an arc-factored model exactly.
func (d *DependencyDecoder) decodeTree(p *parts.Parts, scores []float64) ([]float64, error) {
	start, end := p.Range(parts.KindArc)
	arcs := make([]arborescence.Arc, 0, end-start)
	for i := start; i < end; i++ {
		a := p.At(i)
		arcs = append(arcs, arborescence.Arc{Head: a.Head, Modifier: a.Modifier})
	}
	sol, err := arborescence.MaximumArborescence(p.Length(), arcs, scores[start:end],
		arborescence.WithProjective(d.opts.Projective), arborescence.WithLogger(d.opts.Logger))
	if err != nil {
		return nil, err
	}

	out := make([]float64, p.Len())
	for m := 1; m < p.Length(); m++ {
		out[start+sol.Selected[m]] = 1
	}

	return out, nil
}

// decodeGraph solves a higher-order model with the factor graph.
func (d *DependencyDecoder) decodeGraph(ctx context.Context, p *parts.Parts, scores []float64) ([]float64, error) {
	res, err := depgraph.Solve(p, scores, d.opts.graphOptions()...)
	if err != nil {
		return nil, err
	}
	d.opts.Logger.DebugContext(ctx, "decoder: factor graph solved",
		slog.String("status", res.Status.String()), slog.Int("iterations", res.Iterations),
		slog.Float64("primal", res.Primal))
	trace.SpanFromContext(ctx).AddEvent("factor_graph_solved", trace.WithAttributes(
		attribute.String("status", res.Status.String()),
		attribute.Int("iterations", res.Iterations),
		attribute.Float64("primal", res.Primal)))

	return res.Values, nil
}

// nonNegative clamps a loss or entropy that drifted below zero.
func (d *DependencyDecoder) nonNegative(ctx context.Context, v float64, quantity string) float64 {
	if v >= 0 {
		return v
	}
	clamps.WithLabelValues(quantity).Inc()
	level := slog.LevelDebug
	if v < -clampTolerance {
		level = slog.LevelWarn
	}
	d.opts.Logger.Log(ctx, level, "decoder: negative value clamped",
		slog.Float64("value", v), slog.Float64("clamped_to", 0), slog.String("where", quantity))
	trace.SpanFromContext(ctx).AddEvent("clamped", trace.WithAttributes(
		attribute.String("where", quantity), attribute.Float64("value", v)))

	return 0
}
