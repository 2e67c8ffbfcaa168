// SPDX-License-Identifier: MIT

package decoder

import (
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/depdecode/arborescence"
	"github.com/katalvlaran/depdecode/matrixtree"
	"github.com/katalvlaran/depdecode/parts"
)

// DecodeMarginals computes part marginals of the Gibbs distribution over
// trees, for log-likelihood training. The model must be arc-factored and
// non-projective.
//
// Steps:
//  1. In labeled mode fold each arc's label log-sum-exp into its score.
//  2. Matrix-Tree marginals and log-partition over the arcs.
//  3. Labeled arcs get label probability × arc marginal.
//  4. entropy = log Z − Σ score·out; loss = entropy + Σ score·(out − gold),
//     both clamped at 0.
func (d *DependencyDecoder) DecodeMarginals(p *parts.Parts, scores, gold []float64) (out []float64, entropy, loss float64, err error) {
	const op = "decoder: DecodeMarginals"
	decodeCalls.WithLabelValues(modeMarginals).Inc()
	ctx, span := d.startSpan("decoder.DecodeMarginals", modeMarginals, p)
	defer func() { finish(span, err) }()
	begin := time.Now()
	if err := check(p, scores, gold); err != nil {
		return nil, 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	if d.opts.Projective {
		return nil, 0, 0, fmt.Errorf("%s: %w", op, ErrProjectiveMarginals)
	}
	if !p.ArcFactored() {
		return nil, 0, 0, fmt.Errorf("%s: %w", op, ErrNotArcFactored)
	}

	// 1. Arc scores, with labels folded in.
	start, end := p.Range(parts.KindArc)
	arcs := make([]arborescence.Arc, 0, end-start)
	for i := start; i < end; i++ {
		a := p.At(i)
		arcs = append(arcs, arborescence.Arc{Head: a.Head, Modifier: a.Modifier})
	}
	arcScores := append([]float64(nil), scores[start:end]...)
	var labelProbs []float64
	if d.opts.Labeled {
		if labelProbs, err = labelPosteriors(p, scores, arcScores); err != nil {
			return nil, 0, 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	// 2. Matrix-Tree.
	res, err := matrixtree.Marginals(p.Length(), arcs, arcScores,
		matrixtree.WithLogger(d.opts.Logger), matrixtree.WithTolerance(clampTolerance))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	if res.Clamped > 0 {
		clamps.WithLabelValues("marginal").Add(float64(res.Clamped))
	}

	// 3. Output.
	out = make([]float64, p.Len())
	copy(out[start:end], res.Marginals)
	if d.opts.Labeled {
		first, last := p.Range(parts.KindLabeledArc)
		for j := first; j < last; j++ {
			a := p.At(j)
			out[j] = labelProbs[j] * out[p.FindArc(a.Head, a.Modifier)]
		}
	}

	// 4. Entropy and loss.
	entropy = d.nonNegative(ctx, res.LogPartition-floats.Dot(scores, out), "entropy")
	diff := make([]float64, len(out))
	floats.SubTo(diff, out, gold)
	loss = d.nonNegative(ctx, entropy+floats.Dot(scores, diff), "loss")
	span.SetAttributes(attribute.Float64("depdecode.log_partition", res.LogPartition),
		attribute.Float64("depdecode.entropy", entropy), attribute.Float64("depdecode.loss", loss))
	decodeDuration.WithLabelValues(modeMarginals).Observe(time.Since(begin).Seconds())

	return out, entropy, loss, nil
}
