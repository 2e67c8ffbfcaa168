// SPDX-License-Identifier: MIT

package decoder

import (
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/depdecode/parts"
)

// DecodeCostAugmented decodes under scores perturbed by a Hamming cost
// against gold, for margin-based training.
//
// The cost runs over labeled arcs in labeled mode and over arcs otherwise.
// With a = FalsePositiveCost and b = FalseNegativeCost each such part r gets
// p_r = a − (a+b)·gold_r added to its score, and q = b·Σ gold_r is constant,
// so that q + Σ p_r·out_r is the weighted Hamming distance.
//
// Returns:
//
//	cost = q + Σ p_r·out_r
//	loss = cost + Σ score_r·(out_r − gold_r), clamped at 0.
func (d *DependencyDecoder) DecodeCostAugmented(p *parts.Parts, scores, gold []float64) (out []float64, cost, loss float64, err error) {
	decodeCalls.WithLabelValues(modeCostAugmented).Inc()
	ctx, span := d.startSpan("decoder.DecodeCostAugmented", modeCostAugmented, p)
	defer func() { finish(span, err) }()
	start := time.Now()
	if err := check(p, scores, gold); err != nil {
		return nil, 0, 0, fmt.Errorf("decoder: DecodeCostAugmented: %w", err)
	}

	kind := parts.KindArc
	if d.opts.Labeled {
		kind = parts.KindLabeledArc
	}
	first, last := p.Range(kind)
	a, b := d.opts.FalsePositiveCost, d.opts.FalseNegativeCost
	penalty := make([]float64, last-first)
	perturbed := append([]float64(nil), scores...)
	q := 0.0
	for r := first; r < last; r++ {
		penalty[r-first] = a - (a+b)*gold[r]
		perturbed[r] += penalty[r-first]
		q += b * gold[r]
	}

	out, err = d.decode(ctx, p, perturbed)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decoder: DecodeCostAugmented: %w", err)
	}

	cost = q + floats.Dot(penalty, out[first:last])
	diff := make([]float64, len(out))
	floats.SubTo(diff, out, gold)
	loss = d.nonNegative(ctx, cost+floats.Dot(scores, diff), "loss")
	span.SetAttributes(attribute.Float64("depdecode.cost", cost), attribute.Float64("depdecode.loss", loss))
	decodeDuration.WithLabelValues(modeCostAugmented).Observe(time.Since(start).Seconds())

	return out, cost, loss, nil
}
