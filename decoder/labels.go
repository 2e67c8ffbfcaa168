// SPDX-License-Identifier: MIT

package decoder

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/depdecode/parts"
)

// checkLabels verifies that every labeled arc has its arc and, in labeled
// mode, that every arc has at least one label.
func checkLabels(p *parts.Parts) error {
	start, end := p.Range(parts.KindLabeledArc)
	for i := start; i < end; i++ {
		a := p.At(i)
		if p.FindArc(a.Head, a.Modifier) < 0 {
			return fmt.Errorf("%s: %w", a, ErrMissingArc)
		}
	}
	start, end = p.Range(parts.KindArc)
	for i := start; i < end; i++ {
		a := p.At(i)
		if len(p.FindLabeledArcs(a.Head, a.Modifier)) == 0 {
			return fmt.Errorf("%s: %w", a, ErrNoLabels)
		}
	}

	return nil
}

// bestLabels returns, per arc in arc-run order, the index of its
// highest-scoring labeled arc (first maximum).
func bestLabels(p *parts.Parts, scores []float64) ([]int, error) {
	if err := checkLabels(p); err != nil {
		return nil, err
	}
	start, end := p.Range(parts.KindArc)
	best := make([]int, end-start)
	for i := start; i < end; i++ {
		a := p.At(i)
		labeled := p.FindLabeledArcs(a.Head, a.Modifier)
		b := labeled[0]
		for _, j := range labeled[1:] {
			if scores[j] > scores[b] {
				b = j
			}
		}
		best[i-start] = b
	}

	return best, nil
}

// foldLabels returns a copy of scores with each arc's best label added.
func foldLabels(p *parts.Parts, scores []float64, best []int) []float64 {
	folded := append([]float64(nil), scores...)
	start, end := p.Range(parts.KindArc)
	for i := start; i < end; i++ {
		folded[i] += scores[best[i-start]]
	}

	return folded
}

// labelPosteriors folds each arc's label log-sum-exp into arcScores (one per
// arc, in arc-run order) and returns the per-part label probabilities:
// probs[j] = P(label of j | arc of j) for every labeled arc j.
func labelPosteriors(p *parts.Parts, scores, arcScores []float64) ([]float64, error) {
	if err := checkLabels(p); err != nil {
		return nil, err
	}
	probs := make([]float64, p.Len())
	start, end := p.Range(parts.KindArc)
	var buf []float64
	for i := start; i < end; i++ {
		a := p.At(i)
		labeled := p.FindLabeledArcs(a.Head, a.Modifier)
		buf = buf[:0]
		for _, j := range labeled {
			buf = append(buf, scores[j])
		}
		lse := floats.LogSumExp(buf)
		arcScores[i-start] += lse
		for _, j := range labeled {
			probs[j] = math.Exp(scores[j] - lse)
		}
	}

	return probs, nil
}
