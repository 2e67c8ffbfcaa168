// SPDX-License-Identifier: MIT

package depgraph

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/depdecode/factorgraph"
)

// SequenceConfig holds, for words 1..n−1 in order, the index of the chosen
// head among that word's candidates.
type SequenceConfig []int

// SequenceFactor models the head choices of consecutive words as a
// first-order Markov chain: each word picks exactly one head, and head
// bigram terms score the pair (head of m, head of m−1).
//
// Variables are laid out word by word, one per candidate head.
type SequenceFactor struct {
	offsets []int // offsets[w] = first variable of word w; len = words+1
	bigrams [][]int
}

// BigramTerm attaches additional score Index to word Word (≥ 1, zero-based
// word index) choosing candidate Head while word Word−1 chooses PrevHead.
type BigramTerm struct {
	Word, Head, PrevHead int
	Index                int
}

var _ factorgraph.GenericFactor[SequenceConfig] = (*SequenceFactor)(nil)

// NewSequenceFactor creates the factor for words with the given candidate
// counts (each ≥ 1).
func NewSequenceFactor(candidates []int, terms []BigramTerm) (*SequenceFactor, error) {
	f := &SequenceFactor{offsets: make([]int, len(candidates)+1), bigrams: make([][]int, len(candidates))}
	for w, c := range candidates {
		if c < 1 {
			return nil, fmt.Errorf("depgraph: NewSequenceFactor: word %d: %w", w, ErrNoCandidateHead)
		}
		f.offsets[w+1] = f.offsets[w] + c
		if w > 0 {
			f.bigrams[w] = make([]int, c*candidates[w-1])
			for i := range f.bigrams[w] {
				f.bigrams[w][i] = -1
			}
		}
	}
	for _, t := range terms {
		if t.Word < 1 || t.Word >= len(candidates) || t.Head < 0 || t.Head >= candidates[t.Word] ||
			t.PrevHead < 0 || t.PrevHead >= candidates[t.Word-1] || t.Index < 0 {
			return nil, fmt.Errorf("depgraph: NewSequenceFactor: bigram %+v out of range", t)
		}
		f.bigrams[t.Word][f.key(t.Word, t.Head, t.PrevHead)] = t.Index
	}

	return f, nil
}

func (f *SequenceFactor) words() int { return len(f.offsets) - 1 }

func (f *SequenceFactor) states(w int) int { return f.offsets[w+1] - f.offsets[w] }

func (f *SequenceFactor) key(w, head, prev int) int { return head*f.states(w-1) + prev }

func (f *SequenceFactor) bigram(additional []float64, w, head, prev int) float64 {
	if i := f.bigrams[w][f.key(w, head, prev)]; i >= 0 {
		return additional[i]
	}

	return 0
}

// Maximize runs Viterbi over the words.
//
// Steps:
//  1. δ_0(h) = vars(0,h).
//  2. δ_w(h) = vars(w,h) + max_p δ_{w−1}(p) + bigram(w,h,p), first p on ties.
//  3. Take the best final state (first on ties) and backtrack.
//
// Complexity: O(Σ_w |H_w|·|H_{w−1}|).
func (f *SequenceFactor) Maximize(vars, additional []float64) (SequenceConfig, float64) {
	words := f.words()
	if words == 0 {
		return SequenceConfig{}, 0
	}
	delta := make([][]float64, words)
	back := make([][]int, words)
	delta[0] = append([]float64(nil), vars[f.offsets[0]:f.offsets[1]]...)
	for w := 1; w < words; w++ {
		delta[w] = make([]float64, f.states(w))
		back[w] = make([]int, f.states(w))
		for h := range delta[w] {
			best, arg := 0.0, -1
			for p, d := range delta[w-1] {
				v := d + f.bigram(additional, w, h, p)
				if arg < 0 || v > best {
					best, arg = v, p
				}
			}
			delta[w][h] = vars[f.offsets[w]+h] + best
			back[w][h] = arg
		}
	}

	last := delta[words-1]
	arg := 0
	for h := 1; h < len(last); h++ {
		if last[h] > last[arg] {
			arg = h
		}
	}
	c := make(SequenceConfig, words)
	c[words-1] = arg
	for w := words - 1; w > 0; w-- {
		c[w-1] = back[w][c[w]]
	}

	return c, last[arg]
}

// Evaluate scores the head sequence c.
func (f *SequenceFactor) Evaluate(vars, additional []float64, c SequenceConfig) float64 {
	v := 0.0
	for w, h := range c {
		v += vars[f.offsets[w]+h]
		if w > 0 {
			v += f.bigram(additional, w, h, c[w-1])
		}
	}

	return v
}

// UpdateMarginalsFromConfiguration adds weight to the chosen heads and bigrams.
func (f *SequenceFactor) UpdateMarginalsFromConfiguration(c SequenceConfig, weight float64, vars, additional []float64) {
	for w, h := range c {
		vars[f.offsets[w]+h] += weight
		if w > 0 {
			if i := f.bigrams[w][f.key(w, h, c[w-1])]; i >= 0 {
				additional[i] += weight
			}
		}
	}
}

// CountCommonValues counts words with the same head in both sequences.
func (f *SequenceFactor) CountCommonValues(a, b SequenceConfig) int {
	n := 0
	for w := range a {
		if a[w] == b[w] {
			n++
		}
	}

	return n
}

// Same reports equality.
func (f *SequenceFactor) Same(a, b SequenceConfig) bool { return slices.Equal(a, b) }
