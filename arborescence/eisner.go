// SPDX-License-Identifier: MIT

package arborescence

import (
	"math"
)

// Span directions.
const (
	leftward  = 0 // head at the right end
	rightward = 1 // head at the left end
)

// Eisner returns the maximum-scoring projective tree rooted at node 0.
// The root may take several children. Duplicate candidates for the same
// (head, modifier) keep the first best score.
//
// Steps:
//  1. Validate input; scatter the scores into a dense table (−Inf = absent).
//  2. For every span width k and start s (end t = s+k):
//     I[s][t][←] = max_r C[s][r][→] + C[r+1][t][←] + score(t→s)
//     I[s][t][→] = max_r C[s][r][→] + C[r+1][t][←] + score(s→t)
//     C[s][t][←] = max_r C[s][r][←] + I[r][t][←]
//     C[s][t][→] = max_r I[s][r][→] + C[r][t][→]
//  3. The answer is C[0][n−1][→]; −Inf means no projective tree exists
//     (ErrDisconnected). Backtrack through the stored split points.
//
// Complexity: O(n³) time, O(n²) memory.
func Eisner(n int, arcs []Arc, scores []float64) (Solution, error) {
	// 1. Validate and scatter.
	if err := validate(n, arcs, scores); err != nil {
		return Solution{}, err
	}
	negInf := math.Inf(-1)
	score := make([]float64, n*n)
	which := make([]int, n*n)
	for i := range score {
		score[i] = negInf
		which[i] = -1
	}
	for i, a := range arcs {
		key := a.Head*n + a.Modifier
		if which[key] < 0 || scores[i] > score[key] {
			score[key] = scores[i]
			which[key] = i
		}
	}

	// 2. Chart.
	e := newChart(n)
	for k := 1; k < n; k++ {
		for s := 0; s+k < n; s++ {
			t := s + k

			// Incomplete spans share the split maximisation.
			bestR, bestVal := -1, negInf
			for r := s; r < t; r++ {
				v := e.complete[rightward][s*n+r] + e.complete[leftward][(r+1)*n+t]
				if bestR < 0 || v > bestVal {
					bestR, bestVal = r, v
				}
			}
			e.incomplete[leftward][s*n+t] = bestVal + score[t*n+s]
			e.incomplete[rightward][s*n+t] = bestVal + score[s*n+t]
			e.incompleteSplit[s*n+t] = bestR

			bestR, bestVal = -1, negInf
			for r := s; r < t; r++ {
				v := e.complete[leftward][s*n+r] + e.incomplete[leftward][r*n+t]
				if bestR < 0 || v > bestVal {
					bestR, bestVal = r, v
				}
			}
			e.complete[leftward][s*n+t] = bestVal
			e.completeSplit[leftward][s*n+t] = bestR

			bestR, bestVal = -1, negInf
			for r := s + 1; r <= t; r++ {
				v := e.incomplete[rightward][s*n+r] + e.complete[rightward][r*n+t]
				if bestR < 0 || v > bestVal {
					bestR, bestVal = r, v
				}
			}
			e.complete[rightward][s*n+t] = bestVal
			e.completeSplit[rightward][s*n+t] = bestR
		}
	}

	// 3. Backtrack.
	if math.IsInf(e.complete[rightward][n-1], -1) {
		return Solution{}, ErrDisconnected
	}
	heads := make([]int, n)
	heads[0] = -1
	e.backtrackComplete(0, n-1, rightward, heads)

	sol := Solution{Heads: heads, Selected: make([]int, n)}
	sol.Selected[0] = -1
	for m := 1; m < n; m++ {
		a := which[heads[m]*n+m]
		sol.Selected[m] = a
		sol.Value += scores[a]
	}

	return sol, nil
}

// chart holds the Eisner tables, flat s*n+t indexed.
type chart struct {
	n               int
	complete        [2][]float64
	incomplete      [2][]float64
	completeSplit   [2][]int
	incompleteSplit []int
}

func newChart(n int) *chart {
	e := &chart{n: n, incompleteSplit: make([]int, n*n)}
	for d := 0; d < 2; d++ {
		e.complete[d] = make([]float64, n*n)
		e.incomplete[d] = make([]float64, n*n)
		e.completeSplit[d] = make([]int, n*n)
		// Width-zero complete spans score 0; wider ones are overwritten.
		for i := range e.incomplete[d] {
			e.incomplete[d][i] = math.Inf(-1)
		}
	}

	return e
}

func (e *chart) backtrackComplete(s, t, d int, heads []int) {
	if s == t {
		return
	}
	r := e.completeSplit[d][s*e.n+t]
	if d == leftward {
		e.backtrackComplete(s, r, leftward, heads)
		e.backtrackIncomplete(r, t, leftward, heads)

		return
	}
	e.backtrackIncomplete(s, r, rightward, heads)
	e.backtrackComplete(r, t, rightward, heads)
}

func (e *chart) backtrackIncomplete(s, t, d int, heads []int) {
	if d == leftward {
		heads[s] = t
	} else {
		heads[t] = s
	}
	r := e.incompleteSplit[s*e.n+t]
	e.backtrackComplete(s, r, rightward, heads)
	e.backtrackComplete(r+1, t, leftward, heads)
}
