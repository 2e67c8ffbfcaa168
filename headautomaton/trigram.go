// SPDX-License-Identifier: MIT

package headautomaton

import (
	"fmt"
	"math"
	"slices"
)

// TrigramAutomaton is the second-order head automaton: its states are the
// last two accepted positions, which lets trisibling terms score three
// consecutive positions.
type TrigramAutomaton struct {
	k        int
	siblings table2
	tri      []int // [(i*(k+2)+j)*(k+2)+l]
}

// NewTrigram creates the automaton over k modifiers.
func NewTrigram(k int, siblings []Transition, triSiblings []TrigramTerm) (*TrigramAutomaton, error) {
	if k < 0 {
		return nil, fmt.Errorf("headautomaton: NewTrigram(%d): %w", k, ErrBadPosition)
	}
	size := k + 2
	a := &TrigramAutomaton{k: k, siblings: newTable2(k), tri: make([]int, size*size*size)}
	for i := range a.tri {
		a.tri[i] = -1
	}
	for _, t := range siblings {
		if err := a.siblings.set(t.From, t.To, t.Index); err != nil {
			return nil, fmt.Errorf("headautomaton: NewTrigram: sibling %d→%d: %w", t.From, t.To, err)
		}
	}
	for _, t := range triSiblings {
		if t.First < 0 || t.First >= t.Second || t.Second >= t.Third || t.Third > k+1 || t.Second > k {
			return nil, fmt.Errorf("headautomaton: NewTrigram: trisibling %d→%d→%d: %w", t.First, t.Second, t.Third, ErrBadPosition)
		}
		if t.Index < 0 {
			return nil, fmt.Errorf("headautomaton: NewTrigram: %w", ErrBadIndex)
		}
		key := a.key(t.First, t.Second, t.Third)
		if a.tri[key] >= 0 {
			return nil, fmt.Errorf("headautomaton: NewTrigram: trisibling %d→%d→%d: %w", t.First, t.Second, t.Third, ErrDuplicateTerm)
		}
		a.tri[key] = t.Index
	}

	return a, nil
}

func (a *TrigramAutomaton) key(i, j, l int) int {
	size := a.k + 2

	return (i*size+j)*size + l
}

// NumVariables returns k.
func (a *TrigramAutomaton) NumVariables() int { return a.k }

func (a *TrigramAutomaton) triScore(additional []float64, i, j, l int) float64 {
	if idx := a.tri[a.key(i, j, l)]; idx >= 0 {
		return additional[idx]
	}

	return 0
}

func (a *TrigramAutomaton) arc(vars []float64, j int) float64 {
	if j <= a.k {
		return vars[j-1]
	}

	return 0
}

// Maximize returns the best chain under sibling and trisibling terms.
//
// Steps:
//  1. V[0][j] = arc(j) + sib(0,j): j is the first accepted modifier.
//  2. V[j][l] = max_{i<j} V[i][j] + arc(l) + sib(j,l) + tri(i,j,l).
//  3. End: the empty chain scores sib(0,k+1); otherwise close state (i,j)
//     with sib(j,k+1) + tri(i,j,k+1). The empty chain wins ties, then states
//     in (j, i) order.
//  4. Backtrack through the stored predecessors.
//
// Complexity: O(k³) time, O(k²) memory.
func (a *TrigramAutomaton) Maximize(vars, additional []float64) (Configuration, float64) {
	k, size := a.k, a.k+2
	value := make([]float64, size*size)
	back := make([]int, size*size)
	for i := range value {
		value[i] = math.Inf(-1)
		back[i] = -1
	}

	// 1. First modifier.
	for j := 1; j <= k; j++ {
		value[j] = a.arc(vars, j) + a.siblings.score(additional, 0, j)
	}

	// 2. Later modifiers; V[·][j] is final once j is reached.
	for j := 1; j <= k; j++ {
		for l := j + 1; l <= k; l++ {
			base := a.arc(vars, l) + a.siblings.score(additional, j, l)
			for i := 0; i < j; i++ {
				v := value[i*size+j] + base + a.triScore(additional, i, j, l)
				if back[j*size+l] < 0 || v > value[j*size+l] {
					value[j*size+l] = v
					back[j*size+l] = i
				}
			}
		}
	}

	// 3. End state.
	best := a.siblings.score(additional, 0, k+1)
	bi, bj := 0, 0
	for j := 1; j <= k; j++ {
		closing := a.siblings.score(additional, j, k+1)
		for i := 0; i < j; i++ {
			v := value[i*size+j] + closing + a.triScore(additional, i, j, k+1)
			if v > best {
				best, bi, bj = v, i, j
			}
		}
	}

	// 4. Backtrack.
	var pos []int
	if bj > 0 {
		pos = append(pos, bj)
		for i, j := bi, bj; i > 0; {
			p := back[i*size+j]
			pos = append(pos, i)
			i, j = p, i
		}
		slices.Reverse(pos)
	}

	return Configuration(pos), best
}

// chain calls visit for every transition of c, passing the position before
// the move (-1 for the first move, which has no trisibling context).
func (a *TrigramAutomaton) chain(c Configuration, visit func(prev2, i, j int)) {
	prev2, prev := -1, 0
	for _, p := range c {
		visit(prev2, prev, p)
		prev2, prev = prev, p
	}
	visit(prev2, prev, a.k+1)
}

// Evaluate returns the score of chain c.
func (a *TrigramAutomaton) Evaluate(vars, additional []float64, c Configuration) float64 {
	total := 0.0
	a.chain(c, func(prev2, i, j int) {
		total += a.arc(vars, j) + a.siblings.score(additional, i, j)
		if prev2 >= 0 {
			total += a.triScore(additional, prev2, i, j)
		}
	})

	return total
}

// AddPosterior adds weight to every arc, sibling and trisibling term of c.
func (a *TrigramAutomaton) AddPosterior(c Configuration, weight float64, varOut, addOut []float64) {
	a.chain(c, func(prev2, i, j int) {
		if j <= a.k {
			varOut[j-1] += weight
		}
		a.siblings.add(addOut, i, j, weight)
		if prev2 >= 0 {
			if idx := a.tri[a.key(prev2, i, j)]; idx >= 0 {
				addOut[idx] += weight
			}
		}
	})
}

// CountCommon returns the number of arcs selected by both chains.
func (a *TrigramAutomaton) CountCommon(x, y Configuration) int { return common(x, y) }
