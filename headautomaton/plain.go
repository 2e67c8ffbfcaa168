// SPDX-License-Identifier: MIT

package headautomaton

import (
	"fmt"
)

// Automaton is the first-order head automaton over k modifiers.
type Automaton struct {
	k        int
	siblings table2
}

// New creates an automaton over k modifiers with the given sibling terms.
// Returns ErrBadPosition, ErrBadIndex or ErrDuplicateTerm for malformed terms.
func New(k int, siblings []Transition) (*Automaton, error) {
	if k < 0 {
		return nil, fmt.Errorf("headautomaton: New(%d): %w", k, ErrBadPosition)
	}
	a := &Automaton{k: k, siblings: newTable2(k)}
	for _, t := range siblings {
		if err := a.siblings.set(t.From, t.To, t.Index); err != nil {
			return nil, fmt.Errorf("headautomaton: New: sibling %d→%d: %w", t.From, t.To, err)
		}
	}

	return a, nil
}

// NumVariables returns k: one arc per candidate modifier.
func (a *Automaton) NumVariables() int { return a.k }

func (a *Automaton) step(vars, additional []float64) func(i, j int) float64 {
	return func(i, j int) float64 {
		s := a.siblings.score(additional, i, j)
		if j <= a.k {
			s += vars[j-1]
		}

		return s
	}
}

// Maximize returns the best chain and its score.
// Complexity: O(k²).
func (a *Automaton) Maximize(vars, additional []float64) (Configuration, float64) {
	value := make([]float64, a.k+2)
	back := make([]int, a.k+2)
	v := forward(a.k, a.step(vars, additional), value, back)

	return Configuration(backtrack(a.k, back)), v
}

// Evaluate returns the score of chain c.
func (a *Automaton) Evaluate(vars, additional []float64, c Configuration) float64 {
	step := a.step(vars, additional)
	total := 0.0
	walk(a.k, c, func(i, j int) { total += step(i, j) })

	return total
}

// AddPosterior adds weight to every arc and sibling term used by c.
func (a *Automaton) AddPosterior(c Configuration, weight float64, varOut, addOut []float64) {
	walk(a.k, c, func(i, j int) {
		if j <= a.k {
			varOut[j-1] += weight
		}
		a.siblings.add(addOut, i, j, weight)
	})
}

// CountCommon returns the number of arcs selected by both a and b.
func (a *Automaton) CountCommon(x, y Configuration) int { return common(x, y) }
