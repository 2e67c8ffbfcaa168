// SPDX-License-Identifier: MIT

package headautomaton

import (
	"fmt"
	"math"
)

// GrandparentAutomaton selects one incoming arc of the head together with a
// chain of modifiers. Variables are the g incoming arcs followed by the k
// modifier arcs; configurations are [grandparent, positions...].
type GrandparentAutomaton struct {
	g, k          int
	siblings      table2
	grandparents  []int    // [gp*(k+2)+j]
	grandSiblings []table2 // per grandparent
}

// NewGrandparent creates the automaton for g candidate grandparents and k
// modifiers. Returns ErrNoGrandparent when g == 0.
func NewGrandparent(g, k int, siblings []Transition, grandparents []GrandparentTerm, grandSiblings []GrandSiblingTerm) (*GrandparentAutomaton, error) {
	if g <= 0 {
		return nil, ErrNoGrandparent
	}
	if k < 0 {
		return nil, fmt.Errorf("headautomaton: NewGrandparent(%d, %d): %w", g, k, ErrBadPosition)
	}
	a := &GrandparentAutomaton{
		g:             g,
		k:             k,
		siblings:      newTable2(k),
		grandparents:  make([]int, g*(k+2)),
		grandSiblings: make([]table2, g),
	}
	for i := range a.grandparents {
		a.grandparents[i] = -1
	}
	for i := range a.grandSiblings {
		a.grandSiblings[i] = newTable2(k)
	}

	for _, t := range siblings {
		if err := a.siblings.set(t.From, t.To, t.Index); err != nil {
			return nil, fmt.Errorf("headautomaton: NewGrandparent: sibling %d→%d: %w", t.From, t.To, err)
		}
	}
	for _, t := range grandparents {
		if t.Grandparent < 0 || t.Grandparent >= g || t.To < 1 || t.To > k {
			return nil, fmt.Errorf("headautomaton: NewGrandparent: grandparent %d→%d: %w", t.Grandparent, t.To, ErrBadPosition)
		}
		if t.Index < 0 {
			return nil, fmt.Errorf("headautomaton: NewGrandparent: %w", ErrBadIndex)
		}
		key := t.Grandparent*(k+2) + t.To
		if a.grandparents[key] >= 0 {
			return nil, fmt.Errorf("headautomaton: NewGrandparent: grandparent %d→%d: %w", t.Grandparent, t.To, ErrDuplicateTerm)
		}
		a.grandparents[key] = t.Index
	}
	for _, t := range grandSiblings {
		if t.Grandparent < 0 || t.Grandparent >= g {
			return nil, fmt.Errorf("headautomaton: NewGrandparent: grandsibling %d: %w", t.Grandparent, ErrBadPosition)
		}
		if err := a.grandSiblings[t.Grandparent].set(t.From, t.To, t.Index); err != nil {
			return nil, fmt.Errorf("headautomaton: NewGrandparent: grandsibling %d:%d→%d: %w", t.Grandparent, t.From, t.To, err)
		}
	}

	return a, nil
}

// NumVariables returns g + k.
func (a *GrandparentAutomaton) NumVariables() int { return a.g + a.k }

func (a *GrandparentAutomaton) step(gp int, vars, additional []float64) func(i, j int) float64 {
	return func(i, j int) float64 {
		s := a.siblings.score(additional, i, j) + a.grandSiblings[gp].score(additional, i, j)
		if j <= a.k {
			s += vars[a.g+j-1]
			if idx := a.grandparents[gp*(a.k+2)+j]; idx >= 0 {
				s += additional[idx]
			}
		}

		return s
	}
}

// Maximize tries every grandparent and keeps the best (first on ties).
//
// Steps:
//  1. For each grandparent gp: run the chain DP with gp's terms added and
//     the incoming arc score vars[gp].
//  2. Keep the predecessor table of the best gp only (buffers are swapped,
//     not copied).
//  3. Backtrack once.
//
// Complexity: O(g·k²).
func (a *GrandparentAutomaton) Maximize(vars, additional []float64) (Configuration, float64) {
	value := make([]float64, a.k+2)
	back := make([]int, a.k+2)
	bestBack := make([]int, a.k+2)
	best, bestG := math.Inf(-1), -1
	for gp := 0; gp < a.g; gp++ {
		v := vars[gp] + forward(a.k, a.step(gp, vars, additional), value, back)
		if bestG < 0 || v > best {
			best, bestG = v, gp
			back, bestBack = bestBack, back
		}
	}

	c := Configuration{bestG}

	return append(c, backtrack(a.k, bestBack)...), best
}

// Evaluate returns the score of configuration c.
func (a *GrandparentAutomaton) Evaluate(vars, additional []float64, c Configuration) float64 {
	gp := c[0]
	step := a.step(gp, vars, additional)
	total := vars[gp]
	walk(a.k, c[1:], func(i, j int) { total += step(i, j) })

	return total
}

// AddPosterior adds weight to the incoming arc, the modifier arcs and every
// term used by c.
func (a *GrandparentAutomaton) AddPosterior(c Configuration, weight float64, varOut, addOut []float64) {
	gp := c[0]
	varOut[gp] += weight
	walk(a.k, c[1:], func(i, j int) {
		if j <= a.k {
			varOut[a.g+j-1] += weight
			if idx := a.grandparents[gp*(a.k+2)+j]; idx >= 0 {
				addOut[idx] += weight
			}
		}
		a.siblings.add(addOut, i, j, weight)
		a.grandSiblings[gp].add(addOut, i, j, weight)
	})
}

// CountCommon counts shared arcs: the incoming arc plus common modifiers.
func (a *GrandparentAutomaton) CountCommon(x, y Configuration) int {
	n := common(x[1:], y[1:])
	if x[0] == y[0] {
		n++
	}

	return n
}
