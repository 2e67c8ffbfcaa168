// SPDX-License-Identifier: MIT

package headautomaton

import (
	"errors"
	"slices"
)

var (
	// ErrBadPosition indicates a term whose positions fall outside 0..k+1 or
	// are not strictly increasing.
	ErrBadPosition = errors.New("headautomaton: invalid chain position")

	// ErrBadIndex indicates a negative additional-score index.
	ErrBadIndex = errors.New("headautomaton: invalid score index")

	// ErrNoGrandparent indicates a grandparent automaton without incoming arcs.
	ErrNoGrandparent = errors.New("headautomaton: no candidate grandparent")

	// ErrDuplicateTerm indicates two terms addressing the same transition.
	ErrDuplicateTerm = errors.New("headautomaton: duplicate term")
)

// Configuration is a chain: accepted positions in increasing order, preceded
// by the grandparent index for GrandparentAutomaton.
type Configuration []int

// Equal reports whether two configurations select the same structure.
func Equal(a, b Configuration) bool { return slices.Equal(a, b) }

// Transition attaches additional score Index to the move From → To between
// consecutive chain positions (0 ≤ From < To ≤ k+1).
type Transition struct {
	From, To int
	Index    int
}

// GrandparentTerm attaches additional score Index to accepting position To
// under grandparent Grandparent.
type GrandparentTerm struct {
	Grandparent int
	To          int
	Index       int
}

// GrandSiblingTerm attaches additional score Index to the move From → To
// under grandparent Grandparent.
type GrandSiblingTerm struct {
	Grandparent int
	From, To    int
	Index       int
}

// TrigramTerm attaches additional score Index to three consecutive chain
// positions First → Second → Third.
type TrigramTerm struct {
	First, Second, Third int
	Index                int
}

// Solver is the per-head contract consumed by generic factors.
//
// vars holds one score per variable (the arcs, see NumVariables); additional
// holds the scores addressed by the terms' Index fields.
type Solver interface {
	NumVariables() int
	Maximize(vars, additional []float64) (Configuration, float64)
	Evaluate(vars, additional []float64, c Configuration) float64
	AddPosterior(c Configuration, weight float64, varOut, addOut []float64)
	CountCommon(a, b Configuration) int
}

// table2 is a dense (k+2)×(k+2) transition table of score indices.
type table2 struct {
	size int
	idx  []int
}

func newTable2(k int) table2 {
	size := k + 2
	t := table2{size: size, idx: make([]int, size*size)}
	for i := range t.idx {
		t.idx[i] = -1
	}

	return t
}

func (t table2) set(from, to, index int) error {
	if from < 0 || to >= t.size || from >= to {
		return ErrBadPosition
	}
	if index < 0 {
		return ErrBadIndex
	}
	if t.idx[from*t.size+to] >= 0 {
		return ErrDuplicateTerm
	}
	t.idx[from*t.size+to] = index

	return nil
}

func (t table2) score(additional []float64, from, to int) float64 {
	if i := t.idx[from*t.size+to]; i >= 0 {
		return additional[i]
	}

	return 0
}

func (t table2) add(addOut []float64, from, to int, w float64) {
	if i := t.idx[from*t.size+to]; i >= 0 {
		addOut[i] += w
	}
}

// chain DP shared by the first-order automata. step(i, j) scores the move
// from position i to position j (arc score included for j ≤ k).
// value and back must have length k+2; back[j] receives the best predecessor.
// Ties keep the first predecessor.
func forward(k int, step func(i, j int) float64, value []float64, back []int) float64 {
	value[0] = 0
	for j := 1; j <= k+1; j++ {
		best, arg := 0.0, -1
		for i := 0; i < j; i++ {
			v := value[i] + step(i, j)
			if arg < 0 || v > best {
				best, arg = v, i
			}
		}
		value[j], back[j] = best, arg
	}

	return value[k+1]
}

// backtrack reads the accepted positions from the predecessor table.
func backtrack(k int, back []int) []int {
	var pos []int
	for j := back[k+1]; j > 0; j = back[j] {
		pos = append(pos, j)
	}
	slices.Reverse(pos)

	return pos
}

// walk calls visit for every consecutive pair of the full chain
// 0, positions..., k+1.
func walk(k int, positions []int, visit func(i, j int)) {
	prev := 0
	for _, p := range positions {
		visit(prev, p)
		prev = p
	}
	visit(prev, k+1)
}

// common counts positions shared by two increasing lists.
func common(a, b []int) int {
	n, i, j := 0, 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			n++
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}

	return n
}
