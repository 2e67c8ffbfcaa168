// SPDX-License-Identifier: MIT

package depgraph

import (
	"github.com/katalvlaran/depdecode/factorgraph"
	"github.com/katalvlaran/depdecode/headautomaton"
)

// AutomatonFactor exposes a head automaton as a generic factor. Variables
// are the automaton's arcs in NumVariables order; additional scores are the
// terms' Index targets.
type AutomatonFactor struct {
	solver headautomaton.Solver
}

var _ factorgraph.GenericFactor[headautomaton.Configuration] = AutomatonFactor{}

// NewAutomatonFactor wraps solver.
func NewAutomatonFactor(solver headautomaton.Solver) AutomatonFactor {
	return AutomatonFactor{solver: solver}
}

// Maximize delegates to the automaton.
func (f AutomatonFactor) Maximize(vars, additional []float64) (headautomaton.Configuration, float64) {
	return f.solver.Maximize(vars, additional)
}

// Evaluate delegates to the automaton.
func (f AutomatonFactor) Evaluate(vars, additional []float64, c headautomaton.Configuration) float64 {
	return f.solver.Evaluate(vars, additional, c)
}

// UpdateMarginalsFromConfiguration delegates to AddPosterior.
func (f AutomatonFactor) UpdateMarginalsFromConfiguration(c headautomaton.Configuration, weight float64, vars, additional []float64) {
	f.solver.AddPosterior(c, weight, vars, additional)
}

// CountCommonValues delegates to CountCommon.
func (f AutomatonFactor) CountCommonValues(a, b headautomaton.Configuration) int {
	return f.solver.CountCommon(a, b)
}

// Same compares configurations.
func (f AutomatonFactor) Same(a, b headautomaton.Configuration) bool {
	return headautomaton.Equal(a, b)
}
