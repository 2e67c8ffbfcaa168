// SPDX-License-Identifier: MIT

package depgraph

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/katalvlaran/depdecode/arborescence"
	"github.com/katalvlaran/depdecode/factorgraph"
)

// TreeConfig lists, for modifiers 1..n−1 in order, the index of the selected
// arc in the factor's arc list.
type TreeConfig []int

// TreeFactor constrains its arc variables to form a tree rooted at node 0.
type TreeFactor struct {
	n      int
	arcs   []arborescence.Arc
	opts   []arborescence.Option
	logger *slog.Logger
}

var _ factorgraph.GenericFactor[TreeConfig] = (*TreeFactor)(nil)

// NewTreeFactor returns a tree factor over arcs, checking that at least one
// tree exists. Variables are attached in arc order.
func NewTreeFactor(n int, arcs []arborescence.Arc, projective bool, logger *slog.Logger) (*TreeFactor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f := &TreeFactor{
		n:      n,
		arcs:   arcs,
		opts:   []arborescence.Option{arborescence.WithProjective(projective), arborescence.WithLogger(logger)},
		logger: logger,
	}
	if _, err := arborescence.MaximumArborescence(n, arcs, make([]float64, len(arcs)), f.opts...); err != nil {
		return nil, fmt.Errorf("depgraph: NewTreeFactor: %w", err)
	}

	return f, nil
}

// Maximize returns the best tree under vars.
func (f *TreeFactor) Maximize(vars, _ []float64) (TreeConfig, float64) {
	sol, err := arborescence.MaximumArborescence(f.n, f.arcs, vars, f.opts...)
	if err != nil {
		// Feasibility was checked by NewTreeFactor and does not depend on scores.
		panic(fmt.Sprintf("depgraph: TreeFactor.Maximize: %v", err))
	}

	return TreeConfig(sol.Selected[1:]), sol.Value
}

// Evaluate sums the scores of the selected arcs.
func (f *TreeFactor) Evaluate(vars, _ []float64, c TreeConfig) float64 {
	v := 0.0
	for _, a := range c {
		v += vars[a]
	}

	return v
}

// UpdateMarginalsFromConfiguration adds weight to the selected arcs.
func (f *TreeFactor) UpdateMarginalsFromConfiguration(c TreeConfig, weight float64, vars, _ []float64) {
	for _, a := range c {
		vars[a] += weight
	}
}

// CountCommonValues counts modifiers with the same head in both trees.
func (f *TreeFactor) CountCommonValues(a, b TreeConfig) int {
	n := 0
	for i := range a {
		if a[i] == b[i] {
			n++
		}
	}

	return n
}

// Same reports whether both trees are identical.
func (f *TreeFactor) Same(a, b TreeConfig) bool { return slices.Equal(a, b) }
