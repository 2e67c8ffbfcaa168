// SPDX-License-Identifier: MIT

package depgraph

import (
	"slices"

	"github.com/katalvlaran/depdecode/factorgraph"
)

// NPConfig is the 0/1 assignment of an NPFactor's variables:
// [arc, path_1..path_r, np].
type NPConfig []bool

// NPFactor ties a non-projectivity indicator to its arc and the path
// variables spanned by the arc: np = arc ∧ ¬(path_1 ∧ … ∧ path_r).
// With r = 0 the arc spans no word and np is always 0.
type NPFactor struct {
	r int
}

var _ factorgraph.GenericFactor[NPConfig] = NPFactor{}

// NewNPFactor creates the factor for an arc spanning r words.
func NewNPFactor(r int) NPFactor { return NPFactor{r: r} }

// Maximize enumerates the three regimes and keeps the first best:
// arc off; arc on with every path on; arc on with at least one path off.
func (f NPFactor) Maximize(vars, _ []float64) (NPConfig, float64) {
	arc, paths, np := vars[0], vars[1:1+f.r], vars[1+f.r]

	// Best free choice of paths, their plain sum and the cheapest path to
	// switch off.
	free, sum := 0.0, 0.0
	allOn := true
	weakest := -1
	for j, v := range paths {
		sum += v
		if v > 0 {
			free += v
		} else {
			allOn = false
		}
		if weakest < 0 || v < paths[weakest] {
			weakest = j
		}
	}

	// Regime 1: arc off, paths free.
	c := make(NPConfig, f.r+2)
	for j, v := range paths {
		c[1+j] = v > 0
	}
	best := free

	// Regime 2: arc on, every path on.
	if v := arc + sum; v > best {
		best = v
		c = make(NPConfig, f.r+2)
		for i := 0; i <= f.r; i++ {
			c[i] = true
		}
	}

	// Regime 3: arc on, some path off, np on.
	if f.r > 0 {
		v := arc + np + free
		off := -1
		if allOn {
			v -= paths[weakest]
			off = weakest
		}
		if v > best {
			best = v
			c = make(NPConfig, f.r+2)
			c[0], c[f.r+1] = true, true
			for j, pv := range paths {
				c[1+j] = pv > 0 && j != off
			}
		}
	}

	return c, best
}

// Evaluate sums the scores of the variables set in c.
func (f NPFactor) Evaluate(vars, _ []float64, c NPConfig) float64 {
	v := 0.0
	for i, on := range c {
		if on {
			v += vars[i]
		}
	}

	return v
}

// UpdateMarginalsFromConfiguration adds weight to the variables set in c.
func (f NPFactor) UpdateMarginalsFromConfiguration(c NPConfig, weight float64, vars, _ []float64) {
	for i, on := range c {
		if on {
			vars[i] += weight
		}
	}
}

// CountCommonValues counts variables set in both.
func (f NPFactor) CountCommonValues(a, b NPConfig) int {
	n := 0
	for i := range a {
		if a[i] && b[i] {
			n++
		}
	}

	return n
}

// Same reports equality.
func (f NPFactor) Same(a, b NPConfig) bool { return slices.Equal(a, b) }
