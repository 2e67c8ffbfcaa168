// SPDX-License-Identifier: MIT

package factorgraph

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// GenericFactor is a factor known only through operations on its feasible
// configurations of type C. vars has one entry per attached variable;
// additional one entry per additional score.
type GenericFactor[C any] interface {
	// Maximize returns the best configuration and its score.
	Maximize(vars, additional []float64) (C, float64)
	// Evaluate returns the score of c.
	Evaluate(vars, additional []float64, c C) float64
	// UpdateMarginalsFromConfiguration adds weight to every variable and
	// additional entry that is 1 in c.
	UpdateMarginalsFromConfiguration(c C, weight float64, vars, additional []float64)
	// CountCommonValues returns the number of variables that are 1 in both.
	CountCommonValues(a, b C) int
	// Same reports whether a and b are the same configuration.
	Same(a, b C) bool
}

// Active-set solver limits.
const (
	activeSetIterations = 200
	activeSetTolerance  = 1e-12
	optimalityTolerance = 1e-8 // above the τ shift caused by the ridge
	kktRidge            = 1e-9
)

// Generic adapts a GenericFactor to Factor with an active-set QP solver.
// The active set is kept between calls, so consecutive AD3 iterations
// warm-start from the previous solution.
type Generic[C any] struct {
	inner   GenericFactor[C]
	active  []C
	weights []float64
}

// NewGeneric wraps f.
func NewGeneric[C any](f GenericFactor[C]) *Generic[C] {
	return &Generic[C]{inner: f}
}

// Inner returns the wrapped factor.
func (g *Generic[C]) Inner() GenericFactor[C] { return g.inner }

// Active returns the current active configurations and their weights
// (shared slices).
func (g *Generic[C]) Active() ([]C, []float64) { return g.active, g.weights }

// SolveQP minimises ½zᵀQz − rᵀz over distributions z on configurations,
// where Q_st = CountCommonValues(s, t) and r_s = Evaluate(a, b, s); then
// μ = Σ z_s·vars(s) and ν = Σ z_s·additional(s).
//
// Steps:
//  1. Start from the previous active set, or from Maximize(a, b).
//  2. Solve the equality-constrained KKT system
//     [Q 1; 1ᵀ 0]·[z; τ] = [r; 1] on the active set.
//  3. If some z_s < 0, move from the current weights towards z until the
//     first weight hits 0 and drop that configuration; go to 2.
//  4. Otherwise accept z and ask Maximize(a − μ, b) for the most violated
//     configuration; stop if its value ≤ τ, else add it and go to 2.
func (g *Generic[C]) SolveQP(a, b, mu, nu []float64) {
	// 1. Warm start.
	if len(g.active) == 0 {
		c, _ := g.inner.Maximize(a, b)
		g.active = []C{c}
		g.weights = []float64{1}
	}

	diff := make([]float64, len(a))
	for iter := 0; iter < activeSetIterations; iter++ {
		// 2. KKT solve.
		z, tau, ok := g.solveKKT(a, b)
		if !ok {
			break
		}

		// 3. Blocking step.
		if g.blockingStep(z) {
			continue
		}
		copy(g.weights, z)

		// 4. Most violated configuration.
		g.marginals(mu, nu)
		floats.SubTo(diff, a, mu)
		c, v := g.inner.Maximize(diff, b)
		if v <= tau+optimalityTolerance || g.contains(c) {
			break
		}
		g.active = append(g.active, c)
		g.weights = append(g.weights, 0)
	}
	g.marginals(mu, nu)
}

// solveKKT returns the equality-constrained minimiser on the active set and
// the multiplier τ of Σz = 1.
func (g *Generic[C]) solveKKT(a, b []float64) ([]float64, float64, bool) {
	s := len(g.active)
	kkt := mat.NewDense(s+1, s+1, nil)
	rhs := mat.NewVecDense(s+1, nil)
	for i := 0; i < s; i++ {
		for j := i; j < s; j++ {
			q := float64(g.inner.CountCommonValues(g.active[i], g.active[j]))
			if i == j {
				q += kktRidge
			}
			kkt.Set(i, j, q)
			kkt.Set(j, i, q)
		}
		kkt.Set(i, s, 1)
		kkt.Set(s, i, 1)
		rhs.SetVec(i, g.inner.Evaluate(a, b, g.active[i]))
	}
	rhs.SetVec(s, 1)

	var x mat.VecDense
	if err := x.SolveVec(kkt, rhs); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, 0, false
		}
	}
	z := make([]float64, s)
	for i := range z {
		z[i] = x.AtVec(i)
		if math.IsNaN(z[i]) {
			return nil, 0, false
		}
		if z[i] < 0 && z[i] > -activeSetTolerance {
			z[i] = 0
		}
	}

	return z, x.AtVec(s), true
}

// blockingStep moves the weights towards z when z leaves the simplex and
// drops the configuration that blocks the move. Reports whether it did.
func (g *Generic[C]) blockingStep(z []float64) bool {
	alpha, block := 1.0, -1
	for i, zi := range z {
		if zi >= 0 {
			continue
		}
		t := g.weights[i] / (g.weights[i] - zi)
		if block < 0 || t < alpha {
			alpha, block = t, i
		}
	}
	if block < 0 {
		return false
	}
	for i := range g.weights {
		g.weights[i] += alpha * (z[i] - g.weights[i])
	}
	g.active = append(g.active[:block], g.active[block+1:]...)
	g.weights = append(g.weights[:block], g.weights[block+1:]...)

	return true
}

// reset forgets the active set before a new solve.
func (g *Generic[C]) reset() {
	g.active, g.weights = nil, nil
}

func (g *Generic[C]) contains(c C) bool {
	for _, x := range g.active {
		if g.inner.Same(x, c) {
			return true
		}
	}

	return false
}

// marginals writes μ and ν for the current weights.
func (g *Generic[C]) marginals(mu, nu []float64) {
	for i := range mu {
		mu[i] = 0
	}
	for i := range nu {
		nu[i] = 0
	}
	for i, c := range g.active {
		if g.weights[i] > 0 {
			g.inner.UpdateMarginalsFromConfiguration(c, g.weights[i], mu, nu)
		}
	}
}
