// SPDX-License-Identifier: MIT

package factorgraph

import (
	"context"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Status classifies a solve.
type Status int

const (
	// StatusIntegral: converged and every belief is 0 or 1.
	StatusIntegral Status = iota
	// StatusFractional: converged to a fractional point of the relaxation.
	StatusFractional
	// StatusUnsolved: the iteration cap was reached first.
	StatusUnsolved
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusIntegral:
		return "integral"
	case StatusFractional:
		return "fractional"
	case StatusUnsolved:
		return "unsolved"
	default:
		return "unknown"
	}
}

// integralityTolerance decides whether a belief counts as 0 or 1.
const integralityTolerance = 1e-6

// Result of Solve.
//
// Fields:
//
//	Beliefs    []float64  : p_i per variable id.
//	Additional [][]float64: ν per factor id.
//	Status     Status
//	Iterations int
//	Primal     float64    : Σ score·p + Σ additional·ν.
//	Residual   float64    : final primal residual.
type Result struct {
	Beliefs    []float64
	Additional [][]float64
	Status     Status
	Iterations int
	Primal     float64
	Residual   float64
}

// Solve runs AD3 and returns beliefs for every variable and additional
// posteriors for every factor. The graph keeps per-factor solver state, so
// a Graph is solved by one goroutine at a time.
//
// Steps:
//  1. Beliefs start at 0.5; variables with no factor take 1 iff score > 0.
//  2. Iterate (see package doc) until both residuals are below the
//     threshold or MaxIterations is reached.
//  3. Classify the result and record metrics.
//
// Complexity: O(iterations · Σ_α cost(QP_α)).
func (g *Graph) Solve(opts ...Option) Result {
	o := DefaultOptions().Apply(opts...)
	nv := len(g.variables)

	// 1. Initial point.
	p := make([]float64, nv)
	links := 0
	for i, v := range g.variables {
		switch {
		case v.degree > 0:
			p[i] = 0.5
			links += v.degree
		case v.score > 0:
			p[i] = 1
		}
	}
	for _, nd := range g.nodes {
		k := len(nd.links)
		nd.lambda = make([]float64, k)
		nd.mu = make([]float64, k)
		nd.nu = make([]float64, len(nd.additional))
		nd.lastA = make([]float64, k)
		nd.cached = false
		if gen, ok := nd.factor.(interface{ reset() }); ok {
			gen.reset()
		}
	}

	res := Result{Status: StatusUnsolved}
	if links == 0 {
		res.Status = classify(p, nil)
		res.Beliefs = p
		res.Primal = g.primal(p)
		g.record(res)

		return res
	}

	// 2. Iterations.
	eta := o.Eta
	prev := make([]float64, nv)
	sum := make([]float64, nv)
	var a, b, muLocal []float64
	debug := o.Logger.Enabled(context.Background(), slog.LevelDebug)
	etaChanged := true
	var r, s float64
	for t := 1; t <= o.MaxIterations; t++ {
		res.Iterations = t
		copy(prev, p)

		// Local QPs.
		for _, nd := range g.nodes {
			k := len(nd.links)
			a = resize(a, k)
			for j, l := range nd.links {
				v := g.variables[l.variable]
				a[j] = p[l.variable] + (v.score/float64(v.degree)+nd.lambda[j])/eta
				if l.negated {
					a[j] = 1 - a[j]
				}
			}
			if o.CacheSolutions && nd.cached && !etaChanged && floats.Equal(a, nd.lastA) {
				factorSolves.WithLabelValues("cached").Inc()

				continue
			}
			b = resize(b, len(nd.additional))
			for j, x := range nd.additional {
				b[j] = x / eta
			}
			muLocal = resize(muLocal, k)
			nd.factor.SolveQP(a, b, muLocal, nd.nu)
			for j, l := range nd.links {
				nd.mu[j] = muLocal[j]
				if l.negated {
					nd.mu[j] = 1 - muLocal[j]
				}
			}
			copy(nd.lastA, a)
			nd.cached = true
			factorSolves.WithLabelValues("solved").Inc()
		}
		etaChanged = false

		// Averaging.
		for i := range sum {
			sum[i] = 0
		}
		for _, nd := range g.nodes {
			for j, l := range nd.links {
				sum[l.variable] += nd.mu[j]
			}
		}
		for i, v := range g.variables {
			if v.degree > 0 {
				p[i] = sum[i] / float64(v.degree)
			}
		}

		// Multipliers and residuals.
		r, s = 0, 0
		for _, nd := range g.nodes {
			for j, l := range nd.links {
				d := nd.mu[j] - p[l.variable]
				nd.lambda[j] -= eta * d
				r += d * d
			}
		}
		for i, v := range g.variables {
			d := p[i] - prev[i]
			s += float64(v.degree) * d * d
		}
		r = math.Sqrt(r / float64(links))
		s = math.Sqrt(s / float64(links))
		if debug {
			o.Logger.Debug("factorgraph: iteration",
				slog.Int("iteration", t), slog.Float64("primal_residual", r),
				slog.Float64("dual_residual", s), slog.Float64("eta", eta))
		}
		if r < o.ResidualThreshold && s < o.ResidualThreshold {
			res.Status = StatusFractional

			break
		}

		// Step size.
		if o.AdaptStepSize {
			switch {
			case r > 10*s && eta < maxEta:
				eta *= 2
				etaChanged = true
			case s > 10*r && eta > minEta:
				eta /= 2
				etaChanged = true
			}
		}
	}

	// 3. Result.
	res.Beliefs = p
	res.Residual = r
	res.Additional = make([][]float64, len(g.nodes))
	for i, nd := range g.nodes {
		res.Additional[i] = append([]float64(nil), nd.nu...)
	}
	if res.Status != StatusUnsolved {
		res.Status = classify(p, res.Additional)
	}
	res.Primal = g.primal(p)
	for i, nd := range g.nodes {
		res.Primal += floats.Dot(nd.additional, res.Additional[i])
	}
	g.record(res)
	o.Logger.Debug("factorgraph: solved",
		slog.String("status", res.Status.String()), slog.Int("iterations", res.Iterations),
		slog.Float64("primal", res.Primal), slog.Float64("residual", res.Residual))

	return res
}

// resize returns buf with length n, reallocating only when it is too small.
func resize(buf []float64, n int) []float64 {
	if cap(buf) < n {
		return make([]float64, n)
	}

	return buf[:n]
}

func (g *Graph) primal(p []float64) float64 {
	v := 0.0
	for i, x := range g.variables {
		v += x.score * p[i]
	}

	return v
}

func (g *Graph) record(res Result) {
	solvesTotal.WithLabelValues(res.Status.String()).Inc()
	solveIterations.Observe(float64(res.Iterations))
}

func classify(p []float64, additional [][]float64) Status {
	integral := func(x float64) bool {
		return x < integralityTolerance || x > 1-integralityTolerance
	}
	for _, x := range p {
		if !integral(x) {
			return StatusFractional
		}
	}
	for _, nu := range additional {
		for _, x := range nu {
			if !integral(x) {
				return StatusFractional
			}
		}
	}

	return StatusIntegral
}
