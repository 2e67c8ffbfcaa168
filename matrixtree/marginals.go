// SPDX-License-Identifier: MIT

package matrixtree

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/depdecode/arborescence"
	"github.com/katalvlaran/depdecode/logmath"
	"github.com/katalvlaran/depdecode/numeric"
)

const opMarginals = "matrixtree: Marginals"

// Marginals returns arc marginals, log Z and entropy for the tree
// distribution over n nodes (node 0 the root) defined by the scored arcs.
//
// Steps:
//  1. Validate; every node must be reachable from the root (ErrNoTree).
//  2. shift = mean score; c[m] = max over heads of (score(h→m) − shift).
//  3. Laplacian L over nodes 1..n−1 (index m−1):
//     L[m][m] += w(h→m) for every head h, L[h][m] −= w(h→m) for h ≥ 1,
//     with w = exp(score − shift − c[m]) as a logmath.Value. Column m of
//     the true Laplacian is scaled by exp(−c[m]), so every column has a
//     diagonal of at least 1 that dominates its off-diagonal entries.
//  4. LU-factorise L; log Z = log det L + shift·(n−1) + Σ c[m].
//     A singular or non-positive factorisation of a structurally valid
//     graph is cancellation, reported as ErrIllConditioned.
//  5. Inverse M = L⁻¹; marginal(0→m) = w·M[m][m],
//     marginal(h→m) = w·(M[m][m] − M[m][h]). The column scale cancels.
//  6. Entropy = log Z − Σ marginal·score; clamp drift.
//
// Complexity: O(n³ + A) for A arcs.
func Marginals(n int, arcs []arborescence.Arc, scores []float64, opts ...Option) (Result, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	// 1. Validate.
	if err := validate(n, arcs, scores); err != nil {
		return Result{}, fmt.Errorf("%s: %w", opMarginals, err)
	}
	if !spanning(n, arcs) {
		return Result{}, fmt.Errorf("%s: %w", opMarginals, ErrNoTree)
	}

	// 2. Shifts.
	shift := floats.Sum(scores) / float64(len(scores))
	column := make([]float64, n)
	for m := range column {
		column[m] = math.Inf(-1)
	}
	for i, a := range arcs {
		column[a.Modifier] = math.Max(column[a.Modifier], scores[i]-shift)
	}
	offset := shift * float64(n-1)
	for m := 1; m < n; m++ {
		offset += column[m]
	}

	// 3. Laplacian.
	lap, err := logmath.NewDense(n - 1)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", opMarginals, err)
	}
	weights := make([]logmath.Value, len(arcs))
	for i, a := range arcs {
		w := logmath.FromLog(scores[i] - shift - column[a.Modifier])
		weights[i] = w
		m := a.Modifier - 1
		addAt(lap, m, m, w)
		if a.Head > 0 {
			addAt(lap, a.Head-1, m, logmath.Neg(w))
		}
	}

	// 4. Determinant.
	lu, err := lap.LU()
	if err != nil && !errors.Is(err, logmath.ErrSingular) {
		return Result{}, fmt.Errorf("%s: %w", opMarginals, err)
	}
	if err != nil || lu.Determinant().Sign() <= 0 {
		o.Logger.Warn("matrixtree: Laplacian lost precision",
			slog.Int("nodes", n), slog.Int("arcs", len(arcs)))
		return Result{}, fmt.Errorf("%s: %w", opMarginals, ErrIllConditioned)
	}
	res := Result{
		Marginals:    make([]float64, len(arcs)),
		LogPartition: lu.Determinant().LogAbs() + offset,
	}

	// 5. Marginals.
	inv := lu.Inverse()
	c := clamper{logger: o.Logger, tol: o.Tolerance}
	for i, a := range arcs {
		m := a.Modifier - 1
		mm := mustAt(inv, m, m)
		diff := mm
		if a.Head > 0 {
			diff = logmath.Sub(mm, mustAt(inv, m, a.Head-1))
		}
		p := logmath.Mul(weights[i], diff).Float64()
		res.Marginals[i] = c.clamp(p, 0, 1, "marginal")
	}

	// 6. Entropy.
	entropy := res.LogPartition - floats.Dot(res.Marginals, scores)
	res.Entropy = c.clamp(entropy, 0, math.Inf(1), "entropy")
	res.Clamped = c.count

	return res, nil
}

func validate(n int, arcs []arborescence.Arc, scores []float64) error {
	if n < 2 {
		return ErrEmptySentence
	}
	if len(arcs) != len(scores) {
		return ErrLengthMismatch
	}
	hasHead := make([]bool, n)
	for i, a := range arcs {
		if a.Head < 0 || a.Head >= n || a.Modifier < 1 || a.Modifier >= n || a.Head == a.Modifier {
			return ErrBadArc
		}
		if math.IsNaN(scores[i]) || math.IsInf(scores[i], 0) {
			return ErrNonFinite
		}
		hasHead[a.Modifier] = true
	}
	for m := 1; m < n; m++ {
		if !hasHead[m] {
			return ErrNoCandidateHead
		}
	}

	return nil
}

// spanning reports whether every node is reachable from the root over arcs.
func spanning(n int, arcs []arborescence.Arc) bool {
	adj := make([][]bool, n)
	for i := range adj {
		adj[i] = make([]bool, n)
	}
	for _, a := range arcs {
		adj[a.Head][a.Modifier] = true
	}
	numeric.TransitiveClosure(adj)
	for m := 1; m < n; m++ {
		if !adj[0][m] {
			return false
		}
	}

	return true
}

// addAt adds v to d[i][j]; indices are in range by construction.
func addAt(d *logmath.Dense, i, j int, v logmath.Value) {
	_ = d.Set(i, j, logmath.Add(mustAt(d, i, j), v))
}

func mustAt(d *logmath.Dense, i, j int) logmath.Value {
	v, err := d.At(i, j)
	if err != nil {
		panic(err)
	}

	return v
}

// clamper limits values to a range and reports drift beyond tol.
type clamper struct {
	logger *slog.Logger
	tol    float64
	count  int
}

func (c *clamper) clamp(v, lo, hi float64, where string) float64 {
	clamped := v
	switch {
	case v < lo:
		clamped = lo
	case v > hi:
		clamped = hi
	default:
		return v
	}
	if math.Abs(v-clamped) > c.tol {
		c.count++
		c.logger.Warn("matrixtree: value out of range",
			slog.Float64("value", v), slog.Float64("clamped_to", clamped), slog.String("where", where))
	}

	return clamped
}
