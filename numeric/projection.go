// SPDX-License-Identifier: MIT

package numeric

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// ProjectOntoSimplex replaces x by its Euclidean projection onto the scaled
// probability simplex {y : y ≥ 0, Σy = r}.
//
// Steps:
//  1. Copy x and sort the copy in ascending order (insertion sort).
//  2. Walk the sorted values from the largest down, keeping a running sum,
//     and find the largest support size ρ whose threshold
//     τ = (Σ_{top ρ} − r)/ρ leaves the ρ-th value strictly positive.
//  3. Subtract τ from every entry and clip at zero.
//
// r must be positive; ProjectOntoSimplex panics otherwise (programmer error).
// Complexity: O(k²) worst case, O(k) for nearly sorted x.
func ProjectOntoSimplex(x []float64, r float64) {
	if r <= 0 || math.IsNaN(r) {
		panic("numeric: ProjectOntoSimplex: radius must be positive")
	}
	k := len(x)
	if k == 0 {
		return
	}

	// 1. Sorted copy; the input keeps its positional meaning.
	y := make([]float64, k)
	copy(y, x)
	InsertionSort(y)

	// 2. Largest values first.
	// The positivity test holds on a prefix of the sorted values, so the
	// last threshold that passes belongs to the largest valid support.
	var sum, tau float64
	for j := k - 1; j >= 0; j-- {
		sum += y[j]
		size := float64(k - j)
		t := (sum - r) / size
		if y[j]-t > 0 {
			tau = t
		}
	}

	// 3. Shift and clip.
	for i := range x {
		x[i] = math.Max(x[i]-tau, 0)
	}
}

// ProjectOntoBudget replaces x by its projection onto the budget polytope
// {y : 0 ≤ y ≤ 1, Σy ≤ r}. The box is applied first; only when the clipped
// point exceeds the budget is the point projected onto the simplex of radius r
// (whose entries then never exceed 1 for r ≤ 1).
// Complexity: O(k) when the budget holds, otherwise as ProjectOntoSimplex.
func ProjectOntoBudget(x []float64, r float64) {
	clipped := make([]float64, len(x))
	for i, v := range x {
		clipped[i] = Clamp(v, 0, 1)
	}
	if floats.Sum(clipped) <= r {
		copy(x, clipped)

		return
	}
	ProjectOntoSimplex(x, r)
	for i := range x {
		x[i] = Clamp(x[i], 0, 1)
	}
}

// ProjectOntoCone projects the point (t, x) onto the clipped implication cone
// {(t', y) : 0 ≤ y_i ≤ t' ≤ 1}. x is overwritten with the projected y and the
// projected t' is returned.
//
// For a fixed t' the optimal y_i is clip(x_i, 0, t'), so the problem reduces to
// the one-dimensional convex function
//
//	h(t') = (t' − t)² + Σ_i max(0, x_i − t')²,
//
// whose unconstrained minimiser is (t + Σ_{x_i > t'} x_i) / (1 + #{x_i > t'}).
// The consistent support is found by scanning x in descending order; the
// result is then clipped to [0, 1], which is exact because h is convex.
// Complexity: O(k²) worst case, O(k) for nearly sorted x.
func ProjectOntoCone(t float64, x []float64) float64 {
	k := len(x)
	y := make([]float64, k)
	copy(y, x)
	InsertionSort(y)

	// Scan supports of size 0..k (largest values first).
	best := t
	sum := t
	for size := 0; size <= k; size++ {
		if size > 0 {
			sum += y[k-size]
		}
		cand := sum / float64(size+1)
		// Entries inside the support must exceed cand, the next one must not.
		inside := size == 0 || y[k-size] > cand
		next := math.Inf(-1)
		if size < k {
			next = y[k-size-1]
		}
		if inside && next <= cand {
			best = cand

			break
		}
	}

	best = Clamp(best, 0, 1)
	for i := range x {
		x[i] = Clamp(x[i], 0, best)
	}

	return best
}

// Clamp limits v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
