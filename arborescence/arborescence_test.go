package arborescence_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/depdecode/arborescence"
)

// denseArcs returns every arc h→m (m ≥ 1, h ≠ m) of an n-node sentence with
// scores drawn from r in [-5, 5).
func denseArcs(n int, r *rand.Rand) ([]arborescence.Arc, []float64) {
	var arcs []arborescence.Arc
	var scores []float64
	for h := 0; h < n; h++ {
		for m := 1; m < n; m++ {
			if h == m {
				continue
			}
			arcs = append(arcs, arborescence.Arc{Head: h, Modifier: m})
			scores = append(scores, r.Float64()*10-5)
		}
	}

	return arcs, scores
}

// bruteForce enumerates every head assignment and returns the best tree value
// (projective only when projective is set), or -Inf if none exists.
func bruteForce(n int, arcs []arborescence.Arc, scores []float64, projective bool) float64 {
	score := map[[2]int]float64{}
	for i, a := range arcs {
		k := [2]int{a.Head, a.Modifier}
		if v, ok := score[k]; !ok || scores[i] > v {
			score[k] = scores[i]
		}
	}
	heads := make([]int, n)
	heads[0] = -1
	best := math.Inf(-1)
	var rec func(m int, acc float64)
	rec = func(m int, acc float64) {
		if m == n {
			if arborescence.IsTree(heads) && (!projective || arborescence.IsProjective(heads)) && acc > best {
				best = acc
			}

			return
		}
		for h := 0; h < n; h++ {
			s, ok := score[[2]int{h, m}]
			if !ok {
				continue
			}
			heads[m] = h
			rec(m+1, acc+s)
		}
	}
	rec(1, 0)

	return best
}

// TestChuLiuEdmonds_ThreeNodes checks the worked example: the greedy choice
// 0→1 (5) and 1→2 (3) is already a tree with value 8.
func TestChuLiuEdmonds_ThreeNodes(t *testing.T) {
	arcs := []arborescence.Arc{{0, 1}, {0, 2}, {1, 2}, {2, 1}}
	scores := []float64{5, 1, 3, 2}

	sol, err := arborescence.ChuLiuEdmonds(3, arcs, scores)
	require.NoError(t, err)
	assert.Equal(t, []int{-1, 0, 1}, sol.Heads)
	assert.Equal(t, []int{-1, 0, 2}, sol.Selected)
	assert.InDelta(t, 8.0, sol.Value, 1e-12)
}

// TestChuLiuEdmonds_Cycle forces a contraction: 1 and 2 prefer each other.
func TestChuLiuEdmonds_Cycle(t *testing.T) {
	arcs := []arborescence.Arc{{0, 1}, {0, 2}, {1, 2}, {2, 1}}
	scores := []float64{1, 2, 10, 10}

	sol, err := arborescence.ChuLiuEdmonds(3, arcs, scores)
	require.NoError(t, err)
	// Breaking the cycle at 2 costs 10-2, at 1 costs 10-1: keep 2→1.
	assert.Equal(t, []int{-1, 2, 0}, sol.Heads)
	assert.InDelta(t, 12.0, sol.Value, 1e-12)
	assert.True(t, arborescence.IsTree(sol.Heads))
}

// TestChuLiuEdmonds_NestedCycles builds a cycle that still cycles after the
// first contraction.
func TestChuLiuEdmonds_NestedCycles(t *testing.T) {
	arcs := []arborescence.Arc{
		{0, 1}, {0, 2}, {0, 3}, {0, 4},
		{2, 1}, {1, 2}, // inner cycle 1↔2
		{4, 3}, {3, 4}, // inner cycle 3↔4
		{3, 1}, {1, 3}, // links between the two groups
	}
	scores := []float64{0, 0, 0, 0, 9, 9, 9, 9, 8, 8}

	sol, err := arborescence.ChuLiuEdmonds(5, arcs, scores)
	require.NoError(t, err)
	assert.True(t, arborescence.IsTree(sol.Heads))
	assert.InDelta(t, bruteForce(5, arcs, scores, false), sol.Value, 1e-9)
}

// TestChuLiuEdmonds_Ties checks that the first maximum wins.
func TestChuLiuEdmonds_Ties(t *testing.T) {
	arcs := []arborescence.Arc{{0, 1}, {0, 2}, {2, 1}, {1, 2}}
	scores := []float64{1, 1, 1, 1}

	sol, err := arborescence.ChuLiuEdmonds(3, arcs, scores)
	require.NoError(t, err)
	assert.Equal(t, []int{-1, 0, 0}, sol.Heads)

	// Repeated runs give identical trees.
	for i := 0; i < 5; i++ {
		again, err := arborescence.ChuLiuEdmonds(3, arcs, scores)
		require.NoError(t, err)
		assert.Equal(t, sol, again)
	}
}

// TestChuLiuEdmonds_DuplicateArcs picks the better of two parallel arcs.
func TestChuLiuEdmonds_DuplicateArcs(t *testing.T) {
	arcs := []arborescence.Arc{{0, 1}, {0, 1}}
	sol, err := arborescence.ChuLiuEdmonds(2, arcs, []float64{1, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{-1, 1}, sol.Selected)
	assert.InDelta(t, 3.0, sol.Value, 1e-12)
}

// TestChuLiuEdmonds_BruteForce compares against exhaustive search on small
// dense sentences.
func TestChuLiuEdmonds_BruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for n := 2; n <= 6; n++ {
		for trial := 0; trial < 20; trial++ {
			arcs, scores := denseArcs(n, r)
			sol, err := arborescence.ChuLiuEdmonds(n, arcs, scores)
			require.NoError(t, err)
			assert.True(t, arborescence.IsTree(sol.Heads), "n=%d trial=%d", n, trial)
			assert.InDelta(t, bruteForce(n, arcs, scores, false), sol.Value, 1e-9, "n=%d trial=%d", n, trial)
		}
	}
}

// TestEisner_BruteForce compares against exhaustive search over projective trees.
func TestEisner_BruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for n := 2; n <= 6; n++ {
		for trial := 0; trial < 20; trial++ {
			arcs, scores := denseArcs(n, r)
			sol, err := arborescence.Eisner(n, arcs, scores)
			require.NoError(t, err)
			assert.True(t, arborescence.IsTree(sol.Heads))
			assert.True(t, arborescence.IsProjective(sol.Heads))
			assert.InDelta(t, bruteForce(n, arcs, scores, true), sol.Value, 1e-9, "n=%d trial=%d", n, trial)
		}
	}
}

// TestEisner_NoProjectiveTree: the only candidates form a crossing tree.
func TestEisner_NoProjectiveTree(t *testing.T) {
	// 0→2, 2→4, 4→1, 1→3: arcs (4,1) and (1,3) cross (2,4).
	arcs := []arborescence.Arc{{0, 2}, {2, 4}, {4, 1}, {1, 3}}
	_, err := arborescence.Eisner(5, arcs, []float64{1, 1, 1, 1})
	assert.ErrorIs(t, err, arborescence.ErrDisconnected)

	sol, err := arborescence.ChuLiuEdmonds(5, arcs, []float64{1, 1, 1, 1})
	require.NoError(t, err)
	assert.False(t, arborescence.IsProjective(sol.Heads))
}

// TestMaximumArborescence_Dispatch checks that the option selects the algorithm.
func TestMaximumArborescence_Dispatch(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	arcs, scores := denseArcs(5, r)

	np, err := arborescence.MaximumArborescence(5, arcs, scores)
	require.NoError(t, err)
	p, err := arborescence.MaximumArborescence(5, arcs, scores, arborescence.WithProjective(true))
	require.NoError(t, err)
	assert.True(t, arborescence.IsProjective(p.Heads))
	assert.GreaterOrEqual(t, np.Value, p.Value-1e-12)
}

// TestValidation covers every input error.
func TestValidation(t *testing.T) {
	cases := []struct {
		name   string
		n      int
		arcs   []arborescence.Arc
		scores []float64
		want   error
	}{
		{"root only", 1, nil, nil, arborescence.ErrEmptySentence},
		{"length mismatch", 2, []arborescence.Arc{{0, 1}}, nil, arborescence.ErrLengthMismatch},
		{"into root", 2, []arborescence.Arc{{1, 0}}, []float64{1}, arborescence.ErrArcIntoRoot},
		{"self loop", 3, []arborescence.Arc{{1, 1}}, []float64{1}, arborescence.ErrBadArc},
		{"out of range", 3, []arborescence.Arc{{5, 1}}, []float64{1}, arborescence.ErrBadArc},
		{"no head", 3, []arborescence.Arc{{0, 1}}, []float64{1}, arborescence.ErrNoCandidateHead},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := arborescence.ChuLiuEdmonds(tc.n, tc.arcs, tc.scores)
			assert.ErrorIs(t, err, tc.want)
			_, err = arborescence.Eisner(tc.n, tc.arcs, tc.scores)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

// TestChuLiuEdmonds_Disconnected: nodes 1 and 2 only point at each other.
func TestChuLiuEdmonds_Disconnected(t *testing.T) {
	arcs := []arborescence.Arc{{1, 2}, {2, 1}, {0, 3}}
	_, err := arborescence.ChuLiuEdmonds(4, arcs, []float64{1, 1, 1})
	assert.ErrorIs(t, err, arborescence.ErrDisconnected)
}

// TestIsTree covers the predicate on hand-made head vectors.
func TestIsTree(t *testing.T) {
	assert.True(t, arborescence.IsTree([]int{-1, 0, 1, 1}))
	assert.False(t, arborescence.IsTree([]int{-1, 2, 1}), "cycle")
	assert.False(t, arborescence.IsTree([]int{0, 0}), "root has a head")
	assert.False(t, arborescence.IsTree([]int{-1, 3}), "out of range")
	assert.False(t, arborescence.IsTree(nil))

	assert.True(t, arborescence.IsProjective([]int{-1, 0, 1, 2}))
	assert.False(t, arborescence.IsProjective([]int{-1, 3, 0, 0}), "1←3 spans 2, a child of 0")
	assert.True(t, arborescence.Descends([]int{-1, 0, 1, 2}, 1, 3))
	assert.False(t, arborescence.Descends([]int{-1, 0, 1, 2}, 3, 1))
}
