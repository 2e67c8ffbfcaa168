package factorgraph_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/depdecode/factorgraph"
)

// BenchmarkSolve measures a chain of overlapping XOR and Pair factors.
func BenchmarkSolve(b *testing.B) {
	r := rand.New(rand.NewSource(42))
	scores := make([]float64, 60)
	for i := range scores {
		scores[i] = r.Float64()*2 - 1
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g := factorgraph.NewGraph()
		vars := make([]*factorgraph.Variable, len(scores))
		for j, s := range scores {
			vars[j] = g.AddVariable(s)
		}
		for j := 0; j+3 <= len(vars); j += 3 {
			_, _ = g.AddXOR(vars[j : j+3])
		}
		for j := 0; j+4 < len(vars); j += 3 {
			_, _ = g.AddPair(vars[j], vars[j+4], 0.5)
		}
		_ = g.Solve()
	}
}
