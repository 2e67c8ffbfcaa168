package decoder_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/depdecode/decoder"
)

// BenchmarkDecode measures MAP decoding of a dense 30-node sentence.
func BenchmarkDecode(b *testing.B) {
	p, scores := randomArcs(b, 30, rand.New(rand.NewSource(9)))
	d := decoder.New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = d.Decode(p, scores)
	}
}

// BenchmarkDecodeMarginals measures Matrix-Tree marginals on the same input.
func BenchmarkDecodeMarginals(b *testing.B) {
	p, scores := randomArcs(b, 30, rand.New(rand.NewSource(9)))
	gold, err := decoder.New().Decode(p, scores)
	if err != nil {
		b.Fatal(err)
	}
	d := decoder.New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _, _ = d.DecodeMarginals(p, scores, gold)
	}
}
