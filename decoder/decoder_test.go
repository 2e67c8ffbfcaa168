package decoder_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/depdecode/arborescence"
	"github.com/katalvlaran/depdecode/decoder"
	"github.com/katalvlaran/depdecode/factorgraph"
	"github.com/katalvlaran/depdecode/parts"
)

type scored struct {
	part  parts.Part
	score float64
}

func collect(t testing.TB, n int, items []scored) (*parts.Parts, []float64) {
	t.Helper()
	p, err := parts.New(n)
	require.NoError(t, err)
	scores := make([]float64, 0, len(items))
	for _, it := range items {
		_, err = p.Append(it.part)
		require.NoError(t, err)
		scores = append(scores, it.score)
	}
	require.NoError(t, p.BuildOffsets())
	require.NoError(t, p.BuildIndices())

	return p, scores
}

// threeNode is the sentence root, 1, 2 with arcs 0→1=5, 0→2=1, 1→2=3, 2→1=2.
func threeNode(t testing.TB) (*parts.Parts, []float64) {
	return collect(t, 3, []scored{
		{parts.Arc(0, 1), 5},
		{parts.Arc(0, 2), 1},
		{parts.Arc(1, 2), 3},
		{parts.Arc(2, 1), 2},
	})
}

func randomArcs(t testing.TB, n int, r *rand.Rand) (*parts.Parts, []float64) {
	var items []scored
	for h := 0; h < n; h++ {
		for m := 1; m < n; m++ {
			if h != m {
				items = append(items, scored{parts.Arc(h, m), r.Float64()*6 - 3})
			}
		}
	}

	return collect(t, n, items)
}

// heads reads a head vector from 0/1 (or rounded) arc values.
func heads(p *parts.Parts, out []float64) []int {
	h := make([]int, p.Length())
	for i := range h {
		h[i] = -1
	}
	start, end := p.Range(parts.KindArc)
	for i := start; i < end; i++ {
		if out[i] > 0.5 {
			h[p.At(i).Modifier] = p.At(i).Head
		}
	}

	return h
}

func TestDecode_ThreeNodes(t *testing.T) {
	p, scores := threeNode(t)
	out, err := decoder.New().Decode(p, scores)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 1, 0}, out)
}

func TestDecode_ValidTreeAndIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(21))
	d := decoder.New()
	for trial := 0; trial < 20; trial++ {
		p, scores := randomArcs(t, 2+r.Intn(7), r)
		out, err := d.Decode(p, scores)
		require.NoError(t, err)
		assert.True(t, arborescence.IsTree(heads(p, out)), "trial %d", trial)
		for _, v := range out {
			assert.True(t, v == 0 || v == 1)
		}

		again, err := d.Decode(p, scores)
		require.NoError(t, err)
		assert.Equal(t, out, again, "trial %d", trial)
	}
}

func TestDecode_Projective(t *testing.T) {
	// Best tree 0→2, 2→3, 3→1 is non-projective.
	items := []scored{
		{parts.Arc(0, 1), 0}, {parts.Arc(0, 2), 5}, {parts.Arc(0, 3), 0},
		{parts.Arc(2, 1), 1}, {parts.Arc(3, 1), 5}, {parts.Arc(2, 3), 5},
		{parts.Arc(1, 2), 0}, {parts.Arc(1, 3), 0}, {parts.Arc(3, 2), 0},
	}
	p, scores := collect(t, 4, items)

	out, err := decoder.New().Decode(p, scores)
	require.NoError(t, err)
	assert.Equal(t, []int{-1, 3, 0, 2}, heads(p, out))

	out, err = decoder.New(decoder.WithProjective(true)).Decode(p, scores)
	require.NoError(t, err)
	h := heads(p, out)
	assert.True(t, arborescence.IsProjective(h))
	assert.Equal(t, []int{-1, 2, 0, 2}, h)
}

func TestDecode_Errors(t *testing.T) {
	d := decoder.New()

	p, err := parts.New(2)
	require.NoError(t, err)
	_, err = p.Append(parts.Arc(0, 1))
	require.NoError(t, err)
	_, err = d.Decode(p, []float64{1})
	assert.ErrorIs(t, err, parts.ErrNotBuilt)

	require.NoError(t, p.BuildOffsets())
	_, err = d.Decode(p, []float64{1})
	assert.ErrorIs(t, err, parts.ErrNotIndexed)

	require.NoError(t, p.BuildIndices())
	_, err = d.Decode(p, []float64{1, 2})
	assert.ErrorIs(t, err, decoder.ErrLengthMismatch)

	q, scores := collect(t, 3, []scored{{parts.Arc(0, 1), 1}, {parts.Arc(1, 2), 1}, {parts.LabeledArc(0, 2, 0), 1}})
	_, err = decoder.New(decoder.WithLabeled(true)).Decode(q, scores)
	assert.ErrorIs(t, err, decoder.ErrMissingArc)

	q, scores = collect(t, 3, []scored{{parts.Arc(0, 1), 1}, {parts.Arc(1, 2), 1}, {parts.LabeledArc(0, 1, 0), 1}})
	_, err = decoder.New(decoder.WithLabeled(true)).Decode(q, scores)
	assert.ErrorIs(t, err, decoder.ErrNoLabels)

	_, _, _, err = d.DecodeCostAugmentedMarginals(q, scores, scores)
	assert.ErrorIs(t, err, decoder.ErrNotImplemented)
}

// LabelSuite covers label decoupling on the three-node sentence with two
// labels per arc.
type LabelSuite struct {
	suite.Suite
	p      *parts.Parts
	scores []float64
}

func (s *LabelSuite) SetupTest() {
	s.p, s.scores = collect(s.T(), 3, []scored{
		{parts.Arc(0, 1), 5},
		{parts.Arc(0, 2), 1},
		{parts.Arc(1, 2), 3},
		{parts.Arc(2, 1), 2},
		{parts.LabeledArc(0, 1, 0), 1}, // 4
		{parts.LabeledArc(0, 1, 1), 1}, // 5: tie, first wins
		{parts.LabeledArc(0, 2, 0), 0},
		{parts.LabeledArc(0, 2, 1), 6}, // 7: makes 0→2 worth 7
		{parts.LabeledArc(1, 2, 0), 2}, // 8
		{parts.LabeledArc(1, 2, 1), -1},
		{parts.LabeledArc(2, 1, 0), 0},
		{parts.LabeledArc(2, 1, 1), 0},
	})
}

func (s *LabelSuite) TestDecode() {
	out, err := decoder.New(decoder.WithLabeled(true)).Decode(s.p, s.scores)
	s.Require().NoError(err)
	// 0→1 (6) + 0→2 (7) = 13 beats 0→1 + 1→2 (6 + 5 = 11).
	s.Equal([]float64{1, 1, 0, 0, 1, 0, 0, 1, 0, 0, 0, 0}, out)
}

func (s *LabelSuite) TestUnlabeledModeIgnoresLabels() {
	out, err := decoder.New().Decode(s.p, s.scores)
	s.Require().NoError(err)
	s.Equal([]float64{1, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0}, out)
}

func (s *LabelSuite) TestMarginals() {
	gold := []float64{1, 1, 0, 0, 1, 0, 0, 1, 0, 0, 0, 0}
	out, entropy, loss, err := decoder.New(decoder.WithLabeled(true)).DecodeMarginals(s.p, s.scores, gold)
	s.Require().NoError(err)
	s.InDelta(1.0, out[0]+out[3], 1e-9)
	s.InDelta(1.0, out[1]+out[2], 1e-9)
	for arc, labels := range map[int][]int{0: {4, 5}, 1: {6, 7}, 2: {8, 9}, 3: {10, 11}} {
		s.InDelta(out[arc], out[labels[0]]+out[labels[1]], 1e-9)
	}
	s.InDelta(out[4], out[5], 1e-12)
	s.GreaterOrEqual(entropy, 0.0)
	s.GreaterOrEqual(loss, 0.0)
}

func (s *LabelSuite) TestCostAugmented() {
	// Gold: 0→1 with label 1, 1→2 with label 0.
	gold := []float64{1, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 0}
	out, cost, loss, err := decoder.New(decoder.WithLabeled(true)).DecodeCostAugmented(s.p, s.scores, gold)
	s.Require().NoError(err)
	// Perturbed labels: 0→1 prefers label 0 (1.5), 0→2 label 1 (6.5), so
	// {0→1, 0→2} = 14 wins.
	s.Equal([]float64{1, 1, 0, 0, 1, 0, 0, 1, 0, 0, 0, 0}, out)

	hamming := 0.0
	first, last := s.p.Range(parts.KindLabeledArc)
	for r := first; r < last; r++ {
		hamming += 0.5 * math.Abs(out[r]-gold[r])
	}
	s.InDelta(hamming, cost, 1e-12)
	s.InDelta(2.0, cost, 1e-12)
	s.InDelta(4.0, loss, 1e-12)
}

func TestLabelSuite(t *testing.T) {
	suite.Run(t, new(LabelSuite))
}

func TestDecodeCostAugmented(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	d := decoder.New()
	for trial := 0; trial < 20; trial++ {
		p, scores := randomArcs(t, 2+r.Intn(6), r)
		gold, err := d.Decode(p, randomScores(r, p.Len()))
		require.NoError(t, err)

		out, cost, loss, err := d.DecodeCostAugmented(p, scores, gold)
		require.NoError(t, err)
		assert.True(t, arborescence.IsTree(heads(p, out)))
		assert.GreaterOrEqual(t, loss, 0.0, "trial %d", trial)

		hamming := 0.0
		for i := range out {
			hamming += 0.5 * math.Abs(out[i]-gold[i])
		}
		assert.InDelta(t, hamming, cost, 1e-9, "trial %d", trial)
	}
}

func TestDecodeCostAugmented_GoldFarAhead(t *testing.T) {
	p, scores := threeNode(t)
	gold := []float64{1, 0, 1, 0}
	for i := range scores {
		scores[i] *= 10
	}
	out, cost, loss, err := decoder.New(decoder.WithCosts(1, 2)).DecodeCostAugmented(p, scores, gold)
	require.NoError(t, err)
	assert.Equal(t, gold, out)
	assert.Zero(t, cost)
	assert.Zero(t, loss)
}

func randomScores(r *rand.Rand, n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = r.Float64()*6 - 3
	}

	return s
}

func TestDecodeMarginals_ThreeNodes(t *testing.T) {
	p, scores := threeNode(t)
	gold := []float64{1, 0, 1, 0}
	out, entropy, loss, err := decoder.New().DecodeMarginals(p, scores, gold)
	require.NoError(t, err)

	// Trees: {0→1,1→2}=8, {0→1,0→2}=6, {0→2,2→1}=3.
	values := []float64{8, 6, 3}
	logZ := math.Log(math.Exp(8) + math.Exp(6) + math.Exp(3))
	expected := 0.0
	for _, v := range values {
		expected += math.Exp(v-logZ) * v
	}

	assert.InDelta(t, 1.0, out[0]+out[3], 1e-9)
	assert.InDelta(t, 1.0, out[1]+out[2], 1e-9)
	for _, v := range out {
		assert.Greater(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
	assert.InDelta(t, (math.Exp(8)+math.Exp(6))/math.Exp(logZ), out[0], 1e-9)
	assert.InDelta(t, logZ-expected, entropy, 1e-9)
	assert.InDelta(t, logZ-8, loss, 1e-9)
}

func TestDecodeMarginals_Errors(t *testing.T) {
	p, scores := threeNode(t)
	gold := []float64{1, 0, 1, 0}

	_, _, _, err := decoder.New(decoder.WithProjective(true)).DecodeMarginals(p, scores, gold)
	assert.ErrorIs(t, err, decoder.ErrProjectiveMarginals)

	_, _, _, err = decoder.New().DecodeMarginals(p, scores, gold[:2])
	assert.ErrorIs(t, err, decoder.ErrLengthMismatch)

	q, qs := collect(t, 3, []scored{
		{parts.Arc(0, 1), 1}, {parts.Arc(0, 2), 1}, {parts.Arc(1, 2), 1},
		{parts.Sibling(0, 1, 2), 1},
	})
	_, _, _, err = decoder.New().DecodeMarginals(q, qs, make([]float64, len(qs)))
	assert.ErrorIs(t, err, decoder.ErrNotArcFactored)
}

func TestDecode_HigherOrder(t *testing.T) {
	// The sibling bonus for 2 and 3 under head 1 beats the arc 0→3.
	items := []scored{
		{parts.Arc(0, 1), 2}, {parts.Arc(0, 2), -1}, {parts.Arc(0, 3), 1},
		{parts.Arc(1, 2), 1}, {parts.Arc(1, 3), 0.5},
		{parts.Arc(2, 1), -1}, {parts.Arc(2, 3), -1},
		{parts.Arc(3, 1), -1}, {parts.Arc(3, 2), -1},
		{parts.NextSibling(1, 1, 2), 1}, {parts.NextSibling(1, 2, 3), 1}, {parts.NextSibling(1, 3, 4), 1},
	}
	p, scores := collect(t, 4, items)
	for _, automata := range []bool{true, false} {
		d := decoder.New(decoder.WithHeadAutomata(automata),
			decoder.WithFactorGraphOptions(factorgraph.WithMaxIterations(5000)))
		out, err := d.Decode(p, scores)
		require.NoError(t, err)
		assert.Equal(t, []int{-1, 0, 1, 1}, heads(p, out), "automata=%v", automata)
		assert.InDelta(t, 1.0, out[10], 0.05, "automata=%v", automata)
	}
}

func TestDecode_LastWordHasNoRightChild(t *testing.T) {
	items := []scored{
		{parts.Arc(0, 1), 2}, {parts.Arc(0, 2), -1}, {parts.Arc(1, 2), 2},
		{parts.NextSibling(1, 1, 2), 1}, {parts.NextSibling(2, 2, 3), 1},
	}
	p, scores := collect(t, 3, items)
	for _, automata := range []bool{true, false} {
		d := decoder.New(decoder.WithHeadAutomata(automata),
			decoder.WithFactorGraphOptions(factorgraph.WithMaxIterations(5000)))
		out, err := d.Decode(p, scores)
		require.NoError(t, err, "automata=%v", automata)
		assert.Equal(t, []int{-1, 0, 1}, heads(p, out), "automata=%v", automata)
		assert.InDelta(t, 1.0, out[3], 0.05, "automata=%v", automata)
		assert.InDelta(t, 1.0, out[4], 0.05, "automata=%v", automata)
	}
}

func TestWithCostsPanics(t *testing.T) {
	assert.Panics(t, func() { decoder.WithCosts(-1, 0.5) })
	assert.Panics(t, func() { decoder.WithCosts(0.5, math.NaN()) })
	assert.NotPanics(t, func() { decoder.WithCosts(0, 0) })
}
