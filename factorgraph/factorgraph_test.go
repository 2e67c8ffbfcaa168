package factorgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/depdecode/factorgraph"
)

// LogicSuite solves small graphs whose optimum is known in closed form.
type LogicSuite struct {
	suite.Suite
	g *factorgraph.Graph
}

func (s *LogicSuite) SetupTest() { s.g = factorgraph.NewGraph() }

func (s *LogicSuite) vars(scores ...float64) []*factorgraph.Variable {
	out := make([]*factorgraph.Variable, len(scores))
	for i, sc := range scores {
		out[i] = s.g.AddVariable(sc)
	}

	return out
}

func (s *LogicSuite) TestXOR() {
	v := s.vars(1, 3, 2)
	_, err := s.g.AddXOR(v)
	s.Require().NoError(err)

	res := s.g.Solve()
	s.Equal(factorgraph.StatusIntegral, res.Status)
	s.InDeltaSlice([]float64{0, 1, 0}, res.Beliefs, 1e-6)
	s.InDelta(3.0, res.Primal, 1e-5)
}

func (s *LogicSuite) TestXOROut() {
	v := s.vars(2, -1, -0.5)
	_, err := s.g.AddXOROut(v[:2], v[2])
	s.Require().NoError(err)

	res := s.g.Solve()
	s.Equal(factorgraph.StatusIntegral, res.Status)
	s.InDeltaSlice([]float64{1, 0, 1}, res.Beliefs, 1e-6)
}

func (s *LogicSuite) TestXOROut_OffWhenUnprofitable() {
	v := s.vars(0.5, -1, -2)
	_, err := s.g.AddXOROut(v[:2], v[2])
	s.Require().NoError(err)

	res := s.g.Solve()
	s.InDeltaSlice([]float64{0, 0, 0}, res.Beliefs, 1e-6)
}

func (s *LogicSuite) TestAtMostOne() {
	v := s.vars(-1, -2, 0.5, 0.25)
	_, err := s.g.AddAtMostOne(v)
	s.Require().NoError(err)

	res := s.g.Solve()
	s.Equal(factorgraph.StatusIntegral, res.Status)
	s.InDeltaSlice([]float64{0, 0, 1, 0}, res.Beliefs, 1e-6)
}

func (s *LogicSuite) TestImply() {
	v := s.vars(-1, 3, -0.5)
	_, err := s.g.AddImply(v[0], v[1:])
	s.Require().NoError(err)

	res := s.g.Solve()
	s.InDeltaSlice([]float64{1, 1, 0}, res.Beliefs, 1e-6)
}

func (s *LogicSuite) TestImply_PremiseTooWeak() {
	v := s.vars(-1, 0.5)
	_, err := s.g.AddImply(v[0], v[1:])
	s.Require().NoError(err)

	res := s.g.Solve()
	s.InDeltaSlice([]float64{0, 0}, res.Beliefs, 1e-6)
}

func (s *LogicSuite) TestPair() {
	v := s.vars(-1, -1)
	id, err := s.g.AddPair(v[0], v[1], 3)
	s.Require().NoError(err)

	res := s.g.Solve()
	s.InDeltaSlice([]float64{1, 1}, res.Beliefs, 1e-6)
	s.InDeltaSlice([]float64{1}, res.Additional[id], 1e-6)
	s.InDelta(1.0, res.Primal, 1e-5)
}

func (s *LogicSuite) TestPair_WeakBonus() {
	v := s.vars(-1, -1)
	id, err := s.g.AddPair(v[0], v[1], 1.5)
	s.Require().NoError(err)

	res := s.g.Solve()
	s.InDeltaSlice([]float64{0, 0}, res.Beliefs, 1e-6)
	s.InDeltaSlice([]float64{0}, res.Additional[id], 1e-6)
}

// TestSharedVariables: an XOR and a Pair share x0; the pair bonus makes
// {x0, x3} beat the best single XOR choice x1.
func (s *LogicSuite) TestSharedVariables() {
	v := s.vars(1, 1.2, 0.1, -0.5)
	_, err := s.g.AddXOR(v[:3])
	s.Require().NoError(err)
	_, err = s.g.AddPair(v[0], v[3], 0.8)
	s.Require().NoError(err)

	res := s.g.Solve(factorgraph.WithMaxIterations(5000))
	s.InDeltaSlice([]float64{1, 0, 0, 1}, res.Beliefs, 1e-3)
	s.InDelta(1.3, res.Primal, 1e-2)
}

func (s *LogicSuite) TestIsolatedVariables() {
	s.vars(2, -1, 0)

	res := s.g.Solve()
	s.Equal([]float64{1, 0, 0}, res.Beliefs)
	s.Equal(factorgraph.StatusIntegral, res.Status)
	s.Equal(0, res.Iterations)
}

// TestFrustrated: three pairwise at-most-one constraints; the relaxation's
// unique optimum is 0.5 everywhere.
func (s *LogicSuite) TestFrustrated() {
	v := s.vars(1, 1, 1)
	for _, pair := range [][2]int{{0, 1}, {1, 2}, {0, 2}} {
		_, err := s.g.AddAtMostOne([]*factorgraph.Variable{v[pair[0]], v[pair[1]]})
		s.Require().NoError(err)
	}

	res := s.g.Solve(factorgraph.WithMaxIterations(5000))
	s.NotEqual(factorgraph.StatusIntegral, res.Status)
	s.InDeltaSlice([]float64{0.5, 0.5, 0.5}, res.Beliefs, 1e-3)
}

// TestCacheDoesNotChangeResult compares cached and uncached solves.
func (s *LogicSuite) TestCacheDoesNotChangeResult() {
	v := s.vars(1, 1.2, 0.1, -0.3)
	_, err := s.g.AddXOR(v[:3])
	s.Require().NoError(err)
	_, err = s.g.AddPair(v[2], v[3], 2)
	s.Require().NoError(err)

	cached := s.g.Solve()
	plain := s.g.Solve(factorgraph.WithCacheSolutions(false))
	s.InDeltaSlice(cached.Beliefs, plain.Beliefs, 1e-6)
	s.Equal(cached.Status, plain.Status)
}

func TestLogicSuite(t *testing.T) {
	suite.Run(t, new(LogicSuite))
}

// TestGeneric_PairQP checks the active-set QP on points whose projection is known.
func TestGeneric_PairQP(t *testing.T) {
	cases := []struct {
		name   string
		a, b   []float64
		wantMu []float64
		wantNu []float64
	}{
		{"inside", []float64{0.3, 0.8}, []float64{0}, []float64{0.3, 0.8}, nil},
		{"corner", []float64{1.5, -0.5}, []float64{0}, []float64{1, 0}, []float64{0}},
		{"both on", []float64{2, 2}, []float64{1}, []float64{1, 1}, []float64{1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := factorgraph.NewGeneric[factorgraph.PairConfig](factorgraph.Pair{})
			mu, nu := make([]float64, 2), make([]float64, 1)
			f.SolveQP(tc.a, tc.b, mu, nu)
			assert.InDeltaSlice(t, tc.wantMu, mu, 1e-6)
			if tc.wantNu != nil {
				assert.InDeltaSlice(t, tc.wantNu, nu, 1e-6)
			}
			// ν stays inside the pair polytope.
			assert.LessOrEqual(t, nu[0], mu[0]+1e-9)
			assert.LessOrEqual(t, nu[0], mu[1]+1e-9)
			assert.GreaterOrEqual(t, nu[0], mu[0]+mu[1]-1-1e-9)

			configs, weights := f.Active()
			assert.Len(t, weights, len(configs))
		})
	}
}

// TestPairFactor checks the configuration arithmetic.
func TestPairFactor(t *testing.T) {
	p := factorgraph.Pair{}
	c, v := p.Maximize([]float64{-1, -1}, []float64{1})
	assert.Equal(t, factorgraph.PairConfig(0), c)
	assert.Zero(t, v)

	c, v = p.Maximize([]float64{-1, -1}, []float64{3})
	assert.Equal(t, factorgraph.PairConfig(3), c)
	assert.InDelta(t, 1.0, v, 1e-12)

	assert.Equal(t, 1, p.CountCommonValues(3, 2))
	assert.Equal(t, 0, p.CountCommonValues(1, 2))
	assert.True(t, p.Same(2, 2))

	mu, nu := make([]float64, 2), make([]float64, 1)
	p.UpdateMarginalsFromConfiguration(3, 0.5, mu, nu)
	p.UpdateMarginalsFromConfiguration(1, 0.25, mu, nu)
	assert.Equal(t, []float64{0.75, 0.5}, mu)
	assert.Equal(t, []float64{0.5}, nu)
}

// TestAddFactorErrors covers the attachment checks.
func TestAddFactorErrors(t *testing.T) {
	g := factorgraph.NewGraph()
	other := factorgraph.NewGraph()
	x, y := g.AddVariable(1), g.AddVariable(1)
	z := other.AddVariable(1)

	_, err := g.AddFactor(nil, []*factorgraph.Variable{x}, nil, nil)
	assert.ErrorIs(t, err, factorgraph.ErrNilFactor)

	_, err = g.AddXOR(nil)
	assert.ErrorIs(t, err, factorgraph.ErrNoVariables)

	_, err = g.AddXOR([]*factorgraph.Variable{x, z})
	assert.ErrorIs(t, err, factorgraph.ErrForeignVariable)

	_, err = g.AddXOR([]*factorgraph.Variable{x, x})
	assert.ErrorIs(t, err, factorgraph.ErrDuplicateVariable)

	_, err = g.AddFactor(factorgraph.XOR{}, []*factorgraph.Variable{x, y}, []bool{true}, nil)
	assert.ErrorIs(t, err, factorgraph.ErrLengthMismatch)

	// Failed attachments leave degrees untouched.
	assert.Zero(t, x.Degree())
	assert.Zero(t, g.NumFactors())

	id, err := g.AddXOR([]*factorgraph.Variable{x, y})
	require.NoError(t, err)
	assert.Equal(t, 0, id)
	assert.Equal(t, 1, x.Degree())
	assert.Equal(t, 2, g.NumVariables())
	assert.Same(t, y, g.Variable(1))
}

// TestOptions covers defaults and the panicking constructors.
func TestOptions(t *testing.T) {
	o := factorgraph.DefaultOptions()
	assert.Equal(t, factorgraph.DefaultMaxIterations, o.MaxIterations)
	assert.Equal(t, factorgraph.DefaultEta, o.Eta)
	assert.True(t, o.AdaptStepSize)
	assert.True(t, o.CacheSolutions)

	o = o.Apply(factorgraph.WithEta(1), factorgraph.WithAdaptStepSize(false), factorgraph.WithResidualThreshold(1e-4))
	assert.Equal(t, 1.0, o.Eta)
	assert.False(t, o.AdaptStepSize)
	assert.Equal(t, 1e-4, o.ResidualThreshold)

	assert.Panics(t, func() { factorgraph.WithMaxIterations(0) })
	assert.Panics(t, func() { factorgraph.WithEta(0) })
	assert.Panics(t, func() { factorgraph.WithResidualThreshold(-1) })

	assert.Equal(t, "integral", factorgraph.StatusIntegral.String())
	assert.Equal(t, "fractional", factorgraph.StatusFractional.String())
	assert.Equal(t, "unsolved", factorgraph.StatusUnsolved.String())
}

// TestIterationCap: one iteration cannot converge from the 0.5 start.
func TestIterationCap(t *testing.T) {
	g := factorgraph.NewGraph()
	_, err := g.AddXOR([]*factorgraph.Variable{g.AddVariable(1), g.AddVariable(2)})
	require.NoError(t, err)

	res := g.Solve(factorgraph.WithMaxIterations(1))
	assert.Equal(t, factorgraph.StatusUnsolved, res.Status)
	assert.Equal(t, 1, res.Iterations)
}
