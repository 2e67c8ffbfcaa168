package logmath_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/depdecode/logmath"
)

// TestValue_Arithmetic compares signed log arithmetic with float64 arithmetic.
func TestValue_Arithmetic(t *testing.T) {
	xs := []float64{-3.5, -1, -0.25, 0, 0.5, 2, 7}
	for _, x := range xs {
		for _, y := range xs {
			a, b := logmath.FromFloat(x), logmath.FromFloat(y)
			assert.InDelta(t, x+y, logmath.Add(a, b).Float64(), 1e-12, "%g+%g", x, y)
			assert.InDelta(t, x-y, logmath.Sub(a, b).Float64(), 1e-12, "%g-%g", x, y)
			assert.InDelta(t, x*y, logmath.Mul(a, b).Float64(), 1e-12, "%g*%g", x, y)
			if y != 0 {
				assert.InDelta(t, x/y, logmath.Div(a, b).Float64(), 1e-12, "%g/%g", x, y)
			}
		}
	}
}

// TestValue_Extremes checks magnitudes that plain float64 cannot hold.
func TestValue_Extremes(t *testing.T) {
	big := logmath.FromLog(1000)
	tiny := logmath.FromLog(-1000)
	assert.InDelta(t, 1.0, logmath.Mul(big, tiny).Float64(), 1e-12)
	assert.InDelta(t, 1000+math.Log(2), logmath.Add(big, big).LogAbs(), 1e-12)
	assert.True(t, logmath.Sub(big, big).IsZero(), "equal magnitudes cancel")
	assert.Equal(t, -1, logmath.Sub(tiny, big).Sign())
	assert.True(t, logmath.FromLog(math.Inf(-1)).IsZero())
	assert.Panics(t, func() { logmath.Div(big, logmath.Zero()) })
}

// TestDense_Determinant checks small fixtures including a pivoting case.
func TestDense_Determinant(t *testing.T) {
	m := mustDense(t, [][]float64{{2, 1}, {1, 3}})
	det, err := m.Determinant()
	require.NoError(t, err)
	assert.InDelta(t, 5.0, det.Float64(), 1e-12)

	swap := mustDense(t, [][]float64{{0, 1}, {1, 0}})
	det, err = swap.Determinant()
	require.NoError(t, err)
	assert.InDelta(t, -1.0, det.Float64(), 1e-12)

	three := mustDense(t, [][]float64{{1, 2, 3}, {0, 1, 4}, {5, 6, 0}})
	det, err = three.Determinant()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, det.Float64(), 1e-9)
}

// TestDense_Singular verifies ErrSingular propagation.
func TestDense_Singular(t *testing.T) {
	m := mustDense(t, [][]float64{{1, 2}, {2, 4}})
	_, err := m.Determinant()
	assert.ErrorIs(t, err, logmath.ErrSingular)
	_, err = m.Inverse()
	assert.ErrorIs(t, err, logmath.ErrSingular)
}

// TestDense_Inverse checks A·A⁻¹ = I.
func TestDense_Inverse(t *testing.T) {
	vals := [][]float64{{4, -2, 1}, {-2, 4, -2}, {1, -2, 4}}
	m := mustDense(t, vals)
	inv, err := m.Inverse()
	require.NoError(t, err)

	n := len(vals)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sum := 0.0
			for k := 0; k < n; k++ {
				v, err := inv.At(k, j)
				require.NoError(t, err)
				sum += vals[i][k] * v.Float64()
			}
			want := 0.0
			if i == j {
				want = 1
			}
			assert.InDelta(t, want, sum, 1e-9, "(%d,%d)", i, j)
		}
	}
}

// TestDense_Bounds covers shape and index validation.
func TestDense_Bounds(t *testing.T) {
	_, err := logmath.NewDense(0)
	assert.ErrorIs(t, err, logmath.ErrBadShape)

	m, err := logmath.NewDense(2)
	require.NoError(t, err)
	_, err = m.At(2, 0)
	assert.ErrorIs(t, err, logmath.ErrOutOfRange)
	assert.ErrorIs(t, m.Set(0, -1, logmath.One()), logmath.ErrOutOfRange)
	assert.Equal(t, 2, m.Order())
	assert.Contains(t, m.String(), "[0, 0]")
}

func mustDense(t *testing.T, vals [][]float64) *logmath.Dense {
	t.Helper()
	m, err := logmath.NewDense(len(vals))
	require.NoError(t, err)
	for i, row := range vals {
		for j, v := range row {
			require.NoError(t, m.Set(i, j, logmath.FromFloat(v)))
		}
	}

	return m
}
