// SPDX-License-Identifier: MIT

package logmath

import (
	"fmt"
	"strings"
)

// Dense is a square, row-major matrix of Values.
type Dense struct {
	n    int     // order
	data []Value // flat backing storage, length n*n
}

// NewDense creates an n×n matrix filled with Zero().
// Returns ErrBadShape if n <= 0.
// Complexity: O(n²).
func NewDense(n int) (*Dense, error) {
	if n <= 0 {
		return nil, ErrBadShape
	}
	data := make([]Value, n*n)
	for i := range data {
		data[i] = Zero()
	}

	return &Dense{n: n, data: data}, nil
}

// Order returns the number of rows (equal to the number of columns).
func (m *Dense) Order() int { return m.n }

// indexOf computes the flat index for (row, col) or returns ErrOutOfRange.
func (m *Dense) indexOf(op string, row, col int) (int, error) {
	if row < 0 || row >= m.n || col < 0 || col >= m.n {
		return 0, logmathErrorf(op, fmt.Errorf("(%d,%d): %w", row, col, ErrOutOfRange))
	}

	return row*m.n + col, nil
}

// At returns the element at (row, col).
func (m *Dense) At(row, col int) (Value, error) {
	idx, err := m.indexOf(opAt, row, col)
	if err != nil {
		return Zero(), err
	}

	return m.data[idx], nil
}

// Set stores v at (row, col).
func (m *Dense) Set(row, col int, v Value) error {
	idx, err := m.indexOf(opSet, row, col)
	if err != nil {
		return err
	}
	m.data[idx] = v

	return nil
}

// Clone returns a deep copy.
func (m *Dense) Clone() *Dense {
	data := make([]Value, len(m.data))
	copy(data, m.data)

	return &Dense{n: m.n, data: data}
}

// String renders the matrix with Float64 values, one row per line.
func (m *Dense) String() string {
	var b strings.Builder
	for i := 0; i < m.n; i++ {
		b.WriteString("[")
		for j := 0; j < m.n; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%g", m.data[i*m.n+j].Float64())
		}
		b.WriteString("]\n")
	}

	return b.String()
}

// LUFactors is an in-place LU factorisation P·A = L·U.
// L has a unit diagonal and is stored below the diagonal of lu; U occupies the
// diagonal and above. perm[i] is the original row placed at row i.
type LUFactors struct {
	n      int
	lu     []Value
	perm   []int
	parity int8 // +1 for an even number of row swaps, -1 for odd
}

// LU factorises m with partial pivoting on magnitude (largest log|x| wins,
// first row on ties). m itself is not modified.
//
// Steps:
//  1. Copy m into the working buffer; perm = identity.
//  2. For each column k: pick the pivot row p ≥ k with maximal |a[p,k]|;
//     a zero pivot means the matrix is singular (ErrSingular).
//  3. Swap rows k and p, then eliminate below the pivot storing multipliers
//     a[i,k] / a[k,k] in place of the eliminated entries.
//
// Complexity: O(n³) time, O(n²) memory.
func (m *Dense) LU() (*LUFactors, error) {
	n := m.n
	f := &LUFactors{
		n:      n,
		lu:     make([]Value, len(m.data)),
		perm:   make([]int, n),
		parity: 1,
	}
	copy(f.lu, m.data)
	for i := range f.perm {
		f.perm[i] = i
	}

	a := f.lu
	var i, j, k, p int
	for k = 0; k < n; k++ {
		// 2. Pivot search.
		p = k
		for i = k + 1; i < n; i++ {
			if Less(a[p*n+k], a[i*n+k]) {
				p = i
			}
		}
		if a[p*n+k].IsZero() {
			return nil, logmathErrorf(opLU, ErrSingular)
		}

		// 3. Row swap.
		if p != k {
			for j = 0; j < n; j++ {
				a[k*n+j], a[p*n+j] = a[p*n+j], a[k*n+j]
			}
			f.perm[k], f.perm[p] = f.perm[p], f.perm[k]
			f.parity = -f.parity
		}

		pivot := a[k*n+k]
		for i = k + 1; i < n; i++ {
			mult := Div(a[i*n+k], pivot)
			a[i*n+k] = mult
			if mult.IsZero() {
				continue
			}
			for j = k + 1; j < n; j++ {
				a[i*n+j] = Sub(a[i*n+j], Mul(mult, a[k*n+j]))
			}
		}
	}

	return f, nil
}

// Determinant returns det(P·A) · parity = det(A).
func (f *LUFactors) Determinant() Value {
	det := One()
	if f.parity < 0 {
		det = Neg(det)
	}
	for i := 0; i < f.n; i++ {
		det = Mul(det, f.lu[i*f.n+i])
	}

	return det
}

// Solve returns x with A·x = b.
// Forward substitution on L (unit diagonal) against the permuted b, then
// backward substitution on U.
// Complexity: O(n²).
func (f *LUFactors) Solve(b []Value) []Value {
	n := f.n
	a := f.lu
	y := make([]Value, n)
	for i := 0; i < n; i++ {
		sum := b[f.perm[i]]
		for k := 0; k < i; k++ {
			sum = Sub(sum, Mul(a[i*n+k], y[k]))
		}
		y[i] = sum
	}

	x := make([]Value, n)
	for i := n - 1; i >= 0; i-- {
		sum := y[i]
		for k := i + 1; k < n; k++ {
			sum = Sub(sum, Mul(a[i*n+k], x[k]))
		}
		x[i] = Div(sum, a[i*n+i])
	}

	return x
}

// Determinant computes det(m) through LU.
// Returns ErrSingular (wrapped) when the matrix is singular.
func (m *Dense) Determinant() (Value, error) {
	f, err := m.LU()
	if err != nil {
		return Zero(), logmathErrorf(opDeterminant, err)
	}

	return f.Determinant(), nil
}

// Inverse computes m⁻¹ column by column from a single LU factorisation.
// Returns ErrSingular (wrapped) when the matrix is singular.
// Complexity: O(n³).
func (m *Dense) Inverse() (*Dense, error) {
	f, err := m.LU()
	if err != nil {
		return nil, logmathErrorf(opInverse, err)
	}

	return f.Inverse(), nil
}

// Inverse builds A⁻¹ from existing factors.
func (f *LUFactors) Inverse() *Dense {
	n := f.n
	inv := &Dense{n: n, data: make([]Value, n*n)}
	e := make([]Value, n)
	for col := 0; col < n; col++ {
		for i := range e {
			e[i] = Zero()
		}
		e[col] = One()
		x := f.Solve(e)
		for i := 0; i < n; i++ {
			inv.data[i*n+col] = x[i]
		}
	}

	return inv
}
