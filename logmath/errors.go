// SPDX-License-Identifier: MIT

package logmath

import (
	"errors"
	"fmt"
)

var (
	// ErrBadShape is returned when a requested matrix order is not positive.
	ErrBadShape = errors.New("logmath: invalid shape")

	// ErrOutOfRange indicates that a row or column index is outside valid bounds.
	ErrOutOfRange = errors.New("logmath: index out of range")

	// ErrSingular is returned when every candidate pivot of a column is zero.
	ErrSingular = errors.New("logmath: singular matrix")
)

// Operation tags for uniform error wrapping.
const (
	opAt          = "At"
	opSet         = "Set"
	opLU          = "LU"
	opDeterminant = "Determinant"
	opInverse     = "Inverse"
)

// logmathErrorf wraps err with an operation tag, keeping errors.Is intact.
// Call only with a non-nil err.
func logmathErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
