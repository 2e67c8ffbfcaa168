// SPDX-License-Identifier: MIT

package factorgraph

import "errors"

var (
	// ErrForeignVariable indicates a variable created by another Graph.
	ErrForeignVariable = errors.New("factorgraph: variable belongs to another graph")

	// ErrDuplicateVariable indicates the same variable attached twice to one factor.
	ErrDuplicateVariable = errors.New("factorgraph: variable attached twice to a factor")

	// ErrLengthMismatch indicates that negations and variables are not aligned.
	ErrLengthMismatch = errors.New("factorgraph: negations and variables differ in length")

	// ErrNilFactor indicates a nil factor.
	ErrNilFactor = errors.New("factorgraph: nil factor")

	// ErrNoVariables indicates a factor without variables.
	ErrNoVariables = errors.New("factorgraph: factor has no variables")
)
