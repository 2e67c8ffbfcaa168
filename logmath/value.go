// SPDX-License-Identifier: MIT

package logmath

import (
	"fmt"
	"math"
)

// Value is a real number stored as the logarithm of its magnitude plus a sign.
// The zero Value is not the number zero; use Zero() to obtain it.
type Value struct {
	logAbs float64 // log|x|; -Inf when x == 0
	sign   int8    // -1, 0 or +1
}

// Zero returns the additive identity.
func Zero() Value { return Value{logAbs: math.Inf(-1), sign: 0} }

// One returns the multiplicative identity.
func One() Value { return Value{logAbs: 0, sign: 1} }

// FromFloat converts an ordinary float64.
func FromFloat(x float64) Value {
	switch {
	case x > 0:
		return Value{logAbs: math.Log(x), sign: 1}
	case x < 0:
		return Value{logAbs: math.Log(-x), sign: -1}
	default:
		return Zero()
	}
}

// FromLog returns the positive number exp(l) without ever forming it.
// FromLog(-Inf) is Zero().
func FromLog(l float64) Value {
	if math.IsInf(l, -1) {
		return Zero()
	}

	return Value{logAbs: l, sign: 1}
}

// IsZero reports whether v represents 0.
func (v Value) IsZero() bool { return v.sign == 0 }

// Sign returns -1, 0 or +1.
func (v Value) Sign() int { return int(v.sign) }

// LogAbs returns log|v| (-Inf for zero).
func (v Value) LogAbs() float64 {
	if v.sign == 0 {
		return math.Inf(-1)
	}

	return v.logAbs
}

// Float64 converts back to float64; magnitudes beyond the float64 range
// saturate to ±Inf or 0.
func (v Value) Float64() float64 {
	if v.sign == 0 {
		return 0
	}

	return float64(v.sign) * math.Exp(v.logAbs)
}

// String implements fmt.Stringer.
func (v Value) String() string {
	switch v.sign {
	case 0:
		return "0"
	case 1:
		return fmt.Sprintf("exp(%g)", v.logAbs)
	default:
		return fmt.Sprintf("-exp(%g)", v.logAbs)
	}
}

// Neg returns -a.
func Neg(a Value) Value {
	a.sign = -a.sign

	return a
}

// Add returns a + b using a signed log-sum-exp.
//
// Same signs add magnitudes: log(e^x + e^y) = max + log1p(e^{-|x-y|}).
// Opposite signs subtract the smaller magnitude from the larger one and keep
// the larger one's sign; equal magnitudes cancel to Zero().
func Add(a, b Value) Value {
	if a.sign == 0 {
		return b
	}
	if b.sign == 0 {
		return a
	}

	hi, lo := a, b
	if lo.logAbs > hi.logAbs {
		hi, lo = lo, hi
	}
	if hi.sign == lo.sign {
		return Value{logAbs: hi.logAbs + math.Log1p(math.Exp(lo.logAbs-hi.logAbs)), sign: hi.sign}
	}
	if hi.logAbs == lo.logAbs {
		return Zero()
	}

	return Value{logAbs: hi.logAbs + math.Log1p(-math.Exp(lo.logAbs-hi.logAbs)), sign: hi.sign}
}

// Sub returns a - b.
func Sub(a, b Value) Value { return Add(a, Neg(b)) }

// Mul returns a · b.
func Mul(a, b Value) Value {
	if a.sign == 0 || b.sign == 0 {
		return Zero()
	}

	return Value{logAbs: a.logAbs + b.logAbs, sign: a.sign * b.sign}
}

// Div returns a / b. Dividing by Zero() is a programmer error and panics;
// callers test pivots before dividing.
func Div(a, b Value) Value {
	if b.sign == 0 {
		panic("logmath: Div: division by zero")
	}
	if a.sign == 0 {
		return Zero()
	}

	return Value{logAbs: a.logAbs - b.logAbs, sign: a.sign * b.sign}
}

// Less reports whether |a| < |b|; used for pivot selection.
func Less(a, b Value) bool { return a.LogAbs() < b.LogAbs() }
