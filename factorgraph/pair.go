// SPDX-License-Identifier: MIT

package factorgraph

// PairConfig encodes the two variables of a Pair: bit 0 is x, bit 1 is y.
type PairConfig uint8

// Pair is the logical AND of two variables, scored by one additional score.
type Pair struct{}

var _ GenericFactor[PairConfig] = Pair{}

// Maximize tries 00, 01, 10, 11 in order, keeping the first best.
func (p Pair) Maximize(vars, additional []float64) (PairConfig, float64) {
	best, arg := 0.0, PairConfig(0)
	for c := PairConfig(1); c < 4; c++ {
		if v := p.Evaluate(vars, additional, c); v > best {
			best, arg = v, c
		}
	}

	return arg, best
}

// Evaluate scores c.
func (Pair) Evaluate(vars, additional []float64, c PairConfig) float64 {
	v := 0.0
	if c&1 != 0 {
		v += vars[0]
	}
	if c&2 != 0 {
		v += vars[1]
	}
	if c == 3 {
		v += additional[0]
	}

	return v
}

// UpdateMarginalsFromConfiguration adds weight to the active entries of c.
func (Pair) UpdateMarginalsFromConfiguration(c PairConfig, weight float64, vars, additional []float64) {
	if c&1 != 0 {
		vars[0] += weight
	}
	if c&2 != 0 {
		vars[1] += weight
	}
	if c == 3 {
		additional[0] += weight
	}
}

// CountCommonValues counts variables that are 1 in both.
func (Pair) CountCommonValues(a, b PairConfig) int {
	n := 0
	if a&b&1 != 0 {
		n++
	}
	if a&b&2 != 0 {
		n++
	}

	return n
}

// Same reports equality.
func (Pair) Same(a, b PairConfig) bool { return a == b }
