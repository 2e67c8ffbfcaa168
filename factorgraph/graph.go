// SPDX-License-Identifier: MIT

package factorgraph

import (
	"fmt"
)

// Variable is a binary decision variable of one Graph.
type Variable struct {
	graph  *Graph
	id     int
	score  float64
	degree int
}

// ID returns the variable's position in Result.Beliefs.
func (v *Variable) ID() int { return v.id }

// Score returns the unary score.
func (v *Variable) Score() float64 { return v.score }

// SetScore replaces the unary score.
func (v *Variable) SetScore(score float64) { v.score = score }

// Degree returns the number of factors attached to v.
func (v *Variable) Degree() int { return v.degree }

// link attaches one factor slot to a variable.
type link struct {
	variable int
	negated  bool
}

// node is a factor together with its per-solve state.
type node struct {
	factor     Factor
	links      []link
	additional []float64

	lambda []float64 // multipliers in global coordinates
	mu     []float64 // last local solution, global coordinates
	nu     []float64 // last additional posteriors
	lastA  []float64 // inputs of the last QP, for caching
	cached bool
}

// Graph is a factor graph over binary variables.
type Graph struct {
	variables []*Variable
	nodes     []*node
}

// NewGraph returns an empty graph.
func NewGraph() *Graph { return &Graph{} }

// AddVariable creates a variable with the given unary score.
func (g *Graph) AddVariable(score float64) *Variable {
	v := &Variable{graph: g, id: len(g.variables), score: score}
	g.variables = append(g.variables, v)

	return v
}

// NumVariables returns the number of variables.
func (g *Graph) NumVariables() int { return len(g.variables) }

// NumFactors returns the number of factors.
func (g *Graph) NumFactors() int { return len(g.nodes) }

// Variable returns the variable with the given id.
func (g *Graph) Variable(id int) *Variable { return g.variables[id] }

// AddFactor attaches f to vars and returns the factor id (its position in
// Result.Additional). negated may be nil; otherwise negated[i] makes the
// factor see 1 − vars[i]. additional holds the factor's own scores and is
// copied.
func (g *Graph) AddFactor(f Factor, vars []*Variable, negated []bool, additional []float64) (int, error) {
	if f == nil {
		return -1, ErrNilFactor
	}
	if len(vars) == 0 {
		return -1, ErrNoVariables
	}
	if negated != nil && len(negated) != len(vars) {
		return -1, ErrLengthMismatch
	}
	seen := make(map[int]struct{}, len(vars))
	links := make([]link, len(vars))
	for i, v := range vars {
		if v == nil || v.graph != g {
			return -1, fmt.Errorf("factorgraph: AddFactor: %w", ErrForeignVariable)
		}
		if _, ok := seen[v.id]; ok {
			return -1, fmt.Errorf("factorgraph: AddFactor: variable %d: %w", v.id, ErrDuplicateVariable)
		}
		seen[v.id] = struct{}{}
		links[i] = link{variable: v.id, negated: negated != nil && negated[i]}
	}
	for _, v := range vars {
		v.degree++
	}
	g.nodes = append(g.nodes, &node{
		factor:     f,
		links:      links,
		additional: append([]float64(nil), additional...),
	})

	return len(g.nodes) - 1, nil
}

// AddXOR attaches an exactly-one constraint.
func (g *Graph) AddXOR(vars []*Variable) (int, error) {
	return g.AddFactor(XOR{}, vars, nil, nil)
}

// AddXOROut attaches "exactly one of inputs equals output": the output is the
// negated last variable of an XOR.
func (g *Graph) AddXOROut(inputs []*Variable, output *Variable) (int, error) {
	vars := append(append([]*Variable(nil), inputs...), output)
	negated := make([]bool, len(vars))
	negated[len(vars)-1] = true

	return g.AddFactor(XOR{}, vars, negated, nil)
}

// AddAtMostOne attaches an at-most-one constraint.
func (g *Graph) AddAtMostOne(vars []*Variable) (int, error) {
	return g.AddFactor(AtMostOne{}, vars, nil, nil)
}

// AddImply attaches "each of premises implies conclusion".
func (g *Graph) AddImply(conclusion *Variable, premises []*Variable) (int, error) {
	vars := append([]*Variable{conclusion}, premises...)

	return g.AddFactor(Imply{}, vars, nil, nil)
}

// AddPair attaches a Pair factor scoring x·y with score.
func (g *Graph) AddPair(x, y *Variable, score float64) (int, error) {
	return g.AddFactor(NewGeneric[PairConfig](Pair{}), []*Variable{x, y}, nil, []float64{score})
}
