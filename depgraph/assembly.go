// SPDX-License-Identifier: MIT

package depgraph

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/depdecode/arborescence"
	"github.com/katalvlaran/depdecode/factorgraph"
	"github.com/katalvlaran/depdecode/parts"
)

const opBuild = "depgraph: Build"

// sourceKind says where the output value of a part comes from.
type sourceKind uint8

const (
	fromNothing    sourceKind = iota // impossible part, value 0
	fromVariable                     // belief of variable id
	fromAdditional                   // additional posterior slot of factor id
	fromOne                          // structurally certain, value 1
)

type source struct {
	kind     sourceKind
	id, slot int
}

// Output of Solve.
//
// Fields:
//
//	Values     []float64         : one value per part, aligned with the collection.
//	Status     factorgraph.Status
//	Iterations int
//	Primal     float64           : objective of the relaxation at Values.
type Output struct {
	Values     []float64
	Status     factorgraph.Status
	Iterations int
	Primal     float64
}

// Assembly is a built factor graph together with the mapping from parts to
// variables and factor slots.
type Assembly struct {
	numParts int
	graph    *factorgraph.Graph
	sources  []source
	opts     Options
}

// Graph returns the underlying factor graph.
func (a *Assembly) Graph() *factorgraph.Graph { return a.graph }

// Solve runs the consensus solver and maps the beliefs back onto the parts.
func (a *Assembly) Solve() Output {
	res := a.graph.Solve(a.opts.FactorGraph...)
	out := Output{
		Values:     make([]float64, a.numParts),
		Status:     res.Status,
		Iterations: res.Iterations,
		Primal:     res.Primal,
	}
	for i, src := range a.sources {
		switch src.kind {
		case fromVariable:
			out.Values[i] = res.Beliefs[src.id]
		case fromAdditional:
			out.Values[i] = res.Additional[src.id][src.slot]
		case fromOne:
			out.Values[i] = 1
		}
	}

	return out
}

// Solve builds and solves in one call.
func Solve(p *parts.Parts, scores []float64, opts ...Option) (Output, error) {
	a, err := Build(p, scores, opts...)
	if err != nil {
		return Output{}, err
	}

	return a.Solve(), nil
}

// builder carries the state of one Build call.
type builder struct {
	p       *parts.Parts
	scores  []float64
	o       Options
	n       int
	g       *factorgraph.Graph
	alive   []bool                 // alive[h*n+m]: candidate arc kept
	arcVar  []*factorgraph.Variable // arcVar[h*n+m]
	sources []source
}

// Build assembles the factor graph for an indexed part collection.
//
// Steps:
//  1. Validate: indexed collection, aligned scores, a head for every node.
//  2. Choose the structural formulation; with flow and projectivity,
//     eliminate arcs that cannot be projective.
//  3. One variable per surviving arc.
//  4. Structural factor(s): tree or flow.
//  5. Sibling-family parts: head automata or explicit chains.
//  6. Sibling and head-bigram parts.
func Build(p *parts.Parts, scores []float64, opts ...Option) (*Assembly, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	// 1. Validate.
	if !p.Indexed() {
		return nil, fmt.Errorf("%s: %w", opBuild, parts.ErrNotIndexed)
	}
	if len(scores) != p.Len() {
		return nil, fmt.Errorf("%s: %w", opBuild, ErrLengthMismatch)
	}
	n := p.Length()
	for m := 1; m < n; m++ {
		if len(p.Heads(m)) == 0 {
			return nil, fmt.Errorf("%s: node %d: %w", opBuild, m, ErrNoCandidateHead)
		}
	}
	b := &builder{
		p:       p,
		scores:  scores,
		o:       o,
		n:       n,
		g:       factorgraph.NewGraph(),
		alive:   make([]bool, n*n),
		arcVar:  make([]*factorgraph.Variable, n*n),
		sources: make([]source, p.Len()),
	}

	// 2. Formulation.
	start, end := p.Range(parts.KindArc)
	for i := start; i < end; i++ {
		a := p.At(i)
		b.alive[a.Head*n+a.Modifier] = true
	}
	flow := p.Has(parts.KindNonProjectiveArc) || p.Has(parts.KindPath)
	if flow && o.Projective {
		if err := b.eliminateNonProjectiveArcs(); err != nil {
			return nil, err
		}
	}

	// 3. Arc variables.
	for i := start; i < end; i++ {
		a := p.At(i)
		if !b.alive[a.Head*n+a.Modifier] {
			continue
		}
		v := b.g.AddVariable(scores[i])
		b.arcVar[a.Head*n+a.Modifier] = v
		b.sources[i] = source{kind: fromVariable, id: v.ID()}
	}

	// 4. Structure.
	var err error
	if flow {
		err = b.addFlow()
	} else {
		err = b.addTree()
	}
	if err != nil {
		return nil, err
	}

	// 5. Sibling family.
	if err = b.addSiblingFamily(); err != nil {
		return nil, err
	}

	// 6. Remaining pairwise parts.
	if err = b.addSiblings(); err != nil {
		return nil, err
	}
	if err = b.addHeadBigrams(); err != nil {
		return nil, err
	}

	o.Logger.Debug("depgraph: assembled",
		slog.Int("nodes", n), slog.Int("parts", p.Len()), slog.Bool("flow", flow),
		slog.Int("variables", b.g.NumVariables()), slog.Int("factors", b.g.NumFactors()))

	return &Assembly{numParts: p.Len(), graph: b.g, sources: b.sources, opts: o}, nil
}

// arc returns the variable of arc h→m, or nil.
func (b *builder) arc(h, m int) *factorgraph.Variable {
	if h < 0 || h >= b.n || m < 0 || m >= b.n {
		return nil
	}

	return b.arcVar[h*b.n+m]
}

// heads returns the surviving candidate heads of m in arc order.
func (b *builder) heads(m int) []int {
	var out []int
	for _, h := range b.p.Heads(m) {
		if b.arc(h, m) != nil {
			out = append(out, h)
		}
	}

	return out
}

// modifiers returns the surviving candidate modifiers of h on side, from the
// head outwards.
func (b *builder) modifiers(h int, side parts.Side) []int {
	var out []int
	for _, m := range b.p.Modifiers(h, side) {
		if b.arc(h, m) != nil {
			out = append(out, m)
		}
	}

	return out
}

// addTree attaches one TreeFactor over every arc variable.
func (b *builder) addTree() error {
	var arcs []arborescence.Arc
	var vars []*factorgraph.Variable
	start, end := b.p.Range(parts.KindArc)
	for i := start; i < end; i++ {
		a := b.p.At(i)
		arcs = append(arcs, arborescence.Arc{Head: a.Head, Modifier: a.Modifier})
		vars = append(vars, b.arc(a.Head, a.Modifier))
	}
	f, err := NewTreeFactor(b.n, arcs, b.o.Projective, b.o.Logger)
	if errors.Is(err, arborescence.ErrDisconnected) {
		return fmt.Errorf("%s: %w", opBuild, ErrNoTree)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", opBuild, err)
	}
	_, err = b.g.AddFactor(factorgraph.NewGeneric[TreeConfig](f), vars, nil, nil)

	return err
}

// addPair attaches Pair(x, y) scored by part i, or leaves the part at 0 when
// either variable does not exist.
func (b *builder) addPair(i int, x, y *factorgraph.Variable) error {
	if x == nil || y == nil {
		return nil
	}
	id, err := b.g.AddPair(x, y, b.scores[i])
	if err != nil {
		return fmt.Errorf("%s: %s: %w", opBuild, b.p.At(i), err)
	}
	b.sources[i] = source{kind: fromAdditional, id: id, slot: 0}

	return nil
}

// addSiblings turns every Sibling part into a Pair of its two arcs.
func (b *builder) addSiblings() error {
	start, end := b.p.Range(parts.KindSibling)
	for i := start; i < end; i++ {
		s := b.p.At(i)
		if err := b.addPair(i, b.arc(s.Head, s.Modifier), b.arc(s.Head, s.Sibling)); err != nil {
			return err
		}
	}

	return nil
}
