// SPDX-License-Identifier: MIT

package depgraph

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/depdecode/factorgraph"
	"github.com/katalvlaran/depdecode/headautomaton"
	"github.com/katalvlaran/depdecode/parts"
)

// sideOf returns the side of head on which node lies.
func sideOf(head, node int) parts.Side {
	if node > head {
		return parts.Right
	}

	return parts.Left
}

// chain is the ordered modifier sequence of one head and side, with chain
// positions 0 (start, the head itself), 1..k (modifiers outwards) and k+1
// (the end sentinel).
type chain struct {
	head int
	side parts.Side
	mods []int
	pos  map[int]int
	n    int
}

func (b *builder) newChain(head int, side parts.Side) *chain {
	c := &chain{head: head, side: side, mods: b.modifiers(head, side), pos: map[int]int{}, n: b.n}
	for i, m := range c.mods {
		c.pos[m] = i + 1
	}

	return c
}

// position maps a node (or sentinel) to its chain position.
func (c *chain) position(node int) (int, bool) {
	if node == c.head {
		return 0, true
	}
	if (c.side == parts.Right && node == c.n) || (c.side == parts.Left && node == -1) {
		return len(c.mods) + 1, true
	}
	p, ok := c.pos[node]

	return p, ok
}

// move returns the positions of a transition from → to, or false when it is
// not a valid step of this chain.
func (c *chain) move(from, to int) (int, int, bool) {
	i, ok1 := c.position(from)
	j, ok2 := c.position(to)

	return i, j, ok1 && ok2 && i < j
}

// modifier returns the position of a real modifier, or false.
func (c *chain) modifier(node int) (int, bool) {
	p, ok := c.pos[node]

	return p, ok
}

func (c *chain) vars(b *builder) []*factorgraph.Variable {
	out := make([]*factorgraph.Variable, len(c.mods))
	for i, m := range c.mods {
		out[i] = b.arc(c.head, m)
	}

	return out
}

type automatonKind uint8

const (
	plainAutomaton automatonKind = iota
	grandparentAutomaton
	trigramAutomaton
)

type automatonKey struct {
	head int
	side parts.Side
	kind automatonKind
}

// automatonSpec collects the terms of one head automaton before it is built.
type automatonSpec struct {
	key          automatonKey
	chain        *chain
	grandparents []int // incoming heads, grandparent automata only
	siblings     []headautomaton.Transition
	gps          []headautomaton.GrandparentTerm
	gss          []headautomaton.GrandSiblingTerm
	tris         []headautomaton.TrigramTerm
	additional   []float64
	parts        []int
}

// slot reserves the next additional score for part i.
func (s *automatonSpec) slot(b *builder, i int) int {
	s.additional = append(s.additional, b.scores[i])
	s.parts = append(s.parts, i)

	return len(s.additional) - 1
}

// addSiblingFamily handles NextSibling, Grandparent, GrandSibling and
// TriSibling parts with head automata or with explicit chains.
func (b *builder) addSiblingFamily() error {
	if !b.p.Has(parts.KindNextSibling) && !b.p.Has(parts.KindGrandparent) &&
		!b.p.Has(parts.KindGrandSibling) && !b.p.Has(parts.KindTriSibling) {
		return nil
	}
	if b.o.UseHeadAutomata {
		return b.addHeadAutomata()
	}

	return b.addChains()
}

// addHeadAutomata routes every sibling-family part into a head automaton.
// Grandparent and grand-sibling parts go to grandparent automata, which also
// take the next-sibling parts of their head; tri-sibling parts go to trigram
// automata, which take the remaining next-sibling parts when present.
func (b *builder) addHeadAutomata() error {
	gpFamily := b.p.Has(parts.KindGrandparent) || b.p.Has(parts.KindGrandSibling)
	tri := b.p.Has(parts.KindTriSibling)

	var specs []*automatonSpec
	index := map[automatonKey]*automatonSpec{}
	get := func(head int, side parts.Side, kind automatonKind) *automatonSpec {
		key := automatonKey{head: head, side: side, kind: kind}
		if s, ok := index[key]; ok {
			return s
		}
		s := &automatonSpec{key: key, chain: b.newChain(head, side)}
		if kind == grandparentAutomaton {
			s.grandparents = b.heads(head)
		}
		index[key] = s
		specs = append(specs, s)

		return s
	}

	start, end := b.p.Range(parts.KindNextSibling)
	for i := start; i < end; i++ {
		part := b.p.At(i)
		ref := part.Modifier
		if ref == part.Head {
			ref = part.Sibling
		}
		kind := plainAutomaton
		switch {
		case gpFamily && part.Head > 0:
			kind = grandparentAutomaton
		case tri:
			kind = trigramAutomaton
		}
		s := get(part.Head, sideOf(part.Head, ref), kind)
		from, to, ok := s.chain.move(part.Modifier, part.Sibling)
		if !ok {
			continue
		}
		s.siblings = append(s.siblings, headautomaton.Transition{From: from, To: to, Index: s.slot(b, i)})
	}

	start, end = b.p.Range(parts.KindGrandparent)
	for i := start; i < end; i++ {
		part := b.p.At(i)
		s := get(part.Head, sideOf(part.Head, part.Modifier), grandparentAutomaton)
		gp := slices.Index(s.grandparents, part.Grandparent)
		to, ok := s.chain.modifier(part.Modifier)
		if gp < 0 || !ok {
			continue
		}
		s.gps = append(s.gps, headautomaton.GrandparentTerm{Grandparent: gp, To: to, Index: s.slot(b, i)})
	}

	start, end = b.p.Range(parts.KindGrandSibling)
	for i := start; i < end; i++ {
		part := b.p.At(i)
		ref := part.Modifier
		if ref == part.Head {
			ref = part.Sibling
		}
		s := get(part.Head, sideOf(part.Head, ref), grandparentAutomaton)
		gp := slices.Index(s.grandparents, part.Grandparent)
		from, to, ok := s.chain.move(part.Modifier, part.Sibling)
		if gp < 0 || !ok {
			continue
		}
		s.gss = append(s.gss, headautomaton.GrandSiblingTerm{Grandparent: gp, From: from, To: to, Index: s.slot(b, i)})
	}

	start, end = b.p.Range(parts.KindTriSibling)
	for i := start; i < end; i++ {
		part := b.p.At(i)
		s := get(part.Head, sideOf(part.Head, part.Sibling), trigramAutomaton)
		first, second, ok1 := s.chain.move(part.Modifier, part.Sibling)
		_, third, ok2 := s.chain.move(part.Sibling, part.OtherSibling)
		if !ok1 || !ok2 || second > len(s.chain.mods) {
			continue
		}
		s.tris = append(s.tris, headautomaton.TrigramTerm{First: first, Second: second, Third: third, Index: s.slot(b, i)})
	}

	for _, s := range specs {
		if err := b.attachAutomaton(s); err != nil {
			return err
		}
	}

	return nil
}

// attachAutomaton builds the solver of s and adds its factor. Automata
// without terms are skipped: the tree constraint alone already covers them.
func (b *builder) attachAutomaton(s *automatonSpec) error {
	if len(s.parts) == 0 {
		return nil
	}
	k := len(s.chain.mods)
	if k == 0 && s.key.kind != grandparentAutomaton {
		// No candidate modifiers: the chain is always start → end, and the
		// only terms that can be slotted are on that transition.
		for _, i := range s.parts {
			b.sources[i] = source{kind: fromOne}
		}

		return nil
	}
	vars := s.chain.vars(b)

	var solver headautomaton.Solver
	var err error
	switch s.key.kind {
	case plainAutomaton:
		solver, err = headautomaton.New(k, s.siblings)
	case grandparentAutomaton:
		solver, err = headautomaton.NewGrandparent(len(s.grandparents), k, s.siblings, s.gps, s.gss)
		incoming := make([]*factorgraph.Variable, len(s.grandparents))
		for i, g := range s.grandparents {
			incoming[i] = b.arc(g, s.key.head)
		}
		vars = append(incoming, vars...)
	case trigramAutomaton:
		solver, err = headautomaton.NewTrigram(k, s.siblings, s.tris)
	}
	if err != nil {
		return fmt.Errorf("%s: automaton of head %d (%s): %w", opBuild, s.key.head, s.key.side, err)
	}

	id, err := b.g.AddFactor(factorgraph.NewGeneric[headautomaton.Configuration](NewAutomatonFactor(solver)), vars, nil, s.additional)
	if err != nil {
		return fmt.Errorf("%s: %w", opBuild, err)
	}
	for slot, i := range s.parts {
		b.sources[i] = source{kind: fromAdditional, id: id, slot: slot}
	}

	return nil
}

// addChains encodes sibling-family parts without automata: every head and
// side gets explicit link variables c_{ij} ("position j follows position i
// in the chain"), tied to the arcs by XOR constraints, and the higher-order
// parts become Pair factors over links and arcs.
func (b *builder) addChains() error {
	type chainVars struct {
		chain *chain
		links []*factorgraph.Variable // links[i*(k+2)+j]
	}
	chains := map[[2]int]*chainVars{}
	var order []*chainVars

	link := func(cv *chainVars, i, j int) *factorgraph.Variable {
		return cv.links[i*(len(cv.chain.mods)+2)+j]
	}
	get := func(head int, side parts.Side) (*chainVars, error) {
		key := [2]int{head, int(side)}
		if cv, ok := chains[key]; ok {
			return cv, nil
		}
		c := b.newChain(head, side)
		k := len(c.mods)
		cv := &chainVars{chain: c, links: make([]*factorgraph.Variable, (k+2)*(k+2))}
		for i := 0; i <= k; i++ {
			for j := i + 1; j <= k+1; j++ {
				cv.links[i*(k+2)+j] = b.g.AddVariable(0)
			}
		}
		if err := b.linkChain(cv.chain, func(i, j int) *factorgraph.Variable { return link(cv, i, j) }); err != nil {
			return nil, err
		}
		chains[key] = cv
		order = append(order, cv)

		return cv, nil
	}

	// Next-sibling parts score the link variables directly.
	start, end := b.p.Range(parts.KindNextSibling)
	for i := start; i < end; i++ {
		part := b.p.At(i)
		ref := part.Modifier
		if ref == part.Head {
			ref = part.Sibling
		}
		cv, err := get(part.Head, sideOf(part.Head, ref))
		if err != nil {
			return err
		}
		from, to, ok := cv.chain.move(part.Modifier, part.Sibling)
		if !ok {
			continue
		}
		v := link(cv, from, to)
		v.SetScore(v.Score() + b.scores[i])
		b.sources[i] = source{kind: fromVariable, id: v.ID()}
	}

	start, end = b.p.Range(parts.KindGrandparent)
	for i := start; i < end; i++ {
		part := b.p.At(i)
		if err := b.addPair(i, b.arc(part.Grandparent, part.Head), b.arc(part.Head, part.Modifier)); err != nil {
			return err
		}
	}

	start, end = b.p.Range(parts.KindGrandSibling)
	for i := start; i < end; i++ {
		part := b.p.At(i)
		ref := part.Modifier
		if ref == part.Head {
			ref = part.Sibling
		}
		cv, err := get(part.Head, sideOf(part.Head, ref))
		if err != nil {
			return err
		}
		from, to, ok := cv.chain.move(part.Modifier, part.Sibling)
		if !ok {
			continue
		}
		if err = b.addPair(i, b.arc(part.Grandparent, part.Head), link(cv, from, to)); err != nil {
			return err
		}
	}

	start, end = b.p.Range(parts.KindTriSibling)
	for i := start; i < end; i++ {
		part := b.p.At(i)
		cv, err := get(part.Head, sideOf(part.Head, part.Sibling))
		if err != nil {
			return err
		}
		first, second, ok1 := cv.chain.move(part.Modifier, part.Sibling)
		_, third, ok2 := cv.chain.move(part.Sibling, part.OtherSibling)
		if !ok1 || !ok2 || second > len(cv.chain.mods) {
			continue
		}
		if err = b.addPair(i, link(cv, first, second), link(cv, second, third)); err != nil {
			return err
		}
	}

	b.o.Logger.Debug("depgraph: explicit chains", "chains", len(order))

	return nil
}

// linkChain ties the links of c to its arcs: the start has one successor,
// the end one predecessor, and a modifier has one predecessor and one
// successor exactly when its arc is selected.
func (b *builder) linkChain(c *chain, link func(i, j int) *factorgraph.Variable) error {
	k := len(c.mods)
	arcs := c.vars(b)

	var from, into []*factorgraph.Variable
	for j := 1; j <= k+1; j++ {
		from = append(from, link(0, j))
	}
	for i := 0; i <= k; i++ {
		into = append(into, link(i, k+1))
	}
	if _, err := b.g.AddXOR(from); err != nil {
		return err
	}
	if _, err := b.g.AddXOR(into); err != nil {
		return err
	}
	for j := 1; j <= k; j++ {
		var in, out []*factorgraph.Variable
		for i := 0; i < j; i++ {
			in = append(in, link(i, j))
		}
		for l := j + 1; l <= k+1; l++ {
			out = append(out, link(j, l))
		}
		if _, err := b.g.AddXOROut(in, arcs[j-1]); err != nil {
			return err
		}
		if _, err := b.g.AddXOROut(out, arcs[j-1]); err != nil {
			return err
		}
	}

	return nil
}

// addHeadBigrams handles HeadBigram parts, either with one SequenceFactor
// over all head choices or with a Pair per part.
func (b *builder) addHeadBigrams() error {
	if !b.p.Has(parts.KindHeadBigram) {
		return nil
	}
	start, end := b.p.Range(parts.KindHeadBigram)
	if !b.o.UseSequenceFactor {
		for i := start; i < end; i++ {
			part := b.p.At(i)
			if err := b.addPair(i, b.arc(part.Head, part.Modifier), b.arc(part.PrevHead, part.Modifier-1)); err != nil {
				return err
			}
		}

		return nil
	}

	// Words 1..n−1 become sequence positions 0..n−2.
	heads := make([][]int, b.n)
	candidates := make([]int, b.n-1)
	var vars []*factorgraph.Variable
	for m := 1; m < b.n; m++ {
		heads[m] = b.heads(m)
		candidates[m-1] = len(heads[m])
		for _, h := range heads[m] {
			vars = append(vars, b.arc(h, m))
		}
	}

	var terms []BigramTerm
	var additional []float64
	var slots []int
	for i := start; i < end; i++ {
		part := b.p.At(i)
		hi := slices.Index(heads[part.Modifier], part.Head)
		pi := slices.Index(heads[part.Modifier-1], part.PrevHead)
		if hi < 0 || pi < 0 {
			continue
		}
		terms = append(terms, BigramTerm{Word: part.Modifier - 1, Head: hi, PrevHead: pi, Index: len(additional)})
		additional = append(additional, b.scores[i])
		slots = append(slots, i)
	}
	if len(terms) == 0 {
		return nil
	}

	f, err := NewSequenceFactor(candidates, terms)
	if err != nil {
		return fmt.Errorf("%s: %w", opBuild, err)
	}
	id, err := b.g.AddFactor(factorgraph.NewGeneric[SequenceConfig](f), vars, nil, additional)
	if err != nil {
		return fmt.Errorf("%s: %w", opBuild, err)
	}
	for slot, i := range slots {
		b.sources[i] = source{kind: fromAdditional, id: id, slot: slot}
	}

	return nil
}
