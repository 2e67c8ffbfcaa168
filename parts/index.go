// SPDX-License-Identifier: MIT

package parts

import (
	"fmt"

	"github.com/katalvlaran/depdecode/numeric"
)

// BuildIndices builds every lookup table used by the decoders.
// Requires BuildOffsets (ErrNotBuilt otherwise); duplicate parts of one kind
// are rejected with ErrDuplicatePart. Calling it twice rebuilds the tables.
//
// Steps:
//  1. Arc table (dense n×n), candidate heads per modifier, candidate
//     modifiers per head and side ordered from the head outwards.
//  2. Labeled arcs grouped by (head, modifier).
//  3. Dense tables for non-projective arcs and paths.
//  4. Hash tables for the tuple-keyed higher-order kinds.
//
// Complexity: O(P + n²) time and memory for P parts and n nodes.
func (p *Parts) BuildIndices() error {
	if !p.built {
		return ErrNotBuilt
	}
	n := p.length

	// 1. Arcs.
	p.arcs = newDense(n)
	p.heads = make([][]int, n)
	p.modifiers = [2][][]int{make([][]int, n), make([][]int, n)}
	start, end := p.Range(KindArc)
	for i := start; i < end; i++ {
		a := p.items[i]
		if p.arcs[a.Head*n+a.Modifier] >= 0 {
			return duplicate(a)
		}
		p.arcs[a.Head*n+a.Modifier] = i
		p.heads[a.Modifier] = append(p.heads[a.Modifier], a.Head)
		side := Right
		if a.Modifier < a.Head {
			side = Left
		}
		p.modifiers[side][a.Head] = append(p.modifiers[side][a.Head], a.Modifier)
	}
	for h := 0; h < n; h++ {
		left, right := p.modifiers[Left][h], p.modifiers[Right][h]
		// Outwards from the head: descending on the left, ascending on the right.
		// Arcs usually arrive in node order, so the lists are nearly sorted.
		numeric.InsertionSortFunc(left, func(x, y int) bool { return x > y })
		numeric.InsertionSortFunc(right, func(x, y int) bool { return x < y })
	}

	// 2. Labeled arcs.
	p.labeled = make([][]int, n*n)
	start, end = p.Range(KindLabeledArc)
	for i := start; i < end; i++ {
		a := p.items[i]
		key := a.Head*n + a.Modifier
		for _, j := range p.labeled[key] {
			if p.items[j].Label == a.Label {
				return duplicate(a)
			}
		}
		p.labeled[key] = append(p.labeled[key], i)
	}

	// 3. Dense indicator tables.
	var err error
	if p.nonProjective, err = p.denseIndex(KindNonProjectiveArc); err != nil {
		return err
	}
	if p.paths, err = p.denseIndex(KindPath); err != nil {
		return err
	}

	// 4. Tuple-keyed kinds.
	if p.siblings, err = p.index3(KindSibling, func(a Part) [3]int { return siblingKey(a.Head, a.Modifier, a.Sibling) }); err != nil {
		return err
	}
	if p.nextSiblings, err = p.index3(KindNextSibling, func(a Part) [3]int { return [3]int{a.Head, a.Modifier, a.Sibling} }); err != nil {
		return err
	}
	if p.grandparents, err = p.index3(KindGrandparent, func(a Part) [3]int { return [3]int{a.Grandparent, a.Head, a.Modifier} }); err != nil {
		return err
	}
	if p.headBigrams, err = p.index3(KindHeadBigram, func(a Part) [3]int { return [3]int{a.Head, a.Modifier, a.PrevHead} }); err != nil {
		return err
	}
	if p.grandSiblings, err = p.index4(KindGrandSibling, func(a Part) [4]int { return [4]int{a.Grandparent, a.Head, a.Modifier, a.Sibling} }); err != nil {
		return err
	}
	if p.triSiblings, err = p.index4(KindTriSibling, func(a Part) [4]int { return [4]int{a.Head, a.Modifier, a.Sibling, a.OtherSibling} }); err != nil {
		return err
	}

	p.indexed = true

	return nil
}

func newDense(n int) []int {
	t := make([]int, n*n)
	for i := range t {
		t[i] = -1
	}

	return t
}

func duplicate(a Part) error {
	return fmt.Errorf("parts: BuildIndices: %s: %w", a, ErrDuplicatePart)
}

func (p *Parts) denseIndex(kind Kind) ([]int, error) {
	n := p.length
	t := newDense(n)
	start, end := p.Range(kind)
	for i := start; i < end; i++ {
		a := p.items[i]
		if t[a.Head*n+a.Modifier] >= 0 {
			return nil, duplicate(a)
		}
		t[a.Head*n+a.Modifier] = i
	}

	return t, nil
}

func (p *Parts) index3(kind Kind, key func(Part) [3]int) (map[[3]int]int, error) {
	start, end := p.Range(kind)
	t := make(map[[3]int]int, end-start)
	for i := start; i < end; i++ {
		k := key(p.items[i])
		if _, ok := t[k]; ok {
			return nil, duplicate(p.items[i])
		}
		t[k] = i
	}

	return t, nil
}

func (p *Parts) index4(kind Kind, key func(Part) [4]int) (map[[4]int]int, error) {
	start, end := p.Range(kind)
	t := make(map[[4]int]int, end-start)
	for i := start; i < end; i++ {
		k := key(p.items[i])
		if _, ok := t[k]; ok {
			return nil, duplicate(p.items[i])
		}
		t[k] = i
	}

	return t, nil
}

// FindArc returns the index of the arc head → modifier, or -1.
func (p *Parts) FindArc(head, modifier int) int {
	if !p.indexed || !p.inside(head) || !p.inside(modifier) {
		return -1
	}

	return p.arcs[head*p.length+modifier]
}

// FindLabeledArcs returns the indices of the labeled arcs head → modifier.
// The returned slice is shared; callers must not modify it.
func (p *Parts) FindLabeledArcs(head, modifier int) []int {
	if !p.indexed || !p.inside(head) || !p.inside(modifier) {
		return nil
	}

	return p.labeled[head*p.length+modifier]
}

// Heads returns the candidate heads of modifier in arc order (shared slice).
func (p *Parts) Heads(modifier int) []int {
	if !p.indexed || !p.inside(modifier) {
		return nil
	}

	return p.heads[modifier]
}

// Modifiers returns the candidate modifiers of head on side, ordered from the
// head outwards (shared slice).
func (p *Parts) Modifiers(head int, side Side) []int {
	if !p.indexed || !p.inside(head) {
		return nil
	}

	return p.modifiers[side][head]
}

// FindNonProjectiveArc returns the index of NonProjectiveArc(head, modifier), or -1.
func (p *Parts) FindNonProjectiveArc(head, modifier int) int {
	if !p.indexed || !p.inside(head) || !p.inside(modifier) {
		return -1
	}

	return p.nonProjective[head*p.length+modifier]
}

// FindPath returns the index of Path(ancestor, descendant), or -1.
func (p *Parts) FindPath(ancestor, descendant int) int {
	if !p.indexed || !p.inside(ancestor) || !p.inside(descendant) {
		return -1
	}

	return p.paths[ancestor*p.length+descendant]
}

// FindSibling returns the index of Sibling(head, modifier, sibling), or -1.
// The pair is unordered: Sibling(h, a, b) is found as (h, a, b) and (h, b, a).
func (p *Parts) FindSibling(head, modifier, sibling int) int {
	k := siblingKey(head, modifier, sibling)

	return lookup3(p.siblings, k[0], k[1], k[2])
}

// siblingKey puts the smaller modifier first.
func siblingKey(head, a, b int) [3]int {
	if b < a {
		a, b = b, a
	}

	return [3]int{head, a, b}
}

// FindNextSibling returns the index of NextSibling(head, modifier, next), or -1.
func (p *Parts) FindNextSibling(head, modifier, next int) int {
	return lookup3(p.nextSiblings, head, modifier, next)
}

// FindGrandparent returns the index of Grandparent(grandparent, head, modifier), or -1.
func (p *Parts) FindGrandparent(grandparent, head, modifier int) int {
	return lookup3(p.grandparents, grandparent, head, modifier)
}

// FindHeadBigram returns the index of HeadBigram(head, modifier, prevHead), or -1.
func (p *Parts) FindHeadBigram(head, modifier, prevHead int) int {
	return lookup3(p.headBigrams, head, modifier, prevHead)
}

// FindGrandSibling returns the index of GrandSibling(grandparent, head, modifier, next), or -1.
func (p *Parts) FindGrandSibling(grandparent, head, modifier, next int) int {
	return lookup4(p.grandSiblings, grandparent, head, modifier, next)
}

// FindTriSibling returns the index of TriSibling(head, modifier, sibling, other), or -1.
func (p *Parts) FindTriSibling(head, modifier, sibling, other int) int {
	return lookup4(p.triSiblings, head, modifier, sibling, other)
}

func (p *Parts) inside(i int) bool { return i >= 0 && i < p.length }

func lookup3(t map[[3]int]int, a, b, c int) int {
	if i, ok := t[[3]int{a, b, c}]; ok {
		return i
	}

	return -1
}

func lookup4(t map[[4]int]int, a, b, c, d int) int {
	if i, ok := t[[4]int{a, b, c, d}]; ok {
		return i
	}

	return -1
}
