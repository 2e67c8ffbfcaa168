// SPDX-License-Identifier: MIT

package parts

import (
	"fmt"
)

// Parts is the append-only, kind-partitioned collection of candidate parts of
// one sentence.
type Parts struct {
	length  int    // number of nodes including the root
	items   []Part // all parts, runs of equal Kind
	offsets [NumKinds]span
	built   bool // BuildOffsets has run; Append is closed
	indexed bool // BuildIndices has run

	arcs          []int   // arcs[h*length+m] = index or -1
	labeled       [][]int // labeled[h*length+m] = labeled-arc indices in label order of appearance
	heads         [][]int // heads[m] = candidate heads in arc order
	modifiers     [2][][]int
	nonProjective []int // nonProjective[h*length+m] = index or -1
	paths         []int // paths[a*length+d] = index or -1
	siblings      map[[3]int]int
	nextSiblings  map[[3]int]int
	grandparents  map[[3]int]int
	grandSiblings map[[4]int]int
	triSiblings   map[[4]int]int
	headBigrams   map[[3]int]int
}

// New creates an empty collection for a sentence of length nodes (the root
// counts as node 0). Returns ErrBadLength when length < 2.
func New(length int) (*Parts, error) {
	if length < 2 {
		return nil, fmt.Errorf("parts: New(%d): %w", length, ErrBadLength)
	}

	return &Parts{length: length}, nil
}

// Length returns the number of nodes including the root.
func (p *Parts) Length() int { return p.length }

// Len returns the number of parts.
func (p *Parts) Len() int { return len(p.items) }

// At returns the i-th part. Panics on out-of-range i like a slice index.
func (p *Parts) At(i int) Part { return p.items[i] }

// Append validates part and appends it, returning its index.
//
// Errors:
//   - ErrFrozen      : BuildOffsets has already run.
//   - ErrBadPart     : a node index lies outside the sentence (sentinels excepted),
//     or an arc is a self-loop.
//   - ErrArcIntoRoot : an arc-like part has the root as modifier.
func (p *Parts) Append(part Part) (int, error) {
	if p.built {
		return -1, ErrFrozen
	}
	if err := p.validate(part); err != nil {
		return -1, fmt.Errorf("parts: Append(%s): %w", part, err)
	}
	p.items = append(p.items, part)

	return len(p.items) - 1, nil
}

// validate checks the index fields of part against the sentence length.
func (p *Parts) validate(part Part) error {
	n := p.length
	node := func(i int) bool { return i >= 0 && i < n }
	sentinel := func(i int) bool { return i >= -1 && i <= n }
	child := func(i int) bool { return i >= 1 && i < n }

	switch part.Kind {
	case KindArc, KindLabeledArc, KindNonProjectiveArc:
		if part.Modifier == 0 {
			return ErrArcIntoRoot
		}
		if !node(part.Head) || !child(part.Modifier) || part.Head == part.Modifier {
			return ErrBadPart
		}
		if part.Kind == KindLabeledArc && part.Label < 0 {
			return ErrBadPart
		}
	case KindSibling:
		if !node(part.Head) || !child(part.Modifier) || !child(part.Sibling) || part.Modifier == part.Sibling {
			return ErrBadPart
		}
	case KindNextSibling:
		if !node(part.Head) || !node(part.Modifier) || !sentinel(part.Sibling) {
			return ErrBadPart
		}
	case KindGrandparent:
		if part.Head == 0 || part.Modifier == 0 {
			return ErrArcIntoRoot
		}
		if !node(part.Grandparent) || !child(part.Head) || !child(part.Modifier) {
			return ErrBadPart
		}
	case KindGrandSibling:
		if part.Head == 0 {
			return ErrArcIntoRoot
		}
		if !node(part.Grandparent) || !child(part.Head) || !node(part.Modifier) || !sentinel(part.Sibling) {
			return ErrBadPart
		}
	case KindTriSibling:
		if !node(part.Head) || !node(part.Modifier) || !child(part.Sibling) || !sentinel(part.OtherSibling) {
			return ErrBadPart
		}
	case KindPath:
		if part.Modifier == 0 {
			return ErrArcIntoRoot
		}
		if !node(part.Head) || !child(part.Modifier) || part.Head == part.Modifier {
			return ErrBadPart
		}
	case KindHeadBigram:
		if !node(part.Head) || !node(part.PrevHead) || part.Modifier < 2 || part.Modifier >= n {
			return ErrBadPart
		}
	default:
		return ErrBadPart
	}

	return nil
}

// BuildOffsets freezes the collection and computes the (offset, count) run of
// every kind. Kinds absent from the collection get count 0.
// Returns ErrNonContiguous when a kind appears in two separate runs.
// Complexity: O(P) for P parts.
func (p *Parts) BuildOffsets() error {
	var seen [NumKinds]bool
	for k := range p.offsets {
		p.offsets[k] = span{start: len(p.items), count: 0}
	}

	prev := Kind(-1)
	for i, part := range p.items {
		if part.Kind != prev {
			if seen[part.Kind] {
				return fmt.Errorf("parts: BuildOffsets: %s at %d: %w", part.Kind, i, ErrNonContiguous)
			}
			seen[part.Kind] = true
			p.offsets[part.Kind].start = i
			prev = part.Kind
		}
		p.offsets[part.Kind].count++
	}
	p.built = true

	return nil
}

// Built reports whether BuildOffsets has run.
func (p *Parts) Built() bool { return p.built }

// Indexed reports whether BuildIndices has run.
func (p *Parts) Indexed() bool { return p.indexed }

// Offset returns the run of kind as (start, count).
// Returns ErrNotBuilt before BuildOffsets.
func (p *Parts) Offset(kind Kind) (start, count int, err error) {
	if !p.built {
		return 0, 0, ErrNotBuilt
	}
	s := p.offsets[kind]

	return s.start, s.count, nil
}

// Range returns the half-open index interval [start, end) of kind, or an
// empty interval before BuildOffsets.
func (p *Parts) Range(kind Kind) (start, end int) {
	if !p.built {
		return 0, 0
	}
	s := p.offsets[kind]

	return s.start, s.start + s.count
}

// Has reports whether at least one part of kind exists.
func (p *Parts) Has(kind Kind) bool {
	return p.built && p.offsets[kind].count > 0
}

// ArcFactored reports whether the collection holds only arcs and labeled arcs.
func (p *Parts) ArcFactored() bool {
	for k := KindSibling; k < NumKinds; k++ {
		if p.Has(k) {
			return false
		}
	}

	return true
}
