// SPDX-License-Identifier: MIT

package parts

import (
	"errors"
	"fmt"
)

var (
	// ErrFrozen is returned by Append after BuildOffsets has run.
	ErrFrozen = errors.New("parts: collection is frozen")

	// ErrNotBuilt indicates that offsets were requested before BuildOffsets.
	ErrNotBuilt = errors.New("parts: offsets not built")

	// ErrNotIndexed indicates that a lookup was attempted before BuildIndices.
	ErrNotIndexed = errors.New("parts: indices not built")

	// ErrNonContiguous indicates that parts of one kind do not form a single run.
	ErrNonContiguous = errors.New("parts: kind appears in more than one run")

	// ErrBadPart indicates a node index outside the sentence (sentinels excepted).
	ErrBadPart = errors.New("parts: node index out of range")

	// ErrArcIntoRoot indicates an arc (or arc-like fragment) whose modifier is the root.
	ErrArcIntoRoot = errors.New("parts: arc into the root")

	// ErrDuplicatePart indicates two parts of the same kind with identical indices.
	ErrDuplicatePart = errors.New("parts: duplicate part")

	// ErrBadLength indicates a sentence length below 2 (root plus one token).
	ErrBadLength = errors.New("parts: sentence must contain the root and at least one token")
)

// Kind tags the fragment type of a Part.
type Kind int

const (
	// KindArc is an unlabeled arc head → modifier.
	KindArc Kind = iota
	// KindLabeledArc is an arc carrying a dependency label.
	KindLabeledArc
	// KindSibling is an unordered pair of modifiers of the same head.
	KindSibling
	// KindNextSibling links a modifier to its next child outward from the head.
	KindNextSibling
	// KindGrandparent is a chain grandparent → head → modifier.
	KindGrandparent
	// KindGrandSibling is a next-sibling pair conditioned on the head's head.
	KindGrandSibling
	// KindTriSibling is three consecutive children of one head.
	KindTriSibling
	// KindNonProjectiveArc indicates that an arc is non-projective.
	KindNonProjectiveArc
	// KindPath indicates that a node is an ancestor of another.
	KindPath
	// KindHeadBigram pairs the heads of two consecutive words.
	KindHeadBigram

	// NumKinds is the number of fragment kinds.
	NumKinds
)

var kindNames = [NumKinds]string{
	"Arc", "LabeledArc", "Sibling", "NextSibling", "Grandparent",
	"GrandSibling", "TriSibling", "NonProjectiveArc", "Path", "HeadBigram",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k < 0 || k >= NumKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}

	return kindNames[k]
}

// Part is one candidate fragment. Only the fields meaningful for Kind are
// set; the others are zero. Parts never carry scores or features.
//
// Field usage per kind:
//
//	Arc               Head, Modifier
//	LabeledArc        Head, Modifier, Label
//	Sibling           Head, Modifier, Sibling
//	NextSibling       Head, Modifier, Sibling
//	Grandparent       Grandparent, Head, Modifier
//	GrandSibling      Grandparent, Head, Modifier, Sibling
//	TriSibling        Head, Modifier, Sibling, OtherSibling
//	NonProjectiveArc  Head, Modifier
//	Path              Head (ancestor), Modifier (descendant)
//	HeadBigram        Head, Modifier, PrevHead (head of Modifier-1)
type Part struct {
	Kind         Kind
	Head         int
	Modifier     int
	Label        int
	Sibling      int
	OtherSibling int
	Grandparent  int
	PrevHead     int
}

// Arc builds an unlabeled arc part.
func Arc(head, modifier int) Part {
	return Part{Kind: KindArc, Head: head, Modifier: modifier}
}

// LabeledArc builds a labeled arc part.
func LabeledArc(head, modifier, label int) Part {
	return Part{Kind: KindLabeledArc, Head: head, Modifier: modifier, Label: label}
}

// Sibling builds an (unordered) sibling pair part.
func Sibling(head, modifier, sibling int) Part {
	return Part{Kind: KindSibling, Head: head, Modifier: modifier, Sibling: sibling}
}

// NextSibling builds a consecutive-sibling part (see package doc for sentinels).
func NextSibling(head, modifier, next int) Part {
	return Part{Kind: KindNextSibling, Head: head, Modifier: modifier, Sibling: next}
}

// Grandparent builds a grandparent part.
func Grandparent(grandparent, head, modifier int) Part {
	return Part{Kind: KindGrandparent, Grandparent: grandparent, Head: head, Modifier: modifier}
}

// GrandSibling builds a grand-sibling part.
func GrandSibling(grandparent, head, modifier, next int) Part {
	return Part{Kind: KindGrandSibling, Grandparent: grandparent, Head: head, Modifier: modifier, Sibling: next}
}

// TriSibling builds a tri-sibling part: modifier, sibling and other are three
// consecutive children of head (modifier may be head, other may be a sentinel).
func TriSibling(head, modifier, sibling, other int) Part {
	return Part{Kind: KindTriSibling, Head: head, Modifier: modifier, Sibling: sibling, OtherSibling: other}
}

// NonProjectiveArc builds a non-projectivity indicator for the arc head → modifier.
func NonProjectiveArc(head, modifier int) Part {
	return Part{Kind: KindNonProjectiveArc, Head: head, Modifier: modifier}
}

// Path builds an ancestor → descendant indicator.
func Path(ancestor, descendant int) Part {
	return Part{Kind: KindPath, Head: ancestor, Modifier: descendant}
}

// HeadBigram builds a head-bigram part: head of modifier is head and head of
// modifier-1 is prevHead.
func HeadBigram(head, modifier, prevHead int) Part {
	return Part{Kind: KindHeadBigram, Head: head, Modifier: modifier, PrevHead: prevHead}
}

// String implements fmt.Stringer.
func (p Part) String() string {
	switch p.Kind {
	case KindArc, KindNonProjectiveArc, KindPath:
		return fmt.Sprintf("%s(%d,%d)", p.Kind, p.Head, p.Modifier)
	case KindLabeledArc:
		return fmt.Sprintf("%s(%d,%d,%d)", p.Kind, p.Head, p.Modifier, p.Label)
	case KindSibling, KindNextSibling:
		return fmt.Sprintf("%s(%d,%d,%d)", p.Kind, p.Head, p.Modifier, p.Sibling)
	case KindGrandparent:
		return fmt.Sprintf("%s(%d,%d,%d)", p.Kind, p.Grandparent, p.Head, p.Modifier)
	case KindGrandSibling:
		return fmt.Sprintf("%s(%d,%d,%d,%d)", p.Kind, p.Grandparent, p.Head, p.Modifier, p.Sibling)
	case KindTriSibling:
		return fmt.Sprintf("%s(%d,%d,%d,%d)", p.Kind, p.Head, p.Modifier, p.Sibling, p.OtherSibling)
	case KindHeadBigram:
		return fmt.Sprintf("%s(%d,%d,%d)", p.Kind, p.Head, p.Modifier, p.PrevHead)
	default:
		return p.Kind.String()
	}
}

// Side selects the modifiers to the left or to the right of a head.
type Side int

const (
	// Left modifiers precede the head.
	Left Side = iota
	// Right modifiers follow the head.
	Right
)

// String implements fmt.Stringer.
func (s Side) String() string {
	if s == Left {
		return "left"
	}

	return "right"
}

// span is one row of the offset table.
type span struct {
	start, count int
}
