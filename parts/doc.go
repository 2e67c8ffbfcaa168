// SPDX-License-Identifier: MIT

// Package parts models the candidate structural fragments ("parts") of one
// sentence and the indices the decoders use to find them.
//
// What & Why
//
//	A part is a scored fragment of a dependency tree: an arc, a labeled arc,
//	or a higher-order fragment (sibling pairs, grandparent chains, paths,
//	head bigrams...). The model layer enumerates the parts of a sentence,
//	scores them, and hands the decoder a read-only Parts collection together
//	with a score vector aligned with it.
//
//	Part is a closed tagged value type (Kind + index fields); Parts stores them
//	in a plain slice. Parts of one kind occupy a contiguous run, located by an
//	(offset, count) table built once by BuildOffsets. BuildIndices then adds
//	O(1) lookups by index tuple.
//
// Lifecycle:
//
//	p := parts.New(n)             // n = number of tokens including the root
//	p.Append(parts.Arc(0, 1))     // ... all arcs, then labeled arcs, siblings ...
//	p.BuildOffsets()              // freezes the collection
//	p.BuildIndices()              // lookups for the decoder
//
// Conventions:
//
//   - Node 0 is the artificial root; arcs into the root are rejected.
//   - NextSibling(h, m, s): s == -1 means m is the leftmost child of h,
//     s == n means m is the rightmost child; m == h marks the start of a
//     chain (s is the child closest to h on that side). GrandSibling and
//     TriSibling follow the same sentinel convention.
//
// Parts values are not safe for concurrent mutation; once BuildIndices has
// returned they may be shared read-only between goroutines.
package parts
