// SPDX-License-Identifier: MIT

// Package depgraph assembles the factor graph of a dependency parse from a
// collection of scored parts and solves it with package factorgraph.
//
// Variables
//
//	One binary variable per candidate arc. Auxiliary variables (next-sibling
//	chain links, flow and path indicators, non-projectivity indicators) are
//	added when a formulation needs them and are never part of the output
//	unless a part of the collection refers to them.
//
// Structure
//
//   - Tree formulation: a single TreeFactor (Chu–Liu/Edmonds, or Eisner when
//     projective) over all arc variables.
//   - Flow formulation, used whenever NonProjectiveArc or Path parts are
//     present: one XOR per modifier, and for every commodity k (a non-root
//     node) unit flow from the root to k that may only use active arcs.
//     Path variables π(a,d) record that flow of commodity d enters a.
//     Flow and path variables that the transitive closure of the candidate
//     arcs proves impossible are never created. With projective trees an arc
//     h→m implies π(h,j) for every j strictly between h and m; arcs whose
//     implication cannot hold are eliminated before solving.
//
// Higher-order parts
//
//   - NextSibling, Grandparent, GrandSibling and TriSibling parts go to head
//     automata (one per head and side): grandparent automata when
//     grandparent-family parts exist, trigram automata for trisiblings, plain
//     automata otherwise. With both families two automata share the arc
//     variables and next-sibling scores go to the grandparent automaton.
//   - Without head automata, next-sibling chains are explicit link variables
//     held together by XOR and XOR-with-output factors; grandsiblings and
//     trisiblings become Pair factors over links.
//   - Sibling parts, and grandparent parts no automaton absorbs, are Pair
//     factors.
//   - HeadBigram parts form a SequenceFactor (Viterbi over head choices) or,
//     when disabled, Pair factors.
//
// The output vector is aligned with the parts. Arcs and higher-order parts
// receive their beliefs; labeled arcs are left at 0 for the caller.
package depgraph
