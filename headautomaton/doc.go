// SPDX-License-Identifier: MIT

// Package headautomaton implements the dynamic programs that select the
// modifiers of one head on one side, scoring consecutive modifiers jointly.
//
// Positions
//
//	The k candidate modifiers are numbered 1..k from the head outwards.
//	Position 0 is the start-of-chain state and position k+1 the end state.
//	A configuration lists the accepted positions in increasing order; the
//	grandparent variant prepends the index of the chosen grandparent.
//
// Solvers
//
//   - Automaton: transition i→j scores arc(j) + sibling(i,j). O(k²).
//   - GrandparentAutomaton: additionally picks one incoming arc g of the head
//     and adds grandparent(g,j) and grandsibling(g,i,j) terms. O(g·k²); only
//     the winning grandparent's chain is backtracked.
//   - TrigramAutomaton: states are the last two accepted positions, adding
//     trisibling(i,j,l) terms. O(k³).
//
// Missing higher-order terms score 0, so every transition is always allowed;
// without any higher-order term the best chain takes exactly the positive
// arcs.
//
// Every solver implements Solver, the contract used by the generic factors
// of package factorgraph: Maximize, Evaluate, AddPosterior and CountCommon.
package headautomaton
