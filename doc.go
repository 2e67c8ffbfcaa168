// Package depdecode is a structured-prediction decoder for dependency trees:
// given scored candidate parts of one sentence it finds the best tree, the
// cost-augmented best tree, or the marginals of the tree distribution.
//
// What is inside?
//
//	• Part model: a typed, offset-indexed collection of arcs, labeled arcs,
//	  siblings, grandparents, grand-siblings, tri-siblings, non-projective
//	  arc indicators, ancestor paths and head bigrams
//	• Exact trees: Chu–Liu/Edmonds maximum arborescence, Eisner for
//	  projective trees
//	• Marginals: Matrix-Tree theorem in log-magnitude arithmetic
//	• Head automata: plain, grandparent and trigram chain DPs
//	• AD3: a dual-decomposition consensus solver with logic factors and an
//	  active-set QP for generic factors
//	• Assembly: tree or multi-commodity flow formulations, head automata or
//	  explicit sibling chains, head-bigram sequence factor
//
// Everything is organized in flat subpackages:
//
//	numeric/      : simplex, budget and cone projections; transitive closure
//	logmath/      : (log|x|, sign) values and dense LU
//	parts/        : Part, Parts, BuildOffsets, BuildIndices, lookups
//	arborescence/ : ChuLiuEdmonds, Eisner, tree predicates
//	matrixtree/   : arc marginals, log-partition, entropy
//	headautomaton/: per-head chain solvers
//	factorgraph/  : Graph, XOR/AtMostOne/Imply/Pair, Generic, Solve
//	depgraph/     : dependency factors and factor-graph assembly
//	decoder/      : Decode, DecodeCostAugmented, DecodeMarginals
//
// Quick example (root, 1, 2):
//
//	       5          3
//	  [0] ───▶ [1] ───▶ [2]      best tree, value 8
//	   └───────────────▶
//	           1
//
// Runnable demos live in examples/.
package depdecode
