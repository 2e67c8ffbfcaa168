// SPDX-License-Identifier: MIT

// Package decoder turns scored part collections into dependency trees.
//
// A Decoder offers three training-facing operations on top of plain MAP
// decoding:
//
//   - Decode: the highest-scoring tree. Arc-factored collections go to the
//     exact tree solver (Chu–Liu/Edmonds, or Eisner for projective trees);
//     anything with higher-order parts goes through the factor graph of
//     package depgraph, whose output may be fractional.
//   - DecodeCostAugmented: MAP under scores perturbed by a Hamming cost
//     against a gold output, returning the realised cost and the margin
//     loss.
//   - DecodeMarginals: arc marginals of the Gibbs distribution over trees
//     (Matrix-Tree theorem), with entropy and log-likelihood loss. Only
//     arc-factored, non-projective models are supported.
//
// Labels are decoupled from structure. For MAP each arc takes its best label
// (first maximum), whose score is added to the arc before structural
// decoding; the chosen label inherits the arc's value afterwards. For
// marginals each arc gets a softmax over its labels, the log-sum-exp is
// folded into the arc score, and a labeled arc's marginal is its label
// probability times the arc marginal. With higher-order parts the MAP
// decoupling is an approximation.
//
// Contract violations (missing arcs, empty label sets, unbuilt collections,
// misaligned vectors) are returned as errors. Losses and entropies that
// drift below zero through rounding are clamped to zero and logged.
//
// A DependencyDecoder holds only read-only configuration and is safe for
// concurrent use.
package decoder
