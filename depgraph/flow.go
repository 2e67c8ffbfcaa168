// SPDX-License-Identifier: MIT

package depgraph

import (
	"fmt"

	"github.com/katalvlaran/depdecode/factorgraph"
	"github.com/katalvlaran/depdecode/numeric"
	"github.com/katalvlaran/depdecode/parts"
)

// reachability returns the transitive closure of the surviving arcs:
// reach[a][d] is true iff some directed path of length ≥ 1 leads from a to d.
func (b *builder) reachability() [][]bool {
	n := b.n
	reach := make([][]bool, n)
	for h := range reach {
		reach[h] = make([]bool, n)
		for m := 0; m < n; m++ {
			reach[h][m] = b.alive[h*n+m]
		}
	}
	numeric.TransitiveClosure(reach)

	return reach
}

// eliminateNonProjectiveArcs drops every arc (h, m) that would need h to
// dominate a word strictly between h and m that h cannot reach. Removal can
// break further reachability, so the sweep repeats until nothing changes.
// Returns ErrNoTree when a word loses all of its heads.
func (b *builder) eliminateNonProjectiveArcs() error {
	n := b.n
	for changed := true; changed; {
		changed = false
		reach := b.reachability()
		for h := 0; h < n; h++ {
			for m := 1; m < n; m++ {
				if !b.alive[h*n+m] {
					continue
				}
				lo, hi := span(h, m)
				for j := lo + 1; j < hi; j++ {
					if !reach[h][j] {
						b.alive[h*n+m] = false
						changed = true

						break
					}
				}
			}
		}
	}
	for m := 1; m < n; m++ {
		alive := false
		for h := 0; h < n && !alive; h++ {
			alive = b.alive[h*n+m]
		}
		if !alive {
			return fmt.Errorf("%s: node %d: %w", opBuild, m, ErrNoTree)
		}
	}

	return nil
}

func span(h, m int) (lo, hi int) {
	if h < m {
		return h, m
	}

	return m, h
}

// addFlow attaches the multi-commodity flow formulation.
//
// Every word k ≥ 1 is a commodity; one unit of it leaves the root and is
// consumed at k. Flow variable f^k_{hm} carries commodity k on arc (h, m);
// path variable π_{jk} says that word j is a proper ancestor of k, which is
// exactly when commodity k passes through j.
//
// Steps:
//  1. Each word has exactly one head (XOR over its incoming arcs).
//  2. Path variables, only where the closure allows them.
//  3. Flow variables, only on arcs that can lie on a root→k path.
//  4. Conservation per commodity: one unit leaves the root, one unit enters
//     k, and every other node passes on what it receives (= π_{jk}).
//  5. Flow needs the arc: z_{hm} ≥ f^k_{hm} for every k.
//  6. Non-projective arc indicators, or the projectivity implications when
//     only projective trees are allowed.
func (b *builder) addFlow() error {
	n := b.n
	g := b.g
	reach := b.reachability()

	// 1. One head per word.
	for m := 1; m < n; m++ {
		var in []*factorgraph.Variable
		for _, h := range b.heads(m) {
			in = append(in, b.arc(h, m))
		}
		if len(in) == 0 {
			return fmt.Errorf("%s: node %d: %w", opBuild, m, ErrNoTree)
		}
		if _, err := g.AddXOR(in); err != nil {
			return err
		}
	}

	// 2. Paths.
	path := make([]*factorgraph.Variable, n*n)
	for a := 1; a < n; a++ {
		for d := 1; d < n; d++ {
			if a == d || !reach[a][d] {
				continue
			}
			score := 0.0
			if i := b.p.FindPath(a, d); i >= 0 {
				score = b.scores[i]
			}
			path[a*n+d] = g.AddVariable(score)
		}
	}
	start, end := b.p.Range(parts.KindPath)
	for i := start; i < end; i++ {
		part := b.p.At(i)
		switch {
		case part.Head == 0 && reach[0][part.Modifier]:
			b.sources[i] = source{kind: fromOne}
		case part.Head > 0 && path[part.Head*n+part.Modifier] != nil:
			b.sources[i] = source{kind: fromVariable, id: path[part.Head*n+part.Modifier].ID()}
		}
	}

	// 3–4. Flows and conservation, one commodity at a time.
	carriers := make([][]*factorgraph.Variable, n*n) // flows per arc
	for k := 1; k < n; k++ {
		flow := make([]*factorgraph.Variable, n*n)
		in := make([][]*factorgraph.Variable, n)
		out := make([][]*factorgraph.Variable, n)
		for h := 0; h < n; h++ {
			if h == k || (h > 0 && !reach[0][h]) {
				continue
			}
			for m := 1; m < n; m++ {
				if !b.alive[h*n+m] || (m != k && !reach[m][k]) {
					continue
				}
				f := g.AddVariable(0)
				flow[h*n+m] = f
				out[h] = append(out[h], f)
				in[m] = append(in[m], f)
				carriers[h*n+m] = append(carriers[h*n+m], f)
			}
		}
		if len(out[0]) == 0 || len(in[k]) == 0 {
			return fmt.Errorf("%s: node %d unreachable: %w", opBuild, k, ErrNoTree)
		}
		if _, err := g.AddXOR(out[0]); err != nil {
			return err
		}
		if _, err := g.AddXOR(in[k]); err != nil {
			return err
		}
		for j := 1; j < n; j++ {
			pi := path[j*n+k]
			if j == k || pi == nil {
				continue
			}
			if _, err := g.AddXOROut(in[j], pi); err != nil {
				return err
			}
			if _, err := g.AddXOROut(out[j], pi); err != nil {
				return err
			}
		}
	}

	// 5. Flow only on selected arcs.
	for key, fs := range carriers {
		if len(fs) == 0 {
			continue
		}
		if _, err := g.AddImply(b.arcVar[key], fs); err != nil {
			return err
		}
	}

	// 6. Non-projectivity.
	if b.o.Projective {
		return b.addProjectivity(path)
	}

	return b.addNonProjectiveArcs(path)
}

// addNonProjectiveArcs gives every NonProjectiveArc part its indicator:
// np = z_{hm} ∧ ¬(∧_j π_{hj}) over the words j strictly between h and m.
// The root dominates every word, so its π terms are always on.
func (b *builder) addNonProjectiveArcs(path []*factorgraph.Variable) error {
	n := b.n
	start, end := b.p.Range(parts.KindNonProjectiveArc)
	for i := start; i < end; i++ {
		part := b.p.At(i)
		z := b.arc(part.Head, part.Modifier)
		if z == nil {
			continue
		}
		np := b.g.AddVariable(b.scores[i])
		b.sources[i] = source{kind: fromVariable, id: np.ID()}

		var spanned []*factorgraph.Variable
		impossible := false
		lo, hi := span(part.Head, part.Modifier)
		for j := lo + 1; j < hi && part.Head > 0; j++ {
			pi := path[part.Head*n+j]
			if pi == nil {
				impossible = true

				break
			}
			spanned = append(spanned, pi)
		}

		var err error
		if impossible {
			// Some spanned word can never descend from the head: np = z.
			_, err = b.g.AddXOROut([]*factorgraph.Variable{z}, np)
		} else {
			vars := append([]*factorgraph.Variable{z}, spanned...)
			vars = append(vars, np)
			_, err = b.g.AddFactor(factorgraph.NewGeneric[NPConfig](NewNPFactor(len(spanned))), vars, nil, nil)
		}
		if err != nil {
			return fmt.Errorf("%s: %s: %w", opBuild, part, err)
		}
	}

	return nil
}

// addProjectivity forces every selected arc (h, m), h ≥ 1, to dominate the
// words it spans: π_{hj} ≥ z_{hm}. Elimination has already guaranteed that
// the needed path variables exist. NonProjectiveArc parts stay at 0.
func (b *builder) addProjectivity(path []*factorgraph.Variable) error {
	n := b.n
	premises := make([][]*factorgraph.Variable, n*n)
	for h := 1; h < n; h++ {
		for m := 1; m < n; m++ {
			z := b.arc(h, m)
			if z == nil {
				continue
			}
			lo, hi := span(h, m)
			for j := lo + 1; j < hi; j++ {
				premises[h*n+j] = append(premises[h*n+j], z)
			}
		}
	}
	for key, zs := range premises {
		if len(zs) == 0 {
			continue
		}
		if path[key] == nil {
			return fmt.Errorf("%s: %w", opBuild, ErrNoTree)
		}
		if _, err := b.g.AddImply(path[key], zs); err != nil {
			return err
		}
	}

	return nil
}
