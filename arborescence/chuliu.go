// SPDX-License-Identifier: MIT

package arborescence

import (
	"log/slog"
)

// candidate is one incoming arc at a given recursion level.
// head is expressed in the level's node numbering; arc is the index of the
// input arc it stands for, which never changes across levels.
type candidate struct {
	head  int
	arc   int
	score float64
}

// ChuLiuEdmonds returns the maximum-scoring arborescence rooted at node 0 over
// the candidate arcs, using slog.Default() for diagnostics.
//
// Steps:
//  1. Validate input (see package errors).
//  2. Build per-node incoming candidate lists in arc order.
//  3. Solve recursively (see solveLevel) and map the chosen arcs back.
//  4. Value = Σ scores of the chosen arcs.
//
// Complexity: O(n·(n + A)) time for A arcs, O(n + A) memory per level.
func ChuLiuEdmonds(n int, arcs []Arc, scores []float64) (Solution, error) {
	return chuLiuEdmonds(n, arcs, scores, slog.Default())
}

func chuLiuEdmonds(n int, arcs []Arc, scores []float64, logger *slog.Logger) (Solution, error) {
	// 1. Validate.
	if err := validate(n, arcs, scores); err != nil {
		return Solution{}, err
	}

	// 2. Incoming candidates.
	in := make([][]candidate, n)
	for i, a := range arcs {
		in[a.Modifier] = append(in[a.Modifier], candidate{head: a.Head, arc: i, score: scores[i]})
	}

	// 3. Recursive solve.
	s := &solver{numArcs: len(arcs), logger: logger}
	chosen, err := s.solveLevel(n, in, 0)
	if err != nil {
		return Solution{}, err
	}

	// 4. Assemble.
	sol := Solution{
		Heads:    make([]int, n),
		Selected: make([]int, n),
	}
	sol.Heads[0], sol.Selected[0] = -1, -1
	for m := 1; m < n; m++ {
		a := chosen[m].arc
		sol.Selected[m] = a
		sol.Heads[m] = arcs[a].Head
		sol.Value += scores[a]
	}

	return sol, nil
}

type solver struct {
	numArcs int
	logger  *slog.Logger
}

// solveLevel returns, for every non-root node of this level, the chosen
// incoming candidate (heads in this level's numbering).
//
// Steps:
//  1. Greedy: best incoming candidate per node (first maximum wins).
//  2. Cycle search over the greedy choice; none means the choice is optimal.
//  3. Contract the cycle C into a fresh node c:
//     - u→v with u∉C, v∉C   keeps its score;
//     - u→v with u∈C, v∉C   becomes c→v (best such arc per v);
//     - u→v with u∉C, v∈C   becomes u→c, scored s(u,v) − s(best(v)).
//  4. Recurse on the contracted graph.
//  5. Expand: the arc chosen into c breaks the cycle at its target; every
//     other cycle node keeps its greedy arc.
func (s *solver) solveLevel(n int, in [][]candidate, depth int) ([]candidate, error) {
	// 1. Greedy choice.
	best := make([]candidate, n)
	best[0] = candidate{head: -1, arc: -1}
	for v := 1; v < n; v++ {
		if len(in[v]) == 0 {
			if depth == 0 {
				return nil, ErrNoCandidateHead
			}

			return nil, ErrDisconnected
		}
		b := in[v][0]
		for _, c := range in[v][1:] {
			if c.score > b.score {
				b = c
			}
		}
		best[v] = b
	}

	// 2. Cycle search.
	cycle := findCycle(n, best)
	if cycle == nil {
		return best, nil
	}

	// 3. Contraction.
	inCycle := make([]bool, n)
	for _, v := range cycle {
		inCycle[v] = true
	}
	index := make([]int, n) // old node -> new node
	next := 0
	for v := 0; v < n; v++ {
		if !inCycle[v] {
			index[v] = next
			next++
		}
	}
	c := next
	for _, v := range cycle {
		index[v] = c
	}
	newN := c + 1

	enters := make(map[int]int, len(cycle)) // arc id -> cycle node it enters
	origin := make([]candidate, s.numArcs)  // arc id -> this level's candidate
	contracted := make([][]candidate, newN)
	for v := 1; v < n; v++ {
		for _, cand := range in[v] {
			u := cand.head
			switch {
			case !inCycle[u] && !inCycle[v]:
				origin[cand.arc] = cand
				contracted[index[v]] = append(contracted[index[v]], candidate{head: index[u], arc: cand.arc, score: cand.score})
			case inCycle[u] && !inCycle[v]:
				origin[cand.arc] = cand
				list := contracted[index[v]]
				replaced := false
				for i := range list {
					if list[i].head == c {
						if cand.score > list[i].score {
							list[i] = candidate{head: c, arc: cand.arc, score: cand.score}
						}
						replaced = true

						break
					}
				}
				if !replaced {
					contracted[index[v]] = append(list, candidate{head: c, arc: cand.arc, score: cand.score})
				}
			case !inCycle[u] && inCycle[v]:
				origin[cand.arc] = cand
				enters[cand.arc] = v
				contracted[c] = append(contracted[c], candidate{head: index[u], arc: cand.arc, score: cand.score - best[v].score})
			}
			// u∈C, v∈C: internal arc, dropped.
		}
	}
	s.logger.Debug("arborescence: contracting cycle",
		slog.Int("depth", depth), slog.Int("nodes", n), slog.Any("cycle", cycle))

	// 4. Recurse.
	sub, err := s.solveLevel(newN, contracted, depth+1)
	if err != nil {
		return nil, err
	}

	// 5. Expand.
	result := make([]candidate, n)
	result[0] = best[0]
	for v := 1; v < n; v++ {
		if !inCycle[v] {
			result[v] = origin[sub[index[v]].arc]
		}
	}
	entry := sub[c].arc
	broken := enters[entry]
	for _, v := range cycle {
		if v == broken {
			result[v] = origin[entry]
		} else {
			result[v] = best[v]
		}
	}

	return result, nil
}

// findCycle follows the greedy heads from every node and returns the first
// cycle met, in walk order, or nil. The root has no head and ends every walk.
func findCycle(n int, best []candidate) []int {
	const (
		unvisited = 0
		onPath    = 1
		done      = 2
	)
	state := make([]uint8, n)
	state[0] = done
	for start := 1; start < n; start++ {
		if state[start] != unvisited {
			continue
		}
		var path []int
		v := start
		for state[v] == unvisited {
			state[v] = onPath
			path = append(path, v)
			v = best[v].head
		}
		if state[v] == onPath {
			// v closes the cycle; it starts where v first appears on the path.
			for i, u := range path {
				if u == v {
					return append([]int(nil), path[i:]...)
				}
			}
		}
		for _, u := range path {
			state[u] = done
		}
	}

	return nil
}
