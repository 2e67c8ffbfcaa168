// SPDX-License-Identifier: MIT

package arborescence

// IsTree reports whether heads encodes a tree rooted at node 0:
// heads[0] == -1, every other head is a node index, and following heads from
// any node reaches the root without revisiting a node.
// Complexity: O(n) amortised.
func IsTree(heads []int) bool {
	n := len(heads)
	if n == 0 || heads[0] != -1 {
		return false
	}
	for m := 1; m < n; m++ {
		if heads[m] < 0 || heads[m] >= n || heads[m] == m {
			return false
		}
	}

	// 0 unknown, 1 on the current walk, 2 known to reach the root.
	state := make([]uint8, n)
	state[0] = 2
	for start := 1; start < n; start++ {
		var path []int
		v := start
		for state[v] == 0 {
			state[v] = 1
			path = append(path, v)
			v = heads[v]
		}
		if state[v] == 1 {
			return false
		}
		for _, u := range path {
			state[u] = 2
		}
	}

	return true
}

// IsProjective reports whether the tree in heads has no crossing arcs, i.e.
// every node strictly between a head and its modifier descends from the head.
// heads must satisfy IsTree.
// Complexity: O(n²).
func IsProjective(heads []int) bool {
	for m := 1; m < len(heads); m++ {
		h := heads[m]
		lo, hi := h, m
		if lo > hi {
			lo, hi = hi, lo
		}
		for j := lo + 1; j < hi; j++ {
			if !Descends(heads, h, j) {
				return false
			}
		}
	}

	return true
}

// Descends reports whether node d lies in the subtree of ancestor a
// (a node descends from itself). heads must satisfy IsTree.
func Descends(heads []int, a, d int) bool {
	for v := d; v >= 0; v = heads[v] {
		if v == a {
			return true
		}
	}

	return false
}
