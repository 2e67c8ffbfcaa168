// SPDX-License-Identifier: MIT

package numeric

// TransitiveClosure turns the square boolean adjacency matrix adj into its
// reachability matrix in place: afterwards adj[i][j] is true iff j can be
// reached from i through one or more arcs of the original matrix.
// The diagonal is left untouched unless a cycle passes through the vertex.
//
// Loop order is fixed (k → i → j) exactly as in a Floyd–Warshall sweep, so
// the result does not depend on scheduling or map iteration.
// Rows of unequal length make TransitiveClosure panic (programmer error).
//
// Complexity: O(n³) time, O(1) extra space.
func TransitiveClosure(adj [][]bool) {
	n := len(adj)
	for i := range adj {
		if len(adj[i]) != n {
			panic("numeric: TransitiveClosure: matrix is not square")
		}
	}

	var i, j, k int
	for k = 0; k < n; k++ { // intermediate vertex
		rowK := adj[k]
		for i = 0; i < n; i++ {
			if !adj[i][k] { // i cannot reach k: nothing to propagate
				continue
			}
			rowI := adj[i]
			for j = 0; j < n; j++ {
				if rowK[j] {
					rowI[j] = true
				}
			}
		}
	}
}
