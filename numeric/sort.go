// SPDX-License-Identifier: MIT

package numeric

// InsertionSort sorts a in ascending order in place.
// It is stable and runs in O(k + inversions), which beats the library sorts
// on the short, nearly sorted vectors the projections see between iterations.
func InsertionSort(a []float64) {
	for i := 1; i < len(a); i++ {
		v := a[i]
		j := i - 1
		for j >= 0 && a[j] > v {
			a[j+1] = a[j]
			j--
		}
		a[j+1] = v
	}
}

// InsertionSortFunc is the generic form of InsertionSort: it stably sorts a
// by the strict ordering less.
func InsertionSortFunc[T any](a []T, less func(x, y T) bool) {
	for i := 1; i < len(a); i++ {
		v := a[i]
		j := i - 1
		for j >= 0 && less(v, a[j]) {
			a[j+1] = a[j]
			j--
		}
		a[j+1] = v
	}
}
