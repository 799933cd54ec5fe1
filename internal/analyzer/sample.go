package analyzer

import "math/rand"

// Sample returns up to n elements of items drawn uniformly without
// replacement. When items fit (or n <= 0) they are returned unchanged.
func Sample[T any](items []T, n int, r *rand.Rand) []T {
	if n <= 0 || len(items) <= n {
		return items
	}
	out := make([]T, n)
	for i, j := range r.Perm(len(items))[:n] {
		out[i] = items[j]
	}
	return out
}
