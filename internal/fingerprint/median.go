package fingerprint

import "sort"

// Median returns the median of a multiset of bucket abundances: the
// middle value for an odd-sized multiset, or the average of the two
// middle values for an even-sized one. Sorting once and indexing the
// midpoint is simpler than an iterative below/equal/above selection
// search and costs nothing extra at these bucket sizes.
func Median(values []int64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]int64(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	n := len(sorted)
	mid := n / 2
	if n%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2.0
}
