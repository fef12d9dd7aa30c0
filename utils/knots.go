package utils

import "sort"

// SegmentIndex returns the index i of the first knot with knots[i] >= t.
// Returns len(knots) if t is beyond the last knot.
//
// Curve knot times are strictly increasing, so this identifies the flat-forward
// segment (knots[i-1], knots[i]] containing t in O(log n).
func SegmentIndex(knots []float64, t float64) int {
	return sort.SearchFloat64s(knots, t)
}

// MergeKnots merges two sorted, strictly increasing knot slices into one sorted,
// deduplicated slice truncated to the open interval (lo, hi), with lo and hi
// added as endpoints. Used to build integration grids spanning both the
// discount and credit curve segments.
func MergeKnots(a, b []float64, lo, hi float64) []float64 {
	out := make([]float64, 0, len(a)+len(b)+2)
	out = append(out, lo)
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		var v float64
		switch {
		case i == len(a):
			v = b[j]
			j++
		case j == len(b):
			v = a[i]
			i++
		case a[i] < b[j]:
			v = a[i]
			i++
		case b[j] < a[i]:
			v = b[j]
			j++
		default:
			v = a[i]
			i++
			j++
		}
		if v <= lo {
			continue
		}
		if v >= hi {
			continue
		}
		if v > out[len(out)-1] {
			out = append(out, v)
		}
	}
	if hi > out[len(out)-1] {
		out = append(out, hi)
	}
	return out
}
