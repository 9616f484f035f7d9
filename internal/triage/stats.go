package triage

import (
	"math"
	"sort"

	"golang.org/x/exp/constraints"
)

// mean returns the arithmetic mean of vs, NaN for an empty slice.
func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// stddev returns the standard deviation of vs. The sample form (n-1
// denominator) needs at least two values; the population form needs one.
func stddev(vs []float64, population bool) float64 {
	n := len(vs)
	if n == 0 || (!population && n < 2) {
		return math.NaN()
	}

	m := mean(vs)
	sum := 0.0
	for _, v := range vs {
		d := v - m
		sum += d * d
	}

	denom := float64(n - 1)
	if population {
		denom = float64(n)
	}
	return math.Sqrt(sum / denom)
}

// percentile returns the p-th percentile (0-100) of vs using linear
// interpolation between closest ranks. vs does not need to be sorted.
func percentile(vs []float64, p float64) float64 {
	if len(vs) == 0 {
		return math.NaN()
	}

	sorted := make([]float64, len(vs))
	copy(sorted, vs)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}

	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// extremes returns the minimum and maximum of vs.
func extremes[T constraints.Ordered](vs []T) (T, T) {
	var lo, hi T
	if len(vs) == 0 {
		return lo, hi
	}
	lo, hi = vs[0], vs[0]
	for _, v := range vs[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
