package features

import (
	"math"
	"sort"
)

// percentile uses linear interpolation between closest ranks.
func percentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	index := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func mean(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// sampleStd is the n-1 standard deviation.
func sampleStd(data []float64) float64 {
	if len(data) <= 1 {
		return math.NaN()
	}
	m := mean(data)
	sumSquares := 0.0
	for _, v := range data {
		d := v - m
		sumSquares += d * d
	}
	return math.Sqrt(sumSquares / float64(len(data)-1))
}

// histogramEntropy is the Shannon entropy in nats of an equal-width
// histogram spanning [min, max].
func histogramEntropy(data []float64, bins int) float64 {
	lo, hi := data[0], data[0]
	for _, v := range data[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		return 0
	}

	counts := make([]int, bins)
	width := (hi - lo) / float64(bins)
	for _, v := range data {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}

	n := float64(len(data))
	entropy := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		entropy -= p * math.Log(p)
	}
	return entropy
}
