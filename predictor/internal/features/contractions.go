package features

import (
	"errors"
	"fmt"
	"math"

	"github.com/Krimson/babybloom/predictor/internal/classifier"
)

var (
	ErrEmptyTrace        = errors.New("trace is empty")
	ErrTraceTooShort     = errors.New("trace needs at least two samples")
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	ErrNonFiniteSample   = errors.New("trace contains a non-finite sample")
)

const entropyBins = 16

// Trace is a uterine activity recording sampled at a fixed rate.
type Trace struct {
	Values       []float64 `json:"values"`
	SampleRateHz float64   `json:"sampleRateHz"`
}

// Extract derives the contraction statistics consumed by the
// contraction-aware strategy.
//
// Activity is every sample above p10 + 0.5*(p90-p10). Count is the number of
// active samples, Length the area above the threshold in value-seconds.
func Extract(t Trace) (classifier.ContractionStats, error) {
	if len(t.Values) == 0 {
		return classifier.ContractionStats{}, ErrEmptyTrace
	}
	if len(t.Values) < 2 {
		return classifier.ContractionStats{}, ErrTraceTooShort
	}
	if !(t.SampleRateHz > 0) || math.IsInf(t.SampleRateHz, 0) {
		return classifier.ContractionStats{}, fmt.Errorf("%w: %v", ErrInvalidSampleRate, t.SampleRateHz)
	}
	for i, v := range t.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return classifier.ContractionStats{}, fmt.Errorf("%w at index %d", ErrNonFiniteSample, i)
		}
	}

	p10 := percentile(t.Values, 10)
	p90 := percentile(t.Values, 90)
	threshold := p10 + 0.5*(p90-p10)

	count := 0
	area := 0.0
	for _, v := range t.Values {
		if v > threshold {
			count++
			area += v - threshold
		}
	}

	return classifier.ContractionStats{
		Count:   float64(count),
		Length:  area / t.SampleRateHz,
		Std:     sampleStd(t.Values),
		Entropy: histogramEntropy(t.Values, entropyBins),
	}, nil
}
