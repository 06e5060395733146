package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Krimson/babybloom/predictor/internal/classifier"
)

func TestExtract_TwoLevelTrace(t *testing.T) {
	trace := Trace{
		Values:       []float64{0, 0, 0, 0, 0, 0, 0, 0, 10, 10},
		SampleRateHz: 2,
	}

	stats, err := Extract(trace)
	require.NoError(t, err)

	assert.Equal(t, 2.0, stats.Count)
	assert.InDelta(t, 5.0, stats.Length, 1e-9)
	assert.InDelta(t, math.Sqrt(160.0/9.0), stats.Std, 1e-9)
	assert.InDelta(t, -(0.8*math.Log(0.8) + 0.2*math.Log(0.2)), stats.Entropy, 1e-9)
}

func TestExtract_ConstantTrace(t *testing.T) {
	stats, err := Extract(Trace{Values: []float64{3, 3, 3}, SampleRateHz: 4})
	require.NoError(t, err)
	assert.Equal(t, classifier.ContractionStats{}, stats)
}

func TestExtract_FeedsClassifier(t *testing.T) {
	values := make([]float64, 0, 400)
	for i := 0; i < 400; i++ {
		values = append(values, 20+15*math.Sin(float64(i)/10))
	}

	stats, err := Extract(Trace{Values: values, SampleRateHz: 4})
	require.NoError(t, err)

	m := classifier.Measurement{
		Weight:            0.75,
		Length:            34.5,
		HeadCircumference: 9.1,
		GestationalAge:    36,
		Contractions:      &stats,
	}
	_, err = classifier.Classify(m, nil)
	assert.NoError(t, err)
}

func TestExtract_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		trace Trace
		err   error
	}{
		{"empty", Trace{SampleRateHz: 4}, ErrEmptyTrace},
		{"single sample", Trace{Values: []float64{1}, SampleRateHz: 4}, ErrTraceTooShort},
		{"zero rate", Trace{Values: []float64{1, 2}}, ErrInvalidSampleRate},
		{"nan rate", Trace{Values: []float64{1, 2}, SampleRateHz: math.NaN()}, ErrInvalidSampleRate},
		{"nan sample", Trace{Values: []float64{1, math.NaN()}, SampleRateHz: 4}, ErrNonFiniteSample},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Extract(tc.trace)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestPercentile_Interpolates(t *testing.T) {
	data := []float64{4, 1, 3, 2}
	assert.Equal(t, 1.0, percentile(data, 0))
	assert.Equal(t, 4.0, percentile(data, 100))
	assert.InDelta(t, 2.5, percentile(data, 50), 1e-9)
	assert.Equal(t, []float64{4, 1, 3, 2}, data, "input must not be reordered")
}
