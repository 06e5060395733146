package features

import (
	"math/rand"
)

// SyntheticConfig shapes a generated tocography recording. Intervals and
// durations are in seconds; intensities are in the 0-100 TOCO scale.
type SyntheticConfig struct {
	SampleRateHz        float64
	DurationSec         float64
	MinInterval         float64
	MaxInterval         float64
	ContractionDuration float64
	PeakIntensity       float64
	BaselineNoise       float64
	Seed                int64
}

// DefaultSyntheticConfig is a twenty minute recording at 4 Hz with a
// contraction every two to five minutes.
func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{
		SampleRateHz:        4,
		DurationSec:         20 * 60,
		MinInterval:         120,
		MaxInterval:         300,
		ContractionDuration: 60,
		PeakIntensity:       80,
		BaselineNoise:       5,
		Seed:                1,
	}
}

// Synthesize generates a deterministic recording for cfg. Between
// contractions the signal is uniform baseline noise; each contraction rises
// linearly, holds its peak, then falls, in three equal phases.
func Synthesize(cfg SyntheticConfig) Trace {
	if cfg.SampleRateHz <= 0 || cfg.DurationSec <= 0 {
		return Trace{SampleRateHz: cfg.SampleRateHz}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	n := int(cfg.DurationSec * cfg.SampleRateHz)
	values := make([]float64, n)
	dt := 1 / cfg.SampleRateHz

	phase := cfg.ContractionDuration / 3
	sinceLast := 0.0
	inContraction := false
	elapsed := 0.0

	for i := range values {
		if !inContraction {
			sinceLast += dt
			if sinceLast > cfg.MinInterval {
				p := 1.0
				if cfg.MaxInterval > cfg.MinInterval {
					p = (sinceLast - cfg.MinInterval) / (cfg.MaxInterval - cfg.MinInterval)
				}
				// onset rate grows linearly across the interval window
				if rng.Float64() < p*dt {
					inContraction = true
					elapsed = 0
				}
			}
		}

		if !inContraction {
			values[i] = rng.Float64() * cfg.BaselineNoise
			continue
		}

		switch {
		case elapsed < phase:
			values[i] = elapsed / phase * cfg.PeakIntensity
		case elapsed < 2*phase:
			values[i] = cfg.PeakIntensity
		case elapsed < cfg.ContractionDuration:
			values[i] = cfg.PeakIntensity * (1 - (elapsed-2*phase)/phase)
		default:
			inContraction = false
			sinceLast = 0
			values[i] = rng.Float64() * cfg.BaselineNoise
		}
		elapsed += dt
	}

	return Trace{Values: values, SampleRateHz: cfg.SampleRateHz}
}
