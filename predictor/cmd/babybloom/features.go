package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Krimson/babybloom/predictor/internal/classifier"
	"github.com/Krimson/babybloom/predictor/internal/features"
)

type featuresFlags struct {
	sampleRate float64
	json       bool
	synthetic  bool
	minutes    float64
	seed       int64
}

func newFeaturesCmd() *cobra.Command {
	var flags featuresFlags

	cmd := &cobra.Command{
		Use:   "features [trace.csv]",
		Short: "Extract contraction statistics from a uterine activity trace",
		Long:  "Reads a time_sec,value CSV recording, or generates a synthetic one with --synthetic, and prints the contraction statistics used by the contraction-aware strategy.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runFeatures(cmd.OutOrStdout(), path, flags)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&flags.sampleRate, "sample-rate", 0, "Sample rate in Hz; inferred from the time column when 0")
	f.BoolVar(&flags.json, "json", false, "Print the statistics as JSON")
	f.BoolVar(&flags.synthetic, "synthetic", false, "Generate a synthetic recording instead of reading a file")
	f.Float64Var(&flags.minutes, "minutes", 20, "Length of the synthetic recording in minutes")
	f.Int64Var(&flags.seed, "seed", 1, "Seed for the synthetic recording")

	return cmd
}

func runFeatures(out io.Writer, path string, flags featuresFlags) error {
	var trace features.Trace
	switch {
	case flags.synthetic:
		cfg := features.DefaultSyntheticConfig()
		cfg.DurationSec = flags.minutes * 60
		cfg.Seed = flags.seed
		if flags.sampleRate > 0 {
			cfg.SampleRateHz = flags.sampleRate
		}
		trace = features.Synthesize(cfg)
	case path != "":
		t, err := features.ReadTraceFile(path, flags.sampleRate)
		if err != nil {
			return codeError(exitInvalid, "%s", err)
		}
		trace = t
	default:
		return codeError(exitInvalid, "a trace file or --synthetic is required")
	}

	stats, err := features.Extract(trace)
	if err != nil {
		return codeError(exitInvalid, "%s", err)
	}

	if flags.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}
	return printStats(out, len(trace.Values), trace.SampleRateHz, stats)
}

func printStats(w io.Writer, samples int, rate float64, s classifier.ContractionStats) error {
	_, err := fmt.Fprintf(w,
		"Samples: %d at %g Hz\nContraction count: %g\nContraction length: %g\nStd: %g\nEntropy: %g\n",
		samples, rate, s.Count, s.Length, s.Std, s.Entropy,
	)
	return err
}
