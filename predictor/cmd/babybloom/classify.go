package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Krimson/babybloom/predictor/internal/advice"
	"github.com/Krimson/babybloom/predictor/internal/classifier"
	"github.com/Krimson/babybloom/predictor/internal/features"
	"github.com/Krimson/babybloom/predictor/internal/grpcapi"
)

// classifyFlags holds the parsed flags for the classify command.
type classifyFlags struct {
	values   map[string]*float64
	strategy string
	json     bool
	remote   string
	timeout  time.Duration

	trace      string
	sampleRate float64
}

// measurementFlags maps flag names to the wire field they fill.
var measurementFlags = []struct {
	flag  string
	field string
	usage string
}{
	{"weight", "weight", "Birth weight in kg"},
	{"length", "length", "Length in cm"},
	{"head-circumference", "headCircumference", "Head circumference in cm"},
	{"gestational-age", "gestationalAge", "Gestational age in weeks"},
	{"contraction-count", "contractionCount", "Contraction count statistic"},
	{"contraction-length", "contractionLength", "Contraction length statistic"},
	{"std", "std", "Signal standard deviation"},
	{"entropy", "entropy", "Signal entropy"},
}

type classifyOutput struct {
	Result     classifier.Result `json:"result"`
	Label      string            `json:"label"`
	Advice     advice.Advice     `json:"advice"`
	Disclaimer string            `json:"disclaimer"`
}

func newClassifyCmd() *cobra.Command {
	flags := classifyFlags{values: make(map[string]*float64)}
	raw := make(map[string]*float64)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify one measurement record",
		Long:  "Classify one measurement record locally, or against a running server with --remote. Exits 2 when the record is invalid.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Flags().Visit(func(f *pflag.Flag) {
				if v, ok := raw[f.Name]; ok {
					flags.values[f.Name] = v
				}
			})
			return runClassify(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	f := cmd.Flags()
	for _, mf := range measurementFlags {
		raw[mf.flag] = f.Float64(mf.flag, 0, mf.usage)
	}
	f.StringVar(&flags.strategy, "strategy", "", "Force a strategy: basic or contraction-aware")
	f.BoolVar(&flags.json, "json", false, "Print the result as JSON")
	f.StringVar(&flags.remote, "remote", "", "gRPC address of a running server, e.g. localhost:50051")
	f.DurationVar(&flags.timeout, "timeout", 5*time.Second, "Timeout for --remote calls")
	f.StringVar(&flags.trace, "trace", "", "Derive the contraction statistics from a time_sec,value CSV recording")
	f.Float64Var(&flags.sampleRate, "sample-rate", 0, "Sample rate of --trace in Hz; inferred when 0")

	return cmd
}

func (f classifyFlags) input() classifier.Input {
	var in classifier.Input
	dst := map[string]**float64{
		"weight":             &in.Weight,
		"length":             &in.Length,
		"head-circumference": &in.HeadCircumference,
		"gestational-age":    &in.GestationalAge,
		"contraction-count":  &in.ContractionCount,
		"contraction-length": &in.ContractionLength,
		"std":                &in.Std,
		"entropy":            &in.Entropy,
	}
	for name, v := range f.values {
		if p, ok := dst[name]; ok {
			val := *v
			*p = &val
		}
	}
	return in
}

// applyTrace fills the contraction statistics from the --trace recording.
func (f *classifyFlags) applyTrace() error {
	for _, name := range []string{"contraction-count", "contraction-length", "std", "entropy"} {
		if _, ok := f.values[name]; ok {
			return codeError(exitInvalid, "--trace cannot be combined with --%s", name)
		}
	}

	trace, err := features.ReadTraceFile(f.trace, f.sampleRate)
	if err != nil {
		return codeError(exitInvalid, "%s", err)
	}
	stats, err := features.Extract(trace)
	if err != nil {
		return codeError(exitInvalid, "%s", err)
	}

	f.values["contraction-count"] = &stats.Count
	f.values["contraction-length"] = &stats.Length
	f.values["std"] = &stats.Std
	f.values["entropy"] = &stats.Entropy
	return nil
}

func runClassify(ctx context.Context, out io.Writer, flags classifyFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if flags.trace != "" {
		if err := flags.applyTrace(); err != nil {
			return err
		}
	}

	var (
		res classifier.Result
		err error
	)
	if flags.remote != "" {
		res, err = classifyRemote(ctx, flags)
	} else {
		res, err = classifyLocal(flags)
	}
	if err != nil {
		return err
	}

	o := classifyOutput{
		Result:     res,
		Label:      res.Label(),
		Advice:     advice.For(res.IsPreterm),
		Disclaimer: advice.Disclaimer,
	}
	if flags.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(o)
	}
	return printResult(out, o)
}

func classifyLocal(flags classifyFlags) (classifier.Result, error) {
	var strategy classifier.Strategy
	if flags.strategy != "" {
		s, err := classifier.Lookup(flags.strategy)
		if err != nil {
			return classifier.Result{}, codeError(exitInvalid, "%s", err)
		}
		strategy = s
	}

	m, err := flags.input().Measurement()
	if err != nil {
		return classifier.Result{}, codeError(exitInvalid, "%s", err)
	}

	res, err := classifier.Classify(m, strategy)
	if err != nil {
		return classifier.Result{}, codeError(exitInvalid, "%s", err)
	}
	return res, nil
}

func classifyRemote(ctx context.Context, flags classifyFlags) (classifier.Result, error) {
	fields := make(map[string]interface{}, len(flags.values)+1)
	for _, mf := range measurementFlags {
		if v, ok := flags.values[mf.flag]; ok {
			fields[mf.field] = *v
		}
	}
	if flags.strategy != "" {
		fields["strategy"] = flags.strategy
	}
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return classifier.Result{}, codeError(exitFailure, "failed to build request: %s", err)
	}

	conn, err := grpc.NewClient(flags.remote, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return classifier.Result{}, codeError(exitFailure, "failed to connect to %s: %s", flags.remote, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, flags.timeout)
	defer cancel()

	resp, err := grpcapi.ClassifyRemote(ctx, conn, req)
	if err != nil {
		if status.Code(err) == codes.InvalidArgument {
			return classifier.Result{}, codeError(exitInvalid, "%s", status.Convert(err).Message())
		}
		return classifier.Result{}, codeError(exitFailure, "remote classify failed: %s", err)
	}
	return resultFromStruct(resp)
}

func resultFromStruct(s *structpb.Struct) (classifier.Result, error) {
	f := s.GetFields()
	res := classifier.Result{
		EstimatedGestationalAge: int(f["estimatedGestationalAge"].GetNumberValue()),
		IsPreterm:               f["isPreterm"].GetBoolValue(),
		Confidence:              f["confidence"].GetNumberValue(),
		Strategy:                f["strategy"].GetStringValue(),
	}
	if err := res.Rule.UnmarshalText([]byte(f["rule"].GetStringValue())); err != nil {
		return classifier.Result{}, codeError(exitFailure, "unexpected response: %s", err)
	}
	return res, nil
}

func printResult(w io.Writer, o classifyOutput) error {
	_, err := fmt.Fprintf(w,
		"Estimated gestational age: %d weeks\nOutcome: %s\nConfidence: %s%%\nStrategy: %s (rule: %s)\n\n%s\n\n%s\n",
		o.Result.EstimatedGestationalAge,
		o.Label,
		strconv.FormatFloat(o.Result.Confidence, 'f', -1, 64),
		o.Result.Strategy,
		o.Result.Rule,
		o.Advice.Text(),
		o.Disclaimer,
	)
	return err
}
