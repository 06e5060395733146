package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Krimson/babybloom/predictor/internal/config"
)

var defaultArgs = []string{
	"--weight", "0.75",
	"--length", "34.5",
	"--head-circumference", "9.1",
	"--gestational-age", "36",
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func exitCode(err error) int {
	var ee *exitErr
	if errors.As(err, &ee) {
		return ee.code
	}
	if err != nil {
		return exitFailure
	}
	return 0
}

func TestClassify_Text(t *testing.T) {
	out, err := execute(t, append([]string{"classify"}, defaultArgs...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "Estimated gestational age: 30 weeks")
	assert.Contains(t, out, "Outcome: Preterm Birth Detected")
	assert.Contains(t, out, "Confidence: 85.5%")
	assert.Contains(t, out, "Strategy: basic (rule: estimated_age)")
	assert.Contains(t, out, "1. Immediate medical attention")
}

func TestClassify_JSONWithContractions(t *testing.T) {
	args := append([]string{"classify", "--json",
		"--contraction-count", "800",
		"--contraction-length", "20000",
		"--std", "55000",
		"--entropy", "1.0",
	}, defaultArgs...)

	out, err := execute(t, args...)
	require.NoError(t, err)

	var got classifyOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "contraction-aware", got.Result.Strategy)
	assert.Equal(t, "high_signal_std", got.Result.Rule.String())
	assert.True(t, got.Result.IsPreterm)
	assert.Equal(t, float64(75), got.Result.Confidence)
	assert.Equal(t, "Preterm Birth Detected", got.Label)
}

func TestClassify_InvalidExitsTwo(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing weight", []string{"--length", "34.5", "--head-circumference", "9.1", "--gestational-age", "36"}, "weight is required"},
		{"negative age", []string{"--weight", "0.75", "--length", "34.5", "--head-circumference", "9.1", "--gestational-age", "-1"}, "gestationalAge must be greater than 0"},
		{"unknown strategy", append([]string{"--strategy", "tarot"}, defaultArgs...), "unknown strategy"},
		{"partial contractions", append([]string{"--std", "10"}, defaultArgs...), "contractionCount is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append([]string{"classify"}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, exitInvalid, exitCode(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestClassify_Remote(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	grpcServer, health := newGRPCServer(slog.Default())
	health.MarkServing()
	go grpcServer.Serve(lis)
	t.Cleanup(grpcServer.Stop)

	out, err := execute(t, append([]string{"classify", "--remote", lis.Addr().String()}, defaultArgs...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Confidence: 85.5%")

	_, err = execute(t, "classify", "--remote", lis.Addr().String(), "--weight", "0")
	require.Error(t, err)
	assert.Equal(t, exitInvalid, exitCode(err))
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "babybloom dev\n", out)
}

func testConfig() *config.Config {
	return &config.Config{
		HTTPPort:             "0",
		GRPCPort:             "0",
		ShutdownTimeout:      time.Second,
		AllowedOrigin:        "*",
		AssistantDelay:       10 * time.Millisecond,
		ContactRatePerMinute: 10,
		ContactBurst:         5,
	}
}

func TestRouter_Surfaces(t *testing.T) {
	h, err := newRouter(testConfig(), slog.Default())
	require.NoError(t, err)

	tests := []struct {
		method string
		path   string
		body   string
		code   int
		marker string
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK, `"ok"`},
		{http.MethodGet, "/", "", http.StatusOK, "Early Detection of"},
		{http.MethodGet, "/swagger/doc.json", "", http.StatusOK, "BabyBloom Predictor API"},
		{http.MethodPost, "/api/v1/predict", `{"weight":0.75,"length":34.5,"headCircumference":9.1,"gestationalAge":36}`, http.StatusOK, `"estimatedGestationalAge":30`},
		{http.MethodGet, "/metrics", "", http.StatusOK, "babybloom_classifier_predictions_total"},
		{http.MethodOptions, "/api/v1/predict", "", http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, rec.Body.String(), tt.marker)
		})
	}
}

func TestRunServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- runServe(ctx, testConfig(), slog.Default()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func writeTrace(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("time_sec,value\n")
	for i := 0; i < 10; i++ {
		v := 0
		if i == 3 || i == 4 {
			v = 10
		}
		b.WriteString(strconv.FormatFloat(float64(i)*0.5, 'f', -1, 64) + "," + strconv.Itoa(v) + "\n")
	}
	path := filepath.Join(t.TempDir(), "uc.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func TestFeatures_File(t *testing.T) {
	out, err := execute(t, "features", "--json", writeTrace(t))
	require.NoError(t, err)

	var stats map[string]float64
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, float64(2), stats["contractionCount"])
	assert.InDelta(t, 5.0, stats["contractionLength"], 1e-9)
}

func TestFeatures_Synthetic(t *testing.T) {
	out, err := execute(t, "features", "--synthetic", "--minutes", "10", "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Samples: 2400 at 4 Hz")
	assert.Contains(t, out, "Contraction count:")
}

func TestFeatures_RequiresInput(t *testing.T) {
	_, err := execute(t, "features")
	require.Error(t, err)
	assert.Equal(t, exitInvalid, exitCode(err))
}

func TestClassify_Trace(t *testing.T) {
	out, err := execute(t, append([]string{"classify", "--json", "--trace", writeTrace(t)}, defaultArgs...)...)
	require.NoError(t, err)

	var got classifyOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "contraction-aware", got.Result.Strategy)

	_, err = execute(t, append([]string{"classify", "--trace", writeTrace(t), "--std", "1"}, defaultArgs...)...)
	require.Error(t, err)
	assert.Equal(t, exitInvalid, exitCode(err))
	assert.Contains(t, err.Error(), "--trace cannot be combined with --std")
}
