package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "babybloom"

var (
	// predictionsTotal counts successful classifications.
	// Labels: strategy, outcome (preterm, full_term), rule
	predictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "classifier",
		Name:      "predictions_total",
		Help:      "Total classifications by strategy, outcome and deciding rule",
	}, []string{"strategy", "outcome", "rule"})

	// predictionConfidence tracks the confidence distribution per strategy.
	predictionConfidence = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "classifier",
		Name:      "confidence",
		Help:      "Distribution of classification confidence scores",
		Buckets:   []float64{75, 80, 85, 90, 95},
	}, []string{"strategy"})

	// validationFailures counts rejected measurement records by field.
	validationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "classifier",
		Name:      "validation_failures_total",
		Help:      "Measurement records rejected before classification",
	}, []string{"field"})

	// contactSubmissions counts contact form submissions.
	// Labels: status (accepted, invalid, rate_limited)
	contactSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "contact",
		Name:      "submissions_total",
		Help:      "Contact form submissions by status",
	}, []string{"status"})

	// assistantMessages counts assistant panel deliveries.
	// Labels: result (delivered, cancelled)
	assistantMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "assistant",
		Name:      "messages_total",
		Help:      "Assistant advice messages delivered or cancelled before the delay elapsed",
	}, []string{"result"})

	// httpDuration measures request latency per route template.
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method", "code"})
)

func RecordPrediction(strategy string, preterm bool, rule string, confidence float64) {
	outcome := "full_term"
	if preterm {
		outcome = "preterm"
	}
	predictionsTotal.WithLabelValues(strategy, outcome, rule).Inc()
	predictionConfidence.WithLabelValues(strategy).Observe(confidence)
}

func RecordValidationFailure(field string) {
	validationFailures.WithLabelValues(field).Inc()
}

func RecordContactSubmission(status string) {
	contactSubmissions.WithLabelValues(status).Inc()
}

func RecordAssistantMessage(delivered bool) {
	result := "cancelled"
	if delivered {
		result = "delivered"
	}
	assistantMessages.WithLabelValues(result).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request latency labelled by the matched mux route.
// WebSocket upgrades bypass the recorder so the connection can be hijacked.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Upgrade") != "" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		httpDuration.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Observe(time.Since(start).Seconds())
	})
}
