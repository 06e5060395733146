package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordPrediction(t *testing.T) {
	counter := predictionsTotal.WithLabelValues("basic", "preterm", "estimated_age")
	before := testutil.ToFloat64(counter)

	RecordPrediction("basic", true, "estimated_age", 85.5)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestRecordAssistantMessage(t *testing.T) {
	cancelled := assistantMessages.WithLabelValues("cancelled")
	before := testutil.ToFloat64(cancelled)

	RecordAssistantMessage(false)

	assert.Equal(t, before+1, testutil.ToFloat64(cancelled))
}

func TestMiddleware_LabelsRouteTemplate(t *testing.T) {
	router := mux.NewRouter()
	router.Use(Middleware)
	router.HandleFunc("/api/v1/things/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/things/42", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, 1, testutil.CollectAndCount(httpDuration, "babybloom_http_request_duration_seconds"))
}
