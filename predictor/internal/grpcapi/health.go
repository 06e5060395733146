package grpcapi

import (
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// Health reports serving status for the whole server (empty name) and for
// PredictionService. Watchers are notified on every change.
type Health struct {
	*health.Server
}

// NewHealth starts with PredictionService NOT_SERVING until MarkServing.
func NewHealth() *Health {
	h := &Health{Server: health.NewServer()}
	h.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	h.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	return h
}

func (h *Health) MarkServing() {
	h.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	h.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
}

// Drain flips every service to NOT_SERVING and ignores later updates.
func (h *Health) Drain() {
	h.Shutdown()
}
