package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"HTTP_PORT", "GRPC_PORT", "ASSISTANT_DELAY_MS", "CONTACT_RATE_PER_MIN", "SHUTDOWN_TIMEOUT_SEC"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "50051", cfg.GRPCPort)
	assert.Equal(t, 1500*time.Millisecond, cfg.AssistantDelay)
	assert.Equal(t, 10, cfg.ContactRatePerMinute)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("ASSISTANT_DELAY_MS", "250")
	t.Setenv("CONTACT_RATE_PER_MIN", "not-a-number")

	cfg := Load()

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 250*time.Millisecond, cfg.AssistantDelay)
	assert.Equal(t, 10, cfg.ContactRatePerMinute, "invalid values fall back to the default")
}
