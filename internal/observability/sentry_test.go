package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stemlab/exploratorium/internal/logger"
)

func TestFilterSensitiveHeaders(t *testing.T) {
	got := filterSensitiveHeaders(map[string]string{
		"Authorization": "Bearer sk-123",
		"cookie":        "session=abc",
		"X-Api-Key":     "secret",
		"Content-Type":  "application/json",
	})
	assert.Equal(t, map[string]string{
		"Authorization": "[REDACTED]",
		"cookie":        "[REDACTED]",
		"X-Api-Key":     "[REDACTED]",
		"Content-Type":  "application/json",
	}, got)
}

func TestInitSentry_DisabledWithoutDSN(t *testing.T) {
	flush := InitSentry(SentryOptions{}, logger.Nop())
	assert.NotNil(t, flush)
	flush()

	// Capturing without a client is a no-op.
	assert.NotPanics(t, func() {
		CaptureError(context.Background(), errors.New("boom"), map[string]string{"tier": "primary"})
		CaptureError(context.Background(), nil, nil)
	})
}
