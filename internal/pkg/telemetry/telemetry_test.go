package telemetry

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/workforce-backend-go/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestSetup_DisabledWithoutEndpoint(t *testing.T) {
	shutdown := Setup(context.Background(), config.TelemetryConfig{ServiceName: "test"}, "dev")
	assert.NoError(t, shutdown(context.Background()))
}
