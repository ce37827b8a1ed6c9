package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitTracerInstallsGlobalProvider(t *testing.T) {
	tp, err := InitTracer(context.Background(), "assistant-chat-test", "127.0.0.1:4318")
	require.NoError(t, err)

	assert.Same(t, tp, otel.GetTracerProvider())
	assert.NotNil(t, Tracer("test"))
	assert.NoError(t, Shutdown(context.Background(), tp))
}
