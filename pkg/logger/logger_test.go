package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestWithContextAddsTraceFields(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("acme-store", false, &buf)

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	Info(ctx).Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "acme-store", entry["service"])
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, span.SpanContext().TraceID().String(), entry["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), entry["span_id"])
}

func TestWithContextWithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("acme-store", false, &buf)

	Warn(context.Background()).Msg("plain")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "trace_id")
	assert.Equal(t, "warn", entry["level"])
}

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	assert.Equal(t, zerolog.DebugLevel, SetLevel("DEBUG"))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	assert.Equal(t, zerolog.WarnLevel, SetLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, SetLevel("nonsense"))
	assert.Equal(t, zerolog.InfoLevel, SetLevel(""))
}
