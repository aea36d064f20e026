package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetupTelemetry_Stdout(t *testing.T) {
	old := TelemetryEndpoint
	oldMP := otel.GetMeterProvider()
	oldTP := otel.GetTracerProvider()
	t.Cleanup(func() {
		TelemetryEndpoint = old
		otel.SetMeterProvider(oldMP)
		otel.SetTracerProvider(oldTP)
	})
	TelemetryEndpoint = StdoutEndpoint

	tel, err := SetupTelemetry(context.Background())
	require.NoError(t, err)
	assert.Same(t, tel.metricProvider, otel.GetMeterProvider())

	_, span := otel.Tracer("test").Start(context.Background(), "race")
	span.End()
	tel.Shutdown()
}

func TestNewResource(t *testing.T) {
	res, err := newResource()
	require.NoError(t, err)
	found := false
	for _, kv := range res.Attributes() {
		if kv.Key == "service.name" {
			found = true
			assert.Equal(t, "rsim", kv.Value.AsString())
		}
	}
	assert.True(t, found)
}
