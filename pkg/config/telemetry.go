package config

import (
	"context"
	"errors"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"

	"github.com/mpapenbr/racesim/log"
	"github.com/mpapenbr/racesim/version"
)

// StdoutEndpoint as telemetry endpoint writes metrics and traces to stdout.
const StdoutEndpoint = "stdout"

type Telemetry struct {
	ctx            context.Context
	metricProvider *metric.MeterProvider
	traceProvider  *trace.TracerProvider
}

func (t Telemetry) Shutdown() {
	ctx, cancel := context.WithTimeout(t.ctx, 5*time.Second)
	defer cancel()
	if err := t.metricProvider.Shutdown(ctx); err != nil {
		log.Warn("could not shutdown metric provider", log.ErrorField(err))
	}
	if err := t.traceProvider.Shutdown(ctx); err != nil {
		log.Warn("could not shutdown trace provider", log.ErrorField(err))
	}
}

// SetupTelemetry installs global meter and tracer providers exporting to
// TelemetryEndpoint.
func SetupTelemetry(ctx context.Context) (*Telemetry, error) {
	res, err := newResource()
	if err != nil {
		return nil, err
	}
	metricExporter, traceExporter, err := newExporters(ctx, TelemetryEndpoint)
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(metricExporter,
			metric.WithInterval(10*time.Second))),
	)
	tp := trace.NewTracerProvider(
		trace.WithResource(res),
		trace.WithBatcher(traceExporter),
	)
	otel.SetMeterProvider(mp)
	otel.SetTracerProvider(tp)
	return &Telemetry{ctx: ctx, metricProvider: mp, traceProvider: tp}, nil
}

func newResource() (*resource.Resource, error) {
	return resource.Merge(resource.Default(),
		resource.NewSchemaless(
			attribute.String("service.name", "rsim"),
			attribute.String("service.version", version.Version),
		))
}

//nolint:whitespace // editor/linter issue
func newExporters(ctx context.Context, endpoint string) (
	metric.Exporter, trace.SpanExporter, error,
) {
	if endpoint == StdoutEndpoint {
		me, err := stdoutmetric.New(stdoutmetric.WithWriter(os.Stdout))
		if err != nil {
			return nil, nil, err
		}
		te, err := stdouttrace.New(stdouttrace.WithWriter(os.Stdout))
		if err != nil {
			return nil, nil, err
		}
		return me, te, nil
	}
	me, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure())
	if err != nil {
		return nil, nil, err
	}
	te, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure())
	if err != nil {
		return nil, nil, errors.Join(err, me.Shutdown(ctx))
	}
	return me, te, nil
}
