package observability

import (
	"context"
	"time"

	"match-workers/internal/common/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability records per-task job counts and durations through an
// OpenTelemetry meter exported to the Prometheus default registry.
type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	jobCounter    otelmetric.Int64Counter
	jobDuration   otelmetric.Float64Histogram
	logger        logger.Logger
}

// New returns a usable Observability even when the exporter cannot be
// created; recording is then a no-op.
func New(serviceName string, log logger.Logger) *Observability {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	exporter, err := prometheus.New()
	if err != nil {
		log.Error("failed to create Prometheus exporter", map[string]interface{}{"error": err})
		return &Observability{logger: log}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	return newWithProvider(provider, serviceName, log)
}

func newWithProvider(provider *metric.MeterProvider, serviceName string, log logger.Logger) *Observability {
	meter := provider.Meter(serviceName)

	jobCounter, err := meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)
	if err != nil {
		log.Warn("jobs.processed counter unavailable", map[string]interface{}{"error": err})
	}

	jobDuration, err := meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		log.Warn("jobs.duration histogram unavailable", map[string]interface{}{"error": err})
	}

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		jobCounter:    jobCounter,
		jobDuration:   jobDuration,
		logger:        log,
	}
}

func (o *Observability) RecordJobProcessed(ctx context.Context, taskType string) {
	if o == nil || o.jobCounter == nil {
		return
	}
	o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
	))
}

func (o *Observability) RecordJobDuration(ctx context.Context, taskType string, duration time.Duration) {
	if o == nil || o.jobDuration == nil {
		return
	}
	o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
	))
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := o.meterProvider.Shutdown(ctx); err != nil {
		o.logger.Warn("meter provider shutdown failed", map[string]interface{}{"error": err})
	}
}
