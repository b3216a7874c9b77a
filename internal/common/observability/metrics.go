// internal/common/observability/metrics.go
package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	tracer         trace.Tracer
	jobCounter     otelmetric.Int64Counter
	jobDuration    otelmetric.Float64Histogram
	rankDuration   otelmetric.Float64Histogram
	suggestions    otelmetric.Int64Histogram
}

type options struct {
	jaegerEndpoint string
}

type Option func(*options)

// WithJaegerEndpoint exports spans to a Jaeger collector, e.g. http://localhost:14268/api/traces.
func WithJaegerEndpoint(endpoint string) Option {
	return func(o *options) { o.jaegerEndpoint = endpoint }
}

func New(serviceName string, opts ...Option) *Observability {
	var cfg options
	for _, opt := range opts {
		opt(&cfg)
	}

	o := &Observability{}
	o.tracerProvider = newTracerProvider(cfg.jaegerEndpoint)
	otel.SetTracerProvider(o.tracerProvider)
	o.tracer = o.tracerProvider.Tracer(serviceName)

	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return o
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	jobCounter, _ := meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)

	jobDuration, _ := meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)

	rankDuration, _ := meter.Float64Histogram(
		"matching.rank.duration",
		otelmetric.WithDescription("Ranking pipeline duration"),
		otelmetric.WithUnit("ms"),
	)

	suggestions, _ := meter.Int64Histogram(
		"matching.suggestions",
		otelmetric.WithDescription("Suggestions returned per ranking request"),
	)

	o.meterProvider = provider
	o.meter = meter
	o.jobCounter = jobCounter
	o.jobDuration = jobDuration
	o.rankDuration = rankDuration
	o.suggestions = suggestions
	return o
}

func (o *Observability) RecordJobProcessed(ctx context.Context, taskType string) {
	if o != nil && o.jobCounter != nil {
		o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("task_type", taskType),
		))
	}
}

func (o *Observability) RecordJobDuration(ctx context.Context, duration time.Duration, taskType string) {
	if o != nil && o.jobDuration != nil {
		o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("task_type", taskType),
		))
	}
}

// RecordRanking records one ranking run and the number of suggestions it returned.
func (o *Observability) RecordRanking(ctx context.Context, duration time.Duration, returned int) {
	if o == nil {
		return
	}
	if o.rankDuration != nil {
		o.rankDuration.Record(ctx, float64(duration.Microseconds())/1000)
	}
	if o.suggestions != nil {
		o.suggestions.Record(ctx, int64(returned))
	}
}

func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.meterProvider != nil {
		o.meterProvider.Shutdown(ctx)
	}
	if o.tracerProvider != nil {
		o.tracerProvider.Shutdown(ctx)
	}
}
