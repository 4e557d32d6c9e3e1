package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const defaultServiceName = "rank-kicker"

var (
	promReaderFactory = prometheusComponents
	otlpReaderFactory = buildOTLPReader
	instrumentFactory = newOtelInstruments
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled      bool
	Port         string
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Setup configures OpenTelemetry metrics with a Prometheus exporter and optional OTLP exporter.
// It returns a Recorder, the Prometheus HTTP handler, and a shutdown function.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = defaultServiceName
	}

	promReader, promHandler, err := promReaderFactory()
	if err != nil {
		return nil, nil, nil, err
	}
	opts := []sdkmetric.Option{sdkmetric.WithReader(promReader)}

	if cfg.OtlpEndpoint != "" {
		otlpReader, err := otlpReaderFactory(ctx, cfg.OtlpEndpoint, cfg.OtlpInsecure)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(otlpReader))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, nil, err
	}
	opts = append(opts, sdkmetric.WithResource(res))

	provider := sdkmetric.NewMeterProvider(opts...)
	otelInst, err := instrumentFactory(provider)
	if err != nil {
		return nil, nil, nil, err
	}

	rec := newRecorder(otelInst)
	shutdown := func(c context.Context) error {
		return provider.Shutdown(c)
	}
	return rec, promHandler, shutdown, nil
}

func buildOTLPReader(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Reader, error) {
	otlpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		otlpOpts = append(otlpOpts, otlpmetrichttp.WithInsecure())
	}
	otlpExp, err := otlpmetrichttp.New(ctx, otlpOpts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(otlpExp, sdkmetric.WithInterval(15*time.Second)), nil
}

func prometheusComponents() (sdkmetric.Reader, http.Handler, error) {
	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}
	return promExp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}

type otelInstruments struct {
	ctx            context.Context
	requests       metric.Int64Counter
	requestLatency metric.Float64Histogram
	sourceAttempts metric.Int64Counter
	sourceLatency  metric.Float64Histogram
	rateLimitHits  metric.Int64Counter
	retryAfterMs   metric.Float64Histogram
	passes         metric.Int64Counter
	passLatency    metric.Float64Histogram
	playersChecked metric.Int64Counter
	kicks          metric.Int64Counter
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	meter := provider.Meter(defaultServiceName)
	inst := &otelInstruments{ctx: context.Background()}

	var err error
	if inst.requests, err = meter.Int64Counter("http_requests_total"); err != nil {
		return nil, err
	}
	if inst.requestLatency, err = meter.Float64Histogram("http_request_duration_ms"); err != nil {
		return nil, err
	}
	if inst.sourceAttempts, err = meter.Int64Counter("stat_source_attempts_total"); err != nil {
		return nil, err
	}
	if inst.sourceLatency, err = meter.Float64Histogram("stat_source_duration_ms"); err != nil {
		return nil, err
	}
	if inst.rateLimitHits, err = meter.Int64Counter("stat_source_rate_limit_hits_total"); err != nil {
		return nil, err
	}
	if inst.retryAfterMs, err = meter.Float64Histogram("stat_source_retry_after_ms"); err != nil {
		return nil, err
	}
	if inst.passes, err = meter.Int64Counter("kick_passes_total"); err != nil {
		return nil, err
	}
	if inst.passLatency, err = meter.Float64Histogram("kick_pass_duration_ms"); err != nil {
		return nil, err
	}
	if inst.playersChecked, err = meter.Int64Counter("kick_players_evaluated_total"); err != nil {
		return nil, err
	}
	if inst.kicks, err = meter.Int64Counter("kicks_total"); err != nil {
		return nil, err
	}
	return inst, nil
}

func (o *otelInstruments) recordHTTPRequest(method, path string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrMethod, method),
		attribute.String(AttrPath, path),
		attribute.Int(AttrStatus, status),
	}
	o.recordCounter(o.requests, 1, attrs...)
	o.recordHistogram(o.requestLatency, float64(duration.Milliseconds()), attrs...)
}

func (o *otelInstruments) recordSourceAttempt(source, outcome string, duration time.Duration) {
	if o == nil {
		return
	}
	o.recordCounter(o.sourceAttempts, 1,
		attribute.String(AttrSource, source),
		attribute.String(AttrOutcome, outcome),
	)
	o.recordHistogram(o.sourceLatency, float64(duration.Milliseconds()), attribute.String(AttrSource, source))
}

func (o *otelInstruments) recordRateLimit(source string, retryAfter time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrSource, source)}
	o.recordCounter(o.rateLimitHits, 1, attrs...)
	if retryAfter > 0 {
		o.recordHistogram(o.retryAfterMs, float64(retryAfter.Milliseconds()), attrs...)
	}
}

func (o *otelInstruments) recordPass(duration time.Duration, players, kicks int) {
	if o == nil {
		return
	}
	o.recordCounter(o.passes, 1)
	o.recordHistogram(o.passLatency, float64(duration.Milliseconds()))
	o.recordCounter(o.playersChecked, int64(players))
	if kicks > 0 {
		o.recordCounter(o.kicks, int64(kicks))
	}
}

func (o *otelInstruments) recordCounter(counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	counter.Add(o.ctx, value, metric.WithAttributes(attrs...))
}

func (o *otelInstruments) recordHistogram(hist metric.Float64Histogram, value float64, attrs ...attribute.KeyValue) {
	hist.Record(o.ctx, value, metric.WithAttributes(attrs...))
}
