package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/restofleet/pos-admin-api/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/exemplar"
)

const meterName = "pos-admin-api"

type AppMetrics struct {
	authLoginCounter         metric.Int64Counter
	tokenValidationCounter   metric.Int64Counter
	permissionCheckCounter   metric.Int64Counter
	permissionCacheCounter   metric.Int64Counter
	listReqDuration          metric.Float64Histogram
	listPageSize             metric.Float64Histogram
	listCacheCounter         metric.Int64Counter
	resourceMutationCounter  metric.Int64Counter
	repositoryOpDuration     metric.Float64Histogram
	uploadCounter            metric.Int64Counter
	uploadBytes              metric.Float64Histogram
	rateLimitDecisionCounter metric.Int64Counter
	rateLimitRetryAfter      metric.Float64Histogram
	healthCheckResultCounter metric.Int64Counter
	healthCheckDuration      metric.Float64Histogram
}

var (
	metricsMu  sync.RWMutex
	appMetrics *AppMetrics
)

// current returns the installed instrument set, or nil before InitMetrics
// has run. Every Record helper no-ops on nil so call sites never guard.
func current() *AppMetrics {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	return appMetrics
}

// instrumentBuilder collects the first instrument creation error so
// InitMetrics can register the whole set without per-instrument checks.
type instrumentBuilder struct {
	meter metric.Meter
	err   error
}

func (b *instrumentBuilder) counter(name string, opts ...metric.Int64CounterOption) metric.Int64Counter {
	if b.err != nil {
		return nil
	}
	c, err := b.meter.Int64Counter(name, opts...)
	if err != nil {
		b.err = fmt.Errorf("create counter %s: %w", name, err)
	}
	return c
}

func (b *instrumentBuilder) histogram(name string, opts ...metric.Float64HistogramOption) metric.Float64Histogram {
	if b.err != nil {
		return nil
	}
	h, err := b.meter.Float64Histogram(name, opts...)
	if err != nil {
		b.err = fmt.Errorf("create histogram %s: %w", name, err)
	}
	return h
}

func InitMetrics(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sdkmetric.MeterProvider, error) {
	if !cfg.OTELMetricsEnabled {
		mp := sdkmetric.NewMeterProvider()
		otel.SetMeterProvider(mp)
		logger.Info("otel metrics disabled")
		return mp, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTELExporterOTLPEndpoint)}
	if cfg.OTELExporterOTLPInsecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}
	res, err := serviceResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create metric resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.OTELMetricsExportInterval))),
		sdkmetric.WithExemplarFilter(exemplar.TraceBasedFilter),
		sdkmetric.WithView(sdkmetric.NewView(
			sdkmetric.Instrument{Name: "admin.list.request.duration"},
			sdkmetric.Stream{
				Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
					Boundaries: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
				},
			},
		)),
	)
	otel.SetMeterProvider(mp)

	b := &instrumentBuilder{meter: mp.Meter(meterName)}
	m := &AppMetrics{
		authLoginCounter:       b.counter("auth.login.attempts"),
		tokenValidationCounter: b.counter("auth.access_token.validation.events"),
		permissionCheckCounter: b.counter("auth.permission.check.decisions"),
		permissionCacheCounter: b.counter("auth.permission.cache.events"),
		listReqDuration: b.histogram("admin.list.request.duration",
			metric.WithUnit("s"),
			metric.WithDescription("Duration of admin list endpoint requests in seconds")),
		listPageSize: b.histogram("admin.list.page_size",
			metric.WithDescription("Requested page size for admin list endpoints")),
		listCacheCounter:        b.counter("admin.list.cache.events"),
		resourceMutationCounter: b.counter("admin.resource.mutations"),
		repositoryOpDuration: b.histogram("repository.operation.duration",
			metric.WithUnit("s"),
			metric.WithDescription("Duration of repository operations in seconds")),
		uploadCounter: b.counter("storage.upload.events"),
		uploadBytes: b.histogram("storage.upload.bytes",
			metric.WithUnit("By"),
			metric.WithDescription("Size of uploaded objects in bytes")),
		rateLimitDecisionCounter: b.counter("http.rate_limit.decisions"),
		rateLimitRetryAfter: b.histogram("http.rate_limit.retry_after",
			metric.WithUnit("s"),
			metric.WithDescription("Retry-after duration in seconds for throttled requests")),
		healthCheckResultCounter: b.counter("health.check.results"),
		healthCheckDuration: b.histogram("health.check.duration",
			metric.WithUnit("s"),
			metric.WithDescription("Duration of health dependency checks in seconds")),
	}
	if b.err != nil {
		return nil, b.err
	}

	metricsMu.Lock()
	appMetrics = m
	metricsMu.Unlock()

	logger.Info("otel metrics initialized", "endpoint", cfg.OTELExporterOTLPEndpoint)
	return mp, nil
}

func RecordAuthLogin(ctx context.Context, status string) {
	if m := current(); m != nil {
		m.authLoginCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	}
}

func RecordAccessTokenValidation(ctx context.Context, outcome string) {
	if m := current(); m != nil {
		m.tokenValidationCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

func RecordPermissionCheck(ctx context.Context, module, outcome string) {
	if m := current(); m != nil {
		m.permissionCheckCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("module", module),
			attribute.String("outcome", outcome),
		))
	}
}

func RecordPermissionCacheEvent(ctx context.Context, outcome string) {
	if m := current(); m != nil {
		m.permissionCacheCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

func RecordListRequestDuration(ctx context.Context, endpoint, status string, duration time.Duration) {
	if m := current(); m != nil {
		m.listReqDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
			attribute.String("endpoint", endpoint),
			attribute.String("status", status),
		))
	}
}

func RecordListPageSize(ctx context.Context, endpoint string, pageSize int) {
	if m := current(); m != nil {
		m.listPageSize.Record(ctx, float64(pageSize), metric.WithAttributes(attribute.String("endpoint", endpoint)))
	}
}

func RecordListCacheEvent(ctx context.Context, namespace, outcome string) {
	if m := current(); m != nil {
		m.listCacheCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("namespace", namespace),
			attribute.String("outcome", outcome),
		))
	}
}

func RecordResourceMutation(ctx context.Context, module, action, status string) {
	if m := current(); m != nil {
		m.resourceMutationCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("module", module),
			attribute.String("action", action),
			attribute.String("status", status),
		))
	}
}

func RecordRepositoryOperation(ctx context.Context, module, operation string, duration time.Duration) {
	if m := current(); m != nil {
		m.repositoryOpDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
			attribute.String("module", module),
			attribute.String("operation", operation),
		))
	}
}

func RecordUploadEvent(ctx context.Context, category, outcome string) {
	if m := current(); m != nil {
		m.uploadCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("category", category),
			attribute.String("outcome", outcome),
		))
	}
}

func RecordUploadBytes(ctx context.Context, category string, size int64) {
	if m := current(); m != nil {
		m.uploadBytes.Record(ctx, float64(size), metric.WithAttributes(attribute.String("category", category)))
	}
}

func RecordRateLimitDecision(ctx context.Context, scope, outcome, mode, keyType string) {
	if m := current(); m != nil {
		m.rateLimitDecisionCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("scope", scope),
			attribute.String("outcome", outcome),
			attribute.String("mode", mode),
			attribute.String("key_type", keyType),
		))
	}
}

func RecordRateLimitRetryAfter(ctx context.Context, scope, reason string, retryAfter time.Duration) {
	if m := current(); m != nil {
		m.rateLimitRetryAfter.Record(ctx, retryAfter.Seconds(), metric.WithAttributes(
			attribute.String("scope", scope),
			attribute.String("reason", reason),
		))
	}
}

func RecordHealthCheckResult(ctx context.Context, check, outcome string) {
	if m := current(); m != nil {
		m.healthCheckResultCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("check", check),
			attribute.String("outcome", outcome),
		))
	}
}

func RecordHealthCheckDuration(ctx context.Context, check string, duration time.Duration) {
	if m := current(); m != nil {
		m.healthCheckDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("check", check)))
	}
}
