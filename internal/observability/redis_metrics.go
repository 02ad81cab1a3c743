package observability

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var redisInstrumentationOnce sync.Once

// InstrumentRedisClient wires command and pool observability into the provided
// client. Safe to call multiple times; instrumentation installs once per process.
func InstrumentRedisClient(client redis.UniversalClient, logger *slog.Logger) {
	if client == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}

	redisInstrumentationOnce.Do(func() {
		hook, err := newRedisMetricsHook(client)
		if err != nil {
			logger.Warn("redis observability instrumentation disabled", "error", err)
			return
		}
		client.AddHook(hook)
		logger.Info("redis observability instrumentation enabled")
	})
}

type redisMetricsHook struct {
	cmdTotal   metric.Int64Counter
	cmdErrors  metric.Int64Counter
	cmdLatency metric.Float64Histogram
}

func newRedisMetricsHook(client redis.UniversalClient) (*redisMetricsHook, error) {
	b := &instrumentBuilder{meter: otel.Meter(meterName)}
	h := &redisMetricsHook{
		cmdTotal: b.counter("redis.command.total",
			metric.WithDescription("Total number of Redis commands executed")),
		cmdErrors: b.counter("redis.command.errors",
			metric.WithDescription("Total number of Redis command errors")),
		cmdLatency: b.histogram("redis.command.duration",
			metric.WithUnit("s"),
			metric.WithDescription("Redis command latency in seconds")),
	}
	if b.err != nil {
		return nil, b.err
	}
	if err := registerRedisPoolGauge(b.meter, client); err != nil {
		return nil, err
	}
	return h, nil
}

// Pool saturation is observed on collection rather than recorded per
// command, so an idle pool still reports.
func registerRedisPoolGauge(meter metric.Meter, client redis.UniversalClient) error {
	gauge, err := meter.Float64ObservableGauge(
		"redis.pool.saturation",
		metric.WithUnit("1"),
		metric.WithDescription("Redis pool saturation ratio (used_conns / total_conns)"),
	)
	if err != nil {
		return err
	}
	_, err = meter.RegisterCallback(func(ctx context.Context, observer metric.Observer) error {
		stats := client.PoolStats()
		if stats != nil && stats.TotalConns > 0 {
			used := float64(stats.TotalConns - stats.IdleConns)
			observer.ObserveFloat64(gauge, clampRatio(used/float64(stats.TotalConns)))
		}
		return nil
	}, gauge)
	return err
}

func (h *redisMetricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h *redisMetricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.record(ctx, cmd.Name(), err, time.Since(start))
		return err
	}
}

func (h *redisMetricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)

		h.cmdLatency.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
			attribute.String("command", "pipeline"),
			attribute.String("status", redisCommandStatus(err)),
		))
		// Per-command durations are not observable inside a pipeline;
		// only outcomes are recorded.
		for _, cmd := range cmds {
			h.record(ctx, cmd.Name(), cmd.Err(), 0)
		}
		return err
	}
}

func (h *redisMetricsHook) record(ctx context.Context, name string, err error, duration time.Duration) {
	command := strings.ToLower(name)
	status := redisCommandStatus(err)

	h.cmdTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("command", command),
		attribute.String("status", status),
	))
	if err != nil && err != redis.Nil {
		h.cmdErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("command", command),
			attribute.String("error_type", classifyRedisError(err)),
		))
	}
	if duration > 0 {
		h.cmdLatency.Record(ctx, duration.Seconds(), metric.WithAttributes(
			attribute.String("command", command),
			attribute.String("status", status),
		))
	}
}

func redisCommandStatus(err error) string {
	switch err {
	case nil:
		return "success"
	case redis.Nil:
		return "miss"
	default:
		return "error"
	}
}

func classifyRedisError(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"):
		return "timeout"
	case strings.Contains(msg, "connection"):
		return "connection"
	default:
		return "other"
	}
}

func clampRatio(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
