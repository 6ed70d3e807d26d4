// Package otel provides OpenTelemetry integration for atomcell Domain
// metrics.
//
// This package implements the atomcell.MetricsCollector interface using
// OpenTelemetry, enabling observability of retire/reclaim traffic and
// hazard-slot churn with any OTEL-compatible backend (Prometheus,
// Jaeger, DataDog, Grafana).
//
// # Usage
//
//	import (
//	    "github.com/agilira/atomcell"
//	    atomcellotel "github.com/agilira/atomcell/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//
//	collector, _ := atomcellotel.NewOTelMetricsCollector(provider)
//
//	domain := atomcell.NewDomain(atomcell.DefaultTimedCappedPolicy(),
//	    atomcell.WithMetrics(collector))
//
// # Metrics Exposed
//
//   - atomcell_retire_list_length: Histogram of retire-list length observed on each retire
//   - atomcell_reclaim_freed_total: Counter of entries freed across all bulk_reclaim passes
//   - atomcell_reclaim_survivors_total: Counter of entries re-queued as survivors
//   - atomcell_hazard_acquire_total: Counter of hazard-slot acquisitions that reused a released slot
//   - atomcell_hazard_allocate_total: Counter of hazard-slot acquisitions that allocated a new slot
//   - atomcell_load_retries: Histogram of protect/validate retries per Load
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package otel

import (
	"context"
	"errors"

	"github.com/agilira/atomcell"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetricsCollector implements atomcell.MetricsCollector using
// OpenTelemetry.
//
// Thread-safety: safe for concurrent use; the underlying OTEL
// instruments are themselves thread-safe.
type OTelMetricsCollector struct {
	retireListLen metric.Int64Histogram
	reclaimFreed  metric.Int64Counter
	survivors     metric.Int64Counter
	hazardReused  metric.Int64Counter
	hazardNew     metric.Int64Counter
	loadRetries   metric.Int64Histogram
}

// Options for configuring OTelMetricsCollector.
type Options struct {
	// MeterName is the name of the OpenTelemetry meter.
	// Default: "github.com/agilira/atomcell"
	MeterName string
}

// Option is a functional option for configuring OTelMetricsCollector.
type Option func(*Options)

// WithMeterName sets a custom meter name, useful for distinguishing
// metrics from multiple Domain instances.
func WithMeterName(name string) Option {
	return func(o *Options) {
		o.MeterName = name
	}
}

// NewOTelMetricsCollector creates a new OpenTelemetry metrics collector
// bound to provider. Returns an error if provider is nil or if OTEL
// instrument creation fails.
func NewOTelMetricsCollector(provider metric.MeterProvider, opts ...Option) (*OTelMetricsCollector, error) {
	if provider == nil {
		return nil, errors.New("meter provider cannot be nil")
	}

	options := Options{MeterName: "github.com/agilira/atomcell"}
	for _, opt := range opts {
		opt(&options)
	}

	meter := provider.Meter(options.MeterName)
	collector := &OTelMetricsCollector{}

	var err error
	collector.retireListLen, err = meter.Int64Histogram(
		"atomcell_retire_list_length",
		metric.WithDescription("Retire-list length observed immediately after each retire"),
	)
	if err != nil {
		return nil, err
	}

	collector.reclaimFreed, err = meter.Int64Counter(
		"atomcell_reclaim_freed_total",
		metric.WithDescription("Total entries freed across all bulk_reclaim passes"),
	)
	if err != nil {
		return nil, err
	}

	collector.survivors, err = meter.Int64Counter(
		"atomcell_reclaim_survivors_total",
		metric.WithDescription("Total entries re-queued as survivors across all bulk_reclaim passes"),
	)
	if err != nil {
		return nil, err
	}

	collector.hazardReused, err = meter.Int64Counter(
		"atomcell_hazard_acquire_total",
		metric.WithDescription("Hazard slot acquisitions"),
		metric.WithUnit("{reused}"),
	)
	if err != nil {
		return nil, err
	}

	collector.hazardNew, err = meter.Int64Counter(
		"atomcell_hazard_allocate_total",
		metric.WithDescription("Hazard slot allocations (no released slot available to reuse)"),
	)
	if err != nil {
		return nil, err
	}

	collector.loadRetries, err = meter.Int64Histogram(
		"atomcell_load_retries",
		metric.WithDescription("Protect/validate retries needed per AtomCell.Load"),
	)
	if err != nil {
		return nil, err
	}

	return collector, nil
}

// RecordRetire records the retire-list length observed after a retire.
func (c *OTelMetricsCollector) RecordRetire(retireListLen int64) {
	c.retireListLen.Record(context.Background(), retireListLen)
}

// RecordReclaim records the outcome of one bulk_reclaim pass. durationNs
// is accepted for interface compatibility but not separately recorded;
// callers who need reclaim latency should wrap Domain.Reclaim with a
// span instead.
func (c *OTelMetricsCollector) RecordReclaim(freed, survivorsCount int, durationNs int64) {
	ctx := context.Background()
	c.reclaimFreed.Add(ctx, int64(freed))
	c.survivors.Add(ctx, int64(survivorsCount))
}

// RecordHazardAcquire increments the reused or newly-allocated hazard
// slot counter depending on reused.
func (c *OTelMetricsCollector) RecordHazardAcquire(reused bool) {
	ctx := context.Background()
	if reused {
		c.hazardReused.Add(ctx, 1)
	} else {
		c.hazardNew.Add(ctx, 1)
	}
}

// RecordLoadRetry records the number of protect/validate retries a Load
// needed.
func (c *OTelMetricsCollector) RecordLoadRetry(attempts int) {
	c.loadRetries.Record(context.Background(), int64(attempts))
}

// Compile-time interface check
var _ atomcell.MetricsCollector = (*OTelMetricsCollector)(nil)
