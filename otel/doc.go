// Architecture:
//
//	┌─────────────────────────────────────┐
//	│      atomcell (Core Module)         │
//	│  • No OTEL dependencies             │
//	│  • MetricsCollector interface       │
//	│  • NoOpMetricsCollector (default)   │
//	└──────────────┬──────────────────────┘
//	               │ implements
//	               ▼
//	┌─────────────────────────────────────┐
//	│     atomcell/otel (This Package)    │
//	│  • OTelMetricsCollector             │
//	│  • OTEL SDK dependencies            │
//	│  • Histograms + Counters            │
//	└──────────────┬──────────────────────┘
//	               │ exports to
//	               ▼
//	┌─────────────────────────────────────┐
//	│      OTEL MeterProvider             │
//	└──────────────┬──────────────────────┘
//	     ┌─────────┴──────┬────────┐
//	     ▼                ▼        ▼
//	Prometheus        Jaeger   DataDog
//
// Keeping this as a separate package means applications that don't need
// metrics don't pay for the OTEL dependency tree; the core module only
// depends on the MetricsCollector interface.
//
// Example Prometheus query for reclaim yield over time:
//
//	rate(atomcell_reclaim_freed_total[5m])
//
// The Usage section of the package documentation shows a Prometheus
// exporter wired to this collector and a Domain.
package otel
