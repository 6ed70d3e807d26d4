// config.go: configuration for a Domain
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package atomcell

// DomainConfig holds the ambient configuration for a Domain: logging,
// timing, and metrics collection. The ReclaimPolicy itself is passed
// directly to NewDomain since it is not optional.
type DomainConfig struct {
	// Logger is used for diagnostic logging (reclaim summaries, and as
	// the default logger of a DomainReload). If nil, NoOpLogger is used.
	Logger Logger

	// TimeProvider provides current time for TimedCappedPolicy's
	// next-sync deadline math. If nil, a cached system clock is used.
	TimeProvider TimeProvider

	// MetricsCollector collects operation metrics (retire/reclaim
	// counts, hazard-slot churn, load retries). If nil,
	// NoOpMetricsCollector is used (zero overhead).
	MetricsCollector MetricsCollector
}

// Validate applies sensible defaults in place. Returns nil: there is no
// invalid DomainConfig value, only normalization.
func (c *DomainConfig) Validate() error {
	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}
	if c.TimeProvider == nil {
		c.TimeProvider = systemTimeProvider{}
	}
	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}
	return nil
}

// DefaultDomainConfig returns a DomainConfig with sensible defaults.
func DefaultDomainConfig() DomainConfig {
	return DomainConfig{
		Logger:           NoOpLogger{},
		TimeProvider:     systemTimeProvider{},
		MetricsCollector: NoOpMetricsCollector{},
	}
}

// DomainOption configures a Domain at construction time.
type DomainOption func(*DomainConfig)

// WithLogger sets the Domain's Logger.
func WithLogger(l Logger) DomainOption {
	return func(c *DomainConfig) { c.Logger = l }
}

// WithTimeProvider sets the Domain's TimeProvider.
func WithTimeProvider(tp TimeProvider) DomainOption {
	return func(c *DomainConfig) { c.TimeProvider = tp }
}

// WithMetrics sets the Domain's MetricsCollector.
func WithMetrics(m MetricsCollector) DomainOption {
	return func(c *DomainConfig) { c.MetricsCollector = m }
}
