// hot-reload.go: dynamic reclaim-policy tuning via Argus
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package atomcell

import (
	"sync"
	"time"

	"github.com/agilira/argus"
)

// DomainReload provides live tuning of a Domain's TimedCappedPolicy
// thresholds by watching a configuration file. It has no effect on a
// Domain constructed with EagerPolicy or ManualPolicy.
type DomainReload struct {
	domain  *Domain
	policy  *TimedCappedPolicy
	watcher *argus.Watcher
	mu      sync.RWMutex
	logger  Logger

	// OnReload is called after thresholds are successfully reloaded.
	// Optional, must be fast and non-blocking.
	OnReload func(retiredThreshold, hazardMultiplier int64, period time.Duration)
}

// DomainReloadOptions configures hot reload behavior.
type DomainReloadOptions struct {
	// ConfigPath is the path to the configuration file to watch.
	// Supports JSON, YAML, TOML, HCL, INI, Properties formats, per Argus.
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	OnReload func(retiredThreshold, hazardMultiplier int64, period time.Duration)

	Logger Logger
}

// NewDomainReload starts watching ConfigPath for changes to
// reclaim.retired_threshold, reclaim.hazard_multiplier, and
// reclaim.period, applying them to policy as they change.
//
// Supported keys (all optional, missing keys leave the threshold
// unchanged):
//
//	reclaim:
//	  retired_threshold: 2000
//	  hazard_multiplier: 3
//	  period: "5s"
func NewDomainReload(domain *Domain, policy *TimedCappedPolicy, opts DomainReloadOptions) (*DomainReload, error) {
	if opts.ConfigPath == "" {
		return nil, NewErrInvalidConfigPath()
	}
	if opts.PollInterval == 0 {
		opts.PollInterval = 1 * time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = domain.logger
	}

	dr := &DomainReload{
		domain:   domain,
		policy:   policy,
		OnReload: opts.OnReload,
		logger:   opts.Logger,
	}

	argusConfig := argus.Config{PollInterval: opts.PollInterval}
	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, dr.handleConfigChange, argusConfig)
	if err != nil {
		return nil, err
	}
	dr.watcher = watcher

	return dr, nil
}

// Start begins watching the configuration file for changes.
func (dr *DomainReload) Start() error {
	if dr.watcher.IsRunning() {
		return nil
	}
	return dr.watcher.Start()
}

// Stop stops watching the configuration file.
func (dr *DomainReload) Stop() error {
	return dr.watcher.Stop()
}

func (dr *DomainReload) handleConfigChange(data map[string]interface{}) {
	dr.mu.Lock()
	defer dr.mu.Unlock()

	section, ok := data["reclaim"].(map[string]interface{})
	if !ok {
		section = data
	}

	retiredThreshold := dr.policy.RetiredThreshold()
	hazardMultiplier := dr.policy.HazardMultiplier()
	period := dr.policy.Period()

	if v, ok := parsePositiveInt64(section["retired_threshold"]); ok {
		retiredThreshold = v
	}
	if v, ok := parsePositiveInt64(section["hazard_multiplier"]); ok {
		hazardMultiplier = v
	}
	if d, ok := parseDuration(section["period"]); ok {
		period = d
	}

	dr.policy.SetThresholds(retiredThreshold, hazardMultiplier)
	dr.policy.SetPeriod(period)

	dr.logger.Info("atomcell: reclaim policy reloaded",
		"retired_threshold", retiredThreshold,
		"hazard_multiplier", hazardMultiplier,
		"period", period)

	if dr.OnReload != nil {
		dr.OnReload(retiredThreshold, hazardMultiplier, period)
	}
}

// parsePositiveInt64 extracts a positive integer from interface{},
// tolerating both int and float64 (YAML/JSON decode differently).
func parsePositiveInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int:
		if v > 0 {
			return int64(v), true
		}
	case int64:
		if v > 0 {
			return v, true
		}
	case float64:
		if v > 0 {
			return int64(v), true
		}
	}
	return 0, false
}

// parseDuration extracts a time.Duration from a string value.
func parseDuration(value interface{}) (time.Duration, bool) {
	if str, ok := value.(string); ok {
		if d, err := time.ParseDuration(str); err == nil {
			return d, true
		}
	}
	return 0, false
}
