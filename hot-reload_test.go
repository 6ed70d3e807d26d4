// hot-reload_test.go: tests for dynamic reclaim-policy reconfiguration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package atomcell

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestNewDomainReload(t *testing.T) {
	policy := DefaultTimedCappedPolicy()
	domain := NewDomain(policy)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test-config.yaml")

	initialConfig := `reclaim:
  retired_threshold: 1000
  hazard_multiplier: 2
  period: "2s"
`
	if err := os.WriteFile(configPath, []byte(initialConfig), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	dr, err := NewDomainReload(domain, policy, DomainReloadOptions{
		ConfigPath:   configPath,
		PollInterval: 100 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewDomainReload failed: %v", err)
	}
	defer func() { _ = dr.Stop() }()

	if dr == nil {
		t.Fatal("Expected non-nil DomainReload")
	}
	if dr.domain != domain {
		t.Error("DomainReload domain reference mismatch")
	}
	if dr.watcher == nil {
		t.Error("Expected non-nil watcher")
	}
}

func TestNewDomainReload_EmptyPath(t *testing.T) {
	policy := DefaultTimedCappedPolicy()
	domain := NewDomain(policy)

	_, err := NewDomainReload(domain, policy, DomainReloadOptions{ConfigPath: ""})
	if err == nil {
		t.Error("Expected error for empty config path")
	}
	if GetErrorCode(err) != ErrCodeInvalidConfigPath {
		t.Errorf("expected ErrCodeInvalidConfigPath, got %v", GetErrorCode(err))
	}
}

func TestDomainReload_StartStop(t *testing.T) {
	policy := DefaultTimedCappedPolicy()
	domain := NewDomain(policy)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test-config.yaml")

	config := `reclaim:
  retired_threshold: 500
`
	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	dr, err := NewDomainReload(domain, policy, DomainReloadOptions{
		ConfigPath:   configPath,
		PollInterval: 100 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewDomainReload failed: %v", err)
	}

	if err := dr.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	if err := dr.Stop(); err != nil {
		t.Errorf("Failed to stop: %v", err)
	}
}

func TestDomainReload_ConfigReload(t *testing.T) {
	policy := DefaultTimedCappedPolicy()
	domain := NewDomain(policy)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test-config.yaml")

	initialConfig := `reclaim:
  retired_threshold: 1000
  hazard_multiplier: 2
  period: "2s"
`
	if err := os.WriteFile(configPath, []byte(initialConfig), 0644); err != nil {
		t.Fatalf("Failed to write initial config: %v", err)
	}

	var mu sync.Mutex
	reloadCount := 0
	reloadCh := make(chan struct {
		RetiredThreshold int64
		HazardMultiplier int64
		Period           time.Duration
	}, 2)

	dr, err := NewDomainReload(domain, policy, DomainReloadOptions{
		ConfigPath:   configPath,
		PollInterval: 50 * time.Millisecond,
		OnReload: func(retiredThreshold, hazardMultiplier int64, period time.Duration) {
			mu.Lock()
			reloadCount++
			mu.Unlock()
			select {
			case reloadCh <- struct {
				RetiredThreshold int64
				HazardMultiplier int64
				Period           time.Duration
			}{retiredThreshold, hazardMultiplier, period}:
			default:
			}
		},
	})
	if err != nil {
		t.Fatalf("NewDomainReload failed: %v", err)
	}
	defer func() { _ = dr.Stop() }()

	if err := dr.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if !dr.watcher.IsRunning() {
		t.Fatal("Watcher is not running after Start()")
	}

	select {
	case initial := <-reloadCh:
		if initial.RetiredThreshold != 1000 {
			t.Fatalf("Initial config wrong: RetiredThreshold=%d, expected 1000", initial.RetiredThreshold)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timeout waiting for initial config load")
	}

	time.Sleep(1500 * time.Millisecond)

	updatedConfig := `reclaim:
  retired_threshold: 2000
  hazard_multiplier: 3
  period: "5s"
`
	tempPath := configPath + ".tmp"
	if err := os.WriteFile(tempPath, []byte(updatedConfig), 0644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}
	if err := os.Rename(tempPath, configPath); err != nil {
		t.Fatalf("Failed to rename config: %v", err)
	}
	if file, err := os.Open(configPath); err == nil {
		_ = file.Sync()
		_ = file.Close()
	}

	select {
	case updated := <-reloadCh:
		if updated.RetiredThreshold != 2000 {
			t.Errorf("Expected RetiredThreshold=2000, got %d", updated.RetiredThreshold)
		}
		if updated.HazardMultiplier != 3 {
			t.Errorf("Expected HazardMultiplier=3, got %d", updated.HazardMultiplier)
		}
		if updated.Period != 5*time.Second {
			t.Errorf("Expected Period=5s, got %v", updated.Period)
		}
	case <-time.After(3 * time.Second):
		mu.Lock()
		count := reloadCount
		mu.Unlock()
		t.Fatalf("Timeout waiting for config reload. reloadCount=%d (expected at least 2)", count)
	}

	mu.Lock()
	finalCount := reloadCount
	mu.Unlock()
	if finalCount < 2 {
		t.Errorf("Expected at least 2 reload events (initial + update), got %d", finalCount)
	}

	if policy.RetiredThreshold() != 2000 {
		t.Errorf("policy.RetiredThreshold = %d, want 2000", policy.RetiredThreshold())
	}

	// Prove the reload reaches the policy domain actually reclaims with,
	// not just a second, disconnected TimedCappedPolicy instance: a
	// retire count of 1500 would have crossed the original threshold of
	// 1000 but must no longer cross the reloaded threshold of 2000.
	if domain.policy.shouldReclaim(domain.clock, 0, 1500) {
		t.Error("domain's live policy did not pick up the reloaded RetiredThreshold")
	}
}

func TestDomainReload_ParsePositiveInt64(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  int64
		ok    bool
	}{
		{"positive int", int(5), 5, true},
		{"positive int64", int64(10), 10, true},
		{"positive float64", float64(7), 7, true},
		{"zero int rejected", int(0), 0, false},
		{"negative int rejected", int(-1), 0, false},
		{"string rejected", "5", 0, false},
		{"nil rejected", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parsePositiveInt64(tt.value)
			if ok != tt.ok || got != tt.want {
				t.Errorf("parsePositiveInt64(%v) = (%v, %v), want (%v, %v)", tt.value, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDomainReload_ParseDuration(t *testing.T) {
	d, ok := parseDuration("5s")
	if !ok || d != 5*time.Second {
		t.Errorf("parseDuration(\"5s\") = (%v, %v), want (5s, true)", d, ok)
	}

	if _, ok := parseDuration("not-a-duration"); ok {
		t.Error("expected parseDuration to reject an invalid string")
	}
	if _, ok := parseDuration(42); ok {
		t.Error("expected parseDuration to reject a non-string value")
	}
}

func TestDomainReload_JSONFormat(t *testing.T) {
	policy := DefaultTimedCappedPolicy()
	domain := NewDomain(policy)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test-config.json")

	jsonConfig := `{
  "reclaim": {
    "retired_threshold": 3000,
    "hazard_multiplier": 4,
    "period": "10s"
  }
}`
	if err := os.WriteFile(configPath, []byte(jsonConfig), 0644); err != nil {
		t.Fatalf("Failed to write JSON config: %v", err)
	}

	reloadCh := make(chan int64, 1)
	dr, err := NewDomainReload(domain, policy, DomainReloadOptions{
		ConfigPath:   configPath,
		PollInterval: 100 * time.Millisecond,
		OnReload: func(retiredThreshold, hazardMultiplier int64, period time.Duration) {
			select {
			case reloadCh <- retiredThreshold:
			default:
			}
		},
	})
	if err != nil {
		t.Fatalf("NewDomainReload failed: %v", err)
	}
	defer func() { _ = dr.Stop() }()

	if err := dr.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	select {
	case threshold := <-reloadCh:
		if threshold != 3000 {
			t.Errorf("Expected RetiredThreshold=3000, got %d", threshold)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timeout waiting for JSON config load")
	}
}

func BenchmarkDomainReload_HandleConfigChange(b *testing.B) {
	policy := DefaultTimedCappedPolicy()
	domain := NewDomain(policy)
	tempDir := b.TempDir()
	configPath := filepath.Join(tempDir, "bench-config.yaml")

	if err := os.WriteFile(configPath, []byte("reclaim: {retired_threshold: 1000}"), 0644); err != nil {
		b.Fatalf("Failed to write config: %v", err)
	}

	dr, err := NewDomainReload(domain, policy, DomainReloadOptions{ConfigPath: configPath})
	if err != nil {
		b.Fatalf("NewDomainReload failed: %v", err)
	}
	defer func() { _ = dr.Stop() }()

	data := map[string]interface{}{
		"reclaim": map[string]interface{}{
			"retired_threshold": float64(1000),
			"hazard_multiplier": float64(2),
			"period":            "2s",
		},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		dr.handleConfigChange(data)
	}
}
