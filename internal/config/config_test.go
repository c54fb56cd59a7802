package config

import (
	"testing"
	"time"
)

func TestLoadUsesResilienceDefaults(t *testing.T) {
	t.Setenv("RETRY_MAX_ATTEMPTS", "")
	t.Setenv("RETRY_BASE_DELAY", "")
	t.Setenv("BREAKER_ENABLED", "")
	t.Setenv("BREAKER_FAILURE_RATIO", "")
	t.Setenv("TAX_API_TIMEOUT", "")

	cfg := Load()
	if cfg.RetryMaxAttempts != 3 {
		t.Fatalf("expected default retry attempts 3, got %d", cfg.RetryMaxAttempts)
	}
	if cfg.RetryBaseDelay != 100*time.Millisecond {
		t.Fatalf("expected default base delay 100ms, got %s", cfg.RetryBaseDelay)
	}
	if !cfg.BreakerEnabled {
		t.Fatalf("expected breaker enabled by default")
	}
	if cfg.BreakerFailureRatio != 0.6 {
		t.Fatalf("expected default failure ratio 0.6, got %v", cfg.BreakerFailureRatio)
	}
	if cfg.TaxAPITimeout != 15*time.Second {
		t.Fatalf("expected default upstream timeout 15s, got %s", cfg.TaxAPITimeout)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("TAX_API_URL", "https://tax.example.com")
	t.Setenv("TAX_API_TIMEOUT", "5s")
	t.Setenv("TAX_API_RATE_LIMIT_RPS", "12.5")
	t.Setenv("API_MAX_CONCURRENT", "64")
	t.Setenv("NATS_RECORDS_SUBJECT", "records.custom")
	t.Setenv("BREAKER_ENABLED", "false")

	cfg := Load()
	if cfg.TaxAPIURL != "https://tax.example.com" {
		t.Fatalf("expected upstream url override, got %q", cfg.TaxAPIURL)
	}
	if cfg.TaxAPITimeout != 5*time.Second {
		t.Fatalf("expected timeout 5s, got %s", cfg.TaxAPITimeout)
	}
	if cfg.TaxAPIRateLimitRPS != 12.5 {
		t.Fatalf("expected rate limit 12.5, got %v", cfg.TaxAPIRateLimitRPS)
	}
	if cfg.APIMaxConcurrent != 64 {
		t.Fatalf("expected max concurrent 64, got %d", cfg.APIMaxConcurrent)
	}
	if cfg.NATSRecordsSubject != "records.custom" {
		t.Fatalf("expected subject override, got %q", cfg.NATSRecordsSubject)
	}
	if cfg.BreakerEnabled {
		t.Fatalf("expected breaker disabled")
	}
}

func TestLoadFallsBackOnInvalidValues(t *testing.T) {
	t.Setenv("RETRY_MAX_ATTEMPTS", "many")
	t.Setenv("TAX_API_TIMEOUT", "soon")
	t.Setenv("BREAKER_FAILURE_RATIO", "most")

	cfg := Load()
	if cfg.RetryMaxAttempts != 3 {
		t.Fatalf("expected fallback retry attempts 3, got %d", cfg.RetryMaxAttempts)
	}
	if cfg.TaxAPITimeout != 15*time.Second {
		t.Fatalf("expected fallback timeout 15s, got %s", cfg.TaxAPITimeout)
	}
	if cfg.BreakerFailureRatio != 0.6 {
		t.Fatalf("expected fallback failure ratio 0.6, got %v", cfg.BreakerFailureRatio)
	}
}
