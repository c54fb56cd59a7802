package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	APIPort  string
	LogLevel string

	TaxAPIURL          string
	TaxAPIServiceToken string
	TaxAPITimeout      time.Duration

	TaxAPIRateLimitRPS   float64
	TaxAPIRateLimitBurst int

	RetryMaxAttempts    int
	RetryBaseDelay      time.Duration
	RetryMaxDelay       time.Duration
	BreakerEnabled      bool
	BreakerMinRequests  int
	BreakerFailureRatio float64
	BreakerOpenTimeout  time.Duration

	APIRateLimitRPS   float64
	APIRateLimitBurst int
	APIMaxConcurrent  int
	APIOverloadWait   time.Duration

	NATSURL              string
	NATSRecordsSubject   string
	NATSDashboardSubject string

	WorkerMetricsPort string
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		TaxAPIURL:          mustEnv("TAX_API_URL", "http://localhost:8000"),
		TaxAPIServiceToken: mustEnv("TAX_API_SERVICE_TOKEN", ""),
		TaxAPITimeout:      mustEnvDuration("TAX_API_TIMEOUT", 15*time.Second),

		TaxAPIRateLimitRPS:   mustEnvFloat("TAX_API_RATE_LIMIT_RPS", 50),
		TaxAPIRateLimitBurst: mustEnvInt("TAX_API_RATE_LIMIT_BURST", 100),

		RetryMaxAttempts:    mustEnvInt("RETRY_MAX_ATTEMPTS", 3),
		RetryBaseDelay:      mustEnvDuration("RETRY_BASE_DELAY", 100*time.Millisecond),
		RetryMaxDelay:       mustEnvDuration("RETRY_MAX_DELAY", 2*time.Second),
		BreakerEnabled:      mustEnvBool("BREAKER_ENABLED", true),
		BreakerMinRequests:  mustEnvInt("BREAKER_MIN_REQUESTS", 10),
		BreakerFailureRatio: mustEnvFloat("BREAKER_FAILURE_RATIO", 0.6),
		BreakerOpenTimeout:  mustEnvDuration("BREAKER_OPEN_TIMEOUT", 30*time.Second),

		APIRateLimitRPS:   mustEnvFloat("API_RATE_LIMIT_RPS", 0),
		APIRateLimitBurst: mustEnvInt("API_RATE_LIMIT_BURST", 0),
		APIMaxConcurrent:  mustEnvInt("API_MAX_CONCURRENT", 0),
		APIOverloadWait:   mustEnvDuration("API_OVERLOAD_WAIT", 100*time.Millisecond),

		NATSURL:              mustEnv("NATS_URL", "nats://localhost:4222"),
		NATSRecordsSubject:   mustEnv("NATS_RECORDS_SUBJECT", "taxengine.records.updated"),
		NATSDashboardSubject: mustEnv("NATS_DASHBOARD_SUBJECT", "taxengine.dashboard.updated"),

		WorkerMetricsPort: mustEnv("WORKER_METRICS_PORT", "9090"),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func mustEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}
