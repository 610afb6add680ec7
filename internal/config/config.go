package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/sports-calendar/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	LogLevel           logging.Level
	CORSAllowedOrigins []string
	InternalJobToken   string

	FetchTimeout               time.Duration
	FetchUserAgent             string
	FetchRatePerSecond         float64
	FetchRateBurst             int
	FetchCircuitEnabled        bool
	FetchCircuitFailureCount   int
	FetchCircuitOpenTimeout    time.Duration
	FetchCircuitHalfOpenMaxReq int

	FeedCacheTTL                 time.Duration
	FeedHTTPCacheMaxAge          time.Duration
	FeedHTTPStaleWhileRevalidate time.Duration
	FeedPartialFailurePolicy     string
	FeedRedisURL                 string
	FeedRedisKey                 string
	ScoreboardLimit              int
	ScoreboardMaxWorkers         int
	SourcesConfigPath            string
	Sources                      Sources

	MetricsEnabled             bool
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "sports-calendar-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		LogLevel:           logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		InternalJobToken:   strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		FetchUserAgent:     strings.TrimSpace(getEnv("FETCH_USER_AGENT", "sports-calendar/1.0 (+https://github.com/riskibarqy/sports-calendar)")),
		FeedRedisURL:       strings.TrimSpace(getEnv("FEED_REDIS_URL", "")),
		FeedRedisKey:       strings.TrimSpace(getEnv("FEED_REDIS_KEY", "sports-calendar:feed:snapshot")),
		SourcesConfigPath:  strings.TrimSpace(getEnv("SOURCES_CONFIG_PATH", "")),
		PprofAddr:          strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
		UptraceDSN:         strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}

	if cfg.ReadTimeout, err = getEnvAsDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = getEnvAsDuration("APP_WRITE_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}
	if cfg.FetchTimeout, err = getEnvAsDuration("FETCH_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}

	cfg.FetchRatePerSecond, err = strconv.ParseFloat(getEnv("FETCH_RATE_PER_SECOND", "5"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse FETCH_RATE_PER_SECOND: %w", err)
	}
	if cfg.FetchRatePerSecond < 0 {
		return Config{}, fmt.Errorf("FETCH_RATE_PER_SECOND must be >= 0")
	}
	if cfg.FetchRateBurst, err = getEnvAsInt("FETCH_RATE_BURST", 5); err != nil {
		return Config{}, fmt.Errorf("parse FETCH_RATE_BURST: %w", err)
	}
	if cfg.FetchRateBurst < 1 {
		return Config{}, fmt.Errorf("FETCH_RATE_BURST must be >= 1")
	}

	if cfg.FetchCircuitEnabled, err = strconv.ParseBool(getEnv("FETCH_CIRCUIT_ENABLED", "true")); err != nil {
		return Config{}, fmt.Errorf("parse FETCH_CIRCUIT_ENABLED: %w", err)
	}
	if cfg.FetchCircuitFailureCount, err = getEnvAsInt("FETCH_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return Config{}, fmt.Errorf("parse FETCH_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.FetchCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("FETCH_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	if cfg.FetchCircuitOpenTimeout, err = getEnvAsDuration("FETCH_CIRCUIT_OPEN_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}
	if cfg.FetchCircuitHalfOpenMaxReq, err = getEnvAsInt("FETCH_CIRCUIT_HALF_OPEN_MAX_REQ", 1); err != nil {
		return Config{}, fmt.Errorf("parse FETCH_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cfg.FetchCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("FETCH_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	if cfg.FeedCacheTTL, err = getEnvAsDuration("FEED_CACHE_TTL", "1h"); err != nil {
		return Config{}, err
	}
	if cfg.FeedHTTPCacheMaxAge, err = getEnvAsDuration("FEED_HTTP_CACHE_MAX_AGE", "30m"); err != nil {
		return Config{}, err
	}
	if cfg.FeedHTTPStaleWhileRevalidate, err = getEnvAsDuration("FEED_HTTP_STALE_WHILE_REVALIDATE", "10m"); err != nil {
		return Config{}, err
	}
	cfg.FeedPartialFailurePolicy = strings.ToLower(strings.TrimSpace(getEnv("FEED_PARTIAL_FAILURE_POLICY", "tolerate")))
	switch cfg.FeedPartialFailurePolicy {
	case "tolerate", "strict":
	default:
		return Config{}, fmt.Errorf("invalid FEED_PARTIAL_FAILURE_POLICY %q: valid values are tolerate, strict", cfg.FeedPartialFailurePolicy)
	}

	if cfg.ScoreboardLimit, err = getEnvAsInt("SCOREBOARD_LIMIT", 200); err != nil {
		return Config{}, fmt.Errorf("parse SCOREBOARD_LIMIT: %w", err)
	}
	if cfg.ScoreboardLimit < 1 {
		return Config{}, fmt.Errorf("SCOREBOARD_LIMIT must be >= 1")
	}
	if cfg.ScoreboardMaxWorkers, err = getEnvAsInt("SCOREBOARD_MAX_WORKERS", 4); err != nil {
		return Config{}, fmt.Errorf("parse SCOREBOARD_MAX_WORKERS: %w", err)
	}
	if cfg.ScoreboardMaxWorkers < 1 {
		return Config{}, fmt.Errorf("SCOREBOARD_MAX_WORKERS must be >= 1")
	}

	if cfg.MetricsEnabled, err = strconv.ParseBool(getEnv("METRICS_ENABLED", "true")); err != nil {
		return Config{}, fmt.Errorf("parse METRICS_ENABLED: %w", err)
	}

	if cfg.PprofEnabled, err = strconv.ParseBool(getEnv("PPROF_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	if cfg.UptraceEnabled, err = strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if cfg.UptraceLogsEnabled, err = strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true")); err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	if cfg.PyroscopeEnabled, err = strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	if cfg.PyroscopeUploadRate, err = getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return Config{}, err
	}

	if cfg.Sources, err = LoadSources(cfg.SourcesConfigPath); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

// getEnvAsDuration parses a positive duration.
func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
