// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, database selection, the upstream ATS
// connection, background sync, rate limiting, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "job-board-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// DBConfig selects and parameterizes the database driver.
type DBConfig struct {
	Driver  string // DB_DRIVER: sqlite|postgres
	Path    string // DB_PATH (sqlite)
	URL     string // DATABASE_URL (postgres DSN)
	Tracing bool   // mirrors OTEL_ENABLED; installs the gorm tracing plugin
}

// ATSConfig describes the upstream applicant-tracking-system API.
type ATSConfig struct {
	BaseURL  string        // ATS_BASE_URL
	APIKey   string        // ATS_API_KEY (sent as basic-auth user)
	Timeout  time.Duration // ATS_TIMEOUT
	RPS      float64       // ATS_RPS outbound requests per second (0 = unlimited)
	Burst    int           // ATS_BURST
	MaxBytes int64         // ATS_MAX_BYTES response body cap
}

// SyncConfig controls the background ATS → database sync.
type SyncConfig struct {
	Enabled  bool          // SYNC_ENABLED
	Interval time.Duration // SYNC_INTERVAL
	LockPath string        // SYNC_LOCK_PATH
	Timeout  time.Duration // SYNC_TIMEOUT per run
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// Storage / upstream
	DB   DBConfig
	ATS  ATSConfig
	Sync SyncConfig

	// Search
	SearchMaxCandidates int // rows ranked in memory when q is present

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

	// Admin
	AdminToken string // enables POST /admin/sync when non-empty

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	otelEnabled := getbool("OTEL_ENABLED", false)
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		DB: DBConfig{
			Driver:  strings.ToLower(getenv("DB_DRIVER", "sqlite")),
			Path:    getenv("DB_PATH", "jobs.db"),
			URL:     getenv("DATABASE_URL", ""),
			Tracing: otelEnabled,
		},
		ATS: ATSConfig{
			BaseURL:  strings.TrimRight(getenv("ATS_BASE_URL", "http://localhost:9090"), "/"),
			APIKey:   getenv("ATS_API_KEY", ""),
			Timeout:  getdur("ATS_TIMEOUT", 15*time.Second),
			RPS:      getfloat("ATS_RPS", 5.0),
			Burst:    getint("ATS_BURST", 5),
			MaxBytes: int64(getint("ATS_MAX_BYTES", 5<<20)),
		},
		Sync: SyncConfig{
			Enabled:  getbool("SYNC_ENABLED", true),
			Interval: getdur("SYNC_INTERVAL", 15*time.Minute),
			LockPath: getenv("SYNC_LOCK_PATH", "ats-sync.lock"),
			Timeout:  getdur("SYNC_TIMEOUT", 2*time.Minute),
		},

		SearchMaxCandidates: getint("SEARCH_MAX_CANDIDATES", 2000),

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Idempotency
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		AdminToken: strings.TrimSpace(getenv("ADMIN_TOKEN", "")),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     otelEnabled,
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "job-board-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	if cfg.DB.Driver == "postgresql" || cfg.DB.Driver == "pg" {
		cfg.DB.Driver = "postgres"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	switch cfg.DB.Driver {
	case "sqlite":
		if strings.TrimSpace(cfg.DB.Path) == "" {
			return cfg, errors.New("DB_PATH must not be empty")
		}
	case "postgres":
		if strings.TrimSpace(cfg.DB.URL) == "" {
			return cfg, errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return cfg, errors.New("DB_DRIVER must be one of: sqlite, postgres")
	}
	if !strings.HasPrefix(cfg.ATS.BaseURL, "http://") && !strings.HasPrefix(cfg.ATS.BaseURL, "https://") {
		return cfg, errors.New("ATS_BASE_URL must be an http(s) URL")
	}
	if cfg.ATS.Timeout <= 0 {
		return cfg, errors.New("ATS_TIMEOUT must be > 0")
	}
	if cfg.ATS.RPS < 0 {
		return cfg, errors.New("ATS_RPS must be >= 0")
	}
	if cfg.ATS.Burst < 1 {
		return cfg, errors.New("ATS_BURST must be >= 1")
	}
	if cfg.ATS.MaxBytes <= 0 {
		return cfg, errors.New("ATS_MAX_BYTES must be > 0")
	}
	if cfg.Sync.Enabled {
		if cfg.Sync.Interval <= 0 || cfg.Sync.Timeout <= 0 {
			return cfg, errors.New("SYNC_INTERVAL and SYNC_TIMEOUT must be positive durations")
		}
		if strings.TrimSpace(cfg.Sync.LockPath) == "" {
			return cfg, errors.New("SYNC_LOCK_PATH must not be empty")
		}
	}
	if cfg.SearchMaxCandidates < 1 {
		return cfg, errors.New("SEARCH_MAX_CANDIDATES must be >= 1")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
