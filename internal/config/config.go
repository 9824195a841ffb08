package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

type Config struct {
	Server    ServerConfig
	Upstream  UpstreamConfig
	Dashboard DashboardConfig
	Worker    WorkerConfig
	Auth      AuthConfig
	DB        DatabaseConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
	RateLimit      int // requests per second per client IP
}

// UpstreamConfig describes the flood-risk backend the dashboard reads from.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

type DashboardConfig struct {
	PriorityCount   int
	PredictionHours int
	RefreshInterval time.Duration // 0 disables background refresh
	Locale          string
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

type AuthConfig struct {
	Username     string
	Password     string
	PasswordHash string // bcrypt; takes precedence over Password
	SessionTTL   time.Duration
	CookieSecure bool
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "localhost"),
			Port:           getEnvInt("SERVER_PORT", 8080),
			AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"*"}),
			RateLimit:      getEnvInt("RATE_LIMIT_RPS", 20),
		},
		Upstream: UpstreamConfig{
			BaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8000"), "/"),
			Timeout: getEnvDuration("API_TIMEOUT", 10*time.Second),
		},
		Dashboard: DashboardConfig{
			PriorityCount:   getEnvInt("PRIORITY_COUNT", 5),
			PredictionHours: getEnvInt("PREDICTION_HOURS", 24),
			RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 0),
			Locale:          getEnv("SORT_LOCALE", "en"),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", 1),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 4),
		},
		Auth: AuthConfig{
			Username:     getEnv("ADMIN_USERNAME", "admin"),
			Password:     getEnv("ADMIN_PASSWORD", ""),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			SessionTTL:   getEnvDuration("SESSION_TTL", 12*time.Hour),
			CookieSecure: getEnvBool("COOKIE_SECURE", false),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/ward-dashboard.db"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RateLimit < 1 {
		return fmt.Errorf("rate limit must be at least 1 req/s")
	}

	u, err := url.Parse(c.Upstream.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API_BASE_URL: %q", c.Upstream.BaseURL)
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("API timeout must be positive")
	}

	if c.Dashboard.PriorityCount < 1 {
		return fmt.Errorf("priority count must be at least 1")
	}
	if c.Dashboard.PredictionHours < 1 {
		return fmt.Errorf("prediction hours must be at least 1")
	}
	if c.Dashboard.RefreshInterval != 0 && c.Dashboard.RefreshInterval < 5*time.Second {
		return fmt.Errorf("refresh interval must be 0 or at least 5s")
	}

	if c.Worker.Count < 1 || c.Worker.BufferSize < 1 {
		return fmt.Errorf("worker count and buffer size must be positive")
	}

	if _, err := language.Parse(c.Dashboard.Locale); err != nil {
		return fmt.Errorf("invalid SORT_LOCALE %q: %w", c.Dashboard.Locale, err)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	return nil
}

// Validate is only needed by the service; the report CLI never logs in.
func (a AuthConfig) Validate() error {
	if a.Username == "" {
		return fmt.Errorf("ADMIN_USERNAME must not be empty")
	}
	if a.Password == "" && a.PasswordHash == "" {
		return fmt.Errorf("one of ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required")
	}
	if a.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
