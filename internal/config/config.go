package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ennanuel/score-plug-backend-sub000/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	LogLevel                logging.Level
	CORSAllowedOrigins      []string
	DBEnabled               bool
	DBURL                   string
	FootballDataBaseURL     string
	FootballDataToken       string
	FootballDataTimeout     time.Duration
	FootballDataMaxRetries  int
	FootballDataMinInterval time.Duration
	FootballDataCooldown    time.Duration
	SyncInterval            time.Duration
	UpdateToken             string
	CacheEnabled            bool
	CacheTTL                time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	dbEnabled, err := strconv.ParseBool(getEnv("DB_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_ENABLED: %w", err)
	}
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if dbEnabled && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when DB_ENABLED=true")
	}

	providerTimeout, err := time.ParseDuration(getEnv("FOOTBALLDATA_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALLDATA_TIMEOUT: %w", err)
	}
	if providerTimeout <= 0 {
		return Config{}, fmt.Errorf("FOOTBALLDATA_TIMEOUT must be > 0")
	}

	// A failed fetch propagates immediately; retries are opt-in because every
	// extra attempt burns a slot of the upstream quota.
	providerMaxRetries, err := getEnvAsInt("FOOTBALLDATA_MAX_RETRIES", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALLDATA_MAX_RETRIES: %w", err)
	}
	if providerMaxRetries < 0 {
		return Config{}, fmt.Errorf("FOOTBALLDATA_MAX_RETRIES must be >= 0")
	}

	// The free provider tier allows 10 requests per minute; 6s between calls
	// stays just inside it.
	providerMinInterval, err := time.ParseDuration(getEnv("FOOTBALLDATA_MIN_INTERVAL", "6s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALLDATA_MIN_INTERVAL: %w", err)
	}
	if providerMinInterval <= 0 {
		return Config{}, fmt.Errorf("FOOTBALLDATA_MIN_INTERVAL must be > 0")
	}

	providerCooldown, err := time.ParseDuration(getEnv("FOOTBALLDATA_COOLDOWN", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALLDATA_COOLDOWN: %w", err)
	}
	if providerCooldown <= 0 {
		return Config{}, fmt.Errorf("FOOTBALLDATA_COOLDOWN must be > 0")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	syncInterval, err := time.ParseDuration(getEnv("SYNC_INTERVAL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_INTERVAL: %w", err)
	}
	if syncInterval <= 0 {
		return Config{}, fmt.Errorf("SYNC_INTERVAL must be > 0")
	}

	cfg := Config{
		AppEnv:                  appEnv,
		ServiceName:             getEnv("APP_SERVICE_NAME", "score-plug-api"),
		ServiceVersion:          getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:             readTimeout,
		WriteTimeout:            writeTimeout,
		LogLevel:                parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		CORSAllowedOrigins:      splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		DBEnabled:               dbEnabled,
		DBURL:                   dbURL,
		FootballDataBaseURL:     strings.TrimSpace(getEnv("FOOTBALLDATA_BASE_URL", "https://api.football-data.org/v4")),
		FootballDataToken:       strings.TrimSpace(getEnv("FOOTBALLDATA_TOKEN", "")),
		FootballDataTimeout:     providerTimeout,
		FootballDataMaxRetries:  providerMaxRetries,
		FootballDataMinInterval: providerMinInterval,
		FootballDataCooldown:    providerCooldown,
		SyncInterval:            syncInterval,
		UpdateToken:             strings.TrimSpace(getEnv("UPDATE_TOKEN", "")),
		CacheEnabled:            cacheEnabled,
		CacheTTL:                cacheTTL,
	}

	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.AppEnv == EnvProd && cfg.FootballDataToken == "" {
		return Config{}, fmt.Errorf("FOOTBALLDATA_TOKEN is required in prod")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
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
