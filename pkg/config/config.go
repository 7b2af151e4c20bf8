package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Data sources
	Worker WorkerConfig
	Naver  NaverConfig
	Quote  QuoteConfig

	// Source resolution
	SourceTimeout time.Duration // per-adapter attempt budget

	// Redis (rate-limit backend)
	Redis RedisConfig

	// Rate limiting (admission check)
	RateLimit RateLimitConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// WorkerConfig holds the pykrx subprocess worker configuration
type WorkerConfig struct {
	Python  string        // python executable
	Script  string        // worker script path
	Timeout time.Duration // bounded execution timeout
}

// NaverConfig holds Naver Finance scraping configuration
type NaverConfig struct {
	BaseURL  string
	ChartURL string
}

// QuoteConfig holds the mobile quote API configuration
type QuoteConfig struct {
	BaseURL string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// RateLimitConfig holds admission-check parameters
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		// Data sources
		Worker: WorkerConfig{
			Python:  getEnv("WORKER_PYTHON", "python3"),
			Script:  getEnv("WORKER_SCRIPT", "scripts/stock_data.py"),
			Timeout: getEnvAsDuration("WORKER_TIMEOUT", "15s"),
		},
		Naver: NaverConfig{
			BaseURL:  getEnv("NAVER_BASE_URL", "https://finance.naver.com"),
			ChartURL: getEnv("NAVER_CHART_URL", "https://fchart.stock.naver.com"),
		},
		Quote: QuoteConfig{
			BaseURL: getEnv("QUOTE_BASE_URL", "https://m.stock.naver.com"),
		},

		SourceTimeout: getEnvAsDuration("SOURCE_TIMEOUT", "15s"),

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// Rate limiting
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 30),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 5),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Worker.Timeout <= 0 {
		return fmt.Errorf("WORKER_TIMEOUT must be positive")
	}

	if c.SourceTimeout <= 0 {
		return fmt.Errorf("SOURCE_TIMEOUT must be positive")
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
