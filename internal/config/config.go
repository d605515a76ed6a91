package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port           string
	AllowedOrigins []string
	Environment    string

	// Listings API
	APIBaseURL string
	APITimeout time.Duration
	PageSize   int

	// Redis
	RedisURL string
	RedisDB  int
	CacheTTL time.Duration

	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int

	// Logging
	LogLevel  string
	LogFormat string

	// Browse sessions
	SessionTTL time.Duration

	// Listing previews
	PreviewEnabled        bool
	PreviewAllowedDomains []string
	BrowserEnabled        bool
	ChromePath            string
}

// Load reads .env when present, then the environment.
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the config from the process environment only.
func FromEnv() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getListEnv("ALLOWED_ORIGINS", []string{"*"}),
		Environment:    getEnv("ENVIRONMENT", "development"),

		APIBaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8001"), "/"),
		APITimeout: getDurationEnv("API_TIMEOUT_SECONDS", 15) * time.Second,
		PageSize:   getIntEnv("PAGE_SIZE", 40),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),
		RedisDB:  getIntEnv("REDIS_DB", 0),
		CacheTTL: getDurationEnv("CACHE_TTL", 600) * time.Second,

		RateLimitRPS:   getFloatEnv("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 20),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		SessionTTL: getDurationEnv("SESSION_TTL_MINUTES", 30) * time.Minute,

		PreviewEnabled: getBoolEnv("PREVIEW_ENABLED", true),
		PreviewAllowedDomains: getListEnv("PREVIEW_ALLOWED_DOMAINS", []string{
			"dubizzle.sa", "www.dubizzle.sa",
			"syarah.com", "www.syarah.com",
			"carswitch.com", "ksa.carswitch.com",
			"opensooq.sa", "sa.opensooq.com",
		}),
		BrowserEnabled: getBoolEnv("BROWSER_ENABLED", false),
		ChromePath:     getEnv("CHROME_PATH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return time.Duration(intVal)
		}
	}
	return time.Duration(defaultValue)
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
