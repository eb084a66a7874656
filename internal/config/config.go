package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// devJWTSecret is only acceptable outside production.
const devJWTSecret = "olprod-dev-secret"

type Config struct {
	ServerPort   string
	Environment  string
	DatabasePath string
	PublicURL    string

	// Sessions
	JWTSecret  string
	SessionTTL time.Duration

	// Remote backends
	ReleasesAPIURL     string
	AuthAPIURL         string
	RemoteClientID     string
	RemoteClientSecret string
	RemoteTokenURL     string
	RemoteTimeout      time.Duration

	// Support assistant; an empty host disables it.
	OllamaHost  string
	OllamaModel string

	// Media validation
	CoverStrict bool
	CoverSize   int
	AudioLimit  int
	MaxUploadMB int

	RateLimitRPS   float64
	RateLimitBurst int
	TrustProxy     bool

	// Logging
	LogFilePath   string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

// Load reads an optional .env file and then the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	return &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		DatabasePath: getEnv("DATABASE_PATH", "olprod.db"),
		PublicURL:    getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),

		JWTSecret:  getEnv("JWT_SECRET", devJWTSecret),
		SessionTTL: getEnvAsDuration("SESSION_TTL", 24*time.Hour),

		ReleasesAPIURL:     getEnv("RELEASES_API_URL", ""),
		AuthAPIURL:         getEnv("AUTH_API_URL", ""),
		RemoteClientID:     getEnv("REMOTE_CLIENT_ID", ""),
		RemoteClientSecret: getEnv("REMOTE_CLIENT_SECRET", ""),
		RemoteTokenURL:     getEnv("REMOTE_TOKEN_URL", ""),
		RemoteTimeout:      getEnvAsDuration("REMOTE_TIMEOUT", 15*time.Second),

		OllamaHost:  getEnv("OLLAMA_HOST", ""),
		OllamaModel: getEnv("OLLAMA_MODEL", "llama3.2"),

		CoverStrict: getEnvAsBool("COVER_STRICT", true),
		CoverSize:   getEnvAsInt("COVER_SIZE", 3000),
		AudioLimit:  getEnvAsInt("AUDIO_LIMIT", 10),
		MaxUploadMB: getEnvAsInt("UPLOAD_MAX_MB", 512),

		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 30),
		TrustProxy:     getEnvAsBool("TRUST_PROXY", false),

		LogFilePath:   getEnv("LOG_FILE_PATH", ""),
		LogMaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 30),
	}
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Validate reports every setting the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.ReleasesAPIURL == "" {
		errs = append(errs, errors.New("RELEASES_API_URL is required"))
	}
	if c.AuthAPIURL == "" {
		errs = append(errs, errors.New("AUTH_API_URL is required"))
	}
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == devJWTSecret) {
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.CoverSize <= 0 {
		errs = append(errs, errors.New("COVER_SIZE must be positive"))
	}
	if c.AudioLimit <= 0 {
		errs = append(errs, errors.New("AUDIO_LIMIT must be positive"))
	}
	if c.MaxUploadMB <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_MB must be positive"))
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		errs = append(errs, errors.New("rate limits must not be negative"))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
