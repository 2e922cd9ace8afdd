package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration
	DBDriver   string
	SQLitePath string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Rate limits, requests per user per hour
	CheckupRateLimit int
	ChatRateLimit    int

	// JWT configuration
	JWTSecret string

	// Model artifacts
	ArtifactDir string
	S3Bucket    string
	S3Prefix    string
	S3Endpoint  string
	AWSRegion   string

	// Chat assistant
	GeminiAPIKey string
	GeminiURL    string

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig builds the configuration from environment variables, then overlays secrets.
// Secrets come from Docker secret files under SECRETS_DIR, or from TEST_* variables in CI.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{Environment: env}

	loadFromEnv(cfg)

	switch env {
	case CI:
		loadCISecrets(cfg)
	case Development, Test, Production:
		loadSecrets(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// FromEnv reads the environment without secrets or validation. Offline tools use it to
// find the artifact store and log settings.
func FromEnv() *Config {
	cfg := &Config{Environment: GetEnvironment()}
	loadFromEnv(cfg)
	return cfg
}

func loadFromEnv(cfg *Config) {
	cfg.ServerPort = getEnv("PORT", getEnv("SERVER_PORT", "10000"))
	cfg.ServerHost = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.CORSOrigins = getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"})

	cfg.DBDriver = strings.ToLower(getEnv("DB_DRIVER", DriverSQLite))
	cfg.SQLitePath = getEnv("SQLITE_PATH", "site.db")
	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = getEnv("DB_USER", "postgres")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.DBName = getEnv("DB_NAME", "sugarsense")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")

	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.RedisHost = os.Getenv("REDIS_HOST")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = getEnvInt("REDIS_DB", 0)

	cfg.CheckupRateLimit = getEnvInt("CHECKUP_RATE_LIMIT", 30)
	cfg.ChatRateLimit = getEnvInt("CHAT_RATE_LIMIT", 60)

	cfg.JWTSecret = os.Getenv("JWT_SECRET")

	cfg.ArtifactDir = getEnv("ARTIFACT_DIR", "models")
	cfg.S3Bucket = os.Getenv("S3_BUCKET_NAME")
	cfg.S3Prefix = getEnv("S3_PREFIX", "diabetes-model")
	cfg.S3Endpoint = os.Getenv("S3_ENDPOINT")
	cfg.AWSRegion = getEnv("AWS_REGION", "us-east-1")

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.GeminiURL = os.Getenv("GEMINI_URL")

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "text")
}

// loadCISecrets reads sensitive values from the CI-provided TEST_* variables
func loadCISecrets(cfg *Config) {
	overlay(&cfg.DBPassword, os.Getenv("TEST_DB_PASSWORD"))
	overlay(&cfg.JWTSecret, os.Getenv("TEST_JWT_SECRET"))
	overlay(&cfg.RedisPassword, os.Getenv("TEST_REDIS_PASSWORD"))
	overlay(&cfg.RedisURL, os.Getenv("TEST_REDIS_URL"))
	overlay(&cfg.GeminiAPIKey, os.Getenv("TEST_GEMINI_API_KEY"))
}

// loadSecrets overlays Docker secrets on top of the environment
func loadSecrets(cfg *Config) {
	overlay(&cfg.DBPassword, readSecret("db_password"))
	overlay(&cfg.JWTSecret, readSecret("jwt_secret"))
	overlay(&cfg.RedisPassword, readSecret("redis_password"))
	overlay(&cfg.RedisURL, readSecret("redis_url"))
	overlay(&cfg.GeminiAPIKey, readSecret("gemini_api_key"))
}

func overlay(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

// RedisEnabled reports whether a Redis server is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// PostgresDSN returns the lib/pq connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}
