package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"CI", "ENV", "PORT", "SERVER_PORT", "SERVER_HOST", "DB_DRIVER", "SQLITE_PATH",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE",
		"REDIS_URL", "REDIS_HOST", "REDIS_PASSWORD", "JWT_SECRET", "ARTIFACT_DIR",
		"S3_BUCKET_NAME", "GEMINI_API_KEY", "LOG_LEVEL", "LOG_FORMAT", "CORS_ORIGINS",
		"TEST_DB_PASSWORD", "TEST_JWT_SECRET", "CHECKUP_RATE_LIMIT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("SECRETS_DIR", t.TempDir())
}

func writeSecret(t *testing.T, name, value string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(os.Getenv("SECRETS_DIR"), name), []byte(value+"\n"), 0o600))
}

func TestLoadConfigWithDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Development, cfg.Environment)
	assert.Equal(t, "10000", cfg.ServerPort)
	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "site.db", cfg.SQLitePath)
	assert.Equal(t, "models", cfg.ArtifactDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.False(t, cfg.RedisEnabled())
	assert.Equal(t, "0.0.0.0:10000", cfg.Addr())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "host=db port=5432 user=postgres password=postgres dbname=sugarsense sslmode=disable", cfg.PostgresDSN())
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestSecretsOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "from-env")
	writeSecret(t, "jwt_secret", "from-secret")
	writeSecret(t, "gemini_api_key", "gemini-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "from-secret", cfg.JWTSecret)
	assert.Equal(t, "gemini-key", cfg.GeminiAPIKey)
}

func TestCIReadsTestSecrets(t *testing.T) {
	clearEnv(t)
	t.Setenv("CI", "true")
	t.Setenv("TEST_JWT_SECRET", "ci-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, CI, cfg.Environment)
	assert.Equal(t, "ci-secret", cfg.JWTSecret)
}

func TestProductionRequiresStrongSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "short")

	_, err := LoadConfig()
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "jwt_secret", verrs[0].Field)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Environment:  Test,
			ServerPort:   "10000",
			DBDriver:     DriverSQLite,
			SQLitePath:   ":memory:",
			JWTSecret:    "secret",
			ArtifactDir:  "models",
			LogFormat:    "json",
			ChatRateLimit: 1,
		}
	}

	require.NoError(t, ValidateConfig(valid()))

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad port", func(c *Config) { c.ServerPort = "http" }, "SERVER_PORT"},
		{"bad driver", func(c *Config) { c.DBDriver = "mysql" }, "DB_DRIVER"},
		{"postgres without password", func(c *Config) { c.DBDriver = DriverPostgres; c.DBHost = "db"; c.DBName = "x" }, "db_password"},
		{"no artifact location", func(c *Config) { c.ArtifactDir = "" }, "ARTIFACT_DIR"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "LOG_FORMAT"},
		{"negative limit", func(c *Config) { c.CheckupRateLimit = -1 }, "CHECKUP_RATE_LIMIT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestGetEnvironment(t *testing.T) {
	clearEnv(t)
	assert.Equal(t, Development, GetEnvironment())

	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
}

func TestFromEnvSkipsValidation(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("S3_BUCKET_NAME", "models")
	t.Setenv("ARTIFACT_DIR", "/tmp/artifacts")

	cfg := FromEnv()
	assert.Equal(t, Production, cfg.Environment)
	assert.Empty(t, cfg.JWTSecret)
	assert.Equal(t, "models", cfg.S3Bucket)
	assert.Equal(t, "/tmp/artifacts", cfg.ArtifactDir)
}
