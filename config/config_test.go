package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate clears every key LoadConfig reads so the host environment cannot leak in.
func isolate(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CI", "ENV", "SERVER_PORT", "SERVER_HOST", "ALLOWED_ORIGINS",
		"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE",
		"SQLITE_PATH", "MIGRATIONS_DIR", "REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD",
		"REDIS_DB", "REDIS_URL", "JWT_SECRET", "TOKEN_TTL", "S3_BUCKET_NAME", "AWS_REGION",
		"S3_PUBLIC_BASE_URL",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("SECRETS_DIR", t.TempDir())
}

func writeSecret(t *testing.T, name, value string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(os.Getenv("SECRETS_DIR"), name), []byte(value+"\n"), 0o600))
}

func TestLoadConfig(t *testing.T) {
	isolate(t)
	t.Setenv("ENV", "test")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("DB_NAME", "recipeshare")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("TOKEN_TTL", "2h")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestLoadConfigReadsDockerSecrets(t *testing.T) {
	isolate(t)
	t.Setenv("ENV", "development")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "recipeshare")
	writeSecret(t, "db_user", "app")
	writeSecret(t, "db_password", "from-secret")
	writeSecret(t, "jwt_secret", "jwt-from-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "app", cfg.DBUser)
	assert.Equal(t, "from-secret", cfg.DBPassword)
	assert.Equal(t, "jwt-from-secret", cfg.JWTSecret)
	assert.False(t, cfg.RedisEnabled())
}

func TestProductionPrefersSecretsOverEnv(t *testing.T) {
	isolate(t)
	t.Setenv("ENV", "production")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_NAME", "recipeshare")
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("REDIS_URL", "redis://cache:6379")
	writeSecret(t, "db_password", "from-secret")
	writeSecret(t, "jwt_secret", "0123456789abcdef0123456789abcdef")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, Production, cfg.Environment)
	assert.Equal(t, "from-secret", cfg.DBPassword)
}

func TestCIIgnoresSecretFiles(t *testing.T) {
	isolate(t)
	t.Setenv("CI", "true")
	t.Setenv("DB_DRIVER", "sqlite")
	writeSecret(t, "jwt_secret", "should-not-be-read")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidateConfigCollectsAllProblems(t *testing.T) {
	cfg := &Config{Environment: Production, DBDriver: DriverSQLite, SQLitePath: "x.db", JWTSecret: "short"}

	err := ValidateConfig(cfg)
	require.Error(t, err)

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"SERVER_PORT", "DB_DRIVER", "JWT_SECRET", "REDIS_URL"}, fields)
}

func TestValidateConfigUnsupportedDriver(t *testing.T) {
	cfg := &Config{Environment: Development, ServerPort: "8080", DBDriver: "mysql", JWTSecret: "x"}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported driver "mysql"`)
}

func TestParseEnvironment(t *testing.T) {
	assert.Equal(t, Production, ParseEnvironment("Production"))
	assert.Equal(t, Production, ParseEnvironment("prod"))
	assert.Equal(t, Test, ParseEnvironment("test"))
	assert.Equal(t, Development, ParseEnvironment(""))
	assert.Equal(t, Development, ParseEnvironment("staging"))
}

func TestEnvironmentPredicates(t *testing.T) {
	assert.True(t, Development.IsDevelopment())
	assert.False(t, Production.IsDevelopment())

	assert.True(t, Test.IsTest())
	assert.True(t, CI.IsTest())
	assert.False(t, Development.IsTest())

	assert.True(t, Production.IsProduction())
	assert.False(t, CI.IsProduction())
}

func TestObjectURL(t *testing.T) {
	s := &S3Config{BucketName: "media"}
	assert.Equal(t, "https://media.s3.amazonaws.com/avatars/a.jpg", s.ObjectURL("avatars/a.jpg"))

	s.PublicBaseURL = "https://cdn.example.com/"
	assert.Equal(t, "https://cdn.example.com/avatars/a.jpg", s.ObjectURL("avatars/a.jpg"))
}
