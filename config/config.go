package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultTokenTTL = 24 * time.Hour
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort     string
	ServerHost     string
	AllowedOrigins []string

	// Database configuration
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	SQLitePath    string
	MigrationsDir string

	// Redis configuration; empty host and URL disables Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Session tokens
	JWTSecret string
	TokenTTL  time.Duration

	// Object storage
	S3Bucket        string
	S3Region        string
	S3PublicBaseURL string
}

// LoadConfig builds a Config for the current environment.
// Development and test read a local .env first; production prefers Docker secrets
// over environment variables; CI reads environment variables only.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	var src source
	switch env {
	case CI:
		src = envOnly{}
	case Development, Test:
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("[Config] could not load .env: %v", err)
		}
		src = envThenSecret{dir: secretsDir()}
	case Production:
		src = secretThenEnv{dir: secretsDir()}
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	cfg := fromSource(src)
	cfg.Environment = env

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func fromSource(src source) *Config {
	cfg := &Config{
		ServerPort:      withDefault(src.get("SERVER_PORT"), "8080"),
		ServerHost:      withDefault(src.get("SERVER_HOST"), "0.0.0.0"),
		AllowedOrigins:  splitList(withDefault(src.get("ALLOWED_ORIGINS"), "http://localhost:5173")),
		DBDriver:        strings.ToLower(withDefault(src.get("DB_DRIVER"), DriverPostgres)),
		DBHost:          src.get("DB_HOST"),
		DBPort:          withDefault(src.get("DB_PORT"), "5432"),
		DBUser:          src.get("DB_USER"),
		DBPassword:      src.get("DB_PASSWORD"),
		DBName:          src.get("DB_NAME"),
		DBSSLMode:       withDefault(src.get("DB_SSL_MODE"), "disable"),
		SQLitePath:      withDefault(src.get("SQLITE_PATH"), "recipeshare.db"),
		MigrationsDir:   withDefault(src.get("MIGRATIONS_DIR"), "migrations"),
		RedisHost:       src.get("REDIS_HOST"),
		RedisPort:       withDefault(src.get("REDIS_PORT"), "6379"),
		RedisPassword:   src.get("REDIS_PASSWORD"),
		RedisURL:        src.get("REDIS_URL"),
		JWTSecret:       src.get("JWT_SECRET"),
		TokenTTL:        defaultTokenTTL,
		S3Bucket:        withDefault(src.get("S3_BUCKET_NAME"), "recipeshare-media"),
		S3Region:        withDefault(src.get("AWS_REGION"), "us-east-1"),
		S3PublicBaseURL: src.get("S3_PUBLIC_BASE_URL"),
	}

	if raw := src.get("REDIS_DB"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			cfg.RedisDB = n
		}
	}
	if raw := src.get("TOKEN_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.TokenTTL = d
		}
	}
	return cfg
}

// RedisEnabled reports whether any Redis endpoint was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// PostgresDSN renders the connection string used by the postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// source resolves a configuration key, e.g. DB_PASSWORD or its secret file db_password.
type source interface {
	get(key string) string
}

type envOnly struct{}

func (envOnly) get(key string) string { return strings.TrimSpace(os.Getenv(key)) }

type envThenSecret struct{ dir string }

func (s envThenSecret) get(key string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return readSecret(s.dir, key)
}

type secretThenEnv struct{ dir string }

func (s secretThenEnv) get(key string) string {
	if v := readSecret(s.dir, key); v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv(key))
}

func secretsDir() string {
	if dir := os.Getenv("SECRETS_DIR"); dir != "" {
		return dir
	}
	return "/run/secrets"
}

// readSecret reads a Docker secret named after the lower-cased key.
func readSecret(dir, key string) string {
	data, err := os.ReadFile(filepath.Join(dir, strings.ToLower(key)))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
