package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	TablePrefix string `yaml:"tablePrefix"`
	StoreDriver string `yaml:"storeDriver"`
	DatabaseURL string `yaml:"databaseUrl"`
	// Auth: JWKS wins when both are set
	AuthJWKSURL   string `yaml:"authJwksUrl"`
	AuthJWTSecret string `yaml:"authJwtSecret"`
	CORSOrigins   string `yaml:"corsOrigins"`
	// Tree cache; empty RedisURL disables it
	RedisURL     string        `yaml:"redisUrl"`
	TreeCacheTTL time.Duration `yaml:"treeCacheTtl"`
	// Log files; empty LogDir logs to stdout only
	LogDir        string `yaml:"logDir"`
	LogFilePrefix string `yaml:"logFilePrefix"`
	LogMaxFiles   int    `yaml:"logMaxFiles"`
}

// Load reads configuration from the environment. When CONFIG_FILE names a
// YAML file, values from that file are applied first and environment
// variables override them.
func Load() (*Config, error) {
	cfg := &Config{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.Environment = getEnv("ENVIRONMENT", orDefault(cfg.Environment, "dev"))
	cfg.Port = getEnv("PORT", orDefault(cfg.Port, "8080"))
	cfg.TablePrefix = getTablePrefix(cfg.Environment, cfg.TablePrefix)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.StoreDriver = getEnv("STORE_DRIVER", orDefault(cfg.StoreDriver, StoreDriverPostgres))
	cfg.AuthJWKSURL = getEnv("AUTH_JWKS_URL", cfg.AuthJWKSURL)
	cfg.AuthJWTSecret = getEnv("AUTH_JWT_SECRET", cfg.AuthJWTSecret)
	cfg.CORSOrigins = getEnv("CORS_ORIGINS", orDefault(cfg.CORSOrigins, "http://localhost:3000"))
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.LogDir = getEnv("LOG_DIR", cfg.LogDir)
	cfg.LogFilePrefix = getEnv("LOG_FILE_PREFIX", orDefault(cfg.LogFilePrefix, "educreate"))

	if cfg.TreeCacheTTL == 0 {
		cfg.TreeCacheTTL = 5 * time.Minute
	}
	if v := os.Getenv("TREE_CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("TREE_CACHE_TTL: %w", err)
		}
		cfg.TreeCacheTTL = ttl
	}

	if cfg.LogMaxFiles == 0 {
		cfg.LogMaxFiles = 10
	}
	if v := os.Getenv("LOG_MAX_FILES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("LOG_MAX_FILES: %w", err)
		}
		cfg.LogMaxFiles = n
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s store", StoreDriverPostgres)
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

// RequireAuth checks that a token verifier can be built. Only the server
// needs one; the seed and admin tools run without.
func (c *Config) RequireAuth() error {
	if c.AuthJWKSURL == "" && c.AuthJWTSecret == "" {
		return fmt.Errorf("one of AUTH_JWKS_URL or AUTH_JWT_SECRET is required")
	}
	return nil
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env, fromFile string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}
	if fromFile != "" {
		return fromFile
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func orDefault(value, defaultValue string) string {
	if value != "" {
		return value
	}
	return defaultValue
}
