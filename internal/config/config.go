// Package config provides centralized configuration management for the server.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration parameters for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	LogLevel string
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr string
}

// DatabaseConfig selects the storage driver and its DSN.
type DatabaseConfig struct {
	Driver string // "postgres" or "sqlite"
	DSN    string
}

// AuthConfig holds identity-token verification settings.
type AuthConfig struct {
	JWTSecret string
}

// Load reads configuration from environment variables with sane defaults.
// Every key can be overridden through a ZCRUM_-prefixed variable, for example
// ZCRUM_DATABASE_DSN or ZCRUM_AUTH_JWT_SECRET.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ZCRUM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/zcrum.db")
	v.SetDefault("log.level", "info")

	v.BindEnv("server.addr", "ZCRUM_SERVER_ADDR")
	v.BindEnv("database.driver", "ZCRUM_DATABASE_DRIVER")
	v.BindEnv("database.dsn", "ZCRUM_DATABASE_DSN")
	v.BindEnv("auth.jwt_secret", "ZCRUM_AUTH_JWT_SECRET")
	v.BindEnv("log.level", "ZCRUM_LOG_LEVEL", "LOG_LEVEL")

	cfg := &Config{
		Server: ServerConfig{
			Addr: v.GetString("server.addr"),
		},
		Database: DatabaseConfig{
			Driver: v.GetString("database.driver"),
			DSN:    v.GetString("database.dsn"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("auth.jwt_secret"),
		},
		LogLevel: v.GetString("log.level"),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate ensures that all required configuration values are provided.
func validate(cfg *Config) error {
	var missing []string

	if cfg.Auth.JWTSecret == "" {
		missing = append(missing, "ZCRUM_AUTH_JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missing)
	}

	switch cfg.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	return nil
}

// SlogLevel maps the configured log level onto slog's levels, defaulting to
// info for anything unrecognized.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
