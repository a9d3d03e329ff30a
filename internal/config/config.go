// package config loads the service configuration from the environment
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Environment is the deployment stage the service runs in
type Environment string

const (
	Production  Environment = "prod"
	Development Environment = "dev"
	Test        Environment = "test"
)

// Config is the complete runtime configuration
type Config struct {
	Env             Environment   `env:"ENV" env-default:"dev"`
	Port            int           `env:"PORT" env-default:"4242"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" env-default:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"5s"`
	LogLevel        string        `env:"LOG_LEVEL" env-default:"info"`

	App      AppConfig
	Database DatabaseConfig
}

// AppConfig describes the application itself
type AppConfig struct {
	Name    string `env:"APP_NAME" env-default:"todo-api"`
	Version string `env:"APP_VERSION" env-default:"dev"`
}

// DatabaseConfig holds the SurrealDB connection settings
type DatabaseConfig struct {
	URL       string `env:"SURREALDB_URL" env-required:"true"`
	Namespace string `env:"SURREALDB_NAMESPACE" env-required:"true"`
	Name      string `env:"SURREALDB_DATABASE" env-required:"true"`
	Username  string `env:"SURREALDB_USERNAME" env-required:"true"`
	Password  string `env:"SURREALDB_PASSWORD" env-required:"true"`
}

// Load reads the configuration from the environment, after loading a .env
// file from the working directory when one exists
func Load() (Config, error) {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit dotenv path. Variables already present
// in the environment win over the ones in the file.
func LoadFrom(dotenv string) (Config, error) {
	var cfg Config

	if _, err := os.Stat(dotenv); err == nil {
		if err := godotenv.Load(dotenv); err != nil {
			return Config{}, fmt.Errorf("read %s: %w", dotenv, err)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the constraints the struct tags cannot express
func (c Config) Validate() error {
	var errs []error

	switch c.Env {
	case Production, Development, Test:
	default:
		errs = append(errs, fmt.Errorf("ENV: unknown environment '%s'", c.Env))
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT: %d is not a valid port", c.Port))
	}

	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT: must be positive"))
	}

	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	u, err := url.Parse(c.Database.URL)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("SURREALDB_URL: %w", err))
	case c.Env == Production && u.Scheme != "wss" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("SURREALDB_URL: scheme '%s' is not allowed in production", u.Scheme))
	}

	return errors.Join(errs...)
}

// Addr returns the HTTP listen address
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// SlogLevel converts LOG_LEVEL into a slog level
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	return level, nil
}

// NewLogger builds the process logger: text output while developing,
// JSON in production
func (c Config) NewLogger() *slog.Logger {
	level, err := c.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if c.Env == Production {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler).With("app", c.App.Name, "version", c.App.Version)
}
