package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

const (
	DraftBackendRedis    = "redis"
	DraftBackendPostgres = "postgres"
	DraftBackendMemory   = "memory"
)

type Config struct {
	HTTP     HTTPConfig     `envPrefix:"HTTP_"`
	Log      LogConfig      `envPrefix:"LOG_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Database DatabaseConfig `envPrefix:"DB_"`
	Telegram TelegramConfig `envPrefix:"TELEGRAM_"`
	Orders   OrdersConfig   `envPrefix:"ORDER_"`

	DraftBackend string        `env:"DRAFT_BACKEND" envDefault:"redis"`
	DraftTTL     time.Duration `env:"DRAFT_TTL" envDefault:"720h"`
}

type HTTPConfig struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

type LogConfig struct {
	Level       string `env:"LEVEL" envDefault:"info"`
	Development bool   `env:"DEVELOPMENT" envDefault:"false"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type DatabaseConfig struct {
	Host            string        `env:"HOST"`
	Port            int           `env:"PORT" envDefault:"5432"`
	User            string        `env:"USER"`
	Password        string        `env:"PASSWORD"`
	Name            string        `env:"NAME"`
	SSLMode         string        `env:"SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"2m"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// TelegramConfig enables the bot when Token is set.
type TelegramConfig struct {
	Token string `env:"TOKEN"`
	Debug bool   `env:"DEBUG" envDefault:"false"`
}

// OrdersConfig selects the order backend. Without an API base URL orders
// are confirmed locally.
type OrdersConfig struct {
	APIBaseURL     string        `env:"API_BASE_URL"`
	APIKey         string        `env:"API_KEY"`
	Prefix         string        `env:"PREFIX" envDefault:"PoCat"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	SubmitLimit    int           `env:"SUBMIT_LIMIT" envDefault:"5"`
	SubmitWindow   time.Duration `env:"SUBMIT_WINDOW" envDefault:"1h"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.DraftBackend {
	case DraftBackendRedis, DraftBackendMemory:
	case DraftBackendPostgres:
		if c.Database.Host == "" || c.Database.User == "" || c.Database.Name == "" {
			errs = append(errs, errors.New("DB_HOST, DB_USER and DB_NAME are required for the postgres draft backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DRAFT_BACKEND %q", c.DraftBackend))
	}

	if c.DraftTTL <= 0 {
		errs = append(errs, errors.New("DRAFT_TTL must be positive"))
	}
	if c.Orders.APIBaseURL != "" && c.Orders.APIKey == "" {
		errs = append(errs, errors.New("ORDER_API_KEY is required when ORDER_API_BASE_URL is set"))
	}
	if c.Orders.SubmitLimit < 0 {
		errs = append(errs, errors.New("ORDER_SUBMIT_LIMIT must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
