package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix префикс переменных окружения (BOOKING_DATABASE_PASSWORD и т.д.)
const EnvPrefix = "BOOKING"

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Booking   BookingConfig   `toml:"booking"`
	Catalog   CatalogConfig   `toml:"catalog"`
	Payments  PaymentsConfig  `toml:"payments"`
	Redis     RedisConfig     `toml:"redis"`
	Cache     CacheConfig     `toml:"cache"`
	Events    EventsConfig    `toml:"events"`
	Expiry    ExpiryConfig    `toml:"expiry"`
	RateLimit RateLimitConfig `toml:"rate_limit" split_words:"true"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" envconfig:"HTTP_PORT"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true"`
	WriteTimeout    int `toml:"write_timeout" split_words:"true"`
	IdleTimeout     int `toml:"idle_timeout" split_words:"true"`
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true"`
}

// DatabaseConfig настройки PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname" envconfig:"DBNAME"`
	SSLMode         string `toml:"sslmode" envconfig:"SSLMODE"`
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name" split_words:"true"`
}

// BookingConfig параметры бронирования по умолчанию
type BookingConfig struct {
	DefaultSlotDurationMinutes int    `toml:"default_slot_duration_minutes" split_words:"true"`
	DefaultBufferMinutes       int    `toml:"default_buffer_minutes" split_words:"true"`
	DefaultTimezone            string `toml:"default_timezone" split_words:"true"`
	PendingTTLMinutes          int    `toml:"pending_ttl_minutes" envconfig:"PENDING_TTL_MINUTES"`
	MaxWindowDays              int    `toml:"max_window_days" split_words:"true"`
}

// PendingTTL время жизни неоплаченного бронирования
func (b BookingConfig) PendingTTL() time.Duration {
	return time.Duration(b.PendingTTLMinutes) * time.Minute
}

// CatalogConfig клиент каталога услуг
type CatalogConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// PaymentsConfig платёжный провайдер (Stripe)
type PaymentsConfig struct {
	SecretKey string `toml:"secret_key" split_words:"true"`
	URL       string `toml:"url"` // пусто - боевой API
	Currency  string `toml:"currency"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// CacheConfig кэш расписаний
type CacheConfig struct {
	Enabled    bool `toml:"enabled"`
	TTLSeconds int  `toml:"ttl_seconds" envconfig:"TTL_SECONDS"`
}

// EventsConfig RabbitMQ
type EventsConfig struct {
	Enabled         bool   `toml:"enabled"`
	URL             string `toml:"url"`
	Exchange        string `toml:"exchange"`
	SettlementQueue string `toml:"settlement_queue" split_words:"true"`
}

// ExpiryConfig фоновые задачи истечения pending бронирований (asynq)
type ExpiryConfig struct {
	Enabled       bool   `toml:"enabled"`
	Concurrency   int    `toml:"concurrency"`
	SweepInterval string `toml:"sweep_interval" split_words:"true"` // cron-спецификация asynq, например "@every 1m"
}

// RateLimitConfig ограничение частоты POST /bookings на пользователя
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second" split_words:"true"`
	Burst             int     `toml:"burst"`
}

// Load читает TOML, затем .env (если есть) и переменные окружения с префиксом BOOKING
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
		}
	}

	// .env необязателен
	_ = godotenv.Load()

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные поля и границы
func (c *Config) Validate() error {
	switch {
	case c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535:
		return fmt.Errorf("%w: server.http_port must be in 1..65535, got %d", ErrInvalidConfig, c.Server.HTTPPort)
	case c.Database.Host == "":
		return fmt.Errorf("%w: database.host is required", ErrInvalidConfig)
	case c.Database.DBName == "":
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	case c.Booking.DefaultSlotDurationMinutes <= 0:
		return fmt.Errorf("%w: booking.default_slot_duration_minutes must be positive", ErrInvalidConfig)
	case c.Booking.DefaultBufferMinutes < 0:
		return fmt.Errorf("%w: booking.default_buffer_minutes must not be negative", ErrInvalidConfig)
	case c.Booking.PendingTTLMinutes <= 0:
		return fmt.Errorf("%w: booking.pending_ttl_minutes must be positive", ErrInvalidConfig)
	case c.Booking.MaxWindowDays <= 0:
		return fmt.Errorf("%w: booking.max_window_days must be positive", ErrInvalidConfig)
	case c.Catalog.URL == "":
		return fmt.Errorf("%w: catalog.url is required", ErrInvalidConfig)
	case c.RateLimit.Enabled && c.RateLimit.RequestsPerSecond <= 0:
		return fmt.Errorf("%w: rate_limit.requests_per_second must be positive", ErrInvalidConfig)
	}

	if _, err := time.LoadLocation(c.Booking.DefaultTimezone); err != nil {
		return fmt.Errorf("%w: booking.default_timezone %q: %v", ErrInvalidConfig, c.Booking.DefaultTimezone, err)
	}

	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "slot-booking",
		},
		Booking: BookingConfig{
			DefaultSlotDurationMinutes: 30,
			DefaultBufferMinutes:       15,
			DefaultTimezone:            "UTC",
			PendingTTLMinutes:          15,
			MaxWindowDays:              31,
		},
		Catalog: CatalogConfig{
			Timeout: 5,
		},
		Payments: PaymentsConfig{
			Currency: "usd",
		},
		Cache: CacheConfig{
			TTLSeconds: 300,
		},
		Events: EventsConfig{
			Exchange:        "bookings",
			SettlementQueue: "slot-booking.payments",
		},
		Expiry: ExpiryConfig{
			Concurrency:   5,
			SweepInterval: "@every 1m",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 1,
			Burst:             5,
		},
	}
}
