// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. An optional dotenv
file is merged into the process environment first (existing variables win).

Usage:

	cfg, err := config.Load(".env")
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (stores, clients) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	// Embedded zone database so TIMEZONE resolves in scratch images.
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Booking Store Drivers

const (
	BookingStoreMemory   = "memory"
	BookingStorePostgres = "postgres"
	BookingStoreSQLite   = "sqlite"
)

// # Configuration Schema

// Config holds all runtime configuration for the UzEvently gateway.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// External authentication API
	BackendURL     string        `env:"BACKEND_URL"     envDefault:"http://localhost:8081"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"15s"`

	// SessionSecret signs the client identification cookie.
	SessionSecret string `env:"SESSION_SECRET,required"`

	// Durable session storage. Empty means in-process memory.
	RedisURL string `env:"REDIS_URL"`

	// Booking persistence
	BookingStore string `env:"BOOKING_STORE" envDefault:"memory"`
	DatabaseURL  string `env:"DATABASE_URL"`
	SQLitePath   string `env:"SQLITE_PATH"   envDefault:"./data/bookings.db"`
	SeedBookings bool   `env:"SEED_BOOKINGS" envDefault:"true"`

	// Booking events. Empty URL disables publishing.
	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"uzevently.bookings"`

	// PaymentDelay is the simulated processing latency of the mock provider.
	PaymentDelay time.Duration `env:"PAYMENT_DELAY" envDefault:"2s"`

	// CheckoutRetention is how long an idle or finished checkout is kept.
	CheckoutRetention time.Duration `env:"CHECKOUT_RETENTION" envDefault:"30m"`

	// AdminPhone grants the admin role at registration. Empty disables it.
	AdminPhone string `env:"ADMIN_PHONE"`

	// Timezone decides which calendar day is "today".
	Timezone string `env:"TIMEZONE" envDefault:"Asia/Tashkent"`

	// Cross-Origin Resource Sharing
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// location is resolved from Timezone during Load.
	location *time.Location
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
//
// dotenvPath may be empty; a missing file is not an error.
func Load(dotenvPath string) (*Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: failed to read %s: %w", dotenvPath, err)
		}
	}

	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.location = location

	return cfg, nil
}

// Location returns the time zone used to decide the current calendar day.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func (c *Config) validate() error {
	switch c.BookingStore {
	case BookingStoreMemory, BookingStoreSQLite:
	case BookingStorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required when BOOKING_STORE=postgres")
		}
	default:
		return fmt.Errorf("config: unknown BOOKING_STORE %q", c.BookingStore)
	}

	if !strings.HasPrefix(c.BackendURL, "http://") && !strings.HasPrefix(c.BackendURL, "https://") {
		return fmt.Errorf("config: BACKEND_URL must be an http(s) URL, got %q", c.BackendURL)
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
