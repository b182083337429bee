// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/uzevently/internal/platform/config"
)

// baseEnv pins every variable Load reads so the host environment cannot leak in.
func baseEnv(t *testing.T) {
	t.Helper()

	values := map[string]string{
		"SERVER_PORT":        "8080",
		"ENVIRONMENT":        "development",
		"BACKEND_URL":        "http://localhost:8081",
		"BACKEND_TIMEOUT":    "15s",
		"SESSION_SECRET":     "test-secret",
		"REDIS_URL":          "",
		"BOOKING_STORE":      "memory",
		"DATABASE_URL":       "",
		"AMQP_URL":           "",
		"PAYMENT_DELAY":      "2s",
		"CHECKOUT_RETENTION": "30m",
		"ADMIN_PHONE":        "",
		"TIMEZONE":           "Asia/Tashkent",
		"ALLOWED_ORIGINS":    "",
	}
	for key, value := range values {
		t.Setenv(key, value)
	}
}

/*
TestLoad_Defaults verifies that a minimal environment yields a usable configuration.
*/
func TestLoad_Defaults(t *testing.T) {
	baseEnv(t)

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, config.BookingStoreMemory, cfg.BookingStore)
	assert.Equal(t, 15*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 2*time.Second, cfg.PaymentDelay)
	assert.Equal(t, 30*time.Minute, cfg.CheckoutRetention)
	assert.Equal(t, "Asia/Tashkent", cfg.Location().String())
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

/*
TestLoad_MissingSecret ensures the session secret is mandatory.
*/
func TestLoad_MissingSecret(t *testing.T) {
	baseEnv(t)
	require.NoError(t, os.Unsetenv("SESSION_SECRET"))

	_, err := config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

/*
TestLoad_Rejections covers settings that parse but cannot run.
*/
func TestLoad_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		message string
	}{
		{"unknown_store", "BOOKING_STORE", "mongo", "unknown BOOKING_STORE"},
		{"postgres_without_dsn", "BOOKING_STORE", "postgres", "DATABASE_URL is required"},
		{"backend_not_http", "BACKEND_URL", "ftp://backend", "BACKEND_URL must be an http(s) URL"},
		{"unknown_timezone", "TIMEZONE", "Mars/Olympus", "invalid TIMEZONE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := config.Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

/*
TestLoad_Dotenv checks that a dotenv file fills gaps without overriding the process environment.
*/
func TestLoad_Dotenv(t *testing.T) {
	baseEnv(t)
	require.NoError(t, os.Unsetenv("ADMIN_PHONE"))
	t.Cleanup(func() { _ = os.Unsetenv("ADMIN_PHONE") })

	path := filepath.Join(t.TempDir(), ".env")
	content := "ADMIN_PHONE=+998901234567\nSERVER_PORT=9090\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "+998901234567", cfg.AdminPhone)
	assert.Equal(t, "8080", cfg.ServerPort)
}

/*
TestLoad_MissingDotenv ensures an absent dotenv file is not an error.
*/
func TestLoad_MissingDotenv(t *testing.T) {
	baseEnv(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, config.BookingStoreMemory, cfg.BookingStore)
}

/*
TestLoad_AllowedOrigins verifies comma separated origin lists.
*/
func TestLoad_AllowedOrigins(t *testing.T) {
	baseEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://uzevently.uz,http://localhost:3000")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://uzevently.uz", "http://localhost:3000"}, cfg.AllowedOrigins)
}
