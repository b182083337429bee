// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/uzevently/internal/platform/middleware"
)

type environment struct {
	development bool
}

func (e environment) IsDevelopment() bool { return e.development }

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func allowedOrigin(handler http.Handler, origin string) string {
	request := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
	request.Header.Set("Origin", origin)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder.Header().Get("Access-Control-Allow-Origin")
}

/*
TestCORS_Origins verifies that only configured origins receive credentialed
CORS headers, with a localhost fallback in development.
*/
func TestCORS_Origins(t *testing.T) {
	tests := []struct {
		name        string
		development bool
		configured  []string
		origin      string
		allowed     bool
	}{
		{"dev_localhost_fallback", true, nil, "http://localhost:3000", true},
		{"dev_foreign_site", true, nil, "https://evil.example", false},
		{"dev_configured_only", true, []string{"https://uzevently.uz"}, "http://localhost:3000", false},
		{"prod_configured", false, []string{"https://uzevently.uz"}, "https://uzevently.uz", true},
		{"prod_foreign_site", false, []string{"https://uzevently.uz"}, "https://evil.example", false},
		{"prod_nothing_configured", false, nil, "http://localhost:3000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.CORS(environment{development: tt.development}, tt.configured)(okHandler)

			got := allowedOrigin(handler, tt.origin)
			if tt.allowed {
				assert.Equal(t, tt.origin, got)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

/*
TestRateLimit_Throttles verifies that a burst beyond the bucket is answered
with the RATE_LIMITED error envelope and a Retry-After header.
*/
func TestRateLimit_Throttles(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimit(ctx)(okHandler)

	var throttled *httptest.ResponseRecorder
	for i := 0; i < 1000 && throttled == nil; i++ {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
		if recorder.Code == http.StatusTooManyRequests {
			throttled = recorder
		}
	}
	require.NotNil(t, throttled, "the limiter never throttled")

	assert.Equal(t, "1", throttled.Header().Get("Retry-After"))

	var body struct {
		Code  string `json:"code"`
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(throttled.Body).Decode(&body))
	assert.Equal(t, "RATE_LIMITED", body.Code)
	assert.Contains(t, body.Error, "Try again in 1s")
}
