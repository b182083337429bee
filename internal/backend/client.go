// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package backend is the HTTP client for the external authentication API.

Architecture:

  - Encoding: Login and the password reset endpoints take form bodies;
    registration takes JSON.
  - Errors: Non-2xx answers become [RemoteError]; anything that prevents an
    answer becomes [TransportError]. There is no retry and no backoff.
  - Breaker: A fortify circuit breaker fails fast after repeated transport
    failures. Remote rejections never count against it.

Phone numbers are expected in canonical "+998XXXXXXXXX" form.
*/
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
)

// # Endpoints

const (
	pathLogin          = "/user/login"
	pathRegister       = "/user/register"
	pathForgotPassword = "/user/forgot-password"
	pathVerifyCode     = "/user/verify-code"
	pathResetPassword  = "/user/reset-password"
)

// Fallback messages shown when a rejection carries no message of its own.
const (
	FallbackLogin    = "Invalid phone number or password"
	FallbackRegister = "Server error occurred"
	FallbackForgot   = "Server error occurred"
	FallbackVerify   = "Code is invalid or expired"
	FallbackReset    = "Failed to reset password"
)

// maxBodyBytes caps how much of an upstream body is read.
const maxBodyBytes = 1 << 20

// # Wire Types

// User is the nested user object of a successful auth response.
type User struct {
	ID          FlexibleID `json:"id"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Name        string     `json:"name"`
	AccountType string     `json:"accountType"`
	Address     string     `json:"address"`
}

// AuthResponse is the success body of login and registration.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// RegisterRequest is the JSON body of the registration endpoint.
type RegisterRequest struct {
	PhoneNumber     string `json:"phoneNumber"`
	Name            string `json:"name"`
	Address         string `json:"address"`
	AccountType     string `json:"accountType"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Role            string `json:"role"`
}

// FlexibleID accepts a JSON string or number. It is empty when absent or null.
type FlexibleID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null" || raw == "":
		*id = ""
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexibleID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("backend: unsupported id %s", raw)
		}
		*id = FlexibleID(n.String())
	}
	return nil
}

// # Client

// Config configures a [Client].
type Config struct {
	BaseURL string
	// Timeout bounds one call. Zero disables the client-side cutoff.
	Timeout time.Duration
	Logger  *slog.Logger
	// HTTPClient overrides the transport; Timeout is ignored when set.
	HTTPClient *http.Client
}

// exchange is a completed HTTP round trip, whatever its status.
type exchange struct {
	status int
	body   []byte
}

// Client talks to the external authentication API.
type Client struct {
	baseURL string
	http    *http.Client
	breaker circuitbreaker.CircuitBreaker[*exchange]
	logger  *slog.Logger
}

// New constructs a [Client].
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}

	client.breaker = circuitbreaker.New[*exchange](circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     20 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(from, to circuitbreaker.State) {
			logger.Warn("backend_breaker_state_changed",
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return client
}

// # Operations

// Login authenticates with phone and password.
func (client *Client) Login(ctx context.Context, phone, password string) (*AuthResponse, error) {
	form := url.Values{}
	form.Set("phoneNumber", phone)
	form.Set("password", password)

	return client.authenticate(ctx, "login", pathLogin, formBody(form), FallbackLogin)
}

// Register creates an account.
func (client *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("backend_register_encode_failed: %w", err)
	}

	return client.authenticate(ctx, "register", pathRegister, jsonBody(payload), FallbackRegister)
}

// ForgotPassword asks the backend to send a reset code to phone.
func (client *Client) ForgotPassword(ctx context.Context, phone string) error {
	form := url.Values{}
	form.Set("phoneNumber", phone)

	_, err := client.call(ctx, "forgot_password", pathForgotPassword, formBody(form), FallbackForgot)
	return err
}

// VerifyCode checks a reset code.
func (client *Client) VerifyCode(ctx context.Context, phone, code string) error {
	form := url.Values{}
	form.Set("phoneNumber", phone)
	form.Set("code", code)

	_, err := client.call(ctx, "verify_code", pathVerifyCode, formBody(form), FallbackVerify)
	return err
}

// ResetPassword sets a new password using a verified code.
func (client *Client) ResetPassword(ctx context.Context, phone, code, newPassword string) error {
	form := url.Values{}
	form.Set("phoneNumber", phone)
	form.Set("code", code)
	form.Set("newPassword", newPassword)

	_, err := client.call(ctx, "reset_password", pathResetPassword, formBody(form), FallbackReset)
	return err
}

// # Internals

type body struct {
	contentType string
	payload     []byte
}

func formBody(form url.Values) body {
	return body{contentType: "application/x-www-form-urlencoded", payload: []byte(form.Encode())}
}

func jsonBody(payload []byte) body {
	return body{contentType: "application/json", payload: payload}
}

func (client *Client) authenticate(ctx context.Context, op, path string, b body, fallback string) (*AuthResponse, error) {
	raw, err := client.call(ctx, op, path, b, fallback)
	if err != nil {
		return nil, err
	}

	var resp AuthResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return &resp, nil
}

// call performs one POST and classifies the outcome.
func (client *Client) call(ctx context.Context, op, path string, b body, fallback string) ([]byte, error) {
	start := time.Now()

	result, err := client.breaker.Execute(ctx, func(ctx context.Context) (*exchange, error) {
		return client.roundTrip(ctx, path, b)
	})
	if err != nil {
		client.logger.Warn("backend_call_failed",
			slog.String("op", op),
			slog.Duration("elapsed", time.Since(start)),
			slog.Any("error", err),
		)
		return nil, &TransportError{Op: op, Err: err}
	}

	client.logger.Debug("backend_call_completed",
		slog.String("op", op),
		slog.Int("status", result.status),
		slog.Duration("elapsed", time.Since(start)),
	)

	if result.status < 200 || result.status > 299 {
		return nil, &RemoteError{Status: result.status, Message: remoteMessage(result.body, fallback)}
	}

	return result.body, nil
}

func (client *Client) roundTrip(ctx context.Context, path string, b body) (*exchange, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, client.baseURL+path, bytes.NewReader(b.payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", b.contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := client.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}

	return &exchange{status: resp.StatusCode, body: raw}, nil
}

// remoteMessage extracts the "message" field of a rejection body.
func remoteMessage(raw []byte, fallback string) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || strings.TrimSpace(payload.Message) == "" {
		return fallback
	}
	return payload.Message
}
