// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Client Identity: Cookie names and token issuer.
  - Storage Keys: Durable key-value prefixes for sessions and wizards.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "uzevently-gateway"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute

	// RateLimitRetryAfter is the back-off advertised to a throttled client.
	RateLimitRetryAfter = 1 * time.Second
)

// DevelopmentOrigins are the web client origins accepted in development when
// ALLOWED_ORIGINS is empty.
var DevelopmentOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
}

// # Client Identity

const (
	// ClientTokenIssuer is the 'iss' claim of the client cookie token.
	ClientTokenIssuer = "uzevently.uz"

	// ClientCookieName is the cookie that identifies a browser across reloads.
	ClientCookieName = "uzevently_client"

	// ClientCookieTTL is how long the client cookie lives.
	ClientCookieTTL = 365 * 24 * time.Hour
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderContentType   = "Content-Type"
	HeaderDisposition   = "Content-Disposition"
	HeaderXForwardedFor = "X-Forwarded-For"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Durable Key Prefixes

const (
	StorageKeySessionUser  = "session-user:"
	StorageKeySessionToken = "session-token:"
	StorageKeyWizard       = "wizard:"
)

// # Phone Numbers

const (
	// PhoneCountryPrefix is prepended to the 9-digit local segment before transmission.
	PhoneCountryPrefix = "+998"

	// PhoneLocalDigits is the fixed length of the local segment.
	PhoneLocalDigits = 9
)
