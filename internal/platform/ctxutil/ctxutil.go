// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/uzevently/internal/platform/ctxkey"
	"github.com/taibuivan/uzevently/internal/session"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Client Identity

// WithClientID returns a new context carrying the browser's client ID.
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyClientID, clientID)
}

// GetClientID retrieves the client ID, or an empty string for unidentified requests.
func GetClientID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyClientID).(string)
	return id
}

// # Session

// WithSession returns a new context with the client's session store attached.
func WithSession(ctx context.Context, store *session.Store) context.Context {
	return context.WithValue(ctx, ctxkey.KeySession, store)
}

// GetSession retrieves the [*session.Store] from the [context.Context].
func GetSession(ctx context.Context) *session.Store {
	store, ok := ctx.Value(ctxkey.KeySession).(*session.Store)
	if !ok {
		return nil
	}
	return store
}

// CurrentUser returns the authenticated principal, or nil for guests.
func CurrentUser(ctx context.Context) *session.Session {
	store := GetSession(ctx)
	if store == nil {
		return nil
	}
	return store.Current()
}
