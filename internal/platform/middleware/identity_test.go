// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/uzevently/internal/platform/constants"
	"github.com/taibuivan/uzevently/internal/platform/ctxutil"
	"github.com/taibuivan/uzevently/internal/platform/kv"
	"github.com/taibuivan/uzevently/internal/platform/middleware"
	"github.com/taibuivan/uzevently/internal/platform/sec"
	"github.com/taibuivan/uzevently/internal/session"
)

func newChain(t *testing.T, storage kv.Storage, final http.Handler) http.Handler {
	t.Helper()

	tokens, err := sec.NewClientTokens("0123456789abcdef-secret", constants.ClientTokenIssuer, time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return middleware.StructuredLogger(logger)(
		middleware.ClientIdentity(tokens, false)(
			middleware.LoadSession(storage)(final),
		),
	)
}

/*
TestClientIdentity_IssuesAndReusesCookie verifies a new browser gets a
cookie and the same client ID is resolved on the next request.
*/
func TestClientIdentity_IssuesAndReusesCookie(t *testing.T) {
	var seen []string
	handler := newChain(t, kv.NewMemory(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, ctxutil.GetClientID(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}))

	// 1. First visit
	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := first.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, int(time.Hour.Seconds()), cookies[0].MaxAge, "cookie lives as long as its token")

	// 2. Return visit
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)

	assert.Empty(t, second.Result().Cookies())
	require.Len(t, seen, 2)
	assert.NotEmpty(t, seen[0])
	assert.Equal(t, seen[0], seen[1])
}

/*
TestRequireRole verifies guests get 401 and the wrong role gets 403.
*/
func TestRequireRole(t *testing.T) {
	storage := kv.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	protected := middleware.RequireRole(session.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(role session.Role) int {
		ctx := context.Background()
		store, err := session.Open(ctx, storage, "client-"+string(role), logger)
		require.NoError(t, err)
		if role != "" {
			require.NoError(t, store.Login(ctx, session.Session{Role: role, Token: "t"}))
		}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(ctxutil.WithSession(req.Context(), store))
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(""))
	assert.Equal(t, http.StatusForbidden, serve(session.RoleUser))
	assert.Equal(t, http.StatusOK, serve(session.RoleAdmin))
}
