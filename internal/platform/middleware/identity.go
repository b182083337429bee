// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/uzevently/internal/platform/apperr"
	"github.com/taibuivan/uzevently/internal/platform/constants"
	"github.com/taibuivan/uzevently/internal/platform/ctxutil"
	"github.com/taibuivan/uzevently/internal/platform/kv"
	"github.com/taibuivan/uzevently/internal/platform/respond"
	"github.com/taibuivan/uzevently/internal/session"
)

// identityHolder lets inner middleware report identity to the request logger.
type identityHolder struct {
	clientID string
	role     string
}

type identityHolderKey struct{}

func holderFrom(request *http.Request) *identityHolder {
	holder, _ := request.Context().Value(identityHolderKey{}).(*identityHolder)
	return holder
}

// ClientTokenService issues and verifies client cookies.
type ClientTokenService interface {
	Issue() (clientID, token string, err error)
	Verify(token string) (string, error)
	TTL() time.Duration
}

// # Client Identity

// ClientIdentity resolves the browser identity from the client cookie.
//
// # Flow
//  1. Verify the cookie if present.
//  2. If missing or invalid, mint a new client ID and set the cookie.
//  3. Inject the client ID into the request context.
func ClientIdentity(tokens ClientTokenService, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			var clientID string

			// ── 1. Existing Cookie ────────────────────────────────────────────
			if cookie, err := request.Cookie(constants.ClientCookieName); err == nil {
				if verified, err := tokens.Verify(cookie.Value); err == nil {
					clientID = verified
				}
			}

			// ── 2. New Client ─────────────────────────────────────────────────
			if clientID == "" {
				issued, token, err := tokens.Issue()
				if err != nil {
					respond.Error(writer, request, apperr.Internal(err))
					return
				}
				clientID = issued

				http.SetCookie(writer, &http.Cookie{
					Name:     constants.ClientCookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(tokens.TTL().Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			if holder := holderFrom(request); holder != nil {
				holder.clientID = clientID
			}

			ctx := ctxutil.WithClientID(request.Context(), clientID)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// LoadSession opens the client's session store and attaches it to the context.
//
// Must be registered AFTER [ClientIdentity].
func LoadSession(storage kv.Storage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()
			clientID := ctxutil.GetClientID(ctx)

			store, err := session.Open(ctx, storage, clientID, ctxutil.GetLogger(ctx))
			if err != nil {
				ctxutil.GetLogger(ctx).ErrorContext(ctx, "session_load_failed", slog.Any("error", err))
				respond.Error(writer, request, apperr.Internal(err))
				return
			}

			if holder := holderFrom(request); holder != nil {
				if current := store.Current(); current != nil {
					holder.role = string(current.Role)
				}
			}

			next.ServeHTTP(writer, request.WithContext(ctxutil.WithSession(ctx, store)))
		})
	}
}

// # Authorization

// RequireAuth blocks requests from guests.
//
// # Usage
//
// Must be registered in the router AFTER [LoadSession].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.CurrentUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests unless the principal holds one of roles.
// It implies [RequireAuth].
func RequireRole(roles ...session.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			current := ctxutil.CurrentUser(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if current == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			for _, role := range roles {
				if current.Role == role {
					next.ServeHTTP(writer, request)
					return
				}
			}

			respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
		})
	}
}
