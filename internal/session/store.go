// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/taibuivan/uzevently/internal/platform/constants"
	"github.com/taibuivan/uzevently/internal/platform/kv"
)

// Store holds the session of one client and mirrors it to durable storage.
//
// # Concurrency
//
// A Store is created per request and is not safe for concurrent use. Requests
// of the same client are treated as a single actor: last writer wins.
type Store struct {
	storage  kv.Storage
	clientID string
	logger   *slog.Logger
	current  *Session
}

/*
Open reconstructs the client's session from durable storage.

Description: Both the user payload and the token must be present. A payload
that cannot be parsed is discarded and the client starts as a guest; the
corruption is logged but never surfaced.

Parameters:
  - ctx: context.Context
  - storage: kv.Storage
  - clientID: string (browser identity)
  - logger: *slog.Logger

Returns:
  - *Store: Ready store (possibly logged out)
  - error: Storage connectivity failures only
*/
func Open(ctx context.Context, storage kv.Storage, clientID string, logger *slog.Logger) (*Store, error) {
	store := &Store{storage: storage, clientID: clientID, logger: logger}

	payload, hasUser, err := storage.Get(ctx, store.userKey())
	if err != nil {
		return nil, fmt.Errorf("session_open_failed: %w", err)
	}

	token, hasToken, err := storage.Get(ctx, store.tokenKey())
	if err != nil {
		return nil, fmt.Errorf("session_open_failed: %w", err)
	}

	if !hasUser || !hasToken {
		return store, nil
	}

	var restored Session
	if err := json.Unmarshal([]byte(payload), &restored); err != nil {
		logger.Warn("session_payload_corrupted",
			slog.String("client_id", clientID),
			slog.Any("error", err),
		)
		if err := storage.Delete(ctx, store.userKey(), store.tokenKey()); err != nil {
			return nil, fmt.Errorf("session_discard_failed: %w", err)
		}
		return store, nil
	}

	restored.Token = token
	restored.IsAuthenticated = true
	store.current = &restored

	return store, nil
}

// Current returns a copy of the authenticated principal, or nil for a guest.
func (store *Store) Current() *Session {
	if store.current == nil {
		return nil
	}
	snapshot := *store.current
	return &snapshot
}

// ClientID returns the browser identity this store belongs to.
func (store *Store) ClientID() string {
	return store.clientID
}

/*
Login replaces the current session with the supplied one.

Description: No validation is performed; credentials were already checked by
the external backend. The principal is marked authenticated and persisted
together with its token.

Parameters:
  - ctx: context.Context
  - principal: Session

Returns:
  - error: Storage failures (in-memory state is left untouched)
*/
func (store *Store) Login(ctx context.Context, principal Session) error {
	principal.IsAuthenticated = true

	if err := store.persist(ctx, principal); err != nil {
		return err
	}

	store.current = &principal
	store.logger.Info("session_login",
		slog.String("client_id", store.clientID),
		slog.String("role", string(principal.Role)),
		slog.Bool("provisional_id", principal.ID.Provisional),
	)
	return nil
}

// Logout clears the session locally. The token is not revoked upstream.
func (store *Store) Logout(ctx context.Context) error {
	if err := store.storage.Delete(ctx, store.userKey(), store.tokenKey()); err != nil {
		return fmt.Errorf("session_logout_failed: %w", err)
	}

	store.current = nil
	return nil
}

// UpdateUser shallow-merges patch into the current session and persists it.
// It is a silent no-op for guests.
func (store *Store) UpdateUser(ctx context.Context, patch Patch) error {
	if store.current == nil {
		return nil
	}

	merged := patch.apply(*store.current)
	if err := store.persist(ctx, merged); err != nil {
		return err
	}

	store.current = &merged
	return nil
}

// persist writes the user payload and keeps the token key in sync with it.
func (store *Store) persist(ctx context.Context, principal Session) error {
	payload, err := json.Marshal(principal)
	if err != nil {
		return fmt.Errorf("session_encode_failed: %w", err)
	}

	if err := store.storage.Set(ctx, store.userKey(), string(payload)); err != nil {
		return fmt.Errorf("session_persist_failed: %w", err)
	}

	if principal.Token == "" {
		err = store.storage.Delete(ctx, store.tokenKey())
	} else {
		err = store.storage.Set(ctx, store.tokenKey(), principal.Token)
	}
	if err != nil {
		return fmt.Errorf("session_persist_token_failed: %w", err)
	}

	return nil
}

func (store *Store) userKey() string {
	return constants.StorageKeySessionUser + store.clientID
}

func (store *Store) tokenKey() string {
	return constants.StorageKeySessionToken + store.clientID
}
