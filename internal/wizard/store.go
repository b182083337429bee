// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package wizard

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/taibuivan/uzevently/internal/platform/constants"
	"github.com/taibuivan/uzevently/internal/platform/kv"
)

// Store persists flows in durable key-value storage under
// "wizard:<kind>:<client>".
type Store struct {
	storage kv.Storage
}

// NewStore constructs a [Store].
func NewStore(storage kv.Storage) *Store {
	return &Store{storage: storage}
}

// Load returns the client's flow of kind, or nil when none is active.
// A payload that cannot be decoded is treated as no flow.
func (store *Store) Load(ctx context.Context, clientID string, kind Kind) (*Flow, error) {
	payload, found, err := store.storage.Get(ctx, key(clientID, kind))
	if err != nil {
		return nil, fmt.Errorf("wizard_load_failed: %w", err)
	}
	if !found {
		return nil, nil
	}

	var flow Flow
	if err := json.Unmarshal([]byte(payload), &flow); err != nil || flow.Kind != kind || len(flow.Steps) == 0 {
		return nil, nil
	}
	if flow.Index < 0 || flow.Index >= len(flow.Steps) {
		return nil, nil
	}
	if flow.Data == nil {
		flow.Data = map[string]string{}
	}
	return &flow, nil
}

// Save writes flow for the client.
func (store *Store) Save(ctx context.Context, clientID string, flow *Flow) error {
	payload, err := json.Marshal(flow)
	if err != nil {
		return fmt.Errorf("wizard_encode_failed: %w", err)
	}
	if err := store.storage.Set(ctx, key(clientID, flow.Kind), string(payload)); err != nil {
		return fmt.Errorf("wizard_save_failed: %w", err)
	}
	return nil
}

// Delete discards the client's flow of kind. Missing flows are ignored.
func (store *Store) Delete(ctx context.Context, clientID string, kind Kind) error {
	if err := store.storage.Delete(ctx, key(clientID, kind)); err != nil {
		return fmt.Errorf("wizard_delete_failed: %w", err)
	}
	return nil
}

func key(clientID string, kind Kind) string {
	return constants.StorageKeyWizard + string(kind) + ":" + clientID
}
