// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package kv provides the durable key-value port used for per-client state.

It plays the role browser local storage plays for a single-page app: the
session payload, its bearer token and in-progress verification wizards are
written here on every mutation so that a reload reconstructs them without a
call to the external backend.

Implementations:

  - [Memory]: process-local map, used in development and tests.
  - [Redis]: shared store for multi-instance deployments.

Writes are synchronous and unbatched; each mutation is persisted immediately.
*/
package kv

import (
	"context"
	"sync"
)

// Storage is the durable key-value contract.
type Storage interface {
	// Get returns the value stored under key. found is false when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key without expiry.
	Set(ctx context.Context, key, value string) error

	// Delete removes the given keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}

// # In-Memory Implementation

// Memory is a mutex-guarded in-process [Storage].
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get implements [Storage].
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, found := m.values[key]
	return value, found, nil
}

// Set implements [Storage].
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

// Delete implements [Storage].
func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}
