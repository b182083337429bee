// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package booking

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps records in a map keyed by slot.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[Slot]Record
}

// NewMemoryStore constructs an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[Slot]Record)}
}

// Exists implements [Store].
func (store *MemoryStore) Exists(_ context.Context, slot Slot) (bool, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	_, found := store.records[slot]
	return found, nil
}

// Insert implements [Store].
func (store *MemoryStore) Insert(_ context.Context, record Record) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, found := store.records[record.Slot]; found {
		return ErrAlreadyBooked
	}
	store.records[record.Slot] = record
	return nil
}

// List implements [Store].
func (store *MemoryStore) List(_ context.Context, filter Filter) ([]Record, error) {
	store.mu.RLock()
	records := make([]Record, 0, len(store.records))
	for _, record := range store.records {
		if filter.matches(record.Slot) {
			records = append(records, record)
		}
	}
	store.mu.RUnlock()

	sortRecords(records)
	return records, nil
}

func sortRecords(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i].Slot, records[j].Slot
		if a.Day != b.Day {
			return a.Day.Before(b.Day)
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.TargetID < b.TargetID
	})
}
