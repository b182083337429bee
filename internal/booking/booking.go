// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package booking answers "is this room or venue booked on this day?" and
records new bookings.

Architecture:

  - Slot: (kind, target, day). At most one record exists per slot; this is
    the only consistency rule of the system.
  - Store: Persistence port with memory, PostgreSQL and SQLite adapters. Each
    adapter enforces the rule with a keyed lookup, never a scan.
  - Service: Applies the booking preconditions and the "no past days" rule.

Nothing ever removes a record: there is no cancellation flow.
*/
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Kind tells rooms and venues apart so their numeric IDs never collide.
type Kind string

const (
	KindRoom  Kind = "room"
	KindVenue Kind = "venue"
)

// ParseKind validates a kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindRoom, KindVenue:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("booking: unknown kind %q", s)
	}
}

// Slot identifies one bookable unit on one day.
type Slot struct {
	Kind     Kind `json:"kind"`
	TargetID int  `json:"targetId"`
	Day      Day  `json:"date"`
}

// Record is a stored booking.
type Record struct {
	Slot
	CreatedAt time.Time `json:"createdAt"`
}

// Filter narrows [Store.List]. Zero fields match everything.
type Filter struct {
	Kind     Kind
	TargetID int
	Day      Day
}

// matches reports whether slot satisfies the filter.
func (filter Filter) matches(slot Slot) bool {
	if filter.Kind != "" && filter.Kind != slot.Kind {
		return false
	}
	if filter.TargetID != 0 && filter.TargetID != slot.TargetID {
		return false
	}
	if !filter.Day.IsZero() && filter.Day != slot.Day {
		return false
	}
	return true
}

// ErrAlreadyBooked is returned by [Store.Insert] for an occupied slot.
var ErrAlreadyBooked = errors.New("booking: slot already booked")

// Store persists booking records.
type Store interface {
	// Exists reports whether a record for slot exists.
	Exists(ctx context.Context, slot Slot) (bool, error)

	// Insert appends a record. It returns [ErrAlreadyBooked] if the slot is taken.
	Insert(ctx context.Context, record Record) error

	// List returns matching records ordered by day, then kind and target.
	List(ctx context.Context, filter Filter) ([]Record, error)
}

// Seeds are the example bookings every fresh store starts with.
func Seeds() []Slot {
	fri := NewDay(2025, time.July, 25)
	sat := NewDay(2025, time.July, 26)
	sun := NewDay(2025, time.July, 27)

	return []Slot{
		{Kind: KindRoom, TargetID: 1, Day: fri},
		{Kind: KindRoom, TargetID: 3, Day: fri},
		{Kind: KindRoom, TargetID: 5, Day: fri},
		{Kind: KindRoom, TargetID: 7, Day: sat},
		{Kind: KindRoom, TargetID: 9, Day: sun},
	}
}

// Seed inserts [Seeds] into store. Slots already present are skipped, so it
// is safe to run on every start.
func Seed(ctx context.Context, store Store, now time.Time) error {
	for _, slot := range Seeds() {
		err := store.Insert(ctx, Record{Slot: slot, CreatedAt: now})
		if err != nil && !errors.Is(err, ErrAlreadyBooked) {
			return fmt.Errorf("booking_seed_failed: %w", err)
		}
	}
	return nil
}
