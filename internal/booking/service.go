// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/uzevently/internal/platform/apperr"
	"github.com/taibuivan/uzevently/internal/platform/validate"
)

// Service is the availability checker and booking mutator.
type Service struct {
	store    Store
	location *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// Option customizes a [Service].
type Option func(*Service)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(service *Service) { service.now = now }
}

// NewService constructs a [Service]. location decides which calendar day is
// "today".
func NewService(store Store, location *time.Location, logger *slog.Logger, opts ...Option) *Service {
	service := &Service{
		store:    store,
		location: location,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Today returns the current calendar day in the configured location.
func (service *Service) Today() Day {
	return DayOf(service.now().In(service.location))
}

// Selectable reports whether day may be chosen. Only days strictly before
// today are blocked.
func (service *Service) Selectable(day Day) bool {
	return !day.Before(service.Today())
}

// IsBooked reports whether a record matches the slot exactly.
func (service *Service) IsBooked(ctx context.Context, slot Slot) (bool, error) {
	booked, err := service.store.Exists(ctx, slot)
	if err != nil {
		return false, fmt.Errorf("booking_exists_failed: %w", err)
	}
	return booked, nil
}

/*
Check applies every booking precondition without writing anything.

Description: A day and a target must be chosen, the day must be selectable,
and the slot must be free.

Returns:
  - error: apperr.ValidationError, apperr.Conflict, or storage errors
*/
func (service *Service) Check(ctx context.Context, slot Slot) error {
	if err := (&validate.Validator{}).
		Custom("date", slot.Day.IsZero(), "Please choose a date").
		Custom("targetId", slot.TargetID <= 0, "Please select a room or venue").
		OneOf("kind", string(slot.Kind), string(KindRoom), string(KindVenue)).
		Err(); err != nil {
		return err
	}

	if !service.Selectable(slot.Day) {
		return validate.RequiredError("date", "Past dates cannot be booked")
	}

	booked, err := service.IsBooked(ctx, slot)
	if err != nil {
		return err
	}
	if booked {
		return apperr.Conflict("This date is already booked")
	}

	return nil
}

/*
Book records a booking for slot.

Description: Runs [Service.Check] then inserts exactly one record. A slot
taken between the check and the insert is reported as a conflict.

Parameters:
  - ctx: context.Context
  - slot: Slot

Returns:
  - *Record: The stored record
  - error: apperr.ValidationError, apperr.Conflict, or storage errors
*/
func (service *Service) Book(ctx context.Context, slot Slot) (*Record, error) {
	if err := service.Check(ctx, slot); err != nil {
		return nil, err
	}

	record := Record{Slot: slot, CreatedAt: service.now().UTC()}
	if err := service.store.Insert(ctx, record); err != nil {
		if errors.Is(err, ErrAlreadyBooked) {
			return nil, apperr.Conflict("This date is already booked")
		}
		return nil, fmt.Errorf("booking_insert_failed: %w", err)
	}

	service.logger.Info("booking_recorded",
		slog.String("kind", string(slot.Kind)),
		slog.Int("target_id", slot.TargetID),
		slog.String("day", slot.Day.ISO()),
	)

	return &record, nil
}

// List returns stored records for the admin view.
func (service *Service) List(ctx context.Context, filter Filter) ([]Record, error) {
	records, err := service.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("booking_list_failed: %w", err)
	}
	return records, nil
}

// BookedTargets returns the set of kind targets booked on day.
func (service *Service) BookedTargets(ctx context.Context, kind Kind, day Day) (map[int]bool, error) {
	records, err := service.List(ctx, Filter{Kind: kind, Day: day})
	if err != nil {
		return nil, err
	}

	booked := make(map[int]bool, len(records))
	for _, record := range records {
		booked[record.TargetID] = true
	}
	return booked, nil
}
