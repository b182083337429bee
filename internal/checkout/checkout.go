// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package checkout drives a booking from slot selection to a paid,
confirmed reservation.

Lifecycle:

	Begin ──► idle ──Pay──► processing ──(provider approves)──► success
	                                    └─(slot taken meanwhile)──► error

The booking record is written only after the payment is approved. The
receipt can be downloaded once the checkout reaches success.
*/
package checkout

import (
	"context"
	"time"

	"github.com/taibuivan/uzevently/internal/booking"
	"github.com/taibuivan/uzevently/internal/catalog"
	"github.com/taibuivan/uzevently/internal/payment"
)

// EventBookingConfirmed is the routing key of confirmation events.
const EventBookingConfirmed = "booking.confirmed"

// # Domain Models

// Checkout is one client's attempt to book and pay for a slot.
type Checkout struct {
	ID        string          `json:"id"`
	Slot      booking.Slot    `json:"slot"`
	Listing   catalog.Listing `json:"listing"`
	State     payment.State   `json:"state"`
	Card      string          `json:"card,omitempty"`
	Reference string          `json:"reference,omitempty"`
	Message   string          `json:"message,omitempty"`
	Receipt   string          `json:"receipt,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`

	clientID string
	document []byte
}

// BookingConfirmed is published once a paid booking has been recorded.
type BookingConfirmed struct {
	CheckoutID  string       `json:"checkoutId"`
	ClientID    string       `json:"clientId"`
	Slot        booking.Slot `json:"slot"`
	Amount      int64        `json:"amount"`
	Reference   string       `json:"reference"`
	ConfirmedAt time.Time    `json:"confirmedAt"`
}

// # Ports

// Bookings is the availability checker and booking mutator.
type Bookings interface {
	Check(ctx context.Context, slot booking.Slot) error
	Book(ctx context.Context, slot booking.Slot) (*booking.Record, error)
}

// Listings prices the target of a slot.
type Listings interface {
	Listing(slot booking.Slot) (*catalog.Listing, error)
}

// Publisher delivers domain events. A nil Publisher disables publishing.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}
