// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package payment models the simulated card payment used at checkout.

No real gateway is contacted. The [MockProvider] waits a fixed delay and then
approves every charge, which is enough to drive the checkout state machine.
*/
package payment

import (
	"context"
	"fmt"
	"time"
)

// # Payment States

// State is the lifecycle of a single payment attempt.
type State string

const (
	StateIdle       State = "idle"
	StateProcessing State = "processing"
	StateSuccess    State = "success"

	// StateError is never produced by [MockProvider].
	StateError State = "error"
)

// Terminal reports whether no further transition can happen.
func (state State) Terminal() bool {
	return state == StateSuccess || state == StateError
}

// # Card

// Card holds the raw card form fields. Validation is format-only.
type Card struct {
	Number string `json:"cardNumber"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
	Holder string `json:"cardHolder"`
}

// Normalized returns the card with every field passed through its formatter.
func (card Card) Normalized() Card {
	return Card{
		Number: FormatCardNumber(card.Number),
		Expiry: FormatExpiry(card.Expiry),
		CVV:    FormatCVV(card.CVV),
		Holder: card.Holder,
	}
}

// Masked returns the card number with all but the last four digits hidden.
func (card Card) Masked() string {
	digits := onlyDigits(card.Number)
	if len(digits) <= 4 {
		return digits
	}
	return "**** " + digits[len(digits)-4:]
}

// # Provider

// Charge is the result of an approved payment.
type Charge struct {
	Reference string    `json:"reference"`
	Amount    int64     `json:"amount"`
	ChargedAt time.Time `json:"chargedAt"`
}

// Provider charges a card.
type Provider interface {
	Charge(ctx context.Context, card Card, amount int64) (*Charge, error)
}

// MockProvider approves every charge after Delay.
type MockProvider struct {
	Delay time.Duration
	now   func() time.Time
}

// NewMockProvider constructs a [MockProvider] with the given processing delay.
func NewMockProvider(delay time.Duration) *MockProvider {
	return &MockProvider{Delay: delay, now: time.Now}
}

/*
Charge waits for the configured delay and then approves the payment.

Description: The only way this fails is ctx being cancelled during the wait,
which happens when the server shuts down.

Parameters:
  - ctx: context.Context
  - card: Card
  - amount: int64 (minor units)

Returns:
  - *Charge: The approved charge
  - error: ctx.Err() if cancelled
*/
func (provider *MockProvider) Charge(ctx context.Context, card Card, amount int64) (*Charge, error) {
	if provider.Delay > 0 {
		timer := time.NewTimer(provider.Delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("payment_charge_cancelled: %w", ctx.Err())
		case <-timer.C:
		}
	}

	now := time.Now
	if provider.now != nil {
		now = provider.now
	}
	chargedAt := now().UTC()

	return &Charge{
		Reference: fmt.Sprintf("MOCK-%d", chargedAt.UnixNano()),
		Amount:    amount,
		ChargedAt: chargedAt,
	}, nil
}
