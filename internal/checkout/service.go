// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/uzevently/internal/booking"
	"github.com/taibuivan/uzevently/internal/catalog"
	"github.com/taibuivan/uzevently/internal/payment"
	"github.com/taibuivan/uzevently/internal/platform/apperr"
	"github.com/taibuivan/uzevently/internal/platform/validate"
	"github.com/taibuivan/uzevently/internal/receipt"
	"github.com/taibuivan/uzevently/pkg/uuidv7"
)

const (
	// publishTimeout bounds a single event delivery.
	publishTimeout = 5 * time.Second

	// DefaultRetention is how long an idle or finished checkout survives its
	// last change before the sweeper drops it.
	DefaultRetention = 30 * time.Minute

	maxSweepInterval = time.Minute
)

// # Messages

const (
	MsgAlreadyPaid       = "Payment has already been submitted"
	MsgProcessing        = "Payment is being processed"
	MsgReceiptNotReady   = "The receipt is available once the payment succeeds"
	MsgSlotTaken         = "This date is already booked"
	MsgBookingNotSaved   = "The booking could not be recorded"
	MsgCardNumberMissing = "Please enter the card number"
	MsgExpiryMissing     = "Please enter the expiry date"
	MsgCVVMissing        = "Please enter the CVV"
	MsgHolderMissing     = "Please enter the card holder name"
)

// Dependencies wires a [Service].
type Dependencies struct {
	Bookings  Bookings
	Listings  Listings
	Provider  payment.Provider
	Renderer  receipt.Renderer
	Publisher Publisher
	Logger    *slog.Logger

	// Retention overrides [DefaultRetention] when positive.
	Retention time.Duration
}

// Service owns every in-flight checkout.
type Service struct {
	bookings  Bookings
	listings  Listings
	provider  payment.Provider
	renderer  receipt.Renderer
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
	retention time.Duration

	mu        sync.Mutex
	checkouts map[string]*Checkout

	// Payments run detached from the request that started them.
	background context.Context
	stop       context.CancelFunc
	inflight   sync.WaitGroup
}

// NewService constructs a [Service] and starts the registry sweeper. The
// sweeper stops with [Service.Shutdown].
func NewService(deps Dependencies) *Service {
	retention := deps.Retention
	if retention <= 0 {
		retention = DefaultRetention
	}

	background, stop := context.WithCancel(context.Background())
	service := &Service{
		bookings:   deps.Bookings,
		listings:   deps.Listings,
		provider:   deps.Provider,
		renderer:   deps.Renderer,
		publisher:  deps.Publisher,
		logger:     deps.Logger,
		now:        time.Now,
		retention:  retention,
		checkouts:  make(map[string]*Checkout),
		background: background,
		stop:       stop,
	}

	go service.sweep(min(retention, maxSweepInterval))

	return service
}

/*
Begin opens a checkout for slot.

Description: Applies the booking preconditions without writing anything and
prices the target.

Parameters:
  - ctx: context.Context
  - clientID: string (owner)
  - slot: booking.Slot

Returns:
  - *Checkout: A copy in the idle state
  - error: apperr.ValidationError, apperr.Conflict, apperr.NotFound
*/
func (service *Service) Begin(ctx context.Context, clientID string, slot booking.Slot) (*Checkout, error) {
	if err := service.bookings.Check(ctx, slot); err != nil {
		return nil, err
	}

	listing, err := service.listings.Listing(slot)
	if err != nil {
		return nil, err
	}

	now := service.now().UTC()
	checkout := &Checkout{
		ID:        uuidv7.New(),
		Slot:      slot,
		Listing:   *listing,
		State:     payment.StateIdle,
		CreatedAt: now,
		UpdatedAt: now,
		clientID:  clientID,
	}

	service.mu.Lock()
	service.checkouts[checkout.ID] = checkout
	service.mu.Unlock()

	service.logger.Info("checkout_started",
		slog.String("checkout_id", checkout.ID),
		slog.String("kind", string(slot.Kind)),
		slog.Int("target_id", slot.TargetID),
		slog.String("day", slot.Day.ISO()),
	)

	return checkout.snapshot(), nil
}

/*
Pay submits the card and moves the checkout to processing.

Description: The charge, the booking write, the receipt and the confirmation
event all happen in the background. Poll [Service.Get] for the outcome.

Returns:
  - *Checkout: A copy in the processing state
  - error: apperr.ValidationError, apperr.NotFound, apperr.Conflict
*/
func (service *Service) Pay(_ context.Context, clientID, checkoutID string, card payment.Card) (*Checkout, error) {
	card = card.Normalized()
	if err := validateCard(card); err != nil {
		return nil, err
	}

	service.mu.Lock()
	defer service.mu.Unlock()

	checkout, err := service.owned(clientID, checkoutID)
	if err != nil {
		return nil, err
	}
	if checkout.State != payment.StateIdle {
		return nil, apperr.Conflict(MsgAlreadyPaid)
	}

	checkout.State = payment.StateProcessing
	checkout.Card = card.Masked()
	checkout.UpdatedAt = service.now().UTC()

	service.inflight.Add(1)
	go service.settle(pending{
		checkoutID: checkout.ID,
		clientID:   clientID,
		slot:       checkout.Slot,
		listing:    checkout.Listing,
		card:       card,
	})

	service.logger.Info("checkout_payment_submitted",
		slog.String("checkout_id", checkout.ID),
		slog.String("card", checkout.Card),
	)

	return checkout.snapshot(), nil
}

// pending is everything the background settlement needs, captured at Pay.
type pending struct {
	checkoutID string
	clientID   string
	slot       booking.Slot
	listing    catalog.Listing
	card       payment.Card
}

// settle runs the deferred part of a payment.
func (service *Service) settle(job pending) {
	defer service.inflight.Done()
	ctx := service.background
	logger := service.logger.With(slog.String("checkout_id", job.checkoutID))

	// ── 1. Charge ─────────────────────────────────────────────────────────

	charge, err := service.provider.Charge(ctx, job.card, job.listing.Amount)
	if err != nil {
		// Only shutdown interrupts the mock provider; the registry dies with the process.
		logger.Warn("checkout_payment_interrupted", slog.Any("error", err))
		return
	}

	// ── 2. Booking Write ──────────────────────────────────────────────────

	record, err := service.bookings.Book(ctx, job.slot)
	if err != nil {
		message := MsgBookingNotSaved
		if ae := apperr.As(err); ae != nil && ae.Code == "CONFLICT" {
			message = MsgSlotTaken
		}
		logger.Warn("checkout_booking_failed", slog.Any("error", err))
		service.update(job.checkoutID, func(checkout *Checkout) {
			checkout.State = payment.StateError
			checkout.Reference = charge.Reference
			checkout.Message = message
		})
		return
	}

	// ── 3. Receipt ────────────────────────────────────────────────────────

	confirmation := receipt.Confirmation{
		Slot:      job.slot,
		Name:      job.listing.Name,
		Type:      job.listing.Type,
		Price:     job.listing.Price,
		Capacity:  job.listing.Capacity,
		Reference: charge.Reference,
		Holder:    job.card.Holder,
		BookedAt:  record.CreatedAt,
	}
	document, err := service.renderer.Render(confirmation)
	if err != nil {
		logger.Error("checkout_receipt_failed", slog.Any("error", err))
	}

	service.update(job.checkoutID, func(checkout *Checkout) {
		checkout.State = payment.StateSuccess
		checkout.Reference = charge.Reference
		if document != nil {
			checkout.document = document
			checkout.Receipt = confirmation.Filename()
		}
	})

	logger.Info("checkout_succeeded",
		slog.String("reference", charge.Reference),
		slog.Int64("amount", job.listing.Amount),
	)

	// ── 4. Confirmation Event ─────────────────────────────────────────────

	service.publish(ctx, logger, BookingConfirmed{
		CheckoutID:  job.checkoutID,
		ClientID:    job.clientID,
		Slot:        job.slot,
		Amount:      job.listing.Amount,
		Reference:   charge.Reference,
		ConfirmedAt: service.now().UTC(),
	})
}

func (service *Service) publish(ctx context.Context, logger *slog.Logger, event BookingConfirmed) {
	if service.publisher == nil {
		return
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := service.publisher.Publish(publishCtx, EventBookingConfirmed, event); err != nil {
		logger.Error("checkout_event_publish_failed", slog.Any("error", err))
		return
	}
	logger.Debug("checkout_event_published", slog.String("routing_key", EventBookingConfirmed))
}

// Get returns a copy of the client's checkout.
func (service *Service) Get(clientID, checkoutID string) (*Checkout, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	checkout, err := service.owned(clientID, checkoutID)
	if err != nil {
		return nil, err
	}
	return checkout.snapshot(), nil
}

/*
Receipt returns the rendered confirmation document.

Returns:
  - string: Download file name
  - []byte: Document content
  - error: apperr.NotFound, apperr.Conflict before success
*/
func (service *Service) Receipt(clientID, checkoutID string) (string, []byte, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	checkout, err := service.owned(clientID, checkoutID)
	if err != nil {
		return "", nil, err
	}
	if checkout.State != payment.StateSuccess || checkout.document == nil {
		return "", nil, apperr.Conflict(MsgReceiptNotReady)
	}
	return checkout.Receipt, checkout.document, nil
}

// Cancel closes the checkout. A payment being processed cannot be cancelled.
func (service *Service) Cancel(clientID, checkoutID string) error {
	service.mu.Lock()
	defer service.mu.Unlock()

	checkout, err := service.owned(clientID, checkoutID)
	if err != nil {
		return err
	}
	if checkout.State == payment.StateProcessing {
		return apperr.Conflict(MsgProcessing)
	}

	delete(service.checkouts, checkoutID)
	return nil
}

/*
Shutdown interrupts pending payments, stops the sweeper and waits for the
payment goroutines.

Returns:
  - error: ctx.Err() if the goroutines did not finish in time
*/
func (service *Service) Shutdown(ctx context.Context) error {
	service.stop()

	done := make(chan struct{})
	go func() {
		service.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("checkout_shutdown_timeout: %w", ctx.Err())
	}
}

// # Registry Sweeping

// sweep drops stale checkouts every interval until the service shuts down.
func (service *Service) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			service.evictStale()
		case <-service.background.Done():
			return
		}
	}
}

// evictStale removes idle, successful and failed checkouts untouched for
// longer than the retention. Processing checkouts always stay: their
// settlement still has to land.
func (service *Service) evictStale() {
	cutoff := service.now().UTC().Add(-service.retention)

	service.mu.Lock()
	defer service.mu.Unlock()

	evicted := 0
	for id, checkout := range service.checkouts {
		if checkout.State == payment.StateProcessing || !checkout.UpdatedAt.Before(cutoff) {
			continue
		}
		delete(service.checkouts, id)
		evicted++
	}

	if evicted > 0 {
		service.logger.Debug("checkout_registry_swept",
			slog.Int("evicted", evicted),
			slog.Int("remaining", len(service.checkouts)),
		)
	}
}

// # Internal Helpers

// owned must be called with mu held. Checkouts of other clients are
// reported as missing.
func (service *Service) owned(clientID, checkoutID string) (*Checkout, error) {
	checkout, ok := service.checkouts[checkoutID]
	if !ok || checkout.clientID != clientID {
		return nil, apperr.NotFound("Checkout")
	}
	return checkout, nil
}

// update applies fn to a live checkout under the lock. Cancelled checkouts
// are skipped.
func (service *Service) update(checkoutID string, fn func(checkout *Checkout)) {
	service.mu.Lock()
	defer service.mu.Unlock()

	checkout, ok := service.checkouts[checkoutID]
	if !ok {
		return
	}
	fn(checkout)
	checkout.UpdatedAt = service.now().UTC()
}

func (checkout *Checkout) snapshot() *Checkout {
	clone := *checkout
	return &clone
}

// validateCard checks presence only. Length caps are applied by
// [payment.Card.Normalized]; the card data itself is never verified.
func validateCard(card payment.Card) error {
	v := &validate.Validator{}
	v.Custom("cardNumber", card.Number == "", MsgCardNumberMissing).
		Custom("expiry", card.Expiry == "", MsgExpiryMissing)
	if payment.RequiresCVV(card.Number) {
		v.Custom("cvv", card.CVV == "", MsgCVVMissing)
	}
	v.Custom("cardHolder", strings.TrimSpace(card.Holder) == "", MsgHolderMissing)
	return v.Err()
}
