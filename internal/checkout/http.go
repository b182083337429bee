// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package checkout

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/uzevently/internal/booking"
	"github.com/taibuivan/uzevently/internal/payment"
	"github.com/taibuivan/uzevently/internal/platform/request"
	"github.com/taibuivan/uzevently/internal/platform/respond"
	"github.com/taibuivan/uzevently/internal/receipt"
)

// Handler exposes the booking checkout.
type Handler struct {
	checkoutService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{checkoutService: service}
}

// Routes returns the checkout routes. Every checkout is scoped to the
// client cookie that created it.
//
// # Endpoints
//   - POST   /                       : Begins a checkout for a slot.
//   - GET    /{checkoutId}           : Current state.
//   - POST   /{checkoutId}/pay       : Submits the card (202).
//   - DELETE /{checkoutId}           : Closes the checkout.
//   - GET    /{checkoutId}/receipt   : PDF confirmation after success.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.begin)
	router.Route("/{checkoutId}", func(r chi.Router) {
		r.Get("/", handler.get)
		r.Delete("/", handler.cancel)
		r.Post("/pay", handler.pay)
		r.Get("/receipt", handler.receipt)
	})

	return router
}

type beginRequest struct {
	Kind     string `json:"kind"`
	TargetID int    `json:"targetId"`
	Date     string `json:"date"`
}

// begin handles POST /api/v1/checkouts.
//
// # Returns
//   - 201 with the idle checkout.
//   - 400 when no date or target is chosen, or the date is in the past.
//   - 409 when the slot is already booked.
func (handler *Handler) begin(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input beginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	kind := booking.Kind(input.Kind)
	if kind == "" {
		kind = booking.KindRoom
	}

	// An unparsable date counts as no date chosen.
	day, _ := booking.ParseDay(input.Date)

	// ── 2. Application Execution ──────────────────────────────────────────

	checkout, err := handler.checkoutService.Begin(request.Context(), requestutil.ClientID(request), booking.Slot{
		Kind:     kind,
		TargetID: input.TargetID,
		Day:      day,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, checkout)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	checkout, err := handler.checkoutService.Get(requestutil.ClientID(request), requestutil.Param(request, "checkoutId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, checkout)
}

// pay handles POST /api/v1/checkouts/{checkoutId}/pay.
func (handler *Handler) pay(writer http.ResponseWriter, request *http.Request) {
	var card payment.Card
	if err := requestutil.DecodeJSON(request, &card); err != nil {
		respond.Error(writer, request, err)
		return
	}

	checkout, err := handler.checkoutService.Pay(request.Context(),
		requestutil.ClientID(request), requestutil.Param(request, "checkoutId"), card)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Accepted(writer, checkout)
}

func (handler *Handler) cancel(writer http.ResponseWriter, request *http.Request) {
	err := handler.checkoutService.Cancel(requestutil.ClientID(request), requestutil.Param(request, "checkoutId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) receipt(writer http.ResponseWriter, request *http.Request) {
	filename, content, err := handler.checkoutService.Receipt(requestutil.ClientID(request), requestutil.Param(request, "checkoutId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Attachment(writer, receipt.ContentType, filename, content)
}
