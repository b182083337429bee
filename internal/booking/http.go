// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package booking

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/uzevently/internal/platform/middleware"
	"github.com/taibuivan/uzevently/internal/platform/respond"
	"github.com/taibuivan/uzevently/internal/platform/validate"
	"github.com/taibuivan/uzevently/internal/session"
	"github.com/taibuivan/uzevently/pkg/pagination"
)

// Handler exposes availability checks and the admin booking list.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the public availability routes.
//
// # Endpoints
//   - GET / : ?kind=room|venue&id=<int>&date=<day>
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.availability)
	return router
}

// AdminRoutes returns the booking list, restricted to admins.
//
// # Endpoints
//   - GET / : ?kind=&id=&date=&page=&limit= (all optional)
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(session.RoleAdmin))
	router.Get("/", handler.list)
	return router
}

// Availability is the answer of the availability endpoint.
type Availability struct {
	Slot
	Booked     bool `json:"booked"`
	Selectable bool `json:"selectable"`
}

func (handler *Handler) availability(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Query Extraction ───────────────────────────────────────────────

	slot, err := slotFromQuery(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Lookup ─────────────────────────────────────────────────────────

	booked, err := handler.service.IsBooked(request.Context(), slot)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, Availability{
		Slot:       slot,
		Booked:     booked,
		Selectable: handler.service.Selectable(slot.Day),
	})
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	filter := Filter{Kind: Kind(query.Get("kind"))}

	v := &validate.Validator{}
	if filter.Kind != "" {
		v.OneOf("kind", string(filter.Kind), string(KindRoom), string(KindVenue))
	}
	if raw := query.Get("id"); raw != "" {
		id, err := strconv.Atoi(raw)
		v.Custom("id", err != nil || id <= 0, "Must be a positive integer")
		filter.TargetID = id
	}
	if raw := query.Get("date"); raw != "" {
		day, err := ParseDay(raw)
		v.Custom("date", err != nil, "Must be a date like 2025-07-25 or Fri Jul 25 2025")
		filter.Day = day
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	records, err := handler.service.List(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, meta := pagination.Window(records, pagination.FromRequest(request))
	respond.Paginated(writer, page, meta)
}

// slotFromQuery parses kind, id and date query parameters.
func slotFromQuery(request *http.Request) (Slot, error) {
	query := request.URL.Query()

	kind := query.Get("kind")
	if kind == "" {
		kind = string(KindRoom)
	}

	id, idErr := strconv.Atoi(query.Get("id"))
	day, dayErr := ParseDay(query.Get("date"))

	if err := (&validate.Validator{}).
		OneOf("kind", kind, string(KindRoom), string(KindVenue)).
		Custom("id", idErr != nil || id <= 0, "Please select a room or venue").
		Custom("date", dayErr != nil, "Please choose a date").
		Err(); err != nil {
		return Slot{}, err
	}

	return Slot{Kind: Kind(kind), TargetID: id, Day: day}, nil
}
