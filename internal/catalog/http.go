// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/uzevently/internal/booking"
	"github.com/taibuivan/uzevently/internal/platform/request"
	"github.com/taibuivan/uzevently/internal/platform/respond"
	"github.com/taibuivan/uzevently/internal/platform/validate"
)

// Handler exposes the venue directory.
type Handler struct {
	catalogService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{catalogService: service}
}

// Routes returns the venue routes.
//
// # Endpoints
//   - GET /                       : ?q=&type=&location=
//   - GET /{venueId}              : Venue details.
//   - GET /{venueId}/rooms        : ?date= rooms with booked flags.
//   - GET /{venueId}/reviews      : Reviews, newest first.
//   - POST /{venueId}/reviews     : Adds a guest review.
//   - PUT /{venueId}/favorite     : Toggles the favourite flag.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.search)
	router.Route("/{venueId}", func(r chi.Router) {
		r.Get("/", handler.venue)
		r.Get("/rooms", handler.rooms)
		r.Get("/reviews", handler.reviews)
		r.Post("/reviews", handler.addReview)
		r.Put("/favorite", handler.toggleFavorite)
	})

	return router
}

// FavoritesRoutes returns GET / listing the client's favourites.
func (handler *Handler) FavoritesRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.favorites)
	return router
}

func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	respond.OK(writer, handler.catalogService.Search(Query{
		Term:     query.Get("q"),
		Type:     query.Get("type"),
		Location: query.Get("location"),
	}))
}

func (handler *Handler) venue(writer http.ResponseWriter, request *http.Request) {
	venueID, err := requestutil.IntParam(request, "venueId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	venue, err := handler.catalogService.Venue(venueID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, venue)
}

// rooms handles GET /api/v1/venues/{venueId}/rooms?date=.
func (handler *Handler) rooms(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Input Extraction ───────────────────────────────────────────────

	venueID, err := requestutil.IntParam(request, "venueId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	day, dayErr := booking.ParseDay(request.URL.Query().Get("date"))
	if err := (&validate.Validator{}).Custom("date", dayErr != nil, "Please choose a date").Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Lookup ─────────────────────────────────────────────────────────

	rooms, err := handler.catalogService.Rooms(request.Context(), venueID, day)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, rooms)
}

func (handler *Handler) reviews(writer http.ResponseWriter, request *http.Request) {
	venueID, err := requestutil.IntParam(request, "venueId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reviews, err := handler.catalogService.Reviews(venueID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, reviews)
}

// addReview handles POST /api/v1/venues/{venueId}/reviews.
func (handler *Handler) addReview(writer http.ResponseWriter, request *http.Request) {
	venueID, err := requestutil.IntParam(request, "venueId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input ReviewInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.catalogService.AddReview(venueID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, review)
}

type favoriteResponse struct {
	VenueID  int  `json:"venueId"`
	Favorite bool `json:"favorite"`
}

func (handler *Handler) toggleFavorite(writer http.ResponseWriter, request *http.Request) {
	venueID, err := requestutil.IntParam(request, "venueId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	favorite, err := handler.catalogService.ToggleFavorite(requestutil.ClientID(request), venueID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, favoriteResponse{VenueID: venueID, Favorite: favorite})
}

func (handler *Handler) favorites(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.catalogService.Favorites(requestutil.ClientID(request)))
}
