// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/taibuivan/uzevently/internal/booking"
	"github.com/taibuivan/uzevently/internal/platform/apperr"
	"github.com/taibuivan/uzevently/internal/platform/validate"
	"github.com/taibuivan/uzevently/pkg/slice"
)

// AnyValue disables a search filter.
const AnyValue = "all"

// GuestAuthor is the display name attached to reviews posted from the site.
const GuestAuthor = "Guest User"

// Availability answers which targets of a kind are booked on a day.
type Availability interface {
	BookedTargets(ctx context.Context, kind booking.Kind, day booking.Day) (map[int]bool, error)
	Today() booking.Day
}

// Service is the venue directory.
type Service struct {
	catalogue    *catalogue
	availability Availability
	logger       *slog.Logger

	mu        sync.RWMutex
	reviews   map[int][]Review
	favorites map[string][]int
}

// NewService parses the embedded seed and constructs a [Service].
func NewService(availability Availability, logger *slog.Logger) (*Service, error) {
	return newService(seedDocument, availability, logger)
}

func newService(document []byte, availability Availability, logger *slog.Logger) (*Service, error) {
	parsed, err := parseSeed(document)
	if err != nil {
		return nil, err
	}

	reviews := make(map[int][]Review, len(parsed.reviews))
	for venueID, list := range parsed.reviews {
		reviews[venueID] = slices.Clone(list)
	}

	return &Service{
		catalogue:    parsed,
		availability: availability,
		logger:       logger,
		reviews:      reviews,
		favorites:    make(map[string][]int),
	}, nil
}

// # Search

// Query filters the venue list. Empty or "all" fields match everything.
type Query struct {
	Term     string
	Type     string
	Location string
}

/*
Search returns venues matching query in catalogue order.

Description: Term matches case-insensitively on name or location. Type must
match exactly. Location matches case-insensitively as a substring.
*/
func (service *Service) Search(query Query) []Venue {
	fold := cases.Fold()
	term := fold.String(strings.TrimSpace(query.Term))
	location := fold.String(strings.TrimSpace(query.Location))

	return slice.Filter(service.catalogue.venues, func(venue Venue) bool {
		if term != "" &&
			!strings.Contains(fold.String(venue.Name), term) &&
			!strings.Contains(fold.String(venue.Location), term) {
			return false
		}
		if !isAny(query.Type) && venue.Type != query.Type {
			return false
		}
		return isAny(query.Location) || strings.Contains(fold.String(venue.Location), location)
	})
}

func isAny(value string) bool {
	value = strings.TrimSpace(value)
	return value == "" || value == AnyValue
}

// # Venues & Rooms

// Venue returns a single venue.
func (service *Service) Venue(id int) (*Venue, error) {
	for _, venue := range service.catalogue.venues {
		if venue.ID == id {
			return &venue, nil
		}
	}
	return nil, apperr.NotFound("Venue")
}

// RoomAvailability is a room together with its booked flag for one day.
type RoomAvailability struct {
	Room
	Booked bool `json:"booked"`
}

/*
Rooms lists the rooms of a venue flagged against the booking records of day.

Returns:
  - []RoomAvailability: Rooms in catalogue order
  - error: apperr.NotFound, validation errors, or storage errors
*/
func (service *Service) Rooms(ctx context.Context, venueID int, day booking.Day) ([]RoomAvailability, error) {
	if _, err := service.Venue(venueID); err != nil {
		return nil, err
	}
	if day.IsZero() {
		return nil, validate.RequiredError("date", "Please choose a date")
	}

	booked, err := service.availability.BookedTargets(ctx, booking.KindRoom, day)
	if err != nil {
		return nil, err
	}

	rooms := service.catalogue.rooms[venueID]
	result := make([]RoomAvailability, 0, len(rooms))
	for _, room := range rooms {
		result = append(result, RoomAvailability{Room: room, Booked: booked[room.ID]})
	}
	return result, nil
}

// Listing is the priced description of a bookable slot target.
type Listing struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Price    string `json:"price"`
	Amount   int64  `json:"amount"`
	Capacity string `json:"capacity"`
}

// Listing describes the target of slot for checkout and receipts.
func (service *Service) Listing(slot booking.Slot) (*Listing, error) {
	switch slot.Kind {
	case booking.KindRoom:
		room, ok := service.catalogue.roomIDs[slot.TargetID]
		if !ok {
			return nil, apperr.NotFound("Room")
		}
		return &Listing{Name: room.Name, Type: room.Type, Price: room.Price, Amount: room.Amount, Capacity: room.Capacity}, nil

	case booking.KindVenue:
		venue, err := service.Venue(slot.TargetID)
		if err != nil {
			return nil, err
		}
		return &Listing{Name: venue.Name, Type: venue.Type, Price: venue.Price, Amount: venue.Amount, Capacity: venue.Capacity}, nil
	}
	return nil, fmt.Errorf("catalog_unknown_kind: %q", slot.Kind)
}

// # Reviews

// Reviews returns the reviews of a venue, newest first.
func (service *Service) Reviews(venueID int) ([]Review, error) {
	if _, err := service.Venue(venueID); err != nil {
		return nil, err
	}

	service.mu.RLock()
	defer service.mu.RUnlock()

	return slices.Clone(service.reviews[venueID]), nil
}

// ReviewInput is the review form.
type ReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

/*
AddReview prepends a guest review to a venue.

Description: The author is always [GuestAuthor], the date is today and the ID
is the review count plus one.

Returns:
  - *Review: The stored review
  - error: apperr.NotFound or apperr.ValidationError
*/
func (service *Service) AddReview(venueID int, input ReviewInput) (*Review, error) {
	if _, err := service.Venue(venueID); err != nil {
		return nil, err
	}

	comment := strings.TrimSpace(input.Comment)
	if err := (&validate.Validator{}).
		Required("comment", comment).
		MaxLen("comment", comment, 2000).
		Range("rating", input.Rating, 1, 5).
		Err(); err != nil {
		return nil, err
	}

	service.mu.Lock()
	defer service.mu.Unlock()

	existing := service.reviews[venueID]
	review := Review{
		ID:      len(existing) + 1,
		Name:    GuestAuthor,
		Rating:  input.Rating,
		Date:    service.availability.Today().ISO(),
		Comment: comment,
		Avatar:  defaultAvatar,
	}
	service.reviews[venueID] = append([]Review{review}, existing...)

	service.logger.Info("review_added",
		slog.Int("venue_id", venueID),
		slog.Int("rating", review.Rating),
	)

	return &review, nil
}

// # Favorites

// ToggleFavorite adds or removes a venue from the client's favourites and
// reports whether it is now a favourite.
func (service *Service) ToggleFavorite(clientID string, venueID int) (bool, error) {
	if _, err := service.Venue(venueID); err != nil {
		return false, err
	}

	service.mu.Lock()
	defer service.mu.Unlock()

	current := service.favorites[clientID]
	if index := slices.Index(current, venueID); index >= 0 {
		service.favorites[clientID] = slices.Delete(slices.Clone(current), index, index+1)
		return false, nil
	}

	service.favorites[clientID] = append(slices.Clone(current), venueID)
	return true, nil
}

// Favorites returns the client's favourite venues in the order they were added.
func (service *Service) Favorites(clientID string) []Venue {
	service.mu.RLock()
	ids := slices.Clone(service.favorites[clientID])
	service.mu.RUnlock()

	result := make([]Venue, 0, len(ids))
	for _, id := range ids {
		if venue, err := service.Venue(id); err == nil {
			result = append(result, *venue)
		}
	}
	return result
}

