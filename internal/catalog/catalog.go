// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog serves the venue directory.

Venues, their rooms and the initial reviews come from an embedded YAML
document. Reviews added at runtime and per-client favourites live in memory.
Room availability is delegated to the booking service.
*/
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed venues.yaml
var seedDocument []byte

// # Domain Models

// Venue is a bookable place listed in the directory.
type Venue struct {
	ID          int      `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Type        string   `json:"type" yaml:"type"`
	Location    string   `json:"location" yaml:"location"`
	Address     string   `json:"address,omitempty" yaml:"address"`
	Phone       string   `json:"phone,omitempty" yaml:"phone"`
	Email       string   `json:"email,omitempty" yaml:"email"`
	Description string   `json:"description,omitempty" yaml:"description"`
	Rating      float64  `json:"rating" yaml:"rating"`
	ReviewCount int      `json:"reviews" yaml:"reviewCount"`
	Price       string   `json:"price" yaml:"price"`
	Amount      int64    `json:"amount" yaml:"amount"`
	Capacity    string   `json:"capacity" yaml:"capacity"`
	Image       string   `json:"image" yaml:"image"`
	Features    []string `json:"features" yaml:"features"`
	HasRooms    bool     `json:"hasRooms" yaml:"-"`
}

// Room is a single bookable room of a venue.
type Room struct {
	ID       int    `json:"id"`
	VenueID  int    `json:"venueId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Price    string `json:"price"`
	Amount   int64  `json:"amount"`
	Capacity string `json:"capacity"`
	Image    string `json:"image"`
}

// Review is a guest rating of a venue.
type Review struct {
	ID      int    `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Rating  int    `json:"rating" yaml:"rating"`
	Date    string `json:"date" yaml:"date"`
	Comment string `json:"comment" yaml:"comment"`
	Avatar  string `json:"avatar" yaml:"-"`
}

// # Seed Document

type seedFile struct {
	Venues []seedVenue `yaml:"venues"`
}

type seedVenue struct {
	Venue   `yaml:",inline"`
	Rooms   *seedRooms `yaml:"rooms"`
	Reviews []Review   `yaml:"reviews"`
}

type seedRooms struct {
	Count   int          `yaml:"count"`
	Layouts []roomLayout `yaml:"layouts"`
}

type roomLayout struct {
	Type     string `yaml:"type"`
	Price    string `yaml:"price"`
	Amount   int64  `yaml:"amount"`
	Capacity string `yaml:"capacity"`
}

const (
	defaultAvatar = "/placeholder.svg?height=40&width=40"
	roomImages    = 5
)

// catalogue is the parsed, immutable part of the directory.
type catalogue struct {
	venues  []Venue
	rooms   map[int][]Room
	roomIDs map[int]Room
	reviews map[int][]Review
}

// parseSeed decodes document and expands room templates. Room IDs are
// global and assigned in document order starting at 1.
func parseSeed(document []byte) (*catalogue, error) {
	var file seedFile
	if err := yaml.Unmarshal(document, &file); err != nil {
		return nil, fmt.Errorf("catalog_seed_decode_failed: %w", err)
	}

	result := &catalogue{
		rooms:   make(map[int][]Room),
		roomIDs: make(map[int]Room),
		reviews: make(map[int][]Review),
	}

	seen := make(map[int]bool, len(file.Venues))
	nextRoomID := 1

	for _, entry := range file.Venues {
		venue := entry.Venue
		if venue.ID <= 0 || seen[venue.ID] {
			return nil, fmt.Errorf("catalog_seed_invalid: duplicate or missing venue id %d", venue.ID)
		}
		seen[venue.ID] = true

		if entry.Rooms != nil && entry.Rooms.Count > 0 {
			if len(entry.Rooms.Layouts) == 0 {
				return nil, fmt.Errorf("catalog_seed_invalid: venue %d has rooms but no layouts", venue.ID)
			}
			venue.HasRooms = true

			for i := 0; i < entry.Rooms.Count; i++ {
				layout := entry.Rooms.Layouts[i%len(entry.Rooms.Layouts)]
				room := Room{
					ID:       nextRoomID,
					VenueID:  venue.ID,
					Name:     fmt.Sprintf("Room %d", i+1),
					Type:     layout.Type,
					Price:    layout.Price,
					Amount:   layout.Amount,
					Capacity: layout.Capacity,
					Image:    fmt.Sprintf("/images/room/room%d.png", i%roomImages+1),
				}
				result.rooms[venue.ID] = append(result.rooms[venue.ID], room)
				result.roomIDs[room.ID] = room
				nextRoomID++
			}
		}

		reviews := make([]Review, 0, len(entry.Reviews))
		for _, review := range entry.Reviews {
			review.Avatar = defaultAvatar
			reviews = append(reviews, review)
		}
		result.reviews[venue.ID] = reviews

		result.venues = append(result.venues, venue)
	}

	return result, nil
}
