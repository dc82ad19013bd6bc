// Package domain contains the core data types for the DFW Explorer backend.
// This package has no dependencies on other internal packages and is imported
// by every other internal package (normalize, source, repo, service, handler).
package domain

import (
	"strings"
	"time"
)

// LocalTripPrefix marks trips that only exist in local storage. Trips created
// by a server carry a bare UUID instead.
const LocalTripPrefix = "local-"

// DefaultTripName is used when a trip is created without a name.
const DefaultTripName = "Untitled Trip"

// Trip is a user-curated, ordered collection of places.
// Places never holds two entries with the same ID.
type Trip struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Places      []Place   `json:"places"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// IsLocal reports whether the trip was created locally rather than by a server.
func (t Trip) IsLocal() bool {
	return strings.HasPrefix(t.ID, LocalTripPrefix)
}

// HasPlace reports whether a place with the given ID is already in the trip.
func (t Trip) HasPlace(id PlaceID) bool {
	return t.IndexOf(id) >= 0
}

// IndexOf returns the position of the place with the given ID, or -1.
func (t Trip) IndexOf(id PlaceID) int {
	for i, p := range t.Places {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// PlaceIDs returns the IDs of the trip's places in trip order.
func (t Trip) PlaceIDs() []PlaceID {
	ids := make([]PlaceID, len(t.Places))
	for i, p := range t.Places {
		ids[i] = p.ID
	}
	return ids
}

// TripInput carries the fields accepted when creating a trip.
type TripInput struct {
	Name        string
	Description string
}

// TripPatch carries optional field updates for an existing trip.
// Nil pointers leave the corresponding field untouched.
type TripPatch struct {
	Name        *string
	Description *string
}
