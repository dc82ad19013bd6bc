package handler

import (
	"net/http"

	"github.com/pkordes/dfw-explorer/internal/domain"
)

// CreateTripRequest is the body of POST /trips. Both fields are optional;
// a blank name becomes "Untitled Trip".
type CreateTripRequest struct {
	Name        string `json:"name" validate:"max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateTripRequest is the body of PATCH /trips/{id}. Absent fields are kept.
type UpdateTripRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// ReorderPlacesRequest is the body of PUT /trips/{id}/places.
type ReorderPlacesRequest struct {
	Places []domain.Place `json:"places" validate:"required,max=500"`
}

// SetActiveRequest is the body of PUT /trips/active. An empty id clears the
// active trip.
type SetActiveRequest struct {
	ID string `json:"id" validate:"max=100"`
}

// TripList is the body of GET /trips.
type TripList struct {
	Data []domain.Trip `json:"data"`
}

// PlaceChange is the body returned after adding or removing a place.
// Changed is false when the request was a no-op (duplicate add, missing remove).
type PlaceChange struct {
	Changed bool        `json:"changed"`
	Trip    domain.Trip `json:"trip"`
}

// ListTrips handles GET /trips.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, TripList{Data: trips})
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body CreateTripRequest
	if status, msg, ok := s.decodeBody(r, &body); !ok {
		writeError(w, status, codeValidation, msg)
		return
	}

	created, err := s.trips.Create(r.Context(), domain.TripInput{Name: body.Name, Description: body.Description})
	if err != nil {
		s.writeServiceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := tripIDParam(w, r)
	if !ok {
		return
	}
	trip, err := s.trips.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// UpdateTrip handles PATCH /trips/{id}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := tripIDParam(w, r)
	if !ok {
		return
	}
	var body UpdateTripRequest
	if status, msg, ok := s.decodeBody(r, &body); !ok {
		writeError(w, status, codeValidation, msg)
		return
	}

	updated, err := s.trips.Update(r.Context(), id, domain.TripPatch{Name: body.Name, Description: body.Description})
	if err != nil {
		s.writeServiceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteTrip handles DELETE /trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := tripIDParam(w, r)
	if !ok {
		return
	}
	if err := s.trips.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err, "trip")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddTripPlace handles POST /trips/{id}/places.
// The body is a place. A body carrying only an id is resolved through the
// place sources first.
func (s *Server) AddTripPlace(w http.ResponseWriter, r *http.Request) {
	id, ok := tripIDParam(w, r)
	if !ok {
		return
	}
	var place domain.Place
	if status, msg, ok := s.decodeBody(r, &place); !ok {
		writeError(w, status, codeValidation, msg)
		return
	}
	if place.ID == "" {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "id: required")
		return
	}
	if place.Name == "" {
		resolved, err := s.places.FetchPlaceByID(r.Context(), place.ID)
		if err != nil {
			s.writeServiceError(w, r, err, "place")
			return
		}
		place = resolved
	}

	added, err := s.trips.AddPlace(r.Context(), id, place)
	if err != nil {
		s.writeServiceError(w, r, err, "trip")
		return
	}
	s.writePlaceChange(w, r, id, added, http.StatusCreated)
}

// ReorderTripPlaces handles PUT /trips/{id}/places.
func (s *Server) ReorderTripPlaces(w http.ResponseWriter, r *http.Request) {
	id, ok := tripIDParam(w, r)
	if !ok {
		return
	}
	var body ReorderPlacesRequest
	if status, msg, ok := s.decodeBody(r, &body); !ok {
		writeError(w, status, codeValidation, msg)
		return
	}

	trip, err := s.trips.ReorderPlaces(r.Context(), id, body.Places)
	if err != nil {
		s.writeServiceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// RemoveTripPlace handles DELETE /trips/{id}/places/{placeId}.
func (s *Server) RemoveTripPlace(w http.ResponseWriter, r *http.Request) {
	id, ok := tripIDParam(w, r)
	if !ok {
		return
	}
	var placeID string
	if err := bindPathParam(r, "placeId", &placeID); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	removed, err := s.trips.RemovePlace(r.Context(), id, domain.PlaceID(placeID))
	if err != nil {
		s.writeServiceError(w, r, err, "trip")
		return
	}
	s.writePlaceChange(w, r, id, removed, http.StatusOK)
}

// GetActiveTrip handles GET /trips/active. It answers 204 when no trip is
// active.
func (s *Server) GetActiveTrip(w http.ResponseWriter, r *http.Request) {
	trip, ok := s.trips.Active(r.Context())
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// SetActiveTrip handles PUT /trips/active.
func (s *Server) SetActiveTrip(w http.ResponseWriter, r *http.Request) {
	var body SetActiveRequest
	if status, msg, ok := s.decodeBody(r, &body); !ok {
		writeError(w, status, codeValidation, msg)
		return
	}
	if err := s.trips.SetActive(r.Context(), body.ID); err != nil {
		s.writeServiceError(w, r, err, "trip")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writePlaceChange answers with the trip as it now stands. A no-op change is
// always reported with 200.
func (s *Server) writePlaceChange(w http.ResponseWriter, r *http.Request, tripID string, changed bool, status int) {
	trip, err := s.trips.Get(r.Context(), tripID)
	if err != nil {
		s.writeServiceError(w, r, err, "trip")
		return
	}
	if !changed {
		status = http.StatusOK
	}
	writeJSON(w, status, PlaceChange{Changed: changed, Trip: trip})
}

func tripIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	if err := bindPathParam(r, "id", &id); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return "", false
	}
	if id == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "trip id is required")
		return "", false
	}
	return id, true
}
