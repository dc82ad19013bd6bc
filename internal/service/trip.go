// Package service contains the business logic for the DFW Explorer backend.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No storage details live here; services depend on repo interfaces.
package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/dfw-explorer/internal/domain"
	"github.com/pkordes/dfw-explorer/internal/repo"
)

// TripService implements business logic for trip operations.
type TripService struct {
	repo  repo.TripRepo
	now   func() time.Time
	newID func() string
}

// TripOption customises a TripService.
type TripOption func(*TripService)

// WithClock replaces the time source used for CreatedAt and UpdatedAt.
func WithClock(now func() time.Time) TripOption {
	return func(s *TripService) { s.now = now }
}

// WithIDGenerator replaces the trip id generator.
func WithIDGenerator(fn func() string) TripOption {
	return func(s *TripService) { s.newID = fn }
}

// NewTripService constructs a TripService backed by the provided TripRepo.
// Trips get "local-" prefixed UUIDs unless WithIDGenerator says otherwise.
func NewTripService(r repo.TripRepo, opts ...TripOption) *TripService {
	s := &TripService{
		repo:  r,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return domain.LocalTripPrefix + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every trip in creation order. Never nil.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	return s.repo.Load(ctx).Trips, nil
}

// Get returns a single trip by ID.
func (s *TripService) Get(ctx context.Context, id string) (domain.Trip, error) {
	state := s.repo.Load(ctx)
	i := state.Find(id)
	if i < 0 {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get %q: %w", id, domain.ErrNotFound)
	}
	return state.Trips[i], nil
}

// Create persists a new, empty trip. A blank name becomes DefaultTripName.
// The first trip in an empty store becomes the active trip.
func (s *TripService) Create(ctx context.Context, in domain.TripInput) (domain.Trip, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = domain.DefaultTripName
	}
	now := s.now()
	trip := domain.Trip{
		ID:          s.newID(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Places:      []domain.Place{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.repo.Mutate(ctx, func(st *repo.TripState) error {
		st.Trips = append(st.Trips, trip)
		if len(st.Trips) == 1 {
			st.ActiveID = trip.ID
		}
		return nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return trip, nil
}

// Update applies patch to the trip. Returns domain.ErrValidation when the
// patch would blank the name and domain.ErrNotFound for an unknown trip.
func (s *TripService) Update(ctx context.Context, id string, patch domain.TripPatch) (domain.Trip, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: name must not be blank: %w", domain.ErrValidation)
	}

	out, err := s.mutateTrip(ctx, id, func(t *domain.Trip) (bool, error) {
		if patch.Name != nil {
			t.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Description != nil {
			t.Description = strings.TrimSpace(*patch.Description)
		}
		return true, nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return out, nil
}

// Delete removes a trip. Deleting the active trip clears the active pointer.
func (s *TripService) Delete(ctx context.Context, id string) error {
	err := s.repo.Mutate(ctx, func(st *repo.TripState) error {
		i := st.Find(id)
		if i < 0 {
			return fmt.Errorf("trip %q: %w", id, domain.ErrNotFound)
		}
		st.Trips = slices.Delete(st.Trips, i, i+1)
		if st.ActiveID == id {
			st.ActiveID = ""
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// AddPlace appends place to the trip. It reports false, without error, when
// the place is already in the trip. An unknown trip also reports false,
// together with domain.ErrNotFound.
func (s *TripService) AddPlace(ctx context.Context, tripID string, place domain.Place) (bool, error) {
	if place.ID == "" {
		return false, fmt.Errorf("service.TripService.AddPlace: place id is required: %w", domain.ErrValidation)
	}

	var added bool
	_, err := s.mutateTrip(ctx, tripID, func(t *domain.Trip) (bool, error) {
		if t.HasPlace(place.ID) {
			return false, nil
		}
		t.Places = append(t.Places, place)
		added = true
		return true, nil
	})
	if err != nil {
		return false, fmt.Errorf("service.TripService.AddPlace: %w", err)
	}
	return added, nil
}

// RemovePlace removes a place from the trip. It reports false when the place
// was not in the trip; UpdatedAt is refreshed either way.
func (s *TripService) RemovePlace(ctx context.Context, tripID string, placeID domain.PlaceID) (bool, error) {
	var removed bool
	_, err := s.mutateTrip(ctx, tripID, func(t *domain.Trip) (bool, error) {
		if i := t.IndexOf(placeID); i >= 0 {
			t.Places = slices.Delete(t.Places, i, i+1)
			removed = true
		}
		return true, nil
	})
	if err != nil {
		return false, fmt.Errorf("service.TripService.RemovePlace: %w", err)
	}
	return removed, nil
}

// ReorderPlaces replaces the trip's places with places, in the given order.
// Duplicate ids are rejected with domain.ErrValidation.
func (s *TripService) ReorderPlaces(ctx context.Context, tripID string, places []domain.Place) (domain.Trip, error) {
	seen := make(map[domain.PlaceID]struct{}, len(places))
	for _, p := range places {
		if p.ID == "" {
			return domain.Trip{}, fmt.Errorf("service.TripService.ReorderPlaces: place id is required: %w", domain.ErrValidation)
		}
		if _, dup := seen[p.ID]; dup {
			return domain.Trip{}, fmt.Errorf("service.TripService.ReorderPlaces: duplicate place %q: %w", p.ID, domain.ErrValidation)
		}
		seen[p.ID] = struct{}{}
	}

	out, err := s.mutateTrip(ctx, tripID, func(t *domain.Trip) (bool, error) {
		t.Places = slices.Clone(places)
		if t.Places == nil {
			t.Places = []domain.Place{}
		}
		return true, nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.ReorderPlaces: %w", err)
	}
	return out, nil
}

// SetActive points the active trip at id. An empty id clears the pointer.
// The id is not checked against existing trips; Active resolves it on read.
func (s *TripService) SetActive(ctx context.Context, id string) error {
	err := s.repo.Mutate(ctx, func(st *repo.TripState) error {
		st.ActiveID = id
		return nil
	})
	if err != nil {
		return fmt.Errorf("service.TripService.SetActive: %w", err)
	}
	return nil
}

// Active returns the active trip. A pointer to a trip that no longer exists
// is treated as no active trip.
func (s *TripService) Active(ctx context.Context) (domain.Trip, bool) {
	state := s.repo.Load(ctx)
	if state.ActiveID == "" {
		return domain.Trip{}, false
	}
	i := state.Find(state.ActiveID)
	if i < 0 {
		return domain.Trip{}, false
	}
	return state.Trips[i], true
}

// mutateTrip runs fn against the trip with id inside a repo mutation and
// returns the trip as stored. fn reports whether it changed the trip;
// unchanged trips keep UpdatedAt.
func (s *TripService) mutateTrip(ctx context.Context, id string, fn func(*domain.Trip) (bool, error)) (domain.Trip, error) {
	var out domain.Trip
	err := s.repo.Mutate(ctx, func(st *repo.TripState) error {
		i := st.Find(id)
		if i < 0 {
			return fmt.Errorf("trip %q: %w", id, domain.ErrNotFound)
		}
		t := st.Trips[i]
		t.Places = slices.Clone(t.Places)
		changed, err := fn(&t)
		if err != nil {
			return err
		}
		if changed {
			t.UpdatedAt = s.now()
			if t.UpdatedAt.Before(t.CreatedAt) {
				t.UpdatedAt = t.CreatedAt
			}
			st.Trips[i] = t
		}
		out = t
		return nil
	})
	return out, err
}
