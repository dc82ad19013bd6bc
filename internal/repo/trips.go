package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/pkordes/dfw-explorer/internal/domain"
)

// Storage keys. They match the keys used by the browser client so an
// exported local-storage dump can be loaded into a FileKV unchanged.
const (
	TripsKey      = "travel_app_trips"
	ActiveTripKey = "travel_app_active_trip"
)

// TripState is the whole persisted trip collection plus the active pointer.
type TripState struct {
	Trips    []domain.Trip
	ActiveID string
}

// Find returns the index of the trip with id, or -1.
func (s *TripState) Find(id string) int {
	return slices.IndexFunc(s.Trips, func(t domain.Trip) bool { return t.ID == id })
}

// TripRepo loads and stores the trip collection.
type TripRepo interface {
	// Load returns the current state. Unreadable state is logged and
	// reported as empty.
	Load(ctx context.Context) TripState

	// Mutate runs fn against the current state and persists the result.
	// Mutations are serialized. If fn returns an error nothing is written
	// and the error is returned unchanged. A failed read aborts the mutation
	// with domain.ErrStorage; it is never written over as an empty store.
	// A returned domain.ErrStorage means the stored state is unchanged,
	// unless restoring the active pointer after a failed write also failed.
	Mutate(ctx context.Context, fn func(*TripState) error) error
}

type kvTripRepo struct {
	kv  KV
	log *slog.Logger
	mu  sync.Mutex
}

// NewTripRepo constructs a TripRepo over kv.
func NewTripRepo(kv KV, log *slog.Logger) TripRepo {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &kvTripRepo{kv: kv, log: log}
}

func (r *kvTripRepo) Load(ctx context.Context) TripState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

func (r *kvTripRepo) Mutate(ctx context.Context, fn func(*TripState) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, err := r.read(ctx)
	if err != nil {
		r.log.ErrorContext(ctx, "load trips for update failed", "error", err)
		return fmt.Errorf("repo.TripRepo.Mutate: %w: %w", domain.ErrStorage, err)
	}
	prevActive := state.ActiveID
	if err := fn(&state); err != nil {
		return err
	}

	if state.Trips == nil {
		state.Trips = []domain.Trip{}
	}
	raw, err := json.Marshal(state.Trips)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Mutate: %w: %w", domain.ErrStorage, err)
	}

	// Pointer first, collection last. A failed collection write restores
	// the previous pointer.
	activeChanged := state.ActiveID != prevActive
	if activeChanged {
		if err := r.setActive(ctx, state.ActiveID); err != nil {
			r.log.ErrorContext(ctx, "save active trip failed", "error", err)
			return fmt.Errorf("repo.TripRepo.Mutate: %w: %w", domain.ErrStorage, err)
		}
	}
	if err := r.kv.Set(ctx, TripsKey, string(raw)); err != nil {
		r.log.ErrorContext(ctx, "save trips failed", "error", err)
		if activeChanged {
			if rerr := r.setActive(ctx, prevActive); rerr != nil {
				r.log.ErrorContext(ctx, "restore active trip failed", "error", rerr)
			}
		}
		return fmt.Errorf("repo.TripRepo.Mutate: %w: %w", domain.ErrStorage, err)
	}
	return nil
}

func (r *kvTripRepo) setActive(ctx context.Context, id string) error {
	if id == "" {
		return r.kv.Delete(ctx, ActiveTripKey)
	}
	return r.kv.Set(ctx, ActiveTripKey, id)
}

// load is read for display: failures are logged and the store reads as empty.
func (r *kvTripRepo) load(ctx context.Context) TripState {
	state, err := r.read(ctx)
	if err != nil {
		r.log.WarnContext(ctx, "load trips failed", "error", err)
		return TripState{Trips: []domain.Trip{}}
	}
	return state
}

// read returns the stored state. Missing keys read as empty. Undecodable
// trip data is logged and read as empty, since no write could ever recover
// it; backend errors are returned.
func (r *kvTripRepo) read(ctx context.Context) (TripState, error) {
	state := TripState{Trips: []domain.Trip{}}

	raw, err := r.kv.Get(ctx, TripsKey)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		return TripState{}, fmt.Errorf("get %s: %w", TripsKey, err)
	default:
		var trips []domain.Trip
		if err := json.Unmarshal([]byte(raw), &trips); err != nil {
			r.log.WarnContext(ctx, "stored trips unreadable, starting empty", "error", err)
		} else if trips != nil {
			state.Trips = trips
		}
	}

	active, err := r.kv.Get(ctx, ActiveTripKey)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		return TripState{}, fmt.Errorf("get %s: %w", ActiveTripKey, err)
	default:
		state.ActiveID = active
	}
	return state, nil
}
