package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/pkordes/dfw-explorer/internal/domain"
	"github.com/pkordes/dfw-explorer/internal/share"
)

// PlaceByIDFetcher resolves a single place. source.Fetcher satisfies it.
type PlaceByIDFetcher interface {
	FetchPlaceByID(ctx context.Context, id domain.PlaceID) (domain.Place, error)
}

// maxResolveWorkers bounds concurrent place lookups for one share token.
const maxResolveWorkers = 8

// ShareService turns trips into share links and share tokens back into trips.
type ShareService struct {
	trips   *TripService
	places  PlaceByIDFetcher
	baseURL string
	log     *slog.Logger
}

// NewShareService constructs a ShareService. baseURL prefixes generated links.
func NewShareService(trips *TripService, places PlaceByIDFetcher, baseURL string, log *slog.Logger) *ShareService {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &ShareService{trips: trips, places: places, baseURL: baseURL, log: log}
}

// Link returns the share URL for a stored trip.
func (s *ShareService) Link(ctx context.Context, tripID string) (string, error) {
	trip, err := s.trips.Get(ctx, tripID)
	if err != nil {
		return "", fmt.Errorf("service.ShareService.Link: %w", err)
	}
	return share.URL(s.baseURL, share.EncodeTrip(trip)), nil
}

// Resolve decodes token and fetches every referenced place concurrently.
// Places keep token order; ids that fail to resolve are dropped.
func (s *ShareService) Resolve(ctx context.Context, token string) (domain.SharedTrip, error) {
	payload, err := share.Decode(token)
	if err != nil {
		return domain.SharedTrip{}, fmt.Errorf("service.ShareService.Resolve: %w", err)
	}

	resolved := make([]*domain.Place, len(payload.PlaceIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxResolveWorkers)
	for i, id := range payload.PlaceIDs {
		g.Go(func() error {
			p, err := s.places.FetchPlaceByID(gctx, id)
			if err != nil {
				s.log.WarnContext(ctx, "shared place did not resolve", "place_id", id, "error", err)
				return nil
			}
			resolved[i] = &p
			return nil
		})
	}
	_ = g.Wait()

	places := make([]domain.Place, 0, len(resolved))
	for _, p := range resolved {
		if p != nil {
			places = append(places, *p)
		}
	}
	return domain.SharedTrip{
		Title:       payload.Title,
		Description: payload.Description,
		Places:      places,
	}, nil
}
