package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pkordes/dfw-explorer/internal/domain"
	"github.com/pkordes/dfw-explorer/internal/filter"
)

// Fetcher tries an ordered list of sources and returns the first answer.
// A failing source (network error, timeout, bad status, undecodable body) is
// logged and skipped; callers only see an error once every source failed.
//
// A source that answers with an empty result counts as an answer: the chain
// does not fall through on "reachable but empty".
type Fetcher struct {
	sources []Source
	log     *slog.Logger
}

// NewFetcher constructs a Fetcher over sources, tried in the given order.
func NewFetcher(log *slog.Logger, sources ...Source) *Fetcher {
	return &Fetcher{sources: sources, log: log}
}

// FetchPlaces returns the places matching c from the first source that
// answers. When every source fails it returns an empty, non-nil slice and an
// error wrapping domain.ErrUnavailable.
func (f *Fetcher) FetchPlaces(ctx context.Context, c domain.FilterCriteria) ([]domain.Place, error) {
	var errs []error
	for _, s := range f.sources {
		res, err := s.Fetch(ctx, c)
		if err != nil {
			f.log.WarnContext(ctx, "place source failed, trying next", "source", s.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		f.log.DebugContext(ctx, "places fetched", "source", s.Name(), "count", len(res.Places), "already_paged", res.AlreadyPaged)
		return filter.Apply(res.Places, c, res.AlreadyPaged), nil
	}
	return []domain.Place{}, fmt.Errorf("source.Fetcher.FetchPlaces: %w: %w", domain.ErrUnavailable, errors.Join(errs...))
}

// FetchPlaceByID returns the place with the given id from the first source
// that knows it. It returns domain.ErrNotFound when no source does.
func (f *Fetcher) FetchPlaceByID(ctx context.Context, id domain.PlaceID) (domain.Place, error) {
	notFound := false
	for _, s := range f.sources {
		p, err := s.FetchByID(ctx, id)
		if err == nil {
			return p, nil
		}
		if errors.Is(err, domain.ErrNotFound) {
			notFound = true
			continue
		}
		f.log.WarnContext(ctx, "place source failed, trying next", "source", s.Name(), "id", id, "error", err)
	}
	if notFound {
		return domain.Place{}, fmt.Errorf("source.Fetcher.FetchPlaceByID %q: %w", id, domain.ErrNotFound)
	}
	return domain.Place{}, fmt.Errorf("source.Fetcher.FetchPlaceByID %q: %w", id, domain.ErrUnavailable)
}

// Cities returns the browsable cities from the first source able to list
// them.
func (f *Fetcher) Cities(ctx context.Context) ([]domain.City, error) {
	for _, s := range f.sources {
		lister, ok := s.(CityLister)
		if !ok {
			continue
		}
		cities, err := lister.Cities(ctx)
		if err != nil {
			f.log.WarnContext(ctx, "city source failed, trying next", "source", s.Name(), "error", err)
			continue
		}
		return cities, nil
	}
	return []domain.City{}, fmt.Errorf("source.Fetcher.Cities: %w", domain.ErrUnavailable)
}
