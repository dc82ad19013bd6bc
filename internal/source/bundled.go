package source

import (
	"context"
	_ "embed"
	"log/slog"

	"github.com/pkordes/dfw-explorer/internal/domain"
	"github.com/pkordes/dfw-explorer/internal/filter"
	"github.com/pkordes/dfw-explorer/internal/normalize"
)

//go:embed bundled.json
var bundledJSON []byte

// BundledSource serves the dataset compiled into the binary. It never fails,
// which makes it the last link of every fallback chain.
type BundledSource struct {
	places []domain.Place
}

// NewBundledSource normalizes the embedded dataset.
func NewBundledSource(n normalize.Normalizer, log *slog.Logger) *BundledSource {
	return NewBundledSourceFrom(bundledJSON, n, log)
}

// NewBundledSourceFrom normalizes an arbitrary raw dataset. An undecodable
// dataset is logged and served as empty.
func NewBundledSourceFrom(data []byte, n normalize.Normalizer, log *slog.Logger) *BundledSource {
	places, err := n.Payload(data)
	if err != nil {
		log.Error("bundled dataset unreadable", "error", err)
		places = []domain.Place{}
	}
	return &BundledSource{places: places}
}

// Name implements Source.
func (s *BundledSource) Name() string { return "bundled" }

// Fetch implements Source. The returned slice is a copy.
func (s *BundledSource) Fetch(_ context.Context, _ domain.FilterCriteria) (Result, error) {
	return Result{Places: append([]domain.Place(nil), s.places...)}, nil
}

// FetchByID implements Source.
func (s *BundledSource) FetchByID(_ context.Context, id domain.PlaceID) (domain.Place, error) {
	return findByID(s.places, id)
}

// Cities implements CityLister with the distinct cities of the dataset.
func (s *BundledSource) Cities(_ context.Context) ([]domain.City, error) {
	return filter.Cities(s.places), nil
}
