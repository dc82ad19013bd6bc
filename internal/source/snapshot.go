package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pkordes/dfw-explorer/internal/domain"
	"github.com/pkordes/dfw-explorer/internal/normalize"
)

// SnapshotSource reads a static JSON export of the catalog (places.json).
// The snapshot is unfiltered, so results are not AlreadyPaged.
type SnapshotSource struct {
	client     *http.Client
	url        string
	timeout    time.Duration
	normalizer normalize.Normalizer
}

// NewSnapshotSource constructs a SnapshotSource reading from url.
func NewSnapshotSource(client *http.Client, url string, timeout time.Duration, n normalize.Normalizer) *SnapshotSource {
	return &SnapshotSource{client: client, url: url, timeout: timeout, normalizer: n}
}

// Name implements Source.
func (s *SnapshotSource) Name() string { return "snapshot" }

// Fetch implements Source.
func (s *SnapshotSource) Fetch(ctx context.Context, _ domain.FilterCriteria) (Result, error) {
	places, err := s.load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("source.SnapshotSource.Fetch: %w", err)
	}
	return Result{Places: places}, nil
}

// FetchByID implements Source by scanning the snapshot.
func (s *SnapshotSource) FetchByID(ctx context.Context, id domain.PlaceID) (domain.Place, error) {
	places, err := s.load(ctx)
	if err != nil {
		return domain.Place{}, fmt.Errorf("source.SnapshotSource.FetchByID: %w", err)
	}
	return findByID(places, id)
}

func (s *SnapshotSource) load(ctx context.Context) ([]domain.Place, error) {
	if s.url == "" {
		return nil, domain.ErrUnavailable
	}
	body, err := getJSON(ctx, s.client, s.url, s.timeout)
	if err != nil {
		return nil, err
	}
	return s.normalizer.Payload(body)
}
