// Package source retrieves places from an ordered chain of interchangeable
// providers: the primary API, a static JSON snapshot, and a dataset bundled
// into the binary. The Fetcher tries them in order and stops at the first one
// that answers.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkordes/dfw-explorer/internal/domain"
)

// maxPayloadBytes caps how much of a source response is read.
const maxPayloadBytes = 16 << 20

// Result is one source's answer to a list request.
type Result struct {
	Places []domain.Place
	// AlreadyPaged is true when the source applied limit/offset itself.
	AlreadyPaged bool
}

// Source is one provider in the fallback chain. Any returned error makes the
// Fetcher move on to the next provider.
type Source interface {
	Name() string
	Fetch(ctx context.Context, c domain.FilterCriteria) (Result, error)
	// FetchByID returns domain.ErrNotFound when the source answered but does
	// not know the id.
	FetchByID(ctx context.Context, id domain.PlaceID) (domain.Place, error)
}

// CityLister is implemented by sources that can list browsable cities.
type CityLister interface {
	Cities(ctx context.Context) ([]domain.City, error)
}

// getJSON performs a bounded GET and returns the response body.
// A 404 maps to domain.ErrNotFound; any other non-2xx status is an error.
func getJSON(ctx context.Context, client *http.Client, url string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("GET %s: read body: %w", url, err)
	}
	return body, nil
}

// findByID returns the place with the given id from places.
func findByID(places []domain.Place, id domain.PlaceID) (domain.Place, error) {
	for _, p := range places {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Place{}, domain.ErrNotFound
}
