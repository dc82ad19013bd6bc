package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/dfw-explorer/internal/domain"
	"github.com/pkordes/dfw-explorer/internal/normalize"
)

// errPrimaryDown is returned without a network call once the prober has
// reported the primary service unreachable.
var errPrimaryDown = fmt.Errorf("primary service: %w", domain.ErrUnavailable)

// PrimarySource queries the primary places API. It applies filters, sorting
// and pagination server-side, so its results are marked AlreadyPaged.
type PrimarySource struct {
	client     *http.Client
	baseURL    string
	timeout    time.Duration
	prober     *Prober
	normalizer normalize.Normalizer
}

// NewPrimarySource constructs a PrimarySource for the API at baseURL.
// Every call first consults prober and fails fast when it reports unavailable.
func NewPrimarySource(client *http.Client, baseURL string, timeout time.Duration, prober *Prober, n normalize.Normalizer) *PrimarySource {
	return &PrimarySource{
		client:     client,
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		prober:     prober,
		normalizer: n,
	}
}

// Name implements Source.
func (s *PrimarySource) Name() string { return "primary" }

// Fetch implements Source via GET /places.
func (s *PrimarySource) Fetch(ctx context.Context, c domain.FilterCriteria) (Result, error) {
	if !s.prober.IsAvailable(ctx) {
		return Result{}, errPrimaryDown
	}

	body, err := getJSON(ctx, s.client, s.baseURL+"/places?"+placesQuery(c).Encode(), s.timeout)
	if err != nil {
		return Result{}, fmt.Errorf("source.PrimarySource.Fetch: %w", err)
	}
	places, err := s.normalizer.Payload(body)
	if err != nil {
		return Result{}, fmt.Errorf("source.PrimarySource.Fetch: %w", err)
	}
	return Result{Places: places, AlreadyPaged: true}, nil
}

// FetchByID implements Source via GET /places/{id}.
func (s *PrimarySource) FetchByID(ctx context.Context, id domain.PlaceID) (domain.Place, error) {
	if !s.prober.IsAvailable(ctx) {
		return domain.Place{}, errPrimaryDown
	}

	body, err := getJSON(ctx, s.client, s.baseURL+"/places/"+url.PathEscape(string(id)), s.timeout)
	if err != nil {
		return domain.Place{}, fmt.Errorf("source.PrimarySource.FetchByID: %w", err)
	}
	places, err := s.normalizer.Payload(body)
	if err != nil {
		return domain.Place{}, fmt.Errorf("source.PrimarySource.FetchByID: %w", err)
	}
	if len(places) == 0 {
		return domain.Place{}, fmt.Errorf("source.PrimarySource.FetchByID: %w", domain.ErrNotFound)
	}
	return places[0], nil
}

// Cities implements CityLister via GET /cities.
func (s *PrimarySource) Cities(ctx context.Context) ([]domain.City, error) {
	if !s.prober.IsAvailable(ctx) {
		return nil, errPrimaryDown
	}

	body, err := getJSON(ctx, s.client, s.baseURL+"/cities", s.timeout)
	if err != nil {
		return nil, fmt.Errorf("source.PrimarySource.Cities: %w", err)
	}
	var cities []domain.City
	if err := json.Unmarshal(body, &cities); err != nil {
		return nil, fmt.Errorf("source.PrimarySource.Cities: decode: %w", err)
	}
	return cities, nil
}

// placesQuery translates criteria into the primary API's query parameters.
// Rating and price filters have no server-side equivalent and are applied
// locally by the Fetcher.
func placesQuery(c domain.FilterCriteria) url.Values {
	q := url.Values{}
	if c.Search != "" {
		q.Set("q", c.Search)
	}
	if c.City != "" && c.City != domain.AllFilter {
		q.Set("city", c.City)
	}
	if c.Category != "" && c.Category != domain.AllFilter {
		q.Set("category", c.Category)
	}
	if c.Limit > 0 {
		q.Set("limit", strconv.Itoa(c.Limit))
	}
	if c.Offset > 0 {
		q.Set("offset", strconv.Itoa(c.Offset))
	}
	q.Set("sort", "rating")
	q.Set("order", "desc")
	return q
}
