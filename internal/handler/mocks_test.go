package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/dfw-explorer/internal/domain"
	"github.com/pkordes/dfw-explorer/internal/handler"
)

// mockPlaceFinder is a test double for handler.PlaceFinder.
// Set only the method fields your test needs.
type mockPlaceFinder struct {
	fetchPlaces    func(ctx context.Context, c domain.FilterCriteria) ([]domain.Place, error)
	fetchPlaceByID func(ctx context.Context, id domain.PlaceID) (domain.Place, error)
	cities         func(ctx context.Context) ([]domain.City, error)
}

func (m *mockPlaceFinder) FetchPlaces(ctx context.Context, c domain.FilterCriteria) ([]domain.Place, error) {
	return m.fetchPlaces(ctx, c)
}
func (m *mockPlaceFinder) FetchPlaceByID(ctx context.Context, id domain.PlaceID) (domain.Place, error) {
	return m.fetchPlaceByID(ctx, id)
}
func (m *mockPlaceFinder) Cities(ctx context.Context) ([]domain.City, error) {
	return m.cities(ctx)
}

// mockTripServicer is a test double for handler.TripServicer.
type mockTripServicer struct {
	list          func(ctx context.Context) ([]domain.Trip, error)
	get           func(ctx context.Context, id string) (domain.Trip, error)
	create        func(ctx context.Context, in domain.TripInput) (domain.Trip, error)
	update        func(ctx context.Context, id string, patch domain.TripPatch) (domain.Trip, error)
	delete        func(ctx context.Context, id string) error
	addPlace      func(ctx context.Context, tripID string, place domain.Place) (bool, error)
	removePlace   func(ctx context.Context, tripID string, placeID domain.PlaceID) (bool, error)
	reorderPlaces func(ctx context.Context, tripID string, places []domain.Place) (domain.Trip, error)
	setActive     func(ctx context.Context, id string) error
	active        func(ctx context.Context) (domain.Trip, bool)
}

func (m *mockTripServicer) List(ctx context.Context) ([]domain.Trip, error) { return m.list(ctx) }
func (m *mockTripServicer) Get(ctx context.Context, id string) (domain.Trip, error) {
	return m.get(ctx, id)
}
func (m *mockTripServicer) Create(ctx context.Context, in domain.TripInput) (domain.Trip, error) {
	return m.create(ctx, in)
}
func (m *mockTripServicer) Update(ctx context.Context, id string, p domain.TripPatch) (domain.Trip, error) {
	return m.update(ctx, id, p)
}
func (m *mockTripServicer) Delete(ctx context.Context, id string) error { return m.delete(ctx, id) }
func (m *mockTripServicer) AddPlace(ctx context.Context, tripID string, p domain.Place) (bool, error) {
	return m.addPlace(ctx, tripID, p)
}
func (m *mockTripServicer) RemovePlace(ctx context.Context, tripID string, id domain.PlaceID) (bool, error) {
	return m.removePlace(ctx, tripID, id)
}
func (m *mockTripServicer) ReorderPlaces(ctx context.Context, tripID string, p []domain.Place) (domain.Trip, error) {
	return m.reorderPlaces(ctx, tripID, p)
}
func (m *mockTripServicer) SetActive(ctx context.Context, id string) error {
	return m.setActive(ctx, id)
}
func (m *mockTripServicer) Active(ctx context.Context) (domain.Trip, bool) { return m.active(ctx) }

// mockExporter is a test double for handler.Exporter.
type mockExporter struct {
	export   func(ctx context.Context, w io.Writer) error
	importFn func(ctx context.Context, r io.Reader) (int, error)
}

func (m *mockExporter) Export(ctx context.Context, w io.Writer) error { return m.export(ctx, w) }
func (m *mockExporter) Import(ctx context.Context, r io.Reader) (int, error) {
	return m.importFn(ctx, r)
}

// mockSharer is a test double for handler.Sharer.
type mockSharer struct {
	link    func(ctx context.Context, tripID string) (string, error)
	resolve func(ctx context.Context, token string) (domain.SharedTrip, error)
}

func (m *mockSharer) Link(ctx context.Context, tripID string) (string, error) {
	return m.link(ctx, tripID)
}
func (m *mockSharer) Resolve(ctx context.Context, token string) (domain.SharedTrip, error) {
	return m.resolve(ctx, token)
}

// compile-time checks.
var (
	_ handler.PlaceFinder  = (*mockPlaceFinder)(nil)
	_ handler.TripServicer = (*mockTripServicer)(nil)
	_ handler.Exporter     = (*mockExporter)(nil)
	_ handler.Sharer       = (*mockSharer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// deps bundles the doubles a test wants wired; nil fields get empty mocks.
type deps struct {
	places *mockPlaceFinder
	trips  *mockTripServicer
	export *mockExporter
	share  *mockSharer
	opts   []handler.Option
}

// newHTTPHandler wires a Server with the given mocks into its chi router.
// This mirrors how main.go wires it in production.
func newHTTPHandler(d deps) http.Handler {
	if d.places == nil {
		d.places = &mockPlaceFinder{}
	}
	if d.trips == nil {
		d.trips = &mockTripServicer{}
	}
	if d.export == nil {
		d.export = &mockExporter{}
	}
	if d.share == nil {
		d.share = &mockSharer{}
	}
	return handler.NewServer(d.places, d.trips, d.export, d.share, d.opts...).Routes()
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, target, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func tripFixture() domain.Trip {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return domain.Trip{
		ID:        "local-1",
		Name:      "Weekend",
		Places:    []domain.Place{},
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func placeFixture(id string) domain.Place {
	return domain.Place{ID: domain.PlaceID(id), Name: "Place " + id, City: "Dallas", Rating: 4.5, PriceLevel: 2, PriceDisplay: "$$"}
}
