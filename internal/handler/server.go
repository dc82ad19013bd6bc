// Package handler implements the HTTP handlers for the DFW Explorer API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, places.go, trip.go, ...) but share the same Server struct
// so they can access its dependencies.
package handler

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pkordes/dfw-explorer/internal/domain"
	"github.com/pkordes/dfw-explorer/internal/middleware"
)

// PlaceFinder is the read side of the place catalogue.
// source.Fetcher satisfies it.
type PlaceFinder interface {
	FetchPlaces(ctx context.Context, c domain.FilterCriteria) ([]domain.Place, error)
	FetchPlaceByID(ctx context.Context, id domain.PlaceID) (domain.Place, error)
	Cities(ctx context.Context) ([]domain.City, error)
}

// TripServicer defines the trip operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching storage or the service layer.
type TripServicer interface {
	List(ctx context.Context) ([]domain.Trip, error)
	Get(ctx context.Context, id string) (domain.Trip, error)
	Create(ctx context.Context, in domain.TripInput) (domain.Trip, error)
	Update(ctx context.Context, id string, patch domain.TripPatch) (domain.Trip, error)
	Delete(ctx context.Context, id string) error
	AddPlace(ctx context.Context, tripID string, place domain.Place) (bool, error)
	RemovePlace(ctx context.Context, tripID string, placeID domain.PlaceID) (bool, error)
	ReorderPlaces(ctx context.Context, tripID string, places []domain.Place) (domain.Trip, error)
	SetActive(ctx context.Context, id string) error
	Active(ctx context.Context) (domain.Trip, bool)
}

// Exporter reads and writes the portable trip file.
type Exporter interface {
	Export(ctx context.Context, w io.Writer) error
	Import(ctx context.Context, r io.Reader) (int, error)
}

// Sharer creates and resolves share links.
type Sharer interface {
	Link(ctx context.Context, tripID string) (string, error)
	Resolve(ctx context.Context, token string) (domain.SharedTrip, error)
}

// Server holds the dependencies of every handler.
type Server struct {
	places    PlaceFinder
	trips     TripServicer
	export    Exporter
	share     Sharer
	log       *slog.Logger
	validate  *validator.Validate
	now       func() time.Time
	importMax int64
}

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the logger used for unexpected errors.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithClock replaces the time source used for export file names.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithImportLimit caps the request body accepted by POST /import.
func WithImportLimit(n int64) Option {
	return func(s *Server) { s.importMax = n }
}

// NewServer constructs the Server with all its dependencies.
func NewServer(places PlaceFinder, trips TripServicer, export Exporter, share Sharer, opts ...Option) *Server {
	s := &Server{
		places:    places,
		trips:     trips,
		export:    export,
		share:     share,
		log:       slog.New(slog.DiscardHandler),
		validate:  newValidator(),
		now:       time.Now,
		importMax: 5 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil)
}

// Routes returns a chi router serving every API endpoint.
// Cross-cutting middleware (request id, logging, CORS) is applied by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Get("/places", s.ListPlaces)
	r.Get("/places/{id}", s.GetPlace)
	r.Get("/cities", s.ListCities)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)

		// chi matches the static segment ahead of /{id}.
		r.Get("/active", s.GetActiveTrip)
		r.Put("/active", s.SetActiveTrip)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Patch("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)

			r.Post("/places", s.AddTripPlace)
			r.Put("/places", s.ReorderTripPlaces)
			r.Delete("/places/{placeId}", s.RemoveTripPlace)

			r.Post("/share", s.CreateShareLink)
		})
	})

	r.Get("/share/{token}", s.GetSharedTrip)

	r.Get("/export", s.GetExport)
	r.With(middleware.NewMaxBodySizeHandler(s.importMax)).Post("/import", s.PostImport)

	return r
}
