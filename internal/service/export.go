package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pkordes/dfw-explorer/internal/domain"
	"github.com/pkordes/dfw-explorer/internal/repo"
)

// DefaultMaxImportBytes caps the size of an import document.
const DefaultMaxImportBytes int64 = 5 << 20

// ExportService writes the trip collection to a portable JSON file and reads
// such files back in.
type ExportService struct {
	trips    repo.TripRepo
	maxBytes int64
}

// NewExportService constructs an ExportService backed by the provided repo.
// maxBytes <= 0 selects DefaultMaxImportBytes.
func NewExportService(trips repo.TripRepo, maxBytes int64) *ExportService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImportBytes
	}
	return &ExportService{trips: trips, maxBytes: maxBytes}
}

// Export writes every trip to w as an indented JSON array.
func (s *ExportService) Export(ctx context.Context, w io.Writer) error {
	trips := s.trips.Load(ctx).Trips
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(trips); err != nil {
		return fmt.Errorf("service.ExportService.Export: %w", err)
	}
	return nil
}

// FileName returns the download name for an export taken at t,
// e.g. travel-trips-2025-06-01.json.
func FileName(t time.Time) string {
	return "travel-trips-" + t.Format(time.DateOnly) + ".json"
}

// Import reads a JSON array of trips from r and appends them to the stored
// collection. Existing trips are kept and no de-duplication happens.
// Anything other than a top-level array is rejected with domain.ErrImportFormat
// and leaves the store untouched.
func (s *ExportService) Import(ctx context.Context, r io.Reader) (int, error) {
	raw, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return 0, fmt.Errorf("service.ExportService.Import: %w", err)
	}
	if int64(len(raw)) > s.maxBytes {
		return 0, fmt.Errorf("service.ExportService.Import: file exceeds %d bytes: %w", s.maxBytes, domain.ErrImportFormat)
	}

	var imported []domain.Trip
	if err := json.Unmarshal(raw, &imported); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "" {
			return 0, fmt.Errorf("service.ExportService.Import: expected an array of trips: %w", domain.ErrImportFormat)
		}
		return 0, fmt.Errorf("service.ExportService.Import: %w: %w", domain.ErrImportFormat, err)
	}
	if imported == nil {
		return 0, fmt.Errorf("service.ExportService.Import: expected an array of trips: %w", domain.ErrImportFormat)
	}

	err = s.trips.Mutate(ctx, func(st *repo.TripState) error {
		st.Trips = append(st.Trips, imported...)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("service.ExportService.Import: %w", err)
	}
	return len(imported), nil
}
