package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/dfw-explorer/internal/domain"
	"github.com/pkordes/dfw-explorer/internal/repo"
	"github.com/pkordes/dfw-explorer/internal/service"
)

func newExportFixture(t *testing.T) (*service.TripService, *service.ExportService) {
	t.Helper()
	r := repo.NewTripRepo(repo.NewMemoryKV(), nil)
	trips := service.NewTripService(r, service.WithClock(fakeClock()), service.WithIDGenerator(sequentialIDs()))
	return trips, service.NewExportService(r, 0)
}

func TestExportService_Export(t *testing.T) {
	trips, svc := newExportFixture(t)
	ctx := context.Background()
	trip, err := trips.Create(ctx, domain.TripInput{Name: "Weekend"})
	require.NoError(t, err)
	_, err = trips.AddPlace(ctx, trip.ID, domain.Place{ID: "4", Name: "Reunion Tower", PriceLevel: 2, PriceDisplay: "$$"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(ctx, &buf))

	assert.True(t, strings.HasPrefix(buf.String(), "[\n  {"), "indented array")
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Weekend", decoded[0]["name"])
	places := decoded[0]["places"].([]any)
	assert.Equal(t, float64(4), places[0].(map[string]any)["id"])
}

func TestExportService_Export_Empty(t *testing.T) {
	_, svc := newExportFixture(t)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), &buf))

	assert.Equal(t, "[]\n", buf.String())
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "travel-trips-2025-06-01.json",
		service.FileName(time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)))
}

func TestExportService_ImportAppends(t *testing.T) {
	trips, svc := newExportFixture(t)
	ctx := context.Background()
	existing, err := trips.Create(ctx, domain.TripInput{Name: "Existing"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(ctx, &buf))

	n, err := svc.Import(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, err := trips.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2, "import appends without de-duplication")
	assert.Equal(t, existing.ID, all[0].ID)
	assert.Equal(t, existing.ID, all[1].ID)
}

func TestExportService_Import_RejectsNonArray(t *testing.T) {
	cases := map[string]string{
		"object":  `{"name":"x"}`,
		"null":    `null`,
		"garbage": `not json`,
		"string":  `"trips"`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			trips, svc := newExportFixture(t)
			ctx := context.Background()

			n, err := svc.Import(ctx, strings.NewReader(body))

			assert.ErrorIs(t, err, domain.ErrImportFormat)
			assert.Zero(t, n)
			all, _ := trips.List(ctx)
			assert.Empty(t, all, "store untouched")
		})
	}
}

func TestExportService_Import_TooLarge(t *testing.T) {
	r := repo.NewTripRepo(repo.NewMemoryKV(), nil)
	svc := service.NewExportService(r, 8)

	_, err := svc.Import(context.Background(), strings.NewReader(`[{"id":"local-1","name":"x"}]`))

	assert.ErrorIs(t, err, domain.ErrImportFormat)
}
