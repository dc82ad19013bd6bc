package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/dfw-explorer/internal/domain"
	"github.com/pkordes/dfw-explorer/internal/repo"
	"github.com/pkordes/dfw-explorer/internal/service"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field; set only the ones your test needs.
type mockTripRepo struct {
	load   func(ctx context.Context) repo.TripState
	mutate func(ctx context.Context, fn func(*repo.TripState) error) error
}

func (m *mockTripRepo) Load(ctx context.Context) repo.TripState {
	return m.load(ctx)
}
func (m *mockTripRepo) Mutate(ctx context.Context, fn func(*repo.TripState) error) error {
	return m.mutate(ctx, fn)
}

// compile-time check: mockTripRepo must satisfy repo.TripRepo.
var _ repo.TripRepo = (*mockTripRepo)(nil)

// ---- helpers ---------------------------------------------------------------

// fakeClock returns a clock that advances one minute per call.
func fakeClock() func() time.Time {
	t := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

// sequentialIDs returns an id generator yielding local-1, local-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", domain.LocalTripPrefix, n)
	}
}

func newTripService() *service.TripService {
	return service.NewTripService(
		repo.NewTripRepo(repo.NewMemoryKV(), nil),
		service.WithClock(fakeClock()),
		service.WithIDGenerator(sequentialIDs()),
	)
}

func place(id string) domain.Place {
	return domain.Place{ID: domain.PlaceID(id), Name: "Place " + id}
}

func ptr[T any](v T) *T { return &v }

// ---- Create ----------------------------------------------------------------

func TestTripService_Create(t *testing.T) {
	svc := newTripService()

	got, err := svc.Create(context.Background(), domain.TripInput{Name: "  Weekend  ", Description: "food"})

	require.NoError(t, err)
	assert.Equal(t, "local-1", got.ID)
	assert.True(t, got.IsLocal())
	assert.Equal(t, "Weekend", got.Name)
	assert.Equal(t, "food", got.Description)
	assert.NotNil(t, got.Places)
	assert.Empty(t, got.Places)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
}

func TestTripService_Create_DefaultName(t *testing.T) {
	svc := newTripService()

	got, err := svc.Create(context.Background(), domain.TripInput{Name: "   "})

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTripName, got.Name)
}

func TestTripService_Create_DefaultIDIsLocalUUID(t *testing.T) {
	svc := service.NewTripService(repo.NewTripRepo(repo.NewMemoryKV(), nil))

	got, err := svc.Create(context.Background(), domain.TripInput{})

	require.NoError(t, err)
	assert.True(t, got.IsLocal())
	assert.Len(t, got.ID, len(domain.LocalTripPrefix)+36)
}

func TestTripService_Create_FirstTripBecomesActive(t *testing.T) {
	svc := newTripService()
	ctx := context.Background()

	first, err := svc.Create(ctx, domain.TripInput{Name: "A"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.TripInput{Name: "B"})
	require.NoError(t, err)

	active, ok := svc.Active(ctx)
	require.True(t, ok)
	assert.Equal(t, first.ID, active.ID)
}

func TestTripService_Create_StorageError(t *testing.T) {
	r := &mockTripRepo{
		mutate: func(_ context.Context, _ func(*repo.TripState) error) error {
			return fmt.Errorf("write: %w", domain.ErrStorage)
		},
	}
	svc := service.NewTripService(r)

	_, err := svc.Create(context.Background(), domain.TripInput{Name: "A"})

	assert.ErrorIs(t, err, domain.ErrStorage)
}

// ---- Get / List ------------------------------------------------------------

func TestTripService_Get(t *testing.T) {
	svc := newTripService()
	ctx := context.Background()
	created, err := svc.Create(ctx, domain.TripInput{Name: "A"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = svc.Get(ctx, "local-nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripService_List_Empty(t *testing.T) {
	svc := newTripService()

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	// Should return an empty slice, not nil; callers can safely range over it.
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// ---- Update ----------------------------------------------------------------

func TestTripService_Update(t *testing.T) {
	svc := newTripService()
	ctx := context.Background()
	created, err := svc.Create(ctx, domain.TripInput{Name: "A", Description: "keep"})
	require.NoError(t, err)

	got, err := svc.Update(ctx, created.ID, domain.TripPatch{Name: ptr("Renamed")})

	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "keep", got.Description, "nil patch fields are untouched")
	assert.True(t, got.UpdatedAt.After(created.UpdatedAt), "UpdatedAt refreshed")
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
}

func TestTripService_Update_BlankName(t *testing.T) {
	svc := newTripService()
	ctx := context.Background()
	created, err := svc.Create(ctx, domain.TripInput{Name: "A"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, domain.TripPatch{Name: ptr("  ")})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Update_NotFound(t *testing.T) {
	svc := newTripService()

	_, err := svc.Update(context.Background(), "local-nope", domain.TripPatch{Name: ptr("x")})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Delete ----------------------------------------------------------------

func TestTripService_Delete_ClearsActive(t *testing.T) {
	svc := newTripService()
	ctx := context.Background()
	created, err := svc.Create(ctx, domain.TripInput{Name: "A"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, ok := svc.Active(ctx)
	assert.False(t, ok)
	trips, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, trips)
}

func TestTripService_Delete_NotFound(t *testing.T) {
	svc := newTripService()

	err := svc.Delete(context.Background(), "local-nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Places ----------------------------------------------------------------

func TestTripService_AddPlace(t *testing.T) {
	svc := newTripService()
	ctx := context.Background()
	trip, err := svc.Create(ctx, domain.TripInput{Name: "A"})
	require.NoError(t, err)

	added, err := svc.AddPlace(ctx, trip.ID, place("1"))
	require.NoError(t, err)
	assert.True(t, added)

	added, err = svc.AddPlace(ctx, trip.ID, place("1"))
	require.NoError(t, err)
	assert.False(t, added, "duplicate place is not added")

	got, err := svc.Get(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.PlaceID{"1"}, got.PlaceIDs())
	assert.True(t, got.UpdatedAt.After(trip.UpdatedAt))
}

func TestTripService_AddPlace_UnknownTrip(t *testing.T) {
	svc := newTripService()

	added, err := svc.AddPlace(context.Background(), "local-nope", place("1"))

	assert.False(t, added)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripService_AddPlace_MissingID(t *testing.T) {
	svc := newTripService()

	_, err := svc.AddPlace(context.Background(), "local-1", domain.Place{Name: "no id"})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_RemovePlace(t *testing.T) {
	svc := newTripService()
	ctx := context.Background()
	trip, err := svc.Create(ctx, domain.TripInput{Name: "A"})
	require.NoError(t, err)
	for _, id := range []string{"1", "2", "3"} {
		_, err := svc.AddPlace(ctx, trip.ID, place(id))
		require.NoError(t, err)
	}

	removed, err := svc.RemovePlace(ctx, trip.ID, "2")
	require.NoError(t, err)
	assert.True(t, removed)

	before, err := svc.Get(ctx, trip.ID)
	require.NoError(t, err)

	removed, err = svc.RemovePlace(ctx, trip.ID, "2")
	require.NoError(t, err)
	assert.False(t, removed)

	got, err := svc.Get(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.PlaceID{"1", "3"}, got.PlaceIDs())
	assert.True(t, got.UpdatedAt.After(before.UpdatedAt), "a miss still refreshes updatedAt")
}

func TestTripService_RemovePlace_UnknownTrip(t *testing.T) {
	svc := newTripService()

	removed, err := svc.RemovePlace(context.Background(), "local-nope", "1")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, removed)
}

func TestTripService_ReorderPlaces(t *testing.T) {
	svc := newTripService()
	ctx := context.Background()
	trip, err := svc.Create(ctx, domain.TripInput{Name: "A"})
	require.NoError(t, err)

	got, err := svc.ReorderPlaces(ctx, trip.ID, []domain.Place{place("3"), place("1"), place("2")})

	require.NoError(t, err)
	assert.Equal(t, []domain.PlaceID{"3", "1", "2"}, got.PlaceIDs())
}

func TestTripService_ReorderPlaces_Duplicate(t *testing.T) {
	svc := newTripService()
	ctx := context.Background()
	trip, err := svc.Create(ctx, domain.TripInput{Name: "A"})
	require.NoError(t, err)

	_, err = svc.ReorderPlaces(ctx, trip.ID, []domain.Place{place("1"), place("1")})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Active ----------------------------------------------------------------

func TestTripService_SetActive(t *testing.T) {
	svc := newTripService()
	ctx := context.Background()
	_, err := svc.Create(ctx, domain.TripInput{Name: "A"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, domain.TripInput{Name: "B"})
	require.NoError(t, err)

	require.NoError(t, svc.SetActive(ctx, b.ID))
	active, ok := svc.Active(ctx)
	require.True(t, ok)
	assert.Equal(t, b.ID, active.ID)

	require.NoError(t, svc.SetActive(ctx, ""))
	_, ok = svc.Active(ctx)
	assert.False(t, ok)
}

func TestTripService_SetActive_UnknownIDResolvesOnRead(t *testing.T) {
	svc := newTripService()
	ctx := context.Background()

	require.NoError(t, svc.SetActive(ctx, "local-not-yet"))
	_, ok := svc.Active(ctx)
	assert.False(t, ok)

	trip, err := svc.Create(ctx, domain.TripInput{Name: "A"})
	require.NoError(t, err)
	require.NoError(t, svc.SetActive(ctx, "local-x"))
	_, ok = svc.Active(ctx)
	assert.False(t, ok)

	require.NoError(t, svc.SetActive(ctx, trip.ID))
	active, ok := svc.Active(ctx)
	require.True(t, ok)
	assert.Equal(t, trip.ID, active.ID)
}

func TestTripService_Active_DanglingPointer(t *testing.T) {
	r := &mockTripRepo{
		load: func(_ context.Context) repo.TripState {
			return repo.TripState{Trips: []domain.Trip{{ID: "local-a"}}, ActiveID: "local-gone"}
		},
	}
	svc := service.NewTripService(r)

	_, ok := svc.Active(context.Background())

	assert.False(t, ok)
}
