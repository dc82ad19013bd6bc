package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/dfw-explorer/internal/domain"
	"github.com/pkordes/dfw-explorer/internal/repo"
	"github.com/pkordes/dfw-explorer/testutil"
)

// newTestPostgresKV opens a transaction against the test database and returns
// a KV backed by that transaction. The transaction is rolled back when the
// test finishes, giving free per-test isolation.
//
// Requires TEST_DATABASE_URL; skipped otherwise.
func newTestPostgresKV(t *testing.T) repo.KV {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return repo.NewPostgresKV(tx)
}

func TestPostgresKV_Contract(t *testing.T) {
	runKVContract(t, newTestPostgresKV(t))
}

func TestPostgresKV_TripRepo(t *testing.T) {
	kv := newTestPostgresKV(t)
	ctx := context.Background()
	r := repo.NewTripRepo(kv, nil)

	err := r.Mutate(ctx, func(s *repo.TripState) error {
		s.Trips = append(s.Trips, domain.Trip{ID: "local-1", Name: "Weekend"})
		s.ActiveID = "local-1"
		return nil
	})
	require.NoError(t, err)

	got := repo.NewTripRepo(kv, nil).Load(ctx)
	require.Len(t, got.Trips, 1)
	assert.Equal(t, "Weekend", got.Trips[0].Name)
	assert.Equal(t, "local-1", got.ActiveID)
}
