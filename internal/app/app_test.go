package app_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/dfw-explorer/internal/app"
	"github.com/pkordes/dfw-explorer/internal/config"
	"github.com/pkordes/dfw-explorer/internal/domain"
)

func TestOpenStore_Drivers(t *testing.T) {
	log := slog.New(slog.DiscardHandler)
	ctx := context.Background()

	for _, driver := range []string{config.StoreMemory, config.StoreFile, config.StoreBadger} {
		t.Run(driver, func(t *testing.T) {
			cfg := config.Config{StoreDriver: driver, StorePath: filepath.Join(t.TempDir(), "store")}

			kv, closeFn, err := app.OpenStore(ctx, cfg, log)
			require.NoError(t, err)
			defer closeFn()

			require.NoError(t, kv.Set(ctx, "k", "v"))
			got, err := kv.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "v", got)
		})
	}
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, closeFn, err := app.OpenStore(context.Background(), config.Config{StoreDriver: "redis"}, slog.New(slog.DiscardHandler))

	require.Error(t, err)
	assert.NotNil(t, closeFn)
}

func TestNewFetcher_FallsBackToBundled(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer down.Close()

	cfg := config.Config{PrimaryURL: down.URL, SnapshotURL: down.URL + "/places.json"}
	f := app.NewFetcher(cfg, down.Client(), slog.New(slog.DiscardHandler))

	places, err := f.FetchPlaces(context.Background(), domain.FilterCriteria{})

	require.NoError(t, err)
	assert.NotEmpty(t, places, "bundled dataset answers when the network sources fail")
}
