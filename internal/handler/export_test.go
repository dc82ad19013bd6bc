package handler_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/dfw-explorer/internal/domain"
	"github.com/pkordes/dfw-explorer/internal/handler"
)

func TestGetExport(t *testing.T) {
	exp := &mockExporter{
		export: func(_ context.Context, w io.Writer) error {
			_, err := io.WriteString(w, "[]\n")
			return err
		},
	}
	clock := func() time.Time { return time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC) }
	h := newHTTPHandler(deps{export: exp, opts: []handler.Option{handler.WithClock(clock)}})

	rec := do(t, h, http.MethodGet, "/export", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="travel-trips-2025-06-01.json"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestPostImport(t *testing.T) {
	var got string
	exp := &mockExporter{
		importFn: func(_ context.Context, r io.Reader) (int, error) {
			raw, err := io.ReadAll(r)
			got = string(raw)
			return 2, err
		},
	}
	h := newHTTPHandler(deps{export: exp})

	rec := do(t, h, http.MethodPost, "/import", `[{"id":"a"},{"id":"b"}]`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `[{"id":"a"},{"id":"b"}]`, got)
	assert.Equal(t, 2, decode[handler.ImportResult](t, rec).Imported)
}

func TestPostImport_BadFormat(t *testing.T) {
	exp := &mockExporter{
		importFn: func(_ context.Context, _ io.Reader) (int, error) {
			return 0, fmt.Errorf("service.ExportService.Import: expected an array of trips: %w", domain.ErrImportFormat)
		},
	}
	h := newHTTPHandler(deps{export: exp})

	rec := do(t, h, http.MethodPost, "/import", `{"x":1}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[handler.ErrorResponse](t, rec)
	assert.Equal(t, "invalid_import", body.Error.Code)
	assert.Equal(t, "expected an array of trips", body.Error.Message)
}

func TestPostImport_TooLarge(t *testing.T) {
	exp := &mockExporter{
		importFn: func(_ context.Context, r io.Reader) (int, error) {
			_, err := io.ReadAll(r)
			return 0, err
		},
	}
	h := newHTTPHandler(deps{export: exp, opts: []handler.Option{handler.WithImportLimit(16)}})

	rec := do(t, h, http.MethodPost, "/import", strings.Repeat("x", 64))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
