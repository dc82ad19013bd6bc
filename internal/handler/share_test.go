package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/dfw-explorer/internal/domain"
	"github.com/pkordes/dfw-explorer/internal/handler"
)

func TestCreateShareLink(t *testing.T) {
	sharer := &mockSharer{
		link: func(_ context.Context, tripID string) (string, error) {
			return "https://dfw.example/share/tok-" + tripID, nil
		},
	}
	h := newHTTPHandler(deps{share: sharer})

	rec := do(t, h, http.MethodPost, "/trips/local-1/share", nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "https://dfw.example/share/tok-local-1", decode[handler.ShareLink](t, rec).URL)
}

func TestGetSharedTrip(t *testing.T) {
	sharer := &mockSharer{
		resolve: func(_ context.Context, token string) (domain.SharedTrip, error) {
			if token != "good" {
				return domain.SharedTrip{}, fmt.Errorf("share.Decode: %w", domain.ErrInvalidToken)
			}
			return domain.SharedTrip{Title: "Weekend", Places: []domain.Place{placeFixture("1")}}, nil
		},
	}
	h := newHTTPHandler(deps{share: sharer})

	rec := do(t, h, http.MethodGet, "/share/good", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[domain.SharedTrip](t, rec)
	assert.Equal(t, "Weekend", got.Title)
	require.Len(t, got.Places, 1)

	rec = do(t, h, http.MethodGet, "/share/bad", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_token", decode[handler.ErrorResponse](t, rec).Error.Code)
}
