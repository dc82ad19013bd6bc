package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/dfw-explorer/internal/middleware"
)

const devOrigin = "http://localhost:5173"

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		origin      string
		preflight   string
		wantOrigin  string
		wantMethods bool
	}{
		{name: "allowed origin", method: http.MethodGet, origin: devOrigin, wantOrigin: devOrigin},
		{name: "unknown origin", method: http.MethodGet, origin: "http://evil.example.com"},
		{name: "PATCH preflight", method: http.MethodOptions, origin: devOrigin, preflight: http.MethodPatch, wantOrigin: devOrigin, wantMethods: true},
		{name: "DELETE preflight", method: http.MethodOptions, origin: devOrigin, preflight: http.MethodDelete, wantOrigin: devOrigin, wantMethods: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := middleware.NewCORSHandler([]string{devOrigin})(okHandler)

			req := httptest.NewRequest(tc.method, "/trips/local-1", nil)
			req.Header.Set("Origin", tc.origin)
			if tc.preflight != "" {
				req.Header.Set("Access-Control-Request-Method", tc.preflight)
				// Browsers send request headers lowercased.
				req.Header.Set("Access-Control-Request-Headers", "content-type")
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Less(t, rec.Code, 300)
			assert.Equal(t, tc.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			if tc.wantMethods {
				assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), tc.preflight)
			}
		})
	}
}

func TestCORS_ExposesContentDisposition(t *testing.T) {
	h := middleware.NewCORSHandler([]string{devOrigin})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/export", nil)
	req.Header.Set("Origin", devOrigin)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}
