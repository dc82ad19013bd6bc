package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pkordes/dfw-explorer/internal/service"
)

// ImportResult is the body of POST /import.
type ImportResult struct {
	Imported int `json:"imported"`
}

// GetExport handles GET /export.
// The trip collection is returned as a JSON file download named after
// today's date.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	// Buffer so a failed export can still produce a clean error response.
	var buf bytes.Buffer
	if err := s.export.Export(r.Context(), &buf); err != nil {
		s.writeServiceError(w, r, err, "export")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", service.FileName(s.now())))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// PostImport handles POST /import. The body is a file previously produced by
// GET /export; its trips are appended to the stored ones.
func (s *Server) PostImport(w http.ResponseWriter, r *http.Request) {
	n, err := s.export.Import(r.Context(), r.Body)
	if err != nil {
		s.writeServiceError(w, r, err, "import")
		return
	}
	writeJSON(w, http.StatusOK, ImportResult{Imported: n})
}
