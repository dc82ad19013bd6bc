package handler

import (
	"net/http"
)

// ShareLink is the body of POST /trips/{id}/share.
type ShareLink struct {
	URL string `json:"url"`
}

// CreateShareLink handles POST /trips/{id}/share.
func (s *Server) CreateShareLink(w http.ResponseWriter, r *http.Request) {
	id, ok := tripIDParam(w, r)
	if !ok {
		return
	}
	link, err := s.share.Link(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, ShareLink{URL: link})
}

// GetSharedTrip handles GET /share/{token}. Places that no longer resolve are
// left out of the response.
func (s *Server) GetSharedTrip(w http.ResponseWriter, r *http.Request) {
	var token string
	if err := bindPathParam(r, "token", &token); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	shared, err := s.share.Resolve(r.Context(), token)
	if err != nil {
		s.writeServiceError(w, r, err, "shared trip")
		return
	}
	writeJSON(w, http.StatusOK, shared)
}
