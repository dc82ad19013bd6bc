package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/dfw-explorer/internal/domain"
)

// ListPlacesParams are the query parameters of GET /places.
type ListPlacesParams struct {
	Q         *string  `form:"q"`
	City      *string  `form:"city"`
	Category  *string  `form:"category"`
	MinRating *float64 `form:"min_rating"`
	MaxPrice  *int     `form:"max_price"`
	Limit     *int     `form:"limit"`
	Offset    *int     `form:"offset"`
}

// Pagination echoes the slice that was served.
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// PlaceList is the body of GET /places.
type PlaceList struct {
	Data       []domain.Place `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// CityList is the body of GET /cities.
type CityList struct {
	Data []domain.City `json:"data"`
}

// ListPlaces handles GET /places.
// Supports ?q=, ?city=, ?category=, ?min_rating=, ?max_price=, ?limit= and
// ?offset= (defaults: limit=100, max=500).
func (s *Server) ListPlaces(w http.ResponseWriter, r *http.Request) {
	params, err := bindListPlacesParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	c := domain.NewFilterCriteria(params.Q, params.City, params.Category,
		params.MinRating, params.MaxPrice, params.Limit, params.Offset)

	places, err := s.places.FetchPlaces(r.Context(), c)
	if err != nil {
		s.writeServiceError(w, r, err, "place")
		return
	}
	writeJSON(w, http.StatusOK, PlaceList{
		Data:       places,
		Pagination: Pagination{Limit: c.Limit, Offset: c.Offset, Count: len(places)},
	})
}

// GetPlace handles GET /places/{id}.
func (s *Server) GetPlace(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := bindPathParam(r, "id", &id); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	p, err := s.places.FetchPlaceByID(r.Context(), domain.PlaceID(id))
	if err != nil {
		s.writeServiceError(w, r, err, "place")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ListCities handles GET /cities.
func (s *Server) ListCities(w http.ResponseWriter, r *http.Request) {
	cities, err := s.places.Cities(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "city")
		return
	}
	writeJSON(w, http.StatusOK, CityList{Data: cities})
}

func bindListPlacesParams(r *http.Request) (ListPlacesParams, error) {
	var p ListPlacesParams
	q := r.URL.Query()
	binds := []struct {
		name string
		dest any
	}{
		{"q", &p.Q},
		{"city", &p.City},
		{"category", &p.Category},
		{"min_rating", &p.MinRating},
		{"max_price", &p.MaxPrice},
		{"limit", &p.Limit},
		{"offset", &p.Offset},
	}
	for _, b := range binds {
		if err := runtime.BindQueryParameter("form", true, false, b.name, q, b.dest); err != nil {
			return ListPlacesParams{}, err
		}
	}
	return p, nil
}

// bindPathParam binds a chi URL parameter with OpenAPI "simple" style rules.
func bindPathParam(r *http.Request, name string, dest any) error {
	return runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
}
