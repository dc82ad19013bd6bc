package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PriceGlyph is the currency glyph repeated to display a price level.
const PriceGlyph = "$"

// MaxPriceLevel is the most expensive price level a place can have.
const MaxPriceLevel = 4

// UncategorizedLabel is shown for places without a category.
const UncategorizedLabel = "Uncategorized"

// PlaceID identifies a place. Sources use both integer and string ids, so the
// value is kept as text and emitted as a JSON number whenever it is a
// canonical integer.
type PlaceID string

// IsInt reports whether the id is a canonical base-10 integer.
func (id PlaceID) IsInt() bool {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return err == nil && strconv.FormatInt(n, 10) == string(id)
}

// MarshalJSON implements json.Marshaler.
func (id PlaceID) MarshalJSON() ([]byte, error) {
	if id.IsInt() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON implements json.Unmarshaler. Numbers and strings are accepted;
// integral floats such as 42.0 collapse to "42".
func (id *PlaceID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = PlaceID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("place id: %w", err)
	}
	*id = PlaceIDFromNumber(n)
	return nil
}

// PlaceIDFromNumber converts a JSON number into a PlaceID.
func PlaceIDFromNumber(n json.Number) PlaceID {
	if i, err := n.Int64(); err == nil {
		return PlaceID(strconv.FormatInt(i, 10))
	}
	if f, err := n.Float64(); err == nil && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return PlaceID(strconv.FormatInt(int64(f), 10))
	}
	return PlaceID(n.String())
}

// Place is the canonical place record produced by the normalizer.
// Values are never mutated after normalization; a changed record is a new value.
//
// PriceLevel is 0 when unknown. When it is known, PriceDisplay holds exactly
// PriceLevel glyphs; otherwise PriceDisplay may carry raw source text.
type Place struct {
	ID           PlaceID
	Name         string
	Category     string
	City         string
	Address      string
	Neighborhood string
	Description  string
	Rating       float64
	PriceLevel   int
	PriceDisplay string
	ImageURL     string
	MapsURL      string
	Lat          float64
	Lon          float64
}

// DisplayCategory returns the category, or UncategorizedLabel when empty.
func (p Place) DisplayCategory() string {
	if p.Category == "" {
		return UncategorizedLabel
	}
	return p.Category
}

// DisplayImage returns the image URL, or placeholder when the place has none.
func (p Place) DisplayImage(placeholder string) string {
	if p.ImageURL == "" {
		return placeholder
	}
	return p.ImageURL
}

// PriceGlyphs returns level currency glyphs, or "" for an unknown level.
func PriceGlyphs(level int) string {
	if level <= 0 {
		return ""
	}
	return strings.Repeat(PriceGlyph, level)
}

// placeJSON is the wire shape of a Place. Alias fields are mirrored so that
// consumers expecting either naming convention read the same value.
type placeJSON struct {
	ID                 PlaceID `json:"id"`
	Name               string  `json:"name"`
	Category           string  `json:"category,omitempty"`
	City               string  `json:"city,omitempty"`
	Address            string  `json:"address,omitempty"`
	Neighborhood       string  `json:"neighborhood,omitempty"`
	Description        string  `json:"description,omitempty"`
	Rating             float64 `json:"rating,omitempty"`
	Lat                float64 `json:"lat,omitempty"`
	Lon                float64 `json:"lon,omitempty"`
	PriceLevel         *int    `json:"priceLevel"`
	PriceLevelSnake    *int    `json:"price_level"`
	PriceDisplay       *string `json:"priceDisplay"`
	PriceDisplaySnake  *string `json:"price_display"`
	ImageURL           *string `json:"imageUrl"`
	MapsURL            *string `json:"mapsUrl"`
	DirectionsURL      *string `json:"directionsUrl"`
	DirectionsURLSnake *string `json:"directions_url"`
	MapsURLSnake       *string `json:"maps_url"`
}

// MarshalJSON implements json.Marshaler. Unknown optional values are null.
func (p Place) MarshalJSON() ([]byte, error) {
	w := placeJSON{
		ID:           p.ID,
		Name:         p.Name,
		Category:     p.Category,
		City:         p.City,
		Address:      p.Address,
		Neighborhood: p.Neighborhood,
		Description:  p.Description,
		Rating:       p.Rating,
		Lat:          p.Lat,
		Lon:          p.Lon,
		ImageURL:     optString(p.ImageURL),
	}
	if p.PriceLevel > 0 {
		lvl := p.PriceLevel
		w.PriceLevel, w.PriceLevelSnake = &lvl, &lvl
	}
	w.PriceDisplay = optString(p.PriceDisplay)
	w.PriceDisplaySnake = w.PriceDisplay
	maps := optString(p.MapsURL)
	w.MapsURL, w.DirectionsURL, w.DirectionsURLSnake, w.MapsURLSnake = maps, maps, maps, maps
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler for the canonical wire shape.
// Raw source records go through the normalize package instead.
func (p *Place) UnmarshalJSON(data []byte) error {
	var w placeJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = Place{
		ID:           w.ID,
		Name:         w.Name,
		Category:     w.Category,
		City:         w.City,
		Address:      w.Address,
		Neighborhood: w.Neighborhood,
		Description:  w.Description,
		Rating:       w.Rating,
		Lat:          w.Lat,
		Lon:          w.Lon,
		ImageURL:     firstString(w.ImageURL),
		PriceDisplay: firstString(w.PriceDisplay, w.PriceDisplaySnake),
		MapsURL:      strings.TrimSpace(firstString(w.MapsURL, w.DirectionsURL, w.DirectionsURLSnake, w.MapsURLSnake)),
	}
	for _, lvl := range []*int{w.PriceLevel, w.PriceLevelSnake} {
		if lvl != nil && *lvl > 0 {
			p.PriceLevel = min(*lvl, MaxPriceLevel)
			p.PriceDisplay = PriceGlyphs(p.PriceLevel)
			break
		}
	}
	return nil
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func firstString(values ...*string) string {
	for _, v := range values {
		if v != nil && *v != "" {
			return *v
		}
	}
	return ""
}
