// Package normalize reconciles place records from heterogeneous sources into
// the canonical domain.Place shape. Raw shapes never leave this package.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkordes/dfw-explorer/internal/domain"
)

// RawPlace is an undecoded place record from any source: the primary API,
// the static snapshot or the bundled dataset. Field names vary by source
// (photo_url vs image_url vs imageUrl, price vs price_level vs priceDisplay).
type RawPlace map[string]any

var (
	imageKeys = []string{"imageUrl", "image_url", "photo_url", "photoPath"}
	priceKeys = []string{"priceDisplay", "price_display", "priceLevel", "price_level", "price"}
	mapsKeys  = []string{"mapsUrl", "directionsUrl", "directions_url", "maps_url"}

	// nestedPriceKeys are inspected when a price candidate is an object,
	// e.g. [{"level": 3}].
	nestedPriceKeys = []string{"level", "value", "priceLevel", "price_level", "price", "display"}
)

// Normalizer converts raw records into canonical places.
// The zero value is ready to use.
type Normalizer struct {
	// BaseURL, when set, turns relative image paths into absolute URLs under
	// <BaseURL>/static/.
	BaseURL string
}

// Payload decodes a JSON document holding either one raw record or an array
// of them and normalizes every object it contains. Non-object array members
// and non-object documents yield no places.
func (n Normalizer) Payload(data []byte) ([]domain.Place, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("normalize.Payload: %w", err)
	}

	var items []any
	switch t := v.(type) {
	case map[string]any:
		items = []any{t}
	case []any:
		items = t
	}

	places := make([]domain.Place, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		places = append(places, n.Place(RawPlace(obj)))
	}
	return places, nil
}

// Places normalizes a batch of raw records, preserving order.
func (n Normalizer) Places(raws []RawPlace) []domain.Place {
	out := make([]domain.Place, len(raws))
	for i, r := range raws {
		out[i] = n.Place(r)
	}
	return out
}

// Place normalizes a single raw record.
func (n Normalizer) Place(raw RawPlace) domain.Place {
	p := domain.Place{
		ID:           idOf(raw["id"]),
		Name:         stringOf(raw["name"]),
		Category:     stringOf(raw["category"]),
		Address:      stringOf(raw["address"]),
		Neighborhood: stringOf(raw["neighborhood"]),
		Description:  firstText(raw, "description", "short_description"),
		City:         firstText(raw, "city", "address"),
		Rating:       numberOf(raw["rating"]),
		Lat:          numberOf(raw["lat"]),
		Lon:          numberOf(raw["lon"]),
		ImageURL:     n.image(raw),
		MapsURL:      mapsURL(raw),
	}
	p.PriceLevel, p.PriceDisplay = price(raw)
	return p
}

// image returns the first present image reference, resolved against BaseURL
// when it is a relative path.
func (n Normalizer) image(raw RawPlace) string {
	var ref string
	for _, k := range imageKeys {
		if ref = firstNonEmpty(raw[k]); ref != "" {
			break
		}
	}
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || n.BaseURL == "" {
		return ref
	}
	cleaned := strings.TrimPrefix(strings.TrimLeft(ref, "/"), "static/")
	return strings.TrimRight(n.BaseURL, "/") + "/static/" + cleaned
}

// price resolves the price level and display from the first candidate field
// that yields a value. A known level always produces a glyph display.
func price(raw RawPlace) (int, string) {
	for _, k := range priceKeys {
		if lvl, display, ok := priceOf(raw[k]); ok {
			return lvl, display
		}
	}
	return 0, ""
}

// priceOf interprets one price candidate. ok is false when v holds no usable
// value, so the caller can move on to the next candidate.
func priceOf(v any) (level int, display string, ok bool) {
	switch t := v.(type) {
	case nil, bool:
		return 0, "", false
	case []any:
		for _, member := range t {
			if level, display, ok = priceOf(member); ok {
				return level, display, true
			}
		}
		return 0, "", false
	case map[string]any:
		for _, k := range nestedPriceKeys {
			if level, display, ok = priceOf(t[k]); ok {
				return level, display, true
			}
		}
		return 0, "", false
	case string:
		return priceText(t)
	default:
		f, isNum := toFloat(t)
		if !isNum {
			return 0, "", false
		}
		return priceNumber(f)
	}
}

func priceNumber(f float64) (int, string, bool) {
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, "", false
	}
	lvl := clampLevel(int(math.Round(f)))
	return lvl, domain.PriceGlyphs(lvl), true
}

func priceText(s string) (int, string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, "", false
	}
	if strings.Trim(s, domain.PriceGlyph) == "" {
		lvl := clampLevel(strings.Count(s, domain.PriceGlyph))
		return lvl, domain.PriceGlyphs(lvl), true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return priceNumber(f)
	}
	return 0, s, true
}

func clampLevel(lvl int) int {
	return max(1, min(lvl, domain.MaxPriceLevel))
}

// mapsURL returns the first non-blank maps/directions link.
func mapsURL(raw RawPlace) string {
	for _, k := range mapsKeys {
		if s := strings.TrimSpace(stringOf(raw[k])); s != "" {
			return s
		}
	}
	return ""
}

func idOf(v any) domain.PlaceID {
	switch t := v.(type) {
	case json.Number:
		return domain.PlaceIDFromNumber(t)
	case float64:
		return domain.PlaceIDFromNumber(json.Number(strconv.FormatFloat(t, 'f', -1, 64)))
	case int:
		return domain.PlaceID(strconv.Itoa(t))
	case string:
		return domain.PlaceID(strings.TrimSpace(t))
	}
	return ""
}

func firstText(raw RawPlace, keys ...string) string {
	for _, k := range keys {
		if s := stringOf(raw[k]); s != "" {
			return s
		}
	}
	return ""
}

// firstNonEmpty returns v as a string, or its first non-empty member when v is
// a list.
func firstNonEmpty(v any) string {
	if list, ok := v.([]any); ok {
		for _, item := range list {
			if s := stringOf(item); s != "" {
				return s
			}
		}
		return ""
	}
	return stringOf(v)
}

func stringOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	}
	return ""
}

func numberOf(v any) float64 {
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		return f
	}
	f, _ := toFloat(v)
	return f
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}
