// Package filter applies search, filter, sort and pagination to a slice of
// places. It is pure: the same input and criteria always produce the same
// output, and the input slice is never modified. The same function emulates
// server-side filtering for local data and re-derives views over pages that
// were already accumulated on the client.
package filter

import (
	"slices"
	"strings"

	"github.com/pkordes/dfw-explorer/internal/domain"
)

// Apply returns the places matching c, sorted by rating (highest first, ties
// in input order). When alreadyPaged is true the source has already sliced
// the result, so Limit and Offset are not applied again.
func Apply(places []domain.Place, c domain.FilterCriteria, alreadyPaged bool) []domain.Place {
	out := make([]domain.Place, 0, len(places))
	search := strings.ToLower(strings.TrimSpace(c.Search))
	for _, p := range places {
		if matches(p, c, search) {
			out = append(out, p)
		}
	}

	slices.SortStableFunc(out, func(a, b domain.Place) int {
		switch {
		case a.Rating > b.Rating:
			return -1
		case a.Rating < b.Rating:
			return 1
		}
		return 0
	})

	if alreadyPaged {
		return out
	}
	return page(out, c.Offset, c.Limit)
}

func matches(p domain.Place, c domain.FilterCriteria, search string) bool {
	if search != "" && !matchesSearch(p, search) {
		return false
	}
	if active(c.City) && p.City != c.City {
		return false
	}
	if active(c.Category) && p.Category != c.Category {
		return false
	}
	if c.MinRating > 0 && p.Rating < c.MinRating {
		return false
	}
	if c.MaxPriceLevel >= 1 && c.MaxPriceLevel < domain.MaxPriceLevel && priceLevel(p) > c.MaxPriceLevel {
		return false
	}
	return true
}

func matchesSearch(p domain.Place, search string) bool {
	for _, field := range []string{p.Name, p.City, p.Neighborhood, p.Description} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// active reports whether an exact-match filter value should be applied.
func active(v string) bool {
	return v != "" && v != domain.AllFilter
}

// priceLevel treats unknown levels as the cheapest so they pass any ceiling.
func priceLevel(p domain.Place) int {
	if p.PriceLevel <= 0 {
		return 1
	}
	return p.PriceLevel
}

func page(places []domain.Place, offset, limit int) []domain.Place {
	offset = max(offset, 0)
	if offset >= len(places) {
		return []domain.Place{}
	}
	end := len(places)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return places[offset:end]
}

// Categories returns AllFilter followed by the distinct categories of places
// in first-seen order. Places without a category are listed under
// domain.UncategorizedLabel.
func Categories(places []domain.Place) []string {
	seen := map[string]bool{}
	out := []string{domain.AllFilter}
	for _, p := range places {
		c := p.DisplayCategory()
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// Cities returns the distinct non-empty cities of places in first-seen order.
func Cities(places []domain.Place) []domain.City {
	seen := map[string]bool{}
	out := []domain.City{}
	for _, p := range places {
		if p.City == "" || seen[p.City] {
			continue
		}
		seen[p.City] = true
		out = append(out, domain.City{Name: p.City})
	}
	return out
}
