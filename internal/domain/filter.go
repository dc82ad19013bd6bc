package domain

// AllFilter is the sentinel city/category value meaning "no filter".
const AllFilter = "All"

// DefaultLimit and MaxLimit bound the page size accepted from HTTP callers.
const (
	DefaultLimit = 100
	MaxLimit     = 500
)

// FilterCriteria describes which places a caller wants and which slice of the
// sorted result. The zero value matches everything and applies no slicing.
type FilterCriteria struct {
	// Search is matched case-insensitively against name, city, neighborhood
	// and description.
	Search string
	// City and Category are exact matches; "" and AllFilter disable them.
	City     string
	Category string
	// MinRating is a floor on rating. Places without a rating count as 0.
	MinRating float64
	// MaxPriceLevel is a ceiling on price level. Values outside 1..3 disable
	// the filter. Places without a price level count as 1.
	MaxPriceLevel int
	// Limit is the maximum number of places returned; 0 means no limit.
	Limit int
	// Offset is the zero-based index of the first place returned.
	Offset int
}

// SameFilters reports whether c and o select the same places, ignoring
// Limit and Offset.
func (c FilterCriteria) SameFilters(o FilterCriteria) bool {
	return c.Search == o.Search &&
		c.City == o.City &&
		c.Category == o.Category &&
		c.MinRating == o.MinRating &&
		c.MaxPriceLevel == o.MaxPriceLevel
}

// WithPage returns a copy of c selecting the given 1-indexed page of size.
func (c FilterCriteria) WithPage(page, size int) FilterCriteria {
	if page < 1 {
		page = 1
	}
	c.Limit = size
	c.Offset = (page - 1) * size
	return c
}

// NewFilterCriteria builds criteria from optional HTTP query values.
// Nil pointers fall back to defaults (limit=DefaultLimit, offset=0) and the
// limit is capped at MaxLimit to prevent runaway responses.
func NewFilterCriteria(search, city, category *string, minRating *float64, maxPrice, limit, offset *int) FilterCriteria {
	c := FilterCriteria{Limit: DefaultLimit, MaxPriceLevel: MaxPriceLevel}
	if search != nil {
		c.Search = *search
	}
	if city != nil {
		c.City = *city
	}
	if category != nil {
		c.Category = *category
	}
	if minRating != nil && *minRating > 0 {
		c.MinRating = *minRating
	}
	if maxPrice != nil && *maxPrice >= 1 {
		c.MaxPriceLevel = *maxPrice
	}
	if limit != nil && *limit >= 1 {
		c.Limit = min(*limit, MaxLimit)
	}
	if offset != nil && *offset > 0 {
		c.Offset = *offset
	}
	return c
}
