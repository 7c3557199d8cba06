package catalog

import (
	"net/url"
	"strconv"
)

// Sort keys accepted by the course-listing endpoint.
const (
	SortPopularity = "popularity"
	SortRating     = "rating"
	SortNewest     = "newest"
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
)

var sortKeys = map[string]bool{
	SortPopularity: true,
	SortRating:     true,
	SortNewest:     true,
	SortPriceAsc:   true,
	SortPriceDesc:  true,
}

// IsValidSort reports whether `s` is a known sort key.
func IsValidSort(s string) bool { return sortKeys[s] }

// Course is one catalog listing as returned by the remote API.
type Course struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Instructor    string  `json:"instructor"`
	Image         string  `json:"image"`
	Duration      string  `json:"duration"`
	Students      string  `json:"students"`
	Rating        float64 `json:"rating"`
	RatingCount   string  `json:"rating_count"`
	Price         int     `json:"price"` // minor currency unit
	OriginalPrice int     `json:"original_price,omitempty"`
	Discount      int     `json:"discount,omitempty"`
	Tag           string  `json:"tag,omitempty"`
}

// Tag is a course category usable in the filter multiselect.
type Tag struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Courses int    `json:"courses"`
}

// Envelope is the paginated response wrapper returned by the catalog and
// search endpoints. All pagination fields are authoritative.
type Envelope struct {
	Items      []Course `json:"items"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
	TotalCount int      `json:"totalCount"`
	TotalPages int      `json:"totalPages"`
	HasNext    bool     `json:"hasNextPage"`
	HasPrev    bool     `json:"hasPreviousPage"`
}

// Query is the normalized wire shape handed to the remote API.
// A non-empty SearchTerm switches the whole query to search mode: sort, tag
// and price fields are not applicable there and are never sent.
type Query struct {
	SearchTerm string
	Page       int
	PageSize   int
	SortBy     string
	TagIDs     []string
	MinPrice   int
	MaxPrice   *int // nil means "no cap"
}

func (q Query) IsSearch() bool { return q.SearchTerm != "" }

// Values encodes the query as endpoint parameters. Omission rules: TagId is
// absent when no tags are selected ("all tags", never "no tags") and MaxPrice
// is absent when uncapped.
func (q Query) Values() url.Values {
	v := make(url.Values)
	v.Set("Page", strconv.Itoa(q.Page))
	v.Set("PageSize", strconv.Itoa(q.PageSize))

	if q.IsSearch() {
		v.Set("SearchTerm", q.SearchTerm)
		return v
	}

	v.Set("SortBy", q.SortBy)
	v.Set("MinPrice", strconv.Itoa(q.MinPrice))
	if q.MaxPrice != nil {
		v.Set("MaxPrice", strconv.Itoa(*q.MaxPrice))
	}
	for _, id := range q.TagIDs {
		v.Add("TagId", id)
	}
	return v
}

// Signature identifies the originating query of a response, for the
// latest-wins staleness guard.
func (q Query) Signature() string { return q.Values().Encode() }
