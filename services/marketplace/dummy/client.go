package dummymkt

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/sokoni/core/catalog"
)

// Client serves a canned catalog for development and tests; it honors the
// same paging, filter and search semantics as the remote API.
type Client struct {
	Courses []catalog.Course
	TagList []catalog.Tag
	Err     error // when set, every call fails with it
}

func NewClient() *Client {
	return &Client{
		Courses: defaultCourses(),
		TagList: []catalog.Tag{
			{ID: "dev", Name: "Development", Courses: 3},
			{ID: "data", Name: "Data", Courses: 2},
			{ID: "design", Name: "Design", Courses: 1},
		},
	}
}

const defaultPageSize = 12

func (c *Client) FetchCourses(_ context.Context, q catalog.Query) (catalog.Envelope, error) {
	if c.Err != nil {
		return catalog.Envelope{}, c.Err
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}

	matches := make([]catalog.Course, 0, len(c.Courses))
	for _, crs := range c.Courses {
		if c.matches(crs, q) {
			matches = append(matches, crs)
		}
	}
	if !q.IsSearch() {
		sortCourses(matches, q.SortBy)
	}

	total := len(matches)
	totalPages := (total + q.PageSize - 1) / q.PageSize
	start := (q.Page - 1) * q.PageSize
	if start > total {
		start = total
	}
	end := start + q.PageSize
	if end > total {
		end = total
	}

	return catalog.Envelope{
		Items:      matches[start:end],
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalCount: total,
		TotalPages: totalPages,
		HasNext:    q.Page < totalPages,
		HasPrev:    q.Page > 1 && totalPages > 0,
	}, nil
}

func (c *Client) matches(crs catalog.Course, q catalog.Query) bool {
	if q.IsSearch() {
		term := strings.ToLower(q.SearchTerm)
		return strings.Contains(strings.ToLower(crs.Title), term) ||
			strings.Contains(strings.ToLower(crs.Instructor), term)
	}
	if q.MaxPrice != nil && crs.Price > *q.MaxPrice {
		return false
	}
	if crs.Price < q.MinPrice {
		return false
	}
	if len(q.TagIDs) > 0 {
		var tagged bool
		for _, id := range q.TagIDs {
			if strings.EqualFold(crs.Tag, id) {
				tagged = true
				break
			}
		}
		if !tagged {
			return false
		}
	}
	return true
}

func sortCourses(courses []catalog.Course, key string) {
	switch key {
	case catalog.SortRating:
		sort.SliceStable(courses, func(i, j int) bool { return courses[i].Rating > courses[j].Rating })
	case catalog.SortPriceAsc:
		sort.SliceStable(courses, func(i, j int) bool { return courses[i].Price < courses[j].Price })
	case catalog.SortPriceDesc:
		sort.SliceStable(courses, func(i, j int) bool { return courses[i].Price > courses[j].Price })
	}
	// popularity/newest keep fixture order
}

func (c *Client) FetchTags(_ context.Context) ([]catalog.Tag, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	return c.TagList, nil
}

func (c *Client) Recommendations(_ context.Context, ids []string) ([]catalog.Course, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	inCart := make(map[string]bool, len(ids))
	for _, id := range ids {
		inCart[id] = true
	}

	out := make([]catalog.Course, 0, 2)
	for _, crs := range c.Courses {
		if !inCart[crs.ID] {
			out = append(out, crs)
		}
		if len(out) == 2 {
			break
		}
	}
	return out, nil
}

func defaultCourses() []catalog.Course {
	return []catalog.Course{
		{ID: "crs-go-101", Title: "Go for Working Developers", Instructor: "Amina Yusuf", Rating: 4.7, RatingCount: "3,812", Price: 12900, OriginalPrice: 49900, Discount: 74, Tag: "dev"},
		{ID: "crs-sql-204", Title: "Practical SQL and Data Modeling", Instructor: "Daniel Otieno", Rating: 4.5, RatingCount: "2,104", Price: 9900, Tag: "data"},
		{ID: "crs-web-310", Title: "Modern Web Interfaces", Instructor: "Grace Wanjiru", Rating: 4.8, RatingCount: "6,477", Price: 14900, OriginalPrice: 29900, Discount: 50, Tag: "design"},
		{ID: "crs-py-115", Title: "Python from Scratch", Instructor: "Amina Yusuf", Rating: 4.4, RatingCount: "9,031", Price: 7900, Tag: "dev"},
		{ID: "crs-ml-420", Title: "Machine Learning Foundations", Instructor: "Daniel Otieno", Rating: 4.6, RatingCount: "1,356", Price: 19900, OriginalPrice: 39900, Discount: 50, Tag: "data"},
		{ID: "crs-js-202", Title: "JavaScript Deep Dive", Instructor: "Grace Wanjiru", Rating: 4.3, RatingCount: "5,220", Price: 8900, Tag: "dev"},
	}
}
