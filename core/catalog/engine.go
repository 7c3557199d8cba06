package catalog

import (
	"sort"

	"github.com/trezcool/sokoni/core"
)

// Engine owns the filter state and derives normalized queries from it.
// It is not safe for concurrent use on its own; the Browser (or a
// per-request handler) owns it and serializes access.
type Engine struct {
	pageSize int
	ceiling  int

	tags     map[string]bool
	maxPrice int
	sortBy   string
	search   string
}

func NewEngine(pageSize, priceCeiling int) *Engine {
	return &Engine{
		pageSize: pageSize,
		ceiling:  priceCeiling,
		tags:     make(map[string]bool),
		maxPrice: priceCeiling,
		sortBy:   SortPopularity,
	}
}

// ToggleTag adds the tag to the multiselect if absent, removes it otherwise.
func (e *Engine) ToggleTag(id string) {
	id = core.CleanString(id)
	if id == "" {
		return
	}
	if e.tags[id] {
		delete(e.tags, id)
	} else {
		e.tags[id] = true
	}
}

// ClearTags empties the multiselect, meaning "all categories".
func (e *Engine) ClearTags() {
	e.tags = make(map[string]bool)
}

// SetMaxPrice clamps `v` into [0, ceiling].
func (e *Engine) SetMaxPrice(v int) {
	if v < 0 {
		v = 0
	} else if v > e.ceiling {
		v = e.ceiling
	}
	e.maxPrice = v
}

// SetSort replaces the sort key; unknown keys are ignored.
func (e *Engine) SetSort(key string) {
	if IsValidSort(key) {
		e.sortBy = key
	}
}

// SetSearchTerm enters search mode; an empty term leaves it.
func (e *Engine) SetSearchTerm(term string) {
	e.search = core.CleanString(term)
}

func (e *Engine) ClearSearch() { e.search = "" }

// Reset restores the default filter state ("clear filters").
func (e *Engine) Reset() {
	e.tags = make(map[string]bool)
	e.maxPrice = e.ceiling
	e.sortBy = SortPopularity
	e.search = ""
}

func (e *Engine) SelectedTags() []string {
	out := make([]string, 0, len(e.tags))
	for id := range e.tags {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (e *Engine) MaxPrice() int      { return e.maxPrice }
func (e *Engine) Sort() string       { return e.sortBy }
func (e *Engine) SearchTerm() string { return e.search }

// Query derives the normalized query for `page`. A max price equal to the
// ceiling means "no cap" and is left out entirely.
func (e *Engine) Query(page int) Query {
	q := Query{
		Page:     page,
		PageSize: e.pageSize,
	}
	if e.search != "" {
		q.SearchTerm = e.search
		return q
	}

	q.SortBy = e.sortBy
	q.TagIDs = e.SelectedTags()
	if len(q.TagIDs) == 0 {
		q.TagIDs = nil
	}
	if e.maxPrice < e.ceiling {
		maxPrice := e.maxPrice
		q.MaxPrice = &maxPrice
	}
	return q
}
