package catalog

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/sokoni/core"
)

// ErrStaleResponse marks a fetch result that arrived after a newer query was
// issued; its payload has been discarded.
var ErrStaleResponse = errors.New("stale response discarded")

const fetchFailedMsg = "Could not load courses. Please try again."

// Fetcher is the remote catalog boundary.
type Fetcher interface {
	FetchCourses(ctx context.Context, q Query) (Envelope, error)
	FetchTags(ctx context.Context) ([]Tag, error)
}

// DiscardCounter observes every stale response dropped by the latest-wins
// guard. prometheus.Counter satisfies it.
type DiscardCounter interface {
	Inc()
}

// Browser ties the filter engine and the pager to the remote catalog for one
// browsing session. Fetches are latest-wins: every mutation bumps a sequence
// number and a response only lands if no newer query was issued meanwhile.
type Browser struct {
	mut     sync.Mutex
	engine  *Engine
	pager   *Pager
	fetcher Fetcher
	logger  core.Logger

	seq       uint64
	results   []Course
	tags      []Tag
	message   string
	discarded uint64
	discards  DiscardCounter
}

func NewBrowser(engine *Engine, pager *Pager, fetcher Fetcher, logger core.Logger) *Browser {
	return &Browser{
		engine:  engine,
		pager:   pager,
		fetcher: fetcher,
		logger:  logger,
	}
}

// CountDiscards registers an optional counter ticked for every discarded
// stale response, on top of the session-local Discarded tally.
func (b *Browser) CountDiscards(c DiscardCounter) {
	b.mut.Lock()
	defer b.mut.Unlock()
	b.discards = c
}

// Filter mutations. Each one resets the page before the next query is
// derived, so an in-flight fetch can never carry an old page with new
// filters.

func (b *Browser) ToggleTag(id string) { b.mutateFilters(func() { b.engine.ToggleTag(id) }) }
func (b *Browser) ClearTags()          { b.mutateFilters(func() { b.engine.ClearTags() }) }
func (b *Browser) SetMaxPrice(v int)   { b.mutateFilters(func() { b.engine.SetMaxPrice(v) }) }
func (b *Browser) SetSort(key string)  { b.mutateFilters(func() { b.engine.SetSort(key) }) }
func (b *Browser) SetSearchTerm(term string) {
	b.mutateFilters(func() { b.engine.SetSearchTerm(term) })
}
func (b *Browser) ClearSearch()  { b.mutateFilters(func() { b.engine.ClearSearch() }) }
func (b *Browser) ClearFilters() { b.mutateFilters(func() { b.engine.Reset() }) }

func (b *Browser) mutateFilters(mutate func()) {
	b.mut.Lock()
	defer b.mut.Unlock()
	mutate()
	b.pager.Reset()
}

// Page navigation does not reset filters; bounds come from the last envelope.

func (b *Browser) SetPage(n int) {
	b.mut.Lock()
	defer b.mut.Unlock()
	b.pager.SetPage(n)
}

func (b *Browser) NextPage() {
	b.mut.Lock()
	defer b.mut.Unlock()
	b.pager.Next()
}

func (b *Browser) PrevPage() {
	b.mut.Lock()
	defer b.mut.Unlock()
	b.pager.Prev()
}

// Refresh fetches the page derived from the current filter state. A stale
// result (a newer query was issued while this one was in flight) is dropped
// and reported as ErrStaleResponse. Fetch failures clear the result list so
// the UI never shows courses inconsistent with the filters.
func (b *Browser) Refresh(ctx context.Context) error {
	b.mut.Lock()
	b.seq++
	seq := b.seq
	q := b.engine.Query(b.pager.Page())
	b.mut.Unlock()

	env, err := b.fetcher.FetchCourses(ctx, q)

	b.mut.Lock()
	defer b.mut.Unlock()
	if seq != b.seq {
		b.discarded++
		if b.discards != nil {
			b.discards.Inc()
		}
		return ErrStaleResponse
	}
	if err != nil {
		b.results = nil
		b.message = fetchFailedMsg
		b.logger.Error("catalog: fetching courses", err, map[string]interface{}{"query": q.Signature()})
		return errors.Wrap(err, "fetching courses")
	}

	b.pager.Apply(env)
	b.results = env.Items
	b.message = ""
	return nil
}

// Load performs the initial fetch of the session: the tag list for the
// filter sidebar and the first page, concurrently.
func (b *Browser) Load(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tags, err := b.fetcher.FetchTags(ctx)
		if err != nil {
			return errors.Wrap(err, "fetching tags")
		}
		b.mut.Lock()
		b.tags = tags
		b.mut.Unlock()
		return nil
	})
	g.Go(func() error { return b.Refresh(ctx) })
	return g.Wait()
}

func (b *Browser) Results() []Course {
	b.mut.Lock()
	defer b.mut.Unlock()
	out := make([]Course, len(b.results))
	copy(out, b.results)
	return out
}

func (b *Browser) Tags() []Tag {
	b.mut.Lock()
	defer b.mut.Unlock()
	out := make([]Tag, len(b.tags))
	copy(out, b.tags)
	return out
}

// Message is the user-visible fetch error, empty when the last fetch landed.
func (b *Browser) Message() string {
	b.mut.Lock()
	defer b.mut.Unlock()
	return b.message
}

// Discarded counts stale responses dropped so far.
func (b *Browser) Discarded() uint64 {
	b.mut.Lock()
	defer b.mut.Unlock()
	return b.discarded
}

func (b *Browser) Pager() PageState {
	b.mut.Lock()
	defer b.mut.Unlock()
	return PageState{
		Page:       b.pager.Page(),
		PageSize:   b.pager.PageSize(),
		TotalCount: b.pager.TotalCount(),
		TotalPages: b.pager.TotalPages(),
		HasNext:    b.pager.HasNext(),
		HasPrev:    b.pager.HasPrev(),
	}
}

// PageState is a read-only snapshot of the pager for rendering.
type PageState struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	TotalCount int  `json:"totalCount"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNextPage"`
	HasPrev    bool `json:"hasPreviousPage"`
}
