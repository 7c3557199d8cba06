package catalog

// Pager owns the current page number. The remaining fields mirror the last
// fetched envelope, which is authoritative for navigation bounds.
type Pager struct {
	page       int
	pageSize   int
	totalCount int
	totalPages int
	hasNext    bool
	hasPrev    bool
}

func NewPager(pageSize int) *Pager {
	return &Pager{page: 1, pageSize: pageSize}
}

// SetPage accepts `n` only within the bounds last reported by the envelope;
// out-of-range values are silently dropped.
func (p *Pager) SetPage(n int) {
	if n < 1 {
		return
	}
	if n != 1 && n > p.totalPages {
		return
	}
	p.page = n
}

// Next advances only when the last envelope reported a next page.
func (p *Pager) Next() {
	if p.hasNext {
		p.page++
	}
}

// Prev retreats only when the last envelope reported a previous page.
func (p *Pager) Prev() {
	if p.hasPrev && p.page > 1 {
		p.page--
	}
}

// Reset sends the pager back to page 1. Invoked by every filter mutation
// before the next query is derived.
func (p *Pager) Reset() { p.page = 1 }

// Apply mirrors the envelope's pagination fields. The page number itself
// stays owned by the pager.
func (p *Pager) Apply(env Envelope) {
	p.totalCount = env.TotalCount
	p.totalPages = env.TotalPages
	p.hasNext = env.HasNext
	p.hasPrev = env.HasPrev
}

func (p *Pager) Page() int       { return p.page }
func (p *Pager) PageSize() int   { return p.pageSize }
func (p *Pager) TotalCount() int { return p.totalCount }
func (p *Pager) TotalPages() int { return p.totalPages }
func (p *Pager) HasNext() bool   { return p.hasNext }
func (p *Pager) HasPrev() bool   { return p.hasPrev }
