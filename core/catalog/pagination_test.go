package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPager_SetPageBounds(t *testing.T) {
	p := NewPager(testPageSize)

	// nothing fetched yet: only page 1 is valid
	p.SetPage(3)
	assert.Equal(t, 1, p.Page())

	p.Apply(Envelope{TotalCount: 60, TotalPages: 5, HasNext: true})

	p.SetPage(3)
	assert.Equal(t, 3, p.Page())

	p.SetPage(0)
	assert.Equal(t, 3, p.Page())

	p.SetPage(6)
	assert.Equal(t, 3, p.Page())

	p.SetPage(5)
	assert.Equal(t, 5, p.Page())
}

func TestPager_navigationFollowsEnvelope(t *testing.T) {
	p := NewPager(testPageSize)

	// the envelope is authoritative: no hasNext, no advance
	p.Next()
	assert.Equal(t, 1, p.Page())

	p.Apply(Envelope{TotalPages: 3, HasNext: true})
	p.Next()
	assert.Equal(t, 2, p.Page())

	p.Apply(Envelope{TotalPages: 3, HasNext: true, HasPrev: true})
	p.Prev()
	assert.Equal(t, 1, p.Page())

	// hasPrev mirrors a stale envelope but page 1 never retreats further
	p.Prev()
	assert.Equal(t, 1, p.Page())
}

func TestPager_Reset(t *testing.T) {
	p := NewPager(testPageSize)
	p.Apply(Envelope{TotalCount: 60, TotalPages: 5, HasNext: true, HasPrev: true})
	p.SetPage(4)

	p.Reset()
	assert.Equal(t, 1, p.Page())
	// envelope mirrors survive until the next fetch
	assert.Equal(t, 5, p.TotalPages())
	assert.Equal(t, 60, p.TotalCount())
}

func TestPager_ApplyMirrorsEnvelope(t *testing.T) {
	p := NewPager(testPageSize)
	p.Apply(Envelope{Page: 2, TotalCount: 25, TotalPages: 3, HasNext: true, HasPrev: true})

	assert.Equal(t, 25, p.TotalCount())
	assert.Equal(t, 3, p.TotalPages())
	assert.True(t, p.HasNext())
	assert.True(t, p.HasPrev())
	// the page number stays owned by the pager
	assert.Equal(t, 1, p.Page())
}
