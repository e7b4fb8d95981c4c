package catalog

import (
	"context"
	"errors"
	"sync"
)

// ErrFetchInFlight reports that a page fetch is already outstanding for this
// pager; the caller should simply wait for it to settle.
var ErrFetchInFlight = errors.New("page fetch already in flight")

// Page is one fetched page of a paginated query.
type Page[T any] struct {
	PageNumber int
	TotalPages int
	Total      int
	Items      []T
}

// FetchFunc fetches the given page for the pager's fixed filter parameter.
type FetchFunc[T any] func(ctx context.Context, page int) (Page[T], error)

// Pager accumulates pages for one paginated query. Within one instance the
// fetched-page count and the item list only grow; a query-parameter change
// requires a fresh instance (see FeedService).
//
// At most one fetch is outstanding at a time, and every fetch is tagged with
// the pagesFetched value it was issued for. A completion whose tag no longer
// matches the current state is discarded, so pages are always appended in
// increasing page-number order even when triggers fire faster than fetches
// settle.
type Pager[T any] struct {
	fetch FetchFunc[T]

	mu           sync.Mutex
	items        []T
	pagesFetched int
	totalPages   int
	total        int
	inFlight     bool
}

// NewPager constructs an empty pager over the provided fetch function.
func NewPager[T any](fetch FetchFunc[T]) *Pager[T] {
	return &Pager[T]{fetch: fetch}
}

// LoadFirst fetches page 1 when the pager is still empty. On failure the
// pager stays empty; the caller decides whether to surface the error, and a
// retry happens only through another explicit LoadFirst.
func (p *Pager[T]) LoadFirst(ctx context.Context) error {
	p.mu.Lock()
	if p.pagesFetched > 0 {
		p.mu.Unlock()
		return nil
	}
	if p.inFlight {
		p.mu.Unlock()
		return ErrFetchInFlight
	}
	p.inFlight = true
	p.mu.Unlock()

	page, err := p.fetch(ctx, 1)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight = false

	if err != nil {
		return err
	}
	if p.pagesFetched > 0 {
		// A concurrent load already seeded the pager.
		return nil
	}

	p.items = append(p.items, page.Items...)
	p.pagesFetched = 1
	p.totalPages = page.TotalPages
	p.total = page.Total
	return nil
}

// MaybeFetchNext fetches the next page if one remains and no fetch is
// outstanding. It reports whether a page was appended.
func (p *Pager[T]) MaybeFetchNext(ctx context.Context) (bool, error) {
	p.mu.Lock()
	if p.pagesFetched == 0 || p.pagesFetched >= p.totalPages || p.inFlight {
		p.mu.Unlock()
		return false, nil
	}
	issuedFor := p.pagesFetched
	p.inFlight = true
	p.mu.Unlock()

	page, err := p.fetch(ctx, issuedFor+1)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight = false

	if err != nil {
		return false, err
	}
	if p.pagesFetched != issuedFor {
		// Stale completion; state has moved on since this fetch was issued.
		return false, nil
	}

	p.items = append(p.items, page.Items...)
	p.pagesFetched++
	return true, nil
}

// NearEndGrid reports whether the grid trigger fires: the last accumulated
// item has entered the viewport.
func (p *Pager[T]) NearEndGrid(visibleIndex int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items) > 0 && visibleIndex >= len(p.items)-1
}

// NearEndSlider reports whether the slider trigger fires: the current slide
// index is within two screens of the end.
func (p *Pager[T]) NearEndSlider(index, visibleCount int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items) > 0 && index >= len(p.items)-2*visibleCount
}

// Snapshot returns a copy of the accumulated items plus page bookkeeping.
func (p *Pager[T]) Snapshot() ([]T, int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	items := make([]T, len(p.items))
	copy(items, p.items)
	return items, p.pagesFetched, p.totalPages
}

// PagesFetched returns the number of pages applied so far.
func (p *Pager[T]) PagesFetched() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pagesFetched
}

// TotalPages returns the page count reported by the first successful fetch.
func (p *Pager[T]) TotalPages() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalPages
}

// Total returns the total result count reported by the source.
func (p *Pager[T]) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

// Len returns the number of accumulated items.
func (p *Pager[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}
