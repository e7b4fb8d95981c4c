package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/reelbase/backend/internal/models"
	"github.com/reelbase/backend/internal/tmdb"
)

// Media kinds served by the feed service.
const (
	MediaMovies = "movies"
	MediaTV     = "tv"
)

// Feed names within a media kind.
const (
	FeedAll      = "all"
	FeedPopular  = "popular"
	FeedTopRated = "top_rated"
	FeedUpcoming = "upcoming"
)

// ErrUnknownFeed reports a media/feed combination the catalog does not serve.
var ErrUnknownFeed = errors.New("unknown feed")

// ErrGenreNotSupported reports a genre filter on a chart feed. Only the
// discover feeds accept one.
var ErrGenreNotSupported = errors.New("genre filter is only supported on the all feed")

// Source is the subset of catalog client calls the feed service consumes.
type Source interface {
	DiscoverMovies(ctx context.Context, genreID, page int) tmdb.PagedResult
	DiscoverTV(ctx context.Context, genreID, page int) tmdb.PagedResult
	PopularMovies(ctx context.Context, page int) tmdb.PagedResult
	TopRatedMovies(ctx context.Context, page int) tmdb.PagedResult
	UpcomingMovies(ctx context.Context, page int) tmdb.PagedResult
	PopularTV(ctx context.Context, page int) tmdb.PagedResult
	TopRatedTV(ctx context.Context, page int) tmdb.PagedResult
}

// FeedView is the accumulated state returned to feed consumers.
type FeedView struct {
	Items        []models.CatalogItem `json:"items"`
	PagesFetched int                  `json:"pagesFetched"`
	TotalPages   int                  `json:"totalPages"`
}

// FeedService owns one pager per (owner, media, feed) and recreates it
// whenever the genre parameter changes, mirroring the screen-lifecycle rule
// that a filter change destroys the accumulator.
type FeedService struct {
	source Source

	mu     sync.Mutex
	pagers map[string]*feedEntry
}

type feedEntry struct {
	genreID int
	pager   *Pager[models.CatalogItem]
}

// NewFeedService constructs a feed service over the provided catalog source.
func NewFeedService(source Source) *FeedService {
	return &FeedService{
		source: source,
		pagers: make(map[string]*feedEntry),
	}
}

// Load returns the accumulated feed state, fetching page 1 first if the
// owning pager is still empty.
func (s *FeedService) Load(ctx context.Context, ownerID, media, feed string, genreID int) (FeedView, error) {
	pager, err := s.pagerFor(ownerID, media, feed, genreID)
	if err != nil {
		return FeedView{}, err
	}

	if err := pager.LoadFirst(ctx); err != nil && !errors.Is(err, ErrFetchInFlight) {
		return FeedView{}, err
	}

	return view(pager), nil
}

// AdvanceGrid applies a grid scroll event: the item at visibleIndex entered
// the viewport. The next page is fetched only when the trigger fires and
// pages remain.
func (s *FeedService) AdvanceGrid(ctx context.Context, ownerID, media, feed string, genreID, visibleIndex int) (FeedView, error) {
	pager, err := s.pagerFor(ownerID, media, feed, genreID)
	if err != nil {
		return FeedView{}, err
	}

	if err := pager.LoadFirst(ctx); err != nil && !errors.Is(err, ErrFetchInFlight) {
		return FeedView{}, err
	}

	if pager.NearEndGrid(visibleIndex) {
		if _, err := pager.MaybeFetchNext(ctx); err != nil {
			return FeedView{}, err
		}
	}

	return view(pager), nil
}

// AdvanceSlider applies a carousel slide event at the given index with the
// given number of visible slides.
func (s *FeedService) AdvanceSlider(ctx context.Context, ownerID, media, feed string, genreID, index, visibleCount int) (FeedView, error) {
	pager, err := s.pagerFor(ownerID, media, feed, genreID)
	if err != nil {
		return FeedView{}, err
	}

	if err := pager.LoadFirst(ctx); err != nil && !errors.Is(err, ErrFetchInFlight) {
		return FeedView{}, err
	}

	if visibleCount <= 0 {
		visibleCount = 5
	}
	if pager.NearEndSlider(index, visibleCount) {
		if _, err := pager.MaybeFetchNext(ctx); err != nil {
			return FeedView{}, err
		}
	}

	return view(pager), nil
}

// Drop discards every pager owned by ownerID. Called on sign-out.
func (s *FeedService) Drop(ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := ownerID + "|"
	for key := range s.pagers {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(s.pagers, key)
		}
	}
}

func view(pager *Pager[models.CatalogItem]) FeedView {
	items, pagesFetched, totalPages := pager.Snapshot()
	return FeedView{
		Items:        items,
		PagesFetched: pagesFetched,
		TotalPages:   totalPages,
	}
}

func (s *FeedService) pagerFor(ownerID, media, feed string, genreID int) (*Pager[models.CatalogItem], error) {
	fetch, err := s.fetchFunc(media, feed, genreID)
	if err != nil {
		return nil, err
	}

	key := ownerID + "|" + media + "|" + feed

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.pagers[key]; ok && entry.genreID == genreID {
		return entry.pager, nil
	}

	// New feed, or the filter parameter changed: start from Empty.
	pager := NewPager(fetch)
	s.pagers[key] = &feedEntry{genreID: genreID, pager: pager}
	return pager, nil
}

func (s *FeedService) fetchFunc(media, feed string, genreID int) (FetchFunc[models.CatalogItem], error) {
	if genreID > 0 && feed != FeedAll {
		return nil, ErrGenreNotSupported
	}

	var list func(ctx context.Context, page int) tmdb.PagedResult
	switch media {
	case MediaMovies:
		switch feed {
		case FeedAll:
			list = func(ctx context.Context, page int) tmdb.PagedResult {
				return s.source.DiscoverMovies(ctx, genreID, page)
			}
		case FeedPopular:
			list = s.source.PopularMovies
		case FeedTopRated:
			list = s.source.TopRatedMovies
		case FeedUpcoming:
			list = s.source.UpcomingMovies
		}
	case MediaTV:
		switch feed {
		case FeedAll:
			list = func(ctx context.Context, page int) tmdb.PagedResult {
				return s.source.DiscoverTV(ctx, genreID, page)
			}
		case FeedPopular:
			list = s.source.PopularTV
		case FeedTopRated:
			list = s.source.TopRatedTV
		}
	}
	if list == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownFeed, media, feed)
	}

	return func(ctx context.Context, page int) (Page[models.CatalogItem], error) {
		result := list(ctx, page)
		if result.Err != nil {
			return Page[models.CatalogItem]{}, errors.New(result.Err.Message)
		}
		return Page[models.CatalogItem]{
			PageNumber: result.PageNumber,
			TotalPages: result.TotalPages,
			Total:      result.Total,
			Items:      result.Data,
		}, nil
	}, nil
}
