package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/reelbase/backend/internal/catalog"
	"github.com/reelbase/backend/internal/identity"
	"github.com/reelbase/backend/internal/logging"
	"github.com/reelbase/backend/internal/tmdb"
)

// ContentHandler serves the catalog endpoints: genre lists, paged feeds, and
// show details.
type ContentHandler struct {
	Feeds   FeedProvider
	Genres  GenreProvider
	Details ShowDetailProvider
}

type feedResponse struct {
	Items        any `json:"data"`
	PagesFetched int `json:"pagesFetched"`
	TotalPages   int `json:"totalPages"`
}

// HandleGenres serves GET /api/v1/genres?media=movies|tv.
func (h ContentHandler) HandleGenres(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	var result tmdb.GenreResult
	switch media := r.URL.Query().Get("media"); media {
	case catalog.MediaMovies, "":
		result = h.Genres.MovieGenres(ctx)
	case catalog.MediaTV:
		result = h.Genres.TVGenres(ctx)
	default:
		respondError(ctx, w, http.StatusBadRequest, identity.CodeInternal, "unknown media kind "+media)
		return
	}

	if result.Err != nil {
		respondError(ctx, w, http.StatusBadGateway, identity.CodeInternal, result.Err.Message)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"genres": result.Genres})
}

// HandleFeed serves GET /api/v1/{media}/feed. Without trigger parameters it
// returns the accumulated items, fetching page one on first sight. With
// visible= it applies the grid near-end trigger; with slide= and count= it
// applies the slider trigger.
func (h ContentHandler) HandleFeed(media string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		ctx := r.Context()
		userID := UserIDFromContext(ctx)
		query := r.URL.Query()

		feed := query.Get("feed")
		if feed == "" {
			feed = catalog.FeedAll
		}

		genreID := 0
		if raw := query.Get("genre"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				respondError(ctx, w, http.StatusBadRequest, identity.CodeInternal, "genre must be a number")
				return
			}
			genreID = parsed
		}

		view, err := h.advance(ctx, userID, media, feed, genreID, query)
		if err != nil {
			h.respondFeedError(w, r, err)
			return
		}

		respondJSON(ctx, w, http.StatusOK, feedResponse{
			Items:        view.Items,
			PagesFetched: view.PagesFetched,
			TotalPages:   view.TotalPages,
		})
	}
}

func (h ContentHandler) advance(ctx context.Context, userID, media, feed string, genreID int, query url.Values) (catalog.FeedView, error) {
	if raw := query.Get("visible"); raw != "" {
		visible, err := strconv.Atoi(raw)
		if err != nil {
			return catalog.FeedView{}, errBadTrigger
		}
		return h.Feeds.AdvanceGrid(ctx, userID, media, feed, genreID, visible)
	}

	if raw := query.Get("slide"); raw != "" {
		index, err := strconv.Atoi(raw)
		if err != nil {
			return catalog.FeedView{}, errBadTrigger
		}
		count := 0
		if rawCount := query.Get("count"); rawCount != "" {
			count, err = strconv.Atoi(rawCount)
			if err != nil {
				return catalog.FeedView{}, errBadTrigger
			}
		}
		return h.Feeds.AdvanceSlider(ctx, userID, media, feed, genreID, index, count)
	}

	return h.Feeds.Load(ctx, userID, media, feed, genreID)
}

var errBadTrigger = errors.New("trigger parameters must be numbers")

func (h ContentHandler) respondFeedError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	switch {
	case errors.Is(err, errBadTrigger),
		errors.Is(err, catalog.ErrUnknownFeed),
		errors.Is(err, catalog.ErrGenreNotSupported):
		respondError(ctx, w, http.StatusBadRequest, identity.CodeInternal, err.Error())
	default:
		logging.FromContext(ctx).Error("catalog feed fetch failed", "path", r.URL.Path, "error", err)
		respondError(ctx, w, http.StatusBadGateway, identity.CodeInternal, err.Error())
	}
}

// HandleTVDetail serves GET /api/v1/tv/{id}.
func (h ContentHandler) HandleTVDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	raw := strings.TrimPrefix(r.URL.Path, "/api/v1/tv/")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		respondError(ctx, w, http.StatusBadRequest, identity.CodeInternal, "show id must be a positive number")
		return
	}

	result := h.Details.TVShowDetails(ctx, id)
	if result.Err != nil {
		respondError(ctx, w, http.StatusBadGateway, identity.CodeInternal, result.Err.Message)
		return
	}

	respondJSON(ctx, w, http.StatusOK, result.Data)
}
