package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/reelbase/backend/internal/config"
	"github.com/reelbase/backend/internal/models"
)

// Catalog paths on the upstream metadata API.
const (
	movieGenresPath   = "/genre/movie/list"
	tvGenresPath      = "/genre/tv/list"
	discoverMoviePath = "/discover/movie"
	discoverTVPath    = "/discover/tv"
	popularMoviePath  = "/movie/popular"
	topRatedMoviePath = "/movie/top_rated"
	upcomingMoviePath = "/movie/upcoming"
	popularTVPath     = "/tv/popular"
	topRatedTVPath    = "/tv/top_rated"
	showDetailPath    = "/tv"

	detailAppendParam = "aggregate_credits,videos,content_ratings,images"
)

// Client issues bearer-authenticated requests against the catalog API and
// maps the wire schema to internal entities.
type Client struct {
	baseURL        string
	imageBaseURL   string
	apiKey         string
	youtubeBaseURL string
	vimeoBaseURL   string
	httpClient     *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient constructs a catalog client from configuration.
func NewClient(cfg config.CatalogConfig, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("catalog base URL is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("catalog API key is required")
	}

	c := &Client{
		baseURL:        strings.TrimSuffix(cfg.BaseURL, "/"),
		imageBaseURL:   strings.TrimSuffix(cfg.ImageBaseURL, "/"),
		apiKey:         cfg.APIKey,
		youtubeBaseURL: strings.TrimSuffix(cfg.YouTubeBaseURL, "/"),
		vimeoBaseURL:   strings.TrimSuffix(cfg.VimeoBaseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// DiscoverMovies lists movies by descending popularity, optionally filtered
// to a single genre. genreID zero means no filter.
func (c *Client) DiscoverMovies(ctx context.Context, genreID, page int) PagedResult {
	return c.list(ctx, discoverMoviePath, discoverParams(genreID, page), entryTitle)
}

// DiscoverTV lists TV shows by descending popularity, optionally filtered to
// a single genre.
func (c *Client) DiscoverTV(ctx context.Context, genreID, page int) PagedResult {
	return c.list(ctx, discoverTVPath, discoverParams(genreID, page), entryName)
}

// PopularMovies lists the popular movie chart.
func (c *Client) PopularMovies(ctx context.Context, page int) PagedResult {
	return c.list(ctx, popularMoviePath, pageParams(page), entryTitle)
}

// TopRatedMovies lists the top-rated movie chart.
func (c *Client) TopRatedMovies(ctx context.Context, page int) PagedResult {
	return c.list(ctx, topRatedMoviePath, pageParams(page), entryTitle)
}

// UpcomingMovies lists upcoming theatrical releases.
func (c *Client) UpcomingMovies(ctx context.Context, page int) PagedResult {
	return c.list(ctx, upcomingMoviePath, pageParams(page), entryTitle)
}

// PopularTV lists the popular TV chart.
func (c *Client) PopularTV(ctx context.Context, page int) PagedResult {
	return c.list(ctx, popularTVPath, pageParams(page), entryName)
}

// TopRatedTV lists the top-rated TV chart.
func (c *Client) TopRatedTV(ctx context.Context, page int) PagedResult {
	return c.list(ctx, topRatedTVPath, pageParams(page), entryName)
}

// MovieGenres fetches the movie genre taxonomy.
func (c *Client) MovieGenres(ctx context.Context) GenreResult {
	return c.genres(ctx, movieGenresPath)
}

// TVGenres fetches the TV genre taxonomy.
func (c *Client) TVGenres(ctx context.Context) GenreResult {
	return c.genres(ctx, tvGenresPath)
}

type entryKind int

const (
	entryTitle entryKind = iota
	entryName
)

func discoverParams(genreID, page int) url.Values {
	params := url.Values{}
	params.Set("sort_by", "popularity.desc")
	if genreID > 0 {
		params.Set("with_genres", strconv.Itoa(genreID))
	}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	return params
}

func pageParams(page int) url.Values {
	params := url.Values{}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	return params
}

func (c *Client) list(ctx context.Context, path string, params url.Values, kind entryKind) PagedResult {
	body, apiErr := c.get(ctx, path, params)
	if apiErr != nil {
		return PagedResult{Err: apiErr}
	}

	var envelope wireEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return PagedResult{Err: &ErrorInfo{Message: fmt.Sprintf("parse catalog response: %v", err)}}
	}

	items := make([]models.CatalogItem, 0, len(envelope.Results))
	for _, entry := range envelope.Results {
		title := entry.Title
		if kind == entryName {
			title = entry.Name
		}
		items = append(items, models.CatalogItem{
			ID:               entry.ID,
			ImageURL:         c.imageURL(entry.PosterPath, entry.BackdropPath),
			BackdropImageURL: c.backdropImageURL(entry.PosterPath, entry.BackdropPath),
			Genres:           entry.GenreIDs,
			Title:            title,
			Description:      entry.Overview,
			Rating:           entry.VoteAverage,
		})
	}

	return PagedResult{
		PageNumber: envelope.Page,
		TotalPages: envelope.TotalPages,
		Total:      envelope.TotalResults,
		Data:       items,
	}
}

func (c *Client) genres(ctx context.Context, path string) GenreResult {
	body, apiErr := c.get(ctx, path, nil)
	if apiErr != nil {
		return GenreResult{Err: apiErr}
	}

	var list wireGenreList
	if err := json.Unmarshal(body, &list); err != nil {
		return GenreResult{Err: &ErrorInfo{Message: fmt.Sprintf("parse genre response: %v", err)}}
	}

	genres := make([]models.Genre, 0, len(list.Genres))
	for _, genre := range list.Genres {
		genres = append(genres, models.Genre{ID: genre.ID, Title: genre.Name})
	}

	return GenreResult{Genres: genres}
}

// get performs the request and classifies failures into a displayable
// ErrorInfo. Non-200 responses prefer the upstream status_message.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, *ErrorInfo) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &ErrorInfo{Message: fmt.Sprintf("create request: %v", err)}
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ErrorInfo{Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ErrorInfo{Message: fmt.Sprintf("read response body: %v", err)}
	}

	if resp.StatusCode != http.StatusOK {
		var status wireStatus
		if err := json.Unmarshal(body, &status); err == nil && status.StatusMessage != "" {
			return nil, &ErrorInfo{Message: status.StatusMessage}
		}
		return nil, &ErrorInfo{Message: fmt.Sprintf("catalog request failed with status %d", resp.StatusCode)}
	}

	return body, nil
}

// imageURL resolves the thumbnail image, preferring the poster path and
// falling back to the backdrop.
func (c *Client) imageURL(posterPath, backdropPath *string) string {
	if posterPath != nil && *posterPath != "" {
		return c.imageBaseURL + *posterPath
	}
	if backdropPath != nil && *backdropPath != "" {
		return c.imageBaseURL + *backdropPath
	}
	return ""
}

// backdropImageURL resolves the detail image with the inverse preference.
func (c *Client) backdropImageURL(posterPath, backdropPath *string) string {
	if backdropPath != nil && *backdropPath != "" {
		return c.imageBaseURL + *backdropPath
	}
	if posterPath != nil && *posterPath != "" {
		return c.imageBaseURL + *posterPath
	}
	return ""
}

func (c *Client) videoURL(site, key string) string {
	switch site {
	case videoSiteYouTube:
		return c.youtubeBaseURL + "/watch?v=" + key
	case videoSiteVimeo:
		return c.vimeoBaseURL + "/" + key
	default:
		return ""
	}
}
