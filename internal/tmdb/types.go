package tmdb

import "github.com/reelbase/backend/internal/models"

// ErrorInfo carries a user-displayable failure description. Content fetch
// failures are surfaced as values, never as Go errors, so the UI can keep
// whatever it already rendered.
type ErrorInfo struct {
	Message string `json:"message"`
}

// PagedResult is one page of catalog items. A failed fetch yields the zero
// page with Err populated.
type PagedResult struct {
	PageNumber int                  `json:"pageNumber"`
	TotalPages int                  `json:"totalPages"`
	Total      int                  `json:"total"`
	Data       []models.CatalogItem `json:"data"`
	Err        *ErrorInfo           `json:"error,omitempty"`
}

// GenreResult is the outcome of a genre taxonomy fetch.
type GenreResult struct {
	Genres []models.Genre `json:"genres"`
	Err    *ErrorInfo     `json:"error,omitempty"`
}

// PersonDetail is a creator credit on a show.
type PersonDetail struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// CastDetail is a single aggregate-credits cast entry.
type CastDetail struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character"`
	ImageURL  string `json:"imageUrl"`
	KnownFor  string `json:"knownFor"`
}

// SeasonDetail summarises one season of a show.
type SeasonDetail struct {
	ID           int    `json:"id"`
	SeasonNumber int    `json:"seasonNumber"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	EpisodeCount int    `json:"episodeCount"`
	ImageURL     string `json:"imageUrl"`
}

// VideoDetail is a playable clip with its resolved provider URL.
type VideoDetail struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	URL  string `json:"url"`
}

// ShowDetails is the full detail-page payload for a TV show.
type ShowDetails struct {
	ID               int            `json:"id"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	ImageURL         string         `json:"imageUrl"`
	BackdropImageURL string         `json:"backdropImageUrl"`
	ReleaseDate      string         `json:"releaseDate"`
	Creators         []PersonDetail `json:"creators"`
	Genres           []models.Genre `json:"genres"`
	Videos           []VideoDetail  `json:"videos"`
	Rating           float64        `json:"rating"`
	Seasons          []SeasonDetail `json:"seasons"`
	Cast             []CastDetail   `json:"cast"`
	ContentRating    string         `json:"contentRating"`
	Logo             string         `json:"logo"`
}

// DetailsResult is the outcome of a show detail fetch.
type DetailsResult struct {
	Data *ShowDetails `json:"data,omitempty"`
	Err  *ErrorInfo   `json:"error,omitempty"`
}

// Video sites and types recognised when resolving playable URLs.
const (
	videoSiteYouTube = "YouTube"
	videoSiteVimeo   = "Vimeo"
	videoTypeTrailer = "Trailer"
)

// Region and language preferences used by the content-rating and logo
// selection heuristics.
const (
	regionGB   = "GB"
	regionIN   = "IN"
	languageEN = "en"
)

// Wire schema. The upstream API speaks snake_case with nullable image paths.

type wireGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type wireGenreList struct {
	Genres []wireGenre `json:"genres"`
}

type wireEntry struct {
	ID           int     `json:"id"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
	GenreIDs     []int   `json:"genre_ids"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	VoteAverage  float64 `json:"vote_average"`
	Overview     string  `json:"overview"`
}

type wireEnvelope struct {
	Page         int         `json:"page"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
	Results      []wireEntry `json:"results"`
}

type wirePerson struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	ProfilePath *string `json:"profile_path"`
}

type wireCast struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	ProfilePath        *string `json:"profile_path"`
	KnownForDepartment string  `json:"known_for_department"`
	Roles              []struct {
		Character string `json:"character"`
	} `json:"roles"`
}

type wireSeason struct {
	ID           int     `json:"id"`
	SeasonNumber int     `json:"season_number"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	EpisodeCount int     `json:"episode_count"`
	PosterPath   *string `json:"poster_path"`
}

type wireVideo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Site string `json:"site"`
	Key  string `json:"key"`
}

type wireContentRating struct {
	ISO3166 string `json:"iso_3166_1"`
	Rating  string `json:"rating"`
}

type wireLogo struct {
	ISO639   string  `json:"iso_639_1"`
	FilePath *string `json:"file_path"`
}

type wireShowDetails struct {
	ID               int         `json:"id"`
	Name             string      `json:"name"`
	Overview         string      `json:"overview"`
	PosterPath       *string     `json:"poster_path"`
	BackdropPath     *string     `json:"backdrop_path"`
	FirstAirDate     string      `json:"first_air_date"`
	VoteAverage      float64     `json:"vote_average"`
	CreatedBy        []wirePerson `json:"created_by"`
	Genres           []wireGenre `json:"genres"`
	Seasons          []wireSeason `json:"seasons"`
	AggregateCredits struct {
		Cast []wireCast `json:"cast"`
	} `json:"aggregate_credits"`
	Videos struct {
		Results []wireVideo `json:"results"`
	} `json:"videos"`
	ContentRatings struct {
		Results []wireContentRating `json:"results"`
	} `json:"content_ratings"`
	Images struct {
		Logos []wireLogo `json:"logos"`
	} `json:"images"`
}

type wireStatus struct {
	StatusMessage string `json:"status_message"`
}
