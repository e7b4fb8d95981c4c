package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/reelbase/backend/internal/models"
)

// TVShowDetails fetches the full detail payload for one show, resolving the
// preferred trailer, content rating, and logo.
func (c *Client) TVShowDetails(ctx context.Context, id int) DetailsResult {
	params := url.Values{}
	params.Set("append_to_response", detailAppendParam)

	body, apiErr := c.get(ctx, showDetailPath+"/"+strconv.Itoa(id), params)
	if apiErr != nil {
		return DetailsResult{Err: apiErr}
	}

	var details wireShowDetails
	if err := json.Unmarshal(body, &details); err != nil {
		return DetailsResult{Err: &ErrorInfo{Message: fmt.Sprintf("parse detail response: %v", err)}}
	}

	return DetailsResult{Data: c.mapShowDetails(details)}
}

func (c *Client) mapShowDetails(details wireShowDetails) *ShowDetails {
	genres := make([]models.Genre, 0, len(details.Genres))
	for _, genre := range details.Genres {
		genres = append(genres, models.Genre{ID: genre.ID, Title: genre.Name})
	}

	creators := make([]PersonDetail, 0, len(details.CreatedBy))
	for _, person := range details.CreatedBy {
		creators = append(creators, PersonDetail{
			ID:       person.ID,
			Name:     person.Name,
			ImageURL: c.imageURL(person.ProfilePath, nil),
		})
	}

	return &ShowDetails{
		ID:               details.ID,
		Title:            details.Name,
		Description:      details.Overview,
		ImageURL:         c.imageURL(details.PosterPath, details.BackdropPath),
		BackdropImageURL: c.backdropImageURL(details.PosterPath, details.BackdropPath),
		ReleaseDate:      details.FirstAirDate,
		Creators:         creators,
		Genres:           genres,
		Videos:           c.videoDetails(details.Videos.Results),
		Rating:           details.VoteAverage,
		Seasons:          c.seasonDetails(details.Seasons),
		Cast:             c.castDetails(details.AggregateCredits.Cast),
		ContentRating:    contentRating(details.ContentRatings.Results),
		Logo:             c.logo(details.Images.Logos),
	}
}

func (c *Client) castDetails(cast []wireCast) []CastDetail {
	out := make([]CastDetail, 0, len(cast))
	for _, member := range cast {
		character := ""
		if len(member.Roles) > 0 {
			character = member.Roles[0].Character
		}
		out = append(out, CastDetail{
			ID:        member.ID,
			Name:      member.Name,
			Character: character,
			ImageURL:  c.imageURL(member.ProfilePath, nil),
			KnownFor:  member.KnownForDepartment,
		})
	}
	return out
}

func (c *Client) seasonDetails(seasons []wireSeason) []SeasonDetail {
	out := make([]SeasonDetail, 0, len(seasons))
	for _, season := range seasons {
		out = append(out, SeasonDetail{
			ID:           season.ID,
			SeasonNumber: season.SeasonNumber,
			Name:         season.Name,
			Description:  season.Overview,
			EpisodeCount: season.EpisodeCount,
			ImageURL:     c.imageURL(season.PosterPath, nil),
		})
	}
	return out
}

// videoDetails maps clips to playable URLs and moves the first clip of type
// "Trailer" to the front so the detail page autoplays it.
func (c *Client) videoDetails(videos []wireVideo) []VideoDetail {
	out := make([]VideoDetail, 0, len(videos))
	for _, video := range videos {
		out = append(out, VideoDetail{
			ID:   video.ID,
			Name: video.Name,
			Type: video.Type,
			URL:  c.videoURL(video.Site, video.Key),
		})
	}

	for i, video := range out {
		if video.Type == videoTypeTrailer {
			if i > 0 {
				reordered := make([]VideoDetail, 0, len(out))
				reordered = append(reordered, video)
				reordered = append(reordered, out[:i]...)
				reordered = append(reordered, out[i+1:]...)
				return reordered
			}
			break
		}
	}
	return out
}

// contentRating prefers the GB or IN certification, then the first
// numeric-looking rating, then the first available. Numeric ratings are
// rendered as an age cutoff ("16+").
func contentRating(ratings []wireContentRating) string {
	for _, rating := range ratings {
		if rating.ISO3166 == regionGB || rating.ISO3166 == regionIN {
			return rating.Rating + "+"
		}
	}
	for _, rating := range ratings {
		if _, err := strconv.Atoi(rating.Rating); err == nil {
			return rating.Rating + "+"
		}
	}
	if len(ratings) > 0 {
		return ratings[0].Rating
	}
	return ""
}

// logo prefers the English-language logo and falls back to the first one.
func (c *Client) logo(logos []wireLogo) string {
	for _, logo := range logos {
		if logo.ISO639 == languageEN {
			return c.imageURL(logo.FilePath, nil)
		}
	}
	if len(logos) > 0 {
		return c.imageURL(logos[0].FilePath, nil)
	}
	return ""
}
