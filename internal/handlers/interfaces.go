package handlers

import (
	"context"
	"io"

	"github.com/reelbase/backend/internal/catalog"
	"github.com/reelbase/backend/internal/identity"
	"github.com/reelbase/backend/internal/models"
	"github.com/reelbase/backend/internal/tmdb"
)

// IdentityService captures the identity operations required by the auth and
// profile handlers.
type IdentityService interface {
	SignInWithPassword(ctx context.Context, email, password string) identity.Session
	SignUpWithPassword(ctx context.Context, email, password string) identity.Session
	SignInWithFederated(ctx context.Context, provider, rawIDToken string) identity.Session
	SendPasswordReset(ctx context.Context, email string) *identity.ErrorInfo
	SignOut(ctx context.Context, refreshToken string) *identity.ErrorInfo
	Refresh(ctx context.Context, refreshToken string) identity.Session
	Authenticate(ctx context.Context, accessToken string) (string, error)
	LoadProfile(ctx context.Context, userID string) models.Profile
	SaveProfile(ctx context.Context, userID string, profile models.Profile) *identity.ErrorInfo
	UploadProfilePhoto(ctx context.Context, userID string, r io.Reader) (string, *identity.ErrorInfo)
}

// FeedProvider accumulates catalog pages per owner, feed, and filter.
type FeedProvider interface {
	Load(ctx context.Context, ownerID, media, feed string, genreID int) (catalog.FeedView, error)
	AdvanceGrid(ctx context.Context, ownerID, media, feed string, genreID, visibleIndex int) (catalog.FeedView, error)
	AdvanceSlider(ctx context.Context, ownerID, media, feed string, genreID, index, visibleCount int) (catalog.FeedView, error)
	Drop(ownerID string)
}

// GenreProvider fetches genre taxonomies.
type GenreProvider interface {
	MovieGenres(ctx context.Context) tmdb.GenreResult
	TVGenres(ctx context.Context) tmdb.GenreResult
}

// ShowDetailProvider fetches the detail payload for one show.
type ShowDetailProvider interface {
	TVShowDetails(ctx context.Context, id int) tmdb.DetailsResult
}
