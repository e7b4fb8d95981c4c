package app

import (
	"context"

	"github.com/reelbase/backend/internal/auth"
	"github.com/reelbase/backend/internal/catalog"
	"github.com/reelbase/backend/internal/config"
	"github.com/reelbase/backend/internal/db"
	"github.com/reelbase/backend/internal/handlers"
	"github.com/reelbase/backend/internal/identity"
	"github.com/reelbase/backend/internal/middleware"
	"github.com/reelbase/backend/internal/repositories"
	"github.com/reelbase/backend/internal/storage"
	"github.com/reelbase/backend/internal/tmdb"
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, error) {
	catalogClient, err := tmdb.NewClient(cfg.Catalog)
	if err != nil {
		return handlers.Dependencies{}, err
	}

	verifier, err := auth.NewOIDCVerifier(ctx, cfg.Federated)
	if err != nil {
		return handlers.Dependencies{}, err
	}

	var photos identity.PhotoStorage
	if cfg.ObjectStore.Bucket != "" {
		s3Store, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
		if err != nil {
			return handlers.Dependencies{}, err
		}
		photos = s3Store
	}

	sessionStore := repositories.NewPostgresSessionStore(pool)
	sessions := auth.NewManager(cfg.Session.AccessTTL, cfg.Session.RefreshTTL, sessionStore)

	identityClient := identity.NewClient(
		repositories.NewPostgresUserRepository(pool),
		repositories.NewPostgresProfileRepository(pool),
		sessions,
		verifier,
		photos,
		identity.NewStateStore(),
	)

	return handlers.Dependencies{
		Identity: identityClient,
		Feeds:    catalog.NewFeedService(catalogClient),
		Genres:   tmdb.NewCachingGenreProvider(catalogClient, cfg.Catalog.GenreCacheTTL),
		Details:  catalogClient,
		Limiter: middleware.NewIPRateLimiter(
			cfg.RateLimit.Requests,
			cfg.RateLimit.Window,
			cfg.RateLimit.Burst,
			cfg.RateLimit.TTL,
		),
	}, nil
}
