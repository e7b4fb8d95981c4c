package handlers

import (
	"net/http"

	"github.com/reelbase/backend/internal/catalog"
)

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	auth := AuthHandler{Identity: deps.Identity, Feeds: deps.Feeds, Limiter: deps.Limiter}
	profile := ProfileHandler{Identity: deps.Identity}
	content := ContentHandler{Feeds: deps.Feeds, Genres: deps.Genres, Details: deps.Details}
	guard := SessionGate{Identity: deps.Identity}

	mux.HandleFunc("/healthz", health.Handle)

	mux.HandleFunc("/api/v1/auth/signin", auth.SignIn)
	mux.HandleFunc("/api/v1/auth/signup", auth.SignUp)
	mux.HandleFunc("/api/v1/auth/federated/", auth.Federated)
	mux.HandleFunc("/api/v1/auth/refresh", auth.Refresh)
	mux.HandleFunc("/api/v1/auth/signout", guard.RequireUser(auth.SignOut))
	mux.HandleFunc("/api/v1/auth/password-reset", auth.PasswordReset)

	mux.HandleFunc("/api/v1/profile", guard.RequireUser(profile.Handle))
	mux.HandleFunc("/api/v1/profile/photo", guard.RequireUser(profile.UploadPhoto))

	mux.HandleFunc("/api/v1/genres", guard.RequireComplete(content.HandleGenres))
	mux.HandleFunc("/api/v1/movies/feed", guard.RequireComplete(content.HandleFeed(catalog.MediaMovies)))
	mux.HandleFunc("/api/v1/tv/feed", guard.RequireComplete(content.HandleFeed(catalog.MediaTV)))
	mux.HandleFunc("/api/v1/tv/", guard.RequireComplete(content.HandleTVDetail))
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Identity IdentityService
	Feeds    FeedProvider
	Genres   GenreProvider
	Details  ShowDetailProvider
	Limiter  RateLimiter
}
