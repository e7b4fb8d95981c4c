package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/reelbase/backend/internal/catalog"
	"github.com/reelbase/backend/internal/identity"
	"github.com/reelbase/backend/internal/models"
	"github.com/reelbase/backend/internal/tmdb"
)

var errUpstream = errors.New("upstream request failed")

func withUserID(r *http.Request, userID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
}

func testProfile(complete bool) models.Profile {
	profile := models.Profile{
		UserID:    "user-1",
		Email:     "viewer@example.com",
		FirstName: "Vera",
		LastName:  "Singh",
	}
	if complete {
		dob := time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC)
		profile.Country = &models.Country{Code: "IN", Label: "India", Phone: "+91"}
		profile.PhoneNumber = "+919876543210"
		profile.DOB = &dob
	}
	return profile
}

func signedInSession(profile models.Profile) identity.Session {
	return identity.Session{
		State:   identity.SignedIn,
		Details: &profile,
		Tokens: &models.SessionTokens{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
		},
	}
}

type fakeIdentityService struct {
	signInResult    identity.Session
	signUpResult    identity.Session
	federatedResult identity.Session
	refreshResult   identity.Session
	resetErr        *identity.ErrorInfo
	signOutErr      *identity.ErrorInfo

	tokens   map[string]string
	profiles map[string]models.Profile
	saveErr  *identity.ErrorInfo
	saved    map[string]models.Profile
	photoURL string
	photoErr *identity.ErrorInfo

	signedOutTokens []string
	lastProvider    string
}

func newFakeIdentityService() *fakeIdentityService {
	return &fakeIdentityService{
		tokens:   make(map[string]string),
		profiles: make(map[string]models.Profile),
		saved:    make(map[string]models.Profile),
	}
}

func (s *fakeIdentityService) SignInWithPassword(context.Context, string, string) identity.Session {
	return s.signInResult
}

func (s *fakeIdentityService) SignUpWithPassword(context.Context, string, string) identity.Session {
	return s.signUpResult
}

func (s *fakeIdentityService) SignInWithFederated(_ context.Context, provider, _ string) identity.Session {
	s.lastProvider = provider
	return s.federatedResult
}

func (s *fakeIdentityService) SendPasswordReset(context.Context, string) *identity.ErrorInfo {
	return s.resetErr
}

func (s *fakeIdentityService) SignOut(_ context.Context, refreshToken string) *identity.ErrorInfo {
	s.signedOutTokens = append(s.signedOutTokens, refreshToken)
	return s.signOutErr
}

func (s *fakeIdentityService) Refresh(context.Context, string) identity.Session {
	return s.refreshResult
}

func (s *fakeIdentityService) Authenticate(_ context.Context, accessToken string) (string, error) {
	userID, ok := s.tokens[accessToken]
	if !ok {
		return "", errors.New("session not found")
	}
	return userID, nil
}

func (s *fakeIdentityService) LoadProfile(_ context.Context, userID string) models.Profile {
	profile, ok := s.profiles[userID]
	if !ok {
		return models.Profile{UserID: userID}
	}
	return profile
}

func (s *fakeIdentityService) SaveProfile(_ context.Context, userID string, profile models.Profile) *identity.ErrorInfo {
	if s.saveErr != nil {
		return s.saveErr
	}
	profile.UserID = userID
	s.saved[userID] = profile
	s.profiles[userID] = profile
	return nil
}

func (s *fakeIdentityService) UploadProfilePhoto(_ context.Context, _ string, r io.Reader) (string, *identity.ErrorInfo) {
	if s.photoErr != nil {
		return "", s.photoErr
	}
	_, _ = io.Copy(io.Discard, r)
	return s.photoURL, nil
}

type feedCall struct {
	ownerID string
	media   string
	feed    string
	genreID int
	visible int
	slide   int
	count   int
}

type fakeFeedProvider struct {
	view     catalog.FeedView
	err      error
	loads    []feedCall
	grids    []feedCall
	sliders  []feedCall
	dropped  []string
}

func (f *fakeFeedProvider) Load(_ context.Context, ownerID, media, feed string, genreID int) (catalog.FeedView, error) {
	f.loads = append(f.loads, feedCall{ownerID: ownerID, media: media, feed: feed, genreID: genreID})
	return f.view, f.err
}

func (f *fakeFeedProvider) AdvanceGrid(_ context.Context, ownerID, media, feed string, genreID, visibleIndex int) (catalog.FeedView, error) {
	f.grids = append(f.grids, feedCall{ownerID: ownerID, media: media, feed: feed, genreID: genreID, visible: visibleIndex})
	return f.view, f.err
}

func (f *fakeFeedProvider) AdvanceSlider(_ context.Context, ownerID, media, feed string, genreID, index, visibleCount int) (catalog.FeedView, error) {
	f.sliders = append(f.sliders, feedCall{ownerID: ownerID, media: media, feed: feed, genreID: genreID, slide: index, count: visibleCount})
	return f.view, f.err
}

func (f *fakeFeedProvider) Drop(ownerID string) {
	f.dropped = append(f.dropped, ownerID)
}

type fakeGenreProvider struct {
	movies tmdb.GenreResult
	tv     tmdb.GenreResult
}

func (p fakeGenreProvider) MovieGenres(context.Context) tmdb.GenreResult { return p.movies }
func (p fakeGenreProvider) TVGenres(context.Context) tmdb.GenreResult   { return p.tv }

type fakeDetailProvider struct {
	result tmdb.DetailsResult
	lastID int
}

func (p *fakeDetailProvider) TVShowDetails(_ context.Context, id int) tmdb.DetailsResult {
	p.lastID = id
	return p.result
}

type denyLimiter struct{}

func (denyLimiter) Allow(string) bool { return false }
