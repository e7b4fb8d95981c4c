package identity

import (
	"context"
	"errors"
	"io"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/reelbase/backend/internal/auth"
	"github.com/reelbase/backend/internal/logging"
	"github.com/reelbase/backend/internal/models"
	"github.com/reelbase/backend/internal/repositories"
)

// SessionManager issues, refreshes, and revokes session tokens.
type SessionManager interface {
	Issue(ctx context.Context, userID string) (models.SessionTokens, error)
	Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error)
	Revoke(ctx context.Context, refreshToken string)
	Authenticate(ctx context.Context, accessToken string) (string, error)
}

// PhotoStorage uploads a profile photo and returns its public URL.
type PhotoStorage interface {
	UploadProfilePhoto(ctx context.Context, userID string, r io.Reader) (string, error)
}

// Client wraps the identity provider surface the screens call: password and
// federated sign-in, password reset, sign-out, and the merged profile
// document. No operation lets an error escape as a Go error; failures are
// tagged into the returned value so the UI can toast them.
type Client struct {
	users    repositories.UserRepository
	profiles repositories.ProfileRepository
	sessions SessionManager
	verifier auth.FederatedVerifier
	photos   PhotoStorage
	state    *StateStore
	nowFunc  func() time.Time
}

// NewClient wires the identity client. verifier and photos may be nil when
// federated sign-in or photo upload are not configured.
func NewClient(
	users repositories.UserRepository,
	profiles repositories.ProfileRepository,
	sessions SessionManager,
	verifier auth.FederatedVerifier,
	photos PhotoStorage,
	state *StateStore,
) *Client {
	if state == nil {
		state = NewStateStore()
	}
	return &Client{
		users:    users,
		profiles: profiles,
		sessions: sessions,
		verifier: verifier,
		photos:   photos,
		state:    state,
	}
}

// State exposes the shared session cell for subscribers.
func (c *Client) State() *StateStore {
	return c.state
}

// SignInWithPassword authenticates the email/password pair. Invalid
// credentials and infrastructure failures land in the session's error field.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) Session {
	logger := logging.FromContext(ctx)

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return errorSession(CodeInvalidCredential, "email and password are required")
	}

	user, err := c.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errorSession(CodeUserNotFound, "no account exists for that email")
		}
		logger.Error("sign-in user lookup failed", "error", err)
		return errorSession(CodeInternal, "unable to sign in right now")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return errorSession(CodeWrongPassword, "the password is invalid")
	}

	return c.establish(ctx, user)
}

// SignUpWithPassword creates a new identity record for an unused email and
// signs it in.
func (c *Client) SignUpWithPassword(ctx context.Context, email, password string) Session {
	logger := logging.FromContext(ctx)

	email = strings.TrimSpace(strings.ToLower(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return errorSession(CodeInvalidEmail, "the email address is badly formatted")
	}
	if len(password) < 8 {
		return errorSession(CodeWeakPassword, "password must be at least 8 characters")
	}

	if _, err := c.users.FindByEmail(ctx, email); err == nil {
		return errorSession(CodeEmailInUse, "an account already exists for that email")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		logger.Error("sign-up user lookup failed", "error", err)
		return errorSession(CodeInternal, "unable to sign up right now")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("sign-up failed to hash password", "error", err)
		return errorSession(CodeInternal, "unable to sign up right now")
	}

	now := c.now()
	user := models.User{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  string(hashed),
		Provider:  models.ProviderPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return errorSession(CodeEmailInUse, "an account already exists for that email")
		}
		logger.Error("sign-up failed to create user", "error", err)
		return errorSession(CodeInternal, "unable to sign up right now")
	}

	return c.establish(ctx, user)
}

// SignInWithFederated verifies a provider-issued ID token and signs in the
// matching user, creating the identity record on first use.
func (c *Client) SignInWithFederated(ctx context.Context, provider, rawIDToken string) Session {
	logger := logging.FromContext(ctx)

	if c.verifier == nil {
		return errorSession(CodeInternal, "federated sign-in is not configured")
	}

	federated, err := c.verifier.Verify(ctx, provider, rawIDToken)
	if err != nil {
		logger.Warn("federated token rejected", "provider", provider, "error", err)
		return errorSession(CodeInvalidCredential, "the identity token could not be verified")
	}

	email := strings.TrimSpace(strings.ToLower(federated.Email))
	if email == "" {
		return errorSession(CodeInvalidCredential, "the identity token carries no email")
	}

	user, err := c.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		now := c.now()
		user = models.User{
			ID:            uuid.NewString(),
			Email:         email,
			EmailVerified: federated.EmailVerified,
			DisplayName:   federated.Name,
			PhotoURL:      federated.Picture,
			Provider:      provider,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := c.users.Create(ctx, user); err != nil && !errors.Is(err, repositories.ErrConflict) {
			logger.Error("federated sign-in failed to create user", "error", err)
			return errorSession(CodeInternal, "unable to sign in right now")
		}
	} else if err != nil {
		logger.Error("federated sign-in lookup failed", "error", err)
		return errorSession(CodeInternal, "unable to sign in right now")
	}

	return c.establish(ctx, user)
}

// SendPasswordReset queues reset instructions for the email. The outcome is
// identical whether or not an account exists, so addresses cannot be
// enumerated.
func (c *Client) SendPasswordReset(ctx context.Context, email string) *ErrorInfo {
	logger := logging.FromContext(ctx)

	email = strings.TrimSpace(strings.ToLower(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return &ErrorInfo{Code: CodeInvalidEmail, Message: "the email address is badly formatted"}
	}

	if _, err := c.users.FindByEmail(ctx, email); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		logger.Error("password reset lookup failed", "error", err)
		return &ErrorInfo{Code: CodeInternal, Message: "unable to process the password reset"}
	}

	return nil
}

// SignOut revokes the refresh token and publishes the signed-out session.
// Signing out while already signed out succeeds with no error.
func (c *Client) SignOut(ctx context.Context, refreshToken string) *ErrorInfo {
	c.sessions.Revoke(ctx, refreshToken)
	c.state.set(Session{State: SignedOut})
	return nil
}

// Refresh exchanges a refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) Session {
	tokens, err := c.sessions.Refresh(ctx, refreshToken)
	if err != nil {
		return errorSession(CodeInvalidCredential, "unable to refresh the session")
	}

	userID, err := c.sessions.Authenticate(ctx, tokens.AccessToken)
	if err != nil {
		return errorSession(CodeInternal, "unable to refresh the session")
	}

	profile := c.LoadProfile(ctx, userID)
	session := Session{State: SignedIn, Details: &profile, Tokens: &tokens}
	c.state.set(session)
	return session
}

// Authenticate resolves an access token to a user id for the route gate.
func (c *Client) Authenticate(ctx context.Context, accessToken string) (string, error) {
	return c.sessions.Authenticate(ctx, accessToken)
}

// LoadProfile merges the identity record with the stored profile document;
// the document wins field by field. Missing pieces stay at their zero value,
// the profile never fails to load outright.
func (c *Client) LoadProfile(ctx context.Context, userID string) models.Profile {
	logger := logging.FromContext(ctx)

	profile := models.Profile{UserID: userID}

	user, err := c.users.FindByID(ctx, userID)
	if err == nil {
		first, last := splitDisplayName(user.DisplayName)
		profile.Email = user.Email
		profile.EmailVerified = user.EmailVerified
		profile.FirstName = first
		profile.LastName = last
		profile.PhotoURL = user.PhotoURL
	} else if !errors.Is(err, repositories.ErrNotFound) {
		logger.Warn("profile identity lookup failed", "userId", userID, "error", err)
	}

	doc, err := c.profiles.Find(ctx, userID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			logger.Warn("profile document lookup failed", "userId", userID, "error", err)
		}
		return profile
	}

	if doc.Email != "" {
		profile.Email = doc.Email
		profile.EmailVerified = doc.EmailVerified
	}
	if doc.FirstName != "" {
		profile.FirstName = doc.FirstName
	}
	if doc.LastName != "" {
		profile.LastName = doc.LastName
	}
	if doc.PhotoURL != "" {
		profile.PhotoURL = doc.PhotoURL
	}
	if doc.Country != nil {
		profile.Country = doc.Country
	}
	if doc.PhoneNumber != "" {
		profile.PhoneNumber = doc.PhoneNumber
		profile.PhoneNumberVerified = doc.PhoneNumberVerified
	}
	if doc.DOB != nil {
		profile.DOB = doc.DOB
	}

	return profile
}

// SaveProfile upserts the profile document and pushes a changed email or
// display name back onto the identity record.
func (c *Client) SaveProfile(ctx context.Context, userID string, profile models.Profile) *ErrorInfo {
	logger := logging.FromContext(ctx)

	profile.UserID = userID
	if err := c.profiles.Upsert(ctx, profile); err != nil {
		logger.Error("profile upsert failed", "userId", userID, "error", err)
		return &ErrorInfo{Code: CodeInternal, Message: "unable to save the profile"}
	}

	user, err := c.users.FindByID(ctx, userID)
	if err == nil {
		fullName := profile.FullName()
		changed := false
		if profile.Email != "" && profile.Email != user.Email {
			user.Email = profile.Email
			user.EmailVerified = false
			changed = true
		}
		if fullName != "" && fullName != user.DisplayName {
			user.DisplayName = fullName
			changed = true
		}
		if changed {
			user.UpdatedAt = c.now()
			if err := c.users.Update(ctx, user); err != nil {
				logger.Error("identity record update failed", "userId", userID, "error", err)
				return &ErrorInfo{Code: CodeInternal, Message: "unable to save the profile"}
			}
		}
	} else if !errors.Is(err, repositories.ErrNotFound) {
		logger.Warn("identity record lookup failed", "userId", userID, "error", err)
	}

	c.publishProfile(ctx, userID)
	return nil
}

// UploadProfilePhoto stores the photo and returns its URL; the profile keeps
// its previous photo on failure.
func (c *Client) UploadProfilePhoto(ctx context.Context, userID string, r io.Reader) (string, *ErrorInfo) {
	if c.photos == nil {
		return "", &ErrorInfo{Code: CodeInternal, Message: "photo storage is not configured"}
	}

	url, err := c.photos.UploadProfilePhoto(ctx, userID, r)
	if err != nil {
		logging.FromContext(ctx).Error("profile photo upload failed", "userId", userID, "error", err)
		return "", &ErrorInfo{Code: CodeInternal, Message: "unable to upload the photo"}
	}
	return url, nil
}

func (c *Client) establish(ctx context.Context, user models.User) Session {
	tokens, err := c.sessions.Issue(ctx, user.ID)
	if err != nil {
		logging.FromContext(ctx).Error("failed to issue session", "userId", user.ID, "error", err)
		return errorSession(CodeInternal, "unable to create a session")
	}

	profile := c.LoadProfile(ctx, user.ID)
	session := Session{State: SignedIn, Details: &profile, Tokens: &tokens}
	c.state.set(session)
	return session
}

func (c *Client) publishProfile(ctx context.Context, userID string) {
	current := c.state.Current()
	if current.State != SignedIn || current.Details == nil || current.Details.UserID != userID {
		return
	}
	profile := c.LoadProfile(ctx, userID)
	current.Details = &profile
	c.state.set(current)
}

func (c *Client) now() time.Time {
	if c.nowFunc != nil {
		return c.nowFunc()
	}
	return time.Now().UTC()
}

// splitDisplayName parses first and last name out of a concatenated display
// name; everything after the first space becomes the last name.
func splitDisplayName(displayName string) (string, string) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return "", ""
	}
	parts := strings.SplitN(displayName, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
