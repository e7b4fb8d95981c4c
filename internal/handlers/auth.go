package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/reelbase/backend/internal/gate"
	"github.com/reelbase/backend/internal/identity"
	"github.com/reelbase/backend/internal/logging"
	"github.com/reelbase/backend/internal/models"
)

// Rate-limit scopes for the credential endpoints.
const (
	scopeSignIn        = "signin"
	scopeSignUp        = "signup"
	scopePasswordReset = "reset"
)

// AuthHandler implements the identity endpoints.
type AuthHandler struct {
	Identity IdentityService
	Feeds    FeedProvider
	Limiter  RateLimiter
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type federatedRequest struct {
	IDToken string `json:"idToken"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

// sessionResponse is the success body for every session-producing endpoint.
// The gate block tells the client where to navigate next.
type sessionResponse struct {
	Session identity.Session `json:"session"`
	Gate    gate.Decision    `json:"gate"`
}

// SignIn handles POST /api/v1/auth/signin requests.
func (h AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	if !allowRequest(h.Limiter, r, scopeSignIn) {
		respondError(ctx, w, http.StatusTooManyRequests, identity.CodeInternal, "too many sign-in attempts, try again later")
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, identity.CodeInvalidCredential, "invalid request body")
		return
	}

	session := h.Identity.SignInWithPassword(ctx, req.Email, req.Password)
	h.respondSession(w, r, session)
}

// SignUp handles POST /api/v1/auth/signup requests.
func (h AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	if !allowRequest(h.Limiter, r, scopeSignUp) {
		respondError(ctx, w, http.StatusTooManyRequests, identity.CodeInternal, "too many sign-up attempts, try again later")
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, identity.CodeInvalidCredential, "invalid request body")
		return
	}

	session := h.Identity.SignUpWithPassword(ctx, req.Email, req.Password)
	h.respondSession(w, r, session)
}

// Federated handles POST /api/v1/auth/federated/{provider} requests carrying
// a provider-issued ID token.
func (h AuthHandler) Federated(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	provider := strings.TrimPrefix(r.URL.Path, "/api/v1/auth/federated/")
	if provider == "" || strings.Contains(provider, "/") {
		respondError(ctx, w, http.StatusBadRequest, identity.CodeInvalidCredential, "unknown federated provider")
		return
	}

	var req federatedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.IDToken) == "" {
		respondError(ctx, w, http.StatusBadRequest, identity.CodeInvalidCredential, "an identity token is required")
		return
	}

	session := h.Identity.SignInWithFederated(ctx, provider, req.IDToken)
	h.respondSession(w, r, session)
}

// Refresh exchanges a refresh token for a new session.
func (h AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		respondError(ctx, w, http.StatusBadRequest, identity.CodeInvalidCredential, "refresh token is required")
		return
	}

	session := h.Identity.Refresh(ctx, strings.TrimSpace(req.RefreshToken))
	h.respondSession(w, r, session)
}

// SignOut handles POST /api/v1/auth/signout. Signing out an already
// signed-out session succeeds.
func (h AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	var req refreshRequest
	// A missing body still signs out; there is just nothing to revoke.
	_ = json.NewDecoder(r.Body).Decode(&req)

	if userID := UserIDFromContext(ctx); userID != "" && h.Feeds != nil {
		h.Feeds.Drop(userID)
	}

	if errInfo := h.Identity.SignOut(ctx, strings.TrimSpace(req.RefreshToken)); errInfo != nil {
		respondIdentityError(ctx, w, errInfo)
		return
	}

	respondJSON(ctx, w, http.StatusOK, sessionResponse{
		Session: identity.Session{State: identity.SignedOut},
		Gate:    gate.ForContent(gate.SignedOut),
	})
}

// PasswordReset handles POST /api/v1/auth/password-reset requests. The
// response does not reveal whether the email has an account.
func (h AuthHandler) PasswordReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	if !allowRequest(h.Limiter, r, scopePasswordReset) {
		respondError(ctx, w, http.StatusTooManyRequests, identity.CodeInternal, "too many reset attempts, try again later")
		return
	}

	var req passwordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, identity.CodeInvalidEmail, "invalid request body")
		return
	}

	if errInfo := h.Identity.SendPasswordReset(ctx, req.Email); errInfo != nil {
		respondIdentityError(ctx, w, errInfo)
		return
	}

	respondJSON(ctx, w, http.StatusAccepted, map[string]any{
		"notice": models.Notice{
			Severity: models.SeveritySuccess,
			Text:     "If an account exists for that email, password reset instructions have been sent.",
		},
	})
}

func (h AuthHandler) respondSession(w http.ResponseWriter, r *http.Request, session identity.Session) {
	ctx := r.Context()

	if session.Err != nil {
		logging.FromContext(ctx).Warn("identity operation failed",
			"code", session.Err.Code, "message", session.Err.Message)
		respondIdentityError(ctx, w, session.Err)
		return
	}

	state := gate.Classify(session, true)
	respondJSON(ctx, w, http.StatusOK, sessionResponse{
		Session: session,
		Gate:    gate.ForAuthScreen(state),
	})
}
