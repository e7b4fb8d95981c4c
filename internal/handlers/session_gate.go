package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/reelbase/backend/internal/gate"
	"github.com/reelbase/backend/internal/identity"
	"github.com/reelbase/backend/internal/logging"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// UserIDFromContext returns the authenticated user id stored by the gate.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// SessionGate authenticates requests and enforces the profile-completeness
// state machine in front of the content endpoints.
type SessionGate struct {
	Identity IdentityService
}

// RequireUser admits any authenticated session and stores the user id on the
// request context.
func (g SessionGate) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := g.authenticate(w, r)
		if !ok {
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	}
}

// RequireComplete admits only sessions whose mandatory profile fields are all
// present; incomplete sessions receive the basic-info redirect decision.
func (g SessionGate) RequireComplete(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, ok := g.authenticate(w, r)
		if !ok {
			return
		}

		profile := g.Identity.LoadProfile(ctx, userID)
		state := gate.Classify(identity.Session{State: identity.SignedIn, Details: &profile}, true)
		decision := gate.ForContent(state)
		if !decision.Allow {
			logging.FromContext(ctx).Info("content access gated",
				"userId", userID, "state", state.String(), "redirectTo", decision.RedirectTo)
			respondJSON(ctx, w, http.StatusForbidden, map[string]any{
				"gate": decision,
			})
			return
		}

		next(w, r.WithContext(context.WithValue(ctx, userIDKey, userID)))
	}
}

func (g SessionGate) authenticate(w http.ResponseWriter, r *http.Request) (string, bool) {
	ctx := r.Context()

	token := bearerToken(r)
	if token == "" {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]any{
			"gate": gate.ForContent(gate.SignedOut),
		})
		return "", false
	}

	userID, err := g.Identity.Authenticate(ctx, token)
	if err != nil {
		logging.FromContext(ctx).Warn("request token rejected", "error", err)
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]any{
			"gate": gate.ForContent(gate.SignedOut),
		})
		return "", false
	}

	return userID, true
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
