package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/reelbase/backend/internal/gate"
)

func gateDecision(t *testing.T, rec *httptest.ResponseRecorder) gate.Decision {
	t.Helper()
	var body struct {
		Gate gate.Decision `json:"gate"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body.Gate
}

func TestRequireUserWithoutToken(t *testing.T) {
	guard := SessionGate{Identity: newFakeIdentityService()}
	next := func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	rec := httptest.NewRecorder()

	guard.RequireUser(next)(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 got %d", rec.Code)
	}
	if decision := gateDecision(t, rec); decision.RedirectTo != gate.PathSignIn || !decision.Replace {
		t.Fatalf("expected replace-redirect to sign-in, got %+v", decision)
	}
}

func TestRequireUserRejectsUnknownToken(t *testing.T) {
	guard := SessionGate{Identity: newFakeIdentityService()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()

	guard.RequireUser(func(http.ResponseWriter, *http.Request) {
		t.Fatal("next handler must not run")
	})(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 got %d", rec.Code)
	}
}

func TestRequireUserStoresUserID(t *testing.T) {
	svc := newFakeIdentityService()
	svc.tokens["access-1"] = "user-1"
	guard := SessionGate{Identity: svc}

	var gotUserID string
	next := func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer access-1")
	rec := httptest.NewRecorder()

	guard.RequireUser(next)(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204 got %d", rec.Code)
	}
	if gotUserID != "user-1" {
		t.Fatalf("expected user-1 in context got %q", gotUserID)
	}
}

func TestRequireCompleteGatesIncompleteProfile(t *testing.T) {
	svc := newFakeIdentityService()
	svc.tokens["access-1"] = "user-1"
	svc.profiles["user-1"] = testProfile(false)
	guard := SessionGate{Identity: svc}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/movies/feed", nil)
	req.Header.Set("Authorization", "Bearer access-1")
	rec := httptest.NewRecorder()

	guard.RequireComplete(func(http.ResponseWriter, *http.Request) {
		t.Fatal("next handler must not run")
	})(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 got %d", rec.Code)
	}
	if decision := gateDecision(t, rec); decision.RedirectTo != gate.PathBasicInfo {
		t.Fatalf("expected basic-info redirect, got %+v", decision)
	}
}

func TestRequireCompleteAdmitsCompleteProfile(t *testing.T) {
	svc := newFakeIdentityService()
	svc.tokens["access-1"] = "user-1"
	svc.profiles["user-1"] = testProfile(true)
	guard := SessionGate{Identity: svc}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/movies/feed", nil)
	req.Header.Set("Authorization", "Bearer access-1")
	rec := httptest.NewRecorder()

	guard.RequireComplete(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204 got %d", rec.Code)
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"missing", "", ""},
		{"well formed", "Bearer token-1", "token-1"},
		{"case insensitive scheme", "bearer token-1", "token-1"},
		{"wrong scheme", "Basic dXNlcg==", ""},
		{"no token", "Bearer", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if got := bearerToken(req); got != tc.want {
				t.Fatalf("expected %q got %q", tc.want, got)
			}
		})
	}
}
