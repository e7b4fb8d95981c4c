package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/reelbase/backend/internal/gate"
	"github.com/reelbase/backend/internal/identity"
)

func postJSON(t *testing.T, target string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) sessionResponse {
	t.Helper()
	var resp sessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestAuthHandlerSignIn(t *testing.T) {
	svc := newFakeIdentityService()
	svc.signInResult = signedInSession(testProfile(true))
	handler := AuthHandler{Identity: svc}

	req := postJSON(t, "/api/v1/auth/signin", credentialsRequest{Email: "viewer@example.com", Password: "longenough"})
	rec := httptest.NewRecorder()

	handler.SignIn(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}

	resp := decodeSession(t, rec)
	if resp.Session.Tokens == nil || resp.Session.Tokens.AccessToken == "" {
		t.Fatalf("expected tokens to be issued, got %+v", resp.Session.Tokens)
	}
	if resp.Gate.RedirectTo != gate.PathHome || !resp.Gate.Replace {
		t.Fatalf("expected replace-redirect home, got %+v", resp.Gate)
	}
}

func TestAuthHandlerSignInIncompleteProfileRedirectsToBasicInfo(t *testing.T) {
	svc := newFakeIdentityService()
	svc.signInResult = signedInSession(testProfile(false))
	handler := AuthHandler{Identity: svc}

	rec := httptest.NewRecorder()
	handler.SignIn(rec, postJSON(t, "/api/v1/auth/signin", credentialsRequest{Email: "a@b.c", Password: "x"}))

	resp := decodeSession(t, rec)
	if resp.Gate.RedirectTo != gate.PathBasicInfo {
		t.Fatalf("expected basic-info redirect, got %+v", resp.Gate)
	}
}

func TestAuthHandlerSignInFailure(t *testing.T) {
	svc := newFakeIdentityService()
	svc.signInResult = identity.Session{
		State: identity.SignedOut,
		Err:   &identity.ErrorInfo{Code: identity.CodeWrongPassword, Message: "the password is invalid"},
	}
	handler := AuthHandler{Identity: svc}

	rec := httptest.NewRecorder()
	handler.SignIn(rec, postJSON(t, "/api/v1/auth/signin", credentialsRequest{Email: "a@b.c", Password: "bad"}))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 got %d", rec.Code)
	}

	var envelope errorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != identity.CodeWrongPassword {
		t.Fatalf("expected wrong-password code, got %+v", envelope.Error)
	}
	if envelope.Notice.Severity != "error" || envelope.Notice.Text == "" {
		t.Fatalf("expected error notice, got %+v", envelope.Notice)
	}
}

func TestAuthHandlerSignInRateLimited(t *testing.T) {
	handler := AuthHandler{Identity: newFakeIdentityService(), Limiter: denyLimiter{}}

	rec := httptest.NewRecorder()
	handler.SignIn(rec, postJSON(t, "/api/v1/auth/signin", credentialsRequest{Email: "a@b.c", Password: "x"}))

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429 got %d", rec.Code)
	}
}

func TestAuthHandlerSignInMethodNotAllowed(t *testing.T) {
	handler := AuthHandler{Identity: newFakeIdentityService()}

	rec := httptest.NewRecorder()
	handler.SignIn(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/signin", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405 got %d", rec.Code)
	}
}

func TestAuthHandlerSignUpConflict(t *testing.T) {
	svc := newFakeIdentityService()
	svc.signUpResult = identity.Session{
		State: identity.SignedOut,
		Err:   &identity.ErrorInfo{Code: identity.CodeEmailInUse, Message: "an account already exists for that email"},
	}
	handler := AuthHandler{Identity: svc}

	rec := httptest.NewRecorder()
	handler.SignUp(rec, postJSON(t, "/api/v1/auth/signup", credentialsRequest{Email: "a@b.c", Password: "longenough"}))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409 got %d", rec.Code)
	}
}

func TestAuthHandlerFederated(t *testing.T) {
	svc := newFakeIdentityService()
	svc.federatedResult = signedInSession(testProfile(true))
	handler := AuthHandler{Identity: svc}

	req := postJSON(t, "/api/v1/auth/federated/google", federatedRequest{IDToken: "raw-token"})
	rec := httptest.NewRecorder()

	handler.Federated(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	if svc.lastProvider != "google" {
		t.Fatalf("expected provider from path, got %q", svc.lastProvider)
	}
}

func TestAuthHandlerFederatedValidation(t *testing.T) {
	handler := AuthHandler{Identity: newFakeIdentityService()}

	// Missing provider segment.
	rec := httptest.NewRecorder()
	handler.Federated(rec, postJSON(t, "/api/v1/auth/federated/", federatedRequest{IDToken: "raw"}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}

	// Missing token.
	rec = httptest.NewRecorder()
	handler.Federated(rec, postJSON(t, "/api/v1/auth/federated/google", federatedRequest{}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
}

func TestAuthHandlerRefresh(t *testing.T) {
	svc := newFakeIdentityService()
	svc.refreshResult = signedInSession(testProfile(true))
	handler := AuthHandler{Identity: svc}

	rec := httptest.NewRecorder()
	handler.Refresh(rec, postJSON(t, "/api/v1/auth/refresh", refreshRequest{RefreshToken: "refresh-1"}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.Refresh(rec, postJSON(t, "/api/v1/auth/refresh", refreshRequest{}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for missing token got %d", rec.Code)
	}
}

func TestAuthHandlerSignOut(t *testing.T) {
	svc := newFakeIdentityService()
	feeds := &fakeFeedProvider{}
	handler := AuthHandler{Identity: svc, Feeds: feeds}

	req := postJSON(t, "/api/v1/auth/signout", refreshRequest{RefreshToken: "refresh-1"})
	req = req.WithContext(context.WithValue(req.Context(), userIDKey, "user-1"))
	rec := httptest.NewRecorder()

	handler.SignOut(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	if len(svc.signedOutTokens) != 1 || svc.signedOutTokens[0] != "refresh-1" {
		t.Fatalf("expected refresh token revoked, got %v", svc.signedOutTokens)
	}
	if len(feeds.dropped) != 1 || feeds.dropped[0] != "user-1" {
		t.Fatalf("expected feed state dropped for user-1, got %v", feeds.dropped)
	}

	resp := decodeSession(t, rec)
	if resp.Session.State != identity.SignedOut {
		t.Fatalf("expected signed-out session, got %+v", resp.Session)
	}
	if resp.Gate.RedirectTo != gate.PathSignIn {
		t.Fatalf("expected sign-in redirect, got %+v", resp.Gate)
	}

	// An empty body still signs out.
	rec = httptest.NewRecorder()
	handler.SignOut(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/signout", strings.NewReader("")))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
}

func TestAuthHandlerPasswordReset(t *testing.T) {
	handler := AuthHandler{Identity: newFakeIdentityService()}

	rec := httptest.NewRecorder()
	handler.PasswordReset(rec, postJSON(t, "/api/v1/auth/password-reset", passwordResetRequest{Email: "viewer@example.com"}))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status 202 got %d", rec.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := body["notice"]; !ok {
		t.Fatalf("expected notice in response, got %v", body)
	}
}

func TestAuthHandlerPasswordResetInvalidEmail(t *testing.T) {
	svc := newFakeIdentityService()
	svc.resetErr = &identity.ErrorInfo{Code: identity.CodeInvalidEmail, Message: "the email address is badly formatted"}
	handler := AuthHandler{Identity: svc}

	rec := httptest.NewRecorder()
	handler.PasswordReset(rec, postJSON(t, "/api/v1/auth/password-reset", passwordResetRequest{Email: "nope"}))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
}
