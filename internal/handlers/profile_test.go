package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/reelbase/backend/internal/gate"
	"github.com/reelbase/backend/internal/identity"
	"github.com/reelbase/backend/internal/models"
)

func decodeProfile(t *testing.T, rec *httptest.ResponseRecorder) profileResponse {
	t.Helper()
	var body profileResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode profile response: %v", err)
	}
	return body
}

func TestProfileGet(t *testing.T) {
	svc := newFakeIdentityService()
	svc.profiles["user-1"] = testProfile(true)
	handler := ProfileHandler{Identity: svc}

	req := withUserID(httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil), "user-1")
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	body := decodeProfile(t, rec)
	if body.Profile.FirstName != "Vera" || body.Profile.UserID != "user-1" {
		t.Fatalf("unexpected profile %+v", body.Profile)
	}
	if !body.Gate.Allow {
		t.Fatalf("complete profile must not be gated, got %+v", body.Gate)
	}
}

func TestProfileGetUnknownUserReturnsEmptyDocument(t *testing.T) {
	handler := ProfileHandler{Identity: newFakeIdentityService()}

	req := withUserID(httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil), "ghost")
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	body := decodeProfile(t, rec)
	if body.Profile.UserID != "ghost" {
		t.Fatalf("expected placeholder document for ghost, got %+v", body.Profile)
	}
	if body.Gate.Allow || body.Gate.RedirectTo != gate.PathBasicInfo {
		t.Fatalf("expected basic-info gate for empty document, got %+v", body.Gate)
	}
}

func TestProfilePutSavesAndReloads(t *testing.T) {
	svc := newFakeIdentityService()
	handler := ProfileHandler{Identity: svc}

	payload, err := json.Marshal(testProfile(true))
	if err != nil {
		t.Fatalf("marshal profile: %v", err)
	}

	req := withUserID(httptest.NewRequest(http.MethodPut, "/api/v1/profile", bytes.NewReader(payload)), "user-1")
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if _, ok := svc.saved["user-1"]; !ok {
		t.Fatal("expected profile to be saved for user-1")
	}

	body := decodeProfile(t, rec)
	if body.Profile.LastName != "Singh" {
		t.Fatalf("unexpected saved profile %+v", body.Profile)
	}
	if !body.Gate.Allow {
		t.Fatalf("completed profile must pass the gate, got %+v", body.Gate)
	}
}

func TestProfilePutIncompleteStaysGated(t *testing.T) {
	svc := newFakeIdentityService()
	handler := ProfileHandler{Identity: svc}

	payload, err := json.Marshal(testProfile(false))
	if err != nil {
		t.Fatalf("marshal profile: %v", err)
	}

	req := withUserID(httptest.NewRequest(http.MethodPut, "/api/v1/profile", bytes.NewReader(payload)), "user-1")
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	body := decodeProfile(t, rec)
	if body.Gate.Allow || body.Gate.RedirectTo != gate.PathBasicInfo {
		t.Fatalf("expected basic-info gate for incomplete profile, got %+v", body.Gate)
	}
}

func TestProfilePutBadBody(t *testing.T) {
	handler := ProfileHandler{Identity: newFakeIdentityService()}

	req := withUserID(httptest.NewRequest(http.MethodPut, "/api/v1/profile", strings.NewReader("{not json")), "user-1")
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
}

func TestProfilePutSaveFailure(t *testing.T) {
	svc := newFakeIdentityService()
	svc.saveErr = &identity.ErrorInfo{Code: identity.CodeInternal, Message: "store unavailable"}
	handler := ProfileHandler{Identity: svc}

	payload, err := json.Marshal(testProfile(true))
	if err != nil {
		t.Fatalf("marshal profile: %v", err)
	}

	req := withUserID(httptest.NewRequest(http.MethodPut, "/api/v1/profile", bytes.NewReader(payload)), "user-1")
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500 got %d", rec.Code)
	}
}

func TestProfileMethodNotAllowed(t *testing.T) {
	handler := ProfileHandler{Identity: newFakeIdentityService()}

	req := withUserID(httptest.NewRequest(http.MethodDelete, "/api/v1/profile", nil), "user-1")
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405 got %d", rec.Code)
	}
}

func photoUploadRequest(t *testing.T, field string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, "avatar.jpg")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("jpeg-bytes")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/photo", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return withUserID(req, "user-1")
}

func TestUploadPhoto(t *testing.T) {
	svc := newFakeIdentityService()
	svc.photoURL = "https://cdn.example/user-1-profilePhoto"
	handler := ProfileHandler{Identity: svc}

	rec := httptest.NewRecorder()
	handler.UploadPhoto(rec, photoUploadRequest(t, "photo"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		PhotoURL string        `json:"photoUrl"`
		Notice   models.Notice `json:"notice"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if body.PhotoURL != svc.photoURL {
		t.Fatalf("expected photo url %q got %q", svc.photoURL, body.PhotoURL)
	}
	if body.Notice.Severity != models.SeveritySuccess {
		t.Fatalf("expected success notice got %+v", body.Notice)
	}
}

func TestUploadPhotoMissingFile(t *testing.T) {
	handler := ProfileHandler{Identity: newFakeIdentityService()}

	rec := httptest.NewRecorder()
	handler.UploadPhoto(rec, photoUploadRequest(t, "attachment"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
}

func TestUploadPhotoStorageFailure(t *testing.T) {
	svc := newFakeIdentityService()
	svc.photoErr = &identity.ErrorInfo{Code: identity.CodeInternal, Message: "storage not configured"}
	handler := ProfileHandler{Identity: svc}

	rec := httptest.NewRecorder()
	handler.UploadPhoto(rec, photoUploadRequest(t, "photo"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500 got %d", rec.Code)
	}
}
