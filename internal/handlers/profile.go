package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/reelbase/backend/internal/gate"
	"github.com/reelbase/backend/internal/identity"
	"github.com/reelbase/backend/internal/models"
)

// maxPhotoBytes caps profile photo uploads at 8 MiB.
const maxPhotoBytes = 8 << 20

// ProfileHandler serves the signed-in user's profile document.
type ProfileHandler struct {
	Identity IdentityService
}

type profileResponse struct {
	Profile models.Profile `json:"profile"`
	Gate    gate.Decision  `json:"gate"`
}

// Handle dispatches GET and PUT /api/v1/profile.
func (h ProfileHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.put(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h ProfileHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserIDFromContext(ctx)

	profile := h.Identity.LoadProfile(ctx, userID)
	respondJSON(ctx, w, http.StatusOK, profileResponse{
		Profile: profile,
		Gate:    h.decisionFor(profile),
	})
}

func (h ProfileHandler) put(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserIDFromContext(ctx)

	var profile models.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondError(ctx, w, http.StatusBadRequest, identity.CodeInvalidCredential, "invalid request body")
		return
	}

	if errInfo := h.Identity.SaveProfile(ctx, userID, profile); errInfo != nil {
		respondIdentityError(ctx, w, errInfo)
		return
	}

	saved := h.Identity.LoadProfile(ctx, userID)
	respondJSON(ctx, w, http.StatusOK, profileResponse{
		Profile: saved,
		Gate:    h.decisionFor(saved),
	})
}

// UploadPhoto handles POST /api/v1/profile/photo multipart uploads. The
// stored object key is derived from the user id, so a re-upload replaces
// the previous photo.
func (h ProfileHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	userID := UserIDFromContext(ctx)

	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		respondError(ctx, w, http.StatusBadRequest, identity.CodeInvalidCredential, "invalid multipart payload")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, identity.CodeInvalidCredential, "a photo file is required")
		return
	}
	defer file.Close()

	url, errInfo := h.Identity.UploadProfilePhoto(ctx, userID, http.MaxBytesReader(w, file, maxPhotoBytes))
	if errInfo != nil {
		respondIdentityError(ctx, w, errInfo)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"photoUrl": url,
		"notice": models.Notice{
			Severity: models.SeveritySuccess,
			Text:     "Profile photo updated.",
		},
	})
}

// decisionFor reports whether the profile now admits the holder to the
// content screens; incomplete documents keep the basic-info redirect.
func (h ProfileHandler) decisionFor(profile models.Profile) gate.Decision {
	state := gate.ProfileIncomplete
	if profile.MandatoryComplete() {
		state = gate.ProfileComplete
	}
	return gate.ForContent(state)
}
