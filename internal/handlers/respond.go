package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/reelbase/backend/internal/identity"
	"github.com/reelbase/backend/internal/logging"
	"github.com/reelbase/backend/internal/models"
)

// errorEnvelope is the failure body every endpoint returns. The notice block
// feeds the client's transient banner directly.
type errorEnvelope struct {
	Error  identity.ErrorInfo `json:"error"`
	Notice models.Notice      `json:"notice"`
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status)
	}
}

func respondError(ctx context.Context, w http.ResponseWriter, status int, code, message string) {
	respondJSON(ctx, w, status, errorEnvelope{
		Error:  identity.ErrorInfo{Code: code, Message: message},
		Notice: models.Notice{Severity: models.SeverityError, Text: message},
	})
}

// respondIdentityError maps the identity error taxonomy onto HTTP statuses.
func respondIdentityError(ctx context.Context, w http.ResponseWriter, errInfo *identity.ErrorInfo) {
	status := http.StatusInternalServerError
	switch errInfo.Code {
	case identity.CodeWrongPassword, identity.CodeUserNotFound, identity.CodeInvalidCredential:
		status = http.StatusUnauthorized
	case identity.CodeEmailInUse:
		status = http.StatusConflict
	case identity.CodeInvalidEmail, identity.CodeWeakPassword:
		status = http.StatusBadRequest
	}
	respondError(ctx, w, status, errInfo.Code, errInfo.Message)
}
