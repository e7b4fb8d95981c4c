package identity

import "github.com/reelbase/backend/internal/models"

// SessionState is the sign-in status shared across the application.
type SessionState int

const (
	// SignedOut is the initial state and the state after any failed sign-in.
	SignedOut SessionState = iota
	// SignedIn means a session token pair has been issued.
	SignedIn
)

// String implements fmt.Stringer for log output.
func (s SessionState) String() string {
	if s == SignedIn {
		return "signed_in"
	}
	return "signed_out"
}

// ErrorInfo is a tagged failure carried inside a Session instead of a Go
// error. The codes follow the auth/* convention the UI already matches on.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes surfaced to the UI.
const (
	CodeWrongPassword     = "auth/wrong-password"
	CodeUserNotFound      = "auth/user-not-found"
	CodeEmailInUse        = "auth/email-already-in-use"
	CodeInvalidEmail      = "auth/invalid-email"
	CodeWeakPassword      = "auth/weak-password"
	CodeInvalidCredential = "auth/invalid-credential"
	CodeInternal          = "auth/internal-error"
)

// Session is the current sign-in status plus the resolved profile. Every
// identity operation that can change the session returns one; failures land
// in Err with State left at SignedOut.
type Session struct {
	State   SessionState          `json:"state"`
	Details *models.Profile       `json:"details,omitempty"`
	Tokens  *models.SessionTokens `json:"tokens,omitempty"`
	Err     *ErrorInfo            `json:"error,omitempty"`
}

func errorSession(code, message string) Session {
	return Session{
		State: SignedOut,
		Err: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}
