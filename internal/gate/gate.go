// Package gate decides where the client belongs given the current session:
// signed-out visitors go to sign-in, signed-in users with an incomplete
// mandatory profile go to the basic-info screen, and everyone else may reach
// the content screens. All redirects are replace-style so the back button
// never loops into a stale auth screen.
package gate

import "github.com/reelbase/backend/internal/identity"

// Client-side paths the gate redirects between.
const (
	PathSignIn    = "/"
	PathSignUp    = "/signUp"
	PathForgot    = "/forgotPassword"
	PathBasicInfo = "/basicInfo"
	PathHome      = "/content/home"
)

// State is the gate's view of the session.
type State int

const (
	// Unknown precedes the first session notification; no redirect happens.
	Unknown State = iota
	// SignedOut sessions may only reach the auth screens.
	SignedOut
	// ProfileIncomplete sessions are held on the basic-info screen.
	ProfileIncomplete
	// ProfileComplete sessions have the full run of the content screens.
	ProfileComplete
)

// String implements fmt.Stringer for log output.
func (s State) String() string {
	switch s {
	case SignedOut:
		return "signed_out"
	case ProfileIncomplete:
		return "profile_incomplete"
	case ProfileComplete:
		return "profile_complete"
	default:
		return "unknown"
	}
}

// Decision tells the client whether to render or navigate. RedirectTo is
// empty when access is allowed; Replace is always true for redirects.
type Decision struct {
	Allow      bool   `json:"allow"`
	RedirectTo string `json:"redirectTo,omitempty"`
	Replace    bool   `json:"replace,omitempty"`
}

// Classify maps a session onto the gate state machine.
func Classify(session identity.Session, known bool) State {
	if !known {
		return Unknown
	}
	if session.State != identity.SignedIn || session.Details == nil {
		return SignedOut
	}
	if !session.Details.MandatoryComplete() {
		return ProfileIncomplete
	}
	return ProfileComplete
}

// ForContent gates the content screens.
func ForContent(state State) Decision {
	switch state {
	case Unknown:
		return Decision{Allow: true}
	case SignedOut:
		return redirect(PathSignIn)
	case ProfileIncomplete:
		return redirect(PathBasicInfo)
	default:
		return Decision{Allow: true}
	}
}

// ForAuthScreen gates the sign-in, sign-up, and reset screens: signed-in
// users navigating there directly are sent away.
func ForAuthScreen(state State) Decision {
	switch state {
	case ProfileIncomplete:
		return redirect(PathBasicInfo)
	case ProfileComplete:
		return redirect(PathHome)
	default:
		return Decision{Allow: true}
	}
}

// ForBasicInfo gates the mandatory-profile screen itself.
func ForBasicInfo(state State) Decision {
	switch state {
	case SignedOut:
		return redirect(PathSignIn)
	default:
		return Decision{Allow: true}
	}
}

func redirect(to string) Decision {
	return Decision{RedirectTo: to, Replace: true}
}
