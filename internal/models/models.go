package models

import "time"

// User represents an identity record within the ReelBase platform.
type User struct {
	ID            string
	Email         string
	EmailVerified bool
	Password      string
	DisplayName   string
	PhotoURL      string
	Provider      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Identity providers recognised for sign-in.
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
)

// Country identifies the country selected on the basic-info form.
type Country struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Phone string `json:"phone"`
}

// Profile is the per-user document merged onto the identity record at read
// time. DOB is persisted as epoch milliseconds; nil means unset.
type Profile struct {
	UserID              string     `json:"userId"`
	Email               string     `json:"email"`
	EmailVerified       bool       `json:"emailVerified"`
	FirstName           string     `json:"firstName"`
	LastName            string     `json:"lastName"`
	PhotoURL            string     `json:"photoUrl"`
	Country             *Country   `json:"country,omitempty"`
	PhoneNumber         string     `json:"phoneNumber"`
	PhoneNumberVerified bool       `json:"phoneNumberVerified"`
	DOB                 *time.Time `json:"dob,omitempty"`
}

// MandatoryComplete reports whether every field gating access to content
// screens is present.
func (p Profile) MandatoryComplete() bool {
	return p.Email != "" &&
		p.FirstName != "" &&
		p.LastName != "" &&
		p.Country != nil && p.Country.Code != "" &&
		p.PhoneNumber != "" &&
		p.DOB != nil
}

// FullName concatenates the profile name fields for the identity record.
func (p Profile) FullName() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	default:
		return p.LastName
	}
}

// SessionTokens groups the bearer credentials issued to authenticated users.
type SessionTokens struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// Genre is a single entry of the movie or TV genre taxonomy.
type Genre struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// CatalogItem is a movie or TV show as displayed in grids and sliders.
type CatalogItem struct {
	ID               int     `json:"id"`
	ImageURL         string  `json:"imageUrl"`
	BackdropImageURL string  `json:"backdropImageUrl"`
	Genres           []int   `json:"genres"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Rating           float64 `json:"rating"`
}

// Notice severities used by the error envelope so clients can style the
// transient banner.
const (
	SeveritySuccess = "success"
	SeverityError   = "error"
)

// Notice is a transient user-facing message.
type Notice struct {
	Severity string `json:"severity"`
	Text     string `json:"text"`
}
