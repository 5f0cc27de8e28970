// Package validation holds the per-endpoint input checks that run before any
// domain logic. Validators are pure: they collect every field violation and
// return the full list, never just the first.
package validation

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	MaxTitleLength       = 100
	MaxNameLength        = 50
	MaxDisplayNameLength = 100
	MaxBioLength         = 500
	MaxLocationLength    = 100
	MinPasswordLength    = 6
)

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9\s\-().]{7,20}$`)

	lowerRe = regexp.MustCompile(`[a-z]`)
	upperRe = regexp.MustCompile(`[A-Z]`)
	digitRe = regexp.MustCompile(`[0-9]`)
)

// FieldError is a single (field, message) violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NormalizeEmail lowercases and trims an address the way Registration does,
// so lookups and stored values always agree.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Registration checks the register payload and returns the normalized
// (lowercased, trimmed) email alongside any violations.
func Registration(email, password string) (string, []FieldError) {
	var errs []FieldError

	email = NormalizeEmail(email)
	if !emailRe.MatchString(email) {
		errs = append(errs, FieldError{Field: "email", Message: "Invalid email address"})
	}

	if len(password) < MinPasswordLength {
		errs = append(errs, FieldError{Field: "password", Message: "Password must be at least 6 characters long"})
	}
	if !lowerRe.MatchString(password) || !upperRe.MatchString(password) || !digitRe.MatchString(password) {
		errs = append(errs, FieldError{Field: "password", Message: "Password must contain at least one lowercase letter, one uppercase letter, and one number"})
	}

	return email, errs
}

// TodoTitle trims the title and checks it is non-empty and within bounds.
// The trimmed value is what gets persisted.
func TodoTitle(title string) (string, []FieldError) {
	title = strings.TrimSpace(title)
	if len(title) < 1 || len(title) > MaxTitleLength {
		return title, []FieldError{{Field: "title", Message: "Title must be between 1 and 100 characters"}}
	}
	return title, nil
}

// ProfileUpdateInput mirrors the updatable profile fields. Pointers
// distinguish "absent" from "set to zero"; only present fields are checked
// and later applied.
type ProfileUpdateInput struct {
	FirstName   *string            `json:"firstName"`
	LastName    *string            `json:"lastName"`
	DisplayName *string            `json:"displayName"`
	Bio         *string            `json:"bio"`
	Phone       *string            `json:"phone"`
	Location    *string            `json:"location"`
	Website     *string            `json:"website"`
	Preferences *PreferencesInput  `json:"preferences"`
	SocialLinks *SocialLinksInput  `json:"socialLinks"`
	Privacy     *PrivacyInput      `json:"privacy"`
}

type PreferencesInput struct {
	Theme              *string `json:"theme"`
	Language           *string `json:"language"`
	Timezone           *string `json:"timezone"`
	EmailNotifications *bool   `json:"emailNotifications"`
	PushNotifications  *bool   `json:"pushNotifications"`
	TodoReminders      *bool   `json:"todoReminders"`
}

type SocialLinksInput struct {
	Github    *string `json:"github"`
	Linkedin  *string `json:"linkedin"`
	Twitter   *string `json:"twitter"`
	Instagram *string `json:"instagram"`
}

type PrivacyInput struct {
	ProfileVisibility *string `json:"profileVisibility"`
	ShowStats         *bool   `json:"showStats"`
	AllowMessages     *bool   `json:"allowMessages"`
}

// ProfileUpdate checks every field present in the payload independently.
// String fields are trimmed in place so the validated value is also the one
// that gets persisted.
func ProfileUpdate(in *ProfileUpdateInput) []FieldError {
	var errs []FieldError

	check := func(field string, v *string, max int) {
		if v == nil {
			return
		}
		*v = strings.TrimSpace(*v)
		if len(*v) > max {
			errs = append(errs, FieldError{Field: field, Message: "Must be at most " + strconv.Itoa(max) + " characters"})
		}
	}
	check("firstName", in.FirstName, MaxNameLength)
	check("lastName", in.LastName, MaxNameLength)
	check("displayName", in.DisplayName, MaxDisplayNameLength)
	check("bio", in.Bio, MaxBioLength)
	check("location", in.Location, MaxLocationLength)

	if in.Website != nil {
		*in.Website = strings.TrimSpace(*in.Website)
	}
	if in.Phone != nil {
		*in.Phone = strings.TrimSpace(*in.Phone)
	}

	if in.Website != nil && *in.Website != "" {
		if u, err := url.Parse(*in.Website); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, FieldError{Field: "website", Message: "Website must be a valid URL"})
		}
	}
	if in.Phone != nil && *in.Phone != "" && !phoneRe.MatchString(*in.Phone) {
		errs = append(errs, FieldError{Field: "phone", Message: "Phone must be a valid phone number"})
	}
	if in.Preferences != nil && in.Preferences.Theme != nil {
		switch *in.Preferences.Theme {
		case "light", "dark", "auto":
		default:
			errs = append(errs, FieldError{Field: "preferences.theme", Message: "Theme must be one of light, dark, auto"})
		}
	}
	if in.Privacy != nil && in.Privacy.ProfileVisibility != nil {
		switch *in.Privacy.ProfileVisibility {
		case "public", "private", "friends":
		default:
			errs = append(errs, FieldError{Field: "privacy.profileVisibility", Message: "Visibility must be one of public, private, friends"})
		}
	}

	return errs
}
