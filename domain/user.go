package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessRegister     = "user registered successfully"
	MessageSuccessLogin        = "user logged in successfully"
	MessageSuccessLogout       = "user logged out successfully"
	MessageSuccessGetProfile   = "profile retrieved successfully"
	MessageSuccessSelectCampus = "campus selected successfully"
	MessageSuccessGetFilters   = "filters retrieved successfully"
	MessageSuccessSaveFilters  = "filters saved successfully"
	MessageFailedRegister      = "failed to register user"
	MessageFailedLogin         = "failed to login"
	MessageFailedGetProfile    = "failed to retrieve profile"
	MessageFailedSelectCampus  = "failed to select campus"
	MessageFailedGetFilters    = "failed to retrieve filters"
	MessageFailedSaveFilters   = "failed to save filters"

	// AuthError family.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyUsed   = errors.New("email already registered")
	ErrOAuthTokenInvalid  = errors.New("oauth identity token invalid")
	ErrOAuthUnsupported   = errors.New("oauth provider not supported")
	ErrUserNotFound       = errors.New("user not found")
)

const (
	AM = "AM"
	PM = "PM"
)

// IsAuthError reports whether err belongs to the authentication family.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrEmailAlreadyUsed) ||
		errors.Is(err, ErrOAuthTokenInvalid) ||
		errors.Is(err, ErrOAuthUnsupported)
}

type (
	RegisterRequest struct {
		Email       string `json:"email" validate:"required,email"`
		Password    string `json:"password" validate:"required,min=6"`
		DisplayName string `json:"display_name" validate:"omitempty,max=100"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	OAuthLoginRequest struct {
		Provider string `json:"provider" validate:"required,oneof=google"`
		IDToken  string `json:"id_token" validate:"required"`
	}

	// OAuthIdentity is what a verified provider token tells us about the user.
	OAuthIdentity struct {
		Provider    string
		Subject     string
		Email       string
		DisplayName string
		PhotoURL    string
	}

	AuthResponse struct {
		Token string      `json:"token"`
		User  UserProfile `json:"user"`
	}

	// FilterSettings are the persisted sidebar/map filters. Hour 0 means unset.
	FilterSettings struct {
		Categories CategorySet `json:"categories"`
		TodayOnly  bool        `json:"today_only"`
		StartHour  int         `json:"start_hour" validate:"min=0,max=12"`
		StartAmPm  string      `json:"start_ampm" validate:"omitempty,ampm"`
		EndHour    int         `json:"end_hour" validate:"min=0,max=12"`
		EndAmPm    string      `json:"end_ampm" validate:"omitempty,ampm"`
	}

	UserProfile struct {
		ID             string         `json:"id"`
		Email          string         `json:"email"`
		DisplayName    string         `json:"display_name"`
		PhotoURL       string         `json:"photo_url,omitempty"`
		Provider       string         `json:"provider"`
		SelectedCampus string         `json:"selected_campus,omitempty"`
		Filters        FilterSettings `json:"filters"`
		LastLogin      *time.Time     `json:"last_login,omitempty"`
	}

	SelectCampusRequest struct {
		CampusID string `json:"campus_id" validate:"required,campus"`
	}
)

// DefaultFilterSettings mirrors a cleared filter bar.
func DefaultFilterSettings() FilterSettings {
	return FilterSettings{StartAmPm: AM, EndAmPm: PM}
}

// Normalized fills AM/PM defaults left empty.
func (f FilterSettings) Normalized() FilterSettings {
	if f.StartAmPm == "" {
		f.StartAmPm = AM
	}
	if f.EndAmPm == "" {
		f.EndAmPm = PM
	}
	return f
}
