package domain

import (
	"errors"
)

const (
	RoleUser = "user"

	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

var (
	MessageFailedBodyRequest  = "failed to parse request body"
	MessageFailedGetToken     = "failed to get token"
	MessageFailedTokenInvalid = "failed to token invalid"

	ErrParseUUID     = errors.New("failed to parse UUID")
	ErrTokenNotFound = errors.New("failed to token not found")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("token invalid")

	// PermissionError family: a write attempted without a session or by a non-owner.
	ErrNotSignedIn      = errors.New("you must be signed in")
	ErrPermissionDenied = errors.New("permission denied")
)

// IsPermissionError reports whether err belongs to the permission family.
func IsPermissionError(err error) bool {
	return errors.Is(err, ErrNotSignedIn) || errors.Is(err, ErrPermissionDenied)
}
