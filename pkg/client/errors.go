package client

import (
	"FoodShare/domain"
	"FoodShare/internal/utils/storage"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response. It unwraps to the matching domain error
// when the server reported one, so callers can use errors.Is.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
	cause      error
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.cause }

// Is also matches the permission family by status code, so a missing token
// reads as ErrNotSignedIn and any 403 as ErrPermissionDenied.
func (e *APIError) Is(target error) bool {
	switch target {
	case domain.ErrNotSignedIn:
		return e.StatusCode == http.StatusUnauthorized
	case domain.ErrPermissionDenied:
		return e.StatusCode == http.StatusForbidden
	}
	return false
}

var knownErrors = []error{
	domain.ErrInvalidCredentials,
	domain.ErrEmailAlreadyUsed,
	domain.ErrOAuthTokenInvalid,
	domain.ErrOAuthUnsupported,
	domain.ErrUserNotFound,
	domain.ErrTokenExpired,
	domain.ErrTokenInvalid,
	domain.ErrTokenNotFound,
	domain.ErrNotSignedIn,
	domain.ErrPermissionDenied,
	domain.ErrPinNotFound,
	domain.ErrMalformedPin,
	domain.ErrInvalidDate,
	domain.ErrInvalidTime,
	domain.ErrInvalidCategory,
	domain.ErrEmptyUpdate,
	domain.ErrUnknownCampus,
	domain.ErrInvalidViewport,
	storage.ErrStorageDisabled,
}

func newAPIError(status int, message, detail string) *APIError {
	e := &APIError{StatusCode: status, Message: message, Detail: detail}
	for _, known := range knownErrors {
		if known.Error() == detail {
			e.cause = known
			break
		}
	}
	return e
}
