package session

import (
	"FoodShare/domain"
	"errors"
)

// AuthError is a failed sign-in, registration or sign-out. Its message is
// meant to be shown inline next to the form.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	switch {
	case errors.Is(e.Err, domain.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(e.Err, domain.ErrEmailAlreadyUsed):
		return "An account with this email already exists."
	case errors.Is(e.Err, domain.ErrOAuthTokenInvalid):
		return "Sign in with this provider failed. Please try again."
	case errors.Is(e.Err, domain.ErrOAuthUnsupported):
		return "This sign in method is not available."
	}
	return "Authentication failed: " + e.Err.Error()
}

func (e *AuthError) Unwrap() error { return e.Err }
