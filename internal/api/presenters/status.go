package presenters

import (
	"FoodShare/domain"
	"FoodShare/internal/utils/storage"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// StatusFor maps service errors to HTTP status codes. Anything it does not
// recognise is a server fault.
func StatusFor(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.As(err, &verrs),
		errors.Is(err, domain.ErrParseUUID),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidTime),
		errors.Is(err, domain.ErrEmptyUpdate),
		errors.Is(err, domain.ErrInvalidViewport),
		errors.Is(err, domain.ErrNotDraggable),
		errors.Is(err, storage.ErrContentNotAllowed):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotSignedIn),
		errors.Is(err, domain.ErrTokenNotFound),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrOAuthTokenInvalid),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrPermissionDenied):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrPinNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrUnknownCampus):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrEmailAlreadyUsed):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrMalformedPin):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrOAuthUnsupported),
		errors.Is(err, storage.ErrStorageDisabled):
		return fiber.StatusNotImplemented
	}
	return fiber.StatusInternalServerError
}
