package presenters

import (
	"errors"
	"fmt"
	"testing"

	"FoodShare/domain"
	"FoodShare/internal/utils/storage"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	type payload struct {
		Title string `validate:"required"`
	}
	verr := validator.New().Struct(payload{})

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, fiber.StatusOK},
		{"validation", verr, fiber.StatusBadRequest},
		{"bad time", fmt.Errorf("start time: %w", domain.ErrInvalidTime), fiber.StatusBadRequest},
		{"bad category", domain.ErrInvalidCategory, fiber.StatusBadRequest},
		{"signed out", domain.ErrNotSignedIn, fiber.StatusUnauthorized},
		{"not owner", domain.ErrPermissionDenied, fiber.StatusForbidden},
		{"missing pin", domain.ErrPinNotFound, fiber.StatusNotFound},
		{"unknown campus", domain.ErrUnknownCampus, fiber.StatusNotFound},
		{"duplicate email", domain.ErrEmailAlreadyUsed, fiber.StatusConflict},
		{"storage off", storage.ErrStorageDisabled, fiber.StatusNotImplemented},
		{"database down", errors.New("dial tcp 127.0.0.1:5432: connection refused"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusFor(tc.err))
		})
	}
}
