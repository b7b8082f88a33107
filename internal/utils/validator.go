package utils

import (
	"FoodShare/domain"
	"FoodShare/pkg/campus"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func InitValidator() {
	Validate = NewValidator()
}

// NewValidator returns a validator with the food-event specific tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, _, err := domain.ParseClock(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("yyyymmdd", func(fl validator.FieldLevel) bool {
		return domain.ValidDate(fl.Field().String())
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return domain.Category(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("campus", func(fl validator.FieldLevel) bool {
		_, err := campus.Resolve(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("ampm", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == domain.AM || s == domain.PM
	})
	return v
}
