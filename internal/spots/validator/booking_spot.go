package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"yoyaku/pkg/logger"
	"yoyaku/pkg/model"
	"yoyaku/pkg/validate"
)

type BookingSpotValidator struct {
	validate *validator.Validate
	log      *logger.Logger
}

func NewBookingSpotValidator(log *logger.Logger) *BookingSpotValidator {
	return &BookingSpotValidator{
		validate: validator.New(),
		log:      log,
	}
}

func (v *BookingSpotValidator) Validate(spot *model.BookingSpotCreate) error {
	if err := v.validate.Struct(spot); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validate.Translate(validationErrs)
		}
		return err
	}
	return nil
}
