package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"yoyaku/pkg/logger"
	"yoyaku/pkg/model"
	"yoyaku/pkg/validate"
)

type UserValidator struct {
	validate *validator.Validate
	log      *logger.Logger
}

func NewUserValidator(log *logger.Logger) *UserValidator {
	return &UserValidator{
		validate: validator.New(),
		log:      log,
	}
}

func (v *UserValidator) Validate(user *model.UserCreate) error {
	if err := v.validate.Struct(user); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validate.Translate(validationErrs)
		}
		return err
	}
	return nil
}
