package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"yoyaku/pkg/logger"
	"yoyaku/pkg/model"
	"yoyaku/pkg/validate"
)

type PlanValidator struct {
	validate *validator.Validate
	log      *logger.Logger
}

func NewPlanValidator(log *logger.Logger) *PlanValidator {
	return &PlanValidator{
		validate: validator.New(),
		log:      log,
	}
}

func (v *PlanValidator) Validate(plan *model.PlanCreate) error {
	if err := v.validate.Struct(plan); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validate.Translate(validationErrs)
		}
		return err
	}
	return nil
}
