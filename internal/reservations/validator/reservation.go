package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"yoyaku/pkg/logger"
	"yoyaku/pkg/model"
	"yoyaku/pkg/validate"
)

type ReservationValidator struct {
	validate *validator.Validate
	log      *logger.Logger
}

func NewReservationValidator(log *logger.Logger) *ReservationValidator {
	v := validator.New()
	v.RegisterStructValidation(reservationCreateStructLevel, model.ReservationCreate{})
	return &ReservationValidator{
		validate: v,
		log:      log,
	}
}

// reservationCreateStructLevel enforces the booker rule: a create must
// carry either an existing user id or an inline user.
func reservationCreateStructLevel(sl validator.StructLevel) {
	req := sl.Current().Interface().(model.ReservationCreate)
	if req.UserID == "" && req.User == nil {
		sl.ReportError(req.UserID, "user_id", "UserID", "required_without", "user")
	}
}

func (v *ReservationValidator) ValidateCreate(req *model.ReservationCreate) error {
	return v.translate(v.validate.Struct(req))
}

func (v *ReservationValidator) ValidateUpdate(req *model.ReservationUpdate) error {
	return v.translate(v.validate.Struct(req))
}

func (v *ReservationValidator) translate(err error) error {
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return validate.Translate(validationErrs)
	}
	return err
}
