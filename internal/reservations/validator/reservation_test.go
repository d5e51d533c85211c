package validator

import (
	"errors"
	"io"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"yoyaku/pkg/logger"
	"yoyaku/pkg/model"
	"yoyaku/pkg/validate"
)

func newValidator() *ReservationValidator {
	return NewReservationValidator(logger.New(logger.Config{
		Level:  logger.ERROR,
		Format: logger.TEXT,
		Output: io.Discard,
	}))
}

func strPtr(s string) *string { return &s }

func TestValidateCreate(t *testing.T) {
	v := newValidator()
	planID := primitive.NewObjectID().Hex()
	userID := primitive.NewObjectID().Hex()

	cases := []struct {
		name    string
		req     model.ReservationCreate
		wantErr bool
	}{
		{
			"valid with user id",
			model.ReservationCreate{UserID: userID, PlanID: planID, StartDatetime: "2025-03-01T10:00:00", EndDatetime: "2025-03-01T11:00:00"},
			false,
		},
		{
			"valid with inline user",
			model.ReservationCreate{User: &model.UserCreate{Name: "Taro"}, PlanID: planID, StartDatetime: "2025-03-01T10:00:00", EndDatetime: "2025-03-01T11:00:00"},
			false,
		},
		{
			"missing booker",
			model.ReservationCreate{PlanID: planID, StartDatetime: "2025-03-01T10:00:00", EndDatetime: "2025-03-01T11:00:00"},
			true,
		},
		{
			"missing plan",
			model.ReservationCreate{UserID: userID, StartDatetime: "2025-03-01T10:00:00", EndDatetime: "2025-03-01T11:00:00"},
			true,
		},
		{
			"malformed user id",
			model.ReservationCreate{UserID: "not-hex", PlanID: planID, StartDatetime: "2025-03-01T10:00:00", EndDatetime: "2025-03-01T11:00:00"},
			true,
		},
		{
			"missing timestamps",
			model.ReservationCreate{UserID: userID, PlanID: planID},
			true,
		},
		{
			"inline user without name",
			model.ReservationCreate{User: &model.UserCreate{}, PlanID: planID, StartDatetime: "2025-03-01T10:00:00", EndDatetime: "2025-03-01T11:00:00"},
			true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateCreate(&tc.req)
			if tc.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err != nil {
				var fieldErrs validate.FieldErrors
				if !errors.As(err, &fieldErrs) {
					t.Fatalf("expected FieldErrors, got %T", err)
				}
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	v := newValidator()

	if err := v.ValidateUpdate(&model.ReservationUpdate{}); err != nil {
		t.Fatalf("empty update rejected: %v", err)
	}

	if err := v.ValidateUpdate(&model.ReservationUpdate{PlanID: strPtr("bad")}); err == nil {
		t.Fatal("malformed plan id accepted")
	}

	if err := v.ValidateUpdate(&model.ReservationUpdate{PlanID: strPtr(primitive.NewObjectID().Hex())}); err != nil {
		t.Fatalf("valid plan id rejected: %v", err)
	}
}
