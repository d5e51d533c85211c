package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reservation binds one user and one plan to a half-open UTC interval
// [start_datetime, end_datetime). Both instants are stored normalized to
// UTC; the overlap predicate relies on that.
type Reservation struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	UserID        primitive.ObjectID `bson:"user_id"`
	PlanID        primitive.ObjectID `bson:"plan_id"`
	StartDatetime time.Time          `bson:"start_datetime"`
	EndDatetime   time.Time          `bson:"end_datetime"`
	Note          string             `bson:"note,omitempty"`
	CreatedAt     time.Time          `bson:"created_at"`
}

// ReservationCreate is the inbound shape. Timestamps stay strings here;
// the service normalizes them before any comparison. Either UserID or an
// inline User must be supplied.
type ReservationCreate struct {
	UserID        string      `json:"user_id" validate:"omitempty,mongodb"`
	User          *UserCreate `json:"user" validate:"omitempty"`
	PlanID        string      `json:"plan_id" validate:"required,mongodb"`
	StartDatetime string      `json:"start_datetime" validate:"required"`
	EndDatetime   string      `json:"end_datetime" validate:"required"`
	Note          string      `json:"note" validate:"omitempty,max=2000"`
}

// ReservationUpdate is a partial update; nil means "keep the stored
// value". Note is a pointer so it can be cleared explicitly.
type ReservationUpdate struct {
	UserID        *string `json:"user_id" validate:"omitempty,mongodb"`
	PlanID        *string `json:"plan_id" validate:"omitempty,mongodb"`
	StartDatetime *string `json:"start_datetime"`
	EndDatetime   *string `json:"end_datetime"`
	Note          *string `json:"note" validate:"omitempty,max=2000"`
}

// ReservationFilter mirrors the list query parameters, still unparsed.
type ReservationFilter struct {
	Date          string
	Start         string
	End           string
	UserID        string
	PlanID        string
	BookingSpotID string
}

type ReservationUserRef struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
}

type ReservationPlanRef struct {
	PlanID        string `json:"plan_id"`
	Name          string `json:"name"`
	BookingSpotID string `json:"booking_spot_id"`
}

// ReservationView is the outbound shape with id-joined user and plan
// summaries. Timestamps are RFC 3339 UTC.
type ReservationView struct {
	ReservationID string              `json:"reservation_id"`
	User          *ReservationUserRef `json:"user"`
	Plan          *ReservationPlanRef `json:"plan"`
	StartDatetime string              `json:"start_datetime"`
	EndDatetime   string              `json:"end_datetime"`
	Note          string              `json:"note,omitempty"`
	CreatedAt     string              `json:"created_at,omitempty"`
}
