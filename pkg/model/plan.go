package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Plan is a priced, bookable offering at a spot. Its name is unique
// within the owning spot, enforced by a compound unique index.
type Plan struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	BookingSpotID      primitive.ObjectID `bson:"booking_spot_id"`
	Name               string             `bson:"name"`
	Description        string             `bson:"description,omitempty"`
	Price              int                `bson:"price"`
	DefaultDurationMin int                `bson:"default_duration_min"`
	CreatedAt          time.Time          `bson:"created_at"`
}

// PlanCreate carries pointers for the defaultable numeric fields so an
// explicit zero price can be told apart from an omitted one.
type PlanCreate struct {
	Name               string `json:"name" validate:"required,min=1,max=200"`
	Description        string `json:"description" validate:"omitempty,max=2000"`
	Price              *int   `json:"price" validate:"omitempty,gte=0"`
	DefaultDurationMin *int   `json:"default_duration_min" validate:"omitempty,gt=0"`
}

type PlanView struct {
	PlanID             string `json:"plan_id"`
	BookingSpotID      string `json:"booking_spot_id"`
	Name               string `json:"name"`
	Description        string `json:"description,omitempty"`
	Price              int    `json:"price"`
	DefaultDurationMin int    `json:"default_duration_min"`
	CreatedAt          string `json:"created_at,omitempty"`
}
