package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingSpot is a venue. It owns plans; deleting a spot cascades to its
// plans and their reservations.
type BookingSpot struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Address   string             `bson:"address,omitempty"`
	URL       string             `bson:"url,omitempty"`
	Email     string             `bson:"email,omitempty"`
	Tel       string             `bson:"tel,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
}

type BookingSpotCreate struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Address string `json:"address" validate:"omitempty,max=500"`
	URL     string `json:"url" validate:"omitempty,max=500"`
	Email   string `json:"email" validate:"omitempty,email"`
	Tel     string `json:"tel" validate:"omitempty,max=32"`
}

type BookingSpotView struct {
	BookingSpotID string `json:"booking_spot_id"`
	Name          string `json:"name"`
	Address       string `json:"address,omitempty"`
	URL           string `json:"url,omitempty"`
	Email         string `json:"email,omitempty"`
	Tel           string `json:"tel,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
}
