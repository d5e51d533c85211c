package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the stored shape of a customer. Email is optional but unique
// among documents that carry one.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email,omitempty"`
	Tel       string             `bson:"tel,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
}

type UserCreate struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Email string `json:"email" validate:"omitempty,email"`
	Tel   string `json:"tel" validate:"omitempty,max=32"`
}

type UserView struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Tel       string `json:"tel,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}
