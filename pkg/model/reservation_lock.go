package model

import "time"

// ReservationLock is an advisory lock document serializing the overlap
// check and the write that follows it for a single plan. The _id is
// "plan_<planID>", so the unique index on _id is the mutex.
type ReservationLock struct {
	ID        string    `bson:"_id"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}
