package model

import "time"

// BookingLock is an advisory lock document keyed by resource. A TTL index on
// expires_at removes locks whose holder died before releasing them.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	Holder    string    `bson:"holder" json:"holder"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
