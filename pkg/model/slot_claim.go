package model

import "time"

// SlotClaim is an advisory lock keyed by slot UUID, taken for the
// duration of a booking attempt. The unique _id insert makes acquisition
// atomic; expires_at backs a TTL index so a crashed holder cannot wedge
// the slot.
type SlotClaim struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
