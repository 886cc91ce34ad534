package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking lifecycle. Cancelled and completed are both terminal.
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Booking is a client's claim on a slot. Slot and mechanic fields are
// denormalized at booking time: slot times are immutable after creation,
// so the copies cannot drift, and list projections plus the completion
// sweep run without joins.
type Booking struct {
	ID   primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	UUID string             `json:"id" bson:"uuid"`

	Status string `json:"status" bson:"status"`

	ClientUUID  string `json:"client_id" bson:"client_uuid"`
	ClientName  string `json:"client_name" bson:"client_name"`
	ClientEmail string `json:"-" bson:"client_email"`

	SlotUUID      string `json:"slot_id" bson:"slot_uuid"`
	SlotDate      string `json:"date" bson:"slot_date"`
	SlotStartTime string `json:"start_time" bson:"slot_start_time"`
	SlotEndTime   string `json:"end_time" bson:"slot_end_time"`
	ServiceType   string `json:"service_type" bson:"service_type"`

	MechanicUUID  string `json:"mechanic_id" bson:"mechanic_uuid"`
	MechanicName  string `json:"mechanic_name" bson:"mechanic_name"`
	MechanicEmail string `json:"-" bson:"mechanic_email"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
