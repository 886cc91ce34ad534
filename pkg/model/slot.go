package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Slot lifecycle. Cancelled is terminal: a cancelled slot is never
// reopened, regardless of what happens to its bookings.
const (
	SlotStatusAvailable = "available"
	SlotStatusBooked    = "booked"
	SlotStatusCancelled = "cancelled"
)

// Service catalog offered by mechanics.
const (
	ServiceOilChange             = "oil_change"
	ServiceTireReplacement       = "tire_replacement"
	ServiceGeneralCheckup        = "general_checkup"
	ServiceBrakePadReplacement   = "brake_pad_replacement"
	ServiceBatteryReplacement    = "battery_replacement"
	ServiceAirFilterReplacement  = "air_filter_replacement"
	ServiceFuelFilterReplacement = "fuel_filter_replacement"
	ServiceSparkPlugReplacement  = "spark_plug_replacement"
	ServiceEngineDiagnostics     = "engine_diagnostics"
	ServiceWheelAlignment        = "wheel_alignment"
	ServiceAirConditioning       = "air_conditioning_service"
	ServiceTransmission          = "transmission_service"
	ServiceSuspensionRepair      = "suspension_repair"
	ServiceCoolantFlush          = "coolant_flush"
	ServiceExhaustRepair         = "exhaust_system_repair"
	ServiceElectricalDiagnostics = "electrical_system_diagnostics"
	ServiceBrakeFluidReplacement = "brake_fluid_replacement"
	ServiceChainReplacement      = "chain_replacement"
	ServiceLightBulbReplacement  = "light_bulb_replacement"
	ServiceDetailing             = "detailing_service"
)

// Storage layouts for dates and times of day. Both orderings are
// lexicographic, which keeps overlap queries plain range comparisons.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Slot is a mechanic-published bookable time window for one service type.
// The Mongo ObjectID stays internal; callers only ever see the UUID.
// Mechanic identity is denormalized at creation time so listings and
// notifications need no join - a slot's owner never changes.
type Slot struct {
	ID   primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	UUID string             `json:"id" bson:"uuid"`

	Date        string `json:"date" bson:"date"`
	StartTime   string `json:"start_time" bson:"start_time"`
	EndTime     string `json:"end_time" bson:"end_time"`
	ServiceType string `json:"service_type" bson:"service_type"`
	Status      string `json:"status" bson:"status"`

	MechanicUUID  string `json:"mechanic_id" bson:"mechanic_uuid"`
	MechanicName  string `json:"mechanic_name" bson:"mechanic_name"`
	MechanicEmail string `json:"-" bson:"mechanic_email"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// CreateSlotRequest is the mechanic-facing payload for publishing a slot.
type CreateSlotRequest struct {
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime     string `json:"end_time" validate:"required,datetime=15:04"`
	ServiceType string `json:"service_type" validate:"required,service_type"`
}
