package notification

import "rezerveo/pkg/model"

// Event types carried in the event-type message header. One event is
// published per recipient, so a successful booking emits two.
const (
	EventBookingConfirmedClient     = "booking.confirmed.client"
	EventBookingConfirmedMechanic   = "booking.confirmed.mechanic"
	EventBookingCancelledByClient   = "booking.cancelled.by_client"
	EventBookingCancelledByMechanic = "booking.cancelled.by_mechanic"
	EventSlotCancelled              = "slot.cancelled"
)

// BookingEvent is the payload for every booking lifecycle event. The
// recipient fields say who the notifier should contact; the rest
// describes the appointment.
type BookingEvent struct {
	BookingID string `json:"booking_id,omitempty"`
	SlotID    string `json:"slot_id"`

	RecipientName  string `json:"recipient_name"`
	RecipientEmail string `json:"recipient_email"`

	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	ServiceType string `json:"service_type"`

	MechanicName string `json:"mechanic_name"`
	ClientName   string `json:"client_name,omitempty"`
}

func confirmedClientEvent(b *model.Booking) BookingEvent {
	return BookingEvent{
		BookingID:      b.UUID,
		SlotID:         b.SlotUUID,
		RecipientName:  b.ClientName,
		RecipientEmail: b.ClientEmail,
		Date:           b.SlotDate,
		StartTime:      b.SlotStartTime,
		EndTime:        b.SlotEndTime,
		ServiceType:    b.ServiceType,
		MechanicName:   b.MechanicName,
		ClientName:     b.ClientName,
	}
}

func confirmedMechanicEvent(b *model.Booking) BookingEvent {
	e := confirmedClientEvent(b)
	e.RecipientName = b.MechanicName
	e.RecipientEmail = b.MechanicEmail
	return e
}

func cancelledByClientEvent(b *model.Booking) BookingEvent {
	// The mechanic hears about a client cancellation.
	e := confirmedMechanicEvent(b)
	return e
}

func cancelledByMechanicEvent(b *model.Booking) BookingEvent {
	// The client hears about a mechanic cancellation.
	return confirmedClientEvent(b)
}

func slotCancelledEvent(s *model.Slot, b *model.Booking) BookingEvent {
	e := BookingEvent{
		SlotID:       s.UUID,
		Date:         s.Date,
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		ServiceType:  s.ServiceType,
		MechanicName: s.MechanicName,
	}
	if b != nil {
		e.BookingID = b.UUID
		e.RecipientName = b.ClientName
		e.RecipientEmail = b.ClientEmail
		e.ClientName = b.ClientName
	}
	return e
}
