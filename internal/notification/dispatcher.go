package notification

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"rezerveo/pkg/kafka"
	"rezerveo/pkg/logger"
)

// Sender delivers a rendered notification to one recipient.
type Sender interface {
	Send(ctx context.Context, recipientEmail, subject, body string) error
}

// LogSender writes notifications to the log instead of delivering
// them. Stands in until a real mail provider is wired up.
type LogSender struct {
	Log *logger.Logger
}

func (s *LogSender) Send(_ context.Context, recipientEmail, subject, body string) error {
	s.Log.Info("notification delivered",
		"recipient", recipientEmail,
		"subject", subject,
		"body", body)
	return nil
}

// Dispatcher turns consumed booking events into outbound notifications.
// Its Handle method is the consumer's MessageHandler.
type Dispatcher struct {
	sender Sender
	log    *logger.Logger
}

func NewDispatcher(sender Sender, log *logger.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, log: log}
}

func (d *Dispatcher) Handle(ctx context.Context, msg kafkago.Message) error {
	eventType := kafka.HeaderValue(msg, kafka.HeaderEventType)

	var event BookingEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		// Malformed payloads never become deliverable on retry.
		d.log.Error("dropping undecodable booking event",
			"event_id", kafka.HeaderValue(msg, kafka.HeaderEventID),
			"event_type", eventType,
			"error", err)
		return nil
	}
	if event.RecipientEmail == "" {
		d.log.Warn("booking event has no recipient, skipping",
			"event_type", eventType,
			"slot_id", event.SlotID)
		return nil
	}

	subject, body, err := render(eventType, event)
	if err != nil {
		d.log.Error("dropping booking event with unknown type",
			"event_type", eventType,
			"slot_id", event.SlotID)
		return nil
	}
	return d.sender.Send(ctx, event.RecipientEmail, subject, body)
}

func render(eventType string, e BookingEvent) (subject, body string, err error) {
	when := fmt.Sprintf("%s %s-%s", e.Date, e.StartTime, e.EndTime)

	switch eventType {
	case EventBookingConfirmedClient:
		return "Your booking is confirmed",
			fmt.Sprintf("Hi %s, your %s appointment with %s on %s is confirmed.",
				e.RecipientName, e.ServiceType, e.MechanicName, when), nil
	case EventBookingConfirmedMechanic:
		return "New booking received",
			fmt.Sprintf("Hi %s, %s booked your %s slot on %s.",
				e.RecipientName, e.ClientName, e.ServiceType, when), nil
	case EventBookingCancelledByClient:
		return "Booking cancelled by client",
			fmt.Sprintf("Hi %s, %s cancelled their %s booking on %s. The slot is open again.",
				e.RecipientName, e.ClientName, e.ServiceType, when), nil
	case EventBookingCancelledByMechanic:
		return "Your booking was cancelled",
			fmt.Sprintf("Hi %s, the mechanic cancelled your %s booking on %s.",
				e.RecipientName, e.ServiceType, when), nil
	case EventSlotCancelled:
		return "Appointment slot cancelled",
			fmt.Sprintf("Hi %s, %s cancelled the %s slot on %s. Your booking no longer stands.",
				e.RecipientName, e.MechanicName, e.ServiceType, when), nil
	default:
		return "", "", fmt.Errorf("unknown event type %q", eventType)
	}
}
