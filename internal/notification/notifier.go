package notification

import (
	"context"
	"time"

	"rezerveo/pkg/kafka"
	"rezerveo/pkg/logger"
	"rezerveo/pkg/model"
)

// Notifier announces booking lifecycle changes. All methods are
// fire-and-forget: a broker outage must never fail or delay the
// booking flow that triggered the event.
type Notifier interface {
	BookingConfirmed(booking *model.Booking)
	BookingCancelledByClient(booking *model.Booking)
	BookingCancelledByMechanic(booking *model.Booking)
	SlotCancelled(slot *model.Slot, booking *model.Booking)
}

// KafkaNotifier publishes booking events to the booking events topic.
// Each publish happens on its own goroutine with a bounded timeout.
type KafkaNotifier struct {
	producer *kafka.Producer
	source   string
	timeout  time.Duration
	log      *logger.Logger
}

func NewKafkaNotifier(producer *kafka.Producer, source string, timeout time.Duration, log *logger.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		producer: producer,
		source:   source,
		timeout:  timeout,
		log:      log,
	}
}

func (n *KafkaNotifier) BookingConfirmed(booking *model.Booking) {
	n.publish(EventBookingConfirmedClient, booking.SlotUUID, confirmedClientEvent(booking))
	n.publish(EventBookingConfirmedMechanic, booking.SlotUUID, confirmedMechanicEvent(booking))
}

func (n *KafkaNotifier) BookingCancelledByClient(booking *model.Booking) {
	n.publish(EventBookingCancelledByClient, booking.SlotUUID, cancelledByClientEvent(booking))
}

func (n *KafkaNotifier) BookingCancelledByMechanic(booking *model.Booking) {
	n.publish(EventBookingCancelledByMechanic, booking.SlotUUID, cancelledByMechanicEvent(booking))
}

func (n *KafkaNotifier) SlotCancelled(slot *model.Slot, booking *model.Booking) {
	if booking == nil {
		// Nobody to notify: the slot was never booked.
		return
	}
	n.publish(EventSlotCancelled, slot.UUID, slotCancelledEvent(slot, booking))
}

func (n *KafkaNotifier) publish(eventType, key string, payload BookingEvent) {
	msg, err := kafka.NewMessage(eventType, n.source).
		WithKey(key).
		WithJSONPayload(payload).
		Build()
	if err != nil {
		n.log.Error("failed to build notification message",
			"event_type", eventType,
			"error", err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.producer.Publish(ctx, msg); err != nil {
			n.log.Error("failed to publish notification",
				"event_type", eventType,
				"slot_id", key,
				"error", err)
		}
	}()
}

// NopNotifier discards all events. Used in tests and when no broker
// is configured.
type NopNotifier struct{}

func (NopNotifier) BookingConfirmed(*model.Booking)           {}
func (NopNotifier) BookingCancelledByClient(*model.Booking)   {}
func (NopNotifier) BookingCancelledByMechanic(*model.Booking) {}
func (NopNotifier) SlotCancelled(*model.Slot, *model.Booking) {}
