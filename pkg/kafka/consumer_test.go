package kafka

import (
	"testing"

	kafkago "github.com/segmentio/kafka-go"
)

func TestDLQMessage(t *testing.T) {
	// Fetched messages carry their source topic, partition and offset.
	// The dead letter writer is topic-bound and refuses messages that
	// name a topic of their own, so the rebuild must drop them.
	fetched := kafkago.Message{
		Topic:     "booking.events",
		Partition: 2,
		Offset:    41,
		Key:       []byte("s-1"),
		Value:     []byte(`{"slot_id":"s-1"}`),
		Headers: []kafkago.Header{
			{Key: HeaderEventID, Value: []byte("evt-1")},
			{Key: HeaderEventType, Value: []byte("booking.confirmed.client")},
		},
	}

	parked := dlqMessage(fetched, 4)

	if parked.Topic != "" {
		t.Errorf("topic = %q, want empty so the writer's topic applies", parked.Topic)
	}
	if parked.Partition != 0 || parked.Offset != 0 {
		t.Errorf("partition/offset carried over: %d/%d", parked.Partition, parked.Offset)
	}
	if string(parked.Key) != "s-1" || string(parked.Value) != `{"slot_id":"s-1"}` {
		t.Errorf("key/payload not preserved: %q %q", parked.Key, parked.Value)
	}
	if got := HeaderValue(parked, HeaderEventID); got != "evt-1" {
		t.Errorf("event-id = %q, want evt-1", got)
	}
	if RetryCount(parked) != 4 {
		t.Errorf("retry count = %d, want 4", RetryCount(parked))
	}
}
