package kafka

import (
	"encoding/json"
	"testing"
)

func TestMessageBuilder(t *testing.T) {
	t.Run("builds envelope headers", func(t *testing.T) {
		payload := map[string]string{"slot_id": "s-1"}
		msg, err := NewMessage("booking.confirmed.client", "booking").
			WithKey("s-1").
			WithCorrelationID("corr-1").
			WithJSONPayload(payload).
			Build()
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}

		if string(msg.Key) != "s-1" {
			t.Errorf("key = %q, want s-1", msg.Key)
		}
		if got := HeaderValue(msg, HeaderEventType); got != "booking.confirmed.client" {
			t.Errorf("event-type = %q", got)
		}
		if got := HeaderValue(msg, HeaderSource); got != "booking" {
			t.Errorf("source = %q", got)
		}
		if got := HeaderValue(msg, HeaderCorrelationID); got != "corr-1" {
			t.Errorf("correlation-id = %q", got)
		}
		if HeaderValue(msg, HeaderEventID) == "" {
			t.Error("event-id not stamped")
		}
		if RetryCount(msg) != 0 {
			t.Errorf("retry count = %d, want 0", RetryCount(msg))
		}

		var decoded map[string]string
		if err := json.Unmarshal(msg.Value, &decoded); err != nil {
			t.Fatalf("payload not valid JSON: %v", err)
		}
		if decoded["slot_id"] != "s-1" {
			t.Errorf("payload = %v", decoded)
		}
	})

	t.Run("key defaults to event id", func(t *testing.T) {
		msg, err := NewMessage("slot.cancelled", "booking").
			WithJSONPayload(map[string]string{"a": "b"}).
			Build()
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if string(msg.Key) != HeaderValue(msg, HeaderEventID) {
			t.Errorf("key = %q, want event id %q", msg.Key, HeaderValue(msg, HeaderEventID))
		}
	})

	t.Run("empty payload is rejected", func(t *testing.T) {
		if _, err := NewMessage("slot.cancelled", "booking").Build(); err != ErrEmptyPayload {
			t.Errorf("Build() error = %v, want ErrEmptyPayload", err)
		}
	})

	t.Run("unmarshalable payload is rejected", func(t *testing.T) {
		if _, err := NewMessage("slot.cancelled", "booking").WithJSONPayload(func() {}).Build(); err == nil {
			t.Error("Build() error = nil, want marshal error")
		}
	})

	t.Run("retry count is rewritten", func(t *testing.T) {
		msg, err := NewMessage("slot.cancelled", "booking").
			WithJSONPayload(map[string]string{"a": "b"}).
			Build()
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}

		bumped := withRetryCount(msg, 3)
		if RetryCount(bumped) != 3 {
			t.Errorf("retry count = %d, want 3", RetryCount(bumped))
		}
		if len(bumped.Headers) != len(msg.Headers) {
			t.Errorf("header count changed: %d -> %d", len(msg.Headers), len(bumped.Headers))
		}
	})
}
