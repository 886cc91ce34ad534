package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"syscall"
	"testing"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "context canceled", err: context.Canceled, want: false},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: false},
		{name: "connection refused", err: syscall.ECONNREFUSED, want: true},
		{name: "connection reset", err: syscall.ECONNRESET, want: true},
		{name: "broken pipe", err: syscall.EPIPE, want: true},
		{name: "eof", err: io.EOF, want: true},
		{name: "wrapped reset", err: fmt.Errorf("write: %w", syscall.ECONNRESET), want: true},
		{name: "plain error", err: errors.New("schema mismatch"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTransient(tt.err); got != tt.want {
				t.Errorf("isTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	transient := newKafkaError("publish", "booking-events", syscall.ECONNRESET)
	if !IsRetryable(transient) {
		t.Error("transient broker failure should be retryable")
	}

	permanent := newKafkaError("publish", "booking-events", errors.New("message too large"))
	if IsRetryable(permanent) {
		t.Error("permanent failure should not be retryable")
	}

	if IsRetryable(errors.New("not a kafka error")) {
		t.Error("foreign errors are not retryable")
	}
}

func TestKafkaErrorUnwrap(t *testing.T) {
	cause := syscall.ECONNREFUSED
	err := newKafkaError("fetch", "booking-events", cause)
	if !errors.Is(err, cause) {
		t.Error("KafkaError does not unwrap to its cause")
	}
}
