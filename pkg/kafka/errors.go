package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
)

var (
	ErrProducerClosed = errors.New("kafka producer is closed")
	ErrConsumerClosed = errors.New("kafka consumer is closed")
	ErrEmptyPayload   = errors.New("message payload is empty")
)

// KafkaError wraps a broker failure with a retryability hint.
type KafkaError struct {
	Op        string
	Topic     string
	Err       error
	Retryable bool
}

func (e *KafkaError) Error() string {
	return fmt.Sprintf("kafka %s topic=%s: %v", e.Op, e.Topic, e.Err)
}

func (e *KafkaError) Unwrap() error {
	return e.Err
}

func newKafkaError(op, topic string, err error) *KafkaError {
	return &KafkaError{Op: op, Topic: topic, Err: err, Retryable: isTransient(err)}
}

// isTransient reports whether a publish or fetch failure is worth
// retrying. Context cancellation and malformed payloads are not.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

// IsRetryable reports whether err is a KafkaError marked transient.
func IsRetryable(err error) bool {
	var ke *KafkaError
	if errors.As(err, &ke) {
		return ke.Retryable
	}
	return false
}
