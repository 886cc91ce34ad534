package kafka

import (
	"context"
	"errors"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	kafkaconfig "rezerveo/pkg/kafka/config"
	"rezerveo/pkg/logger"
)

// MessageHandler processes one consumed message. A nil return commits
// the offset; a non-nil return triggers the consumer's retry policy.
type MessageHandler func(ctx context.Context, msg kafkago.Message) error

// Consumer reads a topic as part of a consumer group and hands each
// message to a handler. Handler failures are retried in place up to
// MaxRetries, then the message is parked on the dead letter topic and
// the offset committed so the partition keeps moving.
type Consumer struct {
	reader    *kafkago.Reader
	dlqWriter *kafkago.Writer
	cfg       kafkaconfig.ConsumerConfig
	log       *logger.Logger

	mu     sync.Mutex
	closed bool
}

func NewConsumer(cfg kafkaconfig.ConsumerConfig, pcfg kafkaconfig.ProducerConfig, dlqTopic string, log *logger.Logger) (*Consumer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Consumer{
		reader: kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:  cfg.Brokers,
			GroupID:  cfg.GroupID,
			Topic:    cfg.Topic,
			MaxWait:  cfg.ReadTimeout,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
		cfg: cfg,
		log: log,
	}
	if dlqTopic != "" {
		c.dlqWriter = newWriter(pcfg, dlqTopic)
	}
	return c, nil
}

// Run consumes until ctx is cancelled or the consumer is closed.
func (c *Consumer) Run(ctx context.Context, handler MessageHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if closed {
				return nil
			}
			return newKafkaError("fetch", c.cfg.Topic, err)
		}

		c.handle(ctx, handler, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			c.log.Error("offset commit failed",
				"topic", c.cfg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, handler MessageHandler, msg kafkago.Message) {
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.cfg.RetryBackoff * time.Duration(attempt)):
			}
		}

		if lastErr = handler(ctx, msg); lastErr == nil {
			return
		}

		c.log.Warn("message handler failed",
			"topic", c.cfg.Topic,
			"event_id", HeaderValue(msg, HeaderEventID),
			"event_type", HeaderValue(msg, HeaderEventType),
			"attempt", attempt,
			"error", lastErr)
	}

	if c.dlqWriter != nil {
		if err := c.dlqWriter.WriteMessages(ctx, dlqMessage(msg, RetryCount(msg)+c.cfg.MaxRetries+1)); err != nil {
			c.log.Error("failed to park message on dead letter topic",
				"topic", c.cfg.Topic,
				"event_id", HeaderValue(msg, HeaderEventID),
				"error", err)
			return
		}
	}
	c.log.Error("message exhausted retries",
		"topic", c.cfg.Topic,
		"event_id", HeaderValue(msg, HeaderEventID),
		"event_type", HeaderValue(msg, HeaderEventType),
		"error", lastErr)
}

// dlqMessage rebuilds a fetched message for the dead letter writer. The
// writer is topic-bound, and kafka-go rejects messages that carry their
// own topic, so only key, payload and headers survive.
func dlqMessage(msg kafkago.Message, retries int) kafkago.Message {
	return withRetryCount(kafkago.Message{
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: msg.Headers,
	}, retries)
}

func (c *Consumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	err := c.reader.Close()
	if c.dlqWriter != nil {
		if dlqErr := c.dlqWriter.Close(); err == nil {
			err = dlqErr
		}
	}
	return err
}
