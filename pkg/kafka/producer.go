package kafka

import (
	"context"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	kafkaconfig "rezerveo/pkg/kafka/config"
	"rezerveo/pkg/logger"
)

// Producer publishes messages to a single topic with bounded retries.
// Messages that exhaust their retries are parked on the dead letter
// topic instead of being dropped.
type Producer struct {
	writer    *kafkago.Writer
	dlqWriter *kafkago.Writer
	cfg       kafkaconfig.ProducerConfig
	topic     string
	log       *logger.Logger

	mu     sync.Mutex
	closed bool
}

func NewProducer(cfg kafkaconfig.ProducerConfig, topic, dlqTopic string, log *logger.Logger) (*Producer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Producer{
		writer: newWriter(cfg, topic),
		cfg:    cfg,
		topic:  topic,
		log:    log,
	}
	if dlqTopic != "" {
		p.dlqWriter = newWriter(cfg, dlqTopic)
	}
	return p, nil
}

func newWriter(cfg kafkaconfig.ProducerConfig, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: kafkago.RequiredAcks(cfg.RequiredAcks),
	}
}

// Publish writes msg to the topic, retrying transient failures with
// backoff. On exhaustion the message goes to the dead letter topic.
func (p *Producer) Publish(ctx context.Context, msg kafkago.Message) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrProducerClosed
	}
	p.mu.Unlock()

	var lastErr error
	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return newKafkaError("publish", p.topic, ctx.Err())
			case <-time.After(p.cfg.RetryBackoff * time.Duration(attempt)):
			}
			msg = withRetryCount(msg, attempt)
		}

		err := p.writer.WriteMessages(ctx, msg)
		if err == nil {
			if attempt > 0 {
				p.log.Info("message published after retry",
					"topic", p.topic,
					"event_id", HeaderValue(msg, HeaderEventID),
					"attempt", attempt)
			}
			return nil
		}

		lastErr = err
		if !isTransient(err) {
			break
		}
		p.log.Warn("transient publish failure, will retry",
			"topic", p.topic,
			"event_id", HeaderValue(msg, HeaderEventID),
			"attempt", attempt,
			"error", err)
	}

	kerr := newKafkaError("publish", p.topic, lastErr)
	if p.dlqWriter != nil {
		if dlqErr := p.dlqWriter.WriteMessages(ctx, msg); dlqErr == nil {
			p.log.Error("message routed to dead letter topic",
				"topic", p.topic,
				"event_id", HeaderValue(msg, HeaderEventID),
				"error", lastErr)
			return nil
		}
	}
	return kerr
}

func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	err := p.writer.Close()
	if p.dlqWriter != nil {
		if dlqErr := p.dlqWriter.Close(); err == nil {
			err = dlqErr
		}
	}
	return err
}
