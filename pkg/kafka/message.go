package kafka

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// Header names stamped on every published event. Consumers use them
// to route, deduplicate and trace without decoding the payload.
const (
	HeaderEventID       = "event-id"
	HeaderEventType     = "event-type"
	HeaderCorrelationID = "correlation-id"
	HeaderSource        = "source"
	HeaderSchemaVersion = "schema-version"
	HeaderRetryCount    = "retry-count"
	HeaderPublishedAt   = "published-at"
)

const schemaVersion = "1"

// MessageBuilder assembles a kafka-go message with the standard
// envelope headers. The key defaults to the event id so messages for
// the same key land on the same partition.
type MessageBuilder struct {
	eventType     string
	source        string
	key           string
	correlationID string
	payload       []byte
	err           error
}

func NewMessage(eventType, source string) *MessageBuilder {
	return &MessageBuilder{eventType: eventType, source: source}
}

// WithKey sets the partition key. Use a stable entity id so events
// about the same slot or booking keep their relative order.
func (b *MessageBuilder) WithKey(key string) *MessageBuilder {
	b.key = key
	return b
}

func (b *MessageBuilder) WithCorrelationID(id string) *MessageBuilder {
	b.correlationID = id
	return b
}

func (b *MessageBuilder) WithJSONPayload(v any) *MessageBuilder {
	data, err := json.Marshal(v)
	if err != nil {
		b.err = err
		return b
	}
	b.payload = data
	return b
}

func (b *MessageBuilder) Build() (kafkago.Message, error) {
	if b.err != nil {
		return kafkago.Message{}, b.err
	}
	if len(b.payload) == 0 {
		return kafkago.Message{}, ErrEmptyPayload
	}

	eventID := uuid.New().String()
	key := b.key
	if key == "" {
		key = eventID
	}
	correlationID := b.correlationID
	if correlationID == "" {
		correlationID = uuid.New().String()
	}

	return kafkago.Message{
		Key:   []byte(key),
		Value: b.payload,
		Headers: []kafkago.Header{
			{Key: HeaderEventID, Value: []byte(eventID)},
			{Key: HeaderEventType, Value: []byte(b.eventType)},
			{Key: HeaderCorrelationID, Value: []byte(correlationID)},
			{Key: HeaderSource, Value: []byte(b.source)},
			{Key: HeaderSchemaVersion, Value: []byte(schemaVersion)},
			{Key: HeaderRetryCount, Value: []byte("0")},
			{Key: HeaderPublishedAt, Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		},
	}, nil
}

// HeaderValue returns the value of the named header, or "".
func HeaderValue(msg kafkago.Message, name string) string {
	for _, h := range msg.Headers {
		if h.Key == name {
			return string(h.Value)
		}
	}
	return ""
}

// RetryCount reads the retry-count header, defaulting to zero.
func RetryCount(msg kafkago.Message) int {
	n, err := strconv.Atoi(HeaderValue(msg, HeaderRetryCount))
	if err != nil {
		return 0
	}
	return n
}

func withRetryCount(msg kafkago.Message, count int) kafkago.Message {
	headers := make([]kafkago.Header, 0, len(msg.Headers))
	replaced := false
	for _, h := range msg.Headers {
		if h.Key == HeaderRetryCount {
			h.Value = []byte(strconv.Itoa(count))
			replaced = true
		}
		headers = append(headers, h)
	}
	if !replaced {
		headers = append(headers, kafkago.Header{Key: HeaderRetryCount, Value: []byte(strconv.Itoa(count))})
	}
	msg.Headers = headers
	return msg
}
