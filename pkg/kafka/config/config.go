package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ProducerConfig holds settings for a Kafka writer.
type ProducerConfig struct {
	Brokers      []string
	ClientID     string
	BatchSize    int
	BatchTimeout time.Duration
	WriteTimeout time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	RequiredAcks int
}

// ConsumerConfig holds settings for a Kafka reader group.
type ConsumerConfig struct {
	Brokers       []string
	GroupID       string
	Topic         string
	ReadTimeout   time.Duration
	MaxRetries    int
	RetryBackoff  time.Duration
	CommitOnError bool
}

func LoadProducerConfig() ProducerConfig {
	return ProducerConfig{
		Brokers:      splitBrokers(getEnvStr(EnvKafkaBrokers, DefaultBrokers)),
		ClientID:     getEnvStr(EnvKafkaClientID, DefaultClientID),
		BatchSize:    getEnvInt(EnvKafkaBatchSize, DefaultBatchSize),
		BatchTimeout: getEnvDuration(EnvKafkaBatchTimeout, DefaultBatchTimeout),
		WriteTimeout: getEnvDuration(EnvKafkaWriteTimeout, DefaultWriteTimeout),
		MaxRetries:   getEnvInt(EnvKafkaMaxRetries, DefaultMaxRetries),
		RetryBackoff: getEnvDuration(EnvKafkaRetryBackoff, DefaultRetryBackoff),
		RequiredAcks: getEnvInt(EnvKafkaRequiredAcks, DefaultRequiredAcks),
	}
}

func LoadConsumerConfig(topic string) ConsumerConfig {
	return ConsumerConfig{
		Brokers:       splitBrokers(getEnvStr(EnvKafkaBrokers, DefaultBrokers)),
		GroupID:       getEnvStr(EnvKafkaGroupID, DefaultClientID),
		Topic:         topic,
		ReadTimeout:   getEnvDuration(EnvKafkaReadTimeout, DefaultReadTimeout),
		MaxRetries:    getEnvInt(EnvKafkaMaxRetries, DefaultMaxRetries),
		RetryBackoff:  getEnvDuration(EnvKafkaRetryBackoff, DefaultRetryBackoff),
		CommitOnError: getEnvBool(EnvKafkaCommitOnError, DefaultCommitOnError),
	}
}

func (c ProducerConfig) Validate() error {
	if len(c.Brokers) == 0 {
		return fmt.Errorf("kafka producer: at least one broker is required")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("kafka producer: batch size must be positive, got %d", c.BatchSize)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("kafka producer: max retries cannot be negative, got %d", c.MaxRetries)
	}
	return nil
}

func (c ConsumerConfig) Validate() error {
	if len(c.Brokers) == 0 {
		return fmt.Errorf("kafka consumer: at least one broker is required")
	}
	if c.GroupID == "" {
		return fmt.Errorf("kafka consumer: group id is required")
	}
	if c.Topic == "" {
		return fmt.Errorf("kafka consumer: topic is required")
	}
	return nil
}

func splitBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func getEnvStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
