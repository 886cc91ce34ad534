package config

const (
	EnvKafkaBrokers       = "KAFKA_BROKERS"
	EnvKafkaClientID      = "KAFKA_CLIENT_ID"
	EnvKafkaGroupID       = "KAFKA_GROUP_ID"
	EnvKafkaBatchSize     = "KAFKA_BATCH_SIZE"
	EnvKafkaBatchTimeout  = "KAFKA_BATCH_TIMEOUT"
	EnvKafkaWriteTimeout  = "KAFKA_WRITE_TIMEOUT"
	EnvKafkaReadTimeout   = "KAFKA_READ_TIMEOUT"
	EnvKafkaMaxRetries    = "KAFKA_MAX_RETRIES"
	EnvKafkaRetryBackoff  = "KAFKA_RETRY_BACKOFF"
	EnvKafkaRequiredAcks  = "KAFKA_REQUIRED_ACKS"
	EnvKafkaStartOffset   = "KAFKA_START_OFFSET"
	EnvKafkaCommitOnError = "KAFKA_COMMIT_ON_ERROR"
)
