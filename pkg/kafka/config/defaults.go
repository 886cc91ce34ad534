package config

import "time"

const (
	DefaultBrokers       = "localhost:9092"
	DefaultClientID      = "rezerveo"
	DefaultBatchSize     = 100
	DefaultBatchTimeout  = 10 * time.Millisecond
	DefaultWriteTimeout  = 10 * time.Second
	DefaultReadTimeout   = 10 * time.Second
	DefaultMaxRetries    = 3
	DefaultRetryBackoff  = 250 * time.Millisecond
	DefaultRequiredAcks  = -1 // all in-sync replicas
	DefaultCommitOnError = false
)
