package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "rezerveo"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort      = "8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Completion sweep cadence; the predicate is idempotent so a missed or
	// failed tick is simply retried on the next one.
	DefaultSweepInterval = 1 * time.Minute

	// Advisory claim lifetime; long enough to cover a booking transaction,
	// short enough that a crashed holder cannot wedge the slot.
	DefaultSlotClaimTTL = 30 * time.Second

	DefaultBookingEventsTopic    = "booking-events"
	DefaultBookingEventsDLQTopic = "dlq-booking-events"
	DefaultNotifyTimeout         = 5 * time.Second

	DefaultPaginationLimit = 100
)
