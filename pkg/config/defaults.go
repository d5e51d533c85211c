package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "yoyaku"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Advisory lock settings for the reservation check-then-write path.
	// The TTL only bounds damage from a crashed holder; locks are released
	// explicitly on every normal path. It must outlive the slowest live
	// holder (a read plus a write at their store timeouts), or the expiry
	// sweep reaps a lock that is still doing work.
	DefaultPlanLockTTL           = 60 * time.Second
	DefaultPlanLockRetryInterval = 25 * time.Millisecond
	DefaultPlanLockWaitTimeout   = 3 * time.Second

	DefaultDefaultPlanDurationMin = 60
)
