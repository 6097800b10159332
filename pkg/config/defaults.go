package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "spacehub"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 120
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultJWTSecret      = "change-me-in-production-please"
	DefaultJWTIssuer      = "spacehub"
	DefaultAccessTokenTTL = 24 * time.Hour

	DefaultResourceListLimit      = 1000
	DefaultBookingListLimit       = 1000
	DefaultUserListLimit          = 1000
	DefaultDailyAvailabilityLimit = 100

	DefaultBookingLockTTL          = 30 * time.Second
	DefaultEnforceOpenHours        = false
	DefaultScheduleTimeZone        = "UTC"
	DefaultMaxRecurringOccurrences = 52

	DefaultIndustryModule    = "coworking"
	DefaultIndustryCacheSize = 512
	DefaultIndustryCacheTTL  = 10 * time.Minute

	DefaultKafkaEnabled       = false
	DefaultBookingEventsTopic = "spacehub.bookings"
	DefaultTenantEventsTopic  = "spacehub.tenants"
	DefaultEventsDLQTopic     = "spacehub.dlq"
)

var DefaultCORSAllowedOrigins = []string{"*"}
