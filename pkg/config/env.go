package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"

	EnvJWTSecret      = "JWT_SECRET"
	EnvJWTIssuer      = "JWT_ISSUER"
	EnvAccessTokenTTL = "ACCESS_TOKEN_TTL"

	EnvResourceListLimit      = "RESOURCE_LIST_LIMIT"
	EnvBookingListLimit       = "BOOKING_LIST_LIMIT"
	EnvUserListLimit          = "USER_LIST_LIMIT"
	EnvDailyAvailabilityLimit = "DAILY_AVAILABILITY_LIMIT"

	EnvBookingLockTTL          = "BOOKING_LOCK_TTL"
	EnvEnforceOpenHours        = "ENFORCE_OPEN_HOURS"
	EnvScheduleTimeZone        = "SCHEDULE_TIME_ZONE"
	EnvMonthlyRecurrence       = "MONTHLY_RECURRENCE"
	EnvMaxRecurringOccurrences = "MAX_RECURRING_OCCURRENCES"

	EnvDefaultIndustryModule = "DEFAULT_INDUSTRY_MODULE"
	EnvIndustryCacheSize     = "INDUSTRY_CACHE_SIZE"
	EnvIndustryCacheTTL      = "INDUSTRY_CACHE_TTL"

	EnvKafkaEnabled       = "KAFKA_ENABLED"
	EnvBookingEventsTopic = "BOOKING_EVENTS_TOPIC"
	EnvTenantEventsTopic  = "TENANT_EVENTS_TOPIC"
	EnvEventsDLQTopic     = "EVENTS_DLQ_TOPIC"
	EnvConsumerGroupID    = "KAFKA_CONSUMER_GROUP_ID"
)
