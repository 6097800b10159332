package config

import (
	"fmt"
	"os"
	"regexp"
	"spacehub/pkg/client"
	"spacehub/pkg/logger"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	CORSAllowedOrigins []string

	JWTSecret      string
	JWTIssuer      string
	AccessTokenTTL time.Duration

	ResourceListLimit      int
	BookingListLimit       int
	UserListLimit          int
	DailyAvailabilityLimit int

	BookingLockTTL          time.Duration
	EnforceOpenHours        bool
	ScheduleTimeZone        string
	MonthlyRecurrence       string
	MaxRecurringOccurrences int

	DefaultIndustryModule string
	IndustryCacheSize     int
	IndustryCacheTTL      time.Duration

	KafkaEnabled       bool
	BookingEventsTopic string
	TenantEventsTopic  string
	EventsDLQTopic     string
	ConsumerGroupID    string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		CORSAllowedOrigins: getEnvList(EnvCORSAllowedOrigins, DefaultCORSAllowedOrigins),

		JWTSecret:      getEnvStr(EnvJWTSecret, DefaultJWTSecret),
		JWTIssuer:      getEnvStr(EnvJWTIssuer, DefaultJWTIssuer),
		AccessTokenTTL: getEnvDuration(EnvAccessTokenTTL, DefaultAccessTokenTTL),

		ResourceListLimit:      getEnvNum(EnvResourceListLimit, DefaultResourceListLimit),
		BookingListLimit:       getEnvNum(EnvBookingListLimit, DefaultBookingListLimit),
		UserListLimit:          getEnvNum(EnvUserListLimit, DefaultUserListLimit),
		DailyAvailabilityLimit: getEnvNum(EnvDailyAvailabilityLimit, DefaultDailyAvailabilityLimit),

		BookingLockTTL:          getEnvDuration(EnvBookingLockTTL, DefaultBookingLockTTL),
		EnforceOpenHours:        getEnvBool(EnvEnforceOpenHours, DefaultEnforceOpenHours),
		ScheduleTimeZone:        getEnvStr(EnvScheduleTimeZone, DefaultScheduleTimeZone),
		MonthlyRecurrence:       getEnvStr(EnvMonthlyRecurrence, MonthlyFixed30Days),
		MaxRecurringOccurrences: getEnvNum(EnvMaxRecurringOccurrences, DefaultMaxRecurringOccurrences),

		DefaultIndustryModule: getEnvStr(EnvDefaultIndustryModule, DefaultIndustryModule),
		IndustryCacheSize:     getEnvNum(EnvIndustryCacheSize, DefaultIndustryCacheSize),
		IndustryCacheTTL:      getEnvDuration(EnvIndustryCacheTTL, DefaultIndustryCacheTTL),

		KafkaEnabled:       getEnvBool(EnvKafkaEnabled, DefaultKafkaEnabled),
		BookingEventsTopic: getEnvStr(EnvBookingEventsTopic, DefaultBookingEventsTopic),
		TenantEventsTopic:  getEnvStr(EnvTenantEventsTopic, DefaultTenantEventsTopic),
		EventsDLQTopic:     getEnvStr(EnvEventsDLQTopic, DefaultEventsDLQTopic),
		ConsumerGroupID:    getEnvStr(EnvConsumerGroupID, serviceName),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	err := cfg.Validate()
	if err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// Location resolves ScheduleTimeZone, falling back to UTC.
func (cfg *Config) Location() *time.Location {
	if cfg.ScheduleTimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(cfg.ScheduleTimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}

	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if len(cfg.JWTSecret) < 16 {
		errors = append(errors, "JWTSecret must be at least 16 characters long")
	}
	if cfg.AccessTokenTTL <= 0 {
		errors = append(errors, fmt.Sprintf("AccessTokenTTL must be positive, got: %s", cfg.AccessTokenTTL))
	}

	if cfg.ResourceListLimit <= 0 {
		errors = append(errors, fmt.Sprintf("ResourceListLimit must be positive, got: %d", cfg.ResourceListLimit))
	}
	if cfg.BookingListLimit <= 0 {
		errors = append(errors, fmt.Sprintf("BookingListLimit must be positive, got: %d", cfg.BookingListLimit))
	}
	if cfg.UserListLimit <= 0 {
		errors = append(errors, fmt.Sprintf("UserListLimit must be positive, got: %d", cfg.UserListLimit))
	}
	if cfg.DailyAvailabilityLimit <= 0 {
		errors = append(errors, fmt.Sprintf("DailyAvailabilityLimit must be positive, got: %d", cfg.DailyAvailabilityLimit))
	}

	if cfg.BookingLockTTL <= 0 {
		errors = append(errors, fmt.Sprintf("BookingLockTTL must be positive, got: %s", cfg.BookingLockTTL))
	}
	if _, err := time.LoadLocation(cfg.ScheduleTimeZone); err != nil {
		errors = append(errors, fmt.Sprintf("ScheduleTimeZone must be a valid IANA zone, got: %s", cfg.ScheduleTimeZone))
	}
	if cfg.MonthlyRecurrence != MonthlyFixed30Days && cfg.MonthlyRecurrence != MonthlyCalendar {
		errors = append(errors, fmt.Sprintf("MonthlyRecurrence must be %q or %q, got: %s", MonthlyFixed30Days, MonthlyCalendar, cfg.MonthlyRecurrence))
	}
	if cfg.MaxRecurringOccurrences <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRecurringOccurrences must be positive, got: %d", cfg.MaxRecurringOccurrences))
	}

	if cfg.IndustryCacheSize <= 0 {
		errors = append(errors, fmt.Sprintf("IndustryCacheSize must be positive, got: %d", cfg.IndustryCacheSize))
	}
	if cfg.IndustryCacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IndustryCacheTTL must be positive, got: %s", cfg.IndustryCacheTTL))
	}

	if cfg.KafkaEnabled && (cfg.BookingEventsTopic == "" || cfg.TenantEventsTopic == "") {
		errors = append(errors, "BookingEventsTopic and TenantEventsTopic are required when Kafka is enabled")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"cors_allowed_origins", cfg.CORSAllowedOrigins,
		"jwt_secret_set", cfg.JWTSecret != DefaultJWTSecret,
		"access_token_ttl", cfg.AccessTokenTTL,
		"resource_list_limit", cfg.ResourceListLimit,
		"booking_list_limit", cfg.BookingListLimit,
		"user_list_limit", cfg.UserListLimit,
		"daily_availability_limit", cfg.DailyAvailabilityLimit,
		"booking_lock_ttl", cfg.BookingLockTTL,
		"enforce_open_hours", cfg.EnforceOpenHours,
		"schedule_time_zone", cfg.ScheduleTimeZone,
		"monthly_recurrence", cfg.MonthlyRecurrence,
		"max_recurring_occurrences", cfg.MaxRecurringOccurrences,
		"default_industry_module", cfg.DefaultIndustryModule,
		"industry_cache_size", cfg.IndustryCacheSize,
		"industry_cache_ttl", cfg.IndustryCacheTTL,
		"kafka_enabled", cfg.KafkaEnabled,
		"booking_events_topic", cfg.BookingEventsTopic,
		"tenant_events_topic", cfg.TenantEventsTopic,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

// NormalizeListLimit clamps a caller supplied limit to (0, maxLimit].
func NormalizeListLimit(limit, maxLimit int) int {
	if limit <= 0 || limit > maxLimit {
		return maxLimit
	}
	return limit
}
