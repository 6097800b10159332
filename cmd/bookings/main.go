package main

import (
	"spacehub/internal/bookings/availability"
	"spacehub/internal/bookings/handler"
	"spacehub/internal/bookings/repository"
	"spacehub/internal/bookings/service"
	"spacehub/internal/bookings/validator"
	identityrepo "spacehub/internal/identity/repository"
	resourcesrepo "spacehub/internal/resources/repository"
	"spacehub/pkg/app"
	"spacehub/pkg/auth"
	"spacehub/pkg/config"
	"spacehub/pkg/events"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")
	serverApp := app.NewApplication(cfg).
		WithAuth(auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL))

	bookingService := initServices(cfg, serverApp.EventPublisher(cfg.BookingEventsTopic))
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher events.Publisher) service.BookingService {
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewBookingLockRepository(cfg)
	resourceRepo := resourcesrepo.NewMongoResourceRepository(cfg)
	scheduleRepo := resourcesrepo.NewMongoScheduleRepository(cfg)
	userRepo := identityrepo.NewMongoUserRepository(cfg)

	checker := availability.NewChecker(bookingRepo, scheduleRepo, cfg.EnforceOpenHours, cfg.Location())
	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		resourceRepo,
		userRepo,
		checker,
		validator.NewBookingValidator(cfg.Log, cfg.MaxRecurringOccurrences),
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}
