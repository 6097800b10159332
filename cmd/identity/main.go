package main

import (
	"spacehub/internal/identity/handler"
	"spacehub/internal/identity/repository"
	"spacehub/internal/identity/service"
	"spacehub/internal/identity/validator"
	"spacehub/internal/industry"
	tenantsrepo "spacehub/internal/tenants/repository"
	tenantsvalidator "spacehub/internal/tenants/validator"
	"spacehub/pkg/app"
	"spacehub/pkg/auth"
	"spacehub/pkg/config"
)

const ServiceName = "identity"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Identity service")

	registry, err := industry.NewRegistry()
	if err != nil {
		cfg.Log.Fatal("Failed to load industry modules", "error", err)
	}
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL)

	identityService := service.NewIdentityService(
		repository.NewMongoUserRepository(cfg),
		tenantsrepo.NewMongoTenantRepository(cfg),
		registry,
		tokens,
		validator.NewCredentialsValidator(cfg.Log),
		tenantsvalidator.NewTenantValidator(cfg.Log),
		cfg,
	)

	serverApp := app.NewApplication(cfg).WithAuth(tokens, "/api/auth/", "/api/tenants")
	serverApp.SetApp(handler.NewIdentityHandler(identityService, cfg.Log))
	serverApp.Run()
}
