package main

import (
	"spacehub/internal/industry"
	resourceshandler "spacehub/internal/resources/handler"
	resourcesrepo "spacehub/internal/resources/repository"
	resourcesservice "spacehub/internal/resources/service"
	resourcesvalidator "spacehub/internal/resources/validator"
	tenantshandler "spacehub/internal/tenants/handler"
	tenantsrepo "spacehub/internal/tenants/repository"
	tenantsservice "spacehub/internal/tenants/service"
	tenantsvalidator "spacehub/internal/tenants/validator"
	"spacehub/pkg/app"
	"spacehub/pkg/auth"
	"spacehub/pkg/config"
)

const ServiceName = "catalog"

// The catalog service owns resources, their availability and the tenant's
// industry configuration.
func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Catalog service")
	serverApp := app.NewApplication(cfg).
		WithAuth(auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL))

	registry, err := industry.NewRegistry()
	if err != nil {
		cfg.Log.Fatal("Failed to load industry modules", "error", err)
	}

	resourceRepo := resourcesrepo.NewMongoResourceRepository(cfg)
	scheduleRepo := resourcesrepo.NewMongoScheduleRepository(cfg)
	resourceService := resourcesservice.NewResourceService(
		resourceRepo,
		scheduleRepo,
		resourcesvalidator.NewResourceValidator(cfg.Log),
		cfg,
	)

	tenantRepo := tenantsrepo.NewMongoTenantRepository(cfg)
	modules := industry.NewCache(registry, tenantRepo, cfg.DefaultIndustryModule, cfg.IndustryCacheSize, cfg.IndustryCacheTTL, cfg.Log)
	tenantService := tenantsservice.NewTenantService(
		tenantRepo,
		registry,
		modules,
		tenantsvalidator.NewTenantValidator(cfg.Log),
		serverApp.EventPublisher(cfg.TenantEventsTopic),
		cfg,
	)

	// Other catalog replicas drop their cached module when a tenant changes.
	serverApp.Subscribe(cfg.TenantEventsTopic, modules.InvalidationHandler()).
		AddCloser(modules)

	cfg.Log.Info("Catalog services initialized",
		"database", cfg.MongoDatabaseName,
		"industry_modules", registry.Keys(),
	)
	serverApp.SetApp(
		resourceshandler.NewResourceHandler(resourceService, cfg.ResourceListLimit, cfg.Log),
		tenantshandler.NewTenantHandler(tenantService, cfg.Log),
	)
	serverApp.Run()
}
