package service

import (
	"context"
	"errors"
	"time"

	"spacehub/internal/industry"
	tenantserrors "spacehub/internal/tenants/errors"
	"spacehub/internal/tenants/repository"
	"spacehub/internal/tenants/validator"
	"spacehub/pkg/config"
	apperrors "spacehub/pkg/errors"
	"spacehub/pkg/events"
	"spacehub/pkg/model"
	"spacehub/pkg/sanitizer"
)

const (
	maxTerminologyTerms = 100
	eventPublishTimeout = 5 * time.Second
)

type TenantService interface {
	GetModule(ctx context.Context, identity *model.Identity) (*industry.TenantModule, error)
	Terminology(ctx context.Context, identity *model.Identity, terms []string) (map[string]string, error)
	UpdateModule(ctx context.Context, identity *model.Identity, req *model.TenantModuleUpdate) (*industry.TenantModule, error)
	AvailableModules() []string
}

type ModuleResolver interface {
	Get(ctx context.Context, tenantID string) (*industry.TenantModule, error)
	Resolve(tenant *model.Tenant) (*industry.TenantModule, error)
	Invalidate(tenantID string)
}

type tenantService struct {
	repo      repository.TenantRepository
	registry  *industry.Registry
	modules   ModuleResolver
	validator *validator.TenantValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewTenantService(
	repo repository.TenantRepository,
	registry *industry.Registry,
	modules ModuleResolver,
	validator *validator.TenantValidator,
	publisher events.Publisher,
	cfg *config.Config,
) TenantService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &tenantService{
		repo:      repo,
		registry:  registry,
		modules:   modules,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *tenantService) GetModule(ctx context.Context, identity *model.Identity) (*industry.TenantModule, error) {
	tm, err := s.modules.Get(ctx, identity.TenantID)
	if err != nil {
		return nil, s.mapRepoError(err, identity.TenantID, "Failed to load tenant module")
	}
	return tm, nil
}

// Terminology translates the requested core terms. An empty request returns
// the whole dictionary of the tenant's module.
func (s *tenantService) Terminology(ctx context.Context, identity *model.Identity, terms []string) (map[string]string, error) {
	terms = sanitizer.NormalizeTerms(terms)
	if len(terms) > maxTerminologyTerms {
		return nil, apperrors.InvalidInput("Too many terms requested").
			WithDetails(map[string]any{"max": maxTerminologyTerms, "requested": len(terms)})
	}

	tm, err := s.GetModule(ctx, identity)
	if err != nil {
		return nil, err
	}

	if len(terms) == 0 {
		out := make(map[string]string, len(tm.Module.Terminology))
		for k, v := range tm.Module.Terminology {
			out[k] = v
		}
		return out, nil
	}
	return tm.Module.TranslateAll(terms), nil
}

func (s *tenantService) UpdateModule(ctx context.Context, identity *model.Identity, req *model.TenantModuleUpdate) (*industry.TenantModule, error) {
	if identity.Role != config.RoleTenantAdmin && identity.Role != config.RolePlatformAdmin {
		return nil, apperrors.Forbidden("Only tenant administrators can change the industry module")
	}

	req.IndustryModule = sanitizer.NormalizeIdentifier(req.IndustryModule)
	if err := s.validator.ValidateModuleUpdate(req); err != nil {
		s.cfg.Log.Warn("Tenant module validation failed", "tenant_id", identity.TenantID, "error", err)
		return nil, apperrors.Validation("Tenant module validation failed", map[string]any{"error": err.Error()})
	}
	if req.IndustryModule != "" && !s.registry.Has(req.IndustryModule) {
		return nil, apperrors.Validation("Unknown industry module", map[string]any{
			"industry_module": req.IndustryModule,
			"available":       s.registry.Keys(),
		})
	}

	tenant, err := s.repo.FindByID(ctx, identity.TenantID)
	if err != nil {
		return nil, s.mapRepoError(err, identity.TenantID, "Failed to load tenant")
	}

	if req.IndustryModule != "" {
		tenant.IndustryModule = req.IndustryModule
	}
	if req.FeatureToggles != nil {
		tenant.FeatureToggles = req.FeatureToggles
	}

	if err := s.repo.UpdateModule(ctx, tenant.ID, tenant.IndustryModule, tenant.FeatureToggles); err != nil {
		return nil, s.mapRepoError(err, tenant.ID, "Failed to update tenant module")
	}
	s.modules.Invalidate(tenant.ID)

	events.PublishAsync(ctx, s.publisher, s.cfg.Log, events.Event{
		Type:       events.TenantConfigChanged,
		TenantID:   tenant.ID,
		ActorID:    identity.UserID,
		EntityID:   tenant.ID,
		OccurredAt: time.Now().UTC(),
		Data: map[string]any{
			"industry_module": tenant.IndustryModule,
			"feature_toggles": tenant.FeatureToggles,
		},
	}, eventPublishTimeout)

	s.cfg.Log.Info("Tenant module updated",
		"tenant_id", tenant.ID,
		"industry_module", tenant.IndustryModule,
		"toggles", len(tenant.FeatureToggles),
	)
	return s.modules.Resolve(tenant)
}

func (s *tenantService) AvailableModules() []string {
	return s.registry.Keys()
}

func (s *tenantService) mapRepoError(err error, id, message string) error {
	if errors.Is(err, tenantserrors.ErrNotFound) || errors.Is(err, tenantserrors.ErrInvalidID) {
		return apperrors.NotFoundWithID("Tenant", id)
	}
	if apperrors.IsAppError(err) {
		return err
	}
	s.cfg.Log.Error(message, "tenant_id", id, "error", err)
	return apperrors.Internal(message, err)
}
