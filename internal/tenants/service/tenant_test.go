package service

import (
	"context"
	"testing"
	"time"

	"spacehub/internal/industry"
	tenantserrors "spacehub/internal/tenants/errors"
	"spacehub/internal/tenants/validator"
	"spacehub/pkg/config"
	apperrors "spacehub/pkg/errors"
	"spacehub/pkg/events"
	"spacehub/pkg/logger"
	"spacehub/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTenantRepo struct {
	tenants map[string]*model.Tenant
	reads   int
}

func (m *memTenantRepo) Create(_ context.Context, t *model.Tenant) error {
	m.tenants[t.ID] = t
	return nil
}

func (m *memTenantRepo) FindByID(_ context.Context, id string) (*model.Tenant, error) {
	m.reads++
	t, ok := m.tenants[id]
	if !ok {
		return nil, tenantserrors.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memTenantRepo) FindBySubdomain(_ context.Context, subdomain string) (*model.Tenant, error) {
	for _, t := range m.tenants {
		if t.Subdomain == subdomain {
			return t, nil
		}
	}
	return nil, tenantserrors.ErrNotFound
}

func (m *memTenantRepo) UpdateModule(_ context.Context, id, module string, toggles map[string]bool) error {
	t, ok := m.tenants[id]
	if !ok {
		return tenantserrors.ErrNotFound
	}
	t.IndustryModule, t.FeatureToggles = module, toggles
	return nil
}

type chanPublisher struct {
	ch chan events.Event
}

func (p *chanPublisher) Publish(_ context.Context, evt events.Event) error {
	p.ch <- evt
	return nil
}

func (p *chanPublisher) Close() error { return nil }

type fixture struct {
	svc       TenantService
	repo      *memTenantRepo
	publisher *chanPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logger.Discard()
	reg, err := industry.NewRegistry()
	require.NoError(t, err)

	repo := &memTenantRepo{tenants: map[string]*model.Tenant{
		"t-1": {ID: "t-1", Name: "Acme", Subdomain: "acme", IndustryModule: "coworking", IsActive: true},
	}}
	cache := industry.NewCache(reg, repo, "coworking", 8, time.Minute, log)
	publisher := &chanPublisher{ch: make(chan events.Event, 4)}
	cfg := &config.Config{Log: log}

	return &fixture{
		svc:       NewTenantService(repo, reg, cache, validator.NewTenantValidator(log), publisher, cfg),
		repo:      repo,
		publisher: publisher,
	}
}

var (
	tenantAdmin = &model.Identity{UserID: "a", TenantID: "t-1", Role: config.RoleTenantAdmin}
	staffMember = &model.Identity{UserID: "s", TenantID: "t-1", Role: config.RoleStaff}
)

func TestGetModule(t *testing.T) {
	f := newFixture(t)

	tm, err := f.svc.GetModule(context.Background(), staffMember)
	require.NoError(t, err)
	assert.Equal(t, "coworking", tm.Module.Key)

	_, err = f.svc.GetModule(context.Background(), &model.Identity{TenantID: "gone"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound), "got %v", err)
}

func TestTerminology(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.svc.Terminology(ctx, staffMember, []string{"Resource", "booking", "booking", "gizmo"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"resource": "space",
		"booking":  "reservation",
		"gizmo":    "gizmo",
	}, got)

	all, err := f.svc.Terminology(ctx, staffMember, nil)
	require.NoError(t, err)
	assert.Equal(t, "members", all["users"])

	many := make([]string, maxTerminologyTerms+1)
	for i := range many {
		many[i] = "term_" + string(rune('a'+i%26)) + string(rune('a'+i/26))
	}
	_, err = f.svc.Terminology(ctx, staffMember, many)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput), "got %v", err)
}

func TestUpdateModule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before, err := f.svc.Terminology(ctx, staffMember, []string{"resource"})
	require.NoError(t, err)
	require.Equal(t, "space", before["resource"])

	tm, err := f.svc.UpdateModule(ctx, tenantAdmin, &model.TenantModuleUpdate{
		IndustryModule: "Hotel",
		FeatureToggles: map[string]bool{"loyalty_program": false},
	})
	require.NoError(t, err)
	assert.Equal(t, "hotel", tm.Module.Key)
	assert.False(t, tm.FeatureEnabled("loyalty_program"))
	assert.Equal(t, "hotel", f.repo.tenants["t-1"].IndustryModule)

	after, err := f.svc.Terminology(ctx, staffMember, []string{"resource"})
	require.NoError(t, err)
	assert.Equal(t, "venue", after["resource"], "cache should be invalidated on update")

	select {
	case evt := <-f.publisher.ch:
		assert.Equal(t, events.TenantConfigChanged, evt.Type)
		assert.Equal(t, "t-1", evt.TenantID)
	case <-time.After(time.Second):
		t.Fatal("tenant.config_changed was not published")
	}
}

func TestUpdateModule_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateModule(ctx, staffMember, &model.TenantModuleUpdate{IndustryModule: "hotel"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden), "got %v", err)

	_, err = f.svc.UpdateModule(ctx, tenantAdmin, &model.TenantModuleUpdate{IndustryModule: "spaceport"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation), "got %v", err)

	_, err = f.svc.UpdateModule(ctx, tenantAdmin, &model.TenantModuleUpdate{FeatureToggles: map[string]bool{"Not Valid": true}})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation), "got %v", err)

	_, err = f.svc.UpdateModule(ctx, &model.Identity{TenantID: "gone", Role: config.RoleTenantAdmin}, &model.TenantModuleUpdate{IndustryModule: "hotel"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound), "got %v", err)

	assert.Equal(t, "coworking", f.repo.tenants["t-1"].IndustryModule)
	assert.ElementsMatch(t, []string{"coworking", "creative_studio", "government", "hotel", "residential", "university"}, f.svc.AvailableModules())
}
