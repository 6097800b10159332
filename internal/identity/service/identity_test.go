package service

import (
	"context"
	"testing"
	"time"

	identityerrors "spacehub/internal/identity/errors"
	"spacehub/internal/identity/validator"
	"spacehub/internal/industry"
	tenantserrors "spacehub/internal/tenants/errors"
	tenantsvalidator "spacehub/internal/tenants/validator"
	"spacehub/pkg/auth"
	"spacehub/pkg/config"
	mongotx "spacehub/pkg/db/mongo"
	apperrors "spacehub/pkg/errors"
	"spacehub/pkg/logger"
	"spacehub/pkg/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

type memUsers struct {
	users map[string]*model.User
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	for _, existing := range m.users {
		if existing.TenantID == u.TenantID && existing.Email == u.Email {
			return identityerrors.ErrDuplicateEmail
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	m.users[u.ID] = u
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, tenantID, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.TenantID == tenantID && u.Email == email {
			return u, nil
		}
	}
	return nil, identityerrors.ErrUserNotFound
}

func (m *memUsers) FindByID(_ context.Context, tenantID, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok && u.TenantID == tenantID {
		return u, nil
	}
	return nil, identityerrors.ErrUserNotFound
}

func (m *memUsers) List(_ context.Context, tenantID string, _ int) ([]*model.User, error) {
	var out []*model.User
	for _, u := range m.users {
		if u.TenantID == tenantID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) CountByRole(_ context.Context, tenantID, role string) (int64, error) {
	var n int64
	for _, u := range m.users {
		if u.TenantID == tenantID && u.Role == role {
			n++
		}
	}
	return n, nil
}

func (m *memUsers) UpdateLastLogin(_ context.Context, _, id string, at time.Time) error {
	u, ok := m.users[id]
	if !ok {
		return identityerrors.ErrUserNotFound
	}
	u.LastLogin = &at
	return nil
}

func (m *memUsers) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type memTenants struct {
	tenants map[string]*model.Tenant
}

func (m *memTenants) Create(_ context.Context, t *model.Tenant) error {
	for _, existing := range m.tenants {
		if existing.Subdomain == t.Subdomain {
			return tenantserrors.ErrDuplicateSubdomain
		}
	}
	t.ID = uuid.NewString()
	m.tenants[t.ID] = t
	return nil
}

func (m *memTenants) FindByID(_ context.Context, id string) (*model.Tenant, error) {
	if t, ok := m.tenants[id]; ok {
		return t, nil
	}
	return nil, tenantserrors.ErrNotFound
}

func (m *memTenants) FindBySubdomain(_ context.Context, subdomain string) (*model.Tenant, error) {
	for _, t := range m.tenants {
		if t.Subdomain == subdomain && t.IsActive {
			return t, nil
		}
	}
	return nil, tenantserrors.ErrNotFound
}

func (m *memTenants) UpdateModule(context.Context, string, string, map[string]bool) error {
	return nil
}

type fixture struct {
	svc     IdentityService
	users   *memUsers
	tenants *memTenants
	tokens  *auth.TokenManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logger.Discard()
	reg, err := industry.NewRegistry()
	require.NoError(t, err)

	users := &memUsers{users: map[string]*model.User{}}
	tenants := &memTenants{tenants: map[string]*model.Tenant{}}
	tokens := auth.NewTokenManager("0123456789abcdef0123", "spacehub", time.Hour)
	cfg := &config.Config{Log: log, DefaultIndustryModule: "coworking"}

	svc := NewIdentityService(users, tenants, reg, tokens,
		validator.NewCredentialsValidator(log), tenantsvalidator.NewTenantValidator(log), cfg)
	return &fixture{svc: svc, users: users, tenants: tenants, tokens: tokens}
}

func (f *fixture) createTenant(t *testing.T) *TenantRegistration {
	t.Helper()
	reg, err := f.svc.CreateTenant(context.Background(), &model.TenantCreate{
		Name:           "  Acme   Labs ",
		Subdomain:      "Acme Labs",
		AdminEmail:     "Owner@Acme.test",
		AdminPassword:  "owner-password",
		AdminFirstName: "Ada",
		AdminLastName:  "Lovelace",
	})
	require.NoError(t, err)
	return reg
}

func TestCreateTenant(t *testing.T) {
	f := newFixture(t)
	reg := f.createTenant(t)

	assert.Equal(t, "Acme Labs", reg.Tenant.Name)
	assert.Equal(t, "acme-labs", reg.Tenant.Subdomain)
	assert.Equal(t, "coworking", reg.Tenant.IndustryModule)
	assert.Equal(t, config.RoleTenantAdmin, reg.Admin.User.Role)
	assert.Equal(t, "owner@acme.test", reg.Admin.User.Email)
	assert.Equal(t, reg.Tenant.ID, reg.Admin.User.TenantID)
	assert.NotEqual(t, "owner-password", reg.Admin.User.PasswordHash)

	identity, err := f.tokens.Verify(reg.Admin.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.Tenant.ID, identity.TenantID)
	assert.Equal(t, config.RoleTenantAdmin, identity.Role)

	_, err = f.svc.CreateTenant(context.Background(), &model.TenantCreate{
		Name: "Other", Subdomain: "acme-labs", AdminEmail: "x@y.test",
		AdminPassword: "password-1", AdminFirstName: "X", AdminLastName: "Y",
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict), "got %v", err)

	_, err = f.svc.CreateTenant(context.Background(), &model.TenantCreate{
		Name: "Other", Subdomain: "other", IndustryModule: "spaceport", AdminEmail: "x@y.test",
		AdminPassword: "password-1", AdminFirstName: "X", AdminLastName: "Y",
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation), "got %v", err)
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	reg := f.createTenant(t)
	ctx := context.Background()

	token, err := f.svc.Register(ctx, "acme-labs", &model.RegisterRequest{
		Email:          "Member@Acme.test",
		Password:       "member-password",
		FirstName:      "Grace",
		LastName:       "Hopper",
		MembershipTier: config.TierPremium,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, config.RoleMember, token.User.Role)
	assert.Equal(t, reg.Tenant.ID, token.User.TenantID)

	login, err := f.svc.Login(ctx, "acme-labs", &model.LoginRequest{Email: "member@acme.test", Password: "member-password"})
	require.NoError(t, err)
	require.NotNil(t, login.User.LastLogin)

	identity, err := f.tokens.Verify(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, config.TierPremium, identity.MembershipTier)

	_, err = f.svc.Register(ctx, "acme-labs", &model.RegisterRequest{
		Email: "member@acme.test", Password: "another-pass", FirstName: "G", LastName: "H",
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict), "duplicate email: %v", err)
}

func TestRegister_Rejections(t *testing.T) {
	f := newFixture(t)
	f.createTenant(t)
	ctx := context.Background()

	valid := func() *model.RegisterRequest {
		return &model.RegisterRequest{Email: "a@b.test", Password: "password-1", FirstName: "A", LastName: "B"}
	}

	_, err := f.svc.Register(ctx, "nowhere", valid())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound), "unknown tenant: %v", err)

	_, err = f.svc.Register(ctx, "", valid())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput), "missing subdomain: %v", err)

	req := valid()
	req.Role = config.RoleTenantAdmin
	_, err = f.svc.Register(ctx, "acme-labs", req)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden), "elevated self-registration: %v", err)

	req = valid()
	req.Password = "short"
	_, err = f.svc.Register(ctx, "acme-labs", req)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation), "short password: %v", err)
}

func TestLogin_FailuresLookAlike(t *testing.T) {
	f := newFixture(t)
	reg := f.createTenant(t)
	ctx := context.Background()

	cases := []struct {
		name      string
		subdomain string
		email     string
		password  string
	}{
		{"unknown tenant", "nowhere", "owner@acme.test", "owner-password"},
		{"unknown email", "acme-labs", "ghost@acme.test", "owner-password"},
		{"wrong password", "acme-labs", "owner@acme.test", "wrong-password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Login(ctx, tc.subdomain, &model.LoginRequest{Email: tc.email, Password: tc.password})
			appErr := apperrors.AsAppError(err)
			require.NotNil(t, appErr, "got %v", err)
			assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code)
			assert.Equal(t, "Invalid email or password", appErr.Message)
		})
	}

	f.users.users[reg.Admin.User.ID].IsActive = false
	_, err := f.svc.Login(ctx, "acme-labs", &model.LoginRequest{Email: "owner@acme.test", Password: "owner-password"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden), "inactive: %v", err)
}

func TestCreateTenant_AcceptsEveryCatalogModule(t *testing.T) {
	f := newFixture(t)
	for _, module := range []string{"university", "creative_studio", "residential"} {
		reg, err := f.svc.CreateTenant(context.Background(), &model.TenantCreate{
			Name: module, Subdomain: module, IndustryModule: module, AdminEmail: "admin@" + module + ".test",
			AdminPassword: "password-1", AdminFirstName: "A", AdminLastName: "B",
		})
		require.NoError(t, err, module)
		assert.Equal(t, module, reg.Tenant.IndustryModule)
	}
}

func TestListUsersAndCurrentUser(t *testing.T) {
	f := newFixture(t)
	reg := f.createTenant(t)
	ctx := context.Background()

	member, err := f.svc.Register(ctx, "acme-labs", &model.RegisterRequest{
		Email: "member@acme.test", Password: "member-password", FirstName: "M", LastName: "M",
	})
	require.NoError(t, err)

	other, err := f.svc.CreateTenant(ctx, &model.TenantCreate{
		Name: "Globex", Subdomain: "globex", AdminEmail: "owner@globex.test",
		AdminPassword: "password-1", AdminFirstName: "G", AdminLastName: "X",
	})
	require.NoError(t, err)

	admin := &model.Identity{UserID: reg.Admin.User.ID, TenantID: reg.Tenant.ID, Role: config.RoleTenantAdmin}
	users, err := f.svc.ListUsers(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	for _, u := range users {
		assert.Equal(t, reg.Tenant.ID, u.TenantID)
	}

	memberIdentity := &model.Identity{UserID: member.User.ID, TenantID: reg.Tenant.ID, Role: config.RoleMember}
	_, err = f.svc.ListUsers(ctx, memberIdentity)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden), "member listing users: %v", err)

	me, err := f.svc.CurrentUser(ctx, memberIdentity)
	require.NoError(t, err)
	assert.Equal(t, "member@acme.test", me.Email)

	crossTenant := &model.Identity{UserID: other.Admin.User.ID, TenantID: reg.Tenant.ID, Role: config.RoleTenantAdmin}
	_, err = f.svc.CurrentUser(ctx, crossTenant)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound), "user of another tenant: %v", err)
}
