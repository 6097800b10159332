package service

import (
	"context"
	"errors"
	"time"

	identityerrors "spacehub/internal/identity/errors"
	"spacehub/internal/identity/repository"
	"spacehub/internal/identity/validator"
	"spacehub/internal/industry"
	tenantserrors "spacehub/internal/tenants/errors"
	tenantsrepository "spacehub/internal/tenants/repository"
	tenantsvalidator "spacehub/internal/tenants/validator"
	"spacehub/pkg/auth"
	"spacehub/pkg/config"
	apperrors "spacehub/pkg/errors"
	"spacehub/pkg/model"
	"spacehub/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

const tokenType = "Bearer"

type TokenIssuer interface {
	Issue(user *model.User) (string, time.Time, error)
}

type TenantRegistration struct {
	Tenant *model.Tenant        `json:"tenant"`
	Admin  *model.TokenResponse `json:"admin"`
}

type IdentityService interface {
	CreateTenant(ctx context.Context, req *model.TenantCreate) (*TenantRegistration, error)
	Register(ctx context.Context, subdomain string, req *model.RegisterRequest) (*model.TokenResponse, error)
	Login(ctx context.Context, subdomain string, req *model.LoginRequest) (*model.TokenResponse, error)
	ListUsers(ctx context.Context, identity *model.Identity) ([]*model.User, error)
	CurrentUser(ctx context.Context, identity *model.Identity) (*model.User, error)
}

type identityService struct {
	users           repository.UserRepository
	tenants         tenantsrepository.TenantRepository
	registry        *industry.Registry
	tokens          TokenIssuer
	validator       *validator.CredentialsValidator
	tenantValidator *tenantsvalidator.TenantValidator
	cfg             *config.Config
	now             func() time.Time
}

func NewIdentityService(
	users repository.UserRepository,
	tenants tenantsrepository.TenantRepository,
	registry *industry.Registry,
	tokens TokenIssuer,
	validator *validator.CredentialsValidator,
	tenantValidator *tenantsvalidator.TenantValidator,
	cfg *config.Config,
) IdentityService {
	return &identityService{
		users:           users,
		tenants:         tenants,
		registry:        registry,
		tokens:          tokens,
		validator:       validator,
		tenantValidator: tenantValidator,
		cfg:             cfg,
		now:             time.Now,
	}
}

// CreateTenant stores a tenant together with its first tenant_admin in one
// transaction.
func (s *identityService) CreateTenant(ctx context.Context, req *model.TenantCreate) (*TenantRegistration, error) {
	req.Name = sanitizer.NormalizeName(req.Name)
	req.Subdomain = sanitizer.NormalizeSubdomain(req.Subdomain)
	req.IndustryModule = sanitizer.NormalizeIdentifier(req.IndustryModule)
	req.AdminEmail = sanitizer.NormalizeEmail(req.AdminEmail)
	req.AdminFirstName = sanitizer.NormalizeName(req.AdminFirstName)
	req.AdminLastName = sanitizer.NormalizeName(req.AdminLastName)

	if err := s.tenantValidator.ValidateCreate(req); err != nil {
		s.cfg.Log.Warn("Tenant validation failed", "subdomain", req.Subdomain, "error", err)
		return nil, apperrors.Validation("Tenant validation failed", map[string]any{"error": err.Error()})
	}
	if req.IndustryModule == "" {
		req.IndustryModule = s.cfg.DefaultIndustryModule
	}
	if !s.registry.Has(req.IndustryModule) {
		return nil, apperrors.Validation("Unknown industry module", map[string]any{
			"industry_module": req.IndustryModule,
			"available":       s.registry.Keys(),
		})
	}

	hash, err := auth.HashPassword(req.AdminPassword)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	tenant := &model.Tenant{
		Name:           req.Name,
		Subdomain:      req.Subdomain,
		IndustryModule: req.IndustryModule,
		FeatureToggles: map[string]bool{},
		IsActive:       true,
	}
	admin := &model.User{
		Email:        req.AdminEmail,
		FirstName:    req.AdminFirstName,
		LastName:     req.AdminLastName,
		Role:         config.RoleTenantAdmin,
		PasswordHash: hash,
		IsActive:     true,
	}

	err = s.users.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.tenants.Create(sessCtx, tenant); err != nil {
			return err
		}
		admin.TenantID = tenant.ID
		return s.users.Create(sessCtx, admin)
	})
	if err != nil {
		switch {
		case errors.Is(err, tenantserrors.ErrDuplicateSubdomain):
			return nil, apperrors.Conflict("Subdomain is already taken").
				WithDetails(map[string]any{"subdomain": req.Subdomain})
		case errors.Is(err, identityerrors.ErrDuplicateEmail):
			return nil, apperrors.Conflict("Email is already registered")
		}
		s.cfg.Log.Error("Failed to create tenant", "subdomain", req.Subdomain, "error", err)
		return nil, apperrors.Internal("Failed to create tenant", err)
	}

	token, err := s.issue(admin)
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Tenant created",
		"tenant_id", tenant.ID,
		"subdomain", tenant.Subdomain,
		"industry_module", tenant.IndustryModule,
	)
	return &TenantRegistration{Tenant: tenant, Admin: token}, nil
}

// Register creates a member account. Staff and admin accounts are not
// self-service.
func (s *identityService) Register(ctx context.Context, subdomain string, req *model.RegisterRequest) (*model.TokenResponse, error) {
	tenant, err := s.resolveTenant(ctx, subdomain)
	if err != nil {
		if errors.Is(err, tenantserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Tenant")
		}
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Internal("Failed to resolve tenant", err)
	}

	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.FirstName = sanitizer.NormalizeName(req.FirstName)
	req.LastName = sanitizer.NormalizeName(req.LastName)
	if err := s.validator.ValidateRegister(req); err != nil {
		return nil, apperrors.Validation("Registration validation failed", map[string]any{"error": err.Error()})
	}
	if req.Role != "" && req.Role != config.RoleMember {
		return nil, apperrors.Forbidden("Self-registration creates member accounts only")
	}
	if req.MembershipTier == "" {
		req.MembershipTier = config.TierBasic
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	user := &model.User{
		TenantID:       tenant.ID,
		Email:          req.Email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Role:           config.RoleMember,
		MembershipTier: req.MembershipTier,
		PasswordHash:   hash,
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, identityerrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("Email is already registered")
		}
		s.cfg.Log.Error("Failed to register user", "tenant_id", tenant.ID, "error", err)
		return nil, apperrors.Internal("Failed to register user", err)
	}

	s.cfg.Log.Info("User registered", "tenant_id", tenant.ID, "user_id", user.ID)
	return s.issue(user)
}

// Login reports unknown tenants, unknown emails and wrong passwords the same
// way so accounts cannot be enumerated.
func (s *identityService) Login(ctx context.Context, subdomain string, req *model.LoginRequest) (*model.TokenResponse, error) {
	req.Email = sanitizer.NormalizeEmail(req.Email)
	if err := s.validator.ValidateLogin(req); err != nil {
		return nil, apperrors.Validation("Login validation failed", map[string]any{"error": err.Error()})
	}

	user, err := s.authenticate(ctx, subdomain, req)
	if err != nil {
		switch {
		case errors.Is(err, identityerrors.ErrInvalidCredentials):
			return nil, apperrors.Unauthorized("Invalid email or password")
		case errors.Is(err, identityerrors.ErrUserInactive):
			return nil, apperrors.Forbidden("Account is inactive")
		case apperrors.IsAppError(err):
			return nil, err
		}
		s.cfg.Log.Error("Login failed", "subdomain", subdomain, "error", err)
		return nil, apperrors.Internal("Failed to log in", err)
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.TenantID, user.ID, now); err != nil {
		s.cfg.Log.Warn("Failed to record last login", "user_id", user.ID, "error", err)
	} else {
		user.LastLogin = &now
	}

	return s.issue(user)
}

// ListUsers returns every user of the caller's tenant. Members may only see
// themselves through CurrentUser.
func (s *identityService) ListUsers(ctx context.Context, identity *model.Identity) ([]*model.User, error) {
	if !config.IsElevated(identity.Role) {
		return nil, apperrors.Forbidden("Insufficient permissions")
	}

	users, err := s.users.List(ctx, identity.TenantID, s.cfg.UserListLimit)
	if err != nil {
		s.cfg.Log.Error("Failed to list users", "tenant_id", identity.TenantID, "error", err)
		return nil, apperrors.Internal("Failed to list users", err)
	}
	return users, nil
}

func (s *identityService) CurrentUser(ctx context.Context, identity *model.Identity) (*model.User, error) {
	user, err := s.users.FindByID(ctx, identity.TenantID, identity.UserID)
	if err != nil {
		if errors.Is(err, identityerrors.ErrUserNotFound) {
			return nil, apperrors.NotFound("User")
		}
		s.cfg.Log.Error("Failed to load user", "tenant_id", identity.TenantID, "user_id", identity.UserID, "error", err)
		return nil, apperrors.Internal("Failed to load user", err)
	}
	return user, nil
}

func (s *identityService) authenticate(ctx context.Context, subdomain string, req *model.LoginRequest) (*model.User, error) {
	tenant, err := s.resolveTenant(ctx, subdomain)
	if err != nil {
		if errors.Is(err, tenantserrors.ErrNotFound) {
			return nil, identityerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, tenant.ID, req.Email)
	if err != nil {
		if errors.Is(err, identityerrors.ErrUserNotFound) {
			return nil, identityerrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, identityerrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, identityerrors.ErrUserInactive
	}
	return user, nil
}

func (s *identityService) resolveTenant(ctx context.Context, subdomain string) (*model.Tenant, error) {
	subdomain = sanitizer.NormalizeSubdomain(subdomain)
	if subdomain == "" {
		return nil, apperrors.InvalidInput("tenant_subdomain query parameter is required")
	}
	return s.tenants.FindBySubdomain(ctx, subdomain)
}

func (s *identityService) issue(user *model.User) (*model.TokenResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		s.cfg.Log.Error("Failed to issue access token", "user_id", user.ID, "error", err)
		return nil, apperrors.Internal("Failed to issue access token", err)
	}
	return &model.TokenResponse{
		AccessToken: token,
		TokenType:   tokenType,
		ExpiresAt:   expiresAt.Unix(),
		User:        user,
	}, nil
}
