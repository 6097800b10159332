package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	tenantserrors "spacehub/internal/tenants/errors"
	"spacehub/pkg/config"
	mongotx "spacehub/pkg/db/mongo"
	"spacehub/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionName = "Tenants"
)

type mongoTenantRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type TenantRepository interface {
	Create(ctx context.Context, tenant *model.Tenant) error
	FindByID(ctx context.Context, id string) (*model.Tenant, error)
	FindBySubdomain(ctx context.Context, subdomain string) (*model.Tenant, error)
	UpdateModule(ctx context.Context, id, industryModule string, toggles map[string]bool) error
}

func NewMongoTenantRepository(cfg *config.Config) TenantRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTenantRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoTenantRepository) Create(ctx context.Context, tenant *model.Tenant) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	if tenant.ID == "" {
		tenant.ID = uuid.NewString()
	}
	if tenant.FeatureToggles == nil {
		tenant.FeatureToggles = map[string]bool{}
	}
	tenant.CreatedAt = now
	tenant.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, tenant); err != nil {
		if mongotx.IsDuplicateKey(err) {
			return fmt.Errorf("%w: %s", tenantserrors.ErrDuplicateSubdomain, tenant.Subdomain)
		}
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil
}

func (r *mongoTenantRepository) FindByID(ctx context.Context, id string) (*model.Tenant, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", tenantserrors.ErrInvalidID, id)
	}
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindBySubdomain only matches active tenants.
func (r *mongoTenantRepository) FindBySubdomain(ctx context.Context, subdomain string) (*model.Tenant, error) {
	return r.findOne(ctx, bson.M{"subdomain": subdomain, "is_active": true})
}

func (r *mongoTenantRepository) findOne(ctx context.Context, filter bson.M) (*model.Tenant, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var tenant model.Tenant
	if err := r.collection.FindOne(ctx, filter).Decode(&tenant); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, tenantserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tenant: %w", err)
	}
	return &tenant, nil
}

func (r *mongoTenantRepository) UpdateModule(ctx context.Context, id, industryModule string, toggles map[string]bool) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if toggles == nil {
		toggles = map[string]bool{}
	}
	update := bson.M{"$set": bson.M{
		"industry_module": industryModule,
		"feature_toggles": toggles,
		"updated_at":      time.Now().UTC().Truncate(time.Millisecond),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update tenant module: %w", err)
	}
	if result.MatchedCount == 0 {
		return tenantserrors.ErrNotFound
	}
	return nil
}
