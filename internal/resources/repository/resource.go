package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	resourceserrors "spacehub/internal/resources/errors"
	"spacehub/pkg/config"
	mongotx "spacehub/pkg/db/mongo"
	"spacehub/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Resources"
)

type mongoResourceRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type ResourceRepository interface {
	Create(ctx context.Context, resource *model.Resource) error
	FindByID(ctx context.Context, tenantID, id string) (*model.Resource, error)
	List(ctx context.Context, tenantID string, filter model.ResourceFilter) ([]*model.Resource, error)
	Update(ctx context.Context, tenantID, id string, resource *model.Resource) error
	Deactivate(ctx context.Context, tenantID, id string) error
	CountActive(ctx context.Context, tenantID string) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoResourceRepository(cfg *config.Config) ResourceRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoResourceRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoResourceRepository) Create(ctx context.Context, resource *model.Resource) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	if resource.ID == "" {
		resource.ID = uuid.NewString()
	}
	resource.CreatedAt = now
	resource.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, resource); err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}
	return nil
}

// FindByID returns the resource whether or not it is active; callers decide
// what an inactive resource means for them.
func (r *mongoResourceRepository) FindByID(ctx context.Context, tenantID, id string) (*model.Resource, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if err := validateID(id); err != nil {
		return nil, err
	}

	var resource model.Resource
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "tenant_id": tenantID}).Decode(&resource)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, resourceserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find resource: %w", err)
	}
	return &resource, nil
}

// List returns active resources only, sorted by name.
func (r *mongoResourceRepository) List(ctx context.Context, tenantID string, filter model.ResourceFilter) ([]*model.Resource, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(config.NormalizeListLimit(filter.Limit, r.cfg.ResourceListLimit)))

	cursor, err := r.collection.Find(ctx, buildListFilter(tenantID, filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find resources: %w", err)
	}
	defer cursor.Close(ctx)

	resources := []*model.Resource{}
	if err = cursor.All(ctx, &resources); err != nil {
		return nil, fmt.Errorf("failed to decode resources: %w", err)
	}
	return resources, nil
}

func (r *mongoResourceRepository) Update(ctx context.Context, tenantID, id string, resource *model.Resource) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if err := validateID(id); err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"name":                    resource.Name,
			"type":                    resource.Type,
			"description":             resource.Description,
			"parent_id":               resource.ParentID,
			"capacity":                resource.Capacity,
			"amenities":               resource.Amenities,
			"hourly_rate":             resource.HourlyRate,
			"daily_rate":              resource.DailyRate,
			"member_discount":         resource.MemberDiscount,
			"premium_member_discount": resource.PremiumMemberDiscount,
			"is_bookable":             resource.IsBookable,
			"min_booking_duration":    resource.MinBookingDuration,
			"max_booking_duration":    resource.MaxBookingDuration,
			"advance_booking_days":    resource.AdvanceBookingDays,
			"updated_at":              time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "tenant_id": tenantID}, update)
	if err != nil {
		return fmt.Errorf("failed to update resource: %w", err)
	}
	if result.MatchedCount == 0 {
		return resourceserrors.ErrNotFound
	}
	return nil
}

// Deactivate is the catalog's only delete: the document stays so existing
// bookings keep their reference.
func (r *mongoResourceRepository) Deactivate(ctx context.Context, tenantID, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if err := validateID(id); err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"is_active":  false,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "tenant_id": tenantID}, update)
	if err != nil {
		return fmt.Errorf("failed to deactivate resource: %w", err)
	}
	if result.MatchedCount == 0 {
		return resourceserrors.ErrNotFound
	}
	return nil
}

func (r *mongoResourceRepository) CountActive(ctx context.Context, tenantID string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"tenant_id": tenantID, "is_active": true})
	if err != nil {
		return 0, fmt.Errorf("failed to count resources: %w", err)
	}
	return count, nil
}

func (r *mongoResourceRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func buildListFilter(tenantID string, f model.ResourceFilter) bson.M {
	filter := bson.M{
		"tenant_id": tenantID,
		"is_active": true,
	}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.ParentID != "" {
		filter["parent_id"] = f.ParentID
	}
	if f.Amenity != "" {
		filter["amenities"] = f.Amenity
	}
	if f.IsBookable != nil {
		filter["is_bookable"] = *f.IsBookable
	}
	return filter
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", resourceserrors.ErrInvalidID, id)
	}
	return nil
}
