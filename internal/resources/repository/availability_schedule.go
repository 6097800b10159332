package repository

import (
	"context"
	"fmt"
	"time"

	"spacehub/pkg/config"
	mongotx "spacehub/pkg/db/mongo"
	"spacehub/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ScheduleCollectionName = "Availability_schedules"

// ScheduleRepository stores the weekly open-hours rows of resources.
type ScheduleRepository interface {
	Replace(ctx context.Context, tenantID, resourceID string, rows []*model.AvailabilitySchedule) error
	FindByResource(ctx context.Context, tenantID, resourceID string) ([]*model.AvailabilitySchedule, error)
	FindByResourceAndDay(ctx context.Context, tenantID, resourceID string, dayOfWeek int) ([]*model.AvailabilitySchedule, error)
}

type mongoScheduleRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoScheduleRepository(cfg *config.Config) ScheduleRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoScheduleRepository{
		cfg:        cfg,
		collection: db.Collection(ScheduleCollectionName),
	}
}

// Replace drops every row of the resource and inserts rows. Run it inside a
// transaction so readers never observe the empty intermediate state.
func (r *mongoScheduleRepository) Replace(ctx context.Context, tenantID, resourceID string, rows []*model.AvailabilitySchedule) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.DeleteMany(ctx, bson.M{"tenant_id": tenantID, "resource_id": resourceID}); err != nil {
		return fmt.Errorf("failed to clear availability schedule: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	docs := make([]any, 0, len(rows))
	for _, row := range rows {
		row.ID = uuid.NewString()
		row.TenantID = tenantID
		row.ResourceID = resourceID
		row.CreatedAt = now
		docs = append(docs, row)
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert availability schedule: %w", err)
	}
	return nil
}

func (r *mongoScheduleRepository) FindByResource(ctx context.Context, tenantID, resourceID string) ([]*model.AvailabilitySchedule, error) {
	return r.find(ctx, bson.M{"tenant_id": tenantID, "resource_id": resourceID})
}

func (r *mongoScheduleRepository) FindByResourceAndDay(ctx context.Context, tenantID, resourceID string, dayOfWeek int) ([]*model.AvailabilitySchedule, error) {
	return r.find(ctx, bson.M{"tenant_id": tenantID, "resource_id": resourceID, "day_of_week": dayOfWeek})
}

func (r *mongoScheduleRepository) find(ctx context.Context, filter bson.M) ([]*model.AvailabilitySchedule, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "day_of_week", Value: 1},
		{Key: "start_time", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find availability schedule: %w", err)
	}
	defer cursor.Close(ctx)

	rows := []*model.AvailabilitySchedule{}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode availability schedule: %w", err)
	}
	return rows, nil
}
