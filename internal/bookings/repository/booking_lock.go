package repository

import (
	"context"
	"fmt"
	"time"

	"spacehub/pkg/config"
	mongotx "spacehub/pkg/db/mongo"
	"spacehub/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LockCollectionName = "Booking_locks"

// BookingLockRepository provides operations for advisory locks
type BookingLockRepository interface {
	Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error)
	Delete(ctx context.Context, lockID, holder string) error
}

type mongoBookingLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewBookingLockRepository(cfg *config.Config) BookingLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

// Create inserts the lock document. A duplicate key error means somebody
// else holds it; callers check with mongotx.IsDuplicateKey.
func (r *mongoBookingLockRepository) Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	lock.CreatedAt = time.Now().UTC()
	if lock.ExpiresAt.IsZero() {
		lock.ExpiresAt = lock.CreatedAt.Add(r.cfg.BookingLockTTL)
	}

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		return nil, err
	}
	return lock, nil
}

// Delete releases the lock only if holder still owns it, so a request that
// outlived its TTL cannot drop somebody else's lock.
func (r *mongoBookingLockRepository) Delete(ctx context.Context, lockID, holder string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID, "holder": holder}); err != nil {
		return fmt.Errorf("failed to release booking lock: %w", err)
	}
	return nil
}
