package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "spacehub/internal/bookings/errors"
	"spacehub/pkg/config"
	mongotx "spacehub/pkg/db/mongo"
	"spacehub/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

// BookingRepository stores bookings. Every query is scoped by tenant; a
// booking of another tenant behaves exactly like a missing one.
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, tenantID, id string) (*model.Booking, error)
	List(ctx context.Context, tenantID string, filter model.BookingFilter) ([]*model.Booking, error)
	CountOverlapping(ctx context.Context, tenantID, resourceID string, start, end time.Time, statuses []string) (int64, error)
	FindStartingBetween(ctx context.Context, tenantID, resourceID string, from, to time.Time, statuses []string, limit int) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, tenantID, id, userID, status, notes string) (bool, error)
	CountByStatusBetween(ctx context.Context, tenantID, status string, from, to time.Time) (int64, error)
	ListRecent(ctx context.Context, tenantID string, limit int) ([]*model.Booking, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, tenantID, id string) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if err := validateID(id); err != nil {
		return nil, err
	}

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "tenant_id": tenantID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) List(ctx context.Context, tenantID string, filter model.BookingFilter) ([]*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: 1}}).
		SetLimit(int64(config.NormalizeListLimit(filter.Limit, r.cfg.BookingListLimit)))

	return r.find(ctx, buildListFilter(tenantID, filter), opts)
}

func (r *mongoBookingRepository) CountOverlapping(ctx context.Context, tenantID, resourceID string, start, end time.Time, statuses []string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, overlapFilter(tenantID, resourceID, start, end, statuses))
	if err != nil {
		return 0, fmt.Errorf("failed to count overlapping bookings: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) FindStartingBetween(ctx context.Context, tenantID, resourceID string, from, to time.Time, statuses []string, limit int) ([]*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"tenant_id":   tenantID,
		"resource_id": resourceID,
		"start_time":  bson.M{"$gte": from, "$lt": to},
		"status":      bson.M{"$in": statuses},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: 1}}).
		SetLimit(int64(limit))

	return r.find(ctx, filter, opts)
}

// UpdateStatus overwrites status unconditionally. A non-empty userID restricts
// the update to that user's bookings. Notes are replaced only when non-empty.
// The returned flag reports whether the stored document changed.
func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, tenantID, id, userID, status, notes string) (bool, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if err := validateID(id); err != nil {
		return false, err
	}

	filter := bson.M{"_id": id, "tenant_id": tenantID}
	if userID != "" {
		filter["user_id"] = userID
	}

	set := bson.M{
		"status":     status,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}
	if notes != "" {
		set["notes"] = notes
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to update booking status: %w", err)
	}
	if result.MatchedCount == 0 {
		return false, bookingserrors.ErrNotFound
	}
	return result.ModifiedCount > 0, nil
}

func (r *mongoBookingRepository) CountByStatusBetween(ctx context.Context, tenantID, status string, from, to time.Time) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"tenant_id":  tenantID,
		"status":     status,
		"start_time": bson.M{"$gte": from, "$lt": to},
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

// ListRecent returns the most recently created bookings first.
func (r *mongoBookingRepository) ListRecent(ctx context.Context, tenantID string, limit int) ([]*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	return r.find(ctx, bson.M{"tenant_id": tenantID}, opts)
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func (r *mongoBookingRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Booking, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []*model.Booking{}
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// overlapFilter matches [start, end) against stored intervals with the usual
// half-open test: existing.start < end AND existing.end > start.
func overlapFilter(tenantID, resourceID string, start, end time.Time, statuses []string) bson.M {
	return bson.M{
		"tenant_id":   tenantID,
		"resource_id": resourceID,
		"status":      bson.M{"$in": statuses},
		"start_time":  bson.M{"$lt": end},
		"end_time":    bson.M{"$gt": start},
	}
}

func buildListFilter(tenantID string, f model.BookingFilter) bson.M {
	filter := bson.M{"tenant_id": tenantID}

	if f.ResourceID != "" {
		filter["resource_id"] = f.ResourceID
	}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	if f.From != nil || f.To != nil {
		window := bson.M{}
		if f.From != nil {
			window["$gte"] = *f.From
		}
		if f.To != nil {
			window["$lt"] = *f.To
		}
		filter["start_time"] = window
	}

	return filter
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}
	return nil
}
