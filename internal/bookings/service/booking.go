package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"spacehub/internal/bookings/availability"
	bookingserrors "spacehub/internal/bookings/errors"
	"spacehub/internal/bookings/pricing"
	"spacehub/internal/bookings/recurrence"
	"spacehub/internal/bookings/repository"
	"spacehub/internal/bookings/validator"
	"spacehub/pkg/config"
	mongotx "spacehub/pkg/db/mongo"
	apperrors "spacehub/pkg/errors"
	"spacehub/pkg/events"
	"spacehub/pkg/model"
	"spacehub/pkg/sanitizer"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	eventPublishTimeout = 5 * time.Second

	// An omitted attendees field books for the caller alone.
	defaultAttendees = 1

	recentBookingsShown = 5
)

type BookingService interface {
	Create(ctx context.Context, identity *model.Identity, req *model.BookingRequest) (*model.BookingResult, error)
	Get(ctx context.Context, identity *model.Identity, id string) (*model.Booking, error)
	List(ctx context.Context, identity *model.Identity, filter model.BookingFilter) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, identity *model.Identity, id string, update *model.BookingStatusUpdate) (bool, error)
	DailyAvailability(ctx context.Context, identity *model.Identity, resourceID string, date time.Time) (*model.DailyAvailability, error)
	Utilization(ctx context.Context, identity *model.Identity, from, to time.Time) (*model.Utilization, error)
	DashboardStats(ctx context.Context, identity *model.Identity) (*model.DashboardStats, error)
}

// ResourceSource is the read side of the resource catalog.
type ResourceSource interface {
	FindByID(ctx context.Context, tenantID, id string) (*model.Resource, error)
	CountActive(ctx context.Context, tenantID string) (int64, error)
}

// MemberCounter is the read side of the user directory.
type MemberCounter interface {
	CountByRole(ctx context.Context, tenantID, role string) (int64, error)
}

type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, tenantID, resourceID string, start, end time.Time) (bool, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	resources ResourceSource
	members   MemberCounter
	checker   AvailabilityChecker
	expander  *recurrence.Expander
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	resources ResourceSource,
	members MemberCounter,
	checker AvailabilityChecker,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		resources: resources,
		members:   members,
		checker:   checker,
		expander:  recurrence.NewExpander(cfg.MonthlyRecurrence),
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *bookingService) Create(ctx context.Context, identity *model.Identity, req *model.BookingRequest) (*model.BookingResult, error) {
	s.sanitize(req)
	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "tenant_id", identity.TenantID, "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	attempt := &createAttempt{Identity: identity, Request: req, Now: s.now()}
	if err := runRules(ctx, s.creationRules(), attempt); err != nil {
		s.cfg.Log.Info("Booking rejected",
			"tenant_id", identity.TenantID,
			"resource_id", req.ResourceID,
			"reason", err,
		)
		return nil, err
	}

	var occurrences []recurrence.Occurrence
	if req.IsRecurring && req.RecurringPattern != nil {
		var err error
		occurrences, err = s.expander.Expand(req.StartTime.UTC(), req.EndTime.UTC(), req.RecurringPattern)
		if err != nil {
			return nil, apperrors.Validation("Invalid recurring pattern", map[string]any{"error": err.Error()})
		}
	}

	lockID, holder, err := s.acquireResourceLock(ctx, identity.TenantID, req.ResourceID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseResourceLock(context.WithoutCancel(ctx), lockID, holder); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	cost := pricing.CalculateCost(attempt.Resource, req.StartTime, req.EndTime, identity.MembershipTier)
	parent := &model.Booking{
		TenantID:    identity.TenantID,
		UserID:      identity.UserID,
		ResourceID:  req.ResourceID,
		StartTime:   req.StartTime.UTC(),
		EndTime:     req.EndTime.UTC(),
		Status:      config.Confirmed,
		Attendees:   req.Attendees,
		Notes:       req.Notes,
		TotalCost:   &cost,
		IsRecurring: req.IsRecurring,
	}
	if req.IsRecurring {
		parent.RecurringPattern = req.RecurringPattern
	}

	created, err := s.insertIfAvailable(ctx, parent)
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "tenant_id", identity.TenantID, "resource_id", req.ResourceID, "error", err)
		return nil, err
	}
	if !created {
		return nil, apperrors.SlotUnavailable()
	}

	result := &model.BookingResult{Booking: parent}
	if len(occurrences) > 0 {
		result.Series = s.createSeries(ctx, parent, occurrences)
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", parent.ID,
		"tenant_id", parent.TenantID,
		"resource_id", parent.ResourceID,
		"start_time", parent.StartTime,
		"total_cost", cost,
	)

	s.publish(ctx, identity, events.BookingCreated, parent.ID, parent)
	if result.Series != nil {
		s.publish(ctx, identity, events.BookingSeriesCreated, parent.ID, result.Series)
	}
	return result, nil
}

// createSeries stores each occurrence that is still free. Conflicting
// occurrences are skipped and earlier instances are never rolled back.
func (s *bookingService) createSeries(ctx context.Context, parent *model.Booking, occurrences []recurrence.Occurrence) *model.SeriesSummary {
	summary := &model.SeriesSummary{
		Requested:  len(occurrences),
		BookingIDs: []string{},
	}

	for _, occ := range occurrences {
		child := &model.Booking{
			TenantID:        parent.TenantID,
			UserID:          parent.UserID,
			ResourceID:      parent.ResourceID,
			StartTime:       occ.Start,
			EndTime:         occ.End,
			Status:          config.Confirmed,
			Attendees:       parent.Attendees,
			Notes:           parent.Notes,
			TotalCost:       parent.TotalCost,
			IsRecurring:     true,
			ParentBookingID: parent.ID,
		}

		created, err := s.insertIfAvailable(ctx, child)
		if err != nil {
			s.cfg.Log.Warn("Failed to create recurring instance",
				"parent_booking_id", parent.ID,
				"occurrence", occ.Index,
				"error", err,
			)
		}
		if !created {
			summary.Skipped++
			summary.SkippedStarts = append(summary.SkippedStarts, occ.Start)
			continue
		}
		summary.Created++
		summary.BookingIDs = append(summary.BookingIDs, child.ID)
	}

	s.cfg.Log.Info("Recurring series expanded",
		"parent_booking_id", parent.ID,
		"requested", summary.Requested,
		"created", summary.Created,
		"skipped", summary.Skipped,
	)
	return summary
}

// insertIfAvailable checks the slot and inserts the booking in one
// transaction. It reports false without error when the slot is taken.
func (s *bookingService) insertIfAvailable(ctx context.Context, booking *model.Booking) (bool, error) {
	created := false
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		ok, err := s.checker.IsAvailable(sessCtx, booking.TenantID, booking.ResourceID, booking.StartTime, booking.EndTime)
		if err != nil {
			return apperrors.Internal("Failed to check availability", err)
		}
		if !ok {
			return nil
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (s *bookingService) Get(ctx context.Context, identity *model.Identity, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, identity.TenantID, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve booking")
	}

	if !config.IsElevated(identity.Role) && booking.UserID != identity.UserID {
		return nil, apperrors.NotFoundWithID("Booking", id)
	}
	return booking, nil
}

// List returns the caller's view of the tenant's bookings ordered by start
// time. Members only ever see their own bookings.
func (s *bookingService) List(ctx context.Context, identity *model.Identity, filter model.BookingFilter) ([]*model.Booking, error) {
	if !config.IsElevated(identity.Role) {
		filter.UserID = identity.UserID
	}

	bookings, err := s.repo.List(ctx, identity.TenantID, filter)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "tenant_id", identity.TenantID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

// UpdateStatus overwrites the booking status. Any transition is allowed.
func (s *bookingService) UpdateStatus(ctx context.Context, identity *model.Identity, id string, update *model.BookingStatusUpdate) (bool, error) {
	if id == "" {
		return false, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	update.Notes = sanitizer.NormalizeNotes(update.Notes)
	if err := s.validator.ValidateStatusUpdate(update); err != nil {
		s.cfg.Log.Warn("Booking status validation failed", "id", id, "error", err)
		return false, apperrors.Validation("Invalid status update", map[string]any{"error": err.Error()})
	}

	ownerFilter := ""
	if !config.IsElevated(identity.Role) {
		ownerFilter = identity.UserID
	}

	modified, err := s.repo.UpdateStatus(ctx, identity.TenantID, id, ownerFilter, update.Status, update.Notes)
	if err != nil {
		return false, s.mapRepoError(err, id, "Failed to update booking")
	}

	s.cfg.Log.Info("Booking status updated",
		"id", id,
		"tenant_id", identity.TenantID,
		"status", update.Status,
		"modified", modified,
	)
	if modified {
		s.publish(ctx, identity, events.BookingStatusChanged, id, map[string]string{"status": update.Status})
	}
	return modified, nil
}

// DailyAvailability lists the blocking bookings that start on date's UTC day.
func (s *bookingService) DailyAvailability(ctx context.Context, identity *model.Identity, resourceID string, date time.Time) (*model.DailyAvailability, error) {
	if resourceID == "" {
		return nil, apperrors.InvalidInput("Resource ID cannot be empty")
	}

	y, m, d := date.UTC().Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	bookings, err := s.repo.FindStartingBetween(ctx, identity.TenantID, resourceID, from, to, config.BlockingStatuses, s.cfg.DailyAvailabilityLimit)
	if err != nil {
		s.cfg.Log.Error("Failed to load daily availability", "resource_id", resourceID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve availability", err)
	}

	slots := make([]model.BookedSlot, 0, len(bookings))
	for _, b := range bookings {
		slots = append(slots, model.BookedSlot{
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
			UserID:    b.UserID,
			Status:    b.Status,
		})
	}

	return &model.DailyAvailability{
		Date:       from.Format("2006-01-02"),
		ResourceID: resourceID,
		Bookings:   slots,
	}, nil
}

func (s *bookingService) Utilization(ctx context.Context, identity *model.Identity, from, to time.Time) (*model.Utilization, error) {
	if !config.IsElevated(identity.Role) {
		return nil, apperrors.Forbidden("Utilization is available to staff and administrators only")
	}
	if !to.After(from) {
		return nil, apperrors.InvalidInput("end_date must be after start_date")
	}

	var confirmed, active int64
	var errConfirmed, errActive error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		confirmed, errConfirmed = s.repo.CountByStatusBetween(ctx, identity.TenantID, config.Confirmed, from, to)
		if errConfirmed != nil {
			s.cfg.Log.Error("Failed to count confirmed bookings", "tenant_id", identity.TenantID, "error", errConfirmed)
			errConfirmed = apperrors.Internal("Failed to count bookings", errConfirmed)
		}
	}()

	go func() {
		defer wg.Done()
		active, errActive = s.resources.CountActive(ctx, identity.TenantID)
		if errActive != nil {
			s.cfg.Log.Error("Failed to count active resources", "tenant_id", identity.TenantID, "error", errActive)
			errActive = apperrors.Internal("Failed to count resources", errActive)
		}
	}()

	wg.Wait()
	if errConfirmed != nil {
		return nil, errConfirmed
	}
	if errActive != nil {
		return nil, errActive
	}

	return &model.Utilization{
		From:              from,
		To:                to,
		ConfirmedBookings: confirmed,
		ActiveResources:   active,
	}, nil
}

func (s *bookingService) DashboardStats(ctx context.Context, identity *model.Identity) (*model.DashboardStats, error) {
	if !config.IsElevated(identity.Role) {
		return nil, apperrors.Forbidden("Dashboard statistics are available to staff and administrators only")
	}

	tenantID := identity.TenantID
	today := s.now().UTC().Truncate(24 * time.Hour)
	stats := &model.DashboardStats{}
	var err error

	if stats.TotalMembers, err = s.members.CountByRole(ctx, tenantID, config.RoleMember); err != nil {
		return nil, s.statsError("members", tenantID, err)
	}
	if stats.TotalResources, err = s.resources.CountActive(ctx, tenantID); err != nil {
		return nil, s.statsError("resources", tenantID, err)
	}
	if stats.TodayBookings, err = s.repo.CountByStatusBetween(ctx, tenantID, config.Confirmed, today, today.AddDate(0, 0, 1)); err != nil {
		return nil, s.statsError("bookings", tenantID, err)
	}
	if stats.RecentBookings, err = s.repo.ListRecent(ctx, tenantID, recentBookingsShown); err != nil {
		return nil, s.statsError("recent bookings", tenantID, err)
	}
	return stats, nil
}

func (s *bookingService) statsError(what, tenantID string, err error) error {
	s.cfg.Log.Error("Failed to load dashboard statistics", "part", what, "tenant_id", tenantID, "error", err)
	return apperrors.Internal("Failed to load dashboard statistics", err)
}

// --- Helpers ---

func (s *bookingService) sanitize(req *model.BookingRequest) {
	req.ResourceID = strings.TrimSpace(req.ResourceID)
	req.Notes = sanitizer.NormalizeNotes(req.Notes)
	if req.Attendees == 0 {
		req.Attendees = defaultAttendees
	}
	if req.RecurringPattern != nil {
		req.RecurringPattern.Type = sanitizer.NormalizeLabel(req.RecurringPattern.Type)
	}
}

func (s *bookingService) mapRepoError(err error, id, message string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return apperrors.Internal(message, err)
}

func (s *bookingService) publish(ctx context.Context, identity *model.Identity, eventType, entityID string, data any) {
	events.PublishAsync(ctx, s.publisher, s.cfg.Log, events.Event{
		Type:       eventType,
		TenantID:   identity.TenantID,
		ActorID:    identity.UserID,
		EntityID:   entityID,
		OccurredAt: s.now().UTC(),
		Data:       data,
	}, eventPublishTimeout)
}

func lockKey(tenantID, resourceID string) string {
	return fmt.Sprintf("booking_lock_%s_%s", tenantID, resourceID)
}

// acquireResourceLock inserts the advisory lock for the resource. The lock is
// held across the whole series so concurrent requests cannot interleave.
func (s *bookingService) acquireResourceLock(ctx context.Context, tenantID, resourceID string) (string, string, error) {
	lockID := lockKey(tenantID, resourceID)
	holder := uuid.NewString()

	lock := &model.BookingLock{
		ID:        lockID,
		Holder:    holder,
		ExpiresAt: s.now().UTC().Add(s.cfg.BookingLockTTL),
	}

	if _, err := s.lockRepo.Create(ctx, lock); err != nil {
		if mongotx.IsDuplicateKey(err) {
			return "", "", apperrors.Conflict("This resource is currently being booked by another request. Please try again.").
				WithDetails(map[string]any{"reason": bookingserrors.ErrLockHeld.Error()})
		}
		return "", "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, holder, nil
}

func (s *bookingService) releaseResourceLock(ctx context.Context, lockID, holder string) error {
	return s.lockRepo.Delete(ctx, lockID, holder)
}

var _ AvailabilityChecker = (*availability.Checker)(nil)
