package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	resourceserrors "spacehub/internal/resources/errors"
	apperrors "spacehub/pkg/errors"
	"spacehub/pkg/model"
)

// createAttempt is the state threaded through the creation rules. Rules may
// fill in fields for the rules after them (the resource lookup does).
type createAttempt struct {
	Identity *model.Identity
	Request  *model.BookingRequest
	Resource *model.Resource
	Now      time.Time
}

type rule struct {
	Name  string
	Check func(ctx context.Context, a *createAttempt) error
}

// runRules executes rules in order and stops at the first failure.
func runRules(ctx context.Context, rules []rule, a *createAttempt) error {
	for _, r := range rules {
		if err := r.Check(ctx, a); err != nil {
			return fmt.Errorf("%s rule: %w", r.Name, err)
		}
	}
	return nil
}

// creationRules lists the pre-lock checks. The slot check runs later inside
// the transaction, which keeps the failure order: resource, minimum duration,
// maximum duration, advance window, slot.
func (s *bookingService) creationRules() []rule {
	return []rule{
		{Name: "resource", Check: s.loadBookableResource},
		{Name: "min_duration", Check: checkMinDuration},
		{Name: "max_duration", Check: checkMaxDuration},
		{Name: "advance_window", Check: checkAdvanceWindow},
	}
}

func (s *bookingService) loadBookableResource(ctx context.Context, a *createAttempt) error {
	resource, err := s.resources.FindByID(ctx, a.Identity.TenantID, a.Request.ResourceID)
	if err != nil {
		if errors.Is(err, resourceserrors.ErrNotFound) || errors.Is(err, resourceserrors.ErrInvalidID) {
			return apperrors.ResourceUnavailable()
		}
		return apperrors.Internal("Failed to load resource", err)
	}
	if !resource.Bookable() {
		return apperrors.ResourceUnavailable()
	}
	a.Resource = resource
	return nil
}

func checkMinDuration(_ context.Context, a *createAttempt) error {
	limit := a.Resource.MinBookingDuration
	if limit == nil {
		return nil
	}
	if a.Request.EndTime.Sub(a.Request.StartTime) < time.Duration(*limit)*time.Minute {
		return apperrors.DurationTooShort(*limit)
	}
	return nil
}

func checkMaxDuration(_ context.Context, a *createAttempt) error {
	limit := a.Resource.MaxBookingDuration
	if limit == nil {
		return nil
	}
	if a.Request.EndTime.Sub(a.Request.StartTime) > time.Duration(*limit)*time.Minute {
		return apperrors.DurationTooLong(*limit)
	}
	return nil
}

func checkAdvanceWindow(_ context.Context, a *createAttempt) error {
	days := a.Resource.AdvanceBookingDays
	if days == nil {
		return nil
	}
	if a.Request.StartTime.After(a.Now.AddDate(0, 0, *days)) {
		return apperrors.BookingTooFarInAdvance(*days)
	}
	return nil
}
