package service

import (
	"context"
	"errors"

	resourceserrors "spacehub/internal/resources/errors"
	"spacehub/internal/resources/repository"
	"spacehub/internal/resources/validator"
	"spacehub/pkg/config"
	apperrors "spacehub/pkg/errors"
	"spacehub/pkg/model"
	"spacehub/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type ResourceService interface {
	Create(ctx context.Context, identity *model.Identity, req *model.ResourceCreate) (*model.Resource, error)
	Get(ctx context.Context, identity *model.Identity, id string) (*model.Resource, error)
	List(ctx context.Context, identity *model.Identity, filter model.ResourceFilter) ([]*model.Resource, error)
	Update(ctx context.Context, identity *model.Identity, id string, req *model.ResourceUpdate) (*model.Resource, error)
	Deactivate(ctx context.Context, identity *model.Identity, id string) error
	SetAvailability(ctx context.Context, identity *model.Identity, resourceID string, req *model.AvailabilityRequest) ([]*model.AvailabilitySchedule, error)
	GetAvailability(ctx context.Context, identity *model.Identity, resourceID string) ([]*model.AvailabilitySchedule, error)
}

type resourceService struct {
	repo      repository.ResourceRepository
	schedules repository.ScheduleRepository
	validator *validator.ResourceValidator
	cfg       *config.Config
}

func NewResourceService(
	repo repository.ResourceRepository,
	schedules repository.ScheduleRepository,
	validator *validator.ResourceValidator,
	cfg *config.Config,
) ResourceService {
	return &resourceService{
		repo:      repo,
		schedules: schedules,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *resourceService) Create(ctx context.Context, identity *model.Identity, req *model.ResourceCreate) (*model.Resource, error) {
	if err := requireElevated(identity); err != nil {
		return nil, err
	}

	s.sanitizeCreate(req)
	if err := s.validator.ValidateCreate(req); err != nil {
		s.cfg.Log.Warn("Resource validation failed", "tenant_id", identity.TenantID, "error", err)
		return nil, apperrors.Validation("Resource validation failed", map[string]any{"error": err.Error()})
	}

	if req.ParentID != "" {
		if _, err := s.repo.FindByID(ctx, identity.TenantID, req.ParentID); err != nil {
			return nil, s.mapRepoError(err, req.ParentID, "Failed to check parent resource")
		}
	}

	resource := &model.Resource{
		TenantID:              identity.TenantID,
		Name:                  req.Name,
		Type:                  req.Type,
		Description:           req.Description,
		ParentID:              req.ParentID,
		Capacity:              req.Capacity,
		Amenities:             req.Amenities,
		HourlyRate:            req.HourlyRate,
		DailyRate:             req.DailyRate,
		MemberDiscount:        req.MemberDiscount,
		PremiumMemberDiscount: req.PremiumMemberDiscount,
		IsBookable:            true,
		IsActive:              true,
		MinBookingDuration:    req.MinBookingDuration,
		MaxBookingDuration:    req.MaxBookingDuration,
		AdvanceBookingDays:    req.AdvanceBookingDays,
	}
	if req.IsBookable != nil {
		resource.IsBookable = *req.IsBookable
	}
	if resource.Amenities == nil {
		resource.Amenities = []string{}
	}

	if err := s.repo.Create(ctx, resource); err != nil {
		s.cfg.Log.Error("Failed to create resource", "tenant_id", identity.TenantID, "error", err)
		return nil, apperrors.Internal("Failed to create resource", err)
	}

	s.cfg.Log.Info("Resource created successfully",
		"id", resource.ID,
		"tenant_id", resource.TenantID,
		"type", resource.Type,
	)
	return resource, nil
}

func (s *resourceService) Get(ctx context.Context, identity *model.Identity, id string) (*model.Resource, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Resource ID cannot be empty")
	}

	resource, err := s.repo.FindByID(ctx, identity.TenantID, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve resource")
	}
	return resource, nil
}

func (s *resourceService) List(ctx context.Context, identity *model.Identity, filter model.ResourceFilter) ([]*model.Resource, error) {
	filter.Type = sanitizer.NormalizeIdentifier(filter.Type)
	filter.Amenity = sanitizer.NormalizeLabel(filter.Amenity)

	resources, err := s.repo.List(ctx, identity.TenantID, filter)
	if err != nil {
		s.cfg.Log.Error("Failed to list resources", "tenant_id", identity.TenantID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve resources", err)
	}
	return resources, nil
}

func (s *resourceService) Update(ctx context.Context, identity *model.Identity, id string, req *model.ResourceUpdate) (*model.Resource, error) {
	if err := requireElevated(identity); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Resource ID cannot be empty")
	}

	s.sanitizeUpdate(req)
	if err := s.validator.ValidateUpdate(req); err != nil {
		s.cfg.Log.Warn("Resource update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByID(ctx, identity.TenantID, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to check resource existence")
	}
	if req.ParentID != nil && *req.ParentID == id {
		return nil, apperrors.InvalidInput("A resource cannot be its own parent")
	}

	merged := mergeResourceUpdates(existing, req)
	if err := s.validator.ValidateResource(merged); err != nil {
		s.cfg.Log.Warn("Merged resource validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Resource validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, identity.TenantID, id, merged); err != nil {
		return nil, s.mapRepoError(err, id, "Failed to update resource")
	}

	s.cfg.Log.Info("Resource updated successfully", "id", id, "tenant_id", identity.TenantID)
	return merged, nil
}

func (s *resourceService) Deactivate(ctx context.Context, identity *model.Identity, id string) error {
	if err := requireElevated(identity); err != nil {
		return err
	}
	if id == "" {
		return apperrors.InvalidInput("Resource ID cannot be empty")
	}

	if err := s.repo.Deactivate(ctx, identity.TenantID, id); err != nil {
		return s.mapRepoError(err, id, "Failed to deactivate resource")
	}

	s.cfg.Log.Info("Resource deactivated", "id", id, "tenant_id", identity.TenantID)
	return nil
}

// SetAvailability replaces the weekly schedule of a resource atomically.
func (s *resourceService) SetAvailability(ctx context.Context, identity *model.Identity, resourceID string, req *model.AvailabilityRequest) ([]*model.AvailabilitySchedule, error) {
	if err := requireElevated(identity); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateAvailability(req); err != nil {
		s.cfg.Log.Warn("Availability validation failed", "resource_id", resourceID, "error", err)
		return nil, apperrors.Validation("Availability validation failed", map[string]any{"error": err.Error()})
	}

	rows := make([]*model.AvailabilitySchedule, 0, len(req.Slots))
	for _, slot := range req.Slots {
		rows = append(rows, &model.AvailabilitySchedule{
			DayOfWeek: slot.DayOfWeek,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		})
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.repo.FindByID(sessCtx, identity.TenantID, resourceID); err != nil {
			return s.mapRepoError(err, resourceID, "Failed to check resource existence")
		}
		if err := s.schedules.Replace(sessCtx, identity.TenantID, resourceID, rows); err != nil {
			return apperrors.Internal("Failed to store availability schedule", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Availability schedule replaced",
		"resource_id", resourceID,
		"tenant_id", identity.TenantID,
		"rows", len(rows),
	)
	return s.schedules.FindByResource(ctx, identity.TenantID, resourceID)
}

func (s *resourceService) GetAvailability(ctx context.Context, identity *model.Identity, resourceID string) ([]*model.AvailabilitySchedule, error) {
	if _, err := s.repo.FindByID(ctx, identity.TenantID, resourceID); err != nil {
		return nil, s.mapRepoError(err, resourceID, "Failed to check resource existence")
	}

	rows, err := s.schedules.FindByResource(ctx, identity.TenantID, resourceID)
	if err != nil {
		s.cfg.Log.Error("Failed to load availability schedule", "resource_id", resourceID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve availability schedule", err)
	}
	return rows, nil
}

// --- Helpers ---

func requireElevated(identity *model.Identity) error {
	if !config.IsElevated(identity.Role) {
		return apperrors.Forbidden("Only staff and administrators can manage resources")
	}
	return nil
}

func (s *resourceService) mapRepoError(err error, id, message string) error {
	if errors.Is(err, resourceserrors.ErrNotFound) || errors.Is(err, resourceserrors.ErrInvalidID) {
		return apperrors.NotFoundWithID("Resource", id)
	}
	if apperrors.IsAppError(err) {
		return err
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return apperrors.Internal(message, err)
}

func (s *resourceService) sanitizeCreate(req *model.ResourceCreate) {
	req.Name = sanitizer.NormalizeName(req.Name)
	req.Type = sanitizer.NormalizeIdentifier(req.Type)
	req.Description = sanitizer.NormalizeNotes(req.Description)
	req.Amenities = sanitizer.NormalizeAmenities(req.Amenities)
}

func (s *resourceService) sanitizeUpdate(req *model.ResourceUpdate) {
	req.Name = sanitizer.NormalizeName(req.Name)
	req.Type = sanitizer.NormalizeIdentifier(req.Type)
	if req.Description != nil {
		d := sanitizer.NormalizeNotes(*req.Description)
		req.Description = &d
	}
	if req.Amenities != nil {
		a := sanitizer.NormalizeAmenities(*req.Amenities)
		req.Amenities = &a
	}
}

func mergeResourceUpdates(existing *model.Resource, updates *model.ResourceUpdate) *model.Resource {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Type != "" {
		merged.Type = updates.Type
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	if updates.ParentID != nil {
		merged.ParentID = *updates.ParentID
	}
	if updates.Capacity != nil {
		merged.Capacity = updates.Capacity
	}
	if updates.Amenities != nil {
		merged.Amenities = *updates.Amenities
	}
	if updates.HourlyRate != nil {
		merged.HourlyRate = updates.HourlyRate
	}
	if updates.DailyRate != nil {
		merged.DailyRate = updates.DailyRate
	}
	if updates.MemberDiscount != nil {
		merged.MemberDiscount = updates.MemberDiscount
	}
	if updates.PremiumMemberDiscount != nil {
		merged.PremiumMemberDiscount = updates.PremiumMemberDiscount
	}
	if updates.IsBookable != nil {
		merged.IsBookable = *updates.IsBookable
	}
	if updates.MinBookingDuration != nil {
		merged.MinBookingDuration = updates.MinBookingDuration
	}
	if updates.MaxBookingDuration != nil {
		merged.MaxBookingDuration = updates.MaxBookingDuration
	}
	if updates.AdvanceBookingDays != nil {
		merged.AdvanceBookingDays = updates.AdvanceBookingDays
	}

	return &merged
}
