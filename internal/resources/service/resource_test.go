package service

import (
	"context"
	"errors"
	"testing"

	resourceserrors "spacehub/internal/resources/errors"
	"spacehub/internal/resources/validator"
	"spacehub/pkg/config"
	mongotx "spacehub/pkg/db/mongo"
	apperrors "spacehub/pkg/errors"
	"spacehub/pkg/logger"
	"spacehub/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type mockResourceRepo struct {
	createFunc     func(ctx context.Context, r *model.Resource) error
	findByIDFunc   func(ctx context.Context, tenantID, id string) (*model.Resource, error)
	listFunc       func(ctx context.Context, tenantID string, f model.ResourceFilter) ([]*model.Resource, error)
	updateFunc     func(ctx context.Context, tenantID, id string, r *model.Resource) error
	deactivateFunc func(ctx context.Context, tenantID, id string) error
}

func (m *mockResourceRepo) Create(ctx context.Context, r *model.Resource) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, r)
	}
	r.ID = "new-id"
	return nil
}

func (m *mockResourceRepo) FindByID(ctx context.Context, tenantID, id string) (*model.Resource, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, tenantID, id)
	}
	return nil, resourceserrors.ErrNotFound
}

func (m *mockResourceRepo) List(ctx context.Context, tenantID string, f model.ResourceFilter) ([]*model.Resource, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, tenantID, f)
	}
	return []*model.Resource{}, nil
}

func (m *mockResourceRepo) Update(ctx context.Context, tenantID, id string, r *model.Resource) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, tenantID, id, r)
	}
	return nil
}

func (m *mockResourceRepo) Deactivate(ctx context.Context, tenantID, id string) error {
	if m.deactivateFunc != nil {
		return m.deactivateFunc(ctx, tenantID, id)
	}
	return nil
}

func (m *mockResourceRepo) CountActive(context.Context, string) (int64, error) { return 0, nil }

func (m *mockResourceRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockScheduleRepo struct {
	replaced []*model.AvailabilitySchedule
	rows     []*model.AvailabilitySchedule
	err      error
}

func (m *mockScheduleRepo) Replace(_ context.Context, tenantID, resourceID string, rows []*model.AvailabilitySchedule) error {
	if m.err != nil {
		return m.err
	}
	for _, r := range rows {
		r.TenantID, r.ResourceID = tenantID, resourceID
	}
	m.replaced = rows
	m.rows = rows
	return nil
}

func (m *mockScheduleRepo) FindByResource(context.Context, string, string) ([]*model.AvailabilitySchedule, error) {
	return m.rows, nil
}

func (m *mockScheduleRepo) FindByResourceAndDay(context.Context, string, string, int) ([]*model.AvailabilitySchedule, error) {
	return m.rows, nil
}

var (
	admin  = &model.Identity{UserID: "a", TenantID: "t-1", Role: config.RoleTenantAdmin}
	member = &model.Identity{UserID: "m", TenantID: "t-1", Role: config.RoleMember}
)

func newService(repo *mockResourceRepo, schedules *mockScheduleRepo) ResourceService {
	cfg := &config.Config{Log: logger.Discard()}
	return NewResourceService(repo, schedules, validator.NewResourceValidator(cfg.Log), cfg)
}

func intPtr(v int) *int { return &v }

func TestCreate(t *testing.T) {
	var stored *model.Resource
	repo := &mockResourceRepo{
		createFunc: func(_ context.Context, r *model.Resource) error {
			stored = r
			r.ID = "r-1"
			return nil
		},
	}
	svc := newService(repo, &mockScheduleRepo{})

	req := &model.ResourceCreate{
		Name:      "  Board   Room ",
		Type:      "Meeting Room",
		Amenities: []string{"Projector", "projector ", "WiFi"},
	}
	res, err := svc.Create(context.Background(), admin, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stored == nil || res.ID != "r-1" {
		t.Fatalf("resource not stored: %+v", res)
	}
	if res.TenantID != "t-1" || !res.IsActive || !res.IsBookable {
		t.Errorf("defaults not applied: %+v", res)
	}
	if res.Name != "Board Room" || res.Type != "meeting_room" {
		t.Errorf("sanitization not applied: name=%q type=%q", res.Name, res.Type)
	}
	if len(res.Amenities) != 2 {
		t.Errorf("amenities should be deduplicated, got %v", res.Amenities)
	}
}

func TestCreate_Rejections(t *testing.T) {
	svc := newService(&mockResourceRepo{}, &mockScheduleRepo{})

	_, err := svc.Create(context.Background(), member, &model.ResourceCreate{Name: "Desk", Type: "desk"})
	if !apperrors.HasCode(err, apperrors.CodeForbidden) {
		t.Errorf("member create should be forbidden, got %v", err)
	}

	_, err = svc.Create(context.Background(), admin, &model.ResourceCreate{Type: "desk"})
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Errorf("missing name should fail validation, got %v", err)
	}

	_, err = svc.Create(context.Background(), admin, &model.ResourceCreate{Name: "Desk", Type: "desk", ParentID: "missing"})
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("unknown parent should be NOT_FOUND, got %v", err)
	}
}

func TestUpdate_MergesAndValidates(t *testing.T) {
	existing := &model.Resource{
		ID: "r-1", TenantID: "t-1", Name: "Room", Type: "room",
		IsActive: true, IsBookable: true, MaxBookingDuration: intPtr(120),
	}
	var saved *model.Resource
	repo := &mockResourceRepo{
		findByIDFunc: func(context.Context, string, string) (*model.Resource, error) {
			cp := *existing
			return &cp, nil
		},
		updateFunc: func(_ context.Context, _, _ string, r *model.Resource) error {
			saved = r
			return nil
		},
	}
	svc := newService(repo, &mockScheduleRepo{})

	notBookable := false
	updated, err := svc.Update(context.Background(), admin, "r-1", &model.ResourceUpdate{IsBookable: &notBookable, Capacity: intPtr(8)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved == nil || updated.IsBookable || *updated.Capacity != 8 || updated.Name != "Room" {
		t.Errorf("unexpected merge result %+v", updated)
	}

	_, err = svc.Update(context.Background(), admin, "r-1", &model.ResourceUpdate{MinBookingDuration: intPtr(240)})
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Errorf("min above stored max should fail, got %v", err)
	}

	_, err = svc.Update(context.Background(), admin, "r-1", &model.ResourceUpdate{ParentID: strPtr("r-1")})
	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("self parent should be rejected, got %v", err)
	}
}

func strPtr(s string) *string { return &s }

func TestGet_MapsRepositoryErrors(t *testing.T) {
	tests := []struct {
		name     string
		repoErr  error
		wantCode string
	}{
		{"not found", resourceserrors.ErrNotFound, apperrors.CodeNotFound},
		{"invalid id", resourceserrors.ErrInvalidID, apperrors.CodeNotFound},
		{"database down", errors.New("connection refused"), apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockResourceRepo{
				findByIDFunc: func(context.Context, string, string) (*model.Resource, error) { return nil, tt.repoErr },
			}
			_, err := newService(repo, &mockScheduleRepo{}).Get(context.Background(), member, "x")
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Errorf("got %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestList_NormalizesFilter(t *testing.T) {
	var got model.ResourceFilter
	var gotTenant string
	repo := &mockResourceRepo{
		listFunc: func(_ context.Context, tenantID string, f model.ResourceFilter) ([]*model.Resource, error) {
			gotTenant, got = tenantID, f
			return []*model.Resource{}, nil
		},
	}

	_, err := newService(repo, &mockScheduleRepo{}).List(context.Background(), member, model.ResourceFilter{Type: "Meeting Room", Amenity: " WiFi "})
	if err != nil {
		t.Fatal(err)
	}
	if gotTenant != "t-1" || got.Type != "meeting_room" || got.Amenity != "wifi" {
		t.Errorf("unexpected filter %s %+v", gotTenant, got)
	}
}

func TestSetAvailability(t *testing.T) {
	repo := &mockResourceRepo{
		findByIDFunc: func(_ context.Context, _, id string) (*model.Resource, error) {
			if id != "r-1" {
				return nil, resourceserrors.ErrNotFound
			}
			return &model.Resource{ID: id}, nil
		},
	}
	schedules := &mockScheduleRepo{}
	svc := newService(repo, schedules)

	req := &model.AvailabilityRequest{Slots: []model.AvailabilitySlot{
		{DayOfWeek: 0, StartTime: "09:00", EndTime: "17:00"},
		{DayOfWeek: 5, StartTime: "10:00", EndTime: "14:00"},
	}}

	rows, err := svc.SetAvailability(context.Background(), admin, "r-1", req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 || schedules.replaced[0].ResourceID != "r-1" {
		t.Errorf("unexpected rows %+v", rows)
	}

	if _, err := svc.SetAvailability(context.Background(), admin, "missing", req); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("unknown resource should be NOT_FOUND, got %v", err)
	}
	if _, err := svc.SetAvailability(context.Background(), member, "r-1", req); !apperrors.HasCode(err, apperrors.CodeForbidden) {
		t.Errorf("member should be forbidden, got %v", err)
	}

	bad := &model.AvailabilityRequest{Slots: []model.AvailabilitySlot{{DayOfWeek: 0, StartTime: "17:00", EndTime: "09:00"}}}
	if _, err := svc.SetAvailability(context.Background(), admin, "r-1", bad); !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Errorf("inverted window should fail validation, got %v", err)
	}
}

func TestDeactivate(t *testing.T) {
	called := false
	repo := &mockResourceRepo{
		deactivateFunc: func(_ context.Context, tenantID, id string) error {
			called = tenantID == "t-1" && id == "r-1"
			return nil
		},
	}
	svc := newService(repo, &mockScheduleRepo{})

	if err := svc.Deactivate(context.Background(), admin, "r-1"); err != nil || !called {
		t.Fatalf("deactivate failed: %v called=%v", err, called)
	}
	if err := svc.Deactivate(context.Background(), member, "r-1"); !apperrors.HasCode(err, apperrors.CodeForbidden) {
		t.Errorf("member should be forbidden, got %v", err)
	}
}
