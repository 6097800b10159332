package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"spacehub/pkg/config"
	apperrors "spacehub/pkg/errors"
	"spacehub/pkg/logger"
	"spacehub/pkg/middleware"
	"spacehub/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockResourceService struct {
	createFunc func(ctx context.Context, identity *model.Identity, req *model.ResourceCreate) (*model.Resource, error)
	listFunc   func(ctx context.Context, identity *model.Identity, filter model.ResourceFilter) ([]*model.Resource, error)
	getFunc    func(ctx context.Context, identity *model.Identity, id string) (*model.Resource, error)
}

func (m *mockResourceService) Create(ctx context.Context, identity *model.Identity, req *model.ResourceCreate) (*model.Resource, error) {
	return m.createFunc(ctx, identity, req)
}

func (m *mockResourceService) Get(ctx context.Context, identity *model.Identity, id string) (*model.Resource, error) {
	return m.getFunc(ctx, identity, id)
}

func (m *mockResourceService) List(ctx context.Context, identity *model.Identity, filter model.ResourceFilter) ([]*model.Resource, error) {
	return m.listFunc(ctx, identity, filter)
}

func (m *mockResourceService) Update(context.Context, *model.Identity, string, *model.ResourceUpdate) (*model.Resource, error) {
	return &model.Resource{}, nil
}

func (m *mockResourceService) Deactivate(context.Context, *model.Identity, string) error {
	return nil
}

func (m *mockResourceService) SetAvailability(context.Context, *model.Identity, string, *model.AvailabilityRequest) ([]*model.AvailabilitySchedule, error) {
	return []*model.AvailabilitySchedule{}, nil
}

func (m *mockResourceService) GetAvailability(context.Context, *model.Identity, string) ([]*model.AvailabilitySchedule, error) {
	return []*model.AvailabilitySchedule{}, nil
}

func serve(svc *mockResourceService, identity *model.Identity, method, target, body string) *httptest.ResponseRecorder {
	router := httprouter.New()
	NewResourceHandler(svc, 1000, logger.Discard()).RegisterRoutes(router)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if identity != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), identity))
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

var (
	staff  = &model.Identity{UserID: "s", TenantID: "t-1", Role: config.RoleStaff}
	member = &model.Identity{UserID: "m", TenantID: "t-1", Role: config.RoleMember}
)

func TestCreate_RequiresElevatedRole(t *testing.T) {
	svc := &mockResourceService{
		createFunc: func(_ context.Context, _ *model.Identity, req *model.ResourceCreate) (*model.Resource, error) {
			return &model.Resource{ID: "r-1", Name: req.Name}, nil
		},
	}

	rr := serve(svc, member, http.MethodPost, "/api/resources", `{"name":"Desk","type":"desk"}`)
	if rr.Code != http.StatusForbidden {
		t.Errorf("member: status = %d, want 403", rr.Code)
	}

	rr = serve(svc, staff, http.MethodPost, "/api/resources", `{"name":"Desk","type":"desk"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("staff: status = %d, body %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"id":"r-1"`) {
		t.Errorf("unexpected body %s", rr.Body.String())
	}

	rr = serve(svc, staff, http.MethodPost, "/api/resources", `not json`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad body: status = %d, want 400", rr.Code)
	}
}

func TestList_ParsesQuery(t *testing.T) {
	var got model.ResourceFilter
	svc := &mockResourceService{
		listFunc: func(_ context.Context, _ *model.Identity, f model.ResourceFilter) ([]*model.Resource, error) {
			got = f
			return []*model.Resource{}, nil
		},
	}

	rr := serve(svc, member, http.MethodGet, "/api/resources?type=desk&amenity=wifi&is_bookable=true&limit=20", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if got.Type != "desk" || got.Amenity != "wifi" || got.IsBookable == nil || !*got.IsBookable || got.Limit != 20 {
		t.Errorf("unexpected filter %+v", got)
	}

	rr = serve(svc, member, http.MethodGet, "/api/resources?is_bookable=maybe", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("invalid bool: status = %d, want 400", rr.Code)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc := &mockResourceService{
		getFunc: func(_ context.Context, _ *model.Identity, id string) (*model.Resource, error) {
			return nil, apperrors.NotFoundWithID("Resource", id)
		},
	}

	rr := serve(svc, member, http.MethodGet, "/api/resources/abc", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestAvailabilityRoutes(t *testing.T) {
	svc := &mockResourceService{}

	rr := serve(svc, member, http.MethodPut, "/api/resources/r-1/availability", `{"slots":[]}`)
	if rr.Code != http.StatusForbidden {
		t.Errorf("member put: status = %d, want 403", rr.Code)
	}
	rr = serve(svc, staff, http.MethodPut, "/api/resources/r-1/availability", `{"slots":[]}`)
	if rr.Code != http.StatusOK {
		t.Errorf("staff put: status = %d, want 200", rr.Code)
	}
	rr = serve(svc, member, http.MethodGet, "/api/resources/r-1/availability", "")
	if rr.Code != http.StatusOK {
		t.Errorf("member get: status = %d, want 200", rr.Code)
	}
	rr = serve(svc, staff, http.MethodDelete, "/api/resources/r-1", "")
	if rr.Code != http.StatusNoContent {
		t.Errorf("delete: status = %d, want 204", rr.Code)
	}
}
