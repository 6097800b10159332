package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"spacehub/internal/industry"
	"spacehub/pkg/config"
	apperrors "spacehub/pkg/errors"
	"spacehub/pkg/logger"
	"spacehub/pkg/middleware"
	"spacehub/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockTenantService struct {
	getModuleFunc    func(ctx context.Context, identity *model.Identity) (*industry.TenantModule, error)
	terminologyFunc  func(ctx context.Context, identity *model.Identity, terms []string) (map[string]string, error)
	updateModuleFunc func(ctx context.Context, identity *model.Identity, req *model.TenantModuleUpdate) (*industry.TenantModule, error)
}

func (m *mockTenantService) GetModule(ctx context.Context, identity *model.Identity) (*industry.TenantModule, error) {
	return m.getModuleFunc(ctx, identity)
}

func (m *mockTenantService) Terminology(ctx context.Context, identity *model.Identity, terms []string) (map[string]string, error) {
	return m.terminologyFunc(ctx, identity, terms)
}

func (m *mockTenantService) UpdateModule(ctx context.Context, identity *model.Identity, req *model.TenantModuleUpdate) (*industry.TenantModule, error) {
	return m.updateModuleFunc(ctx, identity, req)
}

func (m *mockTenantService) AvailableModules() []string {
	return []string{"coworking", "hotel"}
}

var admin = &model.Identity{UserID: "a", TenantID: "t-1", Role: config.RoleTenantAdmin}

func serve(svc *mockTenantService, identity *model.Identity, method, target, body string) *httptest.ResponseRecorder {
	router := httprouter.New()
	NewTenantHandler(svc, logger.Discard()).RegisterRoutes(router)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if identity != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), identity))
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestTerminology_SplitsTerms(t *testing.T) {
	var got []string
	svc := &mockTenantService{
		terminologyFunc: func(_ context.Context, _ *model.Identity, terms []string) (map[string]string, error) {
			got = terms
			return map[string]string{"resource": "venue"}, nil
		},
	}

	rr := serve(svc, admin, http.MethodGet, "/api/tenant/terminology?terms=resource,booking", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if !reflect.DeepEqual(got, []string{"resource", "booking"}) {
		t.Errorf("service received %v", got)
	}
	if !strings.Contains(rr.Body.String(), `"resource":"venue"`) {
		t.Errorf("unexpected body %s", rr.Body.String())
	}

	rr = serve(svc, admin, http.MethodGet, "/api/tenant/terminology", "")
	if rr.Code != http.StatusOK || got != nil {
		t.Errorf("empty terms: status %d, terms %v", rr.Code, got)
	}
}

func TestGetModule_Unauthenticated(t *testing.T) {
	rr := serve(&mockTenantService{}, nil, http.MethodGet, "/api/tenant/module", "")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

func TestUpdateModule(t *testing.T) {
	svc := &mockTenantService{
		updateModuleFunc: func(_ context.Context, _ *model.Identity, req *model.TenantModuleUpdate) (*industry.TenantModule, error) {
			if req.IndustryModule == "spaceport" {
				return nil, apperrors.Validation("Unknown industry module", nil)
			}
			return &industry.TenantModule{TenantID: "t-1", Module: &industry.Module{Key: req.IndustryModule}}, nil
		},
	}

	rr := serve(svc, admin, http.MethodPut, "/api/tenant/module", `{"industry_module":"hotel"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"key":"hotel"`) {
		t.Errorf("unexpected body %s", rr.Body.String())
	}

	rr = serve(svc, admin, http.MethodPut, "/api/tenant/module", `{"industry_module":"spaceport"}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("unknown module: status = %d, want 400", rr.Code)
	}

	rr = serve(svc, admin, http.MethodPut, "/api/tenant/module", `{`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad json: status = %d, want 400", rr.Code)
	}
}

func TestListModules(t *testing.T) {
	rr := serve(&mockTenantService{}, admin, http.MethodGet, "/api/tenant/modules", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"hotel"`) {
		t.Errorf("status = %d, body %s", rr.Code, rr.Body.String())
	}
}
