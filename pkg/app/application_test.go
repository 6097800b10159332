package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"spacehub/pkg/config"
	"spacehub/pkg/events"
	"spacehub/pkg/kafka"
	"spacehub/pkg/logger"
	"spacehub/pkg/middleware"
	"spacehub/pkg/model"
)

type pingHandler struct{}

func (pingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/ping", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		identity, _ := middleware.IdentityFromContext(r.Context())
		_, _ = w.Write([]byte(identity.UserID))
	})
	router.POST("/api/auth/login", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})
}

type staticVerifier struct{}

func (staticVerifier) Verify(token string) (*model.Identity, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &model.Identity{UserID: "u-1", TenantID: "t-1", Role: config.RoleMember}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Port:               "0",
		RateLimitRequests:  100,
		RateLimitWindow:    time.Minute,
		RequestTimeout:     time.Second,
		IdempotencyTTL:     time.Minute,
		MaxRequestSize:     1024,
		ReadTimeout:        time.Second,
		WriteTimeout:       time.Second,
		IdleTimeout:        time.Second,
		ShutdownTimeout:    time.Second,
		CORSAllowedOrigins: []string{"https://app.example.com"},
		Log:                logger.Discard(),
	}
}

func newTestApp(t *testing.T) http.Handler {
	t.Helper()
	a := NewApplication(testConfig()).WithAuth(staticVerifier{}, "/api/auth/")
	a.SetApp(pingHandler{})
	t.Cleanup(a.stopBackground)
	return a.Handler()
}

func TestApplication_AuthenticatedRoute(t *testing.T) {
	h := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Authorization", "Bearer good")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || rr.Body.String() != "u-1" {
		t.Fatalf("expected 200 u-1, got %d %q", rr.Code, rr.Body.String())
	}
	if rr.Header().Get(middleware.RequestIDHeader) == "" {
		t.Errorf("expected request id header on response")
	}
}

func TestApplication_PublicPrefix(t *testing.T) {
	h := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("public route should not require a token, got %d", rr.Code)
	}
}

func TestApplication_HealthBypassesAuth(t *testing.T) {
	h := newTestApp(t)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("expected /health 200, got %d", rr.Code)
	}
}

func TestApplication_CORSPreflight(t *testing.T) {
	h := newTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/ping", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("expected allowed origin echoed, got %q", got)
	}
}

func TestApplication_UnknownRouteIsJSON404(t *testing.T) {
	h := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	req.Header.Set("Authorization", "Bearer good")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound || !strings.Contains(rr.Body.String(), "NOT_FOUND") {
		t.Errorf("expected JSON 404, got %d %q", rr.Code, rr.Body.String())
	}
}

func TestApplication_KafkaDisabled(t *testing.T) {
	a := NewApplication(testConfig())

	publisher := a.EventPublisher("spacehub.bookings")
	if _, ok := publisher.(events.NoopPublisher); !ok {
		t.Fatalf("expected no-op publisher with Kafka disabled, got %T", publisher)
	}

	a.Subscribe("spacehub.tenants", func(context.Context, kafka.Message) error { return nil })
	if len(a.workers) != 0 || len(a.closers) != 0 {
		t.Errorf("nothing should be registered with Kafka disabled: %d workers, %d closers", len(a.workers), len(a.closers))
	}
	if a.eventStats != nil {
		t.Error("event stats should stay unset without a bus")
	}
}
