package handler

import (
	"encoding/json"
	"net/http"

	"spacehub/internal/identity/service"
	apperrors "spacehub/pkg/errors"
	httputil "spacehub/pkg/http"
	"spacehub/pkg/logger"
	"spacehub/pkg/middleware"
	"spacehub/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const tenantQueryParam = "tenant_subdomain"

type IdentityHandler struct {
	service service.IdentityService
	log     *logger.Logger
}

func NewIdentityHandler(service service.IdentityService, log *logger.Logger) *IdentityHandler {
	return &IdentityHandler{
		service: service,
		log:     log,
	}
}

func (h *IdentityHandler) CreateTenant(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.TenantCreate
	if !h.decode(w, r, "CreateTenant", &req) {
		return
	}

	registration, err := h.service.CreateTenant(r.Context(), &req)
	if err != nil {
		h.writeError(w, "CreateTenant", err)
		return
	}

	if err := httputil.WriteCreated(w, registration); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateTenant", "operation", "WriteCreated", "error", err)
	}
}

func (h *IdentityHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.RegisterRequest
	if !h.decode(w, r, "Register", &req) {
		return
	}

	token, err := h.service.Register(r.Context(), r.URL.Query().Get(tenantQueryParam), &req)
	if err != nil {
		h.writeError(w, "Register", err)
		return
	}

	if err := httputil.WriteCreated(w, token); err != nil {
		h.log.Error("failed to write created response", "handler", "Register", "operation", "WriteCreated", "error", err)
	}
}

func (h *IdentityHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.LoginRequest
	if !h.decode(w, r, "Login", &req) {
		return
	}

	token, err := h.service.Login(r.Context(), r.URL.Query().Get(tenantQueryParam), &req)
	if err != nil {
		h.writeError(w, "Login", err)
		return
	}

	if err := httputil.WriteSuccess(w, token); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "operation", "WriteSuccess", "error", err)
	}
}

func (h *IdentityHandler) ListUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, err := middleware.RequireElevated(r)
	if err != nil {
		h.writeError(w, "ListUsers", err)
		return
	}

	users, err := h.service.ListUsers(r.Context(), identity)
	if err != nil {
		h.writeError(w, "ListUsers", err)
		return
	}

	if err := httputil.WriteSuccess(w, users); err != nil {
		h.log.Error("failed to write success response", "handler", "ListUsers", "operation", "WriteSuccess", "error", err)
	}
}

func (h *IdentityHandler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, err := middleware.RequireIdentity(r)
	if err != nil {
		h.writeError(w, "Me", err)
		return
	}

	user, err := h.service.CurrentUser(r.Context(), identity)
	if err != nil {
		h.writeError(w, "Me", err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "Me", "operation", "WriteSuccess", "error", err)
	}
}

func (h *IdentityHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/tenants", h.CreateTenant)
	router.POST("/api/auth/register", h.Register)
	router.POST("/api/auth/login", h.Login)
	router.GET("/api/users", h.ListUsers)
	router.GET("/api/users/me", h.Me)
}

func (h *IdentityHandler) decode(w http.ResponseWriter, r *http.Request, handler string, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
			Code:  apperrors.CodeBadRequest,
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", handler, "operation", "WriteJSON", "error", writeErr)
		}
		return false
	}
	return true
}

func (h *IdentityHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
