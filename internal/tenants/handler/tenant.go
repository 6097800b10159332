package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"spacehub/internal/tenants/service"
	apperrors "spacehub/pkg/errors"
	httputil "spacehub/pkg/http"
	"spacehub/pkg/logger"
	"spacehub/pkg/middleware"
	"spacehub/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type TenantHandler struct {
	service service.TenantService
	log     *logger.Logger
}

func NewTenantHandler(service service.TenantService, log *logger.Logger) *TenantHandler {
	return &TenantHandler{
		service: service,
		log:     log,
	}
}

func (h *TenantHandler) GetModule(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, err := middleware.RequireIdentity(r)
	if err != nil {
		h.writeError(w, "GetModule", err)
		return
	}

	tm, err := h.service.GetModule(r.Context(), identity)
	if err != nil {
		h.writeError(w, "GetModule", err)
		return
	}

	if err := httputil.WriteSuccess(w, tm); err != nil {
		h.log.Error("failed to write success response", "handler", "GetModule", "operation", "WriteSuccess", "error", err)
	}
}

// Terminology reads ?terms=a,b,c; without it the whole dictionary is returned.
func (h *TenantHandler) Terminology(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, err := middleware.RequireIdentity(r)
	if err != nil {
		h.writeError(w, "Terminology", err)
		return
	}

	var terms []string
	if raw := r.URL.Query().Get("terms"); raw != "" {
		terms = strings.Split(raw, ",")
	}

	translated, err := h.service.Terminology(r.Context(), identity, terms)
	if err != nil {
		h.writeError(w, "Terminology", err)
		return
	}

	if err := httputil.WriteSuccess(w, translated); err != nil {
		h.log.Error("failed to write success response", "handler", "Terminology", "operation", "WriteSuccess", "error", err)
	}
}

func (h *TenantHandler) UpdateModule(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, err := middleware.RequireIdentity(r)
	if err != nil {
		h.writeError(w, "UpdateModule", err)
		return
	}

	var req model.TenantModuleUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
			Code:  apperrors.CodeBadRequest,
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateModule", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	tm, err := h.service.UpdateModule(r.Context(), identity, &req)
	if err != nil {
		h.writeError(w, "UpdateModule", err)
		return
	}

	if err := httputil.WriteSuccess(w, tm); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateModule", "operation", "WriteSuccess", "error", err)
	}
}

func (h *TenantHandler) ListModules(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if _, err := middleware.RequireIdentity(r); err != nil {
		h.writeError(w, "ListModules", err)
		return
	}

	if err := httputil.WriteSuccess(w, h.service.AvailableModules()); err != nil {
		h.log.Error("failed to write success response", "handler", "ListModules", "operation", "WriteSuccess", "error", err)
	}
}

func (h *TenantHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/tenant/module", h.GetModule)
	router.PUT("/api/tenant/module", h.UpdateModule)
	router.GET("/api/tenant/modules", h.ListModules)
	router.GET("/api/tenant/terminology", h.Terminology)
}

func (h *TenantHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
