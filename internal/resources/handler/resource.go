package handler

import (
	"encoding/json"
	"net/http"

	"spacehub/internal/resources/service"
	apperrors "spacehub/pkg/errors"
	httputil "spacehub/pkg/http"
	"spacehub/pkg/logger"
	"spacehub/pkg/middleware"
	"spacehub/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ResourceHandler struct {
	service  service.ResourceService
	maxLimit int
	log      *logger.Logger
}

func NewResourceHandler(service service.ResourceService, maxLimit int, log *logger.Logger) *ResourceHandler {
	return &ResourceHandler{
		service:  service,
		maxLimit: maxLimit,
		log:      log,
	}
}

func (h *ResourceHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, err := middleware.RequireElevated(r)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	var req model.ResourceCreate
	if !h.decode(w, r, "Create", &req) {
		return
	}

	resource, err := h.service.Create(r.Context(), identity, &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, resource); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, err := middleware.RequireIdentity(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	query := r.URL.Query()
	filter := model.ResourceFilter{
		Type:     query.Get("type"),
		ParentID: query.Get("parent_id"),
		Amenity:  query.Get("amenity"),
	}
	if filter.IsBookable, err = httputil.ParseBool(r, "is_bookable"); err != nil {
		h.writeError(w, "List", err)
		return
	}
	if filter.Limit, err = httputil.ExtractLimit(r, h.maxLimit); err != nil {
		h.writeError(w, "List", err)
		return
	}

	resources, err := h.service.List(r.Context(), identity, filter)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteSuccess(w, resources); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ResourceHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, err := middleware.RequireIdentity(r)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	resource, err := h.service.Get(r.Context(), identity, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, resource); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ResourceHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, err := middleware.RequireElevated(r)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	var req model.ResourceUpdate
	if !h.decode(w, r, "Update", &req) {
		return
	}

	resource, err := h.service.Update(r.Context(), identity, ps.ByName("id"), &req)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, resource); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, err := middleware.RequireElevated(r)
	if err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := h.service.Deactivate(r.Context(), identity, ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ResourceHandler) SetAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, err := middleware.RequireElevated(r)
	if err != nil {
		h.writeError(w, "SetAvailability", err)
		return
	}

	var req model.AvailabilityRequest
	if !h.decode(w, r, "SetAvailability", &req) {
		return
	}

	rows, err := h.service.SetAvailability(r.Context(), identity, ps.ByName("id"), &req)
	if err != nil {
		h.writeError(w, "SetAvailability", err)
		return
	}

	if err := httputil.WriteSuccess(w, rows); err != nil {
		h.log.Error("failed to write success response", "handler", "SetAvailability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ResourceHandler) GetAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, err := middleware.RequireIdentity(r)
	if err != nil {
		h.writeError(w, "GetAvailability", err)
		return
	}

	rows, err := h.service.GetAvailability(r.Context(), identity, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetAvailability", err)
		return
	}

	if err := httputil.WriteSuccess(w, rows); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAvailability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ResourceHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/resources", h.Create)
	router.GET("/api/resources", h.List)
	router.GET("/api/resources/:id", h.GetByID)
	router.PATCH("/api/resources/:id", h.Update)
	router.DELETE("/api/resources/:id", h.Delete)
	router.GET("/api/resources/:id/availability", h.GetAvailability)
	router.PUT("/api/resources/:id/availability", h.SetAvailability)
}

func (h *ResourceHandler) decode(w http.ResponseWriter, r *http.Request, handler string, target any) bool {
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

func (h *ResourceHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
