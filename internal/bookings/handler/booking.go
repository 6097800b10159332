package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"spacehub/internal/bookings/service"
	apperrors "spacehub/pkg/errors"
	httputil "spacehub/pkg/http"
	"spacehub/pkg/logger"
	"spacehub/pkg/middleware"
	"spacehub/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, err := middleware.RequireIdentity(r)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
			Code:  apperrors.CodeBadRequest,
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	result, err := h.service.Create(r.Context(), identity, &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Create", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, err := middleware.RequireIdentity(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	filter, err := parseListFilter(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	bookings, err := h.service.List(r.Context(), identity, filter)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, err := middleware.RequireIdentity(r)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	booking, err := h.service.Get(r.Context(), identity, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, err := middleware.RequireIdentity(r)
	if err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	var update model.BookingStatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
			Code:  apperrors.CodeBadRequest,
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateStatus", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	updated, err := h.service.UpdateStatus(r.Context(), identity, ps.ByName("id"), &update)
	if err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	if err := httputil.WriteSuccess(w, map[string]bool{"updated": updated}); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateStatus", "operation", "WriteSuccess", "error", err)
	}
}

// Availability lists the day's blocking bookings for one resource.
// start_date defaults to today (UTC).
func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, err := middleware.RequireIdentity(r)
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	date, err := httputil.ParseDate(r, "start_date")
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}
	if date == nil {
		today := time.Now().UTC()
		date = &today
	}

	day, err := h.service.DailyAvailability(r.Context(), identity, ps.ByName("resource_id"), *date)
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	if err := httputil.WriteSuccess(w, day); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "operation", "WriteSuccess", "error", err)
	}
}

// Utilization counts confirmed bookings between start_date and end_date,
// both inclusive.
func (h *BookingHandler) Utilization(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, err := middleware.RequireElevated(r)
	if err != nil {
		h.writeError(w, "Utilization", err)
		return
	}

	from, err := httputil.ParseDate(r, "start_date")
	if err != nil {
		h.writeError(w, "Utilization", err)
		return
	}
	to, err := httputil.ParseDate(r, "end_date")
	if err != nil {
		h.writeError(w, "Utilization", err)
		return
	}
	if from == nil || to == nil {
		h.writeError(w, "Utilization", apperrors.InvalidInput("Both 'start_date' and 'end_date' query parameters are required"))
		return
	}

	report, err := h.service.Utilization(r.Context(), identity, *from, to.AddDate(0, 0, 1))
	if err != nil {
		h.writeError(w, "Utilization", err)
		return
	}

	if err := httputil.WriteSuccess(w, report); err != nil {
		h.log.Error("failed to write success response", "handler", "Utilization", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) DashboardStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, err := middleware.RequireElevated(r)
	if err != nil {
		h.writeError(w, "DashboardStats", err)
		return
	}

	stats, err := h.service.DashboardStats(r.Context(), identity)
	if err != nil {
		h.writeError(w, "DashboardStats", err)
		return
	}

	if err := httputil.WriteSuccess(w, stats); err != nil {
		h.log.Error("failed to write success response", "handler", "DashboardStats", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/bookings", h.Create)
	router.GET("/api/bookings", h.List)
	router.GET("/api/bookings/availability/:resource_id", h.Availability)
	router.GET("/api/bookings/utilization", h.Utilization)
	router.GET("/api/bookings/id/:id", h.GetByID)
	router.PATCH("/api/bookings/id/:id/status", h.UpdateStatus)
	router.GET("/api/dashboard/stats", h.DashboardStats)
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func parseListFilter(r *http.Request) (model.BookingFilter, error) {
	query := r.URL.Query()
	filter := model.BookingFilter{
		ResourceID: query.Get("resource_id"),
		UserID:     query.Get("user_id"),
		Status:     query.Get("status"),
	}

	from, err := httputil.ParseTime(r, "from")
	if err != nil {
		return filter, err
	}
	to, err := httputil.ParseTime(r, "to")
	if err != nil {
		return filter, err
	}
	filter.From, filter.To = from, to

	limit, err := httputil.ExtractLimit(r, maxListLimit)
	if err != nil {
		return filter, err
	}
	filter.Limit = limit
	return filter, nil
}

// The repository clamps again against the configured list limit.
const maxListLimit = 1000
