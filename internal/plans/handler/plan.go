package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"yoyaku/internal/plans/service"
	apperrors "yoyaku/pkg/errors"
	httputil "yoyaku/pkg/http"
	"yoyaku/pkg/logger"
	"yoyaku/pkg/model"
)

type PlanHandler struct {
	service service.PlanService
	log     *logger.Logger
}

func NewPlanHandler(service service.PlanService, log *logger.Logger) *PlanHandler {
	return &PlanHandler{
		service: service,
		log:     log,
	}
}

func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.PlanCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Create", apperrors.Validation("Invalid request body", nil))
		return
	}

	plan, err := h.service.Create(r.Context(), ps.ByName("id"), &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, plan); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *PlanHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	plan, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, plan); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *PlanHandler) GetBySpot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	plans, err := h.service.GetBySpot(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetBySpot", err)
		return
	}

	if err := httputil.WriteList(w, len(plans), plans); err != nil {
		h.log.Error("failed to write list response", "handler", "GetBySpot", "error", err)
	}
}

func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := httputil.WriteMessage(w, "deleted"); err != nil {
		h.log.Error("failed to write message response", "handler", "Delete", "error", err)
	}
}

func (h *PlanHandler) writeError(w http.ResponseWriter, operation string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", operation, "error", writeErr)
	}
}

func (h *PlanHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/booking_spots/:id/plans", h.Create)
	router.GET("/api/booking_spots/:id/plans", h.GetBySpot)
	router.GET("/api/plans/:id", h.GetByID)
	router.DELETE("/api/plans/:id", h.Delete)
}
