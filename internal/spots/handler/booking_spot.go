package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"yoyaku/internal/spots/service"
	apperrors "yoyaku/pkg/errors"
	httputil "yoyaku/pkg/http"
	"yoyaku/pkg/logger"
	"yoyaku/pkg/model"
)

type BookingSpotHandler struct {
	service service.BookingSpotService
	log     *logger.Logger
}

func NewBookingSpotHandler(service service.BookingSpotService, log *logger.Logger) *BookingSpotHandler {
	return &BookingSpotHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingSpotHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingSpotCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Create", apperrors.Validation("Invalid request body", nil))
		return
	}

	spot, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, spot); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BookingSpotHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	spot, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, spot); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *BookingSpotHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	spots, err := h.service.GetAll(r.Context())
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WriteList(w, len(spots), spots); err != nil {
		h.log.Error("failed to write list response", "handler", "GetAll", "error", err)
	}
}

func (h *BookingSpotHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := httputil.WriteMessage(w, "deleted"); err != nil {
		h.log.Error("failed to write message response", "handler", "Delete", "error", err)
	}
}

func (h *BookingSpotHandler) writeError(w http.ResponseWriter, operation string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", operation, "error", writeErr)
	}
}

func (h *BookingSpotHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/booking_spots", h.Create)
	router.GET("/api/booking_spots", h.GetAll)
	router.GET("/api/booking_spots/:id", h.GetByID)
	router.DELETE("/api/booking_spots/:id", h.Delete)
}
