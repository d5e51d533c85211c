package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	apperrors "yoyaku/pkg/errors"
	httputil "yoyaku/pkg/http"
	"yoyaku/pkg/logger"
)

const readinessTimeout = 2 * time.Second

type HealthHandler struct {
	mongo   *mongo.Client
	service string
	log     *logger.Logger
}

func NewHealthHandler(mongoClient *mongo.Client, service string, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		mongo:   mongoClient,
		service: service,
		log:     log,
	}
}

func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	h.writeStatus(w, "Live", map[string]string{
		"status":  "ok",
		"service": h.service,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready pings the store; the process is up but not serviceable until
// Mongo answers.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := h.mongo.Ping(ctx, readpref.Primary()); err != nil {
		h.log.Warn("Readiness check failed", "error", err)
		if writeErr := httputil.WriteError(w, apperrors.Internal("store unreachable", err)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Ready", "error", writeErr)
		}
		return
	}

	h.writeStatus(w, "Ready", map[string]string{
		"status":  "ready",
		"service": h.service,
	})
}

func (h *HealthHandler) writeStatus(w http.ResponseWriter, operation string, body map[string]string) {
	if err := httputil.WriteSuccess(w, body); err != nil {
		h.log.Error("failed to write success response", "handler", operation, "error", err)
	}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Live)
	router.GET("/ready", h.Ready)
}
