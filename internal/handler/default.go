package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/oggyb/session-messaging/internal/response"
)

const healthTimeout = 2 * time.Second

// Pinger is anything Health can probe, such as the count cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HomeHandler serves basic root and health endpoints.
type HomeHandler struct {
	cache Pinger
}

// NewHomeHandler returns a new HomeHandler. cache may be nil.
func NewHomeHandler(cache Pinger) *HomeHandler { return &HomeHandler{cache: cache} }

// Index godoc
// @Summary     Welcome endpoint
// @Description Simple root endpoint that returns a welcome message.
// @Tags        home
// @Produce     json
// @Success     200 {object} response.WelcomeResponse
// @Router      / [get]
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	payload := response.WelcomePayload{
		Message: "Session messaging API",
	}

	response.RespondJSON(w, http.StatusOK, payload)
}

// Health godoc
// @Summary     Health check
// @Description Reports that the API is running. The cache is optional, so
// @Description an unreachable cache degrades the status without failing it.
// @Tags        home
// @Produce     json
// @Success     200 {object} response.HealthResponse
// @Router      /health [get]
func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	payload := response.HealthPayload{
		Status: "ok",
		Cache:  "disabled",
	}

	if h.cache != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		payload.Cache = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			payload.Status = "degraded"
			payload.Cache = "unreachable"
		}
	}

	response.RespondJSON(w, http.StatusOK, payload)
}
