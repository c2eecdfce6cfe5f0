package handler

import (
	"encoding/json"
	"net/http"

	"github.com/oggyb/session-messaging/internal/request"
	"github.com/oggyb/session-messaging/internal/response"
	"github.com/oggyb/session-messaging/internal/scheduler"
)

// SchedulerHandler exposes start/stop control of a background job.
type SchedulerHandler struct {
	schSvc scheduler.SchedulerService
}

// NewSchedulerHandler constructs a SchedulerHandler.
func NewSchedulerHandler(schSvc scheduler.SchedulerService) *SchedulerHandler {
	return &SchedulerHandler{schSvc: schSvc}
}

// StartStopScheduler godoc
// @Summary     Control scheduler
// @Description Starts or stops the Kafka stats scheduler based on the given action.
// @Tags        scheduler
// @Accept      json
// @Produce     json
// @Param       request body request.SchedulerRequest true "Scheduler action (start|stop)"
// @Success     200 {object} response.SchedulerControlResponse
// @Failure     400 {object} response.ErrorResponse
// @Router      /scheduler [post]
func (h *SchedulerHandler) StartStopScheduler(w http.ResponseWriter, r *http.Request) {
	var req request.SchedulerRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var (
		err error
		msg string
	)
	switch req.Action {
	case "start":
		err, msg = h.schSvc.Start(), "scheduler started"
	case "stop":
		err, msg = h.schSvc.Stop(), "scheduler stopped"
	default:
		response.RespondError(w, http.StatusBadRequest, "action must be 'start' or 'stop'")
		return
	}

	if err != nil {
		response.RespondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, response.SchedulerControlPayload{Message: msg})
}
