package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/oggyb/session-messaging/internal/request"
	"github.com/oggyb/session-messaging/internal/response"
	"github.com/oggyb/session-messaging/internal/service"
	"go.uber.org/zap"
)

const defaultPageLimit = 20

// MessageHandler wires HTTP endpoints to the message service.
type MessageHandler struct {
	msgSvc service.MessageService
	log    *zap.Logger
}

// NewMessageHandler constructs a new MessageHandler with its dependencies.
func NewMessageHandler(msgSvc service.MessageService, log *zap.Logger) *MessageHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &MessageHandler{
		msgSvc: msgSvc,
		log:    log.Named("http"),
	}
}

// CreateMessage godoc
// @Summary     Create a message
// @Description Persists a message in the session and notifies the other participant.
// @Tags        messages
// @Accept      json
// @Produce     json
// @Param       sessionId path string                       true "Session ID"
// @Param       request   body request.CreateMessageRequest true "Sender and body"
// @Success     201 {object} response.MessageResponse
// @Failure     400 {object} response.ErrorResponse
// @Failure     404 {object} response.ErrorResponse
// @Failure     503 {object} response.ErrorResponse
// @Router      /sessions/{sessionId}/messages [post]
func (h *MessageHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathUUID(w, r, "sessionId")
	if !ok {
		return
	}

	var req request.CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// An absent sender is left to the service so it is reported in order.
	senderID := uuid.Nil
	if req.SenderID != "" {
		id, err := uuid.Parse(req.SenderID)
		if err != nil {
			response.RespondFieldError(w, http.StatusBadRequest, "senderId", "invalid senderId: must be a UUID")
			return
		}
		senderID = id
	}

	msg, err := h.msgSvc.CreateMessage(r.Context(), sessionID, senderID, req.Message)
	if err != nil {
		h.fail(w, err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, msg)
}

// GetSessionMessages godoc
// @Summary     List session messages
// @Description Returns a session's messages oldest first. Passing offset or limit returns a page.
// @Tags        messages
// @Produce     json
// @Param       sessionId path  string true  "Session ID"
// @Param       offset    query int    false "Messages to skip" default(0)
// @Param       limit     query int    false "Page size"        default(20) minimum(1) maximum(200)
// @Success     200 {object} response.MessagesResponse
// @Failure     400 {object} response.ErrorResponse
// @Failure     404 {object} response.ErrorResponse
// @Router      /sessions/{sessionId}/messages [get]
func (h *MessageHandler) GetSessionMessages(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathUUID(w, r, "sessionId")
	if !ok {
		return
	}

	q := r.URL.Query()
	if !q.Has("offset") && !q.Has("limit") {
		msgs, err := h.msgSvc.GetSessionMessages(r.Context(), sessionID)
		if err != nil {
			h.fail(w, err)
			return
		}
		response.RespondJSON(w, http.StatusOK, msgs)
		return
	}

	offset, ok := queryInt(w, r, "offset", 0)
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit", defaultPageLimit)
	if !ok {
		return
	}

	msgs, err := h.msgSvc.GetSessionMessagesPage(r.Context(), sessionID, offset, limit)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, msgs)
}

// GetLatestMessage godoc
// @Summary     Latest message
// @Description Returns the newest message of a session.
// @Tags        messages
// @Produce     json
// @Param       sessionId path string true "Session ID"
// @Success     200 {object} response.MessageResponse
// @Failure     404 {object} response.ErrorResponse
// @Router      /sessions/{sessionId}/messages/latest [get]
func (h *MessageHandler) GetLatestMessage(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathUUID(w, r, "sessionId")
	if !ok {
		return
	}

	msg, err := h.msgSvc.GetLatestMessage(r.Context(), sessionID)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, msg)
}

// CountSessionMessages godoc
// @Summary     Count session messages
// @Tags        messages
// @Produce     json
// @Param       sessionId path string true "Session ID"
// @Success     200 {object} response.CountResponse
// @Failure     400 {object} response.ErrorResponse
// @Router      /sessions/{sessionId}/messages/count [get]
func (h *MessageHandler) CountSessionMessages(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathUUID(w, r, "sessionId")
	if !ok {
		return
	}

	n, err := h.msgSvc.CountSessionMessages(r.Context(), sessionID)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, response.CountPayload{SessionID: sessionID, Count: n})
}

// GetSession godoc
// @Summary     Get a session
// @Description Returns a session; include=messages attaches its messages.
// @Tags        sessions
// @Produce     json
// @Param       sessionId path  string true  "Session ID"
// @Param       include   query string false "Set to 'messages' to embed messages"
// @Success     200 {object} response.SessionResponse
// @Failure     404 {object} response.ErrorResponse
// @Router      /sessions/{sessionId} [get]
func (h *MessageHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathUUID(w, r, "sessionId")
	if !ok {
		return
	}

	include := r.URL.Query().Get("include") == "messages"

	sess, err := h.msgSvc.GetSession(r.Context(), sessionID, include)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, sess)
}

// SearchMessages godoc
// @Summary     Search messages
// @Description Case-insensitive substring search over all message bodies.
// @Tags        messages
// @Produce     json
// @Param       q query string true "Search term"
// @Success     200 {object} response.MessagesResponse
// @Failure     400 {object} response.ErrorResponse
// @Router      /messages/search [get]
func (h *MessageHandler) SearchMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.msgSvc.SearchMessages(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, msgs)
}

// GetMessage godoc
// @Summary     Get a message
// @Tags        messages
// @Produce     json
// @Param       messageId path string true "Message ID"
// @Success     200 {object} response.MessageResponse
// @Failure     404 {object} response.ErrorResponse
// @Router      /messages/{messageId} [get]
func (h *MessageHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
	messageID, ok := pathUUID(w, r, "messageId")
	if !ok {
		return
	}

	msg, err := h.msgSvc.GetMessageByID(r.Context(), messageID)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, msg)
}

// DeleteMessage godoc
// @Summary     Delete a message
// @Description Reports whether a message was removed; deleting an unknown id is not an error.
// @Tags        messages
// @Produce     json
// @Param       messageId path string true "Message ID"
// @Success     200 {object} response.DeleteResponse
// @Failure     400 {object} response.ErrorResponse
// @Router      /messages/{messageId} [delete]
func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	messageID, ok := pathUUID(w, r, "messageId")
	if !ok {
		return
	}

	deleted, err := h.msgSvc.DeleteMessage(r.Context(), messageID)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, response.DeletePayload{MessageID: messageID, Deleted: deleted})
}

// fail maps service errors onto HTTP statuses.
func (h *MessageHandler) fail(w http.ResponseWriter, err error) {
	var vErr *service.ValidationError

	switch {
	case errors.As(err, &vErr):
		response.RespondFieldError(w, http.StatusBadRequest, vErr.Field, vErr.Error())
	case errors.Is(err, service.ErrNotFound):
		response.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPersistence):
		h.log.Error("store unavailable", zap.Error(err))
		response.RespondError(w, http.StatusServiceUnavailable, "storage unavailable, retry later")
	default:
		h.log.Error("unexpected error", zap.Error(err))
		response.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		response.RespondFieldError(w, http.StatusBadRequest, name, "invalid "+name+": must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		response.RespondFieldError(w, http.StatusBadRequest, name, "invalid "+name+": must be an integer")
		return 0, false
	}
	return v, true
}
