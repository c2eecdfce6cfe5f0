package response

import (
	"github.com/google/uuid"
	"github.com/oggyb/session-messaging/internal/dto"
)

type WelcomePayload struct {
	Message string `json:"message"`
}

type HealthPayload struct {
	Status string `json:"status"`
	Cache  string `json:"cache"`
}

type WelcomeResponse struct {
	Success   bool           `json:"success"`
	Data      WelcomePayload `json:"data"`
	Timestamp string         `json:"timestamp"`
}

type HealthResponse struct {
	Success   bool          `json:"success"`
	Data      HealthPayload `json:"data"`
	Timestamp string        `json:"timestamp"`
}

type SchedulerControlPayload struct {
	Message string `json:"message"`
}

type SchedulerControlResponse struct {
	Success   bool                    `json:"success"`
	Data      SchedulerControlPayload `json:"data"`
	Timestamp string                  `json:"timestamp"`
}

type MessageResponse struct {
	Success   bool           `json:"success"`
	Data      dto.MessageDTO `json:"data"`
	Timestamp string         `json:"timestamp"`
}

type MessagesResponse struct {
	Success   bool             `json:"success"`
	Data      []dto.MessageDTO `json:"data"`
	Timestamp string           `json:"timestamp"`
}

type SessionResponse struct {
	Success   bool           `json:"success"`
	Data      dto.SessionDTO `json:"data"`
	Timestamp string         `json:"timestamp"`
}

type CountPayload struct {
	SessionID uuid.UUID `json:"sessionId"`
	Count     int64     `json:"count"`
}

type CountResponse struct {
	Success   bool         `json:"success"`
	Data      CountPayload `json:"data"`
	Timestamp string       `json:"timestamp"`
}

type DeletePayload struct {
	MessageID uuid.UUID `json:"messageId"`
	Deleted   bool      `json:"deleted"`
}

type DeleteResponse struct {
	Success   bool          `json:"success"`
	Data      DeletePayload `json:"data"`
	Timestamp string        `json:"timestamp"`
}

type ErrorResponse struct {
	Success   bool      `json:"success"`
	Error     ErrorBody `json:"error"`
	Timestamp string    `json:"timestamp"`
}
