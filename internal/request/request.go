package request

// SchedulerRequest represents the JSON body for scheduler control.
type SchedulerRequest struct {
	// Action controls the scheduler. Allowed values:
	// - "start": start running the job
	// - "stop":  stop running the job
	Action string `json:"action"`
}

// CreateMessageRequest is the body of POST /sessions/{sessionId}/messages.
// SenderID is parsed by the handler so a malformed id is a 400.
type CreateMessageRequest struct {
	SenderID string `json:"senderId" example:"0192f0c4-7a1e-7c3b-9b7e-2f4d6a1c9e01"`
	Message  string `json:"message" example:"See you at 10."`
}
