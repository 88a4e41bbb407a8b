package ws

import "todo_webapp/internal/domain"

// server → client
type Envelope struct {
	Type  string         `json:"type"`
	Task  *domain.Task   `json:"task,omitempty"`
	Tasks []*domain.Task `json:"tasks,omitempty"`
	ID    int64          `json:"id,omitempty"`
}

type ErrorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// client → server
type ClientMessage struct {
	Type string `json:"type"`
}
