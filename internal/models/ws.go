package models

import (
	"time"

	"github.com/google/uuid"
)

// WSMessage is the envelope for everything pushed over the websocket.
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type ScheduleGeneratedEvent struct {
	SessionCount int       `json:"session_count"`
	Strategy     string    `json:"strategy"`
	GeneratedAt  time.Time `json:"generated_at"`
}

type ScheduleFailedEvent struct {
	Reason  ScheduleReason `json:"reason"`
	Message string         `json:"message"`
}

type SessionStatusEvent struct {
	SessionID uuid.UUID     `json:"session_id"`
	TaskID    uuid.UUID     `json:"task_id"`
	Status    SessionStatus `json:"status"`
}
