package models

import (
	"time"

	"github.com/google/uuid"
)

// NewID returns a random identifier for a new entity.
func NewID() string {
	return uuid.NewString()
}

type SessionStatus string

const (
	SessionActive   SessionStatus = "active"
	SessionFinished SessionStatus = "finished"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

type Session struct {
	ID        string        `json:"id"`
	Topic     string        `json:"topic"`
	Status    SessionStatus `json:"status"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   *time.Time    `json:"ended_at,omitempty"`
}

type Message struct {
	ID        string      `json:"id"`
	SessionID string      `json:"session_id"`
	Role      MessageRole `json:"role"`
	Text      string      `json:"text"`
	Ts        time.Time   `json:"ts"`
}
