package events

import (
	"time"

	"github.com/spec-kit/homeservices/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventJobCreated       EventType = "job_created"
	EventJobStatusChanged EventType = "job_status_changed"
	EventJobRated         EventType = "job_rated"
	EventMessageAdded     EventType = "message_added"
	EventPaymentRecorded  EventType = "payment_recorded"
	EventSessionStarted   EventType = "session_started"
	EventSessionEnded     EventType = "session_ended"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Role   domain.UserRole `json:"role"`
	UserID string          `json:"user_id"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	JobID     string      `json:"job_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// JobCreatedPayload payload.
type JobCreatedPayload struct {
	CustomerID      string                 `json:"customer_id"`
	ServiceCategory domain.ServiceCategory `json:"service_category"`
	Address         string                 `json:"address"`
}

// JobStatusChangedPayload payload.
type JobStatusChangedPayload struct {
	Event          string           `json:"event"`
	OldStatus      domain.JobStatus `json:"old_status"`
	NewStatus      domain.JobStatus `json:"new_status"`
	CustomerID     string           `json:"customer_id"`
	ProfessionalID *string          `json:"professional_id,omitempty"`
	FinalPrice     *float64         `json:"final_price,omitempty"`
}

// JobRatedPayload payload.
type JobRatedPayload struct {
	ProfessionalID *string `json:"professional_id,omitempty"`
	Rating         int     `json:"rating"`
}

// MessageAddedPayload payload.
type MessageAddedPayload struct {
	MessageID   string            `json:"message_id"`
	SenderType  domain.SenderType `json:"sender_type"`
	RecipientID string            `json:"recipient_id"`
	BodyPreview string            `json:"body_preview"`
}

// PaymentRecordedPayload payload.
type PaymentRecordedPayload struct {
	PaymentID      string               `json:"payment_id"`
	Amount         float64              `json:"amount"`
	Status         domain.PaymentStatus `json:"status"`
	ProfessionalID string               `json:"professional_id"`
}

// SessionPayload payload for session start/end.
type SessionPayload struct {
	Email string `json:"email"`
}
