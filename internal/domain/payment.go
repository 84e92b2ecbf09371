package domain

import "time"

// PaymentStatus enumerates outcomes of a charge.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment records a charge for a job. Payments are append-only.
type Payment struct {
	ID          string
	JobID       string
	Amount      float64
	Status      PaymentStatus
	ExternalRef *string
	CreatedAt   time.Time
	CompletedAt *time.Time
}
