package dto

import "time"

// CreateJobRequest payload for a new service request.
type CreateJobRequest struct {
	ServiceCategory string   `json:"service_category"`
	Description     string   `json:"description"`
	Address         string   `json:"address"`
	PreferredDate   string   `json:"preferred_date"`
	Photos          []string `json:"photos"`
}

// CompleteJobRequest payload.
type CompleteJobRequest struct {
	FinalPrice float64 `json:"final_price"`
}

// RateJobRequest payload.
type RateJobRequest struct {
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

// JobResponse is the full job record.
type JobResponse struct {
	ID              string     `json:"id"`
	CustomerID      string     `json:"customer_id"`
	ProfessionalID  *string    `json:"professional_id"`
	ServiceCategory string     `json:"service_category"`
	Description     string     `json:"description"`
	Photos          []string   `json:"photos"`
	Address         string     `json:"address"`
	PreferredDate   string     `json:"preferred_date"`
	Status          string     `json:"status"`
	FinalPrice      *float64   `json:"final_price"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CompletedAt     *time.Time `json:"completed_at"`
	Rating          *int       `json:"rating"`
	Review          *string    `json:"review"`
}

// JobCardResponse is a job as listed in a feed.
type JobCardResponse struct {
	JobResponse
	PostedAgo     string   `json:"posted_ago"`
	Distance      string   `json:"distance"`
	AllowedEvents []string `json:"allowed_events"`
}

// CreateMessageRequest payload.
type CreateMessageRequest struct {
	Content string `json:"content"`
}

// MessageResponse represents a thread message.
type MessageResponse struct {
	ID         string    `json:"id"`
	JobID      string    `json:"job_id"`
	SenderID   string    `json:"sender_id"`
	SenderType string    `json:"sender_type"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

// PaymentResponse represents one charge attempt.
type PaymentResponse struct {
	ID          string     `json:"id"`
	JobID       string     `json:"job_id"`
	Amount      float64    `json:"amount"`
	Status      string     `json:"status"`
	ExternalRef *string    `json:"external_ref,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
