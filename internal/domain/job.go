package domain

import "time"

// JobStatus enumerates lifecycle states for jobs.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusAccepted   JobStatus = "accepted"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

const (
	// MaxJobPhotos is enforced when photos are captured, not by Job itself.
	MaxJobPhotos = 3
	MinRating    = 1
	MaxRating    = 5
)

// Job is a homeowner's service request.
type Job struct {
	ID              string
	CustomerID      string
	ProfessionalID  *string
	ServiceCategory ServiceCategory
	Description     string
	Photos          []string
	Address         string
	PreferredDate   time.Time
	Status          JobStatus
	FinalPrice      *float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CompletedAt     *time.Time
	Rating          *int
	Review          *string
}

// JobDraft is unvalidated job input collected by the presentation layer.
type JobDraft struct {
	Description     string
	Address         string
	PreferredDate   string
	Photos          []string
	ServiceCategory ServiceCategory
}

// Clone returns a copy that shares no mutable memory with j.
func (j Job) Clone() Job {
	out := j
	if j.Photos != nil {
		out.Photos = append([]string(nil), j.Photos...)
	}
	if j.ProfessionalID != nil {
		id := *j.ProfessionalID
		out.ProfessionalID = &id
	}
	if j.FinalPrice != nil {
		price := *j.FinalPrice
		out.FinalPrice = &price
	}
	if j.CompletedAt != nil {
		at := *j.CompletedAt
		out.CompletedAt = &at
	}
	if j.Rating != nil {
		rating := *j.Rating
		out.Rating = &rating
	}
	if j.Review != nil {
		review := *j.Review
		out.Review = &review
	}
	return out
}

// AssignedTo reports whether professionalID is the job's assigned professional.
func (j Job) AssignedTo(professionalID string) bool {
	return j.ProfessionalID != nil && *j.ProfessionalID == professionalID
}

// IsParty reports whether userID is the owner or the assigned professional.
func (j Job) IsParty(userID string) bool {
	return j.CustomerID == userID || j.AssignedTo(userID)
}
