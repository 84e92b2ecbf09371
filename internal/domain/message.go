package domain

import "time"

// SenderType indicates which party authored a chat message.
type SenderType string

const (
	SenderCustomer     SenderType = "customer"
	SenderProfessional SenderType = "professional"
)

// Message is a chat entry attached to a job. Messages are append-only.
type Message struct {
	ID         string
	JobID      string
	SenderID   string
	SenderType SenderType
	Content    string
	Timestamp  time.Time
}

// SenderTypeForRole maps a user role onto a chat sender type.
func SenderTypeForRole(role UserRole) (SenderType, bool) {
	switch role {
	case RoleCustomer:
		return SenderCustomer, true
	case RoleProfessional:
		return SenderProfessional, true
	default:
		return "", false
	}
}
