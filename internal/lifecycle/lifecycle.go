// Package lifecycle enforces the legal status transitions of a job.
package lifecycle

import (
	"time"

	"github.com/spec-kit/homeservices/internal/domain"
	apperrors "github.com/spec-kit/homeservices/pkg/util/errorutil"
)

// EventType names an action a party can take on a job.
type EventType string

const (
	EventAccept   EventType = "accept"
	EventStart    EventType = "start"
	EventComplete EventType = "complete"
	EventCancel   EventType = "cancel"
	EventRate     EventType = "rate"
)

// Actor is the party attempting a transition.
type Actor struct {
	ID         string
	Role       domain.UserRole
	Categories []domain.ServiceCategory
}

// ActorFromUser derives the transition actor for an identity.
func ActorFromUser(u domain.User) Actor {
	actor := Actor{ID: u.ID, Role: u.Role()}
	if pro, ok := u.Professional(); ok {
		actor.Categories = append([]domain.ServiceCategory(nil), pro.ServiceCategories...)
	}
	return actor
}

// Event is one attempted transition with its arguments.
type Event struct {
	Type       EventType
	Actor      Actor
	FinalPrice float64
	Rating     int
	Review     string
}

// Accept builds an accept event for a professional.
func Accept(actor Actor) Event { return Event{Type: EventAccept, Actor: actor} }

// Start builds a start event.
func Start(actor Actor) Event { return Event{Type: EventStart, Actor: actor} }

// Complete builds a complete event carrying the final price.
func Complete(actor Actor, finalPrice float64) Event {
	return Event{Type: EventComplete, Actor: actor, FinalPrice: finalPrice}
}

// Cancel builds a cancel event.
func Cancel(actor Actor) Event { return Event{Type: EventCancel, Actor: actor} }

// Rate builds a rate event.
func Rate(actor Actor, rating int, review string) Event {
	return Event{Type: EventRate, Actor: actor, Rating: rating, Review: review}
}

type edge struct {
	from  domain.JobStatus
	event EventType
}

var transitions = map[edge]domain.JobStatus{
	{domain.JobStatusPending, EventAccept}:      domain.JobStatusAccepted,
	{domain.JobStatusPending, EventCancel}:      domain.JobStatusCancelled,
	{domain.JobStatusAccepted, EventStart}:      domain.JobStatusInProgress,
	{domain.JobStatusAccepted, EventCancel}:     domain.JobStatusCancelled,
	{domain.JobStatusInProgress, EventComplete}: domain.JobStatusCompleted,
	{domain.JobStatusCompleted, EventRate}:      domain.JobStatusCompleted,
}

var eventOrder = []EventType{EventAccept, EventStart, EventComplete, EventCancel, EventRate}

// Target returns the status an event leads to from status.
func Target(status domain.JobStatus, event EventType) (domain.JobStatus, bool) {
	to, ok := transitions[edge{status, event}]
	return to, ok
}

// CanApply reports whether the table has an edge for event out of status.
// It does not consider the actor or one-shot rules.
func CanApply(status domain.JobStatus, event EventType) bool {
	_, ok := Target(status, event)
	return ok
}

// AllowedEvents lists the events with an edge out of status.
func AllowedEvents(status domain.JobStatus) []EventType {
	var out []EventType
	for _, ev := range eventOrder {
		if CanApply(status, ev) {
			out = append(out, ev)
		}
	}
	return out
}

// IsTerminal reports whether no further status change can happen.
func IsTerminal(status domain.JobStatus) bool {
	return status == domain.JobStatusCompleted || status == domain.JobStatusCancelled
}

// Apply validates ev against job and returns the transitioned copy. On
// error the input job is returned unchanged.
func Apply(job domain.Job, ev Event, now time.Time) (domain.Job, error) {
	to, ok := Target(job.Status, ev.Type)
	if !ok || (ev.Type == EventRate && job.Rating != nil) {
		return job, apperrors.NewInvalidTransition(string(job.Status), string(ev.Type))
	}
	if err := authorize(job, ev); err != nil {
		return job, err
	}
	if err := validateArgs(ev); err != nil {
		return job, err
	}

	next := job.Clone()
	next.Status = to
	next.UpdatedAt = now

	switch ev.Type {
	case EventAccept:
		id := ev.Actor.ID
		next.ProfessionalID = &id
	case EventCancel:
		next.ProfessionalID = nil
	case EventComplete:
		price := ev.FinalPrice
		completedAt := now
		next.FinalPrice = &price
		next.CompletedAt = &completedAt
	case EventRate:
		rating := ev.Rating
		next.Rating = &rating
		if ev.Review != "" {
			review := ev.Review
			next.Review = &review
		}
	}
	return next, nil
}

func authorize(job domain.Job, ev Event) error {
	actor := ev.Actor
	switch ev.Type {
	case EventAccept:
		if actor.Role != domain.RoleProfessional || actor.ID == "" {
			return apperrors.NewForbidden("not permitted to accept this job")
		}
		if !domain.ContainsCategory(actor.Categories, job.ServiceCategory) {
			return apperrors.NewForbidden("not permitted to accept this job")
		}
	case EventStart, EventComplete:
		if actor.Role != domain.RoleProfessional || !job.AssignedTo(actor.ID) {
			return apperrors.NewForbidden("not permitted to update this job")
		}
	case EventCancel:
		isOwner := actor.Role == domain.RoleCustomer && job.CustomerID == actor.ID
		if job.Status == domain.JobStatusPending && !isOwner {
			return apperrors.NewForbidden("not permitted to cancel this job")
		}
		isAssignee := actor.Role == domain.RoleProfessional && job.AssignedTo(actor.ID)
		if job.Status == domain.JobStatusAccepted && !isOwner && !isAssignee {
			return apperrors.NewForbidden("not permitted to cancel this job")
		}
	case EventRate:
		if actor.Role != domain.RoleCustomer || job.CustomerID != actor.ID {
			return apperrors.NewForbidden("not permitted to rate this job")
		}
	}
	return nil
}

func validateArgs(ev Event) error {
	errs := domain.FieldErrors{}
	switch ev.Type {
	case EventComplete:
		if ev.FinalPrice <= 0 {
			errs["finalPrice"] = "Final price must be greater than zero"
		}
	case EventRate:
		if ev.Rating < domain.MinRating || ev.Rating > domain.MaxRating {
			errs["rating"] = "Rating must be between 1 and 5"
		}
	}
	return errs.Err()
}
