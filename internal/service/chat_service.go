package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/homeservices/internal/domain"
	"github.com/spec-kit/homeservices/internal/events"
	"github.com/spec-kit/homeservices/internal/store"
	apperrors "github.com/spec-kit/homeservices/pkg/util/errorutil"
)

const previewLength = 80

// ChatService posts and reads job threads between the two parties of a job.
type ChatService struct {
	store      *store.Store
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        Clock
}

// NewChatService constructs the service.
func NewChatService(st *store.Store, dispatcher events.Dispatcher, logger *zap.Logger, clock Clock) *ChatService {
	return &ChatService{
		store:      st,
		dispatcher: dispatcher,
		logger:     loggerOrNop(logger),
		now:        clockOrNow(clock),
	}
}

// Send posts content on jobID's thread as the signed-in user.
func (s *ChatService) Send(ctx context.Context, jobID, content string) (domain.Message, error) {
	user, job, err := s.party(jobID)
	if err != nil {
		return domain.Message{}, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Message{}, apperrors.NewValidationError("validation failed", map[string]any{
			"content": "Message cannot be empty",
		})
	}
	senderType, _ := domain.MessageSenderFor(job, user)

	msg := domain.Message{
		ID:         uuid.NewString(),
		JobID:      job.ID,
		SenderID:   user.ID,
		SenderType: senderType,
		Content:    content,
		Timestamp:  s.now(),
	}
	s.store.Dispatch(store.AddMessage{Message: msg})

	s.logger.Info("message added", zap.String("job_id", job.ID), zap.String("message_id", msg.ID))
	publish(ctx, s.dispatcher, s.logger, s.now, events.Event{
		Type:  events.EventMessageAdded,
		JobID: job.ID,
		Actor: eventActor(user),
		Payload: events.MessageAddedPayload{
			MessageID:   msg.ID,
			SenderType:  senderType,
			RecipientID: counterparty(job, senderType),
			BodyPreview: preview(content),
		},
	})
	return msg, nil
}

// Thread returns jobID's messages in the order they were posted.
func (s *ChatService) Thread(jobID string) ([]domain.Message, error) {
	if _, _, err := s.party(jobID); err != nil {
		return nil, err
	}
	return s.store.State().MessagesForJob(jobID), nil
}

// party resolves the signed-in user and checks they may talk on jobID.
func (s *ChatService) party(jobID string) (domain.User, domain.Job, error) {
	user, err := sessionUser(s.store)
	if err != nil {
		return domain.User{}, domain.Job{}, err
	}
	job, ok := s.store.State().JobByID(jobID)
	if !ok {
		return domain.User{}, domain.Job{}, apperrors.NewNotFound("job", map[string]any{"id": jobID})
	}
	if _, ok := domain.MessageSenderFor(job, user); !ok {
		return domain.User{}, domain.Job{}, apperrors.NewForbidden("not a party to this job")
	}
	return user, job, nil
}

func counterparty(job domain.Job, sender domain.SenderType) string {
	if sender == domain.SenderCustomer {
		if job.ProfessionalID == nil {
			return ""
		}
		return *job.ProfessionalID
	}
	return job.CustomerID
}

func preview(content string) string {
	if utf8.RuneCountInString(content) <= previewLength {
		return content
	}
	runes := []rune(content)
	return string(runes[:previewLength]) + "…"
}
