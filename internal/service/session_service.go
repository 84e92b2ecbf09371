package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/homeservices/internal/auth"
	"github.com/spec-kit/homeservices/internal/domain"
	"github.com/spec-kit/homeservices/internal/events"
	"github.com/spec-kit/homeservices/internal/gateway"
	"github.com/spec-kit/homeservices/internal/session"
	"github.com/spec-kit/homeservices/internal/store"
	apperrors "github.com/spec-kit/homeservices/pkg/util/errorutil"
)

// SessionService runs the sign-in, sign-up and sign-out flows against the
// authentication collaborator and folds the outcome into the auth slice.
type SessionService struct {
	store      *store.Store
	gateway    gateway.AuthGateway
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        Clock
}

// SessionDependencies bundles collaborators for the session service.
type SessionDependencies struct {
	Store      *store.Store
	Gateway    gateway.AuthGateway
	Tokens     *auth.TokenManager
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      Clock
}

// SessionResult is what a successful sign-in or sign-up hands back.
type SessionResult struct {
	User      domain.User
	Token     string
	ExpiresAt time.Time
	Route     session.Route
}

// NewSessionService constructs the service.
func NewSessionService(deps SessionDependencies) *SessionService {
	return &SessionService{
		store:      deps.Store,
		gateway:    deps.Gateway,
		tokens:     deps.Tokens,
		dispatcher: deps.Dispatcher,
		logger:     loggerOrNop(deps.Logger),
		now:        clockOrNow(deps.Clock),
	}
}

// SignIn authenticates creds. Field errors are returned without touching
// state, matching a form that refuses to submit.
func (s *SessionService) SignIn(ctx context.Context, creds domain.Credentials) (SessionResult, error) {
	if errs := domain.ValidateCredentials(creds); !errs.Valid() {
		return SessionResult{}, errs.Err()
	}
	return s.authenticate(ctx, "sign in", func(ctx context.Context) (domain.User, error) {
		return s.gateway.SignIn(ctx, creds)
	})
}

// SignUp registers a new identity and signs it in.
func (s *SessionService) SignUp(ctx context.Context, reg domain.Registration) (SessionResult, error) {
	if errs := domain.ValidateRegistration(reg); !errs.Valid() {
		return SessionResult{}, errs.Err()
	}
	return s.authenticate(ctx, "sign up", func(ctx context.Context) (domain.User, error) {
		return s.gateway.SignUp(ctx, reg)
	})
}

func (s *SessionService) authenticate(ctx context.Context, op string, call func(context.Context) (domain.User, error)) (SessionResult, error) {
	s.store.Dispatch(store.SetAuthError{})
	s.store.Dispatch(store.SetAuthLoading{Loading: true})
	defer s.store.Dispatch(store.SetAuthLoading{Loading: false})

	user, err := call(ctx)
	if err == nil {
		err = validateIdentity(user)
	}
	if err != nil {
		s.logger.Warn(op+" failed", zap.Error(err))
		s.store.Dispatch(store.SetAuthError{Message: failureMessage(err)})
		return SessionResult{}, err
	}

	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		s.logger.Error("issue session token", zap.String("user_id", user.ID), zap.Error(err))
		err = apperrors.NewInternalError(err)
		s.store.Dispatch(store.SetAuthError{Message: failureMessage(err)})
		return SessionResult{}, err
	}

	s.store.Dispatch(store.SetUser{User: user})
	s.logger.Info("session started",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role())))
	publish(ctx, s.dispatcher, s.logger, s.now, events.Event{
		Type:    events.EventSessionStarted,
		Actor:   eventActor(user),
		Payload: events.SessionPayload{Email: user.Email},
	})

	return SessionResult{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
		Route:     session.ResolveRoute(store.AuthState{User: &user, IsAuthenticated: true}),
	}, nil
}

// validateIdentity rejects a collaborator response that could not be a
// signed-in user.
func validateIdentity(u domain.User) error {
	if errs := domain.ValidateUser(u); !errs.Valid() {
		return apperrors.NewUnavailable("authentication provider returned an invalid user", errs.Err())
	}
	return nil
}

// SignOut clears the session. Signing out twice is harmless.
func (s *SessionService) SignOut(ctx context.Context) {
	user, ok := s.store.State().CurrentUser()
	s.store.Dispatch(store.ClearUser{})
	s.store.Dispatch(store.ClearSelectedJob{})
	if !ok {
		return
	}
	s.logger.Info("session ended", zap.String("user_id", user.ID))
	publish(ctx, s.dispatcher, s.logger, s.now, events.Event{
		Type:    events.EventSessionEnded,
		Actor:   eventActor(user),
		Payload: events.SessionPayload{Email: user.Email},
	})
}

// Route resolves the navigation root for the current snapshot.
func (s *SessionService) Route() session.Route {
	return session.ResolveRoute(s.store.State().Auth)
}

// Current returns the signed-in user.
func (s *SessionService) Current() (domain.User, error) {
	return sessionUser(s.store)
}
