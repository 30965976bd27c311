package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/odo-hq/expensys/internal/api"
	"github.com/odo-hq/expensys/internal/auth"
	"github.com/odo-hq/expensys/internal/credential"
	"github.com/odo-hq/expensys/internal/domain"
	"github.com/odo-hq/expensys/internal/events"
	"github.com/odo-hq/expensys/pkg/util"
)

// SessionService owns the authentication state machine. It is the single
// writer of session state; every other component reads snapshots through
// Current or subscribes to the dispatcher.
type SessionService struct {
	store      credential.Store
	decoder    auth.TokenDecoder
	api        *api.Client
	dispatcher events.Dispatcher
	logger     *zap.Logger

	mu      sync.Mutex
	session domain.Session
	// generation tags each login attempt; logout bumps it so a login that
	// settles late cannot resurrect a cleared session.
	generation uint64
}

// SessionDependencies encapsulates collaborator requirements for the session
// service.
type SessionDependencies struct {
	Store      credential.Store
	Decoder    auth.TokenDecoder
	API        *api.Client
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewSessionService builds the service and registers its teardown hook with
// the transport.
func NewSessionService(deps SessionDependencies) *SessionService {
	s := &SessionService{
		store:      deps.Store,
		decoder:    deps.Decoder,
		api:        deps.API,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		session:    domain.Session{Phase: domain.SessionUnauthenticated},
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.api != nil {
		s.api.SetUnauthorizedHandler(s.HandleUnauthorized)
	}
	return s
}

// Initialize restores the session from the persisted credential. It is fully
// synchronous and touches no network; consumers observe the RESTORING phase
// for its duration and no gated view may render before it returns. A
// credential that fails to decode is treated as absent: cleared, logged,
// never allowed to block startup.
func (s *SessionService) Initialize() domain.Session {
	s.mu.Lock()
	s.session = domain.Session{Phase: domain.SessionRestoring}

	token, ok := s.store.Load()
	if !ok {
		s.session = domain.Session{Phase: domain.SessionUnauthenticated}
		snapshot := s.session
		s.mu.Unlock()
		return snapshot
	}

	claims, err := s.decoder.Decode(token)
	if err != nil {
		s.session = domain.Session{Phase: domain.SessionUnauthenticated}
		snapshot := s.session
		s.mu.Unlock()
		if clearErr := s.store.Clear(); clearErr != nil {
			s.logger.Warn("failed to clear rejected credential", zap.Error(clearErr))
		}
		s.logger.Warn("stored credential rejected", zap.Error(err))
		return snapshot
	}

	s.session = sessionFromClaims(claims)
	snapshot := s.session
	s.mu.Unlock()

	s.logger.Info("session restored",
		zap.String("subject", snapshot.Subject),
		zap.String("role", string(snapshot.Role)))
	s.publish(events.EventSessionRestored, snapshot, nil)
	return snapshot
}

// Login exchanges credentials for a token, persists it and transitions to
// AUTHENTICATED. A 401 from the issuer surfaces as invalid credentials;
// transport failures and other statuses as service unavailability, so shells
// can message the two differently.
func (s *SessionService) Login(ctx context.Context, username, password string) error {
	s.mu.Lock()
	s.generation++
	generation := s.generation
	s.mu.Unlock()

	token, err := s.api.Token(ctx, username, password)
	if err != nil {
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized {
			return util.NewInvalidCredentials(statusErr.Detail)
		}
		return util.NewServiceUnavailable(err)
	}

	claims, err := s.decoder.Decode(token)
	if err != nil {
		// The issuer handed back something unusable; do not persist it.
		s.logger.Error("issued token failed to decode", zap.Error(err))
		return err
	}

	s.mu.Lock()
	if generation != s.generation {
		// A logout or newer login superseded this call while it was in
		// flight; its result must not be applied.
		s.mu.Unlock()
		s.logger.Info("discarding superseded login", zap.String("subject", claims.Subject))
		return nil
	}
	if err := s.store.Save(token); err != nil {
		s.mu.Unlock()
		return err
	}
	s.session = sessionFromClaims(claims)
	snapshot := s.session
	s.mu.Unlock()

	s.logger.Info("logged in",
		zap.String("subject", snapshot.Subject),
		zap.String("role", string(snapshot.Role)))
	s.publish(events.EventLoggedIn, snapshot, nil)
	return nil
}

// Logout clears the credential and resets the session. Idempotent: calling it
// while already unauthenticated is a no-op. It also supersedes any login
// still in flight.
func (s *SessionService) Logout() error {
	s.mu.Lock()
	s.generation++
	wasAuthenticated := s.session.Authenticated()
	s.session = domain.Session{Phase: domain.SessionUnauthenticated}
	snapshot := s.session
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		return err
	}
	if wasAuthenticated {
		s.logger.Info("logged out")
		s.publish(events.EventLoggedOut, snapshot, nil)
	}
	return nil
}

// Current returns a read-only snapshot of the session.
func (s *SessionService) Current() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// HandleUnauthorized tears the session down after the backend rejects an
// authenticated request. The stored credential is stale or revoked; keeping
// it would wedge every subsequent request.
func (s *SessionService) HandleUnauthorized() {
	s.expire("backend rejected credential")
}

// HandleExpiry applies the expiry-detected transition once the decoded
// ExpiresAt passes. Driven by the expiry worker.
func (s *SessionService) HandleExpiry() {
	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()
	if !sess.Authenticated() || sess.ExpiresAt.IsZero() || time.Now().Before(sess.ExpiresAt) {
		return
	}
	s.expire("credential expired")
}

func (s *SessionService) expire(reason string) {
	s.mu.Lock()
	if !s.session.Authenticated() {
		s.mu.Unlock()
		return
	}
	s.generation++
	s.session = domain.Session{Phase: domain.SessionUnauthenticated}
	snapshot := s.session
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		s.logger.Warn("failed to clear credential", zap.Error(err))
	}
	s.logger.Info("session expired", zap.String("reason", reason))
	s.publish(events.EventSessionExpired, snapshot, nil)
}

func (s *SessionService) publish(eventType events.EventType, session domain.Session, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(context.Background(), events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Session:   session,
		Payload:   payload,
	})
}

func sessionFromClaims(claims *domain.Claims) domain.Session {
	return domain.Session{
		Phase:     domain.SessionAuthenticated,
		Subject:   claims.Subject,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt,
	}
}
