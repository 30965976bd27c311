package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/odo-hq/expensys/internal/events"
	"github.com/odo-hq/expensys/internal/service"
)

// ExpiryWorker watches the live session's expiry timestamp and drives the
// expiry-detected transition. The token decoder deliberately never validates
// exp, so without this watcher a dead credential would linger until the
// backend rejected a request.
type ExpiryWorker struct {
	sessions *service.SessionService
	logger   *zap.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// NewExpiryWorker builds the worker.
func NewExpiryWorker(sessions *service.SessionService, logger *zap.Logger) *ExpiryWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpiryWorker{sessions: sessions, logger: logger}
}

// Register subscribes the worker to every session transition so the timer is
// rearmed or cancelled as the session changes.
func (w *ExpiryWorker) Register(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventSessionRestored, w.handleSessionChange)
	dispatcher.Subscribe(events.EventLoggedIn, w.handleSessionChange)
	dispatcher.Subscribe(events.EventLoggedOut, w.handleSessionChange)
	dispatcher.Subscribe(events.EventSessionExpired, w.handleSessionChange)
}

// Stop cancels any armed timer.
func (w *ExpiryWorker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopLocked()
}

func (w *ExpiryWorker) handleSessionChange(_ context.Context, event events.Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopLocked()

	session := event.Session
	if !session.Authenticated() || session.ExpiresAt.IsZero() {
		return nil
	}

	delay := time.Until(session.ExpiresAt)
	if delay < 0 {
		delay = 0
	}
	w.logger.Debug("expiry timer armed", zap.Duration("delay", delay))
	w.timer = time.AfterFunc(delay, w.sessions.HandleExpiry)
	return nil
}

func (w *ExpiryWorker) stopLocked() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
