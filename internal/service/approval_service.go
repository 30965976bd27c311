package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/odo-hq/expensys/internal/api"
	"github.com/odo-hq/expensys/internal/api/dto"
	"github.com/odo-hq/expensys/internal/domain"
	"github.com/odo-hq/expensys/internal/events"
	"github.com/odo-hq/expensys/pkg/util"
)

// ApprovalService reconciles the locally cached approval queue against the
// backend's decision endpoint. The queue mutates optimistically: a confirmed
// decision removes the expense without a re-fetch.
type ApprovalService struct {
	api        *api.Client
	dispatcher events.Dispatcher
	logger     *zap.Logger

	mu       sync.Mutex
	queue    []domain.Expense
	inflight map[string]domain.PendingDecision
}

// NewApprovalService builds the service.
func NewApprovalService(apiClient *api.Client, dispatcher events.Dispatcher, logger *zap.Logger) *ApprovalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApprovalService{
		api:        apiClient,
		dispatcher: dispatcher,
		logger:     logger,
		inflight:   make(map[string]domain.PendingDecision),
	}
}

// RefreshQueue replaces the cached queue with the backend's current view.
func (s *ApprovalService) RefreshQueue(ctx context.Context) error {
	expenses, err := s.api.ApprovalQueue(ctx)
	if err != nil {
		return util.NewRequestFailed("fetching approval queue", err)
	}

	s.mu.Lock()
	s.queue = expenses
	s.mu.Unlock()
	return nil
}

// Queue returns a copy of the cached approval queue.
func (s *ApprovalService) Queue() []domain.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Expense{}, s.queue...)
}

// SubmitDecision records an approve/reject verdict for one expense. At most
// one decision per expense may be in flight: a second attempt fails locally
// with a conflict instead of issuing a duplicate request. On success the
// expense leaves the cached queue exactly once; on failure the queue is
// untouched.
func (s *ApprovalService) SubmitDecision(ctx context.Context, expenseID string, action domain.DecisionAction, comment string) error {
	s.mu.Lock()
	if _, busy := s.inflight[expenseID]; busy {
		s.mu.Unlock()
		return util.NewSubmitConflict(expenseID)
	}
	pending := domain.PendingDecision{
		ID:        uuid.NewString(),
		ExpenseID: expenseID,
		Action:    action,
		Comment:   comment,
		StartedAt: time.Now(),
	}
	s.inflight[expenseID] = pending
	s.mu.Unlock()

	_, err := s.api.Decide(ctx, expenseID, dto.DecisionRequest{
		Status:  string(action),
		Comment: comment,
	})

	s.mu.Lock()
	delete(s.inflight, expenseID)
	if err == nil {
		s.removeFromQueueLocked(expenseID)
	}
	s.mu.Unlock()

	if err != nil {
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) {
			s.logger.Warn("decision declined",
				zap.String("expense_id", expenseID),
				zap.Int("status", statusErr.StatusCode))
			return util.NewSubmitRejected(statusErr.Detail)
		}
		s.logger.Warn("decision endpoint unreachable",
			zap.String("expense_id", expenseID), zap.Error(err))
		return util.NewSubmitUnreachable(err)
	}

	s.logger.Info("decision recorded",
		zap.String("expense_id", expenseID),
		zap.String("action", string(action)))
	s.publishDecision(expenseID, action)
	return nil
}

// PendingCount reports how many decisions are currently in flight.
func (s *ApprovalService) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inflight)
}

func (s *ApprovalService) removeFromQueueLocked(expenseID string) {
	filtered := s.queue[:0]
	for _, expense := range s.queue {
		if expense.ID != expenseID {
			filtered = append(filtered, expense)
		}
	}
	s.queue = filtered
}

func (s *ApprovalService) publishDecision(expenseID string, action domain.DecisionAction) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(context.Background(), events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventDecisionSubmitted,
		Timestamp: time.Now(),
		Payload: events.DecisionSubmittedPayload{
			ExpenseID: expenseID,
			Action:    action,
		},
	})
}
