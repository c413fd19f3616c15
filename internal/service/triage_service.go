package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/events"
	"github.com/spec-kit/triage-service/internal/observability"
	"github.com/spec-kit/triage-service/internal/triage"
	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

// Runner executes one triage run.
type Runner interface {
	Run(ctx context.Context, req domain.TriageRequest) (*triage.State, error)
}

// TriageService runs the pipeline and enforces the order preconditions callers rely on.
type TriageService struct {
	pipeline   Runner
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// TriageDependencies bundles collaborators for the triage service.
type TriageDependencies struct {
	Pipeline   Runner
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// TriageInput is the caller-supplied ticket.
type TriageInput struct {
	TicketText string
	OrderID    *string
	// ClientID names the authenticated API client, if any. It is only logged.
	ClientID string
}

// TriageResult is the consolidated outcome of a completed run.
type TriageResult struct {
	RunID          string
	OrderID        string
	IssueType      string
	Evidence       *string
	Recommendation *string
	Order          domain.Order
	ReplyText      string
	Transcript     []domain.Message
}

// NewTriageService constructs the service.
func NewTriageService(deps TriageDependencies) *TriageService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TriageService{
		pipeline:   deps.Pipeline,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// Triage validates input, runs the pipeline and checks that an order was resolved and found.
// Errors are *errorutil.DomainError values with codes VALIDATION_FAILED, ORDER_ID_MISSING,
// ORDER_NOT_FOUND or CLASSIFICATION_FAILED.
func (s *TriageService) Triage(ctx context.Context, input TriageInput) (*TriageResult, error) {
	if strings.TrimSpace(input.TicketText) == "" {
		return nil, apperrors.NewValidationError("ticket_text required", nil)
	}

	logger := s.logger
	if input.ClientID != "" {
		logger = logger.With(zap.String("client_id", input.ClientID))
	}

	st, err := s.pipeline.Run(ctx, domain.TriageRequest{TicketText: input.TicketText, OrderID: input.OrderID})
	if err != nil {
		logger.Warn("triage aborted", zap.Error(err))
		return nil, s.aborted(ctx, err)
	}

	if st.OrderID == nil {
		logger.Info("triage rejected: order id unresolved", zap.String("run_id", st.RunID))
		s.finish(ctx, events.EventTriageRejected, observability.OutcomeOrderIDMissing, st, apperrors.CodeOrderIDMissing)
		return nil, apperrors.NewOrderIDMissing()
	}
	if st.Order == nil {
		logger.Info("triage rejected: order not found",
			zap.String("run_id", st.RunID),
			zap.String("order_id", *st.OrderID))
		s.finish(ctx, events.EventTriageRejected, observability.OutcomeOrderNotFound, st, apperrors.CodeOrderNotFound)
		return nil, apperrors.NewOrderNotFound(*st.OrderID)
	}

	outcome := observability.OutcomeCompleted
	if st.Evidence == nil {
		outcome = observability.OutcomeDegraded
	}
	s.finish(ctx, events.EventTriageCompleted, outcome, st, "")
	logger.Info("triage completed",
		zap.String("run_id", st.RunID),
		zap.String("order_id", *st.OrderID),
		zap.String("issue_type", st.IssueTypeOrUnknown()),
		zap.String("outcome", outcome))

	return &TriageResult{
		RunID:          st.RunID,
		OrderID:        *st.OrderID,
		IssueType:      st.IssueTypeOrUnknown(),
		Evidence:       st.Evidence,
		Recommendation: st.Recommendation,
		Order:          *st.Order,
		ReplyText:      triage.Value(st.ReplyText),
		Transcript:     st.Transcript,
	}, nil
}

func (s *TriageService) aborted(ctx context.Context, err error) error {
	var abort *triage.AbortError
	if !errors.As(err, &abort) || !errors.Is(err, triage.ErrClassification) {
		return apperrors.NewInternalError(err)
	}

	s.metrics.RecordTriage(observability.OutcomeClassificationFailed, "")
	s.publish(ctx, events.Event{
		Type:  events.EventTriageAborted,
		RunID: abort.RunID,
		Payload: events.TriageOutcomePayload{
			Code:  apperrors.CodeClassificationFailed,
			Stage: abort.Stage,
		},
	})
	return apperrors.NewClassificationFailed(err)
}

func (s *TriageService) finish(ctx context.Context, eventType events.EventType, outcome string, st *triage.State, code string) {
	s.metrics.RecordTriage(outcome, st.IssueTypeOrUnknown())
	s.publish(ctx, events.Event{
		Type:  eventType,
		RunID: st.RunID,
		Payload: events.TriageOutcomePayload{
			IssueType:  st.IssueTypeOrUnknown(),
			OrderID:    triage.Value(st.OrderID),
			OrderFound: st.Order != nil,
			Degraded:   st.Evidence == nil,
			Code:       code,
		},
	})
}

func (s *TriageService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish triage event", zap.String("run_id", event.RunID), zap.Error(err))
	}
}
