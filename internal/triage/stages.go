package triage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/narrative"
)

// Stage names, also used in logs and abort errors.
const (
	StageIngest     = "ingest"
	StageClassify   = "classify_issue"
	StageFetchOrder = "fetch_order"
	StageDraftReply = "draft_reply"
)

type ingestStage struct{}

func (ingestStage) Name() string { return StageIngest }

func (ingestStage) Run(_ context.Context, st *State) error {
	st.record(domain.RoleUser, st.TicketText)
	return nil
}

type classifyStage struct {
	rules     RuleTable
	generator narrative.Generator
	timeout   time.Duration
	degrade   bool
	logger    *zap.Logger
}

func (classifyStage) Name() string { return StageClassify }

func (s classifyStage) Run(ctx context.Context, st *State) error {
	issueType := s.rules.Classify(st.TicketText)

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	explanation, err := s.generator.Explain(callCtx, st.TicketText, issueType)
	if err != nil && !s.degrade {
		return fmt.Errorf("%w: %w", ErrClassification, err)
	}

	st.IssueType = strPtr(issueType)
	st.record(domain.RoleAssistant, "Issue classified as: "+issueType)
	if err != nil {
		s.logger.Warn("narrative unavailable, continuing without explanation",
			zap.String("run_id", st.RunID),
			zap.String("issue_type", issueType),
			zap.Error(err))
		st.record(domain.RoleAssistant, "Narrative unavailable; evidence and recommendation omitted.")
		return nil
	}
	st.Evidence = strPtr(explanation.Evidence)
	st.Recommendation = strPtr(explanation.Recommendation)
	return nil
}

type fetchOrderStage struct {
	orders OrderFinder
}

func (fetchOrderStage) Name() string { return StageFetchOrder }

func (s fetchOrderStage) Run(_ context.Context, st *State) error {
	if st.OrderID == nil {
		if id, ok := ExtractOrderID(st.TicketText); ok {
			st.OrderID = strPtr(id)
		}
	}
	if st.OrderID == nil {
		st.record(domain.RoleAssistant, "No order_id found in payload or ticket text.")
		return nil
	}

	order, ok := s.orders.FindOrder(*st.OrderID)
	if !ok {
		st.record(domain.RoleAssistant, fmt.Sprintf("Order %s not found in order directory.", *st.OrderID))
		return nil
	}
	st.Order = &order
	st.record(domain.RoleAssistant, fmt.Sprintf("Fetched order %s from order directory.", *st.OrderID))
	return nil
}

type draftReplyStage struct {
	rules RuleTable
}

func (draftReplyStage) Name() string { return StageDraftReply }

func (s draftReplyStage) Run(_ context.Context, st *State) error {
	template := s.rules.TemplateFor(st.IssueTypeOrUnknown())
	st.ReplyText = strPtr(Render(template, st.Order, st.OrderID))
	st.record(domain.RoleAssistant, "Drafted reply.")
	return nil
}
