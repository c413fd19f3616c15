// Package triage runs a support ticket through a fixed four-stage pipeline:
// ingest, classify, fetch order, draft reply.
package triage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/narrative"
)

// ErrClassification marks a run aborted because the narrative generator failed.
var ErrClassification = errors.New("classification failed")

// RuleTable classifies ticket text and selects reply templates.
type RuleTable interface {
	Classify(ticketText string) string
	TemplateFor(issueType string) string
}

// OrderFinder looks up an order by identifier.
type OrderFinder interface {
	FindOrder(orderID string) (domain.Order, bool)
}

// Stage is one step of a run. A returned error aborts the run.
type Stage interface {
	Name() string
	Run(ctx context.Context, st *State) error
}

// AbortError reports the stage that stopped a run.
type AbortError struct {
	RunID string
	Stage string
	Err   error
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("triage run %s aborted in %s: %v", e.RunID, e.Stage, e.Err)
}

func (e *AbortError) Unwrap() error {
	return e.Err
}

// Dependencies bundles the collaborators of a pipeline.
type Dependencies struct {
	Rules     RuleTable
	Orders    OrderFinder
	Narrative narrative.Generator
	Logger    *zap.Logger

	// NarrativeTimeout bounds only the generator call. Zero leaves it to the caller's context.
	NarrativeTimeout time.Duration
	// DegradeOnNarrativeFailure keeps the run going with evidence and recommendation absent.
	DegradeOnNarrativeFailure bool
}

// Pipeline holds read-only collaborators and may be shared by concurrent runs.
type Pipeline struct {
	stages []Stage
	logger *zap.Logger
	newID  func() string
}

// New builds the standard pipeline.
func New(deps Dependencies) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		stages: []Stage{
			ingestStage{},
			classifyStage{
				rules:     deps.Rules,
				generator: deps.Narrative,
				timeout:   deps.NarrativeTimeout,
				degrade:   deps.DegradeOnNarrativeFailure,
				logger:    logger,
			},
			fetchOrderStage{orders: deps.Orders},
			draftReplyStage{rules: deps.Rules},
		},
		logger: logger,
		newID:  uuid.NewString,
	}
}

// StageNames lists the stages in execution order.
func (p *Pipeline) StageNames() []string {
	names := make([]string, 0, len(p.stages))
	for _, s := range p.stages {
		names = append(names, s.Name())
	}
	return names
}

// Run executes every stage in order against a fresh state. On abort the partial state is
// discarded and an *AbortError is returned.
func (p *Pipeline) Run(ctx context.Context, req domain.TriageRequest) (*State, error) {
	st := newState(p.newID(), req)
	logger := p.logger.With(zap.String("run_id", st.RunID))

	for _, stage := range p.stages {
		start := time.Now()
		if err := stage.Run(ctx, st); err != nil {
			logger.Warn("triage run aborted",
				zap.String("stage", stage.Name()),
				zap.Error(err))
			return nil, &AbortError{RunID: st.RunID, Stage: stage.Name(), Err: err}
		}
		logger.Debug("stage completed",
			zap.String("stage", stage.Name()),
			zap.Duration("elapsed", time.Since(start)))
	}

	logger.Debug("triage run completed",
		zap.String("issue_type", st.IssueTypeOrUnknown()),
		zap.Bool("order_found", st.Order != nil),
		zap.Int("transcript_len", len(st.Transcript)))
	return st, nil
}
