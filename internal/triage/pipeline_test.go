package triage

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/triage-service/internal/directory"
	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/narrative"
	"github.com/spec-kit/triage-service/internal/rules"
)

var errBoom = errors.New("boom")

func fixedNarrative(calls *[]string) narrative.Generator {
	var mu sync.Mutex
	return narrative.GeneratorFunc(func(_ context.Context, ticketText, issueType string) (domain.Explanation, error) {
		if calls != nil {
			mu.Lock()
			*calls = append(*calls, issueType)
			mu.Unlock()
		}
		return domain.Explanation{Evidence: "dummy evidence", Recommendation: "dummy recommendation"}, nil
	})
}

func rawNarrative(raw string) narrative.Generator {
	return narrative.GeneratorFunc(func(context.Context, string, string) (domain.Explanation, error) {
		return narrative.ParseExplanation(raw)
	})
}

func newTestPipeline(gen narrative.Generator, degrade bool) *Pipeline {
	table := rules.NewTable(
		[]domain.IssueRule{
			{Keyword: "refund", IssueType: "refund_request"},
			{Keyword: "late", IssueType: "late_delivery"},
		},
		[]domain.ReplyTemplate{
			{IssueType: "refund_request", Template: "Hi {{customer_name}}, your refund for order {{order_id}} is being processed."},
		},
	)
	dir := directory.New([]domain.Order{
		{OrderID: "ORD1002", CustomerName: "David Lee", Email: "david.lee@example.com"},
		{OrderID: "ORD1003", CustomerName: "Maria Garcia", Email: "maria@example.com"},
	})
	p := New(Dependencies{
		Rules:                     table,
		Orders:                    dir,
		Narrative:                 gen,
		DegradeOnNarrativeFailure: degrade,
	})
	p.newID = func() string { return "run-1" }
	return p
}

func TestRun_RefundScenario(t *testing.T) {
	var calls []string
	p := newTestPipeline(fixedNarrative(&calls), false)

	st, err := p.Run(context.Background(), domain.TriageRequest{
		TicketText: "Hi, my order ORD1002 is late and I want a refund.",
	})
	require.NoError(t, err)

	assert.Equal(t, "ORD1002", Value(st.OrderID))
	assert.Equal(t, "refund_request", Value(st.IssueType))
	assert.Equal(t, "dummy evidence", Value(st.Evidence))
	assert.Equal(t, "dummy recommendation", Value(st.Recommendation))
	require.NotNil(t, st.Order)
	assert.Equal(t, "David Lee", st.Order.CustomerName)
	assert.Contains(t, Value(st.ReplyText), "David Lee")
	assert.Contains(t, Value(st.ReplyText), "ORD1002")
	assert.Equal(t, []string{"refund_request"}, calls, "generator receives the rule-decided issue type")

	want := []domain.Message{
		{Role: domain.RoleUser, Text: "Hi, my order ORD1002 is late and I want a refund."},
		{Role: domain.RoleAssistant, Text: "Issue classified as: refund_request"},
		{Role: domain.RoleAssistant, Text: "Fetched order ORD1002 from order directory."},
		{Role: domain.RoleAssistant, Text: "Drafted reply."},
	}
	if diff := cmp.Diff(want, st.Transcript); diff != "" {
		t.Errorf("transcript mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_NoIdentifier(t *testing.T) {
	p := newTestPipeline(fixedNarrative(nil), false)

	st, err := p.Run(context.Background(), domain.TriageRequest{TicketText: "My package never arrived and it is late"})
	require.NoError(t, err)

	assert.Nil(t, st.OrderID)
	assert.Nil(t, st.Order)
	assert.Equal(t, "late_delivery", Value(st.IssueType))
	assert.Equal(t, "Hi Customer, we are reviewing order N/A.", Value(st.ReplyText))
	assert.Contains(t, st.Transcript[2].Text, "No order_id found")
}

func TestRun_ExplicitOrderIDTakesPrecedence(t *testing.T) {
	p := newTestPipeline(fixedNarrative(nil), false)
	explicit := "ORD1003"

	st, err := p.Run(context.Background(), domain.TriageRequest{
		TicketText: "refund for ORD1002 please",
		OrderID:    &explicit,
	})
	require.NoError(t, err)
	assert.Equal(t, "ORD1003", Value(st.OrderID))
	require.NotNil(t, st.Order)
	assert.Equal(t, "Maria Garcia", st.Order.CustomerName)
}

func TestRun_ExplicitOrderIDUsedVerbatim(t *testing.T) {
	p := newTestPipeline(fixedNarrative(nil), false)
	explicit := "ord1002"

	st, err := p.Run(context.Background(), domain.TriageRequest{TicketText: "refund", OrderID: &explicit})
	require.NoError(t, err)
	assert.Equal(t, "ord1002", Value(st.OrderID), "explicit id is not normalized")
	require.NotNil(t, st.Order, "lookup is case-insensitive")
	assert.Contains(t, Value(st.ReplyText), "ord1002")
}

func TestRun_EmptyExplicitOrderIDFallsBackToText(t *testing.T) {
	p := newTestPipeline(fixedNarrative(nil), false)
	empty := ""

	st, err := p.Run(context.Background(), domain.TriageRequest{TicketText: "refund ord1002", OrderID: &empty})
	require.NoError(t, err)
	assert.Equal(t, "ORD1002", Value(st.OrderID))
}

func TestRun_OrderNotFound(t *testing.T) {
	p := newTestPipeline(fixedNarrative(nil), false)
	explicit := "ORD9999"

	st, err := p.Run(context.Background(), domain.TriageRequest{TicketText: "I want a refund", OrderID: &explicit})
	require.NoError(t, err)
	assert.Equal(t, "ORD9999", Value(st.OrderID))
	assert.Nil(t, st.Order)
	assert.Equal(t, "refund_request", Value(st.IssueType))
	assert.Equal(t, "Hi Customer, your refund for order N/A is being processed.", Value(st.ReplyText))
	assert.Equal(t, "Order ORD9999 not found in order directory.", st.Transcript[2].Text)
}

func TestRun_UnparseableNarrativeAborts(t *testing.T) {
	p := newTestPipeline(rawNarrative("not json at all"), false)

	st, err := p.Run(context.Background(), domain.TriageRequest{TicketText: "Hi, my order ORD1002 is late and I want a refund."})
	require.Error(t, err)
	assert.Nil(t, st, "no partial result")

	assert.True(t, errors.Is(err, ErrClassification))
	assert.True(t, errors.Is(err, narrative.ErrMalformedResponse))

	var abort *AbortError
	require.True(t, errors.As(err, &abort))
	assert.Equal(t, StageClassify, abort.Stage)
	assert.Equal(t, "run-1", abort.RunID)
}

func TestRun_DegradedNarrative(t *testing.T) {
	failing := narrative.GeneratorFunc(func(context.Context, string, string) (domain.Explanation, error) {
		return domain.Explanation{}, errBoom
	})
	p := newTestPipeline(failing, true)

	st, err := p.Run(context.Background(), domain.TriageRequest{TicketText: "refund ORD1002"})
	require.NoError(t, err)
	assert.Equal(t, "refund_request", Value(st.IssueType))
	assert.Nil(t, st.Evidence)
	assert.Nil(t, st.Recommendation)
	assert.NotNil(t, st.ReplyText)
	assert.Len(t, st.Transcript, 5)
}

func TestRun_NarrativeTimeout(t *testing.T) {
	slow := narrative.GeneratorFunc(func(ctx context.Context, _, _ string) (domain.Explanation, error) {
		<-ctx.Done()
		return domain.Explanation{}, ctx.Err()
	})
	p := newTestPipeline(slow, false)
	p.stages[1] = classifyStage{
		rules:     p.stages[3].(draftReplyStage).rules,
		generator: slow,
		timeout:   10 * time.Millisecond,
		logger:    p.logger,
	}

	_, err := p.Run(context.Background(), domain.TriageRequest{TicketText: "refund"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrClassification))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestRun_ConcurrentRunsAreIndependent(t *testing.T) {
	p := New(Dependencies{
		Rules:     rules.NewTable([]domain.IssueRule{{Keyword: "refund", IssueType: "refund_request"}}, nil),
		Orders:    directory.New([]domain.Order{{OrderID: "ORD1002", CustomerName: "David Lee"}}),
		Narrative: fixedNarrative(nil),
	})

	var wg sync.WaitGroup
	ids := make([]string, 20)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			st, err := p.Run(context.Background(), domain.TriageRequest{TicketText: "refund ORD1002"})
			if assert.NoError(t, err) {
				assert.Len(t, st.Transcript, 4)
				ids[i] = st.RunID
			}
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, id := range ids {
		assert.False(t, seen[id], "run ids are unique")
		seen[id] = true
	}
}

func TestStageNames(t *testing.T) {
	p := newTestPipeline(fixedNarrative(nil), false)
	assert.Equal(t, "ingest,classify_issue,fetch_order,draft_reply", strings.Join(p.StageNames(), ","))
}
