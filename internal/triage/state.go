package triage

import (
	"github.com/spec-kit/triage-service/internal/domain"
)

// State is owned by a single run and threaded through the stages in order.
// Each optional field is written by exactly one stage; nil means "not produced".
type State struct {
	RunID      string
	Transcript []domain.Message
	TicketText string

	OrderID        *string
	IssueType      *string
	Evidence       *string
	Recommendation *string
	Order          *domain.Order
	ReplyText      *string
}

func newState(runID string, req domain.TriageRequest) *State {
	st := &State{
		RunID:      runID,
		Transcript: make([]domain.Message, 0, 5),
		TicketText: req.TicketText,
	}
	if req.OrderID != nil && *req.OrderID != "" {
		st.OrderID = strPtr(*req.OrderID)
	}
	return st
}

func (s *State) record(role domain.MessageRole, text string) {
	s.Transcript = append(s.Transcript, domain.Message{Role: role, Text: text})
}

// IssueTypeOrUnknown returns the resolved issue type or domain.IssueTypeUnknown.
func (s *State) IssueTypeOrUnknown() string {
	if s.IssueType == nil || *s.IssueType == "" {
		return domain.IssueTypeUnknown
	}
	return *s.IssueType
}

// Value dereferences an optional string, returning "" for nil.
func Value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func strPtr(s string) *string {
	return &s
}
