package dto

import (
	"github.com/spec-kit/triage-service/internal/domain"
)

// TriageInvokeRequest payload.
type TriageInvokeRequest struct {
	TicketText string  `json:"ticket_text"`
	OrderID    *string `json:"order_id"`
}

// TriageInvokeResponse is the consolidated triage result.
type TriageInvokeResponse struct {
	RunID          string            `json:"run_id"`
	OrderID        string            `json:"order_id"`
	IssueType      string            `json:"issue_type"`
	Evidence       *string           `json:"evidence"`
	Recommendation *string           `json:"recommendation"`
	Order          domain.Order      `json:"order"`
	ReplyText      string            `json:"reply_text"`
	Transcript     []TranscriptEntry `json:"transcript,omitempty"`
}

// TranscriptEntry is one message of the run transcript, returned in debug mode.
type TranscriptEntry struct {
	Role string `json:"role"`
	Text string `json:"text"`
}
