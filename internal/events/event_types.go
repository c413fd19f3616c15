package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTriageCompleted EventType = "triage.completed"
	EventTriageRejected  EventType = "triage.rejected"
	EventTriageAborted   EventType = "triage.aborted"
)

// TriageEventTypes lists every triage outcome event.
var TriageEventTypes = []EventType{EventTriageCompleted, EventTriageRejected, EventTriageAborted}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RunID     string      `json:"run_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TriageOutcomePayload summarizes a run. Ticket text is never included.
type TriageOutcomePayload struct {
	IssueType  string `json:"issue_type,omitempty"`
	OrderID    string `json:"order_id,omitempty"`
	OrderFound bool   `json:"order_found"`
	Degraded   bool   `json:"degraded,omitempty"`
	Code       string `json:"code,omitempty"`
	Stage      string `json:"stage,omitempty"`
}
