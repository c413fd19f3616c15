package domain

// MessageRole identifies the author of a transcript entry.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is a single role-tagged text record.
type Message struct {
	Role MessageRole `json:"role"`
	Text string      `json:"text"`
}

// TriageRequest is the validated input to a triage run.
type TriageRequest struct {
	TicketText string
	OrderID    *string
}

// Explanation is the narrative generator's structured answer.
type Explanation struct {
	Evidence       string `json:"evidence"`
	Recommendation string `json:"recommendation"`
}
