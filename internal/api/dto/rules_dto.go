package dto

// ClassifyRequest payload.
type ClassifyRequest struct {
	TicketText string `json:"ticket_text"`
}

// ClassifyResponse carries the rule-only classification.
type ClassifyResponse struct {
	IssueType  string  `json:"issue_type"`
	Confidence float64 `json:"confidence"`
}

// ReplyDraftRequest payload. Order fields other than customer_name and order_id are ignored.
type ReplyDraftRequest struct {
	IssueType string         `json:"issue_type"`
	Order     map[string]any `json:"order"`
}

// ReplyDraftResponse carries the rendered reply.
type ReplyDraftResponse struct {
	ReplyText string `json:"reply_text"`
}
