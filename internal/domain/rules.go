package domain

// IssueTypeUnknown is assigned when no keyword rule matches.
const IssueTypeUnknown = "unknown"

// IssueRule maps a keyword to an issue type. Rules are evaluated in list order.
type IssueRule struct {
	Keyword   string `json:"keyword" yaml:"keyword"`
	IssueType string `json:"issue_type" yaml:"issue_type"`
}

// ReplyTemplate is a reply body selected by issue type.
type ReplyTemplate struct {
	IssueType string `json:"issue_type" yaml:"issue_type"`
	Template  string `json:"template" yaml:"template"`
}
