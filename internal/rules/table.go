// Package rules holds the keyword classification rules and reply templates.
// A Table is immutable after construction and safe for concurrent readers.
package rules

import (
	"strings"

	"github.com/spec-kit/triage-service/internal/domain"
)

// FallbackTemplate is used when no reply template is registered for an issue type.
const FallbackTemplate = "Hi {{customer_name}}, we are reviewing order {{order_id}}."

// Confidence scores reported by rule-only classification.
const (
	MatchedConfidence   = 0.85
	UnmatchedConfidence = 0.1
)

type rule struct {
	keyword   string
	issueType string
}

// Table is an ordered, first-match-wins view over issue rules and reply templates.
type Table struct {
	rules     []rule
	templates []domain.ReplyTemplate
	source    []domain.IssueRule
}

// Match is the result of rule-only classification.
type Match struct {
	IssueType  string  `json:"issue_type"`
	Keyword    string  `json:"keyword,omitempty"`
	Confidence float64 `json:"confidence"`
}

// NewTable copies the given lists so later mutation by the caller cannot leak in.
func NewTable(issueRules []domain.IssueRule, templates []domain.ReplyTemplate) *Table {
	t := &Table{
		rules:     make([]rule, 0, len(issueRules)),
		templates: append([]domain.ReplyTemplate(nil), templates...),
		source:    append([]domain.IssueRule(nil), issueRules...),
	}
	for _, r := range issueRules {
		kw := strings.ToLower(r.Keyword)
		if kw == "" {
			continue
		}
		issueType := r.IssueType
		if issueType == "" {
			issueType = domain.IssueTypeUnknown
		}
		t.rules = append(t.rules, rule{keyword: kw, issueType: issueType})
	}
	return t
}

// Classify returns the issue type of the first rule whose keyword occurs in the ticket text,
// or domain.IssueTypeUnknown.
func (t *Table) Classify(ticketText string) string {
	return t.Match(ticketText).IssueType
}

// Match is Classify with the winning keyword and a confidence score.
func (t *Table) Match(ticketText string) Match {
	lower := strings.ToLower(ticketText)
	for _, r := range t.rules {
		if strings.Contains(lower, r.keyword) {
			return Match{IssueType: r.issueType, Keyword: r.keyword, Confidence: MatchedConfidence}
		}
	}
	return Match{IssueType: domain.IssueTypeUnknown, Confidence: UnmatchedConfidence}
}

// TemplateFor returns the first template registered for issueType, or FallbackTemplate.
func (t *Table) TemplateFor(issueType string) string {
	for _, tpl := range t.templates {
		if tpl.IssueType == issueType && tpl.Template != "" {
			return tpl.Template
		}
	}
	return FallbackTemplate
}

// Rules returns a copy of the configured rules in evaluation order.
func (t *Table) Rules() []domain.IssueRule {
	return append([]domain.IssueRule(nil), t.source...)
}

// Templates returns a copy of the configured templates.
func (t *Table) Templates() []domain.ReplyTemplate {
	return append([]domain.ReplyTemplate(nil), t.templates...)
}
