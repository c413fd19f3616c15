// Package narrative asks a language model to justify a precomputed issue type and suggest a next step.
//
// Model output is untrusted: every backend funnels its raw text through ParseExplanation, and any
// transport failure or malformed payload is returned as an error for the caller to act on.
package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spec-kit/triage-service/internal/domain"
)

// Instruction is the fixed system message sent with every request.
const Instruction = "You are a customer support triage assistant. " +
	"Given a ticket and a precomputed issue_type, briefly explain why this " +
	"issue_type is reasonable and what the support agent should do next. " +
	"Respond in strict JSON with keys: evidence, recommendation."

// ErrMalformedResponse marks output that does not carry exactly the expected structure.
var ErrMalformedResponse = errors.New("malformed narrative response")

// Generator produces evidence and a recommendation for a classified ticket.
type Generator interface {
	Explain(ctx context.Context, ticketText, issueType string) (domain.Explanation, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, ticketText, issueType string) (domain.Explanation, error)

func (f GeneratorFunc) Explain(ctx context.Context, ticketText, issueType string) (domain.Explanation, error) {
	return f(ctx, ticketText, issueType)
}

// Messages builds the instruction and data messages for one request.
func Messages(ticketText, issueType string) []domain.Message {
	return []domain.Message{
		{Role: domain.RoleSystem, Text: Instruction},
		{Role: domain.RoleUser, Text: fmt.Sprintf("TICKET:\n%s\n\nISSUE_TYPE: %s", ticketText, issueType)},
	}
}

// ParseExplanation decodes a JSON object with string fields evidence and recommendation.
// Surrounding whitespace and a single markdown code fence are tolerated; anything else fails.
func ParseExplanation(raw string) (domain.Explanation, error) {
	cleaned := cleanJSON([]byte(raw))
	if len(cleaned) == 0 {
		return domain.Explanation{}, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}

	var payload struct {
		Evidence       *string `json:"evidence"`
		Recommendation *string `json:"recommendation"`
	}
	if err := json.Unmarshal(cleaned, &payload); err != nil {
		return domain.Explanation{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if payload.Evidence == nil || payload.Recommendation == nil {
		return domain.Explanation{}, fmt.Errorf("%w: evidence and recommendation are required", ErrMalformedResponse)
	}
	return domain.Explanation{Evidence: *payload.Evidence, Recommendation: *payload.Recommendation}, nil
}

// cleanJSON strips whitespace and a wrapping ```json ... ``` fence.
func cleanJSON(data []byte) []byte {
	s := bytes.TrimSpace(data)
	if len(s) == 0 {
		return s
	}

	if bytes.HasPrefix(s, []byte("```")) {
		if idx := bytes.IndexByte(s, '\n'); idx >= 0 {
			s = s[idx+1:]
		} else {
			return nil
		}
		if bytes.HasSuffix(s, []byte("```")) {
			s = s[:len(s)-3]
		}
		s = bytes.TrimSpace(s)
	}

	return s
}
