package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/triage-service/internal/api/dto"
	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/rules"
	"github.com/spec-kit/triage-service/internal/triage"
	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

// RulesHandler exposes rule-only classification and reply drafting.
type RulesHandler struct {
	table *rules.Table
}

// NewRulesHandler constructs handler.
func NewRulesHandler(table *rules.Table) *RulesHandler {
	return &RulesHandler{table: table}
}

// Classify POST /classify/issue.
func (h *RulesHandler) Classify(c *fiber.Ctx) error {
	var req dto.ClassifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.TicketText) == "" {
		return apperrors.NewValidationError("ticket_text required", nil)
	}
	match := h.table.Match(req.TicketText)
	return c.JSON(dto.ClassifyResponse{IssueType: match.IssueType, Confidence: match.Confidence})
}

// DraftReply POST /reply/draft.
func (h *RulesHandler) DraftReply(c *fiber.Ctx) error {
	var req dto.ReplyDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	issueType := strings.TrimSpace(req.IssueType)
	if issueType == "" {
		issueType = domain.IssueTypeUnknown
	}

	name := stringField(req.Order, "customer_name", triage.DefaultCustomerName)
	orderID := stringField(req.Order, "order_id", triage.DefaultOrderID)
	reply := triage.RenderFields(h.table.TemplateFor(issueType), name, orderID)
	return c.JSON(dto.ReplyDraftResponse{ReplyText: reply})
}

func stringField(m map[string]any, key, fallback string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
