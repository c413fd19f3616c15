package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/triage-service/internal/api/dto"
	"github.com/spec-kit/triage-service/internal/auth"
	"github.com/spec-kit/triage-service/internal/service"
	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

// TriageHandler exposes the triage pipeline.
type TriageHandler struct {
	service *service.TriageService
}

// NewTriageHandler constructs handler.
func NewTriageHandler(triageService *service.TriageService) *TriageHandler {
	return &TriageHandler{service: triageService}
}

// Invoke POST /triage/invoke. With ?debug=true the run transcript is included.
func (h *TriageHandler) Invoke(c *fiber.Ctx) error {
	var req dto.TriageInvokeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TriageInput{
		TicketText: req.TicketText,
		OrderID:    req.OrderID,
	}
	if principal, ok := auth.PrincipalFromContext(c); ok {
		input.ClientID = principal.ClientID
	}

	result, err := h.service.Triage(c.UserContext(), input)
	if err != nil {
		return err
	}

	resp := dto.TriageInvokeResponse{
		RunID:          result.RunID,
		OrderID:        result.OrderID,
		IssueType:      result.IssueType,
		Evidence:       result.Evidence,
		Recommendation: result.Recommendation,
		Order:          result.Order,
		ReplyText:      result.ReplyText,
	}
	if c.QueryBool("debug") {
		resp.Transcript = make([]dto.TranscriptEntry, 0, len(result.Transcript))
		for _, m := range result.Transcript {
			resp.Transcript = append(resp.Transcript, dto.TranscriptEntry{Role: string(m.Role), Text: m.Text})
		}
	}
	return c.JSON(resp)
}
