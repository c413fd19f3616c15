package dto

import "github.com/spec-kit/triage-service/internal/domain"

// OrderSearchResponse wraps search results.
type OrderSearchResponse struct {
	Results []domain.Order `json:"results"`
}
