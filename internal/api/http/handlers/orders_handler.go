package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/triage-service/internal/api/dto"
	"github.com/spec-kit/triage-service/internal/directory"
	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

// OrdersHandler serves read-only order lookups.
type OrdersHandler struct {
	orders *directory.Directory
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orders *directory.Directory) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

// Get GET /orders/get?order_id=.
func (h *OrdersHandler) Get(c *fiber.Ctx) error {
	orderID := strings.TrimSpace(c.Query("order_id"))
	if orderID == "" {
		return apperrors.NewValidationError("order_id required", nil)
	}
	order, ok := h.orders.FindOrder(orderID)
	if !ok {
		return apperrors.NewNotFound("Order", map[string]any{"order_id": orderID})
	}
	return c.JSON(order)
}

// Search GET /orders/search?customer_email=&q=.
func (h *OrdersHandler) Search(c *fiber.Ctx) error {
	results := h.orders.Search(directory.SearchQuery{
		CustomerEmail: strings.TrimSpace(c.Query("customer_email")),
		Text:          strings.TrimSpace(c.Query("q")),
	})
	return c.JSON(dto.OrderSearchResponse{Results: results})
}
