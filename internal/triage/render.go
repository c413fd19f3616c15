package triage

import (
	"strings"

	"github.com/spec-kit/triage-service/internal/domain"
)

// Template placeholders and the values used when the order is unknown.
const (
	PlaceholderCustomerName = "{{customer_name}}"
	PlaceholderOrderID      = "{{order_id}}"

	DefaultCustomerName = "Customer"
	DefaultOrderID      = "N/A"
)

// Render fills a reply template from the resolved order. Without an order both placeholders
// take their defaults, even if an identifier was resolved.
func Render(template string, order *domain.Order, orderID *string) string {
	if order == nil {
		return RenderFields(template, "", "")
	}
	id := Value(orderID)
	if id == "" {
		id = order.OrderID
	}
	return RenderFields(template, order.CustomerName, id)
}

// RenderFields substitutes both placeholders, using the defaults for empty values.
func RenderFields(template, customerName, orderID string) string {
	if customerName == "" {
		customerName = DefaultCustomerName
	}
	if orderID == "" {
		orderID = DefaultOrderID
	}
	return strings.NewReplacer(
		PlaceholderCustomerName, customerName,
		PlaceholderOrderID, orderID,
	).Replace(template)
}
