// Package directory provides read-only lookup over the order reference data.
package directory

import (
	"strings"

	"github.com/spec-kit/triage-service/internal/domain"
)

// Directory is an immutable snapshot of orders, safe for concurrent use.
type Directory struct {
	orders []domain.Order
}

// New snapshots orders in the given order. Duplicates are kept; lookups return the first.
func New(orders []domain.Order) *Directory {
	return &Directory{orders: append([]domain.Order(nil), orders...)}
}

// FindOrder matches orderID case-insensitively against each order's identifier.
func (d *Directory) FindOrder(orderID string) (domain.Order, bool) {
	if orderID == "" {
		return domain.Order{}, false
	}
	for _, o := range d.orders {
		if strings.EqualFold(o.OrderID, orderID) {
			return o, true
		}
	}
	return domain.Order{}, false
}

// SearchQuery filters orders by customer email or by free text mentioning an order id or customer name.
type SearchQuery struct {
	CustomerEmail string
	Text          string
}

// Search returns orders whose email equals CustomerEmail, or whose id or customer name
// appears in Text. Matching is case-insensitive.
func (d *Directory) Search(q SearchQuery) []domain.Order {
	email := strings.ToLower(strings.TrimSpace(q.CustomerEmail))
	text := strings.ToLower(q.Text)

	results := make([]domain.Order, 0)
	for _, o := range d.orders {
		switch {
		case email != "" && strings.ToLower(o.Email) == email:
			results = append(results, o)
		case text != "" && mentions(text, o):
			results = append(results, o)
		}
	}
	return results
}

// Len reports the number of orders in the snapshot.
func (d *Directory) Len() int {
	return len(d.orders)
}

func mentions(text string, o domain.Order) bool {
	if strings.Contains(text, strings.ToLower(o.OrderID)) {
		return true
	}
	name := strings.ToLower(o.CustomerName)
	return name != "" && strings.Contains(text, name)
}
