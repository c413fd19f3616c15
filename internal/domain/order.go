package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Order is read-only reference data. Fields beyond the three named ones are kept in Attributes
// and passed through unchanged.
type Order struct {
	OrderID      string
	CustomerName string
	Email        string
	Attributes   map[string]any
}

const (
	fieldOrderID      = "order_id"
	fieldCustomerName = "customer_name"
	fieldEmail        = "email"
)

// NewOrderFromMap splits a flat record into named fields and pass-through attributes.
func NewOrderFromMap(record map[string]any) (Order, error) {
	order := Order{Attributes: map[string]any{}}
	for key, val := range record {
		switch key {
		case fieldOrderID, fieldCustomerName, fieldEmail:
			s, ok := val.(string)
			if !ok && val != nil {
				return Order{}, fmt.Errorf("order field %s must be a string, got %T", key, val)
			}
			switch key {
			case fieldOrderID:
				order.OrderID = s
			case fieldCustomerName:
				order.CustomerName = s
			default:
				order.Email = s
			}
		default:
			order.Attributes[key] = val
		}
	}
	if strings.TrimSpace(order.OrderID) == "" {
		return Order{}, fmt.Errorf("order record missing %s", fieldOrderID)
	}
	return order, nil
}

// Map flattens the order back into a single record.
func (o Order) Map() map[string]any {
	out := make(map[string]any, len(o.Attributes)+3)
	for k, v := range o.Attributes {
		out[k] = v
	}
	out[fieldOrderID] = o.OrderID
	out[fieldCustomerName] = o.CustomerName
	out[fieldEmail] = o.Email
	return out
}

func (o Order) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Map())
}

func (o *Order) UnmarshalJSON(data []byte) error {
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return err
	}
	parsed, err := NewOrderFromMap(record)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

func (o *Order) UnmarshalYAML(node *yaml.Node) error {
	var record map[string]any
	if err := node.Decode(&record); err != nil {
		return err
	}
	parsed, err := NewOrderFromMap(record)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*o = parsed
	return nil
}
