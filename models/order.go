package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// MaxOrderSubtotal is the largest item subtotal the orders table can store.
var MaxOrderSubtotal = decimal.RequireFromString("99999999.99")

// Order is the snapshot taken at checkout. Only Invoice and Notified change
// after creation.
type Order struct {
	OrderID      int64           `json:"order_id"`
	Created      time.Time       `json:"created"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	ShippingZone string          `json:"shipping_zone"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Items        []OrderItem     `json:"items"`
	Notified     bool            `json:"notified"`
	Invoice      *string         `json:"invoice"`
}

func (o *Order) Total() decimal.Decimal {
	return o.TotalPaid.Add(o.ShippingCost)
}

type OrderItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
}

type orderItemJSON struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	Total    string `json:"total"`
}

// MarshalJSON stores money as two-place decimal strings.
func (i OrderItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(orderItemJSON{
		Name:     i.Name,
		Quantity: i.Quantity,
		Price:    i.Price.StringFixed(2),
		Total:    i.Total.StringFixed(2),
	})
}

func NewOrderItems(entries []CartEntry) []OrderItem {
	items := make([]OrderItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, OrderItem{
			Name:     e.Name,
			Quantity: e.Quantity,
			Price:    e.UnitPrice,
			Total:    e.LineTotal(),
		})
	}
	return items
}

type CheckoutResult struct {
	OrderID  int64   `json:"order_id"`
	DeepLink string  `json:"deep_link"`
	Invoice  *string `json:"invoice"`
	Message  string  `json:"message"`
}
