package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OrderStatus is the closed set of order lifecycle states. Pending is the
// only initial state; completed and cancelled are terminal. Any status may
// be requested from any other status -- sequencing is not enforced here.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	StatusPending, StatusConfirmed, StatusPreparing,
	StatusReady, StatusCompleted, StatusCancelled,
}

// ParseOrderStatus validates enum membership only.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status %q, must be one of: pending, confirmed, preparing, ready, completed, cancelled", s)
}

func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Order types accepted at checkout.
const (
	OrderTypeDineIn   = "dine_in"
	OrderTypeTakeaway = "takeaway"
	OrderTypeDelivery = "delivery"
)

type Order struct {
	ID                  string          `db:"id" json:"id"`
	CustomerName        string          `db:"customer_name" json:"customer_name"`
	CustomerEmail       string          `db:"customer_email" json:"customer_email,omitempty"`
	CustomerPhone       string          `db:"customer_phone" json:"customer_phone,omitempty"`
	OrderType           string          `db:"order_type" json:"order_type"`
	SpecialInstructions string          `db:"special_instructions" json:"special_instructions,omitempty"`
	TotalAmount         decimal.Decimal `db:"total_amount" json:"total_amount"`
	Status              OrderStatus     `db:"status" json:"status"`
	CreatedAt           string          `db:"created_at" json:"created_at"`
	UpdatedAt           string          `db:"updated_at" json:"updated_at,omitempty"`

	Items []OrderItem `json:"order_items"`
}

// OrderItem carries the server-computed per-line total; prices are captured
// at placement time and never re-read from the menu afterwards.
type OrderItem struct {
	MenuItemID string          `db:"menu_item_id" json:"menu_item_id"`
	Name       string          `db:"name" json:"name"`
	Price      decimal.Decimal `db:"price" json:"price"`
	Quantity   int             `db:"quantity" json:"quantity"`
	Total      decimal.Decimal `db:"total" json:"total"`
}

// OrderDraft is the one-shot submission payload built from a cart plus the
// customer's form fields. It is discarded after the placement call returns.
type OrderDraft struct {
	CustomerName        string      `json:"customer_name"`
	CustomerEmail       string      `json:"customer_email"`
	CustomerPhone       string      `json:"customer_phone"`
	OrderType           string      `json:"order_type"`
	SpecialInstructions string      `json:"special_instructions"`
	Lines               []DraftLine `json:"order_items"`
}

type DraftLine struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

type OrderStats struct {
	TotalOrders     int             `json:"total_orders"`
	PendingOrders   int             `json:"pending_orders"`
	CompletedOrders int             `json:"completed_orders"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
}
