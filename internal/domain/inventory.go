package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type InventoryItem struct {
	ID              string          `db:"id" json:"id"`
	Name            string          `db:"name" json:"name"`
	Description     string          `db:"description" json:"description,omitempty"`
	Category        string          `db:"category" json:"category"`
	Unit            string          `db:"unit" json:"unit"`
	CurrentStock    decimal.Decimal `db:"current_stock" json:"current_stock"`
	MinimumStock    decimal.Decimal `db:"minimum_stock" json:"minimum_stock"`
	UnitCost        decimal.Decimal `db:"unit_cost" json:"unit_cost"`
	SupplierName    string          `db:"supplier_name" json:"supplier_name,omitempty"`
	SupplierContact string          `db:"supplier_contact" json:"supplier_contact,omitempty"`
	LastRestocked   string          `db:"last_restocked" json:"last_restocked,omitempty"`
	CreatedAt       string          `db:"created_at" json:"created_at"`
	UpdatedAt       string          `db:"updated_at" json:"updated_at,omitempty"`

	IsLowStock bool `db:"-" json:"is_low_stock"`
}

// LowStock reports whether current stock has fallen below the configured
// minimum (strictly below; stock exactly at the minimum is not low).
func (i InventoryItem) LowStock() bool {
	return i.CurrentStock.LessThan(i.MinimumStock)
}

// MovementType directs how a stock movement is applied: in adds, out
// subtracts, adjustment replaces the current stock outright.
type MovementType string

const (
	MovementIn         MovementType = "in"
	MovementOut        MovementType = "out"
	MovementAdjustment MovementType = "adjustment"
)

func ParseMovementType(s string) (MovementType, error) {
	switch MovementType(s) {
	case MovementIn, MovementOut, MovementAdjustment:
		return MovementType(s), nil
	}
	return "", fmt.Errorf("invalid movement_type %q, must be one of: in, out, adjustment", s)
}

// StockMovement is an append-only ledger row; current stock is only ever
// changed by applying one of these.
type StockMovement struct {
	ID              string          `db:"id" json:"id"`
	InventoryItemID string          `db:"inventory_item_id" json:"inventory_item_id"`
	MovementType    MovementType    `db:"movement_type" json:"movement_type"`
	Quantity        decimal.Decimal `db:"quantity" json:"quantity"`
	Reason          string          `db:"reason" json:"reason,omitempty"`
	PerformedBy     string          `db:"performed_by" json:"performed_by"`
	CreatedAt       string          `db:"created_at" json:"created_at"`
}
