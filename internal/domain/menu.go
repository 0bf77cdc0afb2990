package domain

import "github.com/shopspring/decimal"

type MenuItem struct {
	ID          string          `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Category    string          `db:"category" json:"category"`
	ImageURL    string          `db:"image_url" json:"image_url"`
	IsAvailable bool            `db:"is_available" json:"is_available"`
	CreatedBy   string          `db:"created_by" json:"created_by,omitempty"`
	CreatedAt   string          `db:"created_at" json:"created_at"`
	UpdatedAt   string          `db:"updated_at" json:"updated_at,omitempty"`
}
