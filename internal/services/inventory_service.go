package services

import (
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"tavola/internal/domain"
	"tavola/internal/repos"
)

type InventoryService struct {
	Inv *repos.InventoryRepo
}

func NewInventoryService(inv *repos.InventoryRepo) *InventoryService {
	return &InventoryService{Inv: inv}
}

func (s *InventoryService) List(category string, lowOnly bool) ([]domain.InventoryItem, error) {
	items, err := s.Inv.List(category)
	if err != nil {
		return nil, err
	}
	if !lowOnly {
		return items, nil
	}
	var out []domain.InventoryItem
	for _, it := range items {
		if it.IsLowStock {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *InventoryService) LowStock() ([]domain.InventoryItem, error) {
	return s.List("", true)
}

func (s *InventoryService) Get(id string) (domain.InventoryItem, error) {
	it, err := s.Inv.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.InventoryItem{}, ErrNotFound
	}
	return it, err
}

// MovementResult mirrors the stock-movement response shape: the ledger row
// plus the item state after applying it.
type MovementResult struct {
	Movement    domain.StockMovement `json:"movement"`
	UpdatedItem domain.InventoryItem `json:"updated_item"`
}

// RecordMovement validates and forwards one stock movement. The store owns
// the direction semantics; nothing is changed locally on failure.
func (s *InventoryService) RecordMovement(itemID, movementType string, quantity decimal.Decimal, reason, performedBy string) (MovementResult, error) {
	mt, err := domain.ParseMovementType(movementType)
	if err != nil {
		return MovementResult{}, &RejectedError{Reason: err.Error()}
	}
	if !quantity.IsPositive() {
		return MovementResult{}, &RejectedError{Reason: "quantity must be a positive number"}
	}
	if _, err := s.Get(itemID); err != nil {
		return MovementResult{}, err
	}

	m, item, err := s.Inv.ApplyMovement(domain.StockMovement{
		InventoryItemID: itemID,
		MovementType:    mt,
		Quantity:        quantity,
		Reason:          reason,
		PerformedBy:     performedBy,
	})
	if err != nil {
		return MovementResult{}, err
	}
	return MovementResult{Movement: m, UpdatedItem: item}, nil
}

func (s *InventoryService) Movements(itemID string) ([]domain.StockMovement, error) {
	if _, err := s.Get(itemID); err != nil {
		return nil, err
	}
	return s.Inv.Movements(itemID)
}

// UsageReport lists the most recent out movements across all items.
func (s *InventoryService) UsageReport() ([]domain.StockMovement, error) {
	return s.Inv.OutMovements(100)
}
