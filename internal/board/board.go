// Package board holds the staff dashboard's view of loaded orders and the
// status transition workflow. Transitions are optimistic: the local view is
// updated first, and restored in the same call if the store rejects the
// update, so no stale tentative status is ever observable after a failure.
package board

import (
	"errors"

	"tavola/internal/domain"
)

var ErrUnknownOrder = errors.New("order not loaded")

// Store is the single remote operation a transition needs.
type Store interface {
	UpdateStatus(orderID string, status domain.OrderStatus) error
}

type Board struct {
	store  Store
	orders []domain.Order
	filter string // empty means all statuses
}

func New(store Store, orders []domain.Order) *Board {
	return &Board{store: store, orders: orders}
}

// SetFilter restricts Visible to one status; an empty value clears the
// filter. Non-empty values must be a valid status.
func (b *Board) SetFilter(status string) error {
	if status == "" {
		b.filter = ""
		return nil
	}
	st, err := domain.ParseOrderStatus(status)
	if err != nil {
		return err
	}
	b.filter = string(st)
	return nil
}

func (b *Board) Filter() string { return b.filter }

// Visible re-derives the filtered order list from current board state.
func (b *Board) Visible() []domain.Order {
	if b.filter == "" {
		out := make([]domain.Order, len(b.orders))
		copy(out, b.orders)
		return out
	}
	var out []domain.Order
	for _, o := range b.orders {
		if string(o.Status) == b.filter {
			out = append(out, o)
		}
	}
	return out
}

// RequestTransition asks the store to move an order to newStatus. Only enum
// membership is validated; any status may be requested from any other. The
// board's copy is updated optimistically and rolled back if the store call
// fails.
func (b *Board) RequestTransition(orderID, newStatus string) error {
	st, err := domain.ParseOrderStatus(newStatus)
	if err != nil {
		return err
	}
	idx := -1
	for i := range b.orders {
		if b.orders[i].ID == orderID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrUnknownOrder
	}
	return Apply(
		func() domain.OrderStatus { return b.orders[idx].Status },
		func(s domain.OrderStatus) { b.orders[idx].Status = s },
		st,
		func() error { return b.store.UpdateStatus(orderID, st) },
	)
}
