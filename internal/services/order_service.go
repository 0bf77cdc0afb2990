package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tavola/internal/domain"
	"tavola/internal/repos"
)

// OrderService owns order placement and the status workflow. Prices and
// totals are always computed here from the menu, never trusted from the
// submission.
type OrderService struct {
	Menu   *repos.MenuRepo
	Orders *repos.OrderRepo
}

func NewOrderService(menu *repos.MenuRepo, orders *repos.OrderRepo) *OrderService {
	return &OrderService{Menu: menu, Orders: orders}
}

// Place validates every draft line against the menu and creates the order
// atomically with status pending. Rejections carry the reason verbatim.
func (s *OrderService) Place(d domain.OrderDraft) (domain.Order, error) {
	if len(d.Lines) == 0 {
		return domain.Order{}, &RejectedError{Reason: "order must contain at least one item"}
	}
	if d.CustomerName == "" {
		return domain.Order{}, &RejectedError{Reason: "customer_name is required"}
	}
	if d.OrderType == "" {
		d.OrderType = domain.OrderTypeDineIn
	}

	// Duplicate draft lines for the same item are summed into one order line.
	lines := make([]domain.DraftLine, 0, len(d.Lines))
	byItem := make(map[string]int, len(d.Lines))
	for _, line := range d.Lines {
		if line.Quantity < 1 {
			line.Quantity = 1
		}
		if i, seen := byItem[line.MenuItemID]; seen {
			lines[i].Quantity += line.Quantity
			continue
		}
		byItem[line.MenuItemID] = len(lines)
		lines = append(lines, line)
	}

	total := decimal.Zero
	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		m, err := s.Menu.Get(line.MenuItemID)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, &RejectedError{Reason: fmt.Sprintf("menu item %s is not available", line.MenuItemID)}
		}
		if err != nil {
			return domain.Order{}, err
		}
		if !m.IsAvailable {
			return domain.Order{}, &RejectedError{Reason: fmt.Sprintf("menu item %s is not available", line.MenuItemID)}
		}
		lineTotal := m.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, domain.OrderItem{
			MenuItemID: m.ID,
			Name:       m.Name,
			Price:      m.Price,
			Quantity:   line.Quantity,
			Total:      lineTotal,
		})
		total = total.Add(lineTotal)
	}

	o := domain.Order{
		ID:                  uuid.NewString(),
		CustomerName:        d.CustomerName,
		CustomerEmail:       d.CustomerEmail,
		CustomerPhone:       d.CustomerPhone,
		OrderType:           d.OrderType,
		SpecialInstructions: d.SpecialInstructions,
		TotalAmount:         total,
		Status:              domain.StatusPending,
		Items:               items,
	}
	if err := s.Orders.Create(o); err != nil {
		return domain.Order{}, err
	}
	// Re-read for the DB-assigned timestamp.
	return s.Orders.Get(o.ID)
}

func (s *OrderService) Get(id string) (domain.Order, error) {
	o, err := s.Orders.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, ErrNotFound
	}
	return o, err
}

func (s *OrderService) List(f repos.Filter) ([]domain.Order, error) {
	return s.Orders.List(f)
}

// UpdateStatus moves an order to the requested status. Membership in the
// status enum is the only transition rule enforced.
func (s *OrderService) UpdateStatus(orderID, status string) (domain.Order, error) {
	st, err := domain.ParseOrderStatus(status)
	if err != nil {
		return domain.Order{}, &RejectedError{Reason: err.Error()}
	}
	if err := s.Orders.UpdateStatus(orderID, st); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, ErrNotFound
		}
		return domain.Order{}, err
	}
	return s.Orders.Get(orderID)
}

// UpdateFields patches customer-facing order fields; a status value, when
// present, is enum-checked like any other transition request.
func (s *OrderService) UpdateFields(orderID string, patch domain.OrderDraft, status string) (domain.Order, error) {
	o, err := s.Get(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if patch.CustomerName != "" {
		o.CustomerName = patch.CustomerName
	}
	if patch.CustomerEmail != "" {
		o.CustomerEmail = patch.CustomerEmail
	}
	if patch.CustomerPhone != "" {
		o.CustomerPhone = patch.CustomerPhone
	}
	if patch.OrderType != "" {
		o.OrderType = patch.OrderType
	}
	if patch.SpecialInstructions != "" {
		o.SpecialInstructions = patch.SpecialInstructions
	}
	if status != "" {
		st, err := domain.ParseOrderStatus(status)
		if err != nil {
			return domain.Order{}, &RejectedError{Reason: err.Error()}
		}
		o.Status = st
	}
	if err := s.Orders.UpdateFields(o); err != nil {
		return domain.Order{}, err
	}
	return s.Orders.Get(orderID)
}

func (s *OrderService) Delete(orderID string) error {
	if _, err := s.Get(orderID); err != nil {
		return err
	}
	return s.Orders.Delete(orderID)
}

func (s *OrderService) Stats() (domain.OrderStats, error) {
	return s.Orders.Stats()
}
