package services

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"tavola/internal/cart"
	"tavola/internal/domain"
)

var (
	// ErrEmptyCart is a local precondition failure: no placement call is made.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrSubmitInProgress rejects a second submit for the same session while
	// one is still in flight, so a double click cannot place two orders.
	ErrSubmitInProgress = errors.New("checkout already in progress")
)

// Placer is the single remote operation a checkout needs.
type Placer interface {
	Place(d domain.OrderDraft) (domain.Order, error)
}

// CheckoutService turns a session cart plus customer fields into one order
// submission. The cart is cleared only after the placer acknowledges
// success; every failure leaves it untouched.
type CheckoutService struct {
	Carts  *cart.Store
	Orders Placer

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewCheckoutService(carts *cart.Store, orders Placer) *CheckoutService {
	return &CheckoutService{Carts: carts, Orders: orders, inFlight: make(map[string]struct{})}
}

// Confirmation is the view-model handed back after a successful checkout.
type Confirmation struct {
	OrderID      string             `json:"order_id"`
	CustomerName string             `json:"customer_name"`
	OrderType    string             `json:"order_type"`
	TotalAmount  decimal.Decimal    `json:"total_amount"`
	Status       domain.OrderStatus `json:"status"`
}

// Submit builds the draft's lines from the session cart and places it.
func (s *CheckoutService) Submit(sessionID string, d domain.OrderDraft) (Confirmation, error) {
	var lines []cart.Line
	_ = s.Carts.Do(sessionID, func(c *cart.Cart) error {
		lines = c.Lines()
		return nil
	})
	if len(lines) == 0 {
		return Confirmation{}, ErrEmptyCart
	}

	if !s.begin(sessionID) {
		return Confirmation{}, ErrSubmitInProgress
	}
	defer s.end(sessionID)

	d.Lines = make([]domain.DraftLine, 0, len(lines))
	for _, l := range lines {
		d.Lines = append(d.Lines, domain.DraftLine{MenuItemID: l.ItemID, Quantity: l.Quantity})
	}

	o, err := s.Orders.Place(d)
	if err != nil {
		return Confirmation{}, err
	}

	// Clear happens-after acknowledgment, never before.
	_ = s.Carts.Do(sessionID, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})

	return Confirmation{
		OrderID:      o.ID,
		CustomerName: o.CustomerName,
		OrderType:    o.OrderType,
		TotalAmount:  o.TotalAmount,
		Status:       o.Status,
	}, nil
}

func (s *CheckoutService) begin(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionID]; busy {
		return false
	}
	s.inFlight[sessionID] = struct{}{}
	return true
}

func (s *CheckoutService) end(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, sessionID)
}
