package services

import (
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"tavola/internal/cart"
	"tavola/internal/repos"
)

// CartService resolves menu items and applies cart mutations for a session.
type CartService struct {
	Carts *cart.Store
	Menu  *repos.MenuRepo
}

func NewCartService(carts *cart.Store, menu *repos.MenuRepo) *CartService {
	return &CartService{Carts: carts, Menu: menu}
}

// Add puts qty of a menu item into the session cart. Unknown or unavailable
// items fail with cart.ErrInvalidItem before the cart is touched.
func (s *CartService) Add(sessionID, itemID string, qty int) error {
	m, err := s.Menu.Get(itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cart.ErrInvalidItem
		}
		return err
	}
	if !m.IsAvailable {
		return cart.ErrInvalidItem
	}
	return s.Carts.Do(sessionID, func(c *cart.Cart) error {
		c.Add(m.ID, m.Name, m.Price, qty)
		return nil
	})
}

func (s *CartService) ChangeQuantity(sessionID, itemID string, delta int) error {
	return s.Carts.Do(sessionID, func(c *cart.Cart) error {
		c.ChangeQuantity(itemID, delta)
		return nil
	})
}

func (s *CartService) Remove(sessionID, itemID string) error {
	return s.Carts.Do(sessionID, func(c *cart.Cart) error {
		c.Remove(itemID)
		return nil
	})
}

type CartView struct {
	Items []cart.Line     `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

func (s *CartService) View(sessionID string) (CartView, error) {
	var v CartView
	err := s.Carts.Do(sessionID, func(c *cart.Cart) error {
		v = CartView{Items: c.Lines(), Total: c.Total(), Count: c.ItemCount()}
		return nil
	})
	return v, err
}
