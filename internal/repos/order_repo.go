package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"tavola/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `
  id, customer_name, COALESCE(customer_email,'') AS customer_email,
  COALESCE(customer_phone,'') AS customer_phone, order_type,
  COALESCE(special_instructions,'') AS special_instructions,
  total_amount, status, created_at, COALESCE(updated_at,'') AS updated_at`

// Filter narrows List; zero values mean no constraint. Dates are RFC 3339
// strings compared against created_at.
type Filter struct {
	Status    string
	OrderType string
	DateFrom  string
	DateTo    string
}

// Create inserts the order header and its lines in one transaction.
func (r *OrderRepo) Create(o domain.Order) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO orders
	    (id, customer_name, customer_email, customer_phone, order_type, special_instructions, total_amount, status, created_at)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, o.ID, o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.OrderType, o.SpecialInstructions, o.TotalAmount, o.Status); err != nil {
		return err
	}
	for _, it := range o.Items {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id, menu_item_id, name, price, quantity, total)
		  VALUES (?, ?, ?, ?, ?, ?)
		`, o.ID, it.MenuItemID, it.Name, it.Price, it.Quantity, it.Total); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *OrderRepo) Get(id string) (domain.Order, error) {
	var o domain.Order
	if err := r.db.Get(&o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, id); err != nil {
		return domain.Order{}, err
	}
	if err := r.db.Select(&o.Items, `
	  SELECT menu_item_id, name, price, quantity, total
	  FROM order_items WHERE order_id = ? ORDER BY name
	`, id); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

// List returns orders newest first, each with its nested lines.
func (r *OrderRepo) List(f Filter) ([]domain.Order, error) {
	where := `1=1`
	args := []any{}
	if f.Status != "" {
		where += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.OrderType != "" {
		where += ` AND order_type = ?`
		args = append(args, f.OrderType)
	}
	if f.DateFrom != "" {
		where += ` AND datetime(created_at) >= datetime(?)`
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		where += ` AND datetime(created_at) <= datetime(?)`
		args = append(args, f.DateTo)
	}

	var out []domain.Order
	if err := r.db.Select(&out, `
	  SELECT `+orderCols+` FROM orders WHERE `+where+`
	  ORDER BY datetime(created_at) DESC
	`, args...); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.db.Select(&out[i].Items, `
		  SELECT menu_item_id, name, price, quantity, total
		  FROM order_items WHERE order_id = ? ORDER BY name
		`, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// UpdateStatus moves an order to status; sql.ErrNoRows if the order is unknown.
func (r *OrderRepo) UpdateStatus(id string, status domain.OrderStatus) error {
	res, err := r.db.Exec(`
	  UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateFields overwrites the customer-editable header fields plus status.
func (r *OrderRepo) UpdateFields(o domain.Order) error {
	res, err := r.db.Exec(`
	  UPDATE orders
	  SET customer_name = ?, customer_email = ?, customer_phone = ?, order_type = ?,
	      special_instructions = ?, status = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.OrderType, o.SpecialInstructions, o.Status, o.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *OrderRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM orders WHERE id = ?`, id)
	return err
}

// Stats aggregates counts and completed revenue. Totals are summed in Go so
// decimal amounts are never coerced through SQL floats.
func (r *OrderRepo) Stats() (domain.OrderStats, error) {
	var s domain.OrderStats
	if err := r.db.Get(&s.TotalOrders, `SELECT COUNT(*) FROM orders`); err != nil {
		return s, err
	}
	if err := r.db.Get(&s.PendingOrders, `SELECT COUNT(*) FROM orders WHERE status = 'pending'`); err != nil {
		return s, err
	}
	if err := r.db.Get(&s.CompletedOrders, `SELECT COUNT(*) FROM orders WHERE status = 'completed'`); err != nil {
		return s, err
	}
	var totals []decimal.Decimal
	if err := r.db.Select(&totals, `SELECT total_amount FROM orders WHERE status = 'completed'`); err != nil {
		return s, err
	}
	s.TotalRevenue = decimal.Zero
	for _, t := range totals {
		s.TotalRevenue = s.TotalRevenue.Add(t)
	}
	return s, nil
}
