package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"tavola/internal/domain"
)

type InventoryRepo struct{ db *sqlx.DB }

func NewInventoryRepo(db *sqlx.DB) *InventoryRepo { return &InventoryRepo{db: db} }

const inventoryCols = `
  id, name, COALESCE(description,'') AS description, category, unit,
  current_stock, minimum_stock, unit_cost,
  COALESCE(supplier_name,'') AS supplier_name,
  COALESCE(supplier_contact,'') AS supplier_contact,
  COALESCE(last_restocked,'') AS last_restocked,
  created_at, COALESCE(updated_at,'') AS updated_at`

func markLowStock(items []domain.InventoryItem) {
	for i := range items {
		items[i].IsLowStock = items[i].LowStock()
	}
}

func (r *InventoryRepo) List(category string) ([]domain.InventoryItem, error) {
	where := `1=1`
	args := []any{}
	if category != "" {
		where += ` AND category = ?`
		args = append(args, category)
	}
	var out []domain.InventoryItem
	if err := r.db.Select(&out, `
	  SELECT `+inventoryCols+` FROM inventory_items WHERE `+where+` ORDER BY category, name
	`, args...); err != nil {
		return nil, err
	}
	markLowStock(out)
	return out, nil
}

func (r *InventoryRepo) Categories() ([]string, error) {
	var out []string
	err := r.db.Select(&out, `SELECT DISTINCT category FROM inventory_items ORDER BY category`)
	return out, err
}

func (r *InventoryRepo) Get(id string) (domain.InventoryItem, error) {
	var it domain.InventoryItem
	if err := r.db.Get(&it, `SELECT `+inventoryCols+` FROM inventory_items WHERE id = ?`, id); err != nil {
		return domain.InventoryItem{}, err
	}
	it.IsLowStock = it.LowStock()
	return it, nil
}

func (r *InventoryRepo) Create(it domain.InventoryItem) error {
	_, err := r.db.Exec(`
	  INSERT INTO inventory_items
	    (id, name, description, category, unit, current_stock, minimum_stock, unit_cost, supplier_name, supplier_contact, created_at)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, it.ID, it.Name, it.Description, it.Category, it.Unit, it.CurrentStock, it.MinimumStock, it.UnitCost, it.SupplierName, it.SupplierContact)
	return err
}

// Update changes descriptive fields only; current_stock moves exclusively
// through ApplyMovement.
func (r *InventoryRepo) Update(it domain.InventoryItem) error {
	_, err := r.db.Exec(`
	  UPDATE inventory_items
	  SET name = ?, description = ?, category = ?, unit = ?, minimum_stock = ?, unit_cost = ?,
	      supplier_name = ?, supplier_contact = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, it.Name, it.Description, it.Category, it.Unit, it.MinimumStock, it.UnitCost, it.SupplierName, it.SupplierContact, it.ID)
	return err
}

func (r *InventoryRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM inventory_items WHERE id = ?`, id)
	return err
}

// ApplyMovement records a ledger row and applies it to current stock in one
// transaction: in adds (and stamps last_restocked), out subtracts,
// adjustment replaces. Stock is floored at zero. Returns the stored movement
// and the item's new state.
func (r *InventoryRepo) ApplyMovement(m domain.StockMovement) (domain.StockMovement, domain.InventoryItem, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return domain.StockMovement{}, domain.InventoryItem{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var current decimal.Decimal
	if err := tx.Get(&current, `SELECT current_stock FROM inventory_items WHERE id = ?`, m.InventoryItemID); err != nil {
		return domain.StockMovement{}, domain.InventoryItem{}, err
	}

	next := current
	restock := false
	switch m.MovementType {
	case domain.MovementIn:
		next = current.Add(m.Quantity)
		restock = true
	case domain.MovementOut:
		next = current.Sub(m.Quantity)
	case domain.MovementAdjustment:
		next = m.Quantity
	}
	if next.IsNegative() {
		next = decimal.Zero
	}

	if restock {
		if _, err := tx.Exec(`
		  UPDATE inventory_items
		  SET current_stock = ?, last_restocked = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		  WHERE id = ?
		`, next, m.InventoryItemID); err != nil {
			return domain.StockMovement{}, domain.InventoryItem{}, err
		}
	} else {
		if _, err := tx.Exec(`
		  UPDATE inventory_items SET current_stock = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
		`, next, m.InventoryItemID); err != nil {
			return domain.StockMovement{}, domain.InventoryItem{}, err
		}
	}

	m.ID = uuid.NewString()
	if _, err := tx.Exec(`
	  INSERT INTO stock_movements(id, inventory_item_id, movement_type, quantity, reason, performed_by, created_at)
	  VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, m.ID, m.InventoryItemID, m.MovementType, m.Quantity, m.Reason, m.PerformedBy); err != nil {
		return domain.StockMovement{}, domain.InventoryItem{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.StockMovement{}, domain.InventoryItem{}, err
	}

	item, err := r.Get(m.InventoryItemID)
	if err != nil {
		return domain.StockMovement{}, domain.InventoryItem{}, err
	}
	return m, item, nil
}

func (r *InventoryRepo) Movements(itemID string) ([]domain.StockMovement, error) {
	var out []domain.StockMovement
	err := r.db.Select(&out, `
	  SELECT id, inventory_item_id, movement_type, quantity, COALESCE(reason,'') AS reason,
	         COALESCE(performed_by,'') AS performed_by, created_at
	  FROM stock_movements WHERE inventory_item_id = ?
	  ORDER BY datetime(created_at) DESC
	`, itemID)
	return out, err
}

// OutMovements feeds the usage report: most recent out movements first.
func (r *InventoryRepo) OutMovements(limit int) ([]domain.StockMovement, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.StockMovement
	err := r.db.Select(&out, `
	  SELECT id, inventory_item_id, movement_type, quantity, COALESCE(reason,'') AS reason,
	         COALESCE(performed_by,'') AS performed_by, created_at
	  FROM stock_movements WHERE movement_type = 'out'
	  ORDER BY datetime(created_at) DESC
	  LIMIT ?
	`, limit)
	return out, err
}
