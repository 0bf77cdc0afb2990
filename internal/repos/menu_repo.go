package repos

import (
	"github.com/jmoiron/sqlx"

	"tavola/internal/domain"
)

type MenuRepo struct{ db *sqlx.DB }

func NewMenuRepo(db *sqlx.DB) *MenuRepo { return &MenuRepo{db: db} }

const menuCols = `
  id, name, COALESCE(description,'') AS description, price, category,
  COALESCE(image_url,'') AS image_url, is_available,
  COALESCE(created_by,'') AS created_by,
  created_at, COALESCE(updated_at,'') AS updated_at`

// List returns menu items ordered for display; category and availability
// filters are optional.
func (r *MenuRepo) List(category string, availableOnly bool) ([]domain.MenuItem, error) {
	where := `1=1`
	args := []any{}
	if availableOnly {
		where += ` AND is_available = 1`
	}
	if category != "" {
		where += ` AND category = ?`
		args = append(args, category)
	}
	var out []domain.MenuItem
	err := r.db.Select(&out, `SELECT `+menuCols+` FROM menu_items WHERE `+where+` ORDER BY category, name`, args...)
	return out, err
}

func (r *MenuRepo) Categories() ([]string, error) {
	var out []string
	err := r.db.Select(&out, `SELECT DISTINCT category FROM menu_items ORDER BY category`)
	return out, err
}

func (r *MenuRepo) Get(id string) (domain.MenuItem, error) {
	var m domain.MenuItem
	err := r.db.Get(&m, `SELECT `+menuCols+` FROM menu_items WHERE id = ?`, id)
	return m, err
}

func (r *MenuRepo) Create(m domain.MenuItem) error {
	_, err := r.db.Exec(`
	  INSERT INTO menu_items(id, name, description, price, category, image_url, is_available, created_by, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, m.ID, m.Name, m.Description, m.Price, m.Category, m.ImageURL, m.IsAvailable, m.CreatedBy)
	return err
}

func (r *MenuRepo) Update(m domain.MenuItem) error {
	_, err := r.db.Exec(`
	  UPDATE menu_items
	  SET name = ?, description = ?, price = ?, category = ?, image_url = ?, is_available = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, m.Name, m.Description, m.Price, m.Category, m.ImageURL, m.IsAvailable, m.ID)
	return err
}

// ToggleAvailability flips is_available and reports the new value.
func (r *MenuRepo) ToggleAvailability(id string) (bool, error) {
	_, err := r.db.Exec(`
	  UPDATE menu_items SET is_available = 1 - is_available, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, id)
	if err != nil {
		return false, err
	}
	var avail bool
	err = r.db.Get(&avail, `SELECT is_available FROM menu_items WHERE id = ?`, id)
	return avail, err
}

func (r *MenuRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM menu_items WHERE id = ?`, id)
	return err
}
