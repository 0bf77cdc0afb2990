package repos

import (
	"github.com/jmoiron/sqlx"

	"tavola/internal/domain"
)

type EventRepo struct{ db *sqlx.DB }

func NewEventRepo(db *sqlx.DB) *EventRepo { return &EventRepo{db: db} }

const eventCols = `
  id, title, COALESCE(description,'') AS description, event_date,
  COALESCE(event_time,'') AS event_time, COALESCE(image_url,'') AS image_url,
  is_active, COALESCE(special_menu_items,'') AS special_menu_items,
  COALESCE(created_by,'') AS created_by,
  created_at, COALESCE(updated_at,'') AS updated_at`

// List returns events in date order; upcoming restricts to dates at or after now.
func (r *EventRepo) List(activeOnly, upcomingOnly bool) ([]domain.Event, error) {
	where := `1=1`
	if activeOnly {
		where += ` AND is_active = 1`
	}
	if upcomingOnly {
		where += ` AND datetime(event_date) >= datetime('now')`
	}
	var out []domain.Event
	err := r.db.Select(&out, `SELECT `+eventCols+` FROM events WHERE `+where+` ORDER BY datetime(event_date)`)
	return out, err
}

func (r *EventRepo) Get(id string) (domain.Event, error) {
	var e domain.Event
	err := r.db.Get(&e, `SELECT `+eventCols+` FROM events WHERE id = ?`, id)
	return e, err
}

func (r *EventRepo) Create(e domain.Event) error {
	_, err := r.db.Exec(`
	  INSERT INTO events(id, title, description, event_date, event_time, image_url, is_active, special_menu_items, created_by, created_at)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, e.ID, e.Title, e.Description, e.EventDate, e.EventTime, e.ImageURL, e.IsActive, e.SpecialMenuItems, e.CreatedBy)
	return err
}

func (r *EventRepo) Update(e domain.Event) error {
	_, err := r.db.Exec(`
	  UPDATE events
	  SET title = ?, description = ?, event_date = ?, event_time = ?, image_url = ?,
	      is_active = ?, special_menu_items = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, e.Title, e.Description, e.EventDate, e.EventTime, e.ImageURL, e.IsActive, e.SpecialMenuItems, e.ID)
	return err
}

// ToggleActive flips is_active and reports the new value.
func (r *EventRepo) ToggleActive(id string) (bool, error) {
	_, err := r.db.Exec(`UPDATE events SET is_active = 1 - is_active, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	var active bool
	err = r.db.Get(&active, `SELECT is_active FROM events WHERE id = ?`, id)
	return active, err
}

func (r *EventRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM events WHERE id = ?`, id)
	return err
}
