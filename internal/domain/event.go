package domain

type Event struct {
	ID               string `db:"id" json:"id"`
	Title            string `db:"title" json:"title"`
	Description      string `db:"description" json:"description,omitempty"`
	EventDate        string `db:"event_date" json:"event_date"` // RFC 3339
	EventTime        string `db:"event_time" json:"event_time,omitempty"`
	ImageURL         string `db:"image_url" json:"image_url,omitempty"`
	IsActive         bool   `db:"is_active" json:"is_active"`
	SpecialMenuItems string `db:"special_menu_items" json:"special_menu_items,omitempty"`
	CreatedBy        string `db:"created_by" json:"created_by,omitempty"`
	CreatedAt        string `db:"created_at" json:"created_at"`
	UpdatedAt        string `db:"updated_at" json:"updated_at,omitempty"`
}
