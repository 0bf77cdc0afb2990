package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline data if DB is empty (menu/inventory/events)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure staff accounts exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Menu
CREATE TABLE IF NOT EXISTS menu_items(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL CHECK (price >= 0),
  category TEXT NOT NULL,
  image_url TEXT,
  is_available INTEGER NOT NULL DEFAULT 1,
  created_by TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_menu_items_category ON menu_items(category);
CREATE INDEX IF NOT EXISTS idx_menu_items_name     ON menu_items(LOWER(name));

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  customer_name TEXT NOT NULL,
  customer_email TEXT,
  customer_phone TEXT,
  order_type TEXT NOT NULL DEFAULT 'dine_in',
  special_instructions TEXT,
  total_amount NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending'
    CHECK (status IN ('pending','confirmed','preparing','ready','completed','cancelled')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_orders_status     ON orders(status);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items(
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  menu_item_id TEXT NOT NULL REFERENCES menu_items(id),
  name TEXT NOT NULL,
  price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL,
  total NUMERIC NOT NULL,
  PRIMARY KEY (order_id, menu_item_id)
);

-- Events
CREATE TABLE IF NOT EXISTS events(
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT,
  event_date TEXT NOT NULL,
  event_time TEXT,
  image_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  special_menu_items TEXT,
  created_by TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_events_date ON events(event_date);

-- Inventory
CREATE TABLE IF NOT EXISTS inventory_items(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  category TEXT NOT NULL,
  unit TEXT NOT NULL,
  current_stock NUMERIC NOT NULL DEFAULT 0 CHECK (current_stock >= 0),
  minimum_stock NUMERIC NOT NULL DEFAULT 0,
  unit_cost NUMERIC NOT NULL DEFAULT 0,
  supplier_name TEXT,
  supplier_contact TEXT,
  last_restocked TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_inventory_category ON inventory_items(category);

CREATE TABLE IF NOT EXISTS stock_movements(
  id TEXT PRIMARY KEY,
  inventory_item_id TEXT NOT NULL REFERENCES inventory_items(id) ON DELETE CASCADE,
  movement_type TEXT NOT NULL CHECK (movement_type IN ('in','out','adjustment')),
  quantity NUMERIC NOT NULL,
  reason TEXT,
  performed_by TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_movements_item ON stock_movements(inventory_item_id);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('admin','chef','staff')),
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(LOWER(username));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE CASCADE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM menu_items`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo menu/inventory/events")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO menu_items(id,name,description,price,category,image_url,is_available) VALUES
	  ('margherita','Margherita','San Marzano tomato, fior di latte, basil',12.50,'pizza','/static/img/margherita.jpg',1),
	  ('diavola','Diavola','Spicy salami, tomato, mozzarella',14.00,'pizza','/static/img/diavola.jpg',1),
	  ('carbonara','Spaghetti Carbonara','Guanciale, pecorino, egg yolk',14.00,'pasta','/static/img/carbonara.jpg',1),
	  ('bruschetta','Bruschetta al Pomodoro','Grilled bread, tomato, garlic',5.50,'starters','/static/img/bruschetta.jpg',1),
	  ('tiramisu','Tiramisu','Mascarpone, espresso, cocoa',6.00,'desserts','/static/img/tiramisu.jpg',1),
	  ('seasonal-risotto','Seasonal Risotto','Ask your waiter',16.00,'pasta','',0)`)

	tx.MustExec(`INSERT INTO inventory_items(id,name,category,unit,current_stock,minimum_stock,unit_cost,supplier_name) VALUES
	  ('flour-00','Flour Tipo 00','dry goods','kg',42,10,1.20,'Molino Rossi'),
	  ('mozzarella','Fior di Latte','dairy','kg',8,5,6.80,'Caseificio Bianchi'),
	  ('tomatoes','San Marzano Tomatoes','vegetables','kg',3,6,2.40,'Orto Verde'),
	  ('guanciale','Guanciale','meat','kg',2.5,1,14.00,'Salumeria Nero'),
	  ('olive-oil','Extra Virgin Olive Oil','dry goods','liters',12,4,9.50,'Frantoio Oro')`)

	tx.MustExec(`INSERT INTO events(id,title,description,event_date,event_time,is_active) VALUES
	  ('wine-night','Tuscan Wine Night','Five wines, five courses','2026-10-09T19:00:00Z','7:00 PM - 10:00 PM',1),
	  ('pasta-class','Fresh Pasta Workshop','Hands-on class with our chef','2026-11-14T17:30:00Z','5:30 PM - 8:00 PM',1)`)

	return tx.Commit()
}

// seedUsers ensures one account per role exists (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Username, Email, Role, Hash string
	}
	mk := func(id, username, email, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Username: username, Email: email, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-admin", "admin", "admin@tavola.test", "admin", "Passw0rd!"),
		mk("u-chef", "chef", "chef@tavola.test", "chef", "Passw0rd!"),
		mk("u-staff", "staff", "staff@tavola.test", "staff", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,username,email,password_hash,role,is_active)
			VALUES(?,?,?,?,?,1)
			ON CONFLICT(username) DO NOTHING
		`, x.ID, x.Username, x.Email, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
