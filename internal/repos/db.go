package repos

import (
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	applog "devicecover/internal/log"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// :memory: databases are per-connection
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed the device catalog if DB is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Categories (rating table keys: phone, laptop, tablet, ...)
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase ON categories(LOWER(name));

-- Device catalog
CREATE TABLE IF NOT EXISTS devices(
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  brand TEXT NOT NULL,
  model TEXT NOT NULL,
  market_price NUMERIC NOT NULL CHECK (market_price > 0),
  release_year INTEGER NOT NULL DEFAULT 0,
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_devices_category ON devices(category_id);
CREATE INDEX IF NOT EXISTS idx_devices_brand    ON devices(LOWER(brand));
CREATE INDEX IF NOT EXISTS idx_devices_model    ON devices(LOWER(model));

-- Issued quotes
CREATE TABLE IF NOT EXISTS quotes(
  id TEXT PRIMARY KEY,
  device_id TEXT,                 -- NULL for user-entered devices
  mode TEXT NOT NULL CHECK (mode IN ('formula','fixed')),
  coverage_type TEXT NOT NULL,
  annual_premium NUMERIC NOT NULL,
  monthly_premium NUMERIC NOT NULL,
  payload TEXT NOT NULL,
  valid_until TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_quotes_device     ON quotes(device_id);
CREATE INDEX IF NOT EXISTS idx_quotes_created_at ON quotes(created_at);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	applog.L().Info("seed.catalog")

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO categories(id,name) VALUES
	  ('phone','Phones'),
	  ('laptop','Laptops'),
	  ('tablet','Tablets'),
	  ('watch','Smart Watches'),
	  ('headphones','Headphones'),
	  ('camera','Cameras'),
	  ('console','Game Consoles')`)

	tx.MustExec(`INSERT INTO devices(id,category_id,brand,model,market_price,release_year) VALUES
	  ('iphone-15-pro','phone','Apple','iPhone 15 Pro',64999,2023),
	  ('galaxy-s24','phone','Samsung','Galaxy S24',42999,2024),
	  ('pixel-8','phone','Google','Pixel 8',31999,2023),
	  ('macbook-air-m3','laptop','Apple','MacBook Air M3',54999,2024),
	  ('thinkpad-x1','laptop','Lenovo','ThinkPad X1 Carbon',71999,2023),
	  ('ipad-air','tablet','Apple','iPad Air',27999,2024),
	  ('watch-s9','watch','Apple','Watch Series 9',17999,2023),
	  ('wh-1000xm5','headphones','Sony','WH-1000XM5',11999,2022),
	  ('eos-r50','camera','Canon','EOS R50',32999,2023),
	  ('ps5','console','Sony','PlayStation 5',22999,2020),
	  ('switch-oled','console','Nintendo','Switch OLED',12999,0)`)

	return tx.Commit()
}
