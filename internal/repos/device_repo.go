package repos

import (
	"devicecover/internal/domain"

	"github.com/jmoiron/sqlx"
)

type DeviceRepo struct{ db *sqlx.DB }

func NewDeviceRepo(db *sqlx.DB) *DeviceRepo { return &DeviceRepo{db: db} }

const deviceColumns = `
    id, category_id, brand, model, market_price, release_year, active,
    created_at, COALESCE(updated_at,'') AS updated_at`

func (r *DeviceRepo) ListByCategory(catID string, limit, offset int) ([]domain.Device, error) {
	var out []domain.Device
	err := r.db.Select(&out, `
	  SELECT`+deviceColumns+`
	  FROM devices
	  WHERE category_id = ? AND active = 1
	  ORDER BY brand, model
	  LIMIT ? OFFSET ?
	`, catID, limit, offset)
	return out, err
}

func (r *DeviceRepo) Get(id string) (domain.Device, error) {
	var d domain.Device
	err := r.db.Get(&d, `
	  SELECT`+deviceColumns+`
	  FROM devices
	  WHERE id = ?
	`, id)
	return d, err
}

// Search matches q against brand and model; empty filters are ignored.
func (r *DeviceRepo) Search(q, catID string, limit, offset int) ([]domain.Device, error) {
	where := `active = 1`
	args := []any{}
	if q != "" {
		where += ` AND (LOWER(brand) LIKE ? OR LOWER(model) LIKE ? OR LOWER(brand || ' ' || model) LIKE ?)`
		args = append(args, "%"+q+"%", "%"+q+"%", "%"+q+"%")
	}
	if catID != "" {
		where += ` AND category_id = ?`
		args = append(args, catID)
	}

	sql := `
	  SELECT` + deviceColumns + `
	  FROM devices
	  WHERE ` + where + `
	  ORDER BY brand, model
	  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var out []domain.Device
	err := r.db.Select(&out, sql, args...)
	return out, err
}

// Upsert creates or replaces a catalog entry.
func (r *DeviceRepo) Upsert(d domain.Device) error {
	_, err := r.db.Exec(`
	  INSERT INTO devices(id, category_id, brand, model, market_price, release_year, active, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(id) DO UPDATE SET
	    category_id = excluded.category_id,
	    brand = excluded.brand,
	    model = excluded.model,
	    market_price = excluded.market_price,
	    release_year = excluded.release_year,
	    active = excluded.active,
	    updated_at = CURRENT_TIMESTAMP
	`, d.ID, d.CategoryID, d.Brand, d.Model, d.MarketPrice, d.ReleaseYear, d.Active)
	return err
}
