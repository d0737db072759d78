package repos

import (
	"devicecover/internal/domain"

	"github.com/jmoiron/sqlx"
)

type QuoteRepo struct{ db *sqlx.DB }

func NewQuoteRepo(db *sqlx.DB) *QuoteRepo { return &QuoteRepo{db: db} }

const quoteColumns = `
    id, COALESCE(device_id,'') AS device_id, mode, coverage_type,
    annual_premium, monthly_premium, payload, valid_until, created_at`

// Save inserts an issued quote. An empty DeviceID is stored as NULL.
func (r *QuoteRepo) Save(q domain.QuoteRecord) error {
	var deviceID any
	if q.DeviceID != "" {
		deviceID = q.DeviceID
	}
	_, err := r.db.Exec(`
	  INSERT INTO quotes
	    (id, device_id, mode, coverage_type, annual_premium, monthly_premium, payload, valid_until, created_at)
	  VALUES
	    (?,  ?,         ?,    ?,             ?,              ?,               ?,       ?,           CURRENT_TIMESTAMP)
	`, q.ID, deviceID, q.Mode, q.CoverageType, q.Annual, q.Monthly, q.Payload, q.ValidUntil)
	return err
}

func (r *QuoteRepo) Get(id string) (domain.QuoteRecord, error) {
	var q domain.QuoteRecord
	err := r.db.Get(&q, `
		SELECT`+quoteColumns+`
		FROM quotes
		WHERE id = ?
	`, id)
	return q, err
}

func (r *QuoteRepo) ListLatest(limit int) ([]domain.QuoteRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.QuoteRecord
	err := r.db.Select(&out, `
		SELECT`+quoteColumns+`
		FROM quotes
		ORDER BY datetime(created_at) DESC, rowid DESC
		LIMIT ?
	`, limit)
	return out, err
}

// ListByDevice returns the quotes issued for one catalog device, newest first.
func (r *QuoteRepo) ListByDevice(deviceID string) ([]domain.QuoteRecord, error) {
	var out []domain.QuoteRecord
	err := r.db.Select(&out, `
		SELECT`+quoteColumns+`
		FROM quotes
		WHERE device_id = ?
		ORDER BY datetime(created_at) DESC, rowid DESC
	`, deviceID)
	return out, err
}
