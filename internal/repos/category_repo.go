package repos

import (
	"devicecover/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// List returns every rating category with its active device count.
func (r *CategoryRepo) List() ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.Select(&out, `
	  SELECT c.id, c.name,
	         COUNT(d.id) AS devices,
	         c.created_at, COALESCE(c.updated_at,'') AS updated_at
	  FROM categories c
	  LEFT JOIN devices d ON d.category_id = c.id AND d.active = 1
	  GROUP BY c.id
	  ORDER BY c.name`)
	return out, err
}

func (r *CategoryRepo) Exists(id string) (bool, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM categories WHERE id = ?`, id); err != nil {
		return false, err
	}
	return n > 0, nil
}
