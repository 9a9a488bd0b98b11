package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/patobeur/inouttracker/internal/models"
)

type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) List(ctx context.Context) ([]models.Article, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, barcode, name, category, condition, created_at, updated_at FROM articles ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.Article{}
	for rows.Next() {
		var a models.Article
		if err := rows.Scan(&a.ID, &a.Barcode, &a.Name, &a.Category, &a.Condition, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *ArticleRepository) Create(ctx context.Context, a *models.Article) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO articles (barcode, name, category, condition) VALUES ($1, $2, $3, $4) RETURNING id`,
		a.Barcode, a.Name, a.Category, a.Condition,
	).Scan(&id)
	if isUniqueViolation(err) {
		return 0, ErrDuplicate
	}
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *ArticleRepository) Update(ctx context.Context, a *models.Article) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE articles SET barcode = $1, name = $2, category = $3, condition = $4, updated_at = NOW() WHERE id = $5`,
		a.Barcode, a.Name, a.Category, a.Condition, a.ID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return affectedOne(res, err)
}

// CountMovements returns how many movements reference the article.
func (r *ArticleRepository) CountMovements(ctx context.Context, id int64) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movements WHERE article_id = $1`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	return affectedOne(res, err)
}

func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
