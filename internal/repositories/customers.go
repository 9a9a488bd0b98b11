package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/patobeur/inouttracker/internal/models"
)

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) List(ctx context.Context) ([]models.Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, phone, address, created_at, updated_at FROM customers ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.Customer{}
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO customers (name, email, phone, address) VALUES ($1, $2, $3, $4) RETURNING id`,
		c.Name, c.Email, c.Phone, c.Address,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *models.Customer) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE customers SET name = $1, email = $2, phone = $3, address = $4, updated_at = NOW() WHERE id = $5`,
		c.Name, c.Email, c.Phone, c.Address, c.ID)
	return affectedOne(res, err)
}

func (r *CustomerRepository) CountMovements(ctx context.Context, id int64) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movements WHERE customer_id = $1`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	return affectedOne(res, err)
}
