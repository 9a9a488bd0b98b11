package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/patobeur/inouttracker/internal/models"
)

const userColumns = `id, email, pseudo, first_name, last_name, password_hash, total_points, is_admin, reset_token, reset_expires_at, created_at, updated_at`

// UserRepository is the credential store backed by the users table.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u         models.User
		token     sql.NullString
		expiresAt sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &u.Pseudo, &u.FirstName, &u.LastName, &u.PasswordHash,
		&u.TotalPoints, &u.IsAdmin, &token, &expiresAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if token.Valid {
		u.ResetToken = &token.String
	}
	if expiresAt.Valid {
		u.ResetExpiresAt = &expiresAt.Time
	}
	return &u, nil
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findOne(ctx, `id = $1`, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, `email = $1`, email)
}

func (r *UserRepository) FindByResetToken(ctx context.Context, token string) (*models.User, error) {
	return r.findOne(ctx, `reset_token = $1`, token)
}

// ExistsByEmailOrPseudo answers both uniqueness questions with one query.
func (r *UserRepository) ExistsByEmailOrPseudo(ctx context.Context, email, pseudo string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = $1 OR pseudo = $2`, email, pseudo,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

// PseudoTakenByOther reports whether another user already uses pseudo.
func (r *UserRepository) PseudoTakenByOther(ctx context.Context, pseudo string, userID int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE pseudo = $1 AND id <> $2`, pseudo, userID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

// Create inserts a user and returns its id. Unique violations map to ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, u *models.User) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (email, pseudo, first_name, last_name, password_hash, is_admin)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		u.Email, u.Pseudo, u.FirstName, u.LastName, u.PasswordHash, u.IsAdmin,
	).Scan(&id)
	if isUniqueViolation(err) {
		return 0, ErrDuplicate
	}
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

// SetResetToken overwrites any previous token for the user.
func (r *UserRepository) SetResetToken(ctx context.Context, id int64, token string, expiresAt time.Time) error {
	return r.execOne(ctx,
		`UPDATE users SET reset_token = $1, reset_expires_at = $2, updated_at = NOW() WHERE id = $3`,
		token, expiresAt, id)
}

// ResetPassword replaces the hash and clears the reset token in one statement.
func (r *UserRepository) ResetPassword(ctx context.Context, id int64, passwordHash string) error {
	return r.execOne(ctx,
		`UPDATE users SET password_hash = $1, reset_token = NULL, reset_expires_at = NULL, updated_at = NOW() WHERE id = $2`,
		passwordHash, id)
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, pseudo, firstName, lastName string) error {
	return r.execOne(ctx,
		`UPDATE users SET pseudo = $1, first_name = $2, last_name = $3, updated_at = NOW() WHERE id = $4`,
		pseudo, firstName, lastName, id)
}

func (r *UserRepository) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	return r.execOne(ctx,
		`UPDATE users SET is_admin = $1, updated_at = NOW() WHERE id = $2`, isAdmin, id)
}

// List returns every user, newest first.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// ClearExpiredResetTokens drops tokens that expired before cutoff.
func (r *UserRepository) ClearExpiredResetTokens(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET reset_token = NULL, reset_expires_at = NULL WHERE reset_expires_at IS NOT NULL AND reset_expires_at < $1`,
		cutoff)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *UserRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return affectedOne(res, err)
}
