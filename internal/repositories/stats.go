package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/patobeur/inouttracker/internal/models"
)

// StatsRepository aggregates the admin dashboard counters.
type StatsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) count(ctx context.Context, query string) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *StatsRepository) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	var (
		s   models.DashboardStats
		err error
	)
	if s.TotalUsers, err = r.count(ctx, `SELECT COUNT(*) FROM users`); err != nil {
		return nil, err
	}
	if s.TotalPolls, err = r.count(ctx, `SELECT COUNT(*) FROM sondages`); err != nil {
		return nil, err
	}
	if s.FinishedPolls, err = r.count(ctx, `SELECT COUNT(*) FROM sondages WHERE status = 'finished'`); err != nil {
		return nil, err
	}
	if s.TotalBadgesAwarded, err = r.count(ctx, `SELECT COUNT(*) FROM user_badges`); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT pseudo, total_points FROM users ORDER BY total_points DESC, pseudo ASC LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	s.TopUsersByPoints = []models.LeaderboardEntry{}
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.Pseudo, &e.TotalPoints); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		s.TopUsersByPoints = append(s.TopUsersByPoints, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &s, nil
}
