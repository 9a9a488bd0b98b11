package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patobeur/inouttracker/internal/models"
)

func TestArticleList(t *testing.T) {
	db, mock := newMock(t)
	repo := NewArticleRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT\s+id,\s*barcode.*FROM\s+articles\s+ORDER\s+BY\s+created_at\s+DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "barcode", "name", "category", "condition", "created_at", "updated_at"}).
			AddRow(1, "123", "Drill", "tools", "good", now, now))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Drill", list[0].Name)
}

func TestArticleUpdate_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewArticleRepository(db)

	mock.ExpectExec(`UPDATE\s+articles`).
		WithArgs("123", "Drill", "", "", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Article{ID: 5, Barcode: "123", Name: "Drill"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArticleCountMovements(t *testing.T) {
	db, mock := newMock(t)
	repo := NewArticleRepository(db)

	mock.ExpectQuery(`SELECT\s+COUNT\(\*\)\s+FROM\s+movements\s+WHERE\s+article_id`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := repo.CountMovements(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestCustomerCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCustomerRepository(db)

	mock.ExpectQuery(`INSERT\s+INTO\s+customers`).
		WithArgs("ACME", "", "", "").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))

	id, err := repo.Create(context.Background(), &models.Customer{Name: "ACME"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)
}

func TestDashboard(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStatsRepository(db)

	count := func(n int) *sqlmock.Rows { return sqlmock.NewRows([]string{"count"}).AddRow(n) }
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users$`).WillReturnRows(count(12))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM sondages$`).WillReturnRows(count(4))
	mock.ExpectQuery(`FROM sondages WHERE status = 'finished'`).WillReturnRows(count(1))
	mock.ExpectQuery(`FROM user_badges`).WillReturnRows(count(30))
	mock.ExpectQuery(`SELECT pseudo, total_points FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"pseudo", "total_points"}).AddRow("alice", 90).AddRow("bob", 40))

	s, err := repo.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), s.TotalUsers)
	assert.Equal(t, int64(4), s.TotalPolls)
	assert.Equal(t, int64(1), s.FinishedPolls)
	assert.Equal(t, int64(30), s.TotalBadgesAwarded)
	assert.Equal(t, []models.LeaderboardEntry{{Pseudo: "alice", TotalPoints: 90}, {Pseudo: "bob", TotalPoints: 40}}, s.TopUsersByPoints)
	assert.NoError(t, mock.ExpectationsWereMet())
}
