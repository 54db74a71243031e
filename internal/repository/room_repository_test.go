package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeng-edu/exam-duty-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRoomRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "is_lab", "is_large", "position", "created_at"}).
		AddRow("r1", "R101", false, false, 0, time.Now()).
		AddRow("r2", "Lab 1", true, false, 1, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, is_lab, is_large, position, created_at FROM rooms ORDER BY position")).
		WillReturnRows(rows)

	rooms, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "R101", rooms[0].Name)
	assert.True(t, rooms[1].IsLab)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryReplaceAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM rooms")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO rooms").
		WithArgs(sqlmock.AnyArg(), "R101", false, false, 0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO rooms").
		WithArgs(sqlmock.AnyArg(), "Hall A", false, true, 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	rooms := []models.Room{
		{Name: "R101"},
		{Name: "Hall A", IsLarge: true},
	}
	require.NoError(t, repo.ReplaceAll(context.Background(), tx, rooms))
	require.NoError(t, tx.Commit())

	assert.Equal(t, 0, rooms[0].Position)
	assert.Equal(t, 1, rooms[1].Position)
	assert.NotEmpty(t, rooms[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
