package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeng-edu/exam-duty-api/internal/models"
)

func TestAllocationRepositoryCreateRunAndAssignments(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAllocationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO allocation_runs").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO assignments").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO assignments").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	run := &models.AllocationRun{Quota: 3, SessionCount: 2, OKCount: 2}
	require.NoError(t, repo.CreateRun(context.Background(), tx, run))
	assert.NotEmpty(t, run.ID)
	assert.JSONEq(t, `[]`, string(run.Warnings))

	assignments := []models.Assignment{
		{Class: "C1", Subject: "Math", Status: models.AssignmentStatusOK},
		{Class: "C2", Subject: "Math", Status: models.AssignmentStatusOK},
	}
	require.NoError(t, repo.InsertAssignments(context.Background(), tx, run.ID, assignments))
	require.NoError(t, tx.Commit())

	assert.Equal(t, run.ID, assignments[0].RunID)
	assert.Equal(t, 1, assignments[1].Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocationRepositoryFindLatestRun(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAllocationRepository(db)

	rows := sqlmock.NewRows([]string{"id", "quota", "session_count", "ok_count", "partial_count", "unassigned_count", "warnings", "created_at"}).
		AddRow("run-1", 3, 5, 4, 1, 0, []byte(`["C5 Math (Final): invigilator shortfall"]`), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, quota, session_count, ok_count, partial_count, unassigned_count, warnings, created_at FROM allocation_runs ORDER BY created_at DESC LIMIT 1")).
		WillReturnRows(rows)

	run, err := repo.FindLatestRun(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, 1, run.PartialCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocationRepositoryListAssignmentsFiltersByStaff(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAllocationRepository(db)

	rows := sqlmock.NewRows([]string{"id", "run_id", "position", "class", "subject", "exam_type", "date", "period", "room", "invigilator1", "invigilator2", "status", "reason", "fixed", "created_at"}).
		AddRow("a1", "run-1", 0, "C1", "Math", "Final", "2026-01-12", "P1", "R101", "Alice", "", "ok", "", false, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("(invigilator1 = $2 OR invigilator2 = $2)")).
		WithArgs("run-1", "Alice").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM assignments WHERE run_id = $1")).
		WithArgs("run-1", "Alice").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.ListAssignments(context.Background(), "run-1", models.AssignmentFilter{Staff: "Alice"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Alice", list[0].Invigilator1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
