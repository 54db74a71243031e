package service

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lifeng-edu/exam-duty-api/internal/dto"
	"github.com/lifeng-edu/exam-duty-api/internal/models"
	appErrors "github.com/lifeng-edu/exam-duty-api/pkg/errors"
)

// --- Fixtures ---

type txProviderMock struct {
	db   *sqlx.DB
	mock sqlmock.Sqlmock
}

func newTxProviderMock(t *testing.T) (*txProviderMock, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { db.Close() })
	return &txProviderMock{db: sqlxdb, mock: mock}, mock
}

func (t *txProviderMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return t.db.BeginTxx(ctx, opts)
}

type roomRepoStub struct{ rooms []models.Room }

func (s roomRepoStub) List(ctx context.Context) ([]models.Room, error) { return s.rooms, nil }
func (s roomRepoStub) ReplaceAll(ctx context.Context, exec sqlx.ExtContext, rooms []models.Room) error {
	return nil
}

type staffRepoStub struct{ staff []models.Staff }

func (s staffRepoStub) List(ctx context.Context) ([]models.Staff, error) { return s.staff, nil }
func (s staffRepoStub) ReplaceAll(ctx context.Context, exec sqlx.ExtContext, staff []models.Staff) error {
	return nil
}

type slotRepoStub struct{ slots []models.TimeSlot }

func (s slotRepoStub) List(ctx context.Context) ([]models.TimeSlot, error) { return s.slots, nil }
func (s slotRepoStub) ReplaceAll(ctx context.Context, exec sqlx.ExtContext, slots []models.TimeSlot) error {
	return nil
}

type sessionRepoStub struct {
	sessions []models.ExamSession
	fixed    []models.FixedSession
}

func (s sessionRepoStub) List(ctx context.Context) ([]models.ExamSession, error) {
	return s.sessions, nil
}
func (s sessionRepoStub) ReplaceAll(ctx context.Context, exec sqlx.ExtContext, sessions []models.ExamSession) error {
	return nil
}
func (s sessionRepoStub) ListFixed(ctx context.Context) ([]models.FixedSession, error) {
	return s.fixed, nil
}
func (s sessionRepoStub) ReplaceAllFixed(ctx context.Context, exec sqlx.ExtContext, fixed []models.FixedSession) error {
	return nil
}

type allocationRepoStub struct {
	run         *models.AllocationRun
	assignments []models.Assignment
}

func (s *allocationRepoStub) CreateRun(ctx context.Context, exec sqlx.ExtContext, run *models.AllocationRun) error {
	if run.ID == "" {
		run.ID = "run-1"
	}
	s.run = run
	return nil
}

func (s *allocationRepoStub) InsertAssignments(ctx context.Context, exec sqlx.ExtContext, runID string, assignments []models.Assignment) error {
	for i := range assignments {
		assignments[i].RunID = runID
		assignments[i].Position = i
	}
	s.assignments = assignments
	return nil
}

func (s *allocationRepoStub) FindLatestRun(ctx context.Context) (*models.AllocationRun, error) {
	if s.run == nil {
		return nil, sql.ErrNoRows
	}
	return s.run, nil
}

func (s *allocationRepoStub) FindRunByID(ctx context.Context, id string) (*models.AllocationRun, error) {
	if s.run == nil || s.run.ID != id {
		return nil, sql.ErrNoRows
	}
	return s.run, nil
}

func (s *allocationRepoStub) ListAssignments(ctx context.Context, runID string, filter models.AssignmentFilter) ([]models.Assignment, int, error) {
	var matched []models.Assignment
	for _, a := range s.assignments {
		if filter.Staff != "" && a.Invigilator1 != filter.Staff && a.Invigilator2 != filter.Staff {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		matched = append(matched, a)
	}
	return matched, len(matched), nil
}

func (s *allocationRepoStub) ListAllAssignments(ctx context.Context, runID string) ([]models.Assignment, error) {
	return s.assignments, nil
}

type allocationFixture struct {
	sessions sessionRepoStub
	repo     *allocationRepoStub
}

func newAllocationServiceForTest(t *testing.T, fx allocationFixture) (*AllocationService, *allocationRepoStub, sqlmock.Sqlmock) {
	t.Helper()
	tx, mock := newTxProviderMock(t)
	if fx.repo == nil {
		fx.repo = &allocationRepoStub{}
	}
	svc := NewAllocationService(
		roomRepoStub{rooms: []models.Room{{Name: "R101"}, {Name: "R102"}}},
		staffRepoStub{staff: []models.Staff{{Name: "Alice"}, {Name: "Bob"}}},
		slotRepoStub{slots: []models.TimeSlot{
			{Date: "2026-01-12", Period: "P1"},
			{Date: "2026-01-12", Period: "P2"},
		}},
		fx.sessions,
		fx.repo,
		tx,
		nil,
		nil,
		nil,
		zap.NewNop(),
		AllocationConfig{},
	)
	return svc, fx.repo, mock
}

// --- Tests ---

func TestAllocationServiceRunPersistsDutyTable(t *testing.T) {
	svc, repo, mock := newAllocationServiceForTest(t, allocationFixture{
		sessions: sessionRepoStub{sessions: []models.ExamSession{
			{Class: "C1", Subject: "Math", ExamType: "Final"},
			{Class: "C2", Subject: "Math", ExamType: "Final"},
		}},
	})

	mock.ExpectBegin()
	mock.ExpectCommit()

	summary, err := svc.Run(context.Background(), dto.RunAllocationRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.SessionCount)
	assert.Equal(t, 2, summary.OKCount)
	assert.Empty(t, summary.Warnings)
	assert.Equal(t, 3, summary.Quota)

	require.NotNil(t, repo.run)
	require.Len(t, repo.assignments, 2)
	assert.Equal(t, repo.run.ID, repo.assignments[0].RunID)
	assert.Equal(t, "R101", repo.assignments[0].Room)
	assert.Equal(t, "Alice", repo.assignments[0].Invigilator1)
	assert.Equal(t, models.AssignmentStatusOK, repo.assignments[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocationServiceRunQuotaOverride(t *testing.T) {
	svc, repo, mock := newAllocationServiceForTest(t, allocationFixture{
		sessions: sessionRepoStub{sessions: []models.ExamSession{
			{Class: "C1", Subject: "Math", ExamType: "Final"},
		}},
	})

	mock.ExpectBegin()
	mock.ExpectCommit()

	summary, err := svc.Run(context.Background(), dto.RunAllocationRequest{Quota: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Quota)
	assert.Equal(t, 1, repo.run.Quota)
}

func TestAllocationServiceRunRejectsEmptySessionTable(t *testing.T) {
	svc, _, _ := newAllocationServiceForTest(t, allocationFixture{})

	_, err := svc.Run(context.Background(), dto.RunAllocationRequest{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrEmptyRoster.Code, appErr.Code)
}

func TestAllocationServiceLatestRunNotFound(t *testing.T) {
	svc, _, _ := newAllocationServiceForTest(t, allocationFixture{})

	_, err := svc.LatestRun(context.Background())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestAllocationServiceListAssignmentsFilters(t *testing.T) {
	svc, _, mock := newAllocationServiceForTest(t, allocationFixture{
		sessions: sessionRepoStub{sessions: []models.ExamSession{
			{Class: "C1", Subject: "Math", ExamType: "Final"},
			{Class: "C2", Subject: "Math", ExamType: "Final"},
		}},
	})

	mock.ExpectBegin()
	mock.ExpectCommit()
	summary, err := svc.Run(context.Background(), dto.RunAllocationRequest{})
	require.NoError(t, err)

	items, pagination, err := svc.ListAssignments(context.Background(), summary.ID, dto.AssignmentQuery{Staff: "Bob"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "C2", items[0].Class)
	assert.Equal(t, 1, pagination.TotalCount)

	_, _, err = svc.ListAssignments(context.Background(), summary.ID, dto.AssignmentQuery{Status: "bogus"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, _, err = svc.ListAssignments(context.Background(), "missing", dto.AssignmentQuery{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
