package service

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lifeng-edu/exam-duty-api/internal/models"
	appErrors "github.com/lifeng-edu/exam-duty-api/pkg/errors"
)

func newStatisticsServiceForTest(t *testing.T, assignments []models.Assignment) *StatisticsService {
	t.Helper()
	repo := &allocationRepoStub{
		run:         &models.AllocationRun{ID: "run-1", Warnings: types.JSONText(`[]`)},
		assignments: assignments,
	}
	return NewStatisticsService(repo, nil, zap.NewNop(), StatisticsConfig{})
}

func TestStatisticsServiceStaffStats(t *testing.T) {
	svc := newStatisticsServiceForTest(t, []models.Assignment{
		{Date: "2026-01-12", Room: "R101", Invigilator1: "Alice", Status: models.AssignmentStatusOK},
		{Date: "2026-01-12", Room: "Hall A", Invigilator1: "Bob", Invigilator2: "Alice", Status: models.AssignmentStatusOK},
		{Date: "2026-01-13", Room: "R101", Invigilator1: "Bob", Status: models.AssignmentStatusOK},
		{Date: "", Room: "", Status: models.AssignmentStatusUnassigned, Reason: "no available time"},
	})

	stats, err := svc.StaffStats(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, stats, 2)

	// Alice and Bob both hold two duties; the alphabetical tie-break puts
	// Alice first.
	assert.Equal(t, "Alice", stats[0].Staff)
	assert.Equal(t, 2, stats[0].TotalCount)
	assert.Equal(t, 2, stats[0].PerDate["2026-01-12"])
	assert.Equal(t, "Bob", stats[1].Staff)
	assert.Equal(t, 1, stats[1].PerDate["2026-01-13"])
}

func TestStatisticsServiceRoomStats(t *testing.T) {
	svc := newStatisticsServiceForTest(t, []models.Assignment{
		{Date: "2026-01-12", Room: "R101", Status: models.AssignmentStatusOK},
		{Date: "2026-01-13", Room: "R101", Status: models.AssignmentStatusOK},
		{Date: "2026-01-12", Room: "Hall A", Status: models.AssignmentStatusPartial},
	})

	stats, err := svc.RoomStats(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "R101", stats[0].Room)
	assert.Equal(t, 2, stats[0].TotalCount)
	assert.Equal(t, "Hall A", stats[1].Room)
}

func TestStatisticsServiceAbnormalDuties(t *testing.T) {
	svc := newStatisticsServiceForTest(t, []models.Assignment{
		{Date: "2026-01-12", Room: "R101", Invigilator1: "Alice", Status: models.AssignmentStatusOK},
		{Date: "2026-01-12", Room: "R102", Invigilator1: "Alice", Status: models.AssignmentStatusOK},
		{Date: "2026-01-13", Room: "R101", Invigilator1: "Bob", Status: models.AssignmentStatusOK},
	})

	findings, err := svc.AbnormalDuties(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "Alice", findings[0].Staff)
	assert.Equal(t, "2026-01-12", findings[0].Date)
	assert.Equal(t, 2, findings[0].Count)
	assert.Equal(t, abnormalNote, findings[0].Note)
}

func TestStatisticsServiceUnknownRun(t *testing.T) {
	svc := newStatisticsServiceForTest(t, nil)

	_, err := svc.StaffStats(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
