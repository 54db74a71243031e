package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lifeng-edu/exam-duty-api/internal/dto"
	"github.com/lifeng-edu/exam-duty-api/internal/models"
	appErrors "github.com/lifeng-edu/exam-duty-api/pkg/errors"
	"github.com/lifeng-edu/exam-duty-api/pkg/storage"
)

type dutyTableStub struct {
	rows []models.Assignment
	err  error
}

func (s dutyTableStub) DutyTable(ctx context.Context, runID string) ([]models.Assignment, error) {
	return s.rows, s.err
}

func sampleDutyTable() []models.Assignment {
	return []models.Assignment{
		{Class: "C1", Subject: "Math", ExamType: "Final", Date: "2026-01-12", Period: "P1", Room: "R101", Invigilator1: "Alice", Status: models.AssignmentStatusOK},
		{Class: "C2", Subject: "Math", ExamType: "Final", Date: "2026-01-12", Period: "P1", Room: "Hall A", Invigilator1: "Bob", Invigilator2: "Carol", Status: models.AssignmentStatusOK},
		{Class: "C3", Subject: "Physics", ExamType: "Final", Status: models.AssignmentStatusUnassigned, Reason: "no available time"},
	}
}

func TestExportServiceRenderCSV(t *testing.T) {
	svc := NewExportService(dutyTableStub{rows: sampleDutyTable()}, nil, zap.NewNop(), nil, nil)

	payload, err := svc.RenderCSV(context.Background(), "run-1")
	require.NoError(t, err)

	content := string(payload)
	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "invigilator1")
	assert.Contains(t, lines[1], "R101")
	assert.Contains(t, lines[2], "Carol")
	// Unassigned rows stay in the export so the shortfall is visible.
	assert.Contains(t, lines[3], "no available time")
}

func TestExportServiceRenderPDFGroupsByRoom(t *testing.T) {
	svc := NewExportService(dutyTableStub{rows: sampleDutyTable()}, nil, zap.NewNop(), nil, nil)

	payload, err := svc.RenderPDF(context.Background(), "run-1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestExportServiceRenderPDFNoCommittedRows(t *testing.T) {
	svc := NewExportService(dutyTableStub{rows: []models.Assignment{
		{Class: "C1", Status: models.AssignmentStatusUnassigned, Reason: "no available time"},
	}}, nil, zap.NewNop(), nil, nil)

	_, err := svc.RenderPDF(context.Background(), "run-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestExportServiceRenderUnsupportedFormat(t *testing.T) {
	svc := NewExportService(dutyTableStub{rows: sampleDutyTable()}, nil, zap.NewNop(), nil, nil)

	_, _, err := svc.Render(context.Background(), "run-1", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportJobServiceLifecycle(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	exports := NewExportService(dutyTableStub{rows: sampleDutyTable()}, nil, zap.NewNop(), nil, nil)

	svc := NewExportJobService(exports, store, signer, nil, zap.NewNop(), ExportJobsConfig{
		APIPrefix: "/api/v1",
		Workers:   1,
	})
	svc.Start(context.Background())
	defer svc.Stop()

	queued, err := svc.Enqueue(context.Background(), dto.ExportJobRequest{
		RunID:  "6fa459ea-ee8a-3ca4-894e-db77e160355e",
		Format: models.ExportFormatCSV,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ExportJobStatusPending, queued.Status)

	require.Eventually(t, func() bool {
		job, err := svc.Get(context.Background(), queued.ID)
		return err == nil && job.Status == models.ExportJobStatusCompleted
	}, 2*time.Second, 10*time.Millisecond)

	job, err := svc.Get(context.Background(), queued.ID)
	require.NoError(t, err)
	require.Contains(t, job.DownloadURL, "/exports/files?token=")

	token := strings.TrimPrefix(job.DownloadURL, "/api/v1/exports/files?token=")
	file, err := svc.OpenFile(token)
	require.NoError(t, err)
	require.NoError(t, file.Close())
}

func TestExportJobServiceValidatesRequest(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	exports := NewExportService(dutyTableStub{rows: sampleDutyTable()}, nil, zap.NewNop(), nil, nil)
	svc := NewExportJobService(exports, store, signer, nil, zap.NewNop(), ExportJobsConfig{})

	_, err = svc.Enqueue(context.Background(), dto.ExportJobRequest{RunID: "not-a-uuid", Format: "csv"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
