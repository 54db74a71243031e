package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/lifeng-edu/exam-duty-api/internal/dto"
	"github.com/lifeng-edu/exam-duty-api/internal/handler"
	"github.com/lifeng-edu/exam-duty-api/internal/models"
	"github.com/lifeng-edu/exam-duty-api/internal/service"
	"github.com/lifeng-edu/exam-duty-api/pkg/config"
)

type rosterSvcStub struct{}

func (rosterSvcStub) ListRooms(ctx context.Context) ([]models.Room, error) {
	return []models.Room{{Name: "Room 101"}}, nil
}

func (rosterSvcStub) ReplaceRooms(ctx context.Context, req dto.ReplaceRoomsRequest) ([]models.Room, error) {
	return []models.Room{}, nil
}

func (rosterSvcStub) ListStaff(ctx context.Context) ([]models.Staff, error) {
	return []models.Staff{}, nil
}

func (rosterSvcStub) ReplaceStaff(ctx context.Context, req dto.ReplaceStaffRequest) ([]models.Staff, error) {
	return []models.Staff{}, nil
}

func (rosterSvcStub) ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error) {
	return []models.TimeSlot{}, nil
}

func (rosterSvcStub) ReplaceTimeSlots(ctx context.Context, req dto.ReplaceTimeSlotsRequest) ([]models.TimeSlot, error) {
	return []models.TimeSlot{}, nil
}

func (rosterSvcStub) ListSessions(ctx context.Context) ([]models.ExamSession, error) {
	return []models.ExamSession{}, nil
}

func (rosterSvcStub) ReplaceSessions(ctx context.Context, req dto.ReplaceSessionsRequest) ([]models.ExamSession, error) {
	return []models.ExamSession{}, nil
}

func (rosterSvcStub) ListFixedSessions(ctx context.Context) ([]models.FixedSession, error) {
	return []models.FixedSession{}, nil
}

func (rosterSvcStub) ReplaceFixedSessions(ctx context.Context, req dto.ReplaceFixedSessionsRequest) ([]models.FixedSession, error) {
	return []models.FixedSession{}, nil
}

type allocationSvcStub struct{}

func (allocationSvcStub) Run(ctx context.Context, req dto.RunAllocationRequest) (*dto.RunSummary, error) {
	return &dto.RunSummary{ID: "run-1", Warnings: []string{}}, nil
}

func (allocationSvcStub) LatestRun(ctx context.Context) (*dto.RunSummary, error) {
	return &dto.RunSummary{ID: "run-1", Warnings: []string{}}, nil
}

func (allocationSvcStub) GetRun(ctx context.Context, id string) (*dto.RunSummary, error) {
	return &dto.RunSummary{ID: id, Warnings: []string{}}, nil
}

func (allocationSvcStub) ListAssignments(ctx context.Context, runID string, query dto.AssignmentQuery) ([]dto.AssignmentItem, *models.Pagination, error) {
	return []dto.AssignmentItem{}, &models.Pagination{Page: 1, PageSize: 100}, nil
}

type csvSvcStub struct{}

func (csvSvcStub) RenderCSV(ctx context.Context, runID string) ([]byte, error) {
	return []byte("class,subject\n"), nil
}

type statisticsSvcStub struct{}

func (statisticsSvcStub) StaffStats(ctx context.Context, runID string) ([]dto.StaffDutyStat, error) {
	return []dto.StaffDutyStat{}, nil
}

func (statisticsSvcStub) RoomStats(ctx context.Context, runID string) ([]dto.RoomUsageStat, error) {
	return []dto.RoomUsageStat{}, nil
}

func (statisticsSvcStub) AbnormalDuties(ctx context.Context, runID string) ([]dto.AbnormalDuty, error) {
	return []dto.AbnormalDuty{}, nil
}

type exportJobSvcStub struct {
	filePath string
}

func (s *exportJobSvcStub) Enqueue(ctx context.Context, req dto.ExportJobRequest) (*dto.ExportJobResponse, error) {
	return &dto.ExportJobResponse{ID: "job-1", RunID: req.RunID, Format: req.Format, Status: models.ExportJobStatusPending}, nil
}

func (s *exportJobSvcStub) Get(ctx context.Context, id string) (*dto.ExportJobResponse, error) {
	return &dto.ExportJobResponse{ID: id, Status: models.ExportJobStatusCompleted}, nil
}

func (s *exportJobSvcStub) OpenFile(token string) (*os.File, error) {
	return os.Open(s.filePath)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	authSvc := service.NewAuthService(nil, nil, service.AuthConfig{
		JWTSecret:         "test-secret",
		AdminEmail:        "admin@school.edu",
		AdminPasswordHash: string(hash),
	})

	exportFile := filepath.Join(t.TempDir(), "duty-table-run-1.csv")
	require.NoError(t, os.WriteFile(exportFile, []byte("class,subject\n"), 0o600))

	cfg := &config.Config{
		Env:        config.EnvProduction,
		APIPrefix:  "/api/v1",
		Statistics: config.StatisticsConfig{Enabled: true},
	}
	handlers := apiHandlers{
		auth:        handler.NewAuthHandler(authSvc),
		rosters:     handler.NewRosterHandler(rosterSvcStub{}),
		allocations: handler.NewAllocationHandler(allocationSvcStub{}, csvSvcStub{}),
		statistics:  handler.NewStatisticsHandler(statisticsSvcStub{}),
		exports:     handler.NewExportHandler(&exportJobSvcStub{filePath: exportFile}),
	}
	ready := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ready"}) }

	return newRouter(cfg, zap.NewNop(), service.NewMetricsService(), authSvc, handlers, ready)
}

func loginToken(t *testing.T, r *gin.Engine) string {
	t.Helper()
	body, _ := json.Marshal(models.LoginRequest{Email: "admin@school.edu", Password: "secret"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.AccessToken)
	return envelope.Data.AccessToken
}

func TestRouterReadsAreOpen(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{
		"/api/v1/rosters/templates",
		"/api/v1/rosters/rooms",
		"/api/v1/allocations/latest",
		"/api/v1/allocations/run-1/assignments",
		"/api/v1/allocations/run-1/export.csv",
		"/api/v1/statistics/staff",
		"/api/v1/exports/job-1",
	} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouterMutationsRequireToken(t *testing.T) {
	r := newTestRouter(t)

	cases := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPut, "/api/v1/rosters/rooms", `{"rooms":[{"name":"Room 101"}]}`},
		{http.MethodPost, "/api/v1/allocations/run", ""},
		{http.MethodPost, "/api/v1/exports", `{"runId":"3f0a5f5e-9a5f-4f4e-8e68-1c7f5f9f0a11","format":"csv"}`},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(tc.method, tc.path, bytes.NewReader([]byte(tc.body)))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)
	}
}

func TestRouterAcceptsIssuedToken(t *testing.T) {
	r := newTestRouter(t)
	token := loginToken(t, r)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/api/v1/rosters/rooms", bytes.NewReader([]byte(`{"rooms":[{"name":"Room 101"}]}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterSignedDownloadNeedsNoBearer(t *testing.T) {
	r := newTestRouter(t)

	// The download URL handed to clients carries only the signed token; a
	// browser following it cannot attach an Authorization header.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/exports/files?token=signed", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "class,subject\n", w.Body.String())
}
