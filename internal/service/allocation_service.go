package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/lifeng-edu/exam-duty-api/internal/allocator"
	"github.com/lifeng-edu/exam-duty-api/internal/dto"
	"github.com/lifeng-edu/exam-duty-api/internal/models"
	appErrors "github.com/lifeng-edu/exam-duty-api/pkg/errors"
)

// statsCachePattern matches every cached statistics payload. New runs make
// them stale, so the pattern is dropped after each run commit.
const statsCachePattern = "stats:*"

type allocationRepository interface {
	CreateRun(ctx context.Context, exec sqlx.ExtContext, run *models.AllocationRun) error
	InsertAssignments(ctx context.Context, exec sqlx.ExtContext, runID string, assignments []models.Assignment) error
	FindLatestRun(ctx context.Context) (*models.AllocationRun, error)
	FindRunByID(ctx context.Context, id string) (*models.AllocationRun, error)
	ListAssignments(ctx context.Context, runID string, filter models.AssignmentFilter) ([]models.Assignment, int, error)
	ListAllAssignments(ctx context.Context, runID string) ([]models.Assignment, error)
}

// AllocationConfig tunes allocation runs.
type AllocationConfig struct {
	DailyQuota int
}

// AllocationService loads the stored rosters, executes the allocation engine
// and persists the resulting duty table.
type AllocationService struct {
	rooms     roomRepository
	staff     staffRepository
	slots     timeSlotRepository
	sessions  sessionRepository
	runs      allocationRepository
	tx        txProvider
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       AllocationConfig
}

// NewAllocationService constructs an AllocationService.
func NewAllocationService(
	rooms roomRepository,
	staff staffRepository,
	slots timeSlotRepository,
	sessions sessionRepository,
	runs allocationRepository,
	tx txProvider,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg AllocationConfig,
) *AllocationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DailyQuota <= 0 {
		cfg.DailyQuota = allocator.DefaultDailyQuota
	}
	return &AllocationService{
		rooms:     rooms,
		staff:     staff,
		slots:     slots,
		sessions:  sessions,
		runs:      runs,
		tx:        tx,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Run executes one allocation over the stored rosters and persists the duty
// table. The engine itself is pure; everything stateful happens here.
func (s *AllocationService) Run(ctx context.Context, req dto.RunAllocationRequest) (*dto.RunSummary, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid run request")
	}

	input, err := s.loadInput(ctx)
	if err != nil {
		return nil, err
	}
	if len(input.Sessions) == 0 && len(input.Fixed) == 0 {
		return nil, appErrors.Clone(appErrors.ErrEmptyRoster, "no exam sessions to allocate")
	}
	if req.Quota > 0 {
		input.DailyQuota = req.Quota
	}

	start := time.Now()
	result, err := allocator.Run(*input)
	if err != nil {
		var validationErr *allocator.ValidationError
		if errors.As(err, &validationErr) {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "allocation input rejected")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "allocation failed")
	}
	duration := time.Since(start)

	run, err := s.persist(ctx, input.DailyQuota, result)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAllocationRun(duration, result.OKCount, result.PartialCount, result.UnassignedCount)
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, statsCachePattern); err != nil {
			s.logger.Warn("statistics cache invalidation failed", zap.Error(err))
		}
	}

	s.logger.Info("allocation run committed",
		zap.String("runId", run.ID),
		zap.Int("sessions", run.SessionCount),
		zap.Int("ok", run.OKCount),
		zap.Int("partial", run.PartialCount),
		zap.Int("unassigned", run.UnassignedCount),
		zap.Duration("duration", duration))

	return runSummary(run)
}

func (s *AllocationService) loadInput(ctx context.Context) (*allocator.Input, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	staff, err := s.staff.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff")
	}
	slots, err := s.slots.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timeslots")
	}
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sessions")
	}
	fixed, err := s.sessions.ListFixed(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fixed sessions")
	}

	input := &allocator.Input{DailyQuota: s.cfg.DailyQuota}
	for _, room := range rooms {
		input.Rooms = append(input.Rooms, allocator.Room{Name: room.Name, IsLab: room.IsLab, IsLarge: room.IsLarge})
	}
	for _, member := range staff {
		input.Staff = append(input.Staff, allocator.Staff{Name: member.Name, Availability: member.Availability})
	}
	for _, slot := range slots {
		input.Slots = append(input.Slots, allocator.TimeSlot{Date: slot.Date, Period: slot.Period})
	}
	for _, session := range sessions {
		input.Sessions = append(input.Sessions, allocator.Session{
			Class:         session.Class,
			Subject:       session.Subject,
			ExamType:      session.ExamType,
			RequiresLab:   session.RequiresLab,
			RequiresSplit: session.RequiresSplit,
		})
	}
	for _, f := range fixed {
		input.Fixed = append(input.Fixed, allocator.FixedSession{
			Class:        f.Class,
			Subject:      f.Subject,
			ExamType:     f.ExamType,
			Date:         f.Date,
			Period:       f.Period,
			Room:         f.Room,
			Invigilators: f.Invigilators,
			Note:         f.Note,
		})
	}
	return input, nil
}

func (s *AllocationService) persist(ctx context.Context, quota int, result *allocator.Result) (*models.AllocationRun, error) {
	warningList := result.Warnings
	if warningList == nil {
		warningList = []string{}
	}
	warnings, err := json.Marshal(warningList)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode warnings")
	}

	run := &models.AllocationRun{
		Quota:           quota,
		SessionCount:    len(result.Assignments),
		OKCount:         result.OKCount,
		PartialCount:    result.PartialCount,
		UnassignedCount: result.UnassignedCount,
		Warnings:        types.JSONText(warnings),
	}

	assignments := make([]models.Assignment, 0, len(result.Assignments))
	for _, a := range result.Assignments {
		row := models.Assignment{
			Class:    a.Class,
			Subject:  a.Subject,
			ExamType: a.ExamType,
			Date:     a.Date,
			Period:   a.Period,
			Room:     a.Room,
			Status:   string(a.Status),
			Reason:   a.Reason,
			Fixed:    a.Fixed,
		}
		if len(a.Invigilators) > 0 {
			row.Invigilator1 = a.Invigilators[0]
		}
		if len(a.Invigilators) > 1 {
			row.Invigilator2 = a.Invigilators[1]
		}
		assignments = append(assignments, row)
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	if err := s.runs.CreateRun(ctx, tx, run); err != nil {
		_ = tx.Rollback()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store run")
	}
	if err := s.runs.InsertAssignments(ctx, tx, run.ID, assignments); err != nil {
		_ = tx.Rollback()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store duty table")
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit run")
	}
	return run, nil
}

// LatestRun returns the most recent run summary.
func (s *AllocationService) LatestRun(ctx context.Context) (*dto.RunSummary, error) {
	run, err := s.runs.FindLatestRun(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no allocation run yet")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load latest run")
	}
	return runSummary(run)
}

// GetRun returns one run summary by id.
func (s *AllocationService) GetRun(ctx context.Context, id string) (*dto.RunSummary, error) {
	run, err := s.runs.FindRunByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "allocation run not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load run")
	}
	return runSummary(run)
}

// ListAssignments returns the filtered duty table of a run.
func (s *AllocationService) ListAssignments(ctx context.Context, runID string, query dto.AssignmentQuery) ([]dto.AssignmentItem, *models.Pagination, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment query")
	}
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, nil, err
	}

	filter := models.AssignmentFilter{
		Staff:    query.Staff,
		Room:     query.Room,
		Date:     query.Date,
		Class:    query.Class,
		Status:   query.Status,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	rows, total, err := s.runs.ListAssignments(ctx, runID, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}

	items := make([]dto.AssignmentItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, assignmentItem(row))
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 500 {
		size = 100
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return items, pagination, nil
}

// DutyTable returns the full duty table of a run, for exports and statistics.
func (s *AllocationService) DutyTable(ctx context.Context, runID string) ([]models.Assignment, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.runs.ListAllAssignments(ctx, runID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load duty table")
	}
	return rows, nil
}

func assignmentItem(row models.Assignment) dto.AssignmentItem {
	return dto.AssignmentItem{
		Position:     row.Position,
		Class:        row.Class,
		Subject:      row.Subject,
		ExamType:     row.ExamType,
		Date:         row.Date,
		Period:       row.Period,
		Room:         row.Room,
		Invigilator1: row.Invigilator1,
		Invigilator2: row.Invigilator2,
		Status:       row.Status,
		Reason:       row.Reason,
		Fixed:        row.Fixed,
	}
}

func runSummary(run *models.AllocationRun) (*dto.RunSummary, error) {
	warnings := []string{}
	if len(run.Warnings) > 0 {
		if err := json.Unmarshal(run.Warnings, &warnings); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode run warnings")
		}
	}
	return &dto.RunSummary{
		ID:              run.ID,
		Quota:           run.Quota,
		SessionCount:    run.SessionCount,
		OKCount:         run.OKCount,
		PartialCount:    run.PartialCount,
		UnassignedCount: run.UnassignedCount,
		Warnings:        warnings,
		CreatedAt:       run.CreatedAt,
	}, nil
}
