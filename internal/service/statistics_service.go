package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/lifeng-edu/exam-duty-api/internal/dto"
	"github.com/lifeng-edu/exam-duty-api/internal/models"
	appErrors "github.com/lifeng-edu/exam-duty-api/pkg/errors"
)

// abnormalNote is attached to every multi-duty-per-day finding.
const abnormalNote = "multiple duties in one day"

// StatisticsConfig tunes duty statistics behaviour.
type StatisticsConfig struct {
	CacheTTL time.Duration
}

// StatisticsService derives workload and usage statistics from the duty
// table of an allocation run. Results are cached per run because the duty
// table is immutable once committed.
type StatisticsService struct {
	runs   allocationRepository
	cache  *CacheService
	logger *zap.Logger
	cfg    StatisticsConfig
}

// NewStatisticsService constructs a StatisticsService.
func NewStatisticsService(runs allocationRepository, cache *CacheService, logger *zap.Logger, cfg StatisticsConfig) *StatisticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return &StatisticsService{runs: runs, cache: cache, logger: logger, cfg: cfg}
}

func (s *StatisticsService) resolveRunID(ctx context.Context, runID string) (string, error) {
	if runID != "" {
		if _, err := s.runs.FindRunByID(ctx, runID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return "", appErrors.Clone(appErrors.ErrNotFound, "allocation run not found")
			}
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load run")
		}
		return runID, nil
	}
	run, err := s.runs.FindLatestRun(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "no allocation run yet")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load latest run")
	}
	return run.ID, nil
}

func (s *StatisticsService) committedRows(ctx context.Context, runID string) ([]models.Assignment, error) {
	rows, err := s.runs.ListAllAssignments(ctx, runID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load duty table")
	}
	committed := rows[:0]
	for _, row := range rows {
		if row.Status == models.AssignmentStatusUnassigned {
			continue
		}
		committed = append(committed, row)
	}
	return committed, nil
}

// StaffStats returns per-staff duty counts for a run, busiest first. An
// empty runID targets the latest run.
func (s *StatisticsService) StaffStats(ctx context.Context, runID string) ([]dto.StaffDutyStat, error) {
	id, err := s.resolveRunID(ctx, runID)
	if err != nil {
		return nil, err
	}

	cacheKey := "stats:staff:" + id
	var cached []dto.StaffDutyStat
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return cached, nil
	}

	rows, err := s.committedRows(ctx, id)
	if err != nil {
		return nil, err
	}

	perStaff := make(map[string]*dto.StaffDutyStat)
	var order []string
	record := func(name, date string) {
		if name == "" {
			return
		}
		stat, ok := perStaff[name]
		if !ok {
			stat = &dto.StaffDutyStat{Staff: name, PerDate: make(map[string]int)}
			perStaff[name] = stat
			order = append(order, name)
		}
		stat.TotalCount++
		stat.PerDate[date]++
	}
	for _, row := range rows {
		record(row.Invigilator1, row.Date)
		record(row.Invigilator2, row.Date)
	}

	stats := make([]dto.StaffDutyStat, 0, len(order))
	for _, name := range order {
		stats = append(stats, *perStaff[name])
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].TotalCount != stats[j].TotalCount {
			return stats[i].TotalCount > stats[j].TotalCount
		}
		return stats[i].Staff < stats[j].Staff
	})

	if err := s.cache.Set(ctx, cacheKey, stats, s.cfg.CacheTTL); err != nil {
		s.logger.Debug("staff stats cache write failed", zap.Error(err))
	}
	return stats, nil
}

// RoomStats returns per-room usage counts for a run, busiest first.
func (s *StatisticsService) RoomStats(ctx context.Context, runID string) ([]dto.RoomUsageStat, error) {
	id, err := s.resolveRunID(ctx, runID)
	if err != nil {
		return nil, err
	}

	cacheKey := "stats:rooms:" + id
	var cached []dto.RoomUsageStat
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return cached, nil
	}

	rows, err := s.committedRows(ctx, id)
	if err != nil {
		return nil, err
	}

	perRoom := make(map[string]*dto.RoomUsageStat)
	var order []string
	for _, row := range rows {
		if row.Room == "" {
			continue
		}
		stat, ok := perRoom[row.Room]
		if !ok {
			stat = &dto.RoomUsageStat{Room: row.Room, PerDate: make(map[string]int)}
			perRoom[row.Room] = stat
			order = append(order, row.Room)
		}
		stat.TotalCount++
		stat.PerDate[row.Date]++
	}

	stats := make([]dto.RoomUsageStat, 0, len(order))
	for _, name := range order {
		stats = append(stats, *perRoom[name])
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].TotalCount != stats[j].TotalCount {
			return stats[i].TotalCount > stats[j].TotalCount
		}
		return stats[i].Room < stats[j].Room
	})

	if err := s.cache.Set(ctx, cacheKey, stats, s.cfg.CacheTTL); err != nil {
		s.logger.Debug("room stats cache write failed", zap.Error(err))
	}
	return stats, nil
}

// AbnormalDuties flags staff invigilating more than once on a single date.
// The quota allows it, but schools review such days by hand.
func (s *StatisticsService) AbnormalDuties(ctx context.Context, runID string) ([]dto.AbnormalDuty, error) {
	id, err := s.resolveRunID(ctx, runID)
	if err != nil {
		return nil, err
	}

	cacheKey := "stats:abnormal:" + id
	var cached []dto.AbnormalDuty
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return cached, nil
	}

	stats, err := s.StaffStats(ctx, id)
	if err != nil {
		return nil, err
	}

	var findings []dto.AbnormalDuty
	for _, stat := range stats {
		dates := make([]string, 0, len(stat.PerDate))
		for date := range stat.PerDate {
			dates = append(dates, date)
		}
		sort.Strings(dates)
		for _, date := range dates {
			if count := stat.PerDate[date]; count > 1 {
				findings = append(findings, dto.AbnormalDuty{
					Staff: stat.Staff,
					Date:  date,
					Count: count,
					Note:  abnormalNote,
				})
			}
		}
	}

	if err := s.cache.Set(ctx, cacheKey, findings, s.cfg.CacheTTL); err != nil {
		s.logger.Debug("abnormal stats cache write failed", zap.Error(err))
	}
	return findings, nil
}
