package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/lifeng-edu/exam-duty-api/internal/models"
)

// AllocationRepository persists allocation runs and their duty tables.
type AllocationRepository struct {
	db *sqlx.DB
}

// NewAllocationRepository constructs an AllocationRepository.
func NewAllocationRepository(db *sqlx.DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

func (r *AllocationRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// CreateRun inserts the run header within the caller's transaction.
func (r *AllocationRepository) CreateRun(ctx context.Context, exec sqlx.ExtContext, run *models.AllocationRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if len(run.Warnings) == 0 {
		run.Warnings = types.JSONText(`[]`)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	const query = `
INSERT INTO allocation_runs (id, quota, session_count, ok_count, partial_count, unassigned_count, warnings, created_at)
VALUES (:id, :quota, :session_count, :ok_count, :partial_count, :unassigned_count, :warnings, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, run); err != nil {
		return fmt.Errorf("insert allocation run: %w", err)
	}
	return nil
}

// InsertAssignments stores the duty table rows of a run, preserving row order
// through the position column.
func (r *AllocationRepository) InsertAssignments(ctx context.Context, exec sqlx.ExtContext, runID string, assignments []models.Assignment) error {
	const query = `
INSERT INTO assignments (id, run_id, position, class, subject, exam_type, date, period, room, invigilator1, invigilator2, status, reason, fixed, created_at)
VALUES (:id, :run_id, :position, :class, :subject, :exam_type, :date, :period, :room, :invigilator1, :invigilator2, :status, :reason, :fixed, :created_at)`
	target := r.exec(exec)
	now := time.Now().UTC()
	for i := range assignments {
		assignments[i].ID = uuid.NewString()
		assignments[i].RunID = runID
		assignments[i].Position = i
		assignments[i].CreatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, target, query, assignments[i]); err != nil {
			return fmt.Errorf("insert assignment %d of run %s: %w", i, runID, err)
		}
	}
	return nil
}

// FindLatestRun returns the most recent run header.
func (r *AllocationRepository) FindLatestRun(ctx context.Context) (*models.AllocationRun, error) {
	const query = `SELECT id, quota, session_count, ok_count, partial_count, unassigned_count, warnings, created_at
FROM allocation_runs ORDER BY created_at DESC LIMIT 1`
	var run models.AllocationRun
	if err := r.db.GetContext(ctx, &run, query); err != nil {
		return nil, err
	}
	return &run, nil
}

// FindRunByID loads one run header.
func (r *AllocationRepository) FindRunByID(ctx context.Context, id string) (*models.AllocationRun, error) {
	const query = `SELECT id, quota, session_count, ok_count, partial_count, unassigned_count, warnings, created_at
FROM allocation_runs WHERE id = $1`
	var run models.AllocationRun
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		return nil, err
	}
	return &run, nil
}

// ListAssignments returns the filtered duty table of a run plus the total
// match count. Rows come back in allocator output order.
func (r *AllocationRepository) ListAssignments(ctx context.Context, runID string, filter models.AssignmentFilter) ([]models.Assignment, int, error) {
	base := "FROM assignments WHERE run_id = $1"
	args := []interface{}{runID}
	var conditions []string

	if filter.Staff != "" {
		conditions = append(conditions, fmt.Sprintf("(invigilator1 = $%d OR invigilator2 = $%d)", len(args)+1, len(args)+1))
		args = append(args, filter.Staff)
	}
	if filter.Room != "" {
		conditions = append(conditions, fmt.Sprintf("room = $%d", len(args)+1))
		args = append(args, filter.Room)
	}
	if filter.Date != "" {
		conditions = append(conditions, fmt.Sprintf("date = $%d", len(args)+1))
		args = append(args, filter.Date)
	}
	if filter.Class != "" {
		conditions = append(conditions, fmt.Sprintf("class = $%d", len(args)+1))
		args = append(args, filter.Class)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 500 {
		size = 100
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, run_id, position, class, subject, exam_type, date, period, room, invigilator1, invigilator2, status, reason, fixed, created_at %s ORDER BY position LIMIT %d OFFSET %d`, base, size, offset)
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list assignments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count assignments: %w", err)
	}

	return assignments, total, nil
}

// ListAllAssignments returns every duty row of a run in output order, for
// exports and statistics.
func (r *AllocationRepository) ListAllAssignments(ctx context.Context, runID string) ([]models.Assignment, error) {
	const query = `SELECT id, run_id, position, class, subject, exam_type, date, period, room, invigilator1, invigilator2, status, reason, fixed, created_at
FROM assignments WHERE run_id = $1 ORDER BY position`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, runID); err != nil {
		return nil, fmt.Errorf("list run assignments: %w", err)
	}
	return assignments, nil
}
