package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lifeng-edu/exam-duty-api/internal/models"
)

// SessionRepository manages persistence for exam sessions and the fixed
// sessions committed ahead of automatic allocation.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs a SessionRepository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// List returns the session table in input order.
func (r *SessionRepository) List(ctx context.Context) ([]models.ExamSession, error) {
	const query = `SELECT id, class, subject, exam_type, requires_lab, requires_split, position, created_at
FROM exam_sessions ORDER BY position`
	var sessions []models.ExamSession
	if err := r.db.SelectContext(ctx, &sessions, query); err != nil {
		return nil, fmt.Errorf("list exam sessions: %w", err)
	}
	return sessions, nil
}

// ReplaceAll swaps the whole session table atomically within the caller's
// transaction.
func (r *SessionRepository) ReplaceAll(ctx context.Context, exec sqlx.ExtContext, sessions []models.ExamSession) error {
	target := r.exec(exec)

	if _, err := target.ExecContext(ctx, `DELETE FROM exam_sessions`); err != nil {
		return fmt.Errorf("clear exam sessions: %w", err)
	}

	const insertQuery = `
INSERT INTO exam_sessions (id, class, subject, exam_type, requires_lab, requires_split, position, created_at)
VALUES (:id, :class, :subject, :exam_type, :requires_lab, :requires_split, :position, :created_at)`
	now := time.Now().UTC()
	for i := range sessions {
		sessions[i].ID = uuid.NewString()
		sessions[i].Position = i
		sessions[i].CreatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, target, insertQuery, sessions[i]); err != nil {
			return fmt.Errorf("insert exam session %q %q: %w", sessions[i].Class, sessions[i].Subject, err)
		}
	}
	return nil
}

// ListFixed returns the fixed session table in input order.
func (r *SessionRepository) ListFixed(ctx context.Context) ([]models.FixedSession, error) {
	const query = `SELECT id, class, subject, exam_type, date, period, room, invigilators, note, position, created_at
FROM fixed_sessions ORDER BY position`
	var fixed []models.FixedSession
	if err := r.db.SelectContext(ctx, &fixed, query); err != nil {
		return nil, fmt.Errorf("list fixed sessions: %w", err)
	}
	return fixed, nil
}

// ReplaceAllFixed swaps the fixed session table atomically within the
// caller's transaction.
func (r *SessionRepository) ReplaceAllFixed(ctx context.Context, exec sqlx.ExtContext, fixed []models.FixedSession) error {
	target := r.exec(exec)

	if _, err := target.ExecContext(ctx, `DELETE FROM fixed_sessions`); err != nil {
		return fmt.Errorf("clear fixed sessions: %w", err)
	}

	const insertQuery = `
INSERT INTO fixed_sessions (id, class, subject, exam_type, date, period, room, invigilators, note, position, created_at)
VALUES (:id, :class, :subject, :exam_type, :date, :period, :room, :invigilators, :note, :position, :created_at)`
	now := time.Now().UTC()
	for i := range fixed {
		fixed[i].ID = uuid.NewString()
		fixed[i].Position = i
		fixed[i].CreatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, target, insertQuery, fixed[i]); err != nil {
			return fmt.Errorf("insert fixed session %q: %w", fixed[i].Class, err)
		}
	}
	return nil
}
