package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lifeng-edu/exam-duty-api/internal/models"
)

// StaffRepository manages persistence for invigilation staff.
type StaffRepository struct {
	db *sqlx.DB
}

// NewStaffRepository constructs a StaffRepository.
func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

func (r *StaffRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// List returns the staff roster in table order.
func (r *StaffRepository) List(ctx context.Context) ([]models.Staff, error) {
	const query = `SELECT id, name, availability, position, created_at FROM staff ORDER BY position`
	var staff []models.Staff
	if err := r.db.SelectContext(ctx, &staff, query); err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return staff, nil
}

// ReplaceAll swaps the whole staff roster atomically within the caller's
// transaction. Positions follow the payload order.
func (r *StaffRepository) ReplaceAll(ctx context.Context, exec sqlx.ExtContext, staff []models.Staff) error {
	target := r.exec(exec)

	if _, err := target.ExecContext(ctx, `DELETE FROM staff`); err != nil {
		return fmt.Errorf("clear staff: %w", err)
	}

	const insertQuery = `
INSERT INTO staff (id, name, availability, position, created_at)
VALUES (:id, :name, :availability, :position, :created_at)`
	now := time.Now().UTC()
	for i := range staff {
		staff[i].ID = uuid.NewString()
		staff[i].Position = i
		staff[i].CreatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, target, insertQuery, staff[i]); err != nil {
			return fmt.Errorf("insert staff %q: %w", staff[i].Name, err)
		}
	}
	return nil
}
