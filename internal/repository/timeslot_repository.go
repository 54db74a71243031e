package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lifeng-edu/exam-duty-api/internal/models"
)

// TimeSlotRepository manages persistence for examination timeslots. The
// stored position column is the allocation priority order.
type TimeSlotRepository struct {
	db *sqlx.DB
}

// NewTimeSlotRepository constructs a TimeSlotRepository.
func NewTimeSlotRepository(db *sqlx.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

func (r *TimeSlotRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// List returns the timeslot list in priority order.
func (r *TimeSlotRepository) List(ctx context.Context) ([]models.TimeSlot, error) {
	const query = `SELECT id, date, period, position, created_at FROM timeslots ORDER BY position`
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list timeslots: %w", err)
	}
	return slots, nil
}

// ReplaceAll swaps the whole timeslot list atomically within the caller's
// transaction.
func (r *TimeSlotRepository) ReplaceAll(ctx context.Context, exec sqlx.ExtContext, slots []models.TimeSlot) error {
	target := r.exec(exec)

	if _, err := target.ExecContext(ctx, `DELETE FROM timeslots`); err != nil {
		return fmt.Errorf("clear timeslots: %w", err)
	}

	const insertQuery = `
INSERT INTO timeslots (id, date, period, position, created_at)
VALUES (:id, :date, :period, :position, :created_at)`
	now := time.Now().UTC()
	for i := range slots {
		slots[i].ID = uuid.NewString()
		slots[i].Position = i
		slots[i].CreatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, target, insertQuery, slots[i]); err != nil {
			return fmt.Errorf("insert timeslot %s %s: %w", slots[i].Date, slots[i].Period, err)
		}
	}
	return nil
}
