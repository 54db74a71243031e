package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lifeng-edu/exam-duty-api/internal/models"
)

// RoomRepository manages persistence for examination rooms.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs a RoomRepository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// List returns the room roster in table order.
func (r *RoomRepository) List(ctx context.Context) ([]models.Room, error) {
	const query = `SELECT id, name, is_lab, is_large, position, created_at FROM rooms ORDER BY position`
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// ReplaceAll swaps the whole room roster atomically within the caller's
// transaction. Positions follow the payload order.
func (r *RoomRepository) ReplaceAll(ctx context.Context, exec sqlx.ExtContext, rooms []models.Room) error {
	target := r.exec(exec)

	if _, err := target.ExecContext(ctx, `DELETE FROM rooms`); err != nil {
		return fmt.Errorf("clear rooms: %w", err)
	}

	const insertQuery = `
INSERT INTO rooms (id, name, is_lab, is_large, position, created_at)
VALUES (:id, :name, :is_lab, :is_large, :position, :created_at)`
	now := time.Now().UTC()
	for i := range rooms {
		rooms[i].ID = uuid.NewString()
		rooms[i].Position = i
		rooms[i].CreatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, target, insertQuery, rooms[i]); err != nil {
			return fmt.Errorf("insert room %q: %w", rooms[i].Name, err)
		}
	}
	return nil
}
