package models

import "time"

// TimeSlot is one (date, period) examination window. Position preserves the
// uploaded row order, which doubles as the allocation priority order.
type TimeSlot struct {
	ID        string    `db:"id" json:"id"`
	Date      string    `db:"date" json:"date"`
	Period    string    `db:"period" json:"period"`
	Position  int       `db:"position" json:"position"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
