package models

import "time"

// Room is one examination room. Large rooms require two invigilators,
// lab rooms host computer-administered exams only.
type Room struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	IsLab     bool      `db:"is_lab" json:"is_lab"`
	IsLarge   bool      `db:"is_large" json:"is_large"`
	Position  int       `db:"position" json:"position"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
