package models

import "time"

// Staff is one invigilator. Names are unique and serve as the public
// identifier on schedules, matching the uploaded roster sheet.
type Staff struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	// Availability is recognised from the roster sheet but not yet enforced
	// during allocation. Empty means available all day.
	Availability string    `db:"availability" json:"availability,omitempty"`
	Position     int       `db:"position" json:"position"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
