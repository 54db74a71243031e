package models

import "time"

// ExamSession is one class sitting one exam. Sessions sharing
// (subject, exam type) form a project that must run simultaneously.
type ExamSession struct {
	ID       string `db:"id" json:"id"`
	Class    string `db:"class" json:"class"`
	Subject  string `db:"subject" json:"subject"`
	ExamType string `db:"exam_type" json:"exam_type"`
	// RequiresLab restricts placement to computer-equipped rooms.
	RequiresLab bool `db:"requires_lab" json:"requires_lab"`
	// RequiresSplit marks sessions administered separately to two halves of
	// the class when no single large room is available.
	RequiresSplit bool      `db:"requires_split" json:"requires_split"`
	Position      int       `db:"position" json:"position"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// FixedSession is an externally mandated assignment committed before
// automatic allocation begins.
type FixedSession struct {
	ID           string    `db:"id" json:"id"`
	Class        string    `db:"class" json:"class"`
	Subject      string    `db:"subject" json:"subject"`
	ExamType     string    `db:"exam_type" json:"exam_type"`
	Date         string    `db:"date" json:"date"`
	Period       string    `db:"period" json:"period"`
	Room         string    `db:"room" json:"room"`
	Invigilators int       `db:"invigilators" json:"invigilators"`
	Note         string    `db:"note" json:"note,omitempty"`
	Position     int       `db:"position" json:"position"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
