package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Assignment statuses.
const (
	AssignmentStatusOK         = "ok"
	AssignmentStatusPartial    = "partial"
	AssignmentStatusUnassigned = "unassigned"
)

// AllocationRun records one allocator execution and its outcome counters.
type AllocationRun struct {
	ID              string         `db:"id" json:"id"`
	Quota           int            `db:"quota" json:"quota"`
	SessionCount    int            `db:"session_count" json:"session_count"`
	OKCount         int            `db:"ok_count" json:"ok_count"`
	PartialCount    int            `db:"partial_count" json:"partial_count"`
	UnassignedCount int            `db:"unassigned_count" json:"unassigned_count"`
	Warnings        types.JSONText `db:"warnings" json:"warnings,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
}

// Assignment is one result row of an allocation run. Split sessions yield two
// rows whose class labels carry the "(odd)"/"(even)" suffix.
type Assignment struct {
	ID           string    `db:"id" json:"id"`
	RunID        string    `db:"run_id" json:"run_id"`
	Position     int       `db:"position" json:"position"`
	Class        string    `db:"class" json:"class"`
	Subject      string    `db:"subject" json:"subject"`
	ExamType     string    `db:"exam_type" json:"exam_type"`
	Date         string    `db:"date" json:"date"`
	Period       string    `db:"period" json:"period"`
	Room         string    `db:"room" json:"room"`
	Invigilator1 string    `db:"invigilator1" json:"invigilator1"`
	Invigilator2 string    `db:"invigilator2" json:"invigilator2"`
	Status       string    `db:"status" json:"status"`
	Reason       string    `db:"reason" json:"reason,omitempty"`
	Fixed        bool      `db:"fixed" json:"fixed"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// AssignmentFilter describes query params for listing assignments of a run.
type AssignmentFilter struct {
	Staff    string
	Room     string
	Date     string
	Class    string
	Status   string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
