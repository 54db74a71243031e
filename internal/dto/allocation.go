package dto

import "time"

// RunAllocationRequest triggers an allocation run over the stored rosters.
type RunAllocationRequest struct {
	Quota int `json:"quota" validate:"omitempty,min=1,max=10"`
}

// RunSummary describes one allocation run.
type RunSummary struct {
	ID              string    `json:"id"`
	Quota           int       `json:"quota"`
	SessionCount    int       `json:"sessionCount"`
	OKCount         int       `json:"okCount"`
	PartialCount    int       `json:"partialCount"`
	UnassignedCount int       `json:"unassignedCount"`
	Warnings        []string  `json:"warnings"`
	CreatedAt       time.Time `json:"createdAt"`
}

// AssignmentQuery filters the duty table of a run.
type AssignmentQuery struct {
	Staff    string `form:"staff"`
	Room     string `form:"room"`
	Date     string `form:"date"`
	Class    string `form:"class"`
	Status   string `form:"status" validate:"omitempty,oneof=ok partial unassigned"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=500"`
}

// AssignmentItem is one duty table row returned to clients.
type AssignmentItem struct {
	Position     int    `json:"position"`
	Class        string `json:"class"`
	Subject      string `json:"subject"`
	ExamType     string `json:"examType"`
	Date         string `json:"date"`
	Period       string `json:"period"`
	Room         string `json:"room"`
	Invigilator1 string `json:"invigilator1"`
	Invigilator2 string `json:"invigilator2"`
	Status       string `json:"status"`
	Reason       string `json:"reason,omitempty"`
	Fixed        bool   `json:"fixed"`
}
