package models

import "time"

// Export job states.
const (
	ExportJobStatusPending    = "pending"
	ExportJobStatusProcessing = "processing"
	ExportJobStatusCompleted  = "completed"
	ExportJobStatusFailed     = "failed"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// ExportJob tracks one asynchronous duty table export.
type ExportJob struct {
	ID          string     `json:"id"`
	RunID       string     `json:"run_id"`
	Format      string     `json:"format"`
	Status      string     `json:"status"`
	Error       string     `json:"error,omitempty"`
	FilePath    string     `json:"file_path,omitempty"`
	Token       string     `json:"token,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
