package dto

import "time"

// ExportJobRequest queues an asynchronous duty table export.
type ExportJobRequest struct {
	RunID  string `json:"runId" validate:"required,uuid"`
	Format string `json:"format" validate:"required,oneof=csv pdf"`
}

// ExportJobResponse reports the state of an export job.
type ExportJobResponse struct {
	ID          string     `json:"id"`
	RunID       string     `json:"runId"`
	Format      string     `json:"format"`
	Status      string     `json:"status"`
	Error       string     `json:"error,omitempty"`
	DownloadURL string     `json:"downloadUrl,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}
