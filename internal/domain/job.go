package domain

import (
	"time"
)

// JobStatus is the lifecycle state of a scraping job.
type JobStatus string

const (
	// JobStatusPending means the job is enqueued but not yet started.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning means the job is executing.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted means the job finished successfully. Terminal.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed means the job exhausted its attempts. Terminal.
	JobStatusFailed JobStatus = "failed"
)

// Terminal reports whether s is a terminal job status.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// ScrapingJob is one attempt to refresh one provider/category pair.
// Jobs are append-only history; they are never deleted.
type ScrapingJob struct {
	ID              string     `db:"id"                json:"id"`
	ProviderName    string     `db:"provider_name"     json:"provider_name"`
	Category        Category   `db:"category"          json:"category"`
	Status          JobStatus  `db:"status"            json:"status"`
	StartedAt       *time.Time `db:"started_at"        json:"started_at,omitempty"`
	CompletedAt     *time.Time `db:"completed_at"      json:"completed_at,omitempty"`
	ResultsCount    int        `db:"results_count"     json:"results_count"`
	ErrorMessage    *string    `db:"error_message"     json:"error_message,omitempty"`
	ExecutionTimeMs int64      `db:"execution_time_ms" json:"execution_time_ms"`
	CreatedAt       time.Time  `db:"created_at"        json:"created_at"`
}
