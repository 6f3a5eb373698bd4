package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sammenlign/pricefeed/internal/domain"
)

// JobRepository handles database operations for scraping jobs. Job rows
// are append-only history; they are created and updated, never deleted.
type JobRepository struct {
	db *sqlx.DB
}

// NewJobRepository creates a new job repository.
func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new job.
func (r *JobRepository) Create(ctx context.Context, job *domain.ScrapingJob) error {
	query := `
		INSERT INTO scraping_jobs (
			id, provider_name, category, status, results_count,
			execution_time_ms, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		job.ID,
		job.ProviderName,
		string(job.Category),
		string(job.Status),
		job.ResultsCount,
		job.ExecutionTimeMs,
		job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// GetByID retrieves a job by its ID.
func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.ScrapingJob, error) {
	var job domain.ScrapingJob
	query := `
		SELECT id, provider_name, category, status, started_at, completed_at,
		       results_count, error_message, execution_time_ms, created_at
		FROM scraping_jobs
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &job, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoData
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

// Update persists status, timestamps, and outcome fields of a job.
func (r *JobRepository) Update(ctx context.Context, job *domain.ScrapingJob) error {
	query := `
		UPDATE scraping_jobs
		SET status = $1, started_at = $2, completed_at = $3,
		    results_count = $4, error_message = $5, execution_time_ms = $6
		WHERE id = $7
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		string(job.Status),
		job.StartedAt,
		job.CompletedAt,
		job.ResultsCount,
		job.ErrorMessage,
		job.ExecutionTimeMs,
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrNoData
	}

	return nil
}

// ListRecent retrieves the most recent jobs ordered by created_at
// descending, optionally filtered by status.
func (r *JobRepository) ListRecent(
	ctx context.Context,
	status domain.JobStatus,
	limit int,
) ([]*domain.ScrapingJob, error) {
	var jobs []*domain.ScrapingJob
	var query string
	var args []any

	if status != "" {
		query = `
			SELECT id, provider_name, category, status, started_at, completed_at,
			       results_count, error_message, execution_time_ms, created_at
			FROM scraping_jobs
			WHERE status = $1
			ORDER BY created_at DESC
			LIMIT $2
		`
		args = []any{string(status), limit}
	} else {
		query = `
			SELECT id, provider_name, category, status, started_at, completed_at,
			       results_count, error_message, execution_time_ms, created_at
			FROM scraping_jobs
			ORDER BY created_at DESC
			LIMIT $1
		`
		args = []any{limit}
	}

	err := r.db.SelectContext(ctx, &jobs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	if jobs == nil {
		jobs = []*domain.ScrapingJob{}
	}

	return jobs, nil
}

// ListStaleRunning retrieves jobs still marked running whose started_at is
// older than the given age. These are surfaced for external
// reconciliation; this service never resurrects them.
func (r *JobRepository) ListStaleRunning(
	ctx context.Context,
	olderThan time.Duration,
) ([]*domain.ScrapingJob, error) {
	var jobs []*domain.ScrapingJob
	query := `
		SELECT id, provider_name, category, status, started_at, completed_at,
		       results_count, error_message, execution_time_ms, created_at
		FROM scraping_jobs
		WHERE status = 'running' AND started_at < $1
		ORDER BY started_at ASC
	`

	cutoff := time.Now().UTC().Add(-olderThan)
	err := r.db.SelectContext(ctx, &jobs, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale running jobs: %w", err)
	}

	if jobs == nil {
		jobs = []*domain.ScrapingJob{}
	}

	return jobs, nil
}

// Count returns the total number of jobs, optionally filtered by status.
func (r *JobRepository) Count(ctx context.Context, status domain.JobStatus) (int, error) {
	var count int
	var query string
	var args []any

	if status != "" {
		query = `SELECT COUNT(*) FROM scraping_jobs WHERE status = $1`
		args = []any{string(status)}
	} else {
		query = `SELECT COUNT(*) FROM scraping_jobs`
		args = []any{}
	}

	err := r.db.GetContext(ctx, &count, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	return count, nil
}
