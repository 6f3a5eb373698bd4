package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sammenlign/pricefeed/internal/domain"
)

const defaultJobsLimit = 50

// JobHistory is the tracker's read surface.
type JobHistory interface {
	Recent(ctx context.Context, status domain.JobStatus, limit int) ([]*domain.ScrapingJob, error)
	StaleRunning(ctx context.Context, olderThan time.Duration) ([]*domain.ScrapingJob, error)
}

// JobsHandler handles job-history HTTP requests. The history is purely
// observability; nothing here drives control flow.
type JobsHandler struct {
	tracker         JobHistory
	staleRunningAge time.Duration
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(tracker JobHistory, staleRunningAge time.Duration) *JobsHandler {
	return &JobsHandler{
		tracker:         tracker,
		staleRunningAge: staleRunningAge,
	}
}

// ListJobs handles GET /api/v1/jobs.
func (h *JobsHandler) ListJobs(c *gin.Context) {
	status := domain.JobStatus(c.Query("status"))

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultJobsLimit)))
	if err != nil || limit <= 0 {
		limit = defaultJobsLimit
	}

	jobs, err := h.tracker.Recent(c.Request.Context(), status, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve jobs",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// ListStaleRunning handles GET /api/v1/jobs/stale-running. It surfaces
// jobs stuck in running state for external reconciliation.
func (h *JobsHandler) ListStaleRunning(c *gin.Context) {
	jobs, err := h.tracker.StaleRunning(c.Request.Context(), h.staleRunningAge)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve stale running jobs",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"count": len(jobs),
	})
}
