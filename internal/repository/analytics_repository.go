package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/grdlib/feedback-api/internal/models"
)

// AnalyticsRepository exposes read-optimised queries for the windowed
// rate endpoints. Bucketing happens in UTC to match pkg/timewindow.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository instantiates the repository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// DailyCounts returns per-day event counts for events at or after since.
// Days without events are absent from the result; callers zero-fill.
func (r *AnalyticsRepository) DailyCounts(ctx context.Context, event models.EventType, since time.Time) ([]models.DayBucket, error) {
	var query string
	switch event {
	case models.EventFeedback:
		query = `SELECT to_char(submitted_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*) AS count
			FROM feedback_submissions WHERE submitted_at >= $1 GROUP BY day ORDER BY day ASC`
	case models.EventLogin:
		query = `SELECT to_char(logged_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*) AS count
			FROM login_events WHERE logged_at >= $1 GROUP BY day ORDER BY day ASC`
	default:
		return nil, fmt.Errorf("unknown event type %q", event)
	}

	buckets := []models.DayBucket{}
	if err := r.db.SelectContext(ctx, &buckets, query, since); err != nil {
		return nil, fmt.Errorf("daily %s counts: %w", event, err)
	}
	return buckets, nil
}
