package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grdlib/feedback-api/internal/models"
)

func TestAnalyticsRepositoryDailyFeedbackCounts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	since := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"day", "count"}).
		AddRow("2026-08-28", 2).
		AddRow("2026-08-30", 1)
	mock.ExpectQuery("FROM feedback_submissions WHERE submitted_at >= \\$1 GROUP BY day").
		WithArgs(since).
		WillReturnRows(rows)

	buckets, err := repo.DailyCounts(context.Background(), models.EventFeedback, since)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, models.DayBucket{Day: "2026-08-28", Count: 2}, buckets[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsRepositoryDailyLoginCounts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	since := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM login_events WHERE logged_at >= \\$1 GROUP BY day").
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"day", "count"}))

	buckets, err := repo.DailyCounts(context.Background(), models.EventLogin, since)
	require.NoError(t, err)
	assert.Empty(t, buckets)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsRepositoryUnknownEvent(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	_, err := repo.DailyCounts(context.Background(), models.EventType("visits"), time.Now())
	assert.Error(t, err)
}
