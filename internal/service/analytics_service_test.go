package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grdlib/feedback-api/internal/models"
	appErrors "github.com/grdlib/feedback-api/pkg/errors"
)

type analyticsRepoStub struct {
	buckets []models.DayBucket
	calls   int
	since   time.Time
}

func (s *analyticsRepoStub) DailyCounts(ctx context.Context, event models.EventType, since time.Time) ([]models.DayBucket, error) {
	s.calls++
	s.since = since
	return s.buckets, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAnalyticsServiceRejectsShortWindow(t *testing.T) {
	repo := &analyticsRepoStub{}
	svc := NewAnalyticsService(repo, 5, nil)

	_, err := svc.DailyCounts(context.Background(), "feedback", 3)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Zero(t, repo.calls, "store must not be queried for a short window")
}

func TestAnalyticsServiceRejectsUnknownEvent(t *testing.T) {
	repo := &analyticsRepoStub{}
	svc := NewAnalyticsService(repo, 5, nil)

	_, err := svc.Rate(context.Background(), "visits", 7)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Zero(t, repo.calls)
}

func TestAnalyticsServiceDailyCountsZeroFill(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	repo := &analyticsRepoStub{buckets: []models.DayBucket{
		{Day: "2026-08-28", Count: 2},
		{Day: "2026-08-30", Count: 1},
		{Day: "2026-09-01", Count: 3},
	}}
	svc := NewAnalyticsService(repo, 5, nil)
	svc.now = fixedClock(now)

	resp, err := svc.DailyCounts(context.Background(), "feedback", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-08-28", "2026-08-29", "2026-08-30", "2026-08-31", "2026-09-01"}, resp.Labels)
	assert.Equal(t, []int{2, 0, 1, 0, 3}, resp.Counts)
	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), repo.since)
}

func TestAnalyticsServiceRate(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	repo := &analyticsRepoStub{buckets: []models.DayBucket{
		{Day: "2026-08-28", Count: 2},
		{Day: "2026-08-30", Count: 1},
		{Day: "2026-09-01", Count: 3},
	}}
	svc := NewAnalyticsService(repo, 5, nil)
	svc.now = fixedClock(now)

	resp, err := svc.Rate(context.Background(), "login", 5)
	require.NoError(t, err)
	assert.InDelta(t, 1.2, resp.Rate, 1e-9)
	assert.Equal(t, 5, resp.Days)
}

func TestAnalyticsServiceRateEmptyWindow(t *testing.T) {
	repo := &analyticsRepoStub{}
	svc := NewAnalyticsService(repo, 5, nil)
	svc.now = fixedClock(time.Date(2026, 9, 1, 0, 0, 1, 0, time.UTC))

	resp, err := svc.Rate(context.Background(), "feedback", 10)
	require.NoError(t, err)
	assert.Zero(t, resp.Rate)
}
