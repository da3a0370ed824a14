package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/grdlib/feedback-api/internal/dto"
	"github.com/grdlib/feedback-api/internal/models"
	appErrors "github.com/grdlib/feedback-api/pkg/errors"
	"github.com/grdlib/feedback-api/pkg/timewindow"
)

type analyticsRepository interface {
	DailyCounts(ctx context.Context, event models.EventType, since time.Time) ([]models.DayBucket, error)
}

// AnalyticsService serves the rolling-window rate endpoints. Windows are
// aligned to UTC calendar days and always end at the current day.
type AnalyticsService struct {
	repo    analyticsRepository
	minDays int
	logger  *zap.Logger
	now     func() time.Time
}

// NewAnalyticsService constructs an AnalyticsService instance.
func NewAnalyticsService(repo analyticsRepository, minDays int, logger *zap.Logger) *AnalyticsService {
	if minDays <= 0 {
		minDays = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{repo: repo, minDays: minDays, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// DailyCounts returns aligned day labels and counts for the window. Days
// without any events report zero so the two slices always have length
// equal to the requested window.
func (s *AnalyticsService) DailyCounts(ctx context.Context, rawEvent string, days int) (*dto.DailyCountsResponse, error) {
	event, err := s.validate(rawEvent, days)
	if err != nil {
		return nil, err
	}

	now := s.now()
	labels := timewindow.Days(days, now)
	buckets, err := s.repo.DailyCounts(ctx, event, timewindow.Start(days, now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load daily counts")
	}

	byDay := make(map[string]int, len(buckets))
	for _, b := range buckets {
		byDay[b.Day] = b.Count
	}
	counts := make([]int, len(labels))
	for i, label := range labels {
		counts[i] = byDay[label]
	}

	return &dto.DailyCountsResponse{
		EventType: string(event),
		Days:      days,
		Labels:    labels,
		Counts:    counts,
	}, nil
}

// Rate returns the average daily event count over the window: the sum of
// the per-day buckets divided by the window length. Empty days count as
// zero, so a quiet window drags the rate down rather than shrinking the
// denominator.
func (s *AnalyticsService) Rate(ctx context.Context, rawEvent string, days int) (*dto.RateResponse, error) {
	daily, err := s.DailyCounts(ctx, rawEvent, days)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, c := range daily.Counts {
		total += c
	}

	return &dto.RateResponse{
		EventType: daily.EventType,
		Days:      days,
		Rate:      float64(total) / float64(days),
	}, nil
}

// validate rejects bad parameters before any query runs.
func (s *AnalyticsService) validate(rawEvent string, days int) (models.EventType, error) {
	event := models.EventType(rawEvent)
	if !event.Valid() {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown event type %q", rawEvent))
	}
	if days < s.minDays {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("window must cover at least %d days", s.minDays))
	}
	return event, nil
}
