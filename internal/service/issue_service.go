package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/grdlib/feedback-api/internal/dto"
	"github.com/grdlib/feedback-api/internal/models"
	appErrors "github.com/grdlib/feedback-api/pkg/errors"
)

type issueRepository interface {
	Create(ctx context.Context, issue *models.Issue) error
	FindByID(ctx context.Context, id string) (*models.Issue, error)
	List(ctx context.Context) ([]models.Issue, error)
	Filter(ctx context.Context, filter models.IssueFilter) ([]models.Issue, error)
	UpdateStatus(ctx context.Context, id string, target models.IssueStatus, now time.Time) (*models.Issue, error)
	Counts(ctx context.Context) (models.IssueCounts, error)
	CategoryCounts(ctx context.Context) ([]models.CategoryCount, error)
}

type issueAuditRepository interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type statusNotifier interface {
	SendStatusUpdate(to, name string, status models.IssueStatus) error
}

// IssueService implements the issue lifecycle and aggregation use cases.
type IssueService struct {
	repo     issueRepository
	audit    issueAuditRepository
	notifier statusNotifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewIssueService constructs an IssueService instance.
func NewIssueService(repo issueRepository, audit issueAuditRepository, notifier statusNotifier, logger *zap.Logger) *IssueService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IssueService{repo: repo, audit: audit, notifier: notifier, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// List returns every issue.
func (s *IssueService) List(ctx context.Context) ([]models.Issue, error) {
	issues, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list issues")
	}
	return issues, nil
}

// Filter returns issues matching the given predicates. An unknown status
// value is rejected before touching the store.
func (s *IssueService) Filter(ctx context.Context, filter models.IssueFilter) ([]models.Issue, error) {
	if filter.Status != "" {
		if _, ok := models.ParseIssueStatus(filter.Status); !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", filter.Status))
		}
	}
	issues, err := s.repo.Filter(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to filter issues")
	}
	return issues, nil
}

// ChangeStatus moves an issue to the target status. RESOLVED is terminal:
// once an issue reaches it no further transition is accepted, regardless
// of interleaving. The update is one conditional statement so two
// concurrent admins cannot both win.
func (s *IssueService) ChangeStatus(ctx context.Context, id, rawStatus string, actorID *string) (*models.Issue, error) {
	target, ok := models.ParseIssueStatus(rawStatus)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", rawStatus))
	}

	issue, err := s.repo.UpdateStatus(ctx, id, target, s.now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.classifyRejectedTransition(ctx, id, target)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update issue status")
	}

	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     actorID,
		Action:     models.AuditActionStatusChange,
		Resource:   "issue",
		ResourceID: &issue.ID,
		NewValues:  []byte(fmt.Sprintf(`{"status":%q}`, target)),
	}); err != nil {
		s.logger.Warn("failed to record status change audit log", zap.Error(err))
	}

	if s.notifier != nil && issue.RaisedBy != "" {
		go func(email, rollNo string, status models.IssueStatus) {
			if err := s.notifier.SendStatusUpdate(email, rollNo, status); err != nil {
				s.logger.Warn("failed to send status mail", zap.String("issue_id", id), zap.Error(err))
			}
		}(issue.RaisedBy, issue.RollNo, issue.Status)
	}

	return issue, nil
}

// classifyRejectedTransition distinguishes a missing issue from an
// illegal transition after the conditional update matched nothing.
func (s *IssueService) classifyRejectedTransition(ctx context.Context, id string, target models.IssueStatus) error {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "issue not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load issue")
	}
	if current.Status.IsTerminal() {
		return appErrors.Clone(appErrors.ErrInvalidTransition, "")
	}
	return appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("issue is already %s", current.Status))
}

// Counts returns the status summary. Total always covers every issue,
// so resolved+pending never exceeds it.
func (s *IssueService) Counts(ctx context.Context) (models.IssueCounts, error) {
	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return models.IssueCounts{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count issues")
	}
	return counts, nil
}

// CategoryDistribution returns per-category counts with percentage
// shares. A zero total yields a zero share for every category.
func (s *IssueService) CategoryDistribution(ctx context.Context) (*dto.CategoryDistributionResponse, error) {
	counts, err := s.repo.CategoryCounts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate issue categories")
	}

	total := 0
	for _, c := range counts {
		total += c.Count
	}

	shares := make([]dto.CategoryShare, 0, len(counts))
	for _, c := range counts {
		var pct float64
		if total > 0 {
			pct = math.Round(float64(c.Count)/float64(total)*100*100) / 100
		}
		shares = append(shares, dto.CategoryShare{Category: c.Category, Count: c.Count, Percentage: pct})
	}

	return &dto.CategoryDistributionResponse{Total: total, Categories: shares}, nil
}
