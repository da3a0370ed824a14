package service

import (
	"context"
	"database/sql"
	"errors"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/grdlib/feedback-api/internal/dto"
	"github.com/grdlib/feedback-api/internal/models"
	"github.com/grdlib/feedback-api/pkg/config"
	appErrors "github.com/grdlib/feedback-api/pkg/errors"
)

type feedbackRepository interface {
	Insert(ctx context.Context, submission *models.FeedbackSubmission) error
	List(ctx context.Context) ([]models.FeedbackSubmission, error)
	Search(ctx context.Context, filter models.FeedbackSearchFilter) ([]models.FeedbackSubmission, error)
}

type feedbackUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastFeedback(ctx context.Context, id string, ts time.Time) error
}

type issueCreator interface {
	Create(ctx context.Context, issue *models.Issue) error
}

type thankYouNotifier interface {
	SendThankYou(to, name string) error
}

// FeedbackService implements the submission and admin search use cases.
// Submission is the single entry point that can raise an issue: the last
// answer of the form is free text, and when the classifier flags it the
// submission and a PENDING issue are stored in the same flow.
type FeedbackService struct {
	repo       feedbackRepository
	users      feedbackUserRepository
	issues     issueCreator
	classifier *Classifier
	notifier   thankYouNotifier
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	cfg        config.FeedbackConfig
	now        func() time.Time
}

// NewFeedbackService constructs a FeedbackService instance.
func NewFeedbackService(repo feedbackRepository, users feedbackUserRepository, issues issueCreator, classifier *Classifier, notifier thankYouNotifier, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg config.FeedbackConfig) *FeedbackService {
	if classifier == nil {
		classifier = NewClassifier(nil)
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackService{
		repo:       repo,
		users:      users,
		issues:     issues,
		classifier: classifier,
		notifier:   notifier,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
		cfg:        cfg,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Submit stores a completed feedback form for the authenticated user.
func (s *FeedbackService) Submit(ctx context.Context, email, rollNo string, req dto.SubmitFeedbackRequest) (*dto.SubmitFeedbackResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}

	now := s.now()

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	if user != nil && user.LastFeedback != nil && s.cfg.ResubmitWindow > 0 {
		if now.Sub(*user.LastFeedback) < s.cfg.ResubmitWindow {
			return nil, appErrors.Clone(appErrors.ErrConflict, "feedback already submitted for this period")
		}
	}

	var timeTaken *float64
	if req.StartTime > 0 {
		started := time.Unix(req.StartTime, 0).UTC()
		if elapsed := now.Sub(started).Seconds(); elapsed >= 0 {
			timeTaken = &elapsed
		}
	}

	lastAnswer := req.Feedback[len(req.Feedback)-1].Answer
	issuePresence := s.classifier.IsIssue(lastAnswer)
	if issuePresence {
		issue := &models.Issue{
			ID:             uuid.NewString(),
			RaisedBy:       email,
			RollNo:         rollNo,
			Issue:          lastAnswer,
			Category:       s.classifier.Categorize(lastAnswer),
			Status:         models.IssuePending,
			UserScore:      userTrustScore(rollNo),
			IssueRaiseDate: now,
		}
		if err := s.issues.Create(ctx, issue); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record issue")
		}
		s.metrics.RecordIssueRaised()
	}

	submission := &models.FeedbackSubmission{
		ID:               uuid.NewString(),
		Email:            email,
		RollNo:           rollNo,
		Answers:          models.FeedbackAnswers(req.Feedback),
		SubmittedAt:      now,
		TimeTakenSeconds: timeTaken,
		FloorNo:          s.cfg.FloorNo,
		IssuePresence:    issuePresence,
	}
	if err := s.repo.Insert(ctx, submission); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store feedback")
	}
	s.metrics.RecordFeedbackStored()

	if user != nil {
		if err := s.users.UpdateLastFeedback(ctx, user.ID, now); err != nil {
			s.logger.Warn("failed to update last feedback time", zap.String("email", email), zap.Error(err))
		}
	}

	if s.notifier != nil {
		go func(to, name string) {
			if err := s.notifier.SendThankYou(to, name); err != nil {
				s.logger.Warn("failed to send thank you mail", zap.String("email", to), zap.Error(err))
			}
		}(email, rollNo)
	}

	return &dto.SubmitFeedbackResponse{
		Message:       "Feedback submitted successfully",
		TimeTaken:     timeTaken,
		IssuePresence: issuePresence,
	}, nil
}

// List returns every submission.
func (s *FeedbackService) List(ctx context.Context) ([]models.FeedbackSubmission, error) {
	submissions, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list feedback")
	}
	return submissions, nil
}

// Search returns submissions matching the filter. The filter field must
// be one of the known values when a query is supplied.
func (s *FeedbackService) Search(ctx context.Context, filter models.FeedbackSearchFilter) ([]models.FeedbackSubmission, error) {
	if filter.Query != "" {
		switch filter.Field {
		case models.FeedbackSearchByRollNo, models.FeedbackSearchByKeyword:
		default:
			return nil, appErrors.Clone(appErrors.ErrValidation, "filter field must be roll_no or keyword")
		}
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date precedes start date")
	}

	submissions, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search feedback")
	}
	return submissions, nil
}

// userTrustScore weighs the reporter. Staff cards start with a letter
// and are fully trusted; student reports carry a neutral default until
// borrowing history is wired in.
func userTrustScore(rollNo string) float64 {
	if rollNo == "" {
		return 0.5
	}
	if !unicode.IsDigit(rune(rollNo[0])) {
		return 1.0
	}
	return 0.5
}
