package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/grdlib/feedback-api/internal/dto"
	"github.com/grdlib/feedback-api/internal/models"
	appErrors "github.com/grdlib/feedback-api/pkg/errors"
)

const questionsCacheKey = "questions:list"

type questionRepository interface {
	List(ctx context.Context) ([]models.FeedbackQuestion, error)
	Create(ctx context.Context, question *models.FeedbackQuestion) error
	Delete(ctx context.Context, id string) error
}

// QuestionService manages the feedback form questions. The question list
// is the only cached read in the system; every mutation invalidates it.
type QuestionService struct {
	repo      questionRepository
	audit     issueAuditRepository
	cache     *CacheService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewQuestionService constructs a QuestionService instance.
func NewQuestionService(repo questionRepository, audit issueAuditRepository, cache *CacheService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *QuestionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionService{
		repo:      repo,
		audit:     audit,
		cache:     cache,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List returns all questions, serving from cache when possible.
func (s *QuestionService) List(ctx context.Context) ([]models.FeedbackQuestion, error) {
	var cached []models.FeedbackQuestion
	if hit, _ := s.cache.Get(ctx, questionsCacheKey, &cached); hit {
		return cached, nil
	}

	questions, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list questions")
	}

	if err := s.cache.Set(ctx, questionsCacheKey, questions, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache question list", zap.Error(err))
	}
	return questions, nil
}

// Create registers a new question and invalidates the cached list.
func (s *QuestionService) Create(ctx context.Context, req dto.CreateQuestionRequest, actorID *string) (*models.FeedbackQuestion, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid question payload")
	}

	question := &models.FeedbackQuestion{
		ID:           uuid.NewString(),
		Question:     req.Question,
		Options:      models.StringList(req.Options),
		IncludeOther: req.IncludeOther,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, question); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create question")
	}

	if err := s.cache.Invalidate(ctx, questionsCacheKey); err != nil {
		s.logger.Warn("failed to invalidate question cache", zap.Error(err))
	}

	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     actorID,
		Action:     models.AuditActionQuestionCreate,
		Resource:   "question",
		ResourceID: &question.ID,
	}); err != nil {
		s.logger.Warn("failed to record question create audit log", zap.Error(err))
	}

	return question, nil
}

// Delete removes a question and invalidates the cached list.
func (s *QuestionService) Delete(ctx context.Context, id string, actorID *string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete question")
	}

	if err := s.cache.Invalidate(ctx, questionsCacheKey); err != nil {
		s.logger.Warn("failed to invalidate question cache", zap.Error(err))
	}

	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     actorID,
		Action:     models.AuditActionQuestionDelete,
		Resource:   "question",
		ResourceID: &id,
	}); err != nil {
		s.logger.Warn("failed to record question delete audit log", zap.Error(err))
	}

	return nil
}
