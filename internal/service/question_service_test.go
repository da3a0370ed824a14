package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grdlib/feedback-api/internal/dto"
	"github.com/grdlib/feedback-api/internal/models"
	appErrors "github.com/grdlib/feedback-api/pkg/errors"
)

type questionRepoStub struct {
	questions []models.FeedbackQuestion
	created   []*models.FeedbackQuestion
	deleteErr error
}

func (s *questionRepoStub) List(ctx context.Context) ([]models.FeedbackQuestion, error) {
	return s.questions, nil
}

func (s *questionRepoStub) Create(ctx context.Context, question *models.FeedbackQuestion) error {
	s.created = append(s.created, question)
	return nil
}

func (s *questionRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteErr
}

func TestQuestionServiceCreate(t *testing.T) {
	repo := &questionRepoStub{}
	audit := &auditStub{}
	svc := NewQuestionService(repo, audit, nil, 10*time.Minute, validator.New(), nil)

	question, err := svc.Create(context.Background(), dto.CreateQuestionRequest{
		Question:     "How often do you visit the library?",
		Options:      []string{"Daily", "Weekly", "Rarely"},
		IncludeOther: true,
	}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, question.ID)
	assert.Equal(t, models.StringList{"Daily", "Weekly", "Rarely"}, question.Options)
	require.Len(t, repo.created, 1)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionQuestionCreate, audit.logs[0].Action)
}

func TestQuestionServiceCreateRequiresTwoOptions(t *testing.T) {
	repo := &questionRepoStub{}
	svc := NewQuestionService(repo, &auditStub{}, nil, 0, validator.New(), nil)

	_, err := svc.Create(context.Background(), dto.CreateQuestionRequest{
		Question: "Only one option?",
		Options:  []string{"Yes"},
	}, nil)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Empty(t, repo.created)
}

func TestQuestionServiceDeleteMissing(t *testing.T) {
	repo := &questionRepoStub{deleteErr: sql.ErrNoRows}
	svc := NewQuestionService(repo, &auditStub{}, nil, 0, nil, nil)

	err := svc.Delete(context.Background(), "missing", nil)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestQuestionServiceList(t *testing.T) {
	repo := &questionRepoStub{questions: []models.FeedbackQuestion{
		{ID: "q1", Question: "How clean is the floor?", Options: models.StringList{"Good", "Poor"}},
	}}
	svc := NewQuestionService(repo, &auditStub{}, nil, 0, nil, nil)

	questions, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "q1", questions[0].ID)
}
