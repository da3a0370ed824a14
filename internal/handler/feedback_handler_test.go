package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grdlib/feedback-api/internal/middleware"
	"github.com/grdlib/feedback-api/internal/models"
	"github.com/grdlib/feedback-api/internal/service"
	"github.com/grdlib/feedback-api/pkg/config"
)

type feedbackRepoMock struct {
	submissions  []models.FeedbackSubmission
	searchFilter *models.FeedbackSearchFilter
}

func (m *feedbackRepoMock) Insert(ctx context.Context, submission *models.FeedbackSubmission) error {
	m.submissions = append(m.submissions, *submission)
	return nil
}

func (m *feedbackRepoMock) List(ctx context.Context) ([]models.FeedbackSubmission, error) {
	return m.submissions, nil
}

func (m *feedbackRepoMock) Search(ctx context.Context, filter models.FeedbackSearchFilter) ([]models.FeedbackSubmission, error) {
	m.searchFilter = &filter
	return m.submissions, nil
}

type feedbackUserRepoMock struct {
	user *models.User
}

func (m *feedbackUserRepoMock) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.user == nil {
		return nil, nil
	}
	return m.user, nil
}

func (m *feedbackUserRepoMock) UpdateLastFeedback(ctx context.Context, id string, ts time.Time) error {
	return nil
}

func newFeedbackHandler(repo *feedbackRepoMock) *FeedbackHandler {
	svc := service.NewFeedbackService(repo, &feedbackUserRepoMock{}, &issueRepoMock{}, nil, nil, nil, nil, nil, config.FeedbackConfig{FloorNo: 3})
	return NewFeedbackHandler(svc)
}

func TestFeedbackHandlerSubmitWithoutClaims(t *testing.T) {
	handler := newFeedbackHandler(&feedbackRepoMock{})

	c, w := newTestContext(t, http.MethodPost, "/feedback", []byte(`{}`))
	handler.Submit(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFeedbackHandlerSubmitInvalidBody(t *testing.T) {
	handler := newFeedbackHandler(&feedbackRepoMock{})

	c, w := newTestContext(t, http.MethodPost, "/feedback", []byte(`not json`))
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Email: "21pt01@psgtech.ac.in", RollNo: "21PT01"})
	handler.Submit(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFeedbackHandlerSubmit(t *testing.T) {
	repo := &feedbackRepoMock{}
	handler := newFeedbackHandler(repo)

	body := []byte(`{"feedback":[{"question":"How was the ambience?","answer":"Good"},{"question":"Anything else?","answer":"All fine"}]}`)
	c, w := newTestContext(t, http.MethodPost, "/feedback", body)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Email: "21pt01@psgtech.ac.in", RollNo: "21PT01"})

	handler.Submit(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, repo.submissions, 1)
	assert.Equal(t, "21PT01", repo.submissions[0].RollNo)
	assert.Equal(t, 3, repo.submissions[0].FloorNo)
}

func TestFeedbackHandlerSearchBadStartDate(t *testing.T) {
	handler := newFeedbackHandler(&feedbackRepoMock{})

	c, w := newTestContext(t, http.MethodGet, "/admin/feedback/search?q=21PT&field=roll_no&start_date=yesterday", nil)
	handler.Search(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFeedbackHandlerSearchDateBounds(t *testing.T) {
	repo := &feedbackRepoMock{}
	handler := newFeedbackHandler(repo)

	c, w := newTestContext(t, http.MethodGet, "/admin/feedback/search?q=wifi&field=keyword&start_date=2026-08-01&end_date=2026-08-31", nil)
	handler.Search(c)
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, repo.searchFilter)
	require.NotNil(t, repo.searchFilter.StartDate)
	require.NotNil(t, repo.searchFilter.EndDate)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), *repo.searchFilter.StartDate)
	assert.True(t, repo.searchFilter.EndDate.After(time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)))
}

func TestFeedbackHandlerList(t *testing.T) {
	repo := &feedbackRepoMock{submissions: []models.FeedbackSubmission{{ID: "f1", RollNo: "21PT01"}}}
	handler := newFeedbackHandler(repo)

	c, w := newTestContext(t, http.MethodGet, "/admin/feedback", nil)
	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.FeedbackSubmission `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "21PT01", envelope.Data[0].RollNo)
}
