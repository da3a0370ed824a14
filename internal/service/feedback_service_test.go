package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grdlib/feedback-api/internal/dto"
	"github.com/grdlib/feedback-api/internal/models"
	"github.com/grdlib/feedback-api/pkg/config"
	appErrors "github.com/grdlib/feedback-api/pkg/errors"
)

type feedbackRepoStub struct {
	inserted    []*models.FeedbackSubmission
	listResult  []models.FeedbackSubmission
	searchCalls []models.FeedbackSearchFilter
}

func (s *feedbackRepoStub) Insert(ctx context.Context, submission *models.FeedbackSubmission) error {
	s.inserted = append(s.inserted, submission)
	return nil
}

func (s *feedbackRepoStub) List(ctx context.Context) ([]models.FeedbackSubmission, error) {
	return s.listResult, nil
}

func (s *feedbackRepoStub) Search(ctx context.Context, filter models.FeedbackSearchFilter) ([]models.FeedbackSubmission, error) {
	s.searchCalls = append(s.searchCalls, filter)
	return []models.FeedbackSubmission{}, nil
}

type feedbackUserRepoStub struct {
	user             *models.User
	lastFeedbackSets []time.Time
}

func (s *feedbackUserRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil {
		return nil, sql.ErrNoRows
	}
	return s.user, nil
}

func (s *feedbackUserRepoStub) UpdateLastFeedback(ctx context.Context, id string, ts time.Time) error {
	s.lastFeedbackSets = append(s.lastFeedbackSets, ts)
	return nil
}

func newFeedbackService(repo *feedbackRepoStub, users *feedbackUserRepoStub, issues *issueRepoStub) *FeedbackService {
	cfg := config.FeedbackConfig{
		AllowedEmailDomain: "psgtech.ac.in",
		ResubmitWindow:     720 * time.Hour,
		FloorNo:            3,
	}
	return NewFeedbackService(repo, users, issues, nil, nil, nil, nil, nil, cfg)
}

func TestFeedbackServiceSubmitRaisesIssue(t *testing.T) {
	repo := &feedbackRepoStub{}
	users := &feedbackUserRepoStub{user: &models.User{ID: "u1", Email: "21pt01@psgtech.ac.in"}}
	issues := &issueRepoStub{}
	svc := newFeedbackService(repo, users, issues)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc.now = fixedClock(now)

	resp, err := svc.Submit(context.Background(), "21pt01@psgtech.ac.in", "21PT01", dto.SubmitFeedbackRequest{
		Feedback: []models.FeedbackAnswer{
			{Question: "How clean is the floor?", Answer: "Good"},
			{Question: "Anything else?", Answer: "The printer is broken and the wifi is not working"},
		},
		StartTime: now.Add(-90 * time.Second).Unix(),
	})
	require.NoError(t, err)
	assert.True(t, resp.IssuePresence)
	require.NotNil(t, resp.TimeTaken)
	assert.InDelta(t, 90, *resp.TimeTaken, 0.5)

	require.Len(t, issues.createdIssues, 1)
	issue := issues.createdIssues[0]
	assert.Equal(t, models.IssuePending, issue.Status)
	assert.Equal(t, "Equipment & Network", issue.Category)
	assert.Equal(t, "21pt01@psgtech.ac.in", issue.RaisedBy)
	assert.Equal(t, now, issue.IssueRaiseDate)

	require.Len(t, repo.inserted, 1)
	assert.True(t, repo.inserted[0].IssuePresence)
	assert.Equal(t, 3, repo.inserted[0].FloorNo)
	require.Len(t, users.lastFeedbackSets, 1)
}

func TestFeedbackServiceSubmitWithoutIssue(t *testing.T) {
	repo := &feedbackRepoStub{}
	issues := &issueRepoStub{}
	svc := newFeedbackService(repo, &feedbackUserRepoStub{}, issues)

	resp, err := svc.Submit(context.Background(), "21pt02@psgtech.ac.in", "21PT02", dto.SubmitFeedbackRequest{
		Feedback: []models.FeedbackAnswer{
			{Question: "Anything else?", Answer: "Everything was great, thank you"},
		},
	})
	require.NoError(t, err)
	assert.False(t, resp.IssuePresence)
	assert.Empty(t, issues.createdIssues)
	require.Len(t, repo.inserted, 1)
	assert.Nil(t, repo.inserted[0].TimeTakenSeconds)
}

func TestFeedbackServiceSubmitResubmissionGuard(t *testing.T) {
	recent := time.Now().UTC().Add(-24 * time.Hour)
	users := &feedbackUserRepoStub{user: &models.User{ID: "u1", LastFeedback: &recent}}
	repo := &feedbackRepoStub{}
	svc := newFeedbackService(repo, users, &issueRepoStub{})

	_, err := svc.Submit(context.Background(), "21pt01@psgtech.ac.in", "21PT01", dto.SubmitFeedbackRequest{
		Feedback: []models.FeedbackAnswer{{Question: "q", Answer: "a"}},
	})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Empty(t, repo.inserted)
}

func TestFeedbackServiceSubmitEmptyForm(t *testing.T) {
	svc := newFeedbackService(&feedbackRepoStub{}, &feedbackUserRepoStub{}, &issueRepoStub{})

	_, err := svc.Submit(context.Background(), "21pt01@psgtech.ac.in", "21PT01", dto.SubmitFeedbackRequest{})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestFeedbackServiceSearchRejectsUnknownField(t *testing.T) {
	repo := &feedbackRepoStub{}
	svc := newFeedbackService(repo, &feedbackUserRepoStub{}, &issueRepoStub{})

	_, err := svc.Search(context.Background(), models.FeedbackSearchFilter{Query: "x", Field: "email"})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Empty(t, repo.searchCalls)
}

func TestFeedbackServiceSearchRejectsInvertedDates(t *testing.T) {
	svc := newFeedbackService(&feedbackRepoStub{}, &feedbackUserRepoStub{}, &issueRepoStub{})

	start := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	_, err := svc.Search(context.Background(), models.FeedbackSearchFilter{
		Query: "21PT", Field: models.FeedbackSearchByRollNo, StartDate: &start, EndDate: &end,
	})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestUserTrustScore(t *testing.T) {
	assert.Equal(t, 1.0, userTrustScore("C1234"))
	assert.Equal(t, 0.5, userTrustScore("21PT01"))
	assert.Equal(t, 0.5, userTrustScore(""))
}
