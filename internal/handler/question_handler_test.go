package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grdlib/feedback-api/internal/middleware"
	"github.com/grdlib/feedback-api/internal/models"
	"github.com/grdlib/feedback-api/internal/service"
)

type questionRepoMock struct {
	questions []models.FeedbackQuestion
}

func (m *questionRepoMock) List(ctx context.Context) ([]models.FeedbackQuestion, error) {
	return m.questions, nil
}

func (m *questionRepoMock) Create(ctx context.Context, question *models.FeedbackQuestion) error {
	m.questions = append(m.questions, *question)
	return nil
}

func (m *questionRepoMock) Delete(ctx context.Context, id string) error {
	for i, q := range m.questions {
		if q.ID == id {
			m.questions = append(m.questions[:i], m.questions[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func newQuestionHandler(repo *questionRepoMock) *QuestionHandler {
	return NewQuestionHandler(service.NewQuestionService(repo, auditMock{}, nil, 0, nil, nil))
}

func TestQuestionHandlerList(t *testing.T) {
	repo := &questionRepoMock{questions: []models.FeedbackQuestion{
		{ID: "q1", Question: "How was the ambience?", Options: models.StringList{"Good", "Bad"}},
	}}
	handler := newQuestionHandler(repo)

	c, w := newTestContext(t, http.MethodGet, "/questions", nil)
	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.FeedbackQuestion `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "q1", envelope.Data[0].ID)
}

func TestQuestionHandlerCreate(t *testing.T) {
	repo := &questionRepoMock{}
	handler := newQuestionHandler(repo)

	body := []byte(`{"question":"How noisy is the floor?","options":["Quiet","Loud"],"include_other":true}`)
	c, w := newTestContext(t, http.MethodPost, "/admin/questions", body)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.questions, 1)
	assert.True(t, repo.questions[0].IncludeOther)
}

func TestQuestionHandlerCreateTooFewOptions(t *testing.T) {
	repo := &questionRepoMock{}
	handler := newQuestionHandler(repo)

	body := []byte(`{"question":"How noisy is the floor?","options":["Quiet"]}`)
	c, w := newTestContext(t, http.MethodPost, "/admin/questions", body)

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, repo.questions)
}

func TestQuestionHandlerDeleteMissing(t *testing.T) {
	handler := newQuestionHandler(&questionRepoMock{})

	c, w := newTestContext(t, http.MethodDelete, "/admin/questions/q9", nil)
	c.Params = gin.Params{{Key: "id", Value: "q9"}}

	handler.Delete(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQuestionHandlerDelete(t *testing.T) {
	repo := &questionRepoMock{questions: []models.FeedbackQuestion{{ID: "q1"}}}
	handler := newQuestionHandler(repo)

	c, w := newTestContext(t, http.MethodDelete, "/admin/questions/q1", nil)
	c.Params = gin.Params{{Key: "id", Value: "q1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})

	handler.Delete(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, repo.questions)
}
