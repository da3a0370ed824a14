package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grdlib/feedback-api/internal/dto"
	"github.com/grdlib/feedback-api/internal/service"
	appErrors "github.com/grdlib/feedback-api/pkg/errors"
	"github.com/grdlib/feedback-api/pkg/response"
)

// QuestionHandler wires the feedback question endpoints.
type QuestionHandler struct {
	service *service.QuestionService
}

// NewQuestionHandler creates a new handler.
func NewQuestionHandler(svc *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{service: svc}
}

// List godoc
// @Summary List feedback questions
// @Description Returns the active feedback form questions
// @Tags Questions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /questions [get]
func (h *QuestionHandler) List(c *gin.Context) {
	questions, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, questions, nil)
}

// Create godoc
// @Summary Add a feedback question
// @Description Registers a new question on the feedback form
// @Tags Questions
// @Accept json
// @Produce json
// @Param payload body dto.CreateQuestionRequest true "Question payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/questions [post]
func (h *QuestionHandler) Create(c *gin.Context) {
	var req dto.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid question payload"))
		return
	}

	question, err := h.service.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, question)
}

// Delete godoc
// @Summary Delete a feedback question
// @Description Removes a question from the feedback form
// @Tags Questions
// @Produce json
// @Param id path string true "Question ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/questions/{id} [delete]
func (h *QuestionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
