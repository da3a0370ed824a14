package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/grdlib/feedback-api/internal/dto"
	"github.com/grdlib/feedback-api/internal/models"
	"github.com/grdlib/feedback-api/internal/service"
	appErrors "github.com/grdlib/feedback-api/pkg/errors"
	"github.com/grdlib/feedback-api/pkg/response"
	"github.com/grdlib/feedback-api/pkg/timewindow"
)

// FeedbackHandler wires the submission and admin search endpoints.
type FeedbackHandler struct {
	service *service.FeedbackService
}

// NewFeedbackHandler creates a new handler.
func NewFeedbackHandler(svc *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: svc}
}

// Submit godoc
// @Summary Submit feedback
// @Description Stores a completed feedback form for the authenticated user
// @Tags Feedback
// @Accept json
// @Produce json
// @Param payload body dto.SubmitFeedbackRequest true "Feedback payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /feedback [post]
func (h *FeedbackHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid feedback payload"))
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), claims.Email, claims.RollNo, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// List godoc
// @Summary List feedback submissions
// @Description Returns every stored submission, newest first
// @Tags Feedback
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/feedback [get]
func (h *FeedbackHandler) List(c *gin.Context) {
	submissions, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submissions, nil)
}

// Search godoc
// @Summary Search feedback submissions
// @Description Search submissions by roll number or answer keyword with optional date bounds
// @Tags Feedback
// @Produce json
// @Param q query string false "Search query"
// @Param field query string false "Search field (roll_no or keyword)"
// @Param start_date query string false "Inclusive start day (YYYY-MM-DD)"
// @Param end_date query string false "Inclusive end day (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/feedback/search [get]
func (h *FeedbackHandler) Search(c *gin.Context) {
	filter := models.FeedbackSearchFilter{
		Query: c.Query("q"),
		Field: c.Query("field"),
	}

	if raw := c.Query("start_date"); raw != "" {
		start, err := time.ParseInLocation(timewindow.DayKeyFormat, raw, time.UTC)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "start_date must be YYYY-MM-DD"))
			return
		}
		filter.StartDate = &start
	}
	if raw := c.Query("end_date"); raw != "" {
		end, err := time.ParseInLocation(timewindow.DayKeyFormat, raw, time.UTC)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "end_date must be YYYY-MM-DD"))
			return
		}
		// End bound covers the whole day.
		end = end.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}

	submissions, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submissions, nil)
}
