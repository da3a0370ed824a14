package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grdlib/feedback-api/internal/dto"
	"github.com/grdlib/feedback-api/internal/models"
	"github.com/grdlib/feedback-api/internal/service"
	appErrors "github.com/grdlib/feedback-api/pkg/errors"
	"github.com/grdlib/feedback-api/pkg/response"
)

// IssueHandler wires HTTP endpoints to the issue service.
type IssueHandler struct {
	service *service.IssueService
}

// NewIssueHandler creates a new handler.
func NewIssueHandler(svc *service.IssueService) *IssueHandler {
	return &IssueHandler{service: svc}
}

// List godoc
// @Summary List issues
// @Description Returns every reported issue, newest first
// @Tags Issues
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/issues [get]
func (h *IssueHandler) List(c *gin.Context) {
	issues, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, issues, nil)
}

// Filter godoc
// @Summary Filter issues
// @Description Filter issues by status, category and free-text query
// @Tags Issues
// @Produce json
// @Param status query string false "Issue status"
// @Param category query string false "Issue category"
// @Param q query string false "Match against reporter or roll number"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/issues/filter [get]
func (h *IssueHandler) Filter(c *gin.Context) {
	filter := models.IssueFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Query:    c.Query("q"),
	}

	issues, err := h.service.Filter(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, issues, nil)
}

// ChangeStatus godoc
// @Summary Change issue status
// @Description Move an issue to a new lifecycle status
// @Tags Issues
// @Accept json
// @Produce json
// @Param id path string true "Issue ID"
// @Param payload body dto.ChangeIssueStatusRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/issues/{id}/status [put]
func (h *IssueHandler) ChangeStatus(c *gin.Context) {
	var req dto.ChangeIssueStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	issue, err := h.service.ChangeStatus(c.Request.Context(), c.Param("id"), req.Status, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, issue, nil)
}

// Counts godoc
// @Summary Issue status counts
// @Description Returns total, resolved and pending issue counts
// @Tags Issues
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/issues/counts [get]
func (h *IssueHandler) Counts(c *gin.Context) {
	counts, err := h.service.Counts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, counts, nil)
}

// Categories godoc
// @Summary Issue category distribution
// @Description Returns per-category counts with percentage shares
// @Tags Issues
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/issues/categories [get]
func (h *IssueHandler) Categories(c *gin.Context) {
	dist, err := h.service.CategoryDistribution(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dist, nil)
}
