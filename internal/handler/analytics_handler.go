package handler

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/grdlib/feedback-api/internal/service"
	appErrors "github.com/grdlib/feedback-api/pkg/errors"
	"github.com/grdlib/feedback-api/pkg/response"
)

// AnalyticsHandler wires the rolling-window rate endpoints.
type AnalyticsHandler struct {
	service     *service.AnalyticsService
	defaultDays int
}

// NewAnalyticsHandler creates a new handler.
func NewAnalyticsHandler(svc *service.AnalyticsService, defaultDays int) *AnalyticsHandler {
	if defaultDays <= 0 {
		defaultDays = 5
	}
	return &AnalyticsHandler{service: svc, defaultDays: defaultDays}
}

// DailyCounts godoc
// @Summary Daily event counts
// @Description Per-day event counts over the trailing window, oldest day first
// @Tags Analytics
// @Produce json
// @Param event query string true "Event type (feedback or login)"
// @Param days query int false "Window length in days"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/analytics/daily [get]
func (h *AnalyticsHandler) DailyCounts(c *gin.Context) {
	days, err := h.windowDays(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.service.DailyCounts(c.Request.Context(), c.Query("event"), days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Rate godoc
// @Summary Average daily event rate
// @Description Average events per day over the trailing window
// @Tags Analytics
// @Produce json
// @Param event query string true "Event type (feedback or login)"
// @Param days query int false "Window length in days"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/analytics/rate [get]
func (h *AnalyticsHandler) Rate(c *gin.Context) {
	days, err := h.windowDays(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.service.Rate(c.Request.Context(), c.Query("event"), days)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Display rounding only; the service keeps full precision.
	resp.Rate = math.Round(resp.Rate*100) / 100
	response.JSON(c, http.StatusOK, resp, nil)
}

func (h *AnalyticsHandler) windowDays(c *gin.Context) (int, error) {
	raw := c.Query("days")
	if raw == "" {
		return h.defaultDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "days must be an integer")
	}
	return days, nil
}
