package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grdlib/feedback-api/internal/service"
	"github.com/grdlib/feedback-api/pkg/response"
)

// ReportHandler streams rendered exports to the client.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler creates a new handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Feedback godoc
// @Summary Export feedback report
// @Description Renders every submission as CSV or PDF
// @Tags Reports
// @Produce octet-stream
// @Param format query string false "Report format (csv or pdf)"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /admin/reports/feedback [get]
func (h *ReportHandler) Feedback(c *gin.Context) {
	report, err := h.service.FeedbackReport(c.Request.Context(), c.DefaultQuery("format", service.ReportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.stream(c, report)
}

// Issues godoc
// @Summary Export issue report
// @Description Renders every issue as CSV or PDF
// @Tags Reports
// @Produce octet-stream
// @Param format query string false "Report format (csv or pdf)"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /admin/reports/issues [get]
func (h *ReportHandler) Issues(c *gin.Context) {
	report, err := h.service.IssueReport(c.Request.Context(), c.DefaultQuery("format", service.ReportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.stream(c, report)
}

func (h *ReportHandler) stream(c *gin.Context, report *service.Report) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	c.Data(http.StatusOK, report.ContentType, report.Payload)
}
