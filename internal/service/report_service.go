package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/grdlib/feedback-api/pkg/errors"
	"github.com/grdlib/feedback-api/pkg/export"
)

// Report formats.
const (
	ReportFormatCSV = "csv"
	ReportFormatPDF = "pdf"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// Report is a rendered export ready to stream to the client.
type Report struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ReportService renders the admin exports for feedback and issues.
type ReportService struct {
	feedback feedbackRepository
	issues   issueRepository
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportService constructs a ReportService instance.
func NewReportService(feedback feedbackRepository, issues issueRepository, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ReportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{feedback: feedback, issues: issues, csv: csv, pdf: pdf, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// FeedbackReport renders every stored submission in the given format.
func (s *ReportService) FeedbackReport(ctx context.Context, format string) (*Report, error) {
	submissions, err := s.feedback.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load feedback")
	}

	dataset := export.Dataset{
		Headers: []string{"Roll No", "Email", "Date", "Floor", "Issue Raised", "Time Taken (s)", "Answers"},
	}
	for _, sub := range submissions {
		answers := make([]string, 0, len(sub.Answers))
		for _, a := range sub.Answers {
			answers = append(answers, fmt.Sprintf("%s: %s", a.Question, a.Answer))
		}
		timeTaken := ""
		if sub.TimeTakenSeconds != nil {
			timeTaken = strconv.FormatFloat(*sub.TimeTakenSeconds, 'f', 1, 64)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Roll No":        sub.RollNo,
			"Email":          sub.Email,
			"Date":           sub.SubmittedAt.Format(time.RFC3339),
			"Floor":          strconv.Itoa(sub.FloorNo),
			"Issue Raised":   strconv.FormatBool(sub.IssuePresence),
			"Time Taken (s)": timeTaken,
			"Answers":        strings.Join(answers, " | "),
		})
	}

	return s.render(dataset, "Feedback Submissions", "feedback", format)
}

// IssueReport renders every issue in the given format.
func (s *ReportService) IssueReport(ctx context.Context, format string) (*Report, error) {
	issues, err := s.issues.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load issues")
	}

	dataset := export.Dataset{
		Headers: []string{"Raised By", "Roll No", "Issue", "Category", "Status", "Raised At", "Resolved At"},
	}
	for _, issue := range issues {
		resolvedAt := ""
		if issue.ResolvedDate != nil {
			resolvedAt = issue.ResolvedDate.Format(time.RFC3339)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Raised By":   issue.RaisedBy,
			"Roll No":     issue.RollNo,
			"Issue":       issue.Issue,
			"Category":    issue.Category,
			"Status":      string(issue.Status),
			"Raised At":   issue.IssueRaiseDate.Format(time.RFC3339),
			"Resolved At": resolvedAt,
		})
	}

	return s.render(dataset, "Reported Issues", "issues", format)
}

func (s *ReportService) render(dataset export.Dataset, title, prefix, format string) (*Report, error) {
	stamp := s.now().Format("20060102-150405")
	switch strings.ToLower(format) {
	case ReportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &Report{Filename: fmt.Sprintf("%s-%s.csv", prefix, stamp), ContentType: "text/csv", Payload: payload}, nil
	case ReportFormatPDF:
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &Report{Filename: fmt.Sprintf("%s-%s.pdf", prefix, stamp), ContentType: "application/pdf", Payload: payload}, nil
	}
	return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported report format %q", format))
}
