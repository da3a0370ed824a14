package dto

import "github.com/grdlib/feedback-api/internal/models"

// SubmitFeedbackRequest carries a completed feedback form. StartTime is
// the Unix timestamp (seconds) at which the form was loaded.
type SubmitFeedbackRequest struct {
	Feedback  []models.FeedbackAnswer `json:"feedback" validate:"required,min=1"`
	StartTime int64                   `json:"start_time"`
}

// SubmitFeedbackResponse confirms a stored submission.
type SubmitFeedbackResponse struct {
	Message       string   `json:"message"`
	TimeTaken     *float64 `json:"time_taken,omitempty"`
	IssuePresence bool     `json:"issue_presence"`
}

// CreateQuestionRequest registers a new feedback question.
type CreateQuestionRequest struct {
	Question     string   `json:"question" validate:"required"`
	Options      []string `json:"options" validate:"required,min=2"`
	IncludeOther bool     `json:"include_other"`
}
