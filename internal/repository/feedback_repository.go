package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/grdlib/feedback-api/internal/models"
)

const feedbackColumns = "id, email, roll_no, answers, submitted_at, time_taken_seconds, floor_no, issue_presence"

// FeedbackRepository provides database access for feedback submissions.
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository creates a new instance of FeedbackRepository.
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Insert stores a submission.
func (r *FeedbackRepository) Insert(ctx context.Context, submission *models.FeedbackSubmission) error {
	const query = `INSERT INTO feedback_submissions (id, email, roll_no, answers, submitted_at, time_taken_seconds, floor_no, issue_presence)
		VALUES (:id, :email, :roll_no, :answers, :submitted_at, :time_taken_seconds, :floor_no, :issue_presence)`
	if _, err := r.db.NamedExecContext(ctx, query, submission); err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

// List returns all submissions, newest first.
func (r *FeedbackRepository) List(ctx context.Context) ([]models.FeedbackSubmission, error) {
	query := fmt.Sprintf("SELECT %s FROM feedback_submissions ORDER BY submitted_at DESC", feedbackColumns)
	submissions := []models.FeedbackSubmission{}
	if err := r.db.SelectContext(ctx, &submissions, query); err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return submissions, nil
}

// Search returns submissions matching the filter. Roll number searches
// match the stored roll number; keyword searches match answer text.
func (r *FeedbackRepository) Search(ctx context.Context, filter models.FeedbackSearchFilter) ([]models.FeedbackSubmission, error) {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("SELECT %s FROM feedback_submissions WHERE 1=1", feedbackColumns))
	var args []interface{}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		switch filter.Field {
		case models.FeedbackSearchByKeyword:
			builder.WriteString(fmt.Sprintf(" AND EXISTS (SELECT 1 FROM jsonb_array_elements(answers) AS a WHERE a->>'answer' ILIKE $%d)", len(args)))
		default:
			builder.WriteString(fmt.Sprintf(" AND roll_no ILIKE $%d", len(args)))
		}
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		builder.WriteString(fmt.Sprintf(" AND submitted_at >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		builder.WriteString(fmt.Sprintf(" AND submitted_at <= $%d", len(args)))
	}
	builder.WriteString(" ORDER BY submitted_at DESC")

	submissions := []models.FeedbackSubmission{}
	if err := r.db.SelectContext(ctx, &submissions, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("search feedback: %w", err)
	}
	return submissions, nil
}
