package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/grdlib/feedback-api/internal/models"
)

// QuestionRepository provides database access for feedback questions.
type QuestionRepository struct {
	db *sqlx.DB
}

// NewQuestionRepository creates a new instance of QuestionRepository.
func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// List returns all questions in creation order.
func (r *QuestionRepository) List(ctx context.Context) ([]models.FeedbackQuestion, error) {
	const query = `SELECT id, question, options, include_other, created_at
		FROM feedback_questions ORDER BY created_at ASC`
	questions := []models.FeedbackQuestion{}
	if err := r.db.SelectContext(ctx, &questions, query); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, question *models.FeedbackQuestion) error {
	const query = `INSERT INTO feedback_questions (id, question, options, include_other, created_at)
		VALUES (:id, :question, :options, :include_other, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, question); err != nil {
		return fmt.Errorf("create question: %w", err)
	}
	return nil
}

// Delete removes a question by id. Returns sql.ErrNoRows when the id is
// unknown.
func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM feedback_questions WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete question rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
