package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/grdlib/feedback-api/internal/models"
)

const issueColumns = "id, raised_by, roll_no, issue, category, status, user_score, issue_raise_date, resolved_date"

// IssueRepository provides database access for issue records.
type IssueRepository struct {
	db *sqlx.DB
}

// NewIssueRepository creates a new instance of IssueRepository.
func NewIssueRepository(db *sqlx.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

// Create inserts a new issue record.
func (r *IssueRepository) Create(ctx context.Context, issue *models.Issue) error {
	const query = `INSERT INTO issues (id, raised_by, roll_no, issue, category, status, user_score, issue_raise_date, resolved_date)
		VALUES (:id, :raised_by, :roll_no, :issue, :category, :status, :user_score, :issue_raise_date, :resolved_date)`
	if _, err := r.db.NamedExecContext(ctx, query, issue); err != nil {
		return fmt.Errorf("create issue: %w", err)
	}
	return nil
}

// FindByID returns a single issue.
func (r *IssueRepository) FindByID(ctx context.Context, id string) (*models.Issue, error) {
	query := fmt.Sprintf("SELECT %s FROM issues WHERE id = $1 LIMIT 1", issueColumns)
	var issue models.Issue
	if err := r.db.GetContext(ctx, &issue, query, id); err != nil {
		return nil, err
	}
	return &issue, nil
}

// List returns all issues, newest first.
func (r *IssueRepository) List(ctx context.Context) ([]models.Issue, error) {
	query := fmt.Sprintf("SELECT %s FROM issues ORDER BY issue_raise_date DESC", issueColumns)
	issues := []models.Issue{}
	if err := r.db.SelectContext(ctx, &issues, query); err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	return issues, nil
}

// Filter returns issues matching every supplied predicate. Empty filter
// fields match everything; an empty result is not an error.
func (r *IssueRepository) Filter(ctx context.Context, filter models.IssueFilter) ([]models.Issue, error) {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("SELECT %s FROM issues WHERE 1=1", issueColumns))
	var args []interface{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		builder.WriteString(fmt.Sprintf(" AND status = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		builder.WriteString(fmt.Sprintf(" AND category = $%d", len(args)))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		builder.WriteString(fmt.Sprintf(" AND (raised_by ILIKE $%d OR roll_no ILIKE $%d)", len(args), len(args)))
	}
	builder.WriteString(" ORDER BY issue_raise_date DESC")

	issues := []models.Issue{}
	if err := r.db.SelectContext(ctx, &issues, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("filter issues: %w", err)
	}
	return issues, nil
}

// UpdateStatus applies a status transition in a single atomic statement.
// The guards on the current status keep concurrent writers from reviving
// a resolved issue and reject no-op transitions; zero rows means the id
// is unknown or the transition is illegal, which the caller
// disambiguates with FindByID.
func (r *IssueRepository) UpdateStatus(ctx context.Context, id string, target models.IssueStatus, now time.Time) (*models.Issue, error) {
	query := fmt.Sprintf(`UPDATE issues
		SET status = $2, resolved_date = CASE WHEN $2 = 'RESOLVED' THEN $3 ELSE NULL END
		WHERE id = $1 AND status <> 'RESOLVED' AND status <> $2
		RETURNING %s`, issueColumns)
	var issue models.Issue
	if err := r.db.GetContext(ctx, &issue, query, id, target, now); err != nil {
		return nil, err
	}
	return &issue, nil
}

// Counts returns the status summary. SUSPENDED and RESOLVING issues are
// counted in total only.
func (r *IssueRepository) Counts(ctx context.Context) (models.IssueCounts, error) {
	const query = `SELECT COUNT(*) AS total,
		COUNT(*) FILTER (WHERE status = 'RESOLVED') AS resolved,
		COUNT(*) FILTER (WHERE status = 'PENDING') AS pending
		FROM issues`
	var counts models.IssueCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return models.IssueCounts{}, fmt.Errorf("count issues: %w", err)
	}
	return counts, nil
}

// CategoryCounts returns the number of issues per category.
func (r *IssueRepository) CategoryCounts(ctx context.Context) ([]models.CategoryCount, error) {
	const query = `SELECT category, COUNT(*) AS count FROM issues GROUP BY category ORDER BY count DESC, category ASC`
	counts := []models.CategoryCount{}
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count issues by category: %w", err)
	}
	return counts, nil
}
