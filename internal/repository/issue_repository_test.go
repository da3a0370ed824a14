package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grdlib/feedback-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func issueRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "raised_by", "roll_no", "issue", "category", "status", "user_score", "issue_raise_date", "resolved_date"})
}

func TestIssueRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewIssueRepository(db)

	rows := issueRows().
		AddRow("i1", "Asha", "21PT01", "AC not working", "infrastructure", "PENDING", 3, time.Now(), nil)
	mock.ExpectQuery("SELECT (.+) FROM issues ORDER BY issue_raise_date DESC").
		WillReturnRows(rows)

	issues, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, issues, 1)
	assert.Equal(t, models.IssuePending, issues[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueRepositoryFilter(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewIssueRepository(db)

	rows := issueRows().
		AddRow("i2", "Ravi", "21PT02", "Printer jam", "equipment", "RESOLVING", 2, time.Now(), nil)
	mock.ExpectQuery("SELECT (.+) FROM issues WHERE 1=1 AND status = \\$1 AND \\(raised_by ILIKE \\$2 OR roll_no ILIKE \\$2\\)").
		WithArgs("RESOLVING", "%21PT%").
		WillReturnRows(rows)

	issues, err := repo.Filter(context.Background(), models.IssueFilter{Status: "RESOLVING", Query: "21PT"})
	require.NoError(t, err)
	assert.Len(t, issues, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewIssueRepository(db)

	now := time.Now().UTC()
	rows := issueRows().
		AddRow("i1", "Asha", "21PT01", "AC not working", "infrastructure", "RESOLVED", 3, now.Add(-48*time.Hour), now)
	mock.ExpectQuery("UPDATE issues").
		WithArgs("i1", models.IssueResolved, now).
		WillReturnRows(rows)

	issue, err := repo.UpdateStatus(context.Background(), "i1", models.IssueResolved, now)
	require.NoError(t, err)
	assert.Equal(t, models.IssueResolved, issue.Status)
	require.NotNil(t, issue.ResolvedDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueRepositoryUpdateStatusNoRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewIssueRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery("UPDATE issues").
		WithArgs("missing", models.IssueSuspended, now).
		WillReturnRows(issueRows())

	_, err := repo.UpdateStatus(context.Background(), "missing", models.IssueSuspended, now)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueRepositoryCounts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewIssueRepository(db)

	rows := sqlmock.NewRows([]string{"total", "resolved", "pending"}).AddRow(10, 4, 5)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) AS total").WillReturnRows(rows)

	counts, err := repo.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.IssueCounts{Total: 10, Resolved: 4, Pending: 5}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueRepositoryCategoryCounts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewIssueRepository(db)

	rows := sqlmock.NewRows([]string{"category", "count"}).
		AddRow("infrastructure", 6).
		AddRow("books", 2)
	mock.ExpectQuery("SELECT category, COUNT\\(\\*\\) AS count FROM issues GROUP BY category").
		WillReturnRows(rows)

	counts, err := repo.CategoryCounts(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "infrastructure", counts[0].Category)
	assert.Equal(t, 6, counts[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewIssueRepository(db)

	mock.ExpectExec("INSERT INTO issues").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), &models.Issue{
		ID:             "i9",
		RaisedBy:       "Asha",
		RollNo:         "21PT01",
		Issue:          "No chairs on floor three",
		Category:       "infrastructure",
		Status:         models.IssuePending,
		UserScore:      3,
		IssueRaiseDate: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
