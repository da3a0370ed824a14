package models

import "time"

// IssueStatus enumerates the lifecycle states of a reported issue.
// The vocabulary is canonical uppercase; RESOLVED is terminal.
type IssueStatus string

const (
	IssuePending   IssueStatus = "PENDING"
	IssueResolving IssueStatus = "RESOLVING"
	IssueSuspended IssueStatus = "SUSPENDED"
	IssueResolved  IssueStatus = "RESOLVED"
)

// ParseIssueStatus validates a raw status value.
func ParseIssueStatus(raw string) (IssueStatus, bool) {
	switch IssueStatus(raw) {
	case IssuePending, IssueResolving, IssueSuspended, IssueResolved:
		return IssueStatus(raw), true
	}
	return "", false
}

// IsTerminal reports whether no further transitions are permitted.
func (s IssueStatus) IsTerminal() bool {
	return s == IssueResolved
}

// CanTransitionTo reports whether a transition from s to target is legal.
// Any non-terminal state may move to any of the other three states.
func (s IssueStatus) CanTransitionTo(target IssueStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if _, ok := ParseIssueStatus(string(target)); !ok {
		return false
	}
	return target != s
}

// Issue represents a reported problem extracted from a feedback submission.
// IssueRaiseDate is set at creation and never changes.
type Issue struct {
	ID             string      `db:"id" json:"id"`
	RaisedBy       string      `db:"raised_by" json:"raised_by"`
	RollNo         string      `db:"roll_no" json:"roll_no"`
	Issue          string      `db:"issue" json:"issue"`
	Category       string      `db:"category" json:"category"`
	Status         IssueStatus `db:"status" json:"status"`
	UserScore      float64     `db:"user_score" json:"user_score"`
	IssueRaiseDate time.Time   `db:"issue_raise_date" json:"issue_raise_date"`
	ResolvedDate   *time.Time  `db:"resolved_date" json:"resolved_date,omitempty"`
}

// IssueFilter captures optional predicates for listing issues. Empty
// fields match everything.
type IssueFilter struct {
	Status   string
	Category string
	Query    string
}

// IssueCounts summarises issues by named status buckets. SUSPENDED and
// RESOLVING issues contribute to Total only.
type IssueCounts struct {
	Total    int `db:"total" json:"total"`
	Resolved int `db:"resolved" json:"resolved"`
	Pending  int `db:"pending" json:"pending"`
}

// CategoryCount is one row of the per-category distribution.
type CategoryCount struct {
	Category string `db:"category" json:"category"`
	Count    int    `db:"count" json:"count"`
}
