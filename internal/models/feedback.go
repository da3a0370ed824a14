package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList stores an ordered list of strings as JSONB.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return fmt.Errorf("unsupported StringList source %T", src)
}

// FeedbackQuestion is one admin-configured form question.
type FeedbackQuestion struct {
	ID           string     `db:"id" json:"id"`
	Question     string     `db:"question" json:"question"`
	Options      StringList `db:"options" json:"options"`
	IncludeOther bool       `db:"include_other" json:"include_other"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// FeedbackAnswer pairs a question with the answer given.
type FeedbackAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FeedbackAnswers stores the ordered answer list as JSONB.
type FeedbackAnswers []FeedbackAnswer

// Value implements driver.Valuer.
func (a FeedbackAnswers) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner.
func (a *FeedbackAnswers) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*a = nil
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	}
	return fmt.Errorf("unsupported FeedbackAnswers source %T", src)
}

// FeedbackSubmission is one completed feedback form.
// TimeTakenSeconds is nil when the duration could not be established.
type FeedbackSubmission struct {
	ID               string          `db:"id" json:"id"`
	Email            string          `db:"email" json:"email"`
	RollNo           string          `db:"roll_no" json:"roll_no"`
	Answers          FeedbackAnswers `db:"answers" json:"feedback_answers"`
	SubmittedAt      time.Time       `db:"submitted_at" json:"date"`
	TimeTakenSeconds *float64        `db:"time_taken_seconds" json:"feedback_time_taken,omitempty"`
	FloorNo          int             `db:"floor_no" json:"floor_no"`
	IssuePresence    bool            `db:"issue_presence" json:"issue_presence"`
}

// Feedback search filter fields.
const (
	FeedbackSearchByRollNo  = "roll_no"
	FeedbackSearchByKeyword = "keyword"
)

// FeedbackSearchFilter scopes submission searches.
type FeedbackSearchFilter struct {
	Query     string
	Field     string
	StartDate *time.Time
	EndDate   *time.Time
}
