package service

import "strings"

// IssueCategory maps a category name to the keywords that select it.
type IssueCategory struct {
	Name     string
	Keywords []string
}

// Classifier detects whether free-text feedback describes an issue and
// assigns the best-matching category by keyword count.
type Classifier struct {
	categories    []IssueCategory
	fallback      string
	issueKeywords []string
}

// DefaultCategories returns the built-in library category table.
func DefaultCategories() []IssueCategory {
	return []IssueCategory{
		{Name: "Infrastructure", Keywords: []string{"ac", "air conditioning", "fan", "chair", "table", "light", "lighting", "power", "plug", "socket", "lift", "toilet", "restroom", "water"}},
		{Name: "Books & Resources", Keywords: []string{"book", "books", "journal", "magazine", "shelf", "rack", "edition", "copy", "copies", "reference"}},
		{Name: "Equipment & Network", Keywords: []string{"computer", "system", "printer", "scanner", "wifi", "wi-fi", "internet", "network", "login", "portal"}},
		{Name: "Staff & Service", Keywords: []string{"staff", "librarian", "service", "rude", "helpful", "counter", "desk", "timing", "hours"}},
		{Name: "Cleanliness & Ambience", Keywords: []string{"clean", "dust", "dirty", "noise", "noisy", "silence", "smell", "crowd", "crowded"}},
	}
}

// NewClassifier builds a classifier over the given categories. Nil or
// empty categories fall back to the defaults.
func NewClassifier(categories []IssueCategory) *Classifier {
	if len(categories) == 0 {
		categories = DefaultCategories()
	}
	return &Classifier{
		categories: categories,
		fallback:   "Other Issues",
		issueKeywords: []string{
			"problem", "issue", "error", "fix", "broken",
			"not working", "improve", "complaint", "fail",
			"slow", "missing", "bad", "poor", "worst",
		},
	}
}

// IsIssue reports whether the text looks like a problem report rather
// than a compliment or neutral remark.
func (c *Classifier) IsIssue(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range c.issueKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Categorize returns the category whose keywords match the text most
// often, or the fallback category when nothing matches. Ties resolve to
// the category listed first.
func (c *Classifier) Categorize(text string) string {
	lower := strings.ToLower(text)
	best := c.fallback
	bestScore := 0
	for _, cat := range c.categories {
		score := 0
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				score++
			}
		}
		if score > bestScore {
			best = cat.Name
			bestScore = score
		}
	}
	return best
}
