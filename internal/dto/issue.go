package dto

// ChangeIssueStatusRequest asks for a status transition on one issue.
type ChangeIssueStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CategoryShare is one category slice of the distribution, with its
// percentage of the total. Percentages are 0 for every category when
// there are no issues at all.
type CategoryShare struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// CategoryDistributionResponse returns the per-category breakdown.
type CategoryDistributionResponse struct {
	Total      int             `json:"total"`
	Categories []CategoryShare `json:"categories"`
}
