// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"strconv"
	"strings"
	"time"
)

// Uniqueness is the outcome of the duplicate commit identifier check.
// It only detects repeated SHAs in the API listing; it says nothing about
// content similarity or plagiarism.
type Uniqueness string

const (
	UniquenessNoCommits  Uniqueness = "no_commits"
	UniquenessUnique     Uniqueness = "unique"
	UniquenessDuplicates Uniqueness = "duplicates_detected"
)

// Verdict returns the user-facing line for u.
func (u Uniqueness) Verdict() string {
	switch u {
	case UniquenessUnique:
		return "✅ No significant similarities."
	case UniquenessDuplicates:
		return "❌ Similarities detected."
	default:
		return "⚠️ No commits found."
	}
}

// Metrics holds the counts and rates derived from one repository's collections.
type Metrics struct {
	AllIssueCount       int        `json:"all_issue_count"`
	ClosedIssueCount    int        `json:"closed_issue_count"`
	OpenPRCount         int        `json:"open_pr_count"`
	ClosedPRCount       int        `json:"closed_pr_count"`
	MergedPRCount       int        `json:"merged_pr_count"`
	AllPRCount          int        `json:"all_pr_count"`
	TotalCommits        int        `json:"total_commits"`
	IssueResolutionRate float64    `json:"issue_resolution_rate"`
	PRMergeRate         float64    `json:"pr_merge_rate"`
	CodeUniqueness      Uniqueness `json:"code_uniqueness"`
}

// Language is one entry of the repository language breakdown.
type Language struct {
	Name  string  `json:"name"`
	Bytes int     `json:"bytes"`
	Share float64 `json:"share"`
}

// CollectionCoverage records how much of one paginated resource was retrieved.
// Reported is the server-side total when it could be looked up.
type CollectionCoverage struct {
	Fetched  int    `json:"fetched"`
	Complete bool   `json:"complete"`
	Reason   string `json:"reason,omitempty"`
	Reported *int   `json:"reported,omitempty"`
}

// Coverage describes the completeness of every paginated collection in a report.
type Coverage struct {
	ClosedIssues CollectionCoverage `json:"closed_issues"`
	OpenPRs      CollectionCoverage `json:"open_prs"`
	ClosedPRs    CollectionCoverage `json:"closed_prs"`
	Commits      CollectionCoverage `json:"commits"`
}

// Complete reports whether every collection ended naturally.
func (c Coverage) Complete() bool {
	return c.ClosedIssues.Complete && c.OpenPRs.Complete && c.ClosedPRs.Complete && c.Commits.Complete
}

// Report is the full result of analyzing one repository.
type Report struct {
	URL         string             `json:"url"`
	Summary     *RepositorySummary `json:"summary"`
	Metrics     Metrics            `json:"metrics"`
	Score       float64            `json:"authenticity_score"`
	Languages   []Language         `json:"languages"`
	HasReadme   bool               `json:"has_readme"`
	Narrative   string             `json:"narrative"`
	Coverage    Coverage           `json:"coverage"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// LanguageNames returns the comma-joined language list in report order.
func (r *Report) LanguageNames() string {
	names := make([]string, 0, len(r.Languages))
	for _, l := range r.Languages {
		names = append(names, l.Name)
	}
	return strings.Join(names, ", ")
}

// FormatDecimal renders a rate or score with as few digits as needed, e.g.
// 66.67, 12.5 or 0.
func FormatDecimal(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
