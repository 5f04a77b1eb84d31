package domain

import "time"

// RepositorySummary is the snapshot returned by the repository endpoint.
type RepositorySummary struct {
	Owner       string     `json:"owner"`
	Name        string     `json:"name"`
	FullName    string     `json:"full_name"`
	HTMLURL     string     `json:"html_url"`
	Description string     `json:"description,omitempty"`
	Stars       int        `json:"stars"`
	Forks       int        `json:"forks"`
	OpenIssues  int        `json:"open_issues"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	PushedAt    *time.Time `json:"pushed_at,omitempty"`
}

// IssueRecord is one entry of the closed issues listing.
type IssueRecord struct {
	Number int
}

// PullRequestRecord is one entry of a pull request listing.
type PullRequestRecord struct {
	Number   int
	State    string
	MergedAt *time.Time
}

// Merged reports whether the pull request carries a merge timestamp.
func (p PullRequestRecord) Merged() bool {
	return p.MergedAt != nil
}

// CommitRecord is one entry of the commit history listing.
type CommitRecord struct {
	SHA string
}

// RepositoryTotals are the collection sizes GitHub reports server-side.
type RepositoryTotals struct {
	OpenPRs   int
	ClosedPRs int
	Commits   int
}
