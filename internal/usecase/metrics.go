// Package usecase contains the business logic of the application.
package usecase

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/gitclawd/internal/domain"
)

// Aggregate derives counts and rates from the summary and the fetched collections.
// Partial collections are counted as they are; the open issue count from the
// summary and the closed issue listing are summed without reconciliation.
func Aggregate(
	summary *domain.RepositorySummary,
	closedIssues domain.Collection[domain.IssueRecord],
	openPRs, closedPRs domain.Collection[domain.PullRequestRecord],
	commits domain.Collection[domain.CommitRecord],
) domain.Metrics {
	m := domain.Metrics{
		ClosedIssueCount: closedIssues.Len(),
		OpenPRCount:      openPRs.Len(),
		ClosedPRCount:    closedPRs.Len(),
		TotalCommits:     commits.Len(),
	}
	m.AllIssueCount = summary.OpenIssues + m.ClosedIssueCount
	m.AllPRCount = m.OpenPRCount + m.ClosedPRCount
	m.MergedPRCount = countMerged(openPRs.Items) + countMerged(closedPRs.Items)

	m.IssueResolutionRate = percentage(m.ClosedIssueCount, m.AllIssueCount)
	m.PRMergeRate = percentage(m.MergedPRCount, m.AllPRCount)
	m.CodeUniqueness = CodeUniqueness(commits.Items)
	return m
}

// CodeUniqueness checks whether any commit identifier repeats in the listing.
func CodeUniqueness(commits []domain.CommitRecord) domain.Uniqueness {
	if len(commits) == 0 {
		return domain.UniquenessNoCommits
	}
	seen := make(map[string]struct{}, len(commits))
	for _, c := range commits {
		seen[c.SHA] = struct{}{}
	}
	if len(seen) == len(commits) {
		return domain.UniquenessUnique
	}
	return domain.UniquenessDuplicates
}

// BuildLanguages orders languages by bytes of code, largest first, and computes
// each one's share of the total. A nil or empty map yields an empty list.
func BuildLanguages(bytesByLanguage map[string]int) []domain.Language {
	languages := make([]domain.Language, 0, len(bytesByLanguage))
	sizes := make(stats.Float64Data, 0, len(bytesByLanguage))
	for name, n := range bytesByLanguage {
		languages = append(languages, domain.Language{Name: name, Bytes: n})
		sizes = append(sizes, float64(n))
	}
	sort.Slice(languages, func(i, j int) bool {
		if languages[i].Bytes != languages[j].Bytes {
			return languages[i].Bytes > languages[j].Bytes
		}
		return languages[i].Name < languages[j].Name
	})

	total, err := stats.Sum(sizes)
	if err != nil || total == 0 {
		return languages
	}
	for i := range languages {
		languages[i].Share = round2(float64(languages[i].Bytes) / total * 100)
	}
	return languages
}

func countMerged(prs []domain.PullRequestRecord) int {
	n := 0
	for _, pr := range prs {
		if pr.Merged() {
			n++
		}
	}
	return n
}

// percentage returns part/whole*100 rounded to two decimals, or 0 for an empty whole.
func percentage(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}

// round2 rounds half away from zero to two decimals.
func round2(x float64) float64 {
	rounded, err := stats.Round(x, 2)
	if err != nil {
		return 0
	}
	return rounded
}
