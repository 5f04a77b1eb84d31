package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/gitclawd/internal/domain"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func sampleReport() *domain.Report {
	updated := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	commits := domain.Partial([]domain.CommitRecord{{SHA: "a"}}, errors.New("page 2: 502 Bad Gateway"))
	reported := 240
	coverage := domain.Coverage{
		ClosedIssues: domain.Complete([]domain.IssueRecord{}).Coverage(),
		OpenPRs:      domain.Complete([]domain.PullRequestRecord{}).Coverage(),
		ClosedPRs:    domain.Complete([]domain.PullRequestRecord{}).Coverage(),
		Commits:      commits.Coverage(),
	}
	coverage.Commits.Reported = &reported

	return &domain.Report{
		URL: "https://github.com/octocat/Hello-World",
		Summary: &domain.RepositorySummary{
			Owner:      "octocat",
			Name:       "Hello-World",
			FullName:   "octocat/Hello-World",
			Stars:      10,
			Forks:      2,
			OpenIssues: 1,
			UpdatedAt:  &updated,
		},
		Metrics: domain.Metrics{
			AllIssueCount:       3,
			ClosedIssueCount:    2,
			OpenPRCount:         1,
			ClosedPRCount:       2,
			MergedPRCount:       1,
			AllPRCount:          3,
			TotalCommits:        100,
			IssueResolutionRate: 66.67,
			PRMergeRate:         33.33,
			CodeUniqueness:      domain.UniquenessUnique,
		},
		Score:     77.27,
		Languages: []domain.Language{{Name: "Go", Bytes: 300, Share: 75}, {Name: "Shell", Bytes: 100, Share: 25}},
		Narrative: "Small but healthy.",
		Coverage:  coverage,
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteText(&buf, sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "🤖 GitClawd Analysis: octocat/Hello-World\nhttps://github.com/octocat/Hello-World\n")
	assert.Contains(t, out, "77.27/100")
	assert.Contains(t, out, "✅ No significant similarities.")
	assert.Contains(t, out, "   Open Issues: 1/3\n")
	assert.Contains(t, out, "   Open PRs: 1/3\n")
	assert.Contains(t, out, "   Resolution Rate: 66.67%\n")
	assert.Contains(t, out, "   PR Merge Rate: 33.33%\n")
	assert.Contains(t, out, "Go, Shell")
	assert.Contains(t, out, "2024-01-02 03:04 UTC")
	assert.NotContains(t, out, "Last Commit")
	assert.Contains(t, out, "   Small but healthy.\n")
	assert.Contains(t, out, "   commits: 1 fetched of 240 (page 2: 502 Bad Gateway)\n")
	assert.NotContains(t, out, "closed issues:")
}

func TestWriteText_CompleteCoverage(t *testing.T) {
	r := sampleReport()
	r.Coverage.Commits = domain.CollectionCoverage{Fetched: 100, Complete: true}
	r.Languages = nil
	var buf bytes.Buffer

	require.NoError(t, WriteText(&buf, r))

	assert.NotContains(t, buf.String(), "could not be fetched")
	assert.NotContains(t, buf.String(), "Languages")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteJSON(&buf, sampleReport()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 77.27, decoded["authenticity_score"])
	metrics := decoded["metrics"].(map[string]interface{})
	assert.Equal(t, "unique", metrics["code_uniqueness"])
	commits := decoded["coverage"].(map[string]interface{})["commits"].(map[string]interface{})
	assert.Equal(t, false, commits["complete"])
	assert.Equal(t, float64(240), commits["reported"])
	assert.Equal(t, "page 2: 502 Bad Gateway", commits["reason"])
}

func TestWrite_Format(t *testing.T) {
	testCases := []struct {
		name        string
		format      string
		prefix      string
		expectError bool
	}{
		{name: "text", format: FormatText, prefix: "🤖"},
		{name: "default is text", format: "", prefix: "🤖"},
		{name: "json", format: FormatJSON, prefix: "{"},
		{name: "unknown", format: "yaml", expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := Write(&buf, tc.format, sampleReport())
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte(tc.prefix)))
		})
	}
}
