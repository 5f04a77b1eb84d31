// Package report renders analysis reports for the terminal.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/naka-gawa/gitclawd/internal/domain"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

var (
	titleColor = color.New(color.FgMagenta, color.Bold)
	labelColor = color.New(color.Bold)
	goodColor  = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow)
	badColor   = color.New(color.FgRed)
)

// Write renders r in the given format.
func Write(w io.Writer, format string, r *domain.Report) error {
	switch format {
	case FormatText, "":
		return WriteText(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	default:
		return fmt.Errorf("unknown output format %q (want %s or %s)", format, FormatText, FormatJSON)
	}
}

// WriteJSON writes r as indented JSON, including coverage details.
func WriteJSON(w io.Writer, r *domain.Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// WriteText writes r as a colored, human-readable summary.
func WriteText(w io.Writer, r *domain.Report) error {
	var b strings.Builder
	m := r.Metrics

	titleColor.Fprintf(&b, "🤖 GitClawd Analysis: %s\n", r.Summary.FullName)
	fmt.Fprintf(&b, "%s\n\n", r.URL)

	line(&b, "⭐ Authenticity Score", scoreColor(r.Score).Sprintf("%s/100", domain.FormatDecimal(r.Score)))
	line(&b, "🔬 Code Uniqueness", uniquenessColor(m.CodeUniqueness).Sprint(m.CodeUniqueness.Verdict()))
	line(&b, "📦 Total Commits", fmt.Sprint(m.TotalCommits))

	labelColor.Fprintln(&b, "👥 Community Engagement")
	fmt.Fprintf(&b, "   Open Issues: %d/%d\n", r.Summary.OpenIssues, m.AllIssueCount)
	fmt.Fprintf(&b, "   Open PRs: %d/%d\n", m.OpenPRCount, m.AllPRCount)
	fmt.Fprintf(&b, "   Resolution Rate: %s%%\n", domain.FormatDecimal(m.IssueResolutionRate))
	fmt.Fprintf(&b, "   PR Merge Rate: %s%%\n", domain.FormatDecimal(m.PRMergeRate))

	labelColor.Fprintln(&b, "📌 About")
	fmt.Fprintf(&b, "   ⭐ Stars: %d\n", r.Summary.Stars)
	fmt.Fprintf(&b, "   🍴 Forks: %d\n", r.Summary.Forks)

	if names := r.LanguageNames(); names != "" {
		line(&b, "💻 Languages", names)
	}
	if r.Summary.UpdatedAt != nil {
		line(&b, "🕐 Last Update", formatTime(*r.Summary.UpdatedAt))
	}
	if r.Summary.PushedAt != nil {
		line(&b, "🔀 Last Commit", formatTime(*r.Summary.PushedAt))
	}

	labelColor.Fprintln(&b, "🧠 AI Analysis")
	fmt.Fprintf(&b, "   %s\n", r.Narrative)

	if !r.Coverage.Complete() {
		b.WriteString("\n")
		warnColor.Fprintln(&b, "⚠️  Some activity could not be fetched completely:")
		partial(&b, "closed issues", r.Coverage.ClosedIssues)
		partial(&b, "open PRs", r.Coverage.OpenPRs)
		partial(&b, "closed PRs", r.Coverage.ClosedPRs)
		partial(&b, "commits", r.Coverage.Commits)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func line(b *strings.Builder, label, value string) {
	labelColor.Fprintf(b, "%-24s", label)
	fmt.Fprintf(b, " %s\n", value)
}

func partial(b *strings.Builder, name string, c domain.CollectionCoverage) {
	if c.Complete {
		return
	}
	fmt.Fprintf(b, "   %s: %d fetched", name, c.Fetched)
	if c.Reported != nil {
		fmt.Fprintf(b, " of %d", *c.Reported)
	}
	fmt.Fprintf(b, " (%s)\n", c.Reason)
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04 MST")
}

func scoreColor(score float64) *color.Color {
	switch {
	case score >= 70:
		return goodColor
	case score >= 40:
		return warnColor
	default:
		return badColor
	}
}

func uniquenessColor(u domain.Uniqueness) *color.Color {
	switch u {
	case domain.UniquenessUnique:
		return goodColor
	case domain.UniquenessDuplicates:
		return badColor
	default:
		return warnColor
	}
}
