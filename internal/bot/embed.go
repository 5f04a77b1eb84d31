package bot

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/naka-gawa/gitclawd/internal/domain"
	"github.com/naka-gawa/gitclawd/internal/narrative"
)

// Discord embed limits, in characters.
const (
	maxTitleLength      = 256
	maxFieldValueLength = 1024
)

const (
	embedColor  = 0x6e40c9
	embedFooter = "Powered by Claude AI · GitClawd"
)

// BuildEmbed renders a report as a Discord embed.
func BuildEmbed(r *domain.Report) *discordgo.MessageEmbed {
	m := r.Metrics
	fullName := r.Summary.FullName
	if fullName == "" {
		fullName = r.Summary.Owner + "/" + r.Summary.Name
	}

	embed := &discordgo.MessageEmbed{
		Title:  truncate("🤖 GitClawd Analysis: "+fullName, maxTitleLength),
		URL:    r.URL,
		Color:  embedColor,
		Footer: &discordgo.MessageEmbedFooter{Text: embedFooter},
	}

	add := func(name, value string, inline bool) {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   name,
			Value:  truncate(value, maxFieldValueLength),
			Inline: inline,
		})
	}

	add("⭐ Authenticity Score", fmt.Sprintf("`%s/100`", domain.FormatDecimal(r.Score)), true)
	add("🔬 Code Uniqueness", m.CodeUniqueness.Verdict(), true)
	add("📦 Total Commits", fmt.Sprintf("`%d`", m.TotalCommits), true)
	add("👥 Community Engagement", fmt.Sprintf(
		"Open Issues: `%d/%d`\nOpen PRs: `%d/%d`\nResolution Rate: `%s%%`\nPR Merge Rate: `%s%%`",
		r.Summary.OpenIssues, m.AllIssueCount,
		m.OpenPRCount, m.AllPRCount,
		domain.FormatDecimal(m.IssueResolutionRate), domain.FormatDecimal(m.PRMergeRate),
	), true)
	add("📌 About", fmt.Sprintf("⭐ Stars: `%d`\n🍴 Forks: `%d`", r.Summary.Stars, r.Summary.Forks), true)

	if names := r.LanguageNames(); names != "" {
		add("💻 Languages", "`"+names+"`", false)
	}
	if r.Summary.UpdatedAt != nil {
		add("🕐 Last Update", discordTimestamp(*r.Summary.UpdatedAt), false)
	}
	if r.Summary.PushedAt != nil {
		add("🔀 Last Commit", discordTimestamp(*r.Summary.PushedAt), false)
	}

	analysis := r.Narrative
	if analysis == "" {
		analysis = narrative.UnavailablePlaceholder
	}
	add("🧠 Claude's AI Analysis", analysis, false)

	return embed
}

// discordTimestamp renders t as a full date followed by a relative time.
func discordTimestamp(t time.Time) string {
	ts := t.Unix()
	return fmt.Sprintf("<t:%d:f> (<t:%d:R>)", ts, ts)
}

// truncate cuts s to at most limit characters, marking the cut with an ellipsis.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
