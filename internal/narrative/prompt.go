// Package narrative asks a language model for a short written verdict on a
// repository report.
package narrative

import (
	"fmt"

	"github.com/naka-gawa/gitclawd/internal/domain"
)

// ReadmeExcerptLimit is the number of README characters included in the prompt.
const ReadmeExcerptLimit = 800

// Fallback texts shown in place of a narrative.
const (
	UnavailablePlaceholder = "🤷 AI analysis is unavailable right now."
	DisabledPlaceholder    = "AI analysis disabled: no ANTHROPIC_API_KEY configured."
)

// PromptInput is the repository data the narrative is written from.
type PromptInput struct {
	Owner               string
	Repo                string
	Description         string
	Stars               int
	Forks               int
	TotalCommits        int
	Languages           string
	IssueResolutionRate float64
	PRMergeRate         float64
	Score               float64
	Readme              string
}

// BuildPrompt renders the request sent to the model.
func BuildPrompt(in PromptInput) string {
	description := in.Description
	if description == "" {
		description = "No description"
	}
	readme := readmeExcerpt(in.Readme)
	if readme == "" {
		readme = "Not available"
	}

	return fmt.Sprintf(`You are GitClawd, an AI assistant specialized in analyzing GitHub repositories.
Give a concise, sharp, insightful summary (max 280 characters) for a Discord embed field.
Focus on: project quality, community health, and a brief honest verdict. Be direct and useful.

Repository: %s/%s | Description: %s
Stars: %d | Forks: %d | Commits: %d
Languages: %s
Issue Resolution Rate: %s%% | PR Merge Rate: %s%%
Authenticity Score: %s/100
README: %s

Respond with ONLY the analysis. No intro, no labels. Max 280 characters.`,
		in.Owner, in.Repo, description,
		in.Stars, in.Forks, in.TotalCommits,
		in.Languages,
		domain.FormatDecimal(in.IssueResolutionRate), domain.FormatDecimal(in.PRMergeRate),
		domain.FormatDecimal(in.Score),
		readme,
	)
}

// readmeExcerpt cuts s to ReadmeExcerptLimit characters.
func readmeExcerpt(s string) string {
	runes := []rune(s)
	if len(runes) <= ReadmeExcerptLimit {
		return s
	}
	return string(runes[:ReadmeExcerptLimit])
}
