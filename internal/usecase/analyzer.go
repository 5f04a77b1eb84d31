package usecase

import (
	"context"
	"log"
	"time"

	"github.com/naka-gawa/gitclawd/internal/domain"
	"github.com/naka-gawa/gitclawd/internal/narrative"
)

// Analyzer runs the whole pipeline for one repository: collection,
// aggregation, scoring and the narrative.
type Analyzer struct {
	collector *Collector
	narrator  narrative.Requester
	logger    *log.Logger
	now       func() time.Time
}

// NewAnalyzer creates a new Analyzer instance. A nil narrator leaves every
// report with the disabled placeholder.
func NewAnalyzer(collector *Collector, narrator narrative.Requester, logger *log.Logger) *Analyzer {
	return &Analyzer{
		collector: collector,
		narrator:  narrator,
		logger:    logger,
		now:       time.Now,
	}
}

// Analyze parses rawURL and analyzes the repository it names.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string, progress ProgressFunc) (*domain.Report, error) {
	ref, err := domain.ParseRepositoryURL(rawURL)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeRepository(ctx, ref, progress)
}

// AnalyzeRepository builds the report for ref. Only a failed summary fetch or a
// cancelled context is returned as an error.
func (a *Analyzer) AnalyzeRepository(ctx context.Context, ref domain.RepositoryRef, progress ProgressFunc) (*domain.Report, error) {
	res, err := a.collector.Collect(ctx, ref.Owner, ref.Name, progress)
	if err != nil {
		return nil, err
	}

	metrics := Aggregate(res.Summary, res.ClosedIssues, res.OpenPRs, res.ClosedPRs, res.Commits)
	report := &domain.Report{
		URL:     ref.URL,
		Summary: res.Summary,
		Metrics: metrics,
		Score: CalculateScore(ScoreInput{
			Stars:        res.Summary.Stars,
			Forks:        res.Summary.Forks,
			OpenIssues:   res.Summary.OpenIssues,
			ClosedIssues: metrics.ClosedIssueCount,
			OpenPRs:      metrics.OpenPRCount,
			ClosedPRs:    metrics.ClosedPRCount,
		}),
		Languages:   BuildLanguages(res.Languages),
		HasReadme:   res.Readme != "",
		Coverage:    res.Coverage(),
		GeneratedAt: a.now(),
	}

	if progress != nil {
		progress(Progress{Label: LabelNarrative, Completed: collectedResources, Total: collectedResources})
	}
	report.Narrative = a.narrate(ctx, ref, report, res.Readme)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.logger.Printf("Usecase: %s scored %.2f.", ref.FullName(), report.Score)
	return report, nil
}

func (a *Analyzer) narrate(ctx context.Context, ref domain.RepositoryRef, report *domain.Report, readme string) string {
	if a.narrator == nil {
		return narrative.DisabledPlaceholder
	}

	prompt := narrative.BuildPrompt(narrative.PromptInput{
		Owner:               ref.Owner,
		Repo:                ref.Name,
		Description:         report.Summary.Description,
		Stars:               report.Summary.Stars,
		Forks:               report.Summary.Forks,
		TotalCommits:        report.Metrics.TotalCommits,
		Languages:           report.LanguageNames(),
		IssueResolutionRate: report.Metrics.IssueResolutionRate,
		PRMergeRate:         report.Metrics.PRMergeRate,
		Score:               report.Score,
		Readme:              readme,
	})

	text, err := a.narrator.Complete(ctx, prompt)
	if err != nil {
		a.logger.Printf("Usecase: narrative unavailable for %s: %v", ref.FullName(), err)
		return narrative.Fallback(err)
	}
	return text
}
