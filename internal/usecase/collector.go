package usecase

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/gitclawd/internal/domain"
	"github.com/naka-gawa/gitclawd/internal/gateway"
)

// Resource labels reported through ProgressFunc, in presentation order.
const (
	LabelClosedIssues = "closed issues"
	LabelOpenPRs      = "open PRs"
	LabelClosedPRs    = "closed PRs"
	LabelCommits      = "commits"
	LabelLanguages    = "languages"
	LabelReadme       = "README"
	LabelNarrative    = "analysis"
)

// collectedResources is the number of progress events Collect emits.
const collectedResources = 6

// Progress is one step of a running analysis.
type Progress struct {
	Label     string
	Completed int
	Total     int
}

// ProgressFunc receives progress events. Calls are never concurrent.
type ProgressFunc func(Progress)

// TotalsFetcher looks up server-side totals for the paginated collections.
type TotalsFetcher interface {
	FetchTotals(ctx context.Context, owner, repo string) (*domain.RepositoryTotals, error)
}

// Resources is everything fetched for one repository.
type Resources struct {
	Summary      *domain.RepositorySummary
	ClosedIssues domain.Collection[domain.IssueRecord]
	OpenPRs      domain.Collection[domain.PullRequestRecord]
	ClosedPRs    domain.Collection[domain.PullRequestRecord]
	Commits      domain.Collection[domain.CommitRecord]
	Languages    map[string]int
	Readme       string
	Totals       *domain.RepositoryTotals
}

// Coverage reports how complete each collection is, with the server-side
// totals attached when they were looked up.
func (r *Resources) Coverage() domain.Coverage {
	cov := domain.Coverage{
		ClosedIssues: r.ClosedIssues.Coverage(),
		OpenPRs:      r.OpenPRs.Coverage(),
		ClosedPRs:    r.ClosedPRs.Coverage(),
		Commits:      r.Commits.Coverage(),
	}
	if r.Totals != nil {
		openPRs, closedPRs, commits := r.Totals.OpenPRs, r.Totals.ClosedPRs, r.Totals.Commits
		cov.OpenPRs.Reported = &openPRs
		cov.ClosedPRs.Reported = &closedPRs
		cov.Commits.Reported = &commits
	}
	return cov
}

// Collector gathers the summary and every activity collection of a repository.
type Collector struct {
	fetcher gateway.Fetcher
	totals  TotalsFetcher
	logger  *log.Logger
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithTotals makes Collect also look up server-side totals.
func WithTotals(t TotalsFetcher) CollectorOption {
	return func(c *Collector) {
		c.totals = t
	}
}

// NewCollector creates a new Collector instance.
func NewCollector(fetcher gateway.Fetcher, logger *log.Logger, opts ...CollectorOption) *Collector {
	c := &Collector{fetcher: fetcher, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect fetches the summary first; its failure is returned as is and nothing
// else is fetched. The remaining resources are then fetched concurrently and
// degrade to empty or partial values on failure. progress may be nil.
func (c *Collector) Collect(ctx context.Context, owner, repo string, progress ProgressFunc) (*Resources, error) {
	c.logger.Printf("Usecase: collecting %s/%s...", owner, repo)

	summary, err := c.fetcher.FetchSummary(ctx, owner, repo)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	res := &Resources{Summary: summary}
	report := c.reporter(progress)

	// Every task degrades instead of failing, so the group only joins them.
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		res.ClosedIssues = c.fetcher.FetchClosedIssues(egCtx, owner, repo)
		report(LabelClosedIssues)
		return nil
	})
	eg.Go(func() error {
		res.OpenPRs = c.fetcher.FetchPullRequests(egCtx, owner, repo, "open")
		report(LabelOpenPRs)
		return nil
	})
	eg.Go(func() error {
		res.ClosedPRs = c.fetcher.FetchPullRequests(egCtx, owner, repo, "closed")
		report(LabelClosedPRs)
		return nil
	})
	eg.Go(func() error {
		res.Commits = c.fetcher.FetchCommits(egCtx, owner, repo)
		report(LabelCommits)
		return nil
	})
	eg.Go(func() error {
		languages, err := c.fetcher.FetchLanguages(egCtx, owner, repo)
		if err != nil {
			c.logger.Printf("Usecase: languages unavailable for %s/%s: %v", owner, repo, err)
		}
		res.Languages = languages
		report(LabelLanguages)
		return nil
	})
	eg.Go(func() error {
		readme, err := c.fetcher.FetchReadme(egCtx, owner, repo)
		if err != nil {
			c.logger.Printf("Usecase: README unavailable for %s/%s: %v", owner, repo, err)
			readme = ""
		}
		res.Readme = readme
		report(LabelReadme)
		return nil
	})
	if c.totals != nil {
		eg.Go(func() error {
			totals, err := c.totals.FetchTotals(egCtx, owner, repo)
			if err != nil {
				c.logger.Printf("Usecase: totals unavailable for %s/%s: %v", owner, repo, err)
				return nil
			}
			res.Totals = totals
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for label, reason := range map[string]error{
		LabelClosedIssues: res.ClosedIssues.Reason,
		LabelOpenPRs:      res.OpenPRs.Reason,
		LabelClosedPRs:    res.ClosedPRs.Reason,
		LabelCommits:      res.Commits.Reason,
	} {
		if reason != nil {
			c.logger.Printf("Usecase: %s for %s/%s are partial: %v", label, owner, repo, reason)
		}
	}

	c.logger.Println("Usecase: collection complete.")
	return res, nil
}

// reporter serialises progress events and numbers them.
func (c *Collector) reporter(progress ProgressFunc) func(label string) {
	var mu sync.Mutex
	completed := 0
	return func(label string) {
		mu.Lock()
		defer mu.Unlock()
		completed++
		if progress != nil {
			progress(Progress{Label: label, Completed: completed, Total: collectedResources})
		}
	}
}
