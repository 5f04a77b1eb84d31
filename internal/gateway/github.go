// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/gitclawd/internal/domain"
	apperrors "github.com/naka-gawa/gitclawd/pkg/errors"
)

const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultSleepLimit     = time.Minute
)

// Fetcher defines the behavior of a gateway for fetching repository data from GitHub.
// Only FetchSummary reports failures as hard errors; paginated fetches always
// return a collection, possibly partial.
type Fetcher interface {
	FetchSummary(ctx context.Context, owner, repo string) (*domain.RepositorySummary, error)
	FetchClosedIssues(ctx context.Context, owner, repo string) domain.Collection[domain.IssueRecord]
	FetchPullRequests(ctx context.Context, owner, repo, state string) domain.Collection[domain.PullRequestRecord]
	FetchCommits(ctx context.Context, owner, repo string) domain.Collection[domain.CommitRecord]
	FetchLanguages(ctx context.Context, owner, repo string) (map[string]int, error)
	FetchReadme(ctx context.Context, owner, repo string) (string, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
// The GraphQL client is only set when a token is configured, since the GraphQL
// API rejects anonymous requests.
type GitHubGateway struct {
	restClient     *github.Client
	graphqlClient  *githubv4.Client
	requestTimeout time.Duration
	logger         *log.Logger
}

type settings struct {
	baseURL        string
	graphqlURL     string
	requestTimeout time.Duration
	sleepLimit     time.Duration
}

// Option configures the gateway.
type Option func(*settings)

// WithBaseURL points the REST client at a different API root (tests, GitHub Enterprise).
func WithBaseURL(u string) Option {
	return func(s *settings) {
		s.baseURL = u
	}
}

// WithGraphQLURL points the GraphQL client at a different endpoint.
func WithGraphQLURL(u string) Option {
	return func(s *settings) {
		s.graphqlURL = u
	}
}

// WithRequestTimeout bounds every single API call. Zero disables the bound.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.requestTimeout = d
	}
}

// WithSleepLimit caps how long a secondary rate limit may pause one request.
func WithSleepLimit(d time.Duration) Option {
	return func(s *settings) {
		s.sleepLimit = d
	}
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// An empty token yields anonymous requests without an Authorization header.
func NewGitHubGateway(token string, logger *log.Logger, opts ...Option) (*GitHubGateway, error) {
	s := settings{requestTimeout: DefaultRequestTimeout, sleepLimit: DefaultSleepLimit}
	for _, opt := range opts {
		opt(&s)
	}

	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(s.sleepLimit, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	var transport http.RoundTripper = rateLimitWaiter
	if token != "" {
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		}
	}
	httpClient := &http.Client{Transport: transport}

	restClient := github.NewClient(httpClient)
	if s.baseURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(s.baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API base URL %q: %w", s.baseURL, err)
		}
		restClient.BaseURL = baseURL
	}

	g := &GitHubGateway{
		restClient:     restClient,
		requestTimeout: s.requestTimeout,
		logger:         logger,
	}
	if token != "" {
		if s.graphqlURL != "" {
			g.graphqlClient = githubv4.NewEnterpriseClient(s.graphqlURL, httpClient)
		} else {
			g.graphqlClient = githubv4.NewClient(httpClient)
		}
	}
	return g, nil
}

// FetchSummary fetches the repository snapshot. Any non-2xx answer is a hard
// error classified by status code.
func (g *GitHubGateway) FetchSummary(ctx context.Context, owner, repo string) (*domain.RepositorySummary, error) {
	g.logger.Printf("Gateway: fetching repository %s/%s...", owner, repo)
	ctx, cancel := g.callContext(ctx)
	defer cancel()

	r, resp, err := g.restClient.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, classifySummaryError(owner, repo, resp, err)
	}
	return toSummary(r), nil
}

func (g *GitHubGateway) FetchClosedIssues(ctx context.Context, owner, repo string) domain.Collection[domain.IssueRecord] {
	fetch := func(ctx context.Context, opts github.ListOptions) ([]*github.Issue, *github.Response, error) {
		return g.restClient.Issues.ListByRepo(ctx, owner, repo, &github.IssueListByRepoOptions{
			State:       "closed",
			ListOptions: opts,
		})
	}
	return paginate(ctx, g.pager("closed issues"), fetch, func(i *github.Issue) domain.IssueRecord {
		return domain.IssueRecord{Number: i.GetNumber()}
	})
}

func (g *GitHubGateway) FetchPullRequests(ctx context.Context, owner, repo, state string) domain.Collection[domain.PullRequestRecord] {
	fetch := func(ctx context.Context, opts github.ListOptions) ([]*github.PullRequest, *github.Response, error) {
		return g.restClient.PullRequests.List(ctx, owner, repo, &github.PullRequestListOptions{
			State:       state,
			ListOptions: opts,
		})
	}
	return paginate(ctx, g.pager(state+" pull requests"), fetch, toPullRequestRecord)
}

func (g *GitHubGateway) FetchCommits(ctx context.Context, owner, repo string) domain.Collection[domain.CommitRecord] {
	fetch := func(ctx context.Context, opts github.ListOptions) ([]*github.RepositoryCommit, *github.Response, error) {
		return g.restClient.Repositories.ListCommits(ctx, owner, repo, &github.CommitsListOptions{ListOptions: opts})
	}
	return paginate(ctx, g.pager("commits"), fetch, func(c *github.RepositoryCommit) domain.CommitRecord {
		return domain.CommitRecord{SHA: c.GetSHA()}
	})
}

// FetchLanguages returns bytes of code per language.
func (g *GitHubGateway) FetchLanguages(ctx context.Context, owner, repo string) (map[string]int, error) {
	ctx, cancel := g.callContext(ctx)
	defer cancel()

	languages, _, err := g.restClient.Repositories.ListLanguages(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}
	return languages, nil
}

// FetchReadme returns the decoded README text.
func (g *GitHubGateway) FetchReadme(ctx context.Context, owner, repo string) (string, error) {
	ctx, cancel := g.callContext(ctx)
	defer cancel()

	content, _, err := g.restClient.Repositories.GetReadme(ctx, owner, repo, nil)
	if err != nil {
		return "", fmt.Errorf("failed to get README: %w", err)
	}
	text, err := content.GetContent()
	if err != nil {
		return "", fmt.Errorf("failed to decode README: %w", err)
	}
	if !utf8.ValidString(text) {
		return "", errors.New("failed to decode README: content is not valid UTF-8")
	}
	return text, nil
}

func (g *GitHubGateway) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.requestTimeout)
}

func (g *GitHubGateway) pager(label string) pager {
	return pager{label: label, timeout: g.requestTimeout, logger: g.logger}
}

func toSummary(r *github.Repository) *domain.RepositorySummary {
	summary := &domain.RepositorySummary{
		Owner:       r.GetOwner().GetLogin(),
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		HTMLURL:     r.GetHTMLURL(),
		Description: r.GetDescription(),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		OpenIssues:  r.GetOpenIssuesCount(),
	}
	if r.UpdatedAt != nil {
		t := r.UpdatedAt.Time
		summary.UpdatedAt = &t
	}
	if r.PushedAt != nil {
		t := r.PushedAt.Time
		summary.PushedAt = &t
	}
	return summary
}

func toPullRequestRecord(pr *github.PullRequest) domain.PullRequestRecord {
	record := domain.PullRequestRecord{Number: pr.GetNumber(), State: pr.GetState()}
	if pr.MergedAt != nil {
		t := pr.MergedAt.Time
		record.MergedAt = &t
	}
	return record
}

func classifySummaryError(owner, repo string, resp *github.Response, err error) error {
	detail := fmt.Sprintf("fetching repository %s/%s", owner, repo)

	status := 0
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}

	switch status {
	case http.StatusNotFound:
		return apperrors.New(
			apperrors.RefNotFound,
			"❌ Repository not found. Make sure it's public.",
			detail,
			err,
			apperrors.LevelInfo,
		)
	case http.StatusForbidden, http.StatusTooManyRequests:
		return apperrors.New(
			apperrors.RefRateLimited,
			"❌ GitHub API rate limit. Add a GITHUB_TOKEN to your `.env`.",
			detail,
			err,
			apperrors.LevelWarning,
		)
	}

	return apperrors.New(
		apperrors.RefGitHubAPI,
		"❌ Error: "+apiMessage(status, err),
		detail,
		err,
		apperrors.LevelError,
	)
}

// apiMessage picks the message field of a GitHub error body when there is one.
func apiMessage(status int, err error) string {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Message != "" {
		return errResp.Message
	}
	if status != 0 {
		return "Unknown error"
	}
	return err.Error()
}
