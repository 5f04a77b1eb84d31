package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/shurcooL/githubv4"

	"github.com/naka-gawa/gitclawd/internal/domain"
)

// ErrGraphQLUnavailable is returned by FetchTotals when the gateway was built
// without a token.
var ErrGraphQLUnavailable = errors.New("GraphQL API requires a token")

// repositoryTotalsQuery asks for the server-side totals of the paginated
// collections. Closed pull requests include merged ones, as in the REST listing.
type repositoryTotalsQuery struct {
	Repository struct {
		OpenPullRequests struct {
			TotalCount int
		} `graphql:"openPullRequests: pullRequests(states: OPEN)"`
		ClosedPullRequests struct {
			TotalCount int
		} `graphql:"closedPullRequests: pullRequests(states: [CLOSED, MERGED])"`
		DefaultBranchRef struct {
			Target struct {
				Commit struct {
					History struct {
						TotalCount int
					}
				} `graphql:"... on Commit"`
			}
		}
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// HasTotals reports whether FetchTotals can be used.
func (g *GitHubGateway) HasTotals() bool {
	return g.graphqlClient != nil
}

// FetchTotals looks up how many open/closed pull requests and default branch
// commits GitHub reports for the repository.
func (g *GitHubGateway) FetchTotals(ctx context.Context, owner, repo string) (*domain.RepositoryTotals, error) {
	if g.graphqlClient == nil {
		return nil, ErrGraphQLUnavailable
	}
	ctx, cancel := g.callContext(ctx)
	defer cancel()

	var q repositoryTotalsQuery
	variables := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(repo),
	}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for totals: %w", err)
	}

	return &domain.RepositoryTotals{
		OpenPRs:   q.Repository.OpenPullRequests.TotalCount,
		ClosedPRs: q.Repository.ClosedPullRequests.TotalCount,
		Commits:   q.Repository.DefaultBranchRef.Target.Commit.History.TotalCount,
	}, nil
}
