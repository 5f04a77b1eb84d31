package gateway

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/go-github/v62/github"

	"github.com/naka-gawa/gitclawd/internal/domain"
)

// PageSize is the number of items requested per page.
const PageSize = 100

type pager struct {
	label   string
	timeout time.Duration
	logger  *log.Logger
}

// paginate walks pages 1, 2, 3, ... until a page comes back empty, which
// completes the collection. A failing page (non-2xx status, a body that is not a
// list, a transport error or timeout) ends the walk with a partial collection
// holding the earlier pages. There is no retry and no page cap.
func paginate[T, R any](
	ctx context.Context,
	p pager,
	fetch func(context.Context, github.ListOptions) ([]T, *github.Response, error),
	convert func(T) R,
) domain.Collection[R] {
	items := []R{}
	for page := 1; ; page++ {
		batch, err := fetchPage(ctx, p.timeout, fetch, page)
		if err != nil {
			p.logger.Printf("Gateway: %s stopped at page %d with %d items: %v", p.label, page, len(items), err)
			return domain.Partial(items, fmt.Errorf("page %d: %w", page, err))
		}
		if len(batch) == 0 {
			p.logger.Printf("Gateway: fetched %d %s.", len(items), p.label)
			return domain.Complete(items)
		}
		for _, item := range batch {
			items = append(items, convert(item))
		}
		p.logger.Printf("  Fetching page %d of %s...", page+1, p.label)
	}
}

func fetchPage[T any](
	ctx context.Context,
	timeout time.Duration,
	fetch func(context.Context, github.ListOptions) ([]T, *github.Response, error),
	page int,
) ([]T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	batch, _, err := fetch(ctx, github.ListOptions{Page: page, PerPage: PageSize})
	return batch, err
}
