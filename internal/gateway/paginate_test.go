package gateway

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPager() pager {
	return pager{label: "numbers", timeout: time.Second, logger: log.New(io.Discard, "", 0)}
}

// numberPages serves the given page sizes, numbering items consecutively,
// and fails the page listed in failAt.
func numberPages(sizes []int, failAt int, requested *[]github.ListOptions) func(context.Context, github.ListOptions) ([]int, *github.Response, error) {
	return func(_ context.Context, opts github.ListOptions) ([]int, *github.Response, error) {
		*requested = append(*requested, opts)
		if opts.Page == failAt {
			return nil, nil, errors.New("boom")
		}
		if opts.Page > len(sizes) {
			return []int{}, nil, nil
		}
		offset := 0
		for _, n := range sizes[:opts.Page-1] {
			offset += n
		}
		batch := make([]int, sizes[opts.Page-1])
		for i := range batch {
			batch[i] = offset + i + 1
		}
		return batch, nil, nil
	}
}

func TestPaginate(t *testing.T) {
	testCases := []struct {
		name           string
		sizes          []int
		failAt         int
		expectedCount  int
		expectedPages  int
		expectComplete bool
		expectedReason string
	}{
		{
			name:           "walks until an empty page",
			sizes:          []int{100, 100, 100, 17},
			expectedCount:  317,
			expectedPages:  5,
			expectComplete: true,
		},
		{
			name:           "empty first page",
			sizes:          nil,
			expectedCount:  0,
			expectedPages:  1,
			expectComplete: true,
		},
		{
			name:           "failure on the second page keeps the first",
			sizes:          []int{100, 100, 100},
			failAt:         2,
			expectedCount:  100,
			expectedPages:  2,
			expectedReason: "page 2: boom",
		},
		{
			name:           "failure on the first page",
			sizes:          []int{100},
			failAt:         1,
			expectedCount:  0,
			expectedPages:  1,
			expectedReason: "page 1: boom",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var requested []github.ListOptions

			got := paginate(context.Background(), testPager(), numberPages(tc.sizes, tc.failAt, &requested), func(n int) int { return n })

			require.Len(t, got.Items, tc.expectedCount)
			assert.NotNil(t, got.Items)
			for i, n := range got.Items {
				assert.Equal(t, i+1, n)
			}
			assert.Equal(t, tc.expectComplete, got.IsComplete())
			if tc.expectedReason != "" {
				assert.EqualError(t, got.Reason, tc.expectedReason)
			}

			require.Len(t, requested, tc.expectedPages)
			for i, opts := range requested {
				assert.Equal(t, i+1, opts.Page)
				assert.Equal(t, PageSize, opts.PerPage)
			}
		})
	}
}

func TestPaginate_PageTimeout(t *testing.T) {
	p := testPager()
	p.timeout = 10 * time.Millisecond

	slow := func(ctx context.Context, opts github.ListOptions) ([]int, *github.Response, error) {
		if opts.Page == 1 {
			return []int{1, 2}, nil, nil
		}
		<-ctx.Done()
		return nil, nil, ctx.Err()
	}

	got := paginate(context.Background(), p, slow, func(n int) int { return n })

	assert.False(t, got.IsComplete())
	assert.Equal(t, []int{1, 2}, got.Items)
	assert.ErrorIs(t, got.Reason, context.DeadlineExceeded)
}
