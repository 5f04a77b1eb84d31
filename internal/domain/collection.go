package domain

// Collection is an ordered sequence of items of one resource kind, concatenated
// page by page in server order. A nil Reason means pagination reached its natural
// end; otherwise Items holds what was gathered before the failing page.
type Collection[T any] struct {
	Items  []T
	Reason error
}

// Complete builds a collection that ended on an empty page.
func Complete[T any](items []T) Collection[T] {
	return Collection[T]{Items: items}
}

// Partial builds a collection cut short by reason.
func Partial[T any](items []T, reason error) Collection[T] {
	return Collection[T]{Items: items, Reason: reason}
}

func (c Collection[T]) Len() int {
	return len(c.Items)
}

func (c Collection[T]) IsComplete() bool {
	return c.Reason == nil
}

// Coverage summarises the collection for reporting.
func (c Collection[T]) Coverage() CollectionCoverage {
	cov := CollectionCoverage{Fetched: len(c.Items), Complete: c.IsComplete()}
	if c.Reason != nil {
		cov.Reason = c.Reason.Error()
	}
	return cov
}
