package transport

import (
	"context"
	"fmt"
)

// PageFunc fetches one page (1-based).
type PageFunc[T any] func(ctx context.Context, page int) ([]T, error)

// FetchAllPages requests successive pages until an empty page is returned and
// accumulates every item in fetch order.
func FetchAllPages[T any](ctx context.Context, fetch PageFunc[T]) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		items, err := fetch(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d: %w", page, err)
		}
		if len(items) == 0 {
			return all, nil
		}
		all = append(all, items...)
	}
}
