package task

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Result is the outcome of one item in a pool run. Index i of the returned
// slice always corresponds to index i of the input, regardless of
// completion order.
type Result[R any] struct {
	Value R
	Err   error
}

// Run executes fn over items with at most min(concurrency, len(items))
// workers in flight. Each worker atomically claims the next unclaimed index;
// an item's error (or panic) is captured into its slot and never affects
// sibling items. Run returns only after every index has completed.
func Run[T, R any](ctx context.Context, items []T, concurrency int, fn func(context.Context, T) (R, error)) []Result[R] {
	results := make([]Result[R], len(items))
	if len(items) == 0 {
		return results
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(items) {
		concurrency = len(items)
	}

	var cursor atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(cursor.Add(1)) - 1
				if i >= len(items) {
					return
				}
				results[i].Value, results[i].Err = runOne(ctx, items[i], fn)
			}
		}()
	}
	wg.Wait()
	return results
}

// runOne isolates a single item's execution so a panicking fn is recorded
// as that item's error instead of killing the pool.
func runOne[T, R any](ctx context.Context, item T, fn func(context.Context, T) (R, error)) (value R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return fn(ctx, item)
}
