package workers

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Result holds one item's outcome in a Collect call.
type Result[T any] struct {
	Value T
	Err   error
}

// Run calls fn once for every index in [0, n) using at most workers
// goroutines and returns the values in index order.
//
// A failing item does not stop the others: every index is still processed.
// When any item fails, Run returns the first error reported and no values.
func Run[T any](n, workers int, fn func(i int) (T, error)) ([]T, error) {
	results := make([]T, n)
	if n == 0 {
		return results, nil
	}

	var g errgroup.Group
	g.SetLimit(poolSize(workers, n))

	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			v, err := safeCall(i, fn)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Collect is the partial-results variant of Run: it returns one Result per
// index, in index order, whether the item succeeded or not.
func Collect[T any](n, workers int, fn func(i int) (T, error)) []Result[T] {
	results := make([]Result[T], n)
	if n == 0 {
		return results
	}

	var g errgroup.Group
	g.SetLimit(poolSize(workers, n))

	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			v, err := safeCall(i, fn)
			results[i] = Result[T]{Value: v, Err: err}
			return nil
		})
	}

	_ = g.Wait()
	return results
}

func poolSize(workers, n int) int {
	if workers < 1 {
		workers = ForCPU(0)
	}
	if workers > n {
		workers = n
	}
	return workers
}

// safeCall turns a panic inside a decoder into an item error so one corrupt
// file cannot take the host process down.
func safeCall[T any](i int, fn func(i int) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("item %d panicked: %v", i, r)
		}
	}()
	return fn(i)
}
