package search

import (
	"sync"

	"github.com/panjf2000/ants/v2"
)

// parallelThreshold: below this many items the pool dispatch overhead is not
// worth paying.
const parallelThreshold = 256

// parallelFor runs fn(i) for i in [0, n) sharded across the worker pool.
// Output is identical to the serial loop: shards write disjoint index
// ranges. Falls back to serial when the pool is absent or n is small.
func (e *Engine) parallelFor(n int, fn func(i int)) {
	if e.pool == nil || n < parallelThreshold {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	workers := e.pool.Cap()
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		lo, hi := lo, hi
		wg.Add(1)
		task := func() {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				fn(i)
			}
		}
		if err := e.pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()
}

func newPool(size int) *ants.Pool {
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil
	}
	return pool
}
