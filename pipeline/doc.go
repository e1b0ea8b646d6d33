// Package pipeline provides composable, pull-based pipelines over producers
// that may fail.
//
// Pipelines are lazy: no work happens until values are pulled via Collect,
// Drain, ForEach, or All. Each stage pulls from the previous stage on demand,
// and nothing in this package starts a goroutine.
//
// Where package flatten works with infallible producers, a pipeline Iterator
// takes a context and may return an error. Flatten, FlatMap, and Concat apply
// the same forward cursor algorithm as flatten.Flattener: one inner iterator
// is drained at a time, empty or nil inners are skipped, and the outer is
// pulled only when the current inner is exhausted. Errors from any producer
// are returned as they are, so errors.Is works on them.
//
// # Operators
//
//   - Map: transform each value
//   - Filter: keep values matching a predicate
//   - Tap: side-effect without altering the value
//   - Take: stop after n values
//   - Reduce: accumulate all values into one result
//   - Batch: group values into slices by size or timeout
//   - Flatten: pipeline of iterators to pipeline of elements
//   - FlatMap: transform each value into an iterator and flatten
//   - Concat: join pipelines sequentially, lazily
//
// # Usage
//
//	rows := pipeline.FromSlice([][]int{{1, 2}, {}, {3}})
//	flat := pipeline.FlatMap(rows, func(_ context.Context, r []int) (pipeline.Iterator[int], error) {
//	    return pipeline.FromSlice(r).Iter(ctx), nil
//	})
//	err := pipeline.Drain(flat, sink,
//	    pipeline.WithName("rows"),
//	    pipeline.WithRunLogger(log),
//	    pipeline.WithTracer(observability.Tracer("rows")),
//	).Run(ctx)
package pipeline
