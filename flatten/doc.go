// Package flatten turns a sequence of sequences into one lazy sequence.
//
// A Flattener wraps an outer producer whose elements are themselves
// producers, and yields every element of every inner producer in
// outer-major, inner-minor order. Nothing is materialized: an inner
// producer is pulled from the outer one only when the active cursor runs dry,
// so auxiliary space is constant regardless of the sizes involved.
//
// # Producers
//
// Iterator is the forward pull contract: Next returns (value, true) or
// (zero, false) at end-of-sequence. DoubleEndedIterator adds NextBack, which
// pulls from the opposite end. Producers are expected to keep returning false
// once exhausted.
//
// # Forward and backward traversal
//
// Flattener exposes Next only. DoubleEnded is built from a double-ended outer
// producer whose inner producers are double-ended too, and adds NextBack.
// Calls may be interleaved freely; every element is produced exactly once.
//
// Each direction keeps its own cursor. Once the outer producer is exhausted,
// a direction whose cursor is empty continues from the other direction's
// cursor. In that fallback NextBack reads the front cursor from its forward
// end, so the tail of an inner sequence opened by Next is handed out in
// forward order:
//
//	f := flatten.Slices([][]string{{"a1", "a2"}, {"b1", "b2", "b3"}})
//	f.Next()     // a1
//	f.Next()     // a2
//	f.Next()     // b1
//	f.NextBack() // b2, not b3
//
// # Usage
//
//	f := flatten.Slices([][]int{{1, 2}, {}, {3}})
//	for v := range flatten.All(f) {
//	    fmt.Println(v) // 1, 2, 3
//	}
//
// A Flattener is single-pass and is not safe for concurrent use.
package flatten
