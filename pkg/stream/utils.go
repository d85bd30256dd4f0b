package stream

import "context"

// OfSliceReader creates a Reader from a slice of values, emitting each item
// sequentially. The resulting stream is cold - all data is immediately
// available without blocking - and emits io.EOF once every item has been
// consumed.
func OfSliceReader[T any](items []T) Reader[T] {
	cs := NewStream[T](len(items))
	ctx := context.Background()
	for _, item := range items {
		_ = cs.Write(ctx, item)
	}
	_ = cs.Close()
	return cs
}
