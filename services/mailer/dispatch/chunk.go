package dispatch

import "iter"

// Chunk yields successive sub-slices of items of at most size elements,
// preserving order. The last chunk may be shorter. Empty input yields
// nothing. Sub-slices share the input's backing array.
func Chunk[T any](items []T, size int) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		if size <= 0 {
			return
		}
		for i := 0; i < len(items); i += size {
			end := min(i+size, len(items))
			if !yield(items[i:end]) {
				return
			}
		}
	}
}
