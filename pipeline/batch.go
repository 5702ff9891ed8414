package pipeline

import "iter"

// batched windows a sequence into slices of up to n elements, preserving
// arrival order. The final window may be shorter. Yielded slices are owned by
// the consumer; the batcher never reuses them.
func batched[T any](seq iter.Seq[T], n int) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		window := make([]T, 0, n)
		for v := range seq {
			window = append(window, v)
			if len(window) == n {
				if !yield(window) {
					return
				}
				window = make([]T, 0, n)
			}
		}
		if len(window) > 0 {
			yield(window)
		}
	}
}
