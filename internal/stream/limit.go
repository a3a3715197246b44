package stream

import "iter"

// Limit yields at most n items of seq in order. n <= 0 means no limit.
// The source is never advanced past the last yielded item.
func Limit[T any](seq iter.Seq[T], n int) iter.Seq[T] {
	if n <= 0 {
		return seq
	}

	return func(yield func(T) bool) {
		count := 0
		for item := range seq {
			if !yield(item) {
				return
			}
			count++
			if count >= n {
				return
			}
		}
	}
}
