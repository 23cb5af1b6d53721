package colorize

import "math"

// LookupTable holds size precomputed values indexed by a normalised scalar.
// It is immutable after construction and safe for concurrent reads.
type LookupTable[T any] struct {
	values []T
}

// NewLookupTable eagerly builds every entry with generate(index, size).
func NewLookupTable[T any](size int, generate func(index, size int) T) *LookupTable[T] {
	if size < 1 {
		size = 1
	}
	values := make([]T, size)
	for i := range values {
		values[i] = generate(i, size)
	}
	return &LookupTable[T]{values: values}
}

func (t *LookupTable[T]) Size() int {
	return len(t.values)
}

// GetValue returns the entry nearest to x, where 0 is the first entry and
// 1 the last. Values outside [0, 1] are clamped.
func (t *LookupTable[T]) GetValue(x float32) T {
	last := len(t.values) - 1
	index := int(math.Round(float64(clamp01(x)) * float64(last)))
	if index < 0 {
		index = 0
	} else if index > last {
		index = last
	}
	return t.values[index]
}
