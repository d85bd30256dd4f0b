// Package slices provides the batch-chunking helper shared by the
// generation pipeline's embedding and batch-answer stages.
package slices

// Chunk divides a slice into smaller sub-slices of the specified size.
// All sub-slices except possibly the last one will have exactly 'size'
// elements. The last sub-slice may contain fewer elements if the input
// length is not evenly divisible by size.
//
// Examples:
//
//	numbers := []int{1, 2, 3, 4, 5, 6}
//	chunks := Chunk(numbers, 2)
//	// Result: [[1, 2], [3, 4], [5, 6]]
func Chunk[S ~[]E, E any](s S, size int) []S {
	if size <= 0 {
		return []S{s}
	}

	var (
		l  = len(s)
		rv = make([]S, 0, (l+size-1)/size)
	)

	for i := 0; i < l; i += size {
		end := min(i+size, l)
		rv = append(rv, s[i:end:end])
	}

	return rv
}
