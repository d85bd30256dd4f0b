package ptr

// Pointer returns a pointer to the given value.
// This is useful when you need to pass a pointer to a literal value or
// when working with APIs that require pointer parameters.
func Pointer[V any](v V) *V {
	return &v
}
