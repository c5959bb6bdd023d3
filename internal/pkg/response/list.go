package response

// RequestIDKey is the gin context key holding the current request id.
const RequestIDKey = "requestID"

// List converts domain values with fn and never returns a nil slice,
// so empty results encode as [] instead of null.
func List[S any, T any](src []S, fn func(S) T) []T {
	out := make([]T, 0, len(src))
	for _, v := range src {
		out = append(out, fn(v))
	}
	return out
}
