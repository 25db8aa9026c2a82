// Package limit bounds result sets.
package limit

// Limit returns the first max records and whether any were dropped.
// Order is preserved. A max of zero or less keeps nothing.
func Limit[T any](records []T, max int) ([]T, bool) {
	if max < 0 {
		max = 0
	}
	if len(records) <= max {
		return records, false
	}
	return records[:max:max], true
}
