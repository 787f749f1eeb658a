package helper

import "slices"

// Contains returns true if elem is in slice.
func Contains[T comparable](slice []T, elem T) bool {
	return slices.Contains(slice, elem)
}

// ContainsFunc reports whether any element satisfies match.
func ContainsFunc[T any](slice []T, match func(T) bool) bool {
	return slices.ContainsFunc(slice, match)
}

// Filter keeps the elements for which keep returns true. Never returns nil.
func Filter[T any](slice []T, keep func(T) bool) []T {
	result := make([]T, 0, len(slice))
	for _, v := range slice {
		if keep(v) {
			result = append(result, v)
		}
	}
	return result
}

func First[T any](v []T, match func(T) bool) (T, bool) {
	for _, item := range v {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func Map[T, U any](slice []T, f func(T) U) []U {
	result := make([]U, len(slice))
	for i, v := range slice {
		result[i] = f(v)
	}
	return result
}
