package listview

import (
	"slices"
	"strings"
)

// All is the sentinel filter value that disables a categorical filter.
const All = "all"

// Predicate reports whether item satisfies a categorical filter set to value.
type Predicate[T any] func(item T, value string) bool

// Equals matches when the accessor value equals the selected option exactly.
func Equals[T any](accessor Accessor[T]) Predicate[T] {
	return func(item T, value string) bool {
		return accessor(item) == value
	}
}

// Contains matches when the selected option is one of the values returned by
// field (membership filter).
func Contains[T any](field TextField[T]) Predicate[T] {
	return func(item T, value string) bool {
		return slices.Contains(field(item), value)
	}
}

// Disabled reports whether a filter value means "no filter".
func Disabled(value string) bool {
	value = strings.TrimSpace(value)
	return value == "" || strings.EqualFold(value, All)
}

func matchesSearch[T any](item T, fields []TextField[T], term string) bool {
	if term == "" {
		return true
	}
	for _, field := range fields {
		for _, value := range field(item) {
			if strings.Contains(strings.ToLower(value), term) {
				return true
			}
		}
	}
	return false
}

func matchesFilters[T any](item T, predicates map[string]Predicate[T], filters map[string]string) bool {
	for name, value := range filters {
		if Disabled(value) {
			continue
		}
		predicate, ok := predicates[NormalizeKey(name)]
		if !ok {
			continue
		}
		if !predicate(item, value) {
			return false
		}
	}
	return true
}
