// Package listview derives the rows a list screen displays from an in-memory
// collection. It composes a free text search, categorical filters and a single
// key sort, and never mutates the source collection.
package listview

import (
	"maps"
	"strings"

	"github.com/ettle/strcase"
)

// Accessor extracts a single string value used for sorting or equality filters.
type Accessor[T any] func(T) string

// TextField extracts every searchable value a record exposes for a field.
type TextField[T any] func(T) []string

// Text adapts a single value accessor into a searchable field.
func Text[T any](accessor Accessor[T]) TextField[T] {
	return func(item T) []string {
		return []string{accessor(item)}
	}
}

// Schema binds logical field names to typed accessors for one record type.
type Schema[T any] struct {
	Search  []TextField[T]
	Sort    map[string]Accessor[T]
	Filters map[string]Predicate[T]
}

// Sortable reports whether key names a sortable field.
func (s Schema[T]) Sortable(key string) bool {
	_, ok := s.Sort[NormalizeKey(key)]
	return ok
}

// Filterable reports whether name names a categorical filter.
func (s Schema[T]) Filterable(name string) bool {
	_, ok := s.Filters[NormalizeKey(name)]
	return ok
}

// ViewState is the serializable per-screen state driving Apply.
type ViewState struct {
	Search  string            `json:"search" yaml:"search"`
	Filters map[string]string `json:"filters,omitempty" yaml:"filters,omitempty"`
	Sort    SortConfig        `json:"sort" yaml:"sort"`
}

// WithSearch returns a copy of the state using term.
func (v ViewState) WithSearch(term string) ViewState {
	out := v.clone()
	out.Search = term
	return out
}

// WithFilter returns a copy of the state with filter name set to value.
// Passing the sentinel or an empty value clears the filter.
func (v ViewState) WithFilter(name, value string) ViewState {
	out := v.clone()
	name = NormalizeKey(name)
	if Disabled(value) {
		delete(out.Filters, name)
		return out
	}
	if out.Filters == nil {
		out.Filters = map[string]string{}
	}
	out.Filters[name] = value
	return out
}

// ToggleSort returns a copy of the state with the sort toggled on key.
func (v ViewState) ToggleSort(key string) ViewState {
	out := v.clone()
	out.Sort = v.Sort.Toggle(key)
	return out
}

// WithSort returns a copy of the state sorted by cfg. Unlike ToggleSort the
// result does not depend on the previous sort.
func (v ViewState) WithSort(cfg SortConfig) ViewState {
	out := v.clone()
	out.Sort = SortConfig{Key: NormalizeKey(cfg.Key), Direction: cfg.direction()}
	if out.Sort.Key == "" {
		out.Sort = SortConfig{}
	}
	return out
}

// Filter returns the active value for name or the sentinel.
func (v ViewState) Filter(name string) string {
	if value, ok := v.Filters[NormalizeKey(name)]; ok && !Disabled(value) {
		return value
	}
	return All
}

func (v ViewState) clone() ViewState {
	out := v
	out.Filters = maps.Clone(v.Filters)
	return out
}

// Apply sorts a copy of items by the configured key and then keeps the records
// matching the search term and every active filter. An unknown sort key leaves
// the insertion order untouched. The result is never nil.
func Apply[T any](items []T, schema Schema[T], state ViewState) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)

	if state.Sort.Active() {
		if accessor, ok := schema.Sort[NormalizeKey(state.Sort.Key)]; ok {
			sortStable(sorted, accessor, state.Sort.direction())
		}
	}

	term := strings.ToLower(state.Search)
	result := make([]T, 0, len(sorted))
	for _, item := range sorted {
		if !matchesSearch(item, schema.Search, term) {
			continue
		}
		if !matchesFilters(item, schema.Filters, state.Filters) {
			continue
		}
		result = append(result, item)
	}
	return result
}

// Distinct returns the values produced by accessor in first-seen order,
// skipping empty strings.
func Distinct[T any](items []T, accessor Accessor[T]) []string {
	seen := make(map[string]struct{}, len(items))
	values := make([]string, 0, len(items))
	for _, item := range items {
		value := accessor(item)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}
	return values
}

// NormalizeKey maps caller supplied field names (Name, createdAt, created-at)
// onto the snake_case keys used by schemas.
func NormalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	return strcase.ToSnake(key)
}
