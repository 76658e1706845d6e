package listview

import (
	"cmp"
	"slices"
	"strings"
)

// Direction controls the sort order applied to a list.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection maps "desc" (any case) to Descending and everything else
// to Ascending.
func ParseDirection(raw string) Direction {
	if strings.EqualFold(strings.TrimSpace(raw), string(Descending)) {
		return Descending
	}
	return Ascending
}

// SortConfig selects a single sort key and its direction. An empty key keeps
// the original insertion order.
type SortConfig struct {
	Key       string    `json:"key,omitempty" yaml:"key,omitempty"`
	Direction Direction `json:"direction,omitempty" yaml:"direction,omitempty"`
}

// Active reports whether a sort key has been selected.
func (s SortConfig) Active() bool {
	return s.Key != ""
}

// Toggle returns the configuration produced by selecting key. Selecting the
// current key while ascending flips to descending; anything else resets to
// ascending on the new key.
func (s SortConfig) Toggle(key string) SortConfig {
	key = NormalizeKey(key)
	if s.Key == key && s.direction() == Ascending {
		return SortConfig{Key: key, Direction: Descending}
	}
	return SortConfig{Key: key, Direction: Ascending}
}

// Indicator mirrors the column header glyphs used by list screens.
func (s SortConfig) Indicator(key string) string {
	if s.Key != NormalizeKey(key) {
		return "↕"
	}
	if s.direction() == Descending {
		return "↓"
	}
	return "↑"
}

func (s SortConfig) direction() Direction {
	if s.Direction == Descending {
		return Descending
	}
	return Ascending
}

// sortStable orders items in place by the accessor, comparing lowercased
// values. Equal keys keep their relative order.
func sortStable[T any](items []T, accessor Accessor[T], dir Direction) {
	slices.SortStableFunc(items, func(a, b T) int {
		result := cmp.Compare(strings.ToLower(accessor(a)), strings.ToLower(accessor(b)))
		if dir == Descending {
			return -result
		}
		return result
	})
}
