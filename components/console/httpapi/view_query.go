package httpapi

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-admin-console/components/console"
	"github.com/goliatone/go-admin-console/components/listview"
)

// ErrInvalidID reports a malformed record id path segment.
var ErrInvalidID = errors.New("httpapi: invalid record id")

var filterParams = []string{console.FilterStatus, console.FilterRole, console.FilterPermission}

// UpdateFromQuery reads list parameters (search, status, role, permission,
// sort, dir, reset) from values. Absent keys leave the stored state
// untouched. A present but empty search clears the stored term. sort sets the
// key outright, with dir selecting the direction (ascending unless "desc"), so
// repeating the same query keeps the same order.
func UpdateFromQuery(values url.Values) console.ViewUpdate {
	var update console.ViewUpdate
	if values.Has("search") {
		update.Search = console.SearchFor(strings.TrimSpace(values.Get("search")))
	}
	for _, name := range filterParams {
		if !values.Has(name) {
			continue
		}
		if update.Filters == nil {
			update.Filters = map[string]string{}
		}
		update.Filters[name] = strings.TrimSpace(values.Get(name))
	}
	if key := strings.TrimSpace(values.Get("sort")); key != "" {
		update.Sort = &listview.SortConfig{Key: key, Direction: listview.ParseDirection(values.Get("dir"))}
	}
	if reset, err := strconv.ParseBool(values.Get("reset")); err == nil {
		update.Reset = reset
	}
	return update
}

// ParseID parses a record id path segment.
func ParseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
