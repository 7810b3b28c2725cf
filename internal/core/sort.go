package core

import (
	"cmp"
	"slices"
	"strings"

	"github.com/jmylchreest/uisync/internal/engine"
)

// SortField represents a field to sort by.
type SortField string

const (
	SortByKey   SortField = "key"
	SortByItem  SortField = "item"
	SortByValue SortField = "value"
)

// SortOrder represents ascending or descending order.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortOptions specifies sorting criteria.
type SortOptions struct {
	Field SortField
	Order SortOrder
}

// DefaultSortOptions returns default sort options (by key, ascending).
func DefaultSortOptions() SortOptions {
	return SortOptions{Field: SortByKey, Order: SortAsc}
}

// Sort sorts entries in place. Ties keep their order.
func Sort(values []engine.KeyValue, opts SortOptions) {
	slices.SortStableFunc(values, func(a, b engine.KeyValue) int {
		var c int
		switch opts.Field {
		case SortByItem:
			ia, _ := SplitKey(a.Key)
			ib, _ := SplitKey(b.Key)
			c = cmp.Compare(strings.ToLower(ia), strings.ToLower(ib))
		case SortByValue:
			c = cmp.Compare(a.Value, b.Value)
		default:
			c = cmp.Compare(a.Key, b.Key)
		}
		if opts.Order == SortDesc {
			return -c
		}
		return c
	})
}

// ParseSortField parses a sort field string.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "item", "window", "i":
		return SortByItem, nil
	case "value", "v":
		return SortByValue, nil
	default:
		return SortByKey, nil
	}
}

// ParseSortOrder parses a sort order string.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "desc", "descending", "d":
		return SortDesc, nil
	default:
		return SortAsc, nil
	}
}
