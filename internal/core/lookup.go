package core

import (
	"slices"
	"strings"

	"github.com/jmylchreest/uisync/internal/engine"
)

// LookupByKey finds an entry by its exact key.
// Returns nil if not found.
func LookupByKey(values []engine.KeyValue, key string) *engine.KeyValue {
	for i := range values {
		if values[i].Key == key {
			return &values[i]
		}
	}
	return nil
}

// LookupByIndex finds an entry by its 1-based index.
// Returns nil if index is out of bounds.
func LookupByIndex(values []engine.KeyValue, index int) *engine.KeyValue {
	idx := index - 1
	if idx < 0 || idx >= len(values) {
		return nil
	}
	return &values[idx]
}

// Search finds entries whose key or value contains term, case-insensitively.
func Search(values []engine.KeyValue, term string) []engine.KeyValue {
	if term == "" {
		return values
	}

	term = strings.ToLower(term)
	var result []engine.KeyValue
	for _, kv := range values {
		if strings.Contains(strings.ToLower(kv.Key), term) ||
			strings.Contains(strings.ToLower(kv.Value), term) {
			result = append(result, kv)
		}
	}
	return result
}

// Query applies query as a filter expression when it parses as one and as
// plain search text otherwise.
func Query(values []engine.KeyValue, query string) []engine.KeyValue {
	if IsFilterExpression(query) {
		expr, _ := ParseFilter(query)
		return FilterWithExpr(values, expr)
	}
	return Search(values, query)
}

// UniqueItems returns the sorted distinct item paths of values.
func UniqueItems(values []engine.KeyValue) []string {
	seen := make(map[string]bool)
	var items []string
	for _, kv := range values {
		item, _ := SplitKey(kv.Key)
		if item != "" && !seen[item] {
			seen[item] = true
			items = append(items, item)
		}
	}
	slices.SortFunc(items, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return items
}
