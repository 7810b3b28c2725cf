package engine

import (
	"slices"
	"strings"
)

// keyStore is the raw key/value mapping. A key exists once it has been
// bound or updated, and is never removed.
type keyStore struct {
	values map[string]string
}

func newKeyStore() keyStore {
	return keyStore{values: make(map[string]string)}
}

func (s *keyStore) get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *keyStore) has(key string) bool {
	_, ok := s.values[key]
	return ok
}

func (s *keyStore) set(key, value string) {
	s.values[key] = value
}

func (s *keyStore) len() int {
	return len(s.values)
}

// KeyValue is one entry of a values dump.
type KeyValue struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// matching returns entries whose key contains filter, case-insensitively,
// sorted by key. An empty filter matches everything.
func (s *keyStore) matching(filter string, skip func(string) bool) []KeyValue {
	filter = strings.ToLower(filter)
	out := make([]KeyValue, 0, len(s.values))
	for k, v := range s.values {
		if skip != nil && skip(k) {
			continue
		}
		if filter == "" || strings.Contains(strings.ToLower(k), filter) {
			out = append(out, KeyValue{Key: k, Value: v})
		}
	}
	slices.SortFunc(out, func(a, b KeyValue) int {
		return strings.Compare(a.Key, b.Key)
	})
	return out
}
