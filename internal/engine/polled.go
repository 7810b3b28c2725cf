package engine

import (
	"slices"
	"strings"
)

// polledKeySet counts registrations of keys the host must push every frame.
// dirty is set on 0->1 and 1->0 transitions and cleared when serialized.
type polledKeySet struct {
	counts map[string]int
	dirty  bool
}

func newPolledKeySet() polledKeySet {
	return polledKeySet{counts: make(map[string]int)}
}

func (p *polledKeySet) register(key string) {
	p.counts[key]++
	if p.counts[key] == 1 {
		p.dirty = true
	}
}

// unregister reports false if key was not registered.
func (p *polledKeySet) unregister(key string) bool {
	n, ok := p.counts[key]
	if !ok {
		return false
	}
	if n <= 1 {
		delete(p.counts, key)
		p.dirty = true
		return true
	}
	p.counts[key] = n - 1
	return true
}

// take returns the sorted membership joined by sep if it changed since the
// last call.
func (p *polledKeySet) take(sep string) (string, bool) {
	if !p.dirty {
		return "", false
	}
	p.dirty = false
	keys := make([]string, 0, len(p.counts))
	for k := range p.counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return strings.Join(keys, sep), true
}

func (p *polledKeySet) keys() []string {
	keys := make([]string, 0, len(p.counts))
	for k := range p.counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
