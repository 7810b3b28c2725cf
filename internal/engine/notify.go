package engine

import "github.com/jmylchreest/uisync/internal/orderedset"

// Listener reacts to changes of the keys it is bound to.
// Implementations must be comparable (typically a pointer); identity is
// what links a listener to its keys. Item is informational only.
type Listener interface {
	Updated()
	Item() string
}

// notificationIndex links keys and listeners in both directions so that
// fan-out costs O(listeners for key) and teardown O(keys for listener).
type notificationIndex struct {
	byKey      map[string]*orderedset.Set[Listener]
	byListener map[Listener]map[string]struct{}
}

func newNotificationIndex() notificationIndex {
	return notificationIndex{
		byKey:      make(map[string]*orderedset.Set[Listener]),
		byListener: make(map[Listener]map[string]struct{}),
	}
}

// add links l to key. Adding an existing link is a no-op.
func (n *notificationIndex) add(key string, l Listener) {
	set, ok := n.byKey[key]
	if !ok {
		set = orderedset.New[Listener]()
		n.byKey[key] = set
	}
	set.Add(l)

	keys, ok := n.byListener[l]
	if !ok {
		keys = make(map[string]struct{})
		n.byListener[l] = keys
	}
	keys[key] = struct{}{}
}

// remove drops every link of l and returns how many were dropped.
func (n *notificationIndex) remove(l Listener) int {
	keys, ok := n.byListener[l]
	if !ok {
		return 0
	}
	for key := range keys {
		set := n.byKey[key]
		if set == nil {
			continue
		}
		set.Remove(l)
		if set.Len() == 0 {
			delete(n.byKey, key)
		}
	}
	delete(n.byListener, l)
	return len(keys)
}

// listeners returns a stable copy of the listeners for key, oldest first.
func (n *notificationIndex) listeners(key string) []Listener {
	set, ok := n.byKey[key]
	if !ok {
		return nil
	}
	return set.Values()
}
