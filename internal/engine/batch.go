package engine

// pendingChange records that key differs from what listeners last saw.
// suppressed, when non-nil, is the listener that caused the write.
type pendingChange struct {
	key        string
	suppressed Listener
}

// changeBatcher keeps the two aggregation disciplines apart: an ordered
// queue for local notification and a last-write-wins delta for the host.
type changeBatcher struct {
	pending []pendingChange

	outbound      map[string]string
	outboundOrder []string // first-write order of outbound keys
}

func newChangeBatcher() changeBatcher {
	return changeBatcher{outbound: make(map[string]string)}
}

func (b *changeBatcher) enqueue(key string, suppressed Listener) {
	b.pending = append(b.pending, pendingChange{key: key, suppressed: suppressed})
}

func (b *changeBatcher) stage(key, value string) {
	if _, ok := b.outbound[key]; !ok {
		b.outboundOrder = append(b.outboundOrder, key)
	}
	b.outbound[key] = value
}

// takeOutbound returns the delta as flat key/value pairs and clears it.
func (b *changeBatcher) takeOutbound() []string {
	if len(b.outboundOrder) == 0 {
		return nil
	}
	flat := make([]string, 0, len(b.outboundOrder)*2)
	for _, k := range b.outboundOrder {
		flat = append(flat, k, b.outbound[k])
	}
	b.outbound = make(map[string]string)
	b.outboundOrder = nil
	return flat
}

func (b *changeBatcher) pendingLen() int {
	return len(b.pending)
}

func (b *changeBatcher) outboundLen() int {
	return len(b.outboundOrder)
}
