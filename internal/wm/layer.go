package wm

import "github.com/jmylchreest/uisync/internal/orderedset"

// layer is one z class: windows ordered from bottom (oldest activation)
// to top.
type layer struct {
	zClass  int
	members *orderedset.Set[Window]
}

func (m *Manager) layer(zClass int) *layer {
	l, ok := m.layers[zClass]
	if !ok {
		l = &layer{zClass: zClass, members: orderedset.New[Window]()}
		m.layers[zClass] = l
	}
	return l
}

func (m *Manager) zIndex(zClass, count int) int {
	return zClass*m.cfg.ZClassMultiplier + count*m.cfg.ZCountMultiplier
}

// renumber assigns z-indices to every member of l in order, starting at 1.
func (m *Manager) renumber(l *layer) {
	count := 0
	for w := range l.members.All() {
		count++
		w.SetZIndex(m.zIndex(l.zClass, count))
	}
}
