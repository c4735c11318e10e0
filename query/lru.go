package query

import "container/list"

// idleList tracks entries that no scope observes, least recently released
// last. It is guarded by Cache.mu.
type idleList struct {
	size  int
	order *list.List
	items map[Key]*list.Element
}

func newIdleList(size int) *idleList {
	return &idleList{
		size:  size,
		order: list.New(),
		items: make(map[Key]*list.Element),
	}
}

// add marks key idle and returns the keys pushed out by the size limit.
func (l *idleList) add(key Key) []Key {
	if node, ok := l.items[key]; ok {
		l.order.MoveToFront(node)
		return nil
	}
	l.items[key] = l.order.PushFront(key)

	var evicted []Key
	for l.order.Len() > l.size {
		oldest := l.order.Back()
		l.order.Remove(oldest)
		k := oldest.Value.(Key)
		delete(l.items, k)
		evicted = append(evicted, k)
	}
	return evicted
}

// remove takes key off the idle list, typically because it is observed again.
func (l *idleList) remove(key Key) {
	if node, ok := l.items[key]; ok {
		l.order.Remove(node)
		delete(l.items, key)
	}
}

func (l *idleList) len() int {
	return l.order.Len()
}
