package lrucache

// none marks the absence of a slot in prev/next links and head/tail.
const none = -1

// slot is one arena cell. Links are indices into the same arena, never pointers.
type slot[K comparable, V any] struct {
	entry[K, V]
	prev int
	next int
}

// recencyList keeps every stored entry in a strict MRU -> LRU chain.
// Slots are allocated from an arena and recycled through a free list, so an
// index handed out by alloc stays valid until release is called on it.
type recencyList[K comparable, V any] struct {
	slots []slot[K, V]
	free  []int
	head  int // most recently used
	tail  int // least recently used
	n     int
}

func newRecencyList[K comparable, V any](capacity int) recencyList[K, V] {
	return recencyList[K, V]{
		slots: make([]slot[K, V], 0, min(capacity, 1024)),
		head:  none,
		tail:  none,
	}
}

// alloc stores e in a free slot and links it at the head.
func (l *recencyList[K, V]) alloc(e entry[K, V]) int {
	var i int
	if n := len(l.free); n > 0 {
		i = l.free[n-1]
		l.free = l.free[:n-1]
	} else {
		l.slots = append(l.slots, slot[K, V]{})
		i = len(l.slots) - 1
	}
	l.slots[i] = slot[K, V]{entry: e, prev: none, next: none}
	l.pushFront(i)
	return i
}

// release unlinks slot i, zeroes it so the value can be collected and puts
// it on the free list.
func (l *recencyList[K, V]) release(i int) entry[K, V] {
	l.unlink(i)
	e := l.slots[i].entry
	l.slots[i] = slot[K, V]{prev: none, next: none}
	l.free = append(l.free, i)
	return e
}

func (l *recencyList[K, V]) at(i int) *entry[K, V] {
	return &l.slots[i].entry
}

func (l *recencyList[K, V]) pushFront(i int) {
	s := &l.slots[i]
	s.prev = none
	s.next = l.head
	if l.head != none {
		l.slots[l.head].prev = i
	}
	l.head = i
	if l.tail == none {
		l.tail = i
	}
	l.n++
}

func (l *recencyList[K, V]) unlink(i int) {
	s := &l.slots[i]
	if s.prev != none {
		l.slots[s.prev].next = s.next
	} else {
		l.head = s.next
	}
	if s.next != none {
		l.slots[s.next].prev = s.prev
	} else {
		l.tail = s.prev
	}
	s.prev, s.next = none, none
	l.n--
}

func (l *recencyList[K, V]) moveToFront(i int) {
	if l.head == i {
		return
	}
	l.unlink(i)
	l.pushFront(i)
}

// back returns the least recently used slot, or none when empty.
func (l *recencyList[K, V]) back() int {
	return l.tail
}

func (l *recencyList[K, V]) count() int {
	return l.n
}

// keys walks the chain from head to tail.
func (l *recencyList[K, V]) keys() []K {
	out := make([]K, 0, l.n)
	for i := l.head; i != none; i = l.slots[i].next {
		out = append(out, l.slots[i].key)
	}
	return out
}

// reset drops every slot. The backing array is cleared before reuse so no
// value outlives Clear.
func (l *recencyList[K, V]) reset() {
	clear(l.slots)
	l.slots = l.slots[:0]
	l.free = l.free[:0]
	l.head, l.tail, l.n = none, none, 0
}
