// Package adlist defines a plain generic doubly-linked list: no
// adaptive encoding, one value per node, single-owner links. It backs
// the bookkeeping chains that do not need quicklist's packed nodes.
package adlist

// Node is one element of a List. The list owns the chain; nodes only
// reference their neighbors.
type Node[T any] struct {
	prev, next *Node[T]
	Value      T
}

// Prev returns the preceding node, or nil at the head.
func (n *Node[T]) Prev() *Node[T] {
	return n.prev
}

// Next returns the following node, or nil at the tail.
func (n *Node[T]) Next() *Node[T] {
	return n.next
}

// List is a doubly-linked list of T values.
type List[T any] struct {
	head, tail *Node[T]
	len        int
}

// New returns an empty list.
func New[T any]() *List[T] {
	return &List[T]{}
}

// Len returns the number of nodes.
func (l *List[T]) Len() int {
	return l.len
}

// First returns the head node, or nil when empty.
func (l *List[T]) First() *Node[T] {
	return l.head
}

// Last returns the tail node, or nil when empty.
func (l *List[T]) Last() *Node[T] {
	return l.tail
}

// PushHead prepends a value and returns its node.
func (l *List[T]) PushHead(value T) *Node[T] {
	n := &Node[T]{Value: value}
	if l.len == 0 {
		l.head = n
		l.tail = n
	} else {
		n.next = l.head
		l.head.prev = n
		l.head = n
	}
	l.len++
	return n
}

// PushTail appends a value and returns its node.
func (l *List[T]) PushTail(value T) *Node[T] {
	n := &Node[T]{Value: value}
	if l.len == 0 {
		l.head = n
		l.tail = n
	} else {
		n.prev = l.tail
		l.tail.next = n
		l.tail = n
	}
	l.len++
	return n
}

// InsertAfter places a new value right after old, which must belong to
// this list.
func (l *List[T]) InsertAfter(old *Node[T], value T) *Node[T] {
	n := &Node[T]{Value: value, prev: old, next: old.next}
	if old == l.tail {
		l.tail = n
	} else {
		old.next.prev = n
	}
	old.next = n
	l.len++
	return n
}

// InsertBefore places a new value right before old, which must belong
// to this list.
func (l *List[T]) InsertBefore(old *Node[T], value T) *Node[T] {
	n := &Node[T]{Value: value, prev: old.prev, next: old}
	if old == l.head {
		l.head = n
	} else {
		old.prev.next = n
	}
	old.prev = n
	l.len++
	return n
}

// Remove unlinks n, which must belong to this list.
func (l *List[T]) Remove(n *Node[T]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev = nil
	n.next = nil
	l.len--
}

// Search returns the first node whose value satisfies match, walking
// from the head.
func (l *List[T]) Search(match func(T) bool) *Node[T] {
	for n := l.head; n != nil; n = n.next {
		if match(n.Value) {
			return n
		}
	}
	return nil
}

// Index returns the node at the given position: non-negative from the
// head, negative from the tail (-1 is the last node). Out of range
// yields nil.
func (l *List[T]) Index(idx int) *Node[T] {
	var n *Node[T]
	if idx < 0 {
		idx = -idx - 1
		n = l.tail
		for ; idx > 0 && n != nil; idx-- {
			n = n.prev
		}
	} else {
		n = l.head
		for ; idx > 0 && n != nil; idx-- {
			n = n.next
		}
	}
	return n
}

// Rotate moves the tail node to the head.
func (l *List[T]) Rotate() {
	if l.len <= 1 {
		return
	}
	t := l.tail

	l.tail = t.prev
	l.tail.next = nil

	t.prev = nil
	t.next = l.head
	l.head.prev = t
	l.head = t
}

// Dup returns a shallow copy: the chain is new, the values are shared.
func (l *List[T]) Dup() *List[T] {
	dup := New[T]()
	for n := l.head; n != nil; n = n.next {
		dup.PushTail(n.Value)
	}
	return dup
}

// Join moves every node of other onto the tail of l, leaving other
// empty.
func (l *List[T]) Join(other *List[T]) {
	if other.len == 0 {
		return
	}
	if l.len == 0 {
		l.head = other.head
		l.tail = other.tail
	} else {
		other.head.prev = l.tail
		l.tail.next = other.head
		l.tail = other.tail
	}
	l.len += other.len
	other.head = nil
	other.tail = nil
	other.len = 0
}

// Direction selects which end an iterator starts from.
type Direction int

const (
	FromHead Direction = iota
	FromTail
)

// Iterator is a cursor over a list. Removing the node just returned by
// Next is safe; other structural changes are not.
type Iterator[T any] struct {
	next      *Node[T]
	direction Direction
}

// Iterator returns a cursor starting at the chosen end.
func (l *List[T]) Iterator(direction Direction) *Iterator[T] {
	it := &Iterator[T]{direction: direction}
	if direction == FromHead {
		it.next = l.head
	} else {
		it.next = l.tail
	}
	return it
}

// Rewind resets the cursor to the head of l.
func (it *Iterator[T]) Rewind(l *List[T]) {
	it.next = l.head
	it.direction = FromHead
}

// RewindTail resets the cursor to the tail of l.
func (it *Iterator[T]) RewindTail(l *List[T]) {
	it.next = l.tail
	it.direction = FromTail
}

// Next returns the node under the cursor and advances, or nil at the
// end. The cursor is saved before returning, so the returned node may
// be removed from the list.
func (it *Iterator[T]) Next() *Node[T] {
	n := it.next
	if n != nil {
		if it.direction == FromHead {
			it.next = n.next
		} else {
			it.next = n.prev
		}
	}
	return n
}
