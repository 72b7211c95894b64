package quicklist

// Iterator is a stateful cursor over a list. It holds a non-owning
// reference and must not outlive the list. While the cursor sits on a
// compressed node the node is held open; it goes back to rest when the
// cursor leaves it or the iterator is closed.
type Iterator struct {
	list      *QuickList
	current   *node
	offset    int
	direction Direction
}

// Iterator returns a cursor starting at the chosen end.
func (l *QuickList) Iterator(direction Direction) *Iterator {
	it := &Iterator{list: l, direction: direction}
	if direction == FromHead {
		it.current = l.head
	} else {
		it.current = l.tail
		if l.tail != nil {
			it.offset = l.tail.count - 1
		}
	}
	return it
}

// IteratorAt returns a cursor positioned on the entry at idx, moving in
// the given direction from there.
func (l *QuickList) IteratorAt(direction Direction, idx int) (*Iterator, bool) {
	e, ok := l.Index(idx)
	if !ok {
		return nil, false
	}
	return &Iterator{
		list:      l,
		current:   e.node,
		offset:    e.offset,
		direction: direction,
	}, true
}

// Next fills e with the entry under the cursor and advances, crossing
// node boundaries transparently. It reports false once the cursor runs
// off the end.
func (it *Iterator) Next(e *Entry) bool {
	cur := it.current
	if cur == nil {
		return false
	}
	l := it.list

	if it.offset >= 0 && it.offset < cur.count {
		l.decompressNodeForUse(cur)

		e.node = cur
		e.offset = it.offset
		e.Value, _ = cur.zl.EntryAt(it.offset)

		if it.direction == FromHead {
			it.offset++
		} else {
			it.offset--
		}
		return true
	}

	// Leaving the node: put it back at rest if it was opened.
	l.recompressOnly(cur)

	if it.direction == FromHead {
		it.current = cur.next
		it.offset = 0
	} else {
		it.current = cur.prev
		if it.current != nil {
			it.offset = it.current.count - 1
		}
	}
	return it.Next(e)
}

// Close releases the cursor, re-compressing the node it was holding
// open. Using the iterator afterwards is not allowed.
func (it *Iterator) Close() {
	if it.current != nil {
		it.list.compress(it.current)
	}
	it.current = nil
}

// DelEntry deletes the entry the iterator just returned. This is the
// only structural mutation that keeps the cursor valid; any other
// insert or delete invalidates its offset bookkeeping.
func (l *QuickList) DelEntry(it *Iterator, e *Entry) {
	prev := e.node.prev
	next := e.node.next

	l.decompressNodeForUse(e.node)
	gone := l.delIndex(e.node, e.offset)

	if gone {
		if it.direction == FromHead {
			it.current = next
			it.offset = 0
		} else {
			it.current = prev
			if prev != nil {
				it.offset = prev.count - 1
			}
		}
		return
	}

	// Entries after the deleted one shifted left; pull the cursor back
	// so the next advance lands on the successor.
	if it.direction == FromHead {
		it.offset = e.offset
	} else {
		it.offset = e.offset - 1
	}
}
