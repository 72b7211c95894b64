package quicklist

import (
	"github.com/EricQAQ/redis/ziplist"
)

const (
	// DefaultFill bounds nodes at 8 KiB of raw payload.
	DefaultFill = -2

	maxCountFill = 32768
	minSizeFill  = -5

	// sizeSafetyLimit caps the raw node size even under a count-based
	// fill, so one node of huge entries cannot grow without bound.
	sizeSafetyLimit = 8192
)

// optLevel maps a negative fill -1..-5 to the max raw node size.
var optLevel = [...]int{4096, 8192, 16384, 32768, 65536}

// Direction selects which end an iterator or push/pop works from.
type Direction int

const (
	FromHead Direction = iota
	FromTail
)

// QuickList is a doubly-linked chain of size-bounded, optionally
// compressed packed-sequence nodes.
type QuickList struct {
	head, tail *node

	count int // total entries across all nodes
	nodes int // linked nodes

	fill          int
	compressDepth int
	compressor    Compressor
}

// New returns an empty list with the default fill and compression
// disabled.
func New() *QuickList {
	return NewWithOptions(DefaultFill, 0)
}

// NewWithOptions returns an empty list with the given fill factor and
// compress depth.
func NewWithOptions(fill, depth int) *QuickList {
	l := &QuickList{compressor: snappyCompressor{}}
	l.SetFill(fill)
	l.SetCompressDepth(depth)
	return l
}

// SetFill sets the node-capacity policy: positive fill is a max entry
// count per node, negative fill -1..-5 selects a max raw byte size of
// 4/8/16/32/64 KiB. Out-of-range values are clamped.
func (l *QuickList) SetFill(fill int) {
	if fill > maxCountFill {
		fill = maxCountFill
	} else if fill < minSizeFill {
		fill = minSizeFill
	} else if fill == 0 {
		fill = 1
	}
	l.fill = fill
}

// SetCompressDepth sets how many nodes at each end stay uncompressed.
// Depth 0 disables compression.
func (l *QuickList) SetCompressDepth(depth int) {
	if depth < 0 {
		depth = 0
	}
	l.compressDepth = depth
}

// SetCompressor swaps the compression primitive. Only safe on a list
// with no compressed nodes, i.e. before interior nodes went to rest.
func (l *QuickList) SetCompressor(c Compressor) {
	l.compressor = c
}

// Count returns the total number of entries.
func (l *QuickList) Count() int {
	return l.count
}

// NodeCount returns the number of linked nodes.
func (l *QuickList) NodeCount() int {
	return l.nodes
}

// Fill returns the configured fill factor.
func (l *QuickList) Fill() int {
	return l.fill
}

// CompressDepth returns the configured compress depth.
func (l *QuickList) CompressDepth() int {
	return l.compressDepth
}

// allowInsert reports whether n may take one more entry of sz bytes
// under the fill policy. The check always runs against the raw size,
// never the compressed one.
func (l *QuickList) allowInsert(n *node, sz int) bool {
	if n == nil {
		return false
	}
	newSize := n.size + sz + ziplist.EntryHeaderSize
	if l.fill < 0 {
		idx := -l.fill - 1
		return newSize <= optLevel[idx]
	}
	if newSize > sizeSafetyLimit {
		return false
	}
	return n.count < l.fill
}

// allowMerge reports whether the payloads of a and b fit a single node.
func (l *QuickList) allowMerge(a, b *node) bool {
	if a == nil || b == nil {
		return false
	}
	mergedSize := a.size + b.size
	if l.fill < 0 {
		idx := -l.fill - 1
		return mergedSize <= optLevel[idx]
	}
	if mergedSize > sizeSafetyLimit {
		return false
	}
	return a.count+b.count <= l.fill
}

// linkNode wires nn into the chain next to old (after or before it).
// A nil old is only legal on an empty chain.
func (l *QuickList) linkNode(old, nn *node, after bool) {
	if after {
		nn.prev = old
		if old != nil {
			nn.next = old.next
			if old.next != nil {
				old.next.prev = nn
			}
			old.next = nn
		}
		if l.tail == old {
			l.tail = nn
		}
	} else {
		nn.next = old
		if old != nil {
			nn.prev = old.prev
			if old.prev != nil {
				old.prev.next = nn
			}
			old.prev = nn
		}
		if l.head == old {
			l.head = nn
		}
	}
	if l.nodes == 0 {
		l.head = nn
		l.tail = nn
	}
	l.nodes++

	// The neighbor may have been displaced out of the uncompressed zone.
	if old != nil {
		l.compress(old)
	}
}

// delNode unlinks n from the chain and drops its entries from the
// aggregate count.
func (l *QuickList) delNode(n *node) {
	if n.next != nil {
		n.next.prev = n.prev
	}
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n == l.tail {
		l.tail = n.prev
	}
	if n == l.head {
		l.head = n.next
	}
	l.nodes--
	l.count -= n.count

	// The zone boundary moved one step inward; re-evaluate.
	l.zoneCompress(nil)
}

// delIndex removes entry idx from n and reports whether the node itself
// went away. An emptied node is unlinked unless it is the sole node.
func (l *QuickList) delIndex(n *node, idx int) bool {
	gone := false
	n.zl.DeleteRange(idx, 1)
	n.updateMeta()
	if n.count == 0 && l.nodes > 1 {
		l.delNode(n)
		gone = true
	}
	l.count--
	return gone
}

// PushHead prepends an entry, reporting whether a new head node was
// allocated for it.
func (l *QuickList) PushHead(value []byte) bool {
	origHead := l.head
	if l.allowInsert(origHead, len(value)) {
		origHead.zl.Prepend(value)
		origHead.updateMeta()
	} else {
		nn := newNode()
		nn.zl.Push(value)
		nn.updateMeta()
		l.linkNode(l.head, nn, false)
	}
	l.count++
	return origHead != l.head
}

// PushTail appends an entry, reporting whether a new tail node was
// allocated for it.
func (l *QuickList) PushTail(value []byte) bool {
	origTail := l.tail
	if l.allowInsert(origTail, len(value)) {
		origTail.zl.Push(value)
		origTail.updateMeta()
	} else {
		nn := newNode()
		nn.zl.Push(value)
		nn.updateMeta()
		l.linkNode(l.tail, nn, true)
	}
	l.count++
	return origTail != l.tail
}

// Push adds an entry at the chosen end.
func (l *QuickList) Push(value []byte, where Direction) bool {
	if where == FromHead {
		return l.PushHead(value)
	}
	return l.PushTail(value)
}

// PopHead removes and returns the first entry.
func (l *QuickList) PopHead() ([]byte, bool) {
	return l.Pop(FromHead)
}

// PopTail removes and returns the last entry.
func (l *QuickList) PopTail() ([]byte, bool) {
	return l.Pop(FromTail)
}

// Pop removes and returns the boundary entry at the chosen end. An
// empty list reports ok=false without mutating anything.
func (l *QuickList) Pop(where Direction) ([]byte, bool) {
	if l.count == 0 {
		return nil, false
	}

	var (
		n   *node
		idx int
	)
	if where == FromHead {
		n = l.head
	} else {
		n = l.tail
		idx = n.count - 1
	}

	l.decompressNodeForUse(n)
	value, _ := n.zl.EntryAt(idx)
	l.delIndex(n, idx)
	return value, true
}

// Entry is a located entry. Value is a copy of the entry bytes; node
// and offset pin the position for InsertBefore/InsertAfter/DelEntry.
// Any structural mutation other than DelEntry invalidates it.
type Entry struct {
	node   *node
	offset int

	Value []byte
}

// Index returns the entry at the given position: non-negative counts
// from the head, negative from the tail (-1 is the last entry). The
// walk accumulates per-node counts; no global index is kept because
// nodes hold varying numbers of entries.
func (l *QuickList) Index(idx int) (Entry, bool) {
	var (
		forward = idx >= 0
		seek    = idx
		n       *node
	)
	if forward {
		n = l.head
	} else {
		seek = -idx - 1
		n = l.tail
	}
	if seek >= l.count {
		return Entry{}, false
	}

	accum := 0
	for n != nil && accum+n.count <= seek {
		accum += n.count
		if forward {
			n = n.next
		} else {
			n = n.prev
		}
	}
	if n == nil {
		return Entry{}, false
	}

	e := Entry{node: n}
	if forward {
		e.offset = seek - accum
	} else {
		e.offset = n.count - 1 - (seek - accum)
	}

	// Transient access: open a compressed node, copy the value out,
	// and put it back at rest.
	wasCompressed := n.compressed()
	l.decompressNodeForUse(n)
	e.Value, _ = n.zl.EntryAt(e.offset)
	if wasCompressed {
		l.recompressOnly(n)
	}
	return e, true
}

// splitNode divides n at offset. With after set, n keeps [0..offset]
// and the new node takes the rest; otherwise the new node takes
// [0..offset-1] and n keeps [offset..]. The new node is returned
// unlinked.
func (l *QuickList) splitNode(n *node, offset int, after bool) *node {
	nn := newNode()
	if after {
		nn.zl = n.zl.Split(offset + 1)
	} else {
		tail := n.zl.Split(offset)
		nn.zl = n.zl
		n.zl = tail
	}
	n.updateMeta()
	nn.updateMeta()
	return nn
}

// mergeNodes tries to fold the nodes around center into fewer nodes
// wherever two neighbors fit the fill limit together. Called after a
// split may have left undersized nodes behind.
func (l *QuickList) mergeNodes(center *node) {
	var prev, prevPrev, next, nextNext *node
	if center.prev != nil {
		prev = center.prev
		prevPrev = center.prev.prev
	}
	if center.next != nil {
		next = center.next
		nextNext = center.next.next
	}

	if l.allowMerge(prev, prevPrev) {
		l.mergePair(prevPrev, prev)
	}
	if l.allowMerge(next, nextNext) {
		l.mergePair(next, nextNext)
	}

	target := center
	if l.allowMerge(center, center.prev) {
		target = l.mergePair(center.prev, center)
	}
	if l.allowMerge(target, target.next) {
		l.mergePair(target, target.next)
	}
}

// mergePair appends b's entries onto a and unlinks b, returning the
// surviving node.
func (l *QuickList) mergePair(a, b *node) *node {
	l.decompressNode(a)
	l.decompressNode(b)
	a.zl.Merge(b.zl)
	a.updateMeta()
	b.count = 0
	l.delNode(b)
	l.compress(a)
	return a
}

// InsertBefore inserts value immediately before the located entry.
func (l *QuickList) InsertBefore(e *Entry, value []byte) {
	l.insert(e, value, false)
}

// InsertAfter inserts value immediately after the located entry.
func (l *QuickList) InsertAfter(e *Entry, value []byte) {
	l.insert(e, value, true)
}

func (l *QuickList) insert(e *Entry, value []byte, after bool) {
	n := e.node
	if n == nil {
		// No reference entry: the value becomes the sole element.
		nn := newNode()
		nn.zl.Push(value)
		nn.updateMeta()
		l.linkNode(nil, nn, after)
		l.count++
		return
	}

	var (
		full, fullNext, fullPrev bool
		atTail, atHead           bool
	)
	if !l.allowInsert(n, len(value)) {
		full = true
	}
	if after && e.offset == n.count-1 {
		atTail = true
		if !l.allowInsert(n.next, len(value)) {
			fullNext = true
		}
	}
	if !after && e.offset == 0 {
		atHead = true
		if !l.allowInsert(n.prev, len(value)) {
			fullPrev = true
		}
	}

	switch {
	case !full && after:
		l.decompressNodeForUse(n)
		n.zl.InsertAt(e.offset+1, value)
		n.updateMeta()
		l.recompressOnly(n)

	case !full && !after:
		l.decompressNodeForUse(n)
		n.zl.InsertAt(e.offset, value)
		n.updateMeta()
		l.recompressOnly(n)

	case atTail && n.next != nil && !fullNext:
		// Full node, inserting after its last entry: spill into the
		// head of the next node.
		nn := n.next
		l.decompressNodeForUse(nn)
		nn.zl.Prepend(value)
		nn.updateMeta()
		l.recompressOnly(nn)
		l.recompressOnly(n)

	case atHead && n.prev != nil && !fullPrev:
		// Full node, inserting before its first entry: spill onto the
		// tail of the previous node.
		pn := n.prev
		l.decompressNodeForUse(pn)
		pn.zl.Push(value)
		pn.updateMeta()
		l.recompressOnly(pn)
		l.recompressOnly(n)

	case (atTail && n.next == nil || atTail && fullNext) ||
		(atHead && n.prev == nil || atHead && fullPrev):
		// Both the node and its neighbor are full (or there is no
		// neighbor): a fresh node takes the single entry.
		nn := newNode()
		nn.zl.Push(value)
		nn.updateMeta()
		l.linkNode(n, nn, after)

	default:
		// Full node, insertion point in the middle: split, then push
		// the value onto the half that keeps the insertion point.
		l.decompressNodeForUse(n)
		nn := l.splitNode(n, e.offset, after)
		if after {
			nn.zl.Prepend(value)
		} else {
			nn.zl.Push(value)
		}
		nn.updateMeta()
		l.linkNode(n, nn, after)
		l.mergeNodes(n)
	}

	l.count++
}

// ReplaceAtIndex overwrites the entry at idx with value.
func (l *QuickList) ReplaceAtIndex(idx int, value []byte) bool {
	e, ok := l.Index(idx)
	if !ok {
		return false
	}
	n := e.node
	l.decompressNodeForUse(n)
	n.zl.DeleteRange(e.offset, 1)
	n.zl.InsertAt(e.offset, value)
	n.updateMeta()
	l.compress(n)
	return true
}

// DelRange removes count entries starting at start (negative start
// counts from the tail). It reports whether anything was removed.
func (l *QuickList) DelRange(start, count int) bool {
	if count <= 0 {
		return false
	}

	extent := count
	if start >= 0 && extent > l.count-start {
		extent = l.count - start
	} else if start < 0 && extent > -start {
		extent = -start
	}

	e, ok := l.Index(start)
	if !ok {
		return false
	}

	n := e.node
	offset := e.offset
	for extent > 0 && n != nil {
		next := n.next

		var del int
		wholeNode := false
		switch {
		case offset == 0 && extent >= n.count:
			wholeNode = true
			del = n.count
		case extent >= n.count-offset:
			del = n.count - offset
		default:
			del = extent
		}

		if wholeNode {
			if l.nodes > 1 {
				l.delNode(n)
			} else {
				// Sole node: clear it in place instead of unlinking.
				l.decompressNodeForUse(n)
				n.zl = ziplist.New()
				l.count -= n.count
				n.updateMeta()
			}
		} else {
			l.decompressNodeForUse(n)
			n.zl.DeleteRange(offset, del)
			n.updateMeta()
			l.count -= del
			if n.count == 0 && l.nodes > 1 {
				l.delNode(n)
			} else {
				l.recompressOnly(n)
			}
		}

		extent -= del
		n = next
		offset = 0
	}
	return true
}

// Rotate moves the tail entry to the head.
func (l *QuickList) Rotate() {
	if l.count <= 1 {
		return
	}

	tail := l.tail
	l.decompressNodeForUse(tail)
	value, _ := tail.zl.EntryAt(tail.count - 1)

	l.PushHead(value)

	// When the list has a single node the push above landed in the same
	// node; the old tail entry is still the last one either way.
	t := l.tail
	l.decompressNodeForUse(t)
	l.delIndex(t, t.count-1)
}

// Dup returns a deep copy preserving fill, compress depth, and the
// per-node encoding states.
func (l *QuickList) Dup() *QuickList {
	dup := NewWithOptions(l.fill, l.compressDepth)
	dup.compressor = l.compressor

	for n := l.head; n != nil; n = n.next {
		nn := &node{
			size:     n.size,
			count:    n.count,
			encoding: n.encoding,
		}
		if n.compressed() {
			nn.blob = append([]byte(nil), n.blob...)
		} else {
			nn.zl = n.zl.Clone()
		}

		nn.prev = dup.tail
		if dup.tail != nil {
			dup.tail.next = nn
		} else {
			dup.head = nn
		}
		dup.tail = nn
		dup.nodes++
		dup.count += n.count
	}
	return dup
}

// AppendSequence attaches a pre-built packed sequence as a new tail
// node, taking ownership of it. This is how a list is reconstructed
// from an ordered series of node payloads.
func (l *QuickList) AppendSequence(zl *ziplist.ZipList) {
	n := newNode()
	n.zl = zl
	n.updateMeta()
	l.linkNode(l.tail, n, true)
	l.count += n.count
}

// FromSequences rebuilds a list from ordered node payloads.
func FromSequences(fill, depth int, seqs []*ziplist.ZipList) *QuickList {
	l := NewWithOptions(fill, depth)
	for _, zl := range seqs {
		l.AppendSequence(zl)
	}
	return l
}
