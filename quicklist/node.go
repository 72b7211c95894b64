package quicklist

import (
	"fmt"

	"github.com/EricQAQ/redis/ziplist"
)

// nodeEncoding tells whether a node's payload is stored raw or as a
// compressed blob.
type nodeEncoding uint8

const (
	encodingRaw nodeEncoding = iota + 1
	encodingCompressed
)

// node wraps one packed sequence plus its chain links. The list owns
// the chain; a node never frees its neighbors.
type node struct {
	prev, next *node

	zl   *ziplist.ZipList // raw payload; nil while compressed
	blob []byte           // compressed payload; nil while raw

	size  int // raw payload size in bytes, valid in both encodings
	count int // entries in the payload, valid in both encodings

	encoding   nodeEncoding
	recompress bool // decompressed for an access, must re-compress at rest
}

func newNode() *node {
	return &node{
		zl:       ziplist.New(),
		encoding: encodingRaw,
	}
}

func (n *node) compressed() bool {
	return n.encoding == encodingCompressed
}

// updateMeta refreshes the cached size/count after a raw payload
// mutation.
func (n *node) updateMeta() {
	n.size = n.zl.ByteSize()
	n.count = n.zl.EntryCount()
}

// compressNode attempts the Raw -> Compressed transition and reports
// whether it happened. Payloads too small to shrink usefully stay raw.
func (l *QuickList) compressNode(n *node) bool {
	if n == nil || n.compressed() {
		return false
	}
	n.recompress = false
	if n.size < minCompressBytes {
		return false
	}
	blob, ok := l.compressor.Compress(n.zl.Bytes())
	if !ok {
		return false
	}
	n.blob = blob
	n.zl = nil
	n.encoding = encodingCompressed
	return true
}

// decompressNode performs Compressed -> Raw. A blob that fails to
// decompress back to a well-formed payload of the recorded size is a
// consistency violation, not a recoverable condition.
func (l *QuickList) decompressNode(n *node) {
	if !n.compressed() {
		return
	}
	raw, err := l.compressor.Decompress(n.blob, n.size)
	if err != nil {
		panic(fmt.Sprintf("quicklist: corrupt compressed node: %v", err))
	}
	zl, err := ziplist.Load(raw)
	if err != nil {
		panic(fmt.Sprintf("quicklist: corrupt compressed node: %v", err))
	}
	n.zl = zl
	n.blob = nil
	n.encoding = encodingRaw
	n.recompress = false
}

// decompressNodeForUse is decompressNode plus the pending flag: the
// node was opened for a single access and must return to the
// compressed form once the access completes.
func (l *QuickList) decompressNodeForUse(n *node) {
	if n.compressed() {
		l.decompressNode(n)
		n.recompress = true
	}
}

// recompressOnly closes out a pending access without re-evaluating the
// compression zone.
func (l *QuickList) recompressOnly(n *node) {
	if n.recompress {
		l.compressNode(n)
	}
}

func (l *QuickList) compressionEnabled() bool {
	return l.compressDepth != 0
}

// zoneCompress enforces the compression-zone rule around n: the
// compressDepth nodes nearest each end are forced raw, and n itself is
// compressed when it falls outside both zones. The two nodes just past
// the zone boundaries are compressed as well, covering the node that a
// push at either end may have displaced out of the zone.
func (l *QuickList) zoneCompress(n *node) {
	if !l.compressionEnabled() || l.nodes < l.compressDepth*2 {
		return
	}

	var (
		forward = l.head
		reverse = l.tail
		inZone  = false
	)

	for depth := 0; depth < l.compressDepth; depth++ {
		l.decompressNode(forward)
		l.decompressNode(reverse)

		if forward == n || reverse == n {
			inZone = true
		}

		// The walks met: every node sits within a zone.
		if forward == reverse || forward.next == reverse {
			return
		}

		forward = forward.next
		reverse = reverse.prev
	}

	if !inZone {
		l.compressNode(n)
	}
	l.compressNode(forward)
	l.compressNode(reverse)
}

// compress is the post-operation hook for a touched node: a pending
// node just re-compresses, anything else is checked against the zone.
func (l *QuickList) compress(n *node) {
	if n != nil && n.recompress {
		l.recompressOnly(n)
		return
	}
	l.zoneCompress(n)
}
