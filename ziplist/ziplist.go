// Package ziplist defines a packed sequential buffer of byte-string
// entries, used as the per-node payload of a quicklist.
//
// Layout:
// ------
//
// Entries live back to back in one contiguous buffer, each preceded by a
// fixed 4 byte little-endian length:
//
//	[ len0: u32 ][ entry0 ] [ len1: u32 ][ entry1 ] ...
//
// Positional access walks the buffer from the front, so EntryAt is O(n)
// in the entry index; the structure is meant to stay small (a quicklist
// bounds every node by count or byte size) which keeps the walks short.
//
// All returned entry values are copies; the list never aliases its
// internal buffer to callers.
package ziplist

import (
	"encoding/binary"
	"errors"
)

// EntryHeaderSize is the fixed per-entry overhead in bytes.
const EntryHeaderSize = 4

// ErrCorrupt is returned by Load when a blob does not parse as a
// well-formed entry sequence.
var ErrCorrupt = errors.New("ziplist: corrupt blob")

// ZipList is a packed sequence of byte-string entries.
type ZipList struct {
	buf   []byte
	count int
}

// New returns an empty list.
func New() *ZipList {
	return &ZipList{}
}

// EntryCount returns the number of entries.
func (zl *ZipList) EntryCount() int {
	return zl.count
}

// ByteSize returns the total packed size in bytes, headers included.
func (zl *ZipList) ByteSize() int {
	return len(zl.buf)
}

// offsetOf returns the byte offset of entry idx. idx == count yields
// len(buf), the append position.
func (zl *ZipList) offsetOf(idx int) int {
	off := 0
	for i := 0; i < idx; i++ {
		off += EntryHeaderSize + int(binary.LittleEndian.Uint32(zl.buf[off:]))
	}
	return off
}

func encodeEntry(e []byte) []byte {
	packed := make([]byte, EntryHeaderSize+len(e))
	binary.LittleEndian.PutUint32(packed, uint32(len(e)))
	copy(packed[EntryHeaderSize:], e)
	return packed
}

// Push appends an entry at the end.
func (zl *ZipList) Push(e []byte) {
	zl.buf = append(zl.buf, encodeEntry(e)...)
	zl.count++
}

// Prepend inserts an entry at the front.
func (zl *ZipList) Prepend(e []byte) {
	zl.buf = append(encodeEntry(e), zl.buf...)
	zl.count++
}

// InsertAt inserts an entry so that it becomes entry idx. idx may equal
// EntryCount, which appends. Out-of-range indexes report false.
func (zl *ZipList) InsertAt(idx int, e []byte) bool {
	if idx < 0 || idx > zl.count {
		return false
	}

	packed := encodeEntry(e)
	off := zl.offsetOf(idx)

	zl.buf = append(zl.buf, packed...) // grow
	copy(zl.buf[off+len(packed):], zl.buf[off:])
	copy(zl.buf[off:], packed)
	zl.count++
	return true
}

// DeleteRange removes up to n entries starting at idx and returns how
// many were removed.
func (zl *ZipList) DeleteRange(idx, n int) int {
	if idx < 0 || idx >= zl.count || n <= 0 {
		return 0
	}
	if idx+n > zl.count {
		n = zl.count - idx
	}

	start := zl.offsetOf(idx)
	end := start
	for i := 0; i < n; i++ {
		end += EntryHeaderSize + int(binary.LittleEndian.Uint32(zl.buf[end:]))
	}

	zl.buf = append(zl.buf[:start], zl.buf[end:]...)
	zl.count -= n
	return n
}

// EntryAt returns a copy of entry idx.
func (zl *ZipList) EntryAt(idx int) ([]byte, bool) {
	if idx < 0 || idx >= zl.count {
		return nil, false
	}

	off := zl.offsetOf(idx)
	size := int(binary.LittleEndian.Uint32(zl.buf[off:]))
	e := make([]byte, size)
	copy(e, zl.buf[off+EntryHeaderSize:])
	return e, true
}

// Split detaches the entries [idx, EntryCount) into a new list, leaving
// [0, idx) in the receiver.
func (zl *ZipList) Split(idx int) *ZipList {
	if idx < 0 {
		idx = 0
	}
	if idx > zl.count {
		idx = zl.count
	}

	off := zl.offsetOf(idx)
	tail := &ZipList{
		buf:   append([]byte(nil), zl.buf[off:]...),
		count: zl.count - idx,
	}
	zl.buf = zl.buf[:off]
	zl.count = idx
	return tail
}

// Merge appends every entry of other to the receiver. The argument is
// not modified.
func (zl *ZipList) Merge(other *ZipList) {
	zl.buf = append(zl.buf, other.buf...)
	zl.count += other.count
}

// Clone returns a deep copy.
func (zl *ZipList) Clone() *ZipList {
	return &ZipList{
		buf:   append([]byte(nil), zl.buf...),
		count: zl.count,
	}
}

// Bytes returns a copy of the packed buffer. A blob fed back through
// Load reproduces the list exactly.
func (zl *ZipList) Bytes() []byte {
	return append([]byte(nil), zl.buf...)
}

// Load parses a packed buffer produced by Bytes, validating that the
// entry headers cover the blob exactly.
func Load(blob []byte) (*ZipList, error) {
	count := 0
	for off := 0; off < len(blob); count++ {
		if off+EntryHeaderSize > len(blob) {
			return nil, ErrCorrupt
		}
		size := int(binary.LittleEndian.Uint32(blob[off:]))
		off += EntryHeaderSize + size
		if off > len(blob) {
			return nil, ErrCorrupt
		}
	}
	return &ZipList{
		buf:   append([]byte(nil), blob...),
		count: count,
	}, nil
}
