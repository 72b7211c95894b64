package intset

import (
	"encoding/binary"
	"errors"
	"math"
	"math/rand"
)

// Encoding is the byte width of every element currently stored in a set.
// The three variants are ordered, so a required encoding can be compared
// numerically against the current one.
type Encoding uint32

const (
	EncInt16 Encoding = 2
	EncInt32 Encoding = 4
	EncInt64 Encoding = 8
)

const headerSize = 8 // encoding u32 + length u32

var (
	// ErrEmptySet is returned by Random on a set with no elements.
	ErrEmptySet = errors.New("intset: empty set")
	// ErrBadHeader is returned by Load for an unknown encoding value.
	ErrBadHeader = errors.New("intset: bad blob header")
	// ErrBadLength is returned by Load when the blob size does not match
	// the header.
	ErrBadLength = errors.New("intset: blob length mismatch")
)

// IntSet is a sorted, duplicate-free set of int64 values packed at the
// smallest fixed width that covers every stored value.
type IntSet struct {
	encoding Encoding
	contents []byte // Len() elements, each encoding bytes, little-endian
}

// New returns an empty set at the narrowest encoding.
func New() *IntSet {
	return &IntSet{encoding: EncInt16}
}

// valueEncoding returns the narrowest encoding able to hold v.
func valueEncoding(v int64) Encoding {
	switch {
	case v < math.MinInt32 || v > math.MaxInt32:
		return EncInt64
	case v < math.MinInt16 || v > math.MaxInt16:
		return EncInt32
	default:
		return EncInt16
	}
}

// Len returns the number of elements in the set.
func (is *IntSet) Len() int {
	return len(is.contents) / int(is.encoding)
}

// Encoding returns the current element width.
func (is *IntSet) Encoding() Encoding {
	return is.encoding
}

// getEncoded reads the element at pos assuming width enc. It is the only
// reader used during an upgrade, where the buffer still holds old-width
// elements past the rewrite point.
func (is *IntSet) getEncoded(pos int, enc Encoding) int64 {
	off := pos * int(enc)
	switch enc {
	case EncInt64:
		return int64(binary.LittleEndian.Uint64(is.contents[off:]))
	case EncInt32:
		return int64(int32(binary.LittleEndian.Uint32(is.contents[off:])))
	default:
		return int64(int16(binary.LittleEndian.Uint16(is.contents[off:])))
	}
}

func (is *IntSet) get(pos int) int64 {
	return is.getEncoded(pos, is.encoding)
}

func (is *IntSet) set(pos int, v int64) {
	off := pos * int(is.encoding)
	switch is.encoding {
	case EncInt64:
		binary.LittleEndian.PutUint64(is.contents[off:], uint64(v))
	case EncInt32:
		binary.LittleEndian.PutUint32(is.contents[off:], uint32(int32(v)))
	default:
		binary.LittleEndian.PutUint16(is.contents[off:], uint16(int16(v)))
	}
}

// resize grows or shrinks the buffer to hold n elements at the current
// encoding, preserving the common prefix.
func (is *IntSet) resize(n int) {
	size := n * int(is.encoding)
	if size <= cap(is.contents) {
		is.contents = is.contents[:size]
		return
	}
	grown := make([]byte, size)
	copy(grown, is.contents)
	is.contents = grown
}

// search locates v in the sorted buffer. It returns the element position
// when found, or the position where v would be inserted otherwise.
//
// The boundary checks before the binary search are not just a fast path:
// append-heavy and prepend-heavy workloads dominate in practice, and both
// resolve in O(1) here.
func (is *IntSet) search(v int64) (pos int, found bool) {
	length := is.Len()
	if length == 0 {
		return 0, false
	}
	if v > is.get(length-1) {
		return length, false
	}
	if v < is.get(0) {
		return 0, false
	}

	min, max := 0, length-1
	for min <= max {
		mid := int(uint(min+max) >> 1)
		cur := is.get(mid)
		switch {
		case v > cur:
			min = mid + 1
		case v < cur:
			max = mid - 1
		default:
			return mid, true
		}
	}
	return min, false
}

// upgradeAndAdd widens every element to the encoding required by v and
// inserts v at the matching boundary. An upgrade is only ever triggered
// by a value outside the old range, so v is either the new minimum
// (negative) or the new maximum (non-negative) and no search is needed.
func (is *IntSet) upgradeAndAdd(v int64) {
	curenc := is.encoding
	length := is.Len()
	prepend := 0
	if v < 0 {
		prepend = 1
	}

	is.encoding = valueEncoding(v)
	is.resize(length + 1)

	// Rewrite back-to-front so no not-yet-converted element is overwritten.
	for i := length - 1; i >= 0; i-- {
		is.set(i+prepend, is.getEncoded(i, curenc))
	}

	if prepend == 1 {
		is.set(0, v)
	} else {
		is.set(length, v)
	}
}

// moveTail shifts the elements [from, Len) to start at position to.
// The buffer must already be sized for the result.
func (is *IntSet) moveTail(from, to, length int) {
	w := int(is.encoding)
	copy(is.contents[to*w:], is.contents[from*w:length*w])
}

// Add inserts v, keeping the buffer sorted. It reports whether the set
// changed; adding a value already present is a no-op.
func (is *IntSet) Add(v int64) bool {
	if valueEncoding(v) > is.encoding {
		// Always succeeds: v lies outside the representable range of the
		// current encoding, so it cannot be present.
		is.upgradeAndAdd(v)
		return true
	}

	pos, found := is.search(v)
	if found {
		return false
	}

	length := is.Len()
	is.resize(length + 1)
	if pos < length {
		is.moveTail(pos, pos+1, length)
	}
	is.set(pos, v)
	return true
}

// Remove deletes v from the set and reports whether it was present.
// The encoding never narrows, even if the widest element is removed.
func (is *IntSet) Remove(v int64) bool {
	if valueEncoding(v) > is.encoding {
		return false
	}
	pos, found := is.search(v)
	if !found {
		return false
	}

	length := is.Len()
	if pos < length-1 {
		is.moveTail(pos+1, pos, length)
	}
	is.resize(length - 1)
	return true
}

// Find reports whether v is in the set.
func (is *IntSet) Find(v int64) bool {
	if valueEncoding(v) > is.encoding {
		return false
	}
	_, found := is.search(v)
	return found
}

// Get returns the element at pos in sorted order.
func (is *IntSet) Get(pos int) (int64, bool) {
	if pos < 0 || pos >= is.Len() {
		return 0, false
	}
	return is.get(pos), true
}

// Random returns an element at a uniformly random position.
func (is *IntSet) Random() (int64, error) {
	length := is.Len()
	if length == 0 {
		return 0, ErrEmptySet
	}
	return is.get(rand.Intn(length)), nil
}

// BlobLen returns the serialized size in bytes: header plus elements.
func (is *IntSet) BlobLen() int {
	return headerSize + len(is.contents)
}

// Bytes serializes the set. The layout is fixed little-endian:
// [encoding u32][length u32][elements], identical on every host.
func (is *IntSet) Bytes() []byte {
	blob := make([]byte, headerSize+len(is.contents))
	binary.LittleEndian.PutUint32(blob[0:], uint32(is.encoding))
	binary.LittleEndian.PutUint32(blob[4:], uint32(is.Len()))
	copy(blob[headerSize:], is.contents)
	return blob
}

// Load parses a blob produced by Bytes. The returned set does not alias
// the input.
func Load(blob []byte) (*IntSet, error) {
	if len(blob) < headerSize {
		return nil, ErrBadHeader
	}
	enc := Encoding(binary.LittleEndian.Uint32(blob[0:]))
	switch enc {
	case EncInt16, EncInt32, EncInt64:
	default:
		return nil, ErrBadHeader
	}
	length := int(binary.LittleEndian.Uint32(blob[4:]))
	if len(blob) != headerSize+length*int(enc) {
		return nil, ErrBadLength
	}

	is := &IntSet{
		encoding: enc,
		contents: make([]byte, length*int(enc)),
	}
	copy(is.contents, blob[headerSize:])
	return is, nil
}
