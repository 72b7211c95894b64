package quicklist

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// compressible returns a highly repetitive entry so snappy always wins.
func compressible(i int) []byte {
	return append(bytes.Repeat([]byte("abcdefgh"), 5),
		[]byte(fmt.Sprintf("%04d", i))...)
}

// nodeStates lists the per-node compressed flag from head to tail.
func nodeStates(l *QuickList) []bool {
	var states []bool
	for n := l.head; n != nil; n = n.next {
		states = append(states, n.compressed())
	}
	return states
}

func fillCompressible(l *QuickList, n int) {
	for i := 0; i < n; i++ {
		l.PushTail(compressible(i))
	}
}

func TestCompression_DisabledAtDepthZero(t *testing.T) {
	t.Parallel()

	l := NewWithOptions(4, 0)
	fillCompressible(l, 40)

	require.Greater(t, l.NodeCount(), 4)
	for _, compressed := range nodeStates(l) {
		assert.False(t, compressed, "depth 0 must keep every node raw")
	}
}

func TestCompression_InteriorNodesCompressAtRest(t *testing.T) {
	t.Parallel()

	for _, depth := range []int{1, 2, 3} {
		depth := depth

		t.Run(fmt.Sprintf("depth=%d", depth), func(t *testing.T) {
			t.Parallel()

			l := NewWithOptions(4, depth)
			fillCompressible(l, 40) // 10 nodes
			require.Equal(t, 10, l.NodeCount())

			states := nodeStates(l)
			for i, compressed := range states {
				distance := i
				if fromTail := len(states) - 1 - i; fromTail < distance {
					distance = fromTail
				}
				if distance < depth {
					assert.False(t, compressed, "node %d is in the zone", i)
				} else {
					assert.True(t, compressed, "node %d is interior", i)
				}
			}
		})
	}
}

func TestCompression_IndexAccessIsTransient(t *testing.T) {
	t.Parallel()

	l := NewWithOptions(4, 1)
	fillCompressible(l, 40)

	// Entry 20 sits in an interior node.
	e, ok := l.Index(20)
	require.True(t, ok)
	assert.Equal(t, compressible(20), e.Value)

	states := nodeStates(l)
	for i := 1; i < len(states)-1; i++ {
		assert.True(t, states[i], "interior node %d must be back at rest", i)
	}
}

func TestCompression_PopShiftsZone(t *testing.T) {
	t.Parallel()

	l := NewWithOptions(4, 1)
	fillCompressible(l, 16) // 4 nodes: raw, comp, comp, raw
	require.Equal(t, 4, l.NodeCount())
	require.Equal(t, []bool{false, true, true, false}, nodeStates(l))

	// Dropping the tail node pulls its compressed neighbor into the zone.
	for i := 0; i < 4; i++ {
		l.PopTail()
	}

	require.Equal(t, 3, l.NodeCount())
	states := nodeStates(l)
	assert.False(t, states[0])
	assert.False(t, states[2], "new tail must be decompressed")
}

func TestCompression_IncompressiblePayloadStaysRaw(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(99))
	l := NewWithOptions(4, 1)

	for i := 0; i < 40; i++ {
		entry := make([]byte, 44)
		rng.Read(entry)
		l.PushTail(entry)
	}

	// Snappy cannot shrink random bytes; the compressor reports
	// not-worthwhile and the nodes stay raw.
	for i, compressed := range nodeStates(l) {
		assert.False(t, compressed, "node %d", i)
	}
	checkInvariants(t, l)
}

func TestCompression_TinyPayloadStaysRaw(t *testing.T) {
	t.Parallel()

	l := NewWithOptions(1, 1) // one entry per node
	for i := 0; i < 8; i++ {
		l.PushTail([]byte("ab")) // 6 bytes raw, below minCompressBytes
	}

	for i, compressed := range nodeStates(l) {
		assert.False(t, compressed, "node %d", i)
	}
}

func TestCompression_ShortListNeverCompresses(t *testing.T) {
	t.Parallel()

	l := NewWithOptions(4, 3)
	fillCompressible(l, 20) // 5 nodes < 2*depth

	for i, compressed := range nodeStates(l) {
		assert.False(t, compressed, "node %d", i)
	}
}

func TestCompression_CorruptBlobPanics(t *testing.T) {
	t.Parallel()

	l := NewWithOptions(4, 1)
	fillCompressible(l, 40)

	var target *node
	for n := l.head; n != nil; n = n.next {
		if n.compressed() {
			target = n
			break
		}
	}
	require.NotNil(t, target)

	target.blob[0] ^= 0xff

	assert.Panics(t, func() { l.Index(20) })
}

// countingCompressor wraps the default compressor to observe calls.
type countingCompressor struct {
	inner      Compressor
	compressed int
	restored   int
}

func (c *countingCompressor) Compress(raw []byte) ([]byte, bool) {
	blob, ok := c.inner.Compress(raw)
	if ok {
		c.compressed++
	}
	return blob, ok
}

func (c *countingCompressor) Decompress(blob []byte, rawSize int) ([]byte, error) {
	c.restored++
	return c.inner.Decompress(blob, rawSize)
}

func TestSetCompressor(t *testing.T) {
	t.Parallel()

	cc := &countingCompressor{inner: snappyCompressor{}}
	l := NewWithOptions(4, 1)
	l.SetCompressor(cc)

	fillCompressible(l, 40)
	require.Greater(t, cc.compressed, 0)

	before := cc.restored
	_, ok := l.Index(20)
	require.True(t, ok)
	assert.Greater(t, cc.restored, before,
		"interior access must round-trip through the compressor")
}

func TestCompression_RoundTripPreservesContents(t *testing.T) {
	t.Parallel()

	plain := NewWithOptions(4, 0)
	packed := NewWithOptions(4, 2)
	for i := 0; i < 60; i++ {
		plain.PushTail(compressible(i))
		packed.PushTail(compressible(i))
	}

	assert.Equal(t, collect(plain, FromHead), collect(packed, FromHead))
	assert.Equal(t, collect(plain, FromTail), collect(packed, FromTail))
	checkInvariants(t, packed)
}
