package quicklist

import (
	"fmt"

	"github.com/golang/snappy"
)

const (
	// minCompressBytes is the smallest raw payload worth handing to the
	// compressor; below this the header overhead eats any savings.
	minCompressBytes = 48

	// minCompressImprove is the minimum number of bytes a compressed
	// blob must save for the node to switch to the compressed form.
	minCompressImprove = 8
)

// Compressor is the reversible byte-blob transform behind cold-node
// compression. Compress reports ok=false when compressing would not
// shrink the payload usefully, in which case the node stays raw.
// Decompress must reproduce the input of Compress exactly; rawSize is
// the expected size of the recovered payload.
type Compressor interface {
	Compress(raw []byte) (blob []byte, ok bool)
	Decompress(blob []byte, rawSize int) ([]byte, error)
}

// snappyCompressor is the default Compressor.
type snappyCompressor struct{}

func (snappyCompressor) Compress(raw []byte) ([]byte, bool) {
	blob := snappy.Encode(nil, raw)
	if len(blob)+minCompressImprove >= len(raw) {
		return nil, false
	}
	return blob, true
}

func (snappyCompressor) Decompress(blob []byte, rawSize int) ([]byte, error) {
	raw, err := snappy.Decode(nil, blob)
	if err != nil {
		return nil, err
	}
	if len(raw) != rawSize {
		return nil, fmt.Errorf("quicklist: decompressed %d bytes, want %d",
			len(raw), rawSize)
	}
	return raw, nil
}
