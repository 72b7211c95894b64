// Package quicklist defines a doubly-linked list of packed sequence
// nodes, used to hold long sequences of byte-string entries without
// paying per-entry pointer overhead.
//
// Topology:
// --------
//
//	head                                                       tail
//	[node] <-> [node] <-> [node] <-> [node] <-> [node] <-> [node]
//	 raw        raw       compressed  compressed  raw        raw
//	           |<------- depth=2 uncompressed zone at each end ------>|
//
// Each node owns one ziplist.ZipList holding up to a configurable number
// of entries or bytes (the fill factor). A positive fill bounds the
// entry count per node (capped at 32768); a negative fill in -1..-5
// bounds the raw node size at 4/8/16/32/64 KiB.
//
// Compression:
// -----------
//
// With a compress depth N > 0 the N nodes nearest each end stay raw for
// cheap boundary access, and every interior node is compressed through a
// Compressor (snappy by default) whenever it is at rest. Any operation
// that touches a compressed node decompresses it in place, marks it
// pending, and compresses it again once the operation finishes, so the
// CPU cost of compression is only paid for interior nodes that are
// actually accessed. Compression is skipped for payloads too small to
// shrink usefully; those nodes simply stay raw.
//
// The list is a single-owner value type with no internal locking.
// Iterators hold a non-owning reference: the only structural mutation
// allowed mid-iteration is deleting the entry the cursor points at,
// through DelEntry.
package quicklist
