// Package intset defines a sorted set of signed integers packed into a
// single contiguous byte buffer.
//
// Every element occupies the same number of bytes, chosen from three
// fixed widths:
//
//	EncInt16 - 2 bytes, values in [-32768, 32767]
//	EncInt32 - 4 bytes, values in [-2147483648, 2147483647]
//	EncInt64 - 8 bytes, everything else
//
// A set starts at EncInt16 and upgrades in place the first time a value
// outside the current range is added. Upgrades are one-way: removing the
// value that forced the upgrade does not narrow the encoding back.
//
// Buffer layout:
// -------------
//
// Elements are stored little-endian regardless of the host architecture,
// strictly ascending, with no duplicates:
//
//	[ elem 0 ][ elem 1 ] ... [ elem N-1 ]
//	 <width>   <width>        <width>
//
// The serialized form produced by Bytes prepends an 8 byte header:
//
//	[ encoding: u32 LE ][ length: u32 LE ][ elements ... ]
//
// which makes the blob copyable verbatim between little-endian and
// big-endian hosts.
//
// The set is a plain value type with no internal locking; callers that
// share one across goroutines must serialize access themselves.
package intset
