// Package change implements ChangeStore (§4.2): the append-only, block-chained
// change log that records every ValueChange for every signal.
package change

import (
	"github.com/lachlansneff/ligeia/endian"
)

// K is the number of ValueChange records per block (CHANGES_PER_BLOCK).
// The spec pins this at 128, independent of the 16-record blocks used by
// the system this design is descended from.
const K = 128

// blockHeaderSize is the fixed size of a ChangeBlock header: an 8-byte
// delta-to-next field, a 4-byte record count, and 4 bytes of padding so
// the header (and every record region following it) lands on an 8-byte
// boundary.
const blockHeaderSize = 16

var le = endian.GetLittleEndianEngine()

// blockHeader is the decoded form of a ChangeBlock's fixed header.
//
// deltaNext is the byte distance from this block's own header offset to
// the next block's header offset in the same signal's chain, or 0 if this
// is the chain's tail. A distance is used instead of an absolute offset so
// that 0 is an unambiguous "none" sentinel: a block can never legitimately
// point at its own offset, but offset 0 of the shared backing store is a
// valid block location.
type blockHeader struct {
	deltaNext uint64
	len       uint32
}

func readBlockHeader(raw []byte) blockHeader {
	return blockHeader{
		deltaNext: le.Uint64(raw[0:8]),
		len:       le.Uint32(raw[8:12]),
	}
}

func writeBlockLen(raw []byte, length uint32) {
	le.PutUint32(raw[8:12], length)
}

func writeBlockDeltaNext(raw []byte, delta uint64) {
	le.PutUint64(raw[0:8], delta)
}

// recordSize returns the byte size of one ValueChange record for a signal
// whose packed logic payload is packedLen bytes per change: a 4-byte
// timestep index followed by the packed logic payload.
func recordSize(packedLen int) int {
	return 4 + packedLen
}

// blockSize returns the total byte size of one ChangeBlock (header plus K
// records) for a signal whose records are recSize bytes each.
func blockSize(recSize int) int {
	return blockHeaderSize + K*recSize
}
