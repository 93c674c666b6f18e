package hdr

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// ContentHash returns a cheap, non-cryptographic digest over h's bounds and
// counts. Two histograms with the same ContentHash are very likely (but
// not certain, per xxhash's collision properties) to be Equal; a
// differing hash always implies they are not Equal. Intended as an O(n)
// pre-check that lets callers skip a second, more expensive O(n) Equals
// comparison in the common case — grounded on the teacher's
// hash.go/signature.go, which hash a label set (with fnv there; xxhash
// here) before falling back to a full comparison.
func (h *Histogram[C]) ContentHash() uint64 {
	d := xxhash.New()
	var buf [24]byte
	binary.BigEndian.PutUint64(buf[0:8], h.low)
	binary.BigEndian.PutUint64(buf[8:16], h.high)
	binary.BigEndian.PutUint64(buf[16:24], uint64(h.sigfigs))
	_, _ = d.Write(buf[:])

	var cbuf [8]byte
	for _, c := range h.counts {
		binary.BigEndian.PutUint64(cbuf[:], toUint64(c))
		_, _ = d.Write(cbuf[:])
	}
	return d.Sum64()
}
