package wire

import "github.com/hdrhistogram/gohdr/hdr"

// V2Serializer encodes histograms into the plain V2 wire format. It reuses
// a scratch buffer across calls to avoid a per-call allocation, the same
// resource-reuse policy spec.md calls for and the teacher's pooled-buffer
// encoders (e.g. its expfmt text encoder) follow.
type V2Serializer[C hdr.Count] struct {
	scratch []byte
}

// NewV2Serializer returns a ready-to-use plain V2 serializer.
func NewV2Serializer[C hdr.Count]() *V2Serializer[C] {
	return &V2Serializer[C]{}
}

// Serialize encodes h into the plain V2 format and returns the bytes. The
// returned slice aliases the serializer's internal scratch buffer and is
// only valid until the next call to Serialize.
func (s *V2Serializer[C]) Serialize(h *hdr.Histogram[C]) ([]byte, error) {
	var placeholder [headerLen]byte
	buf, err := encodeCounts(h, append(s.scratch[:0], placeholder[:]...))
	if err != nil {
		return nil, err
	}
	s.scratch = buf

	header{
		cookie:          cookiePlainV2,
		payloadLength:   uint32(len(buf) - headerLen),
		sigFigs:         uint32(h.SigFig()),
		low:             h.Low(),
		high:            h.High(),
		conversionRatio: 1.0,
	}.appendTo(buf[:0])

	return buf, nil
}

// encodeCounts implements the §4.5 counts-payload encoding rule: walk the
// counts array up to the index of the maximum value; a run of k >= 2
// consecutive zeros becomes zig-zag(-k); a lone zero becomes zig-zag(0);
// any positive count becomes zig-zag(count).
func encodeCounts[C hdr.Count](h *hdr.Histogram[C], buf []byte) ([]byte, error) {
	maxIdx := h.MaxPopulatedIndex()
	if maxIdx < 0 {
		return buf, nil
	}

	i := 0
	for i <= maxIdx {
		count := h.RawCountAt(i)
		if count != 0 {
			if count > 1<<63-1 {
				return nil, ErrCountNotSerializable
			}
			buf = appendVarint(buf, zigZagEncode(int64(count)))
			i++
			continue
		}

		run := 0
		for i+run <= maxIdx && h.RawCountAt(i+run) == 0 {
			run++
		}
		if run >= 2 {
			buf = appendVarint(buf, zigZagEncode(-int64(run)))
		} else {
			buf = appendVarint(buf, zigZagEncode(0))
		}
		i += run
	}
	return buf, nil
}
