package hdr

// MaxPopulatedIndex returns the highest counts-array index holding a
// nonzero count, or -1 if nothing has been recorded. A binary serializer
// uses this to stop encoding once the trailing zero run need not be
// written at all.
func (h *Histogram[C]) MaxPopulatedIndex() int {
	for i := len(h.counts) - 1; i >= 0; i-- {
		if h.counts[i] != 0 {
			return i
		}
	}
	return -1
}

// RawCountAt returns the count stored at counts-array index i, widened to
// uint64.
func (h *Histogram[C]) RawCountAt(i int) uint64 {
	return toUint64(h.counts[i])
}

// MaxCount is the largest value representable by C, widened to uint64. A
// deserializer uses this to detect a decoded count that would overflow the
// target counter type.
func (h *Histogram[C]) MaxCount() uint64 {
	return toUint64(maxCount[C]())
}

// SetCountAt overwrites the raw count at counts-array index i. v must not
// exceed MaxCount(); callers that need overflow detection check MaxCount()
// themselves first. Does not update totalCount, min, or max — call
// RecomputeAggregates once the whole array has been populated.
func (h *Histogram[C]) SetCountAt(i int, v uint64) {
	h.counts[i] = C(v)
}

// RecomputeAggregates restores totalCount, min, and max from the current
// contents of the counts array. Exported so a deserializer can populate
// counts directly via SetCountAt and then finalize the histogram's
// aggregates in one O(n) pass, exactly as Subtract does internally.
func (h *Histogram[C]) RecomputeAggregates() {
	h.recomputeAggregates()
}
