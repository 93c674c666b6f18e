// Package hdr implements a fixed-footprint high-dynamic-range histogram: a
// data structure that records counts of integer samples across a very
// large value range while guaranteeing a configurable number of
// significant decimal digits of resolution throughout that range.
//
// Histogram is generic over its counter element type (Count), so callers
// pick the narrowest width their workload needs (uint8 through uint64)
// without paying for interface boxing on the record path.
package hdr

// Histogram is a mapping from value-equivalence classes to counts. It is
// not safe for concurrent use: callers must serialize mutation the same
// way they would for any other plain Go struct (see spec.md §5 / the
// teacher's own single-writer metric types).
type Histogram[C Count] struct {
	indexMapping

	counts          []C
	totalCount      uint64
	maxValue        uint64 // 0 sentinel: nothing recorded yet.
	minNonZeroValue uint64 // math.MaxUint64 sentinel: nothing recorded yet.
	autoResize      bool
}

// New constructs an auto-resizing histogram with a lowest discernible
// value of 1. It grows to cover whatever is recorded.
func New[C Count](sigfigs int) (*Histogram[C], error) {
	h, err := NewWithBounds[C](1, 2, sigfigs)
	if err != nil {
		return nil, err
	}
	h.autoResize = true
	return h, nil
}

// NewWithMax constructs a histogram with a lowest discernible value of 1
// and the given highest trackable value. Auto-resize is disabled.
func NewWithMax[C Count](high uint64, sigfigs int) (*Histogram[C], error) {
	return NewWithBounds[C](1, high, sigfigs)
}

// NewWithBounds constructs a histogram with explicit bounds. Auto-resize
// is disabled; enable it with SetAutoResize.
func NewWithBounds[C Count](low, high uint64, sigfigs int) (*Histogram[C], error) {
	m, err := newIndexMapping(low, high, sigfigs)
	if err != nil {
		return nil, err
	}
	return &Histogram[C]{
		indexMapping:    m,
		counts:          make([]C, m.countsLen),
		minNonZeroValue: maxUint64,
	}, nil
}

// SetAutoResize enables or disables growing the counts array when a
// recorded value exceeds High.
func (h *Histogram[C]) SetAutoResize(enabled bool) {
	h.autoResize = enabled
}

// Low is the lowest discernible positive value.
func (h *Histogram[C]) Low() uint64 { return h.low }

// High is the highest trackable value.
func (h *Histogram[C]) High() uint64 { return h.high }

// SigFig is the number of significant decimal digits of resolution.
func (h *Histogram[C]) SigFig() int { return h.sigfigs }

// DistinctValues is the length of the underlying counts array.
func (h *Histogram[C]) DistinctValues() int { return h.countsLen }

// Buckets is the number of buckets the value range is currently split into.
func (h *Histogram[C]) Buckets() int { return h.bucketCount }

// Record records a single occurrence of v.
func (h *Histogram[C]) Record(v uint64) error {
	return h.recordCountAtValue(v, 1)
}

// RecordN adds n to the count for v.
func (h *Histogram[C]) RecordN(v uint64, n C) error {
	return h.recordCountAtValue(v, n)
}

// SaturatingRecord records v, clamping it into [Low, High] first instead of
// failing or auto-resizing when v is out of range.
func (h *Histogram[C]) SaturatingRecord(v uint64) error {
	return h.SaturatingRecordN(v, 1)
}

// SaturatingRecordN is SaturatingRecord with an explicit count.
func (h *Histogram[C]) SaturatingRecordN(v uint64, n C) error {
	if v < h.low {
		v = h.low
	}
	if v > h.high {
		v = h.high
	}
	return h.recordCountAtValue(v, n)
}

// RecordCorrected records v once, then synthesizes the samples a
// coordinated-omission stall would otherwise have hidden: while
// v - expectedInterval is still >= expectedInterval, it also records at
// each decrementing step. An expectedInterval of 0 disables correction,
// degrading to a plain Record.
func (h *Histogram[C]) RecordCorrected(v, expectedInterval uint64) error {
	return h.RecordCorrectedN(v, 1, expectedInterval)
}

// RecordCorrectedN is RecordCorrected with an explicit count.
func (h *Histogram[C]) RecordCorrectedN(v uint64, n C, expectedInterval uint64) error {
	if err := h.recordCountAtValue(v, n); err != nil {
		return err
	}
	if expectedInterval == 0 || v <= expectedInterval {
		return nil
	}
	for missing := v - expectedInterval; missing >= expectedInterval; missing -= expectedInterval {
		if err := h.recordCountAtValue(missing, n); err != nil {
			return err
		}
	}
	return nil
}

func (h *Histogram[C]) recordCountAtValue(v uint64, n C) error {
	idx, ok := h.indexFor(v)
	if !ok {
		if !h.autoResize {
			return ErrValueOutOfRangeResizeDisabled
		}
		if err := h.growTo(v); err != nil {
			return err
		}
		idx, ok = h.indexFor(v)
		if !ok {
			return ErrResizeFailedUsizeTypeTooSmall
		}
	}
	h.counts[idx] = addSaturating(h.counts[idx], n)
	h.updateMinAndMax(v)
	h.totalCount = addUint64Saturating(h.totalCount, toUint64(n))
	return nil
}

// growTo extends the counts array so that v becomes representable, then
// snaps High to the actual highest value the new bucket layout can
// represent — mirroring the source library's handleRecordException, which
// re-derives highestTrackableValue from the post-resize bucket count
// rather than leaving it at the raw requested value.
func (h *Histogram[C]) growTo(v uint64) error {
	if err := h.indexMapping.resize(v); err != nil {
		return ErrResizeFailedUsizeTypeTooSmall
	}
	grown := make([]C, h.countsLen)
	copy(grown, h.counts)
	h.counts = grown
	h.high = h.highestEquivalent(h.valueFromIndex(h.lastIndex()))
	return nil
}

func (h *Histogram[C]) updateMinAndMax(v uint64) {
	internalMax := v | h.unitMagnitudeMask
	if internalMax > h.maxValue {
		h.maxValue = internalMax
	}
	if v != 0 && v < h.minNonZeroValue {
		h.minNonZeroValue = v &^ h.unitMagnitudeMask
	}
}

// Clear zeroes every count and the total count. Min and max are retained.
func (h *Histogram[C]) Clear() {
	for i := range h.counts {
		h.counts[i] = 0
	}
	h.totalCount = 0
}

// Reset zeroes every count, the total count, and the tracked min/max.
func (h *Histogram[C]) Reset() {
	h.Clear()
	h.maxValue = 0
	h.minNonZeroValue = maxUint64
}

// SetTo replaces the receiver's bounds, counts, and tracked aggregates with
// a copy of src's, reusing the receiver's backing array when it has enough
// capacity.
func (h *Histogram[C]) SetTo(src *Histogram[C]) error {
	m, err := newIndexMapping(src.low, src.high, src.sigfigs)
	if err != nil {
		return err
	}
	h.indexMapping = m
	if cap(h.counts) >= len(src.counts) {
		h.counts = h.counts[:len(src.counts)]
	} else {
		h.counts = make([]C, len(src.counts))
	}
	copy(h.counts, src.counts)
	h.totalCount = src.totalCount
	h.maxValue = src.maxValue
	h.minNonZeroValue = src.minNonZeroValue
	h.autoResize = src.autoResize
	return nil
}

// Add merges source's counts into h, auto-resizing h first if source
// records values beyond h's current range and h.autoResize is set.
func (h *Histogram[C]) Add(source *Histogram[C]) error {
	srcMax := source.Max()
	if srcMax > h.high {
		if !h.autoResize {
			return ErrOtherAddendValueExceedsRange
		}
		if err := h.growTo(srcMax); err != nil {
			return err
		}
	}

	if h.sameLayout(source) {
		for i, c := range source.counts {
			if c == 0 {
				continue
			}
			h.counts[i] = addSaturating(h.counts[i], c)
		}
		if source.totalCount > 0 {
			h.updateMinAndMax(source.Max())
			h.updateMinAndMax(source.MinNonZero())
		}
		h.totalCount = addUint64Saturating(h.totalCount, source.totalCount)
		return nil
	}

	for i, c := range source.counts {
		if c == 0 {
			continue
		}
		v := source.valueFromIndex(i)
		if err := h.RecordN(v, c); err != nil {
			return err
		}
	}
	return nil
}

func (h *Histogram[C]) sameLayout(o *Histogram[C]) bool {
	return h.bucketCount == o.bucketCount &&
		h.subBucketCount == o.subBucketCount &&
		h.unitMagnitude == o.unitMagnitude
}

// Subtract removes source's counts from h. It fails without full rollback
// (partial progress may have occurred) if source has a count at some value
// greater than h's count there; callers that need transactional semantics
// should operate on a clone obtained via SetTo.
func (h *Histogram[C]) Subtract(source *Histogram[C]) error {
	if source.Max() > h.high {
		return ErrSubtrahendValueExceedsMinuendRange
	}

	origMax := h.Max()
	origMinNZ := h.MinNonZero()
	touchedMinOrMax := false
	var removed uint64

	for i, sc := range source.counts {
		if sc == 0 {
			continue
		}
		v := source.valueFromIndex(i)
		idx, ok := h.indexFor(v)
		if !ok {
			return ErrSubtrahendValueExceedsMinuendRange
		}
		if toUint64(sc) > toUint64(h.counts[idx]) {
			return ErrSubtrahendCountExceedsMinuendCount
		}
		h.counts[idx] = subSaturating(h.counts[idx], sc)
		removed += toUint64(sc)
		if h.equivalent(v, origMax) || h.equivalent(v, origMinNZ) {
			touchedMinOrMax = true
		}
	}

	if touchedMinOrMax {
		h.recomputeAggregates()
	} else if removed >= h.totalCount {
		h.totalCount = 0
	} else {
		h.totalCount -= removed
	}
	return nil
}

// recomputeAggregates does a full O(n) scan to restore min, max, and
// totalCount from the counts array, recovering from any prior saturation
// of totalCount.
func (h *Histogram[C]) recomputeAggregates() {
	h.maxValue = 0
	h.minNonZeroValue = maxUint64
	var total uint64
	for i, c := range h.counts {
		if c == 0 {
			continue
		}
		total = addUint64Saturating(total, toUint64(c))
		v := h.valueFromIndex(i)
		h.updateMinAndMax(v)
	}
	h.totalCount = total
}
