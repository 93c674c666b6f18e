package hdr

import "math"

// Min is the lowest recorded value, or 0 if nothing has been recorded or
// the value 0 itself was recorded.
func (h *Histogram[C]) Min() uint64 {
	if h.totalCount == 0 || h.counts[0] > 0 {
		return 0
	}
	return h.minNonZeroValue
}

// MinNonZero is the lowest positive recorded value (unit-equivalent), or
// math.MaxUint64 if nothing has been recorded.
func (h *Histogram[C]) MinNonZero() uint64 {
	return h.minNonZeroValue
}

// Max is the highest recorded value, or 0 if nothing has been recorded.
func (h *Histogram[C]) Max() uint64 {
	if h.maxValue == 0 {
		return 0
	}
	return h.highestEquivalent(h.maxValue)
}

// Len is the total number of samples recorded, saturating at
// math.MaxUint64.
func (h *Histogram[C]) Len() uint64 {
	return h.totalCount
}

// Mean is the arithmetic mean of all recorded values, computed from the
// median value of each populated bucket weighted by its count.
func (h *Histogram[C]) Mean() float64 {
	if h.totalCount == 0 {
		return 0
	}
	var sum float64
	for i, c := range h.counts {
		if c == 0 {
			continue
		}
		sum += float64(h.medianEquivalent(h.valueFromIndex(i))) * toFloat64(c)
	}
	return sum / float64(h.totalCount)
}

// StdDev is the population standard deviation of all recorded values (the
// squared deviations are divided by the total count, not by count - 1).
func (h *Histogram[C]) StdDev() float64 {
	if h.totalCount == 0 {
		return 0
	}
	mean := h.Mean()
	var sum float64
	for i, c := range h.counts {
		if c == 0 {
			continue
		}
		d := float64(h.medianEquivalent(h.valueFromIndex(i))) - mean
		sum += d * d * toFloat64(c)
	}
	return math.Sqrt(sum / float64(h.totalCount))
}

// ValueAtQuantile returns the highest value such that quantile q (clamped
// into [0, 1]) of all recorded values are at or below it. Ties favor the
// smallest index whose cumulative count reaches the target. For q == 0 it
// returns the lowest value equivalent to the first populated bucket.
func (h *Histogram[C]) ValueAtQuantile(q float64) uint64 {
	if h.totalCount == 0 {
		return 0
	}
	if q < 0 {
		q = 0
	}
	if q > 1 {
		q = 1
	}

	target := uint64(math.Ceil(q * float64(h.totalCount)))
	if target < 1 {
		target = 1
	}

	idx := h.lastIndex()
	var accumulated uint64
	for i, c := range h.counts {
		accumulated = addUint64Saturating(accumulated, toUint64(c))
		if accumulated >= target {
			idx = i
			break
		}
	}

	v := h.valueFromIndex(idx)
	if q == 0 {
		return h.lowestEquivalent(v)
	}
	return h.highestEquivalent(v)
}

// ValueAtPercentile is ValueAtQuantile(percentile / 100).
func (h *Histogram[C]) ValueAtPercentile(percentile float64) uint64 {
	return h.ValueAtQuantile(percentile / 100)
}

// clampedIndexFor returns indexFor(v) clamped into [0, lastIndex()] instead
// of failing, for the read-only query operations that must always return
// something.
func (h *Histogram[C]) clampedIndexFor(v uint64) int {
	idx, ok := h.indexFor(v)
	if ok {
		return idx
	}
	if v > h.high {
		return h.lastIndex()
	}
	return 0
}

// QuantileBelow returns the fraction of recorded values at or below v.
func (h *Histogram[C]) QuantileBelow(v uint64) float64 {
	if h.totalCount == 0 {
		return 1.0
	}
	idx := h.clampedIndexFor(v)
	var sum uint64
	for i := 0; i <= idx; i++ {
		sum = addUint64Saturating(sum, toUint64(h.counts[i]))
	}
	return float64(sum) / float64(h.totalCount)
}

// PercentileBelow is QuantileBelow(v) * 100.
func (h *Histogram[C]) PercentileBelow(v uint64) float64 {
	return h.QuantileBelow(v) * 100
}

// CountAtValue is the count recorded for values equivalent to v.
func (h *Histogram[C]) CountAtValue(v uint64) C {
	return h.counts[h.clampedIndexFor(v)]
}

// CountBetweenValues is the saturating sum of counts for values in
// [lo, hi].
func (h *Histogram[C]) CountBetweenValues(lo, hi uint64) uint64 {
	loIdx := h.clampedIndexFor(lo)
	hiIdx := h.clampedIndexFor(hi)
	if loIdx > hiIdx {
		return 0
	}
	var sum uint64
	for i := loIdx; i <= hiIdx; i++ {
		sum = addUint64Saturating(sum, toUint64(h.counts[i]))
	}
	return sum
}

// Equivalent reports whether v1 and v2 fall in the same counts bucket.
func (h *Histogram[C]) Equivalent(v1, v2 uint64) bool { return h.equivalent(v1, v2) }

// LowestEquivalent is the smallest value equivalent to v.
func (h *Histogram[C]) LowestEquivalent(v uint64) uint64 { return h.lowestEquivalent(v) }

// HighestEquivalent is the largest value equivalent to v.
func (h *Histogram[C]) HighestEquivalent(v uint64) uint64 { return h.highestEquivalent(v) }

// MedianEquivalent is the midpoint of v's equivalence class.
func (h *Histogram[C]) MedianEquivalent(v uint64) uint64 { return h.medianEquivalent(v) }

// NextNonEquivalent is the smallest value no longer equivalent to v.
func (h *Histogram[C]) NextNonEquivalent(v uint64) uint64 { return h.nextNonEquivalent(v) }

// EquivalentRange is the width, in values, of v's equivalence class.
func (h *Histogram[C]) EquivalentRange(v uint64) uint64 { return h.equivalentRangeLen(v) }

// Equals reports whether h and other have identical bounds, totals, and
// per-bucket counts.
func (h *Histogram[C]) Equals(other *Histogram[C]) bool {
	if h.low != other.low || h.high != other.high || h.sigfigs != other.sigfigs {
		return false
	}
	if h.countsLen != other.countsLen {
		return false
	}
	if h.totalCount != other.totalCount {
		return false
	}
	if h.Max() != other.Max() || h.MinNonZero() != other.MinNonZero() {
		return false
	}
	for i := range h.counts {
		if h.counts[i] != other.counts[i] {
			return false
		}
	}
	return true
}
