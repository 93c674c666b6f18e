package hdr

import "math"

// Item is one step yielded by an Iterator.
type Item struct {
	// ValueIteratedTo is the highest value equivalent to the bucket this
	// step reports on.
	ValueIteratedTo uint64
	// CountAtValue is the count recorded in that bucket.
	CountAtValue uint64
	// CountSinceLastIteration is the count accumulated since the
	// previous step (0 for synthetic steps that advance no new data).
	CountSinceLastIteration uint64
	// Quantile is totalCountToHere / totalCount at this step.
	Quantile float64
	// QuantileIteratedTo is the target quantile this step satisfies; for
	// every picker but the quantile picker this equals Quantile.
	QuantileIteratedTo float64
}

// picker decides, for the generic Iterator driver, whether the current
// index should be yielded, whether the driver should advance past it
// afterward, and whether one synthetic record should be emitted once the
// counts array is exhausted. Implementations hold only their own cursor
// state (spec.md §9: "pickers remain stateless over the counts array").
type picker[C Count] interface {
	pick(it *Iterator[C]) (yield, advance bool)
	// final emits the one synthetic end-of-histogram record, if the
	// picker has one pending; it is one-shot and must be called at most
	// once, only once the driver has actually reached countsLen.
	final(it *Iterator[C]) bool
	// pendingFinal reports, without side effects, whether a subsequent
	// call to final would yield a record. Used to decide whether the
	// driver should keep going instead of ending once it reaches
	// countsLen, without consuming final's one-shot state early.
	pendingFinal(it *Iterator[C]) bool
	// quantileOverride lets the quantile picker report a target quantile
	// distinct from the actual running quantile; every other picker
	// returns (0, false).
	quantileOverride() (float64, bool)
}

// Iterator walks a Histogram's counts array under a stepping policy
// (all, recorded, linear, logarithmic, or quantile). It is not safe for
// concurrent use and must not outlive mutation of the underlying
// histogram.
type Iterator[C Count] struct {
	h *Histogram[C]

	currentIndex             int
	accumulatedThisIndex     bool
	totalCountToCurrentIndex uint64
	prevTotalCount           uint64
	ended                    bool
	picker                   picker[C]
}

func newIterator[C Count](h *Histogram[C], p picker[C]) *Iterator[C] {
	return &Iterator[C]{h: h, picker: p}
}

// IterAll walks every index in the counts array, populated or not.
func (h *Histogram[C]) IterAll() *Iterator[C] {
	return newIterator[C](h, &allPicker[C]{})
}

// IterRecorded walks only indices with a nonzero count.
func (h *Histogram[C]) IterRecorded() *Iterator[C] {
	return newIterator[C](h, &recordedPicker[C]{})
}

// IterLinear walks in steps of step value units through the whole counts
// array; steps past the highest recorded value are still yielded, with
// zero counts, until the last index is reached.
func (h *Histogram[C]) IterLinear(step uint64) *Iterator[C] {
	p := &linearPicker[C]{
		step:                     step,
		highestValueReportLevel:  step - 1,
		lowestValueReportLevel:   h.lowestEquivalent(satSub(step, 1)),
	}
	return newIterator[C](h, p)
}

// IterLog walks in steps that start at initialStep value units and grow
// multiplicatively by base after each step.
func (h *Histogram[C]) IterLog(initialStep uint64, base float64) *Iterator[C] {
	p := &logarithmicPicker[C]{
		nextValueReportLevel:    float64(initialStep),
		base:                    base,
		highestValueReportLevel: satSub(initialStep, 1),
		lowestValueReportLevel:  h.lowestEquivalent(satSub(initialStep, 1)),
	}
	return newIterator[C](h, p)
}

// IterQuantiles walks the histogram at quantile steps that halve their
// remaining distance to 1.0 every ticksPerHalfDistance steps.
func (h *Histogram[C]) IterQuantiles(ticksPerHalfDistance uint64) *Iterator[C] {
	if ticksPerHalfDistance == 0 {
		ticksPerHalfDistance = 1
	}
	return newIterator[C](h, &quantilePicker[C]{ticksPerHalfDistance: ticksPerHalfDistance})
}

func satSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

// Next advances the iterator and returns the next item, or ok == false
// once iteration has ended.
func (it *Iterator[C]) Next() (item Item, ok bool) {
	for {
		if it.ended {
			return Item{}, false
		}

		if it.currentIndex == it.h.countsLen {
			if it.picker.final(it) {
				it.currentIndex--
				it.ended = true
				return it.build(), true
			}
			it.ended = true
			return Item{}, false
		}

		if !it.accumulatedThisIndex {
			it.totalCountToCurrentIndex = addUint64Saturating(it.totalCountToCurrentIndex, toUint64(it.h.counts[it.currentIndex]))
			it.accumulatedThisIndex = true
		}

		yield, advance := it.picker.pick(it)
		if yield {
			out := it.build()
			if advance {
				it.currentIndex++
				it.accumulatedThisIndex = false
				if it.currentIndex == it.h.countsLen && !it.picker.pendingFinal(it) {
					it.ended = true
				}
			}
			it.prevTotalCount = it.totalCountToCurrentIndex
			return out, true
		}

		it.currentIndex++
		it.accumulatedThisIndex = false
	}
}

func (it *Iterator[C]) build() Item {
	v := it.h.highestEquivalent(it.h.valueFromIndex(it.currentIndex))
	quantile := 0.0
	if it.h.totalCount > 0 {
		quantile = float64(it.totalCountToCurrentIndex) / float64(it.h.totalCount)
	}
	quantileIteratedTo := quantile
	if qo, ok := it.picker.quantileOverride(); ok {
		quantileIteratedTo = qo
	}
	return Item{
		ValueIteratedTo:         v,
		CountAtValue:            toUint64(it.h.counts[it.currentIndex]),
		CountSinceLastIteration: it.totalCountToCurrentIndex - it.prevTotalCount,
		Quantile:                quantile,
		QuantileIteratedTo:      quantileIteratedTo,
	}
}

// --- pickers ---

type allPicker[C Count] struct{}

func (*allPicker[C]) pick(*Iterator[C]) (bool, bool)       { return true, true }
func (*allPicker[C]) final(*Iterator[C]) bool              { return false }
func (*allPicker[C]) pendingFinal(*Iterator[C]) bool       { return false }
func (*allPicker[C]) quantileOverride() (float64, bool)    { return 0, false }

type recordedPicker[C Count] struct{}

func (*recordedPicker[C]) pick(it *Iterator[C]) (bool, bool) {
	return it.h.counts[it.currentIndex] != 0, true
}
func (*recordedPicker[C]) final(*Iterator[C]) bool           { return false }
func (*recordedPicker[C]) pendingFinal(*Iterator[C]) bool    { return false }
func (*recordedPicker[C]) quantileOverride() (float64, bool) { return 0, false }

type linearPicker[C Count] struct {
	step                    uint64
	highestValueReportLevel uint64
	lowestValueReportLevel  uint64
}

func (p *linearPicker[C]) pick(it *Iterator[C]) (yield, advance bool) {
	v := it.h.valueFromIndex(it.currentIndex)
	if v < p.lowestValueReportLevel && it.currentIndex != it.h.lastIndex() {
		return false, true
	}
	p.highestValueReportLevel += p.step
	p.lowestValueReportLevel = it.h.lowestEquivalent(p.highestValueReportLevel)

	advance = true
	if it.currentIndex+1 <= it.h.lastIndex() {
		next := it.h.valueFromIndex(it.currentIndex + 1)
		if p.highestValueReportLevel+1 < next {
			advance = false
		}
	}
	return true, advance
}
func (*linearPicker[C]) final(*Iterator[C]) bool           { return false }
func (*linearPicker[C]) pendingFinal(*Iterator[C]) bool    { return false }
func (*linearPicker[C]) quantileOverride() (float64, bool) { return 0, false }

type logarithmicPicker[C Count] struct {
	nextValueReportLevel    float64
	base                    float64
	highestValueReportLevel uint64
	lowestValueReportLevel  uint64
}

func (p *logarithmicPicker[C]) pick(it *Iterator[C]) (yield, advance bool) {
	v := it.h.valueFromIndex(it.currentIndex)
	if v < p.lowestValueReportLevel && it.currentIndex != it.h.lastIndex() {
		return false, true
	}
	p.nextValueReportLevel *= p.base
	p.highestValueReportLevel = uint64(p.nextValueReportLevel) - 1
	p.lowestValueReportLevel = it.h.lowestEquivalent(p.highestValueReportLevel)

	advance = true
	if it.currentIndex+1 <= it.h.lastIndex() {
		next := it.h.valueFromIndex(it.currentIndex + 1)
		if p.highestValueReportLevel+1 < next {
			advance = false
		}
	}
	return true, advance
}
func (*logarithmicPicker[C]) final(*Iterator[C]) bool           { return false }
func (*logarithmicPicker[C]) pendingFinal(*Iterator[C]) bool    { return false }
func (*logarithmicPicker[C]) quantileOverride() (float64, bool) { return 0, false }

type quantilePicker[C Count] struct {
	ticksPerHalfDistance uint64
	quantileToIterateTo  float64
	reachedEnd           bool
	lastOverride         float64
	hasOverride          bool
}

func (p *quantilePicker[C]) pick(it *Iterator[C]) (yield, advance bool) {
	p.hasOverride = false
	if p.reachedEnd {
		return false, true
	}
	if it.h.counts[it.currentIndex] == 0 {
		return false, true
	}
	actual := float64(it.totalCountToCurrentIndex) / float64(it.h.totalCount)
	if actual < p.quantileToIterateTo {
		return false, true
	}

	p.lastOverride = p.quantileToIterateTo
	p.hasOverride = true

	var halvings int
	if p.quantileToIterateTo < 1.0 {
		halvings = int(math.Floor(math.Log2(1.0 / (1.0 - p.quantileToIterateTo))))
	}
	inc := 1.0 / (float64(p.ticksPerHalfDistance) * math.Pow(2, float64(halvings+1)))
	next := p.quantileToIterateTo + inc
	if next == p.quantileToIterateTo {
		next = 1.0
	}
	p.quantileToIterateTo = next
	if next >= 1.0 {
		p.reachedEnd = true
	}
	return true, true
}

func (p *quantilePicker[C]) final(it *Iterator[C]) bool {
	if p.reachedEnd {
		return false
	}
	p.quantileToIterateTo = 1.0
	p.reachedEnd = true
	p.lastOverride = 1.0
	p.hasOverride = true
	return true
}

func (p *quantilePicker[C]) pendingFinal(*Iterator[C]) bool {
	return !p.reachedEnd
}

func (p *quantilePicker[C]) quantileOverride() (float64, bool) {
	return p.lastOverride, p.hasOverride
}
