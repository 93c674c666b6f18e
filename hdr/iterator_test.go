package hdr

import "testing"

func TestIterAllCoversEveryIndex(t *testing.T) {
	h := newH(t, 1, 1<<16, 2)
	if err := h.Record(1); err != nil {
		t.Fatal(err)
	}
	if err := h.Record(1 << 15); err != nil {
		t.Fatal(err)
	}

	it := h.IterAll()
	n := 0
	for {
		_, ok := it.Next()
		if !ok {
			break
		}
		n++
	}
	if n != h.DistinctValues() {
		t.Errorf("IterAll produced %d items, want %d (one per counts index)", n, h.DistinctValues())
	}
}

func TestIterRecordedOnlyYieldsNonzero(t *testing.T) {
	h := newH(t, 1, 1<<16, 2)
	values := []uint64{1, 5, 1000, 40000}
	for _, v := range values {
		if err := h.Record(v); err != nil {
			t.Fatal(err)
		}
	}

	it := h.IterRecorded()
	var got []uint64
	for {
		item, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, item.ValueIteratedTo)
		if item.CountAtValue == 0 {
			t.Errorf("IterRecorded yielded a zero-count item at value %d", item.ValueIteratedTo)
		}
	}
	if len(got) != len(values) {
		t.Errorf("IterRecorded produced %d items, want %d", len(got), len(values))
	}
}

func TestIterLinearCoversFullRange(t *testing.T) {
	h := newH(t, 1, 100000, 3)
	for v := uint64(1); v <= 100000; v += 37 {
		if err := h.Record(v); err != nil {
			t.Fatal(err)
		}
	}

	it := h.IterLinear(1000)
	var lastVal uint64
	var total uint64
	for {
		item, ok := it.Next()
		if !ok {
			break
		}
		if item.ValueIteratedTo < lastVal {
			t.Errorf("IterLinear values went backwards: %d after %d", item.ValueIteratedTo, lastVal)
		}
		lastVal = item.ValueIteratedTo
		total += item.CountSinceLastIteration
	}
	if total != h.Len() {
		t.Errorf("IterLinear CountSinceLastIteration summed to %d, want totalCount %d", total, h.Len())
	}
}

func TestIterLogCoversFullRange(t *testing.T) {
	h := newH(t, 1, 1<<30, 3)
	for v := uint64(1); v < 1<<30; v *= 3 {
		if err := h.Record(v); err != nil {
			t.Fatal(err)
		}
	}

	it := h.IterLog(1, 2.0)
	var total uint64
	for {
		item, ok := it.Next()
		if !ok {
			break
		}
		total += item.CountSinceLastIteration
	}
	if total != h.Len() {
		t.Errorf("IterLog CountSinceLastIteration summed to %d, want totalCount %d", total, h.Len())
	}
}

// Quantile iteration subtlety: zero counts are skipped, and the quantile
// reaching 1.0 before ticks run out ends in exactly one final record.
func TestIterQuantilesReachesOne(t *testing.T) {
	h := newH(t, 1, 1<<20, 3)
	for v := uint64(1); v <= 1000; v++ {
		if err := h.Record(v); err != nil {
			t.Fatal(err)
		}
	}

	it := h.IterQuantiles(4)
	var last Item
	n := 0
	for {
		item, ok := it.Next()
		if !ok {
			break
		}
		last = item
		n++
		if n > 10000 {
			t.Fatal("IterQuantiles did not terminate")
		}
	}
	if n == 0 {
		t.Fatal("IterQuantiles produced no items")
	}
	if last.QuantileIteratedTo != 1.0 {
		t.Errorf("final QuantileIteratedTo = %v, want 1.0", last.QuantileIteratedTo)
	}
}
