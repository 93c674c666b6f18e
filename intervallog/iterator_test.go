package intervallog

import (
	"testing"
	"time"
)

// S5: a comment, a tagged interval line, and a StartTime magic comment
// yield exactly two non-error entries.
func TestLogIteratorScenario(t *testing.T) {
	input := []byte("#I'm a comment\n" +
		"Tag=t,0.127,1.007,2.769,couldBeBase64\n" +
		"#[StartTime: 1441812279.474 (seconds since epoch), Wed Sep 09 08:24:39 PDT 2015]\n")

	it := NewLogIterator(input)

	e0, ok := it.Next()
	if !ok {
		t.Fatalf("first entry: Next() = false, err = %v", it.Err())
	}
	if e0.Kind != EntryInterval {
		t.Fatalf("first entry kind = %v, want EntryInterval", e0.Kind)
	}
	if string(e0.Interval.Tag) != "t" {
		t.Errorf("tag = %q, want %q", e0.Interval.Tag, "t")
	}
	if e0.Interval.StartTimestamp != 127*time.Millisecond {
		t.Errorf("start = %v, want 127ms", e0.Interval.StartTimestamp)
	}
	if e0.Interval.Duration != 1007*time.Millisecond {
		t.Errorf("duration = %v, want 1.007s", e0.Interval.Duration)
	}
	if e0.Interval.Max != 2.769 {
		t.Errorf("max = %v, want 2.769", e0.Interval.Max)
	}
	if string(e0.Interval.EncodedHistogram) != "couldBeBase64" {
		t.Errorf("encoded histogram = %q, want %q", e0.Interval.EncodedHistogram, "couldBeBase64")
	}

	e1, ok := it.Next()
	if !ok {
		t.Fatalf("second entry: Next() = false, err = %v", it.Err())
	}
	if e1.Kind != EntryStartTime {
		t.Fatalf("second entry kind = %v, want EntryStartTime", e1.Kind)
	}
	wantStartTime := 1441812279*time.Second + 474*time.Millisecond
	if e1.Time != wantStartTime {
		t.Errorf("start time = %v, want %v", e1.Time, wantStartTime)
	}

	if _, ok := it.Next(); ok {
		t.Fatal("expected exactly two entries")
	}
	if it.Err() != nil {
		t.Errorf("unexpected parse error: %v", it.Err())
	}
}

func TestLogIteratorNoTag(t *testing.T) {
	input := []byte("0.127,1.007,2.769,couldBeBase64\nfoo")
	it := NewLogIterator(input)

	e, ok := it.Next()
	if !ok {
		t.Fatalf("Next() = false, err = %v", it.Err())
	}
	if e.Interval.Tag != nil {
		t.Errorf("tag = %q, want nil", e.Interval.Tag)
	}

	// "foo" is not a valid log line, so the next Next() call reports a
	// parse error rather than silently stopping.
	if _, ok := it.Next(); ok {
		t.Fatal("expected the trailing garbage to fail to parse")
	}
	var perr *ParseError
	if pe, ok := it.Err().(*ParseError); !ok {
		t.Fatalf("Err() = %v (%T), want *ParseError", it.Err(), it.Err())
	} else {
		perr = pe
	}
	if perr.Offset != len(input)-len("foo") {
		t.Errorf("ParseError.Offset = %d, want %d", perr.Offset, len(input)-len("foo"))
	}
}

func TestLogIteratorLegendAndCommentsAreSkipped(t *testing.T) {
	input := []byte("\"StartTimestamp\",\"Interval_Length\",\"Interval_Max\",\"Interval_Compressed_Histogram\"\n" +
		"#Some other comment\n" +
		"0.000,1.000,1.000,aGVsbG8=\n")

	it := NewLogIterator(input)
	e, ok := it.Next()
	if !ok {
		t.Fatalf("Next() = false, err = %v", it.Err())
	}
	if e.Kind != EntryInterval {
		t.Fatalf("kind = %v, want EntryInterval", e.Kind)
	}
	if _, ok := it.Next(); ok {
		t.Fatal("expected exactly one entry once the legend and comment are skipped")
	}
	if it.Err() != nil {
		t.Errorf("unexpected parse error: %v", it.Err())
	}
}

func TestLogIteratorEmptyInputYieldsNoEntries(t *testing.T) {
	it := NewLogIterator(nil)
	if _, ok := it.Next(); ok {
		t.Fatal("empty input should yield no entries")
	}
	if it.Err() != nil {
		t.Errorf("unexpected parse error on empty input: %v", it.Err())
	}
}
