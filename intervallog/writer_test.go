package intervallog

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/hdrhistogram/gohdr/hdr"
	"github.com/hdrhistogram/gohdr/wire"
)

func TestBeginLogWritesCommentsAndMagicLines(t *testing.T) {
	var buf bytes.Buffer
	b := NewWriterBuilder().
		AddComment("generated by a test").
		WithStartTime(1441812279.474).
		WithBaseTime(1441812279.474)

	if _, err := BeginLog[uint64](&buf, b, wire.NewV2Serializer[uint64]()); err != nil {
		t.Fatalf("BeginLog: %v", err)
	}

	got := buf.String()
	if !strings.HasPrefix(got, "#generated by a test\n") {
		t.Errorf("missing comment line, got %q", got)
	}
	if !strings.Contains(got, "#[StartTime: 1441812279.474 (seconds since epoch)]\n") {
		t.Errorf("missing StartTime line, got %q", got)
	}
	if !strings.Contains(got, "#[BaseTime: 1441812279.474 (seconds since epoch)]\n") {
		t.Errorf("missing BaseTime line, got %q", got)
	}
}

// Round-trip law 10: writing an interval then re-reading it through
// LogIterator and decoding the embedded histogram yields the original data.
func TestWriteThenIterateRoundTrip(t *testing.T) {
	h, err := hdr.NewWithBounds[uint64](1, 1<<30, 3)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []uint64{1, 1000, 1000000} {
		if err := h.RecordN(v, 5); err != nil {
			t.Fatal(err)
		}
	}

	tag, err := NewTag("t")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	w, err := BeginLog[uint64](&buf, NewWriterBuilder(), wire.NewV2Serializer[uint64]())
	if err != nil {
		t.Fatalf("BeginLog: %v", err)
	}
	start := 127 * time.Millisecond
	duration := 1007 * time.Millisecond
	if err := w.WriteHistogram(h, start, duration, tag); err != nil {
		t.Fatalf("WriteHistogram: %v", err)
	}

	it := NewLogIterator(buf.Bytes())
	e, ok := it.Next()
	if !ok {
		t.Fatalf("Next() = false, err = %v", it.Err())
	}
	if e.Kind != EntryInterval {
		t.Fatalf("kind = %v, want EntryInterval", e.Kind)
	}
	if string(e.Interval.Tag) != "t" {
		t.Errorf("tag = %q, want %q", e.Interval.Tag, "t")
	}
	if e.Interval.StartTimestamp != start {
		t.Errorf("start = %v, want %v", e.Interval.StartTimestamp, start)
	}
	if e.Interval.Duration != duration {
		t.Errorf("duration = %v, want %v", e.Interval.Duration, duration)
	}

	decoded, err := decodeInterval(e.Interval)
	if err != nil {
		t.Fatalf("decodeInterval: %v", err)
	}
	if !decoded.Equals(h) {
		t.Error("decoded histogram does not equal the one that was written")
	}

	if _, ok := it.Next(); ok {
		t.Fatal("expected exactly one interval entry")
	}
	if it.Err() != nil {
		t.Errorf("unexpected parse error: %v", it.Err())
	}
}

func decodeInterval(iv Interval) (*hdr.Histogram[uint64], error) {
	raw, err := base64.StdEncoding.DecodeString(string(iv.EncodedHistogram))
	if err != nil {
		return nil, err
	}
	d := wire.NewDeserializer[uint64]()
	return d.Deserialize(raw)
}
