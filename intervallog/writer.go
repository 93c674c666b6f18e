package intervallog

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hdrhistogram/gohdr/hdr"
	"github.com/hdrhistogram/gohdr/internal/errcapture"
)

// Serializer is the subset of wire.V2Serializer / wire.V2DeflateSerializer
// that Writer needs, kept as an interface here so intervallog does not
// import wire directly and callers can plug in either variant.
type Serializer[C hdr.Count] interface {
	Serialize(h *hdr.Histogram[C]) ([]byte, error)
}

// WriterBuilder accumulates header content (comments, StartTime, BaseTime,
// a max-value divisor) before producing a Writer.
type WriterBuilder struct {
	comments        []string
	startTime       *float64
	baseTime        *float64
	maxValueDivisor float64
}

// NewWriterBuilder returns a builder with the default max-value divisor of
// 1.0 and no StartTime, BaseTime, or comments.
func NewWriterBuilder() *WriterBuilder {
	return &WriterBuilder{maxValueDivisor: 1.0}
}

// AddComment queues a comment line (or, if s contains '\n', several) to be
// written before the first interval.
func (b *WriterBuilder) AddComment(s string) *WriterBuilder {
	b.comments = append(b.comments, s)
	return b
}

// WithStartTime sets the StartTime header to secondsSinceEpoch.
func (b *WriterBuilder) WithStartTime(secondsSinceEpoch float64) *WriterBuilder {
	b.startTime = &secondsSinceEpoch
	return b
}

// WithBaseTime sets the BaseTime header to secondsSinceEpoch.
func (b *WriterBuilder) WithBaseTime(secondsSinceEpoch float64) *WriterBuilder {
	b.baseTime = &secondsSinceEpoch
	return b
}

// WithMaxValueDivisor sets the divisor applied to each interval's recorded
// max before it is written to the log (default 1.0).
func (b *WriterBuilder) WithMaxValueDivisor(d float64) *WriterBuilder {
	b.maxValueDivisor = d
	return b
}

// BeginLog writes the accumulated comments and header lines to w and
// returns a Writer ready to accept interval histograms.
func BeginLog[C hdr.Count](w io.Writer, b *WriterBuilder, s Serializer[C]) (*Writer[C], error) {
	for _, c := range b.comments {
		if err := writeComment(w, c); err != nil {
			return nil, err
		}
	}
	if b.startTime != nil {
		if _, err := fmt.Fprintf(w, "#[StartTime: %.3f (seconds since epoch)]\n", *b.startTime); err != nil {
			return nil, err
		}
	}
	if b.baseTime != nil {
		if _, err := fmt.Fprintf(w, "#[BaseTime: %.3f (seconds since epoch)]\n", *b.baseTime); err != nil {
			return nil, err
		}
	}
	return &Writer[C]{w: w, serializer: s, maxValueDivisor: b.maxValueDivisor}, nil
}

func writeComment(w io.Writer, s string) error {
	for _, line := range strings.Split(s, "\n") {
		if _, err := fmt.Fprintf(w, "#%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

// Writer appends interval histogram lines to an underlying io.Writer.
type Writer[C hdr.Count] struct {
	w               io.Writer
	serializer      Serializer[C]
	maxValueDivisor float64
	scratch         []byte
}

// WriteComment writes an additional comment line mid-log.
func (w *Writer[C]) WriteComment(s string) error {
	return writeComment(w.w, s)
}

// WriteHistogram writes one interval line: an optional Tag=, the start
// timestamp and duration (3-decimal fractional seconds), the scaled max,
// and the base64-encoded serialized histogram.
func (w *Writer[C]) WriteHistogram(h *hdr.Histogram[C], start, duration time.Duration, tag Tag) (err error) {
	if tag != "" {
		if _, err := fmt.Fprintf(w.w, "Tag=%s,", string(tag)); err != nil {
			return err
		}
	}

	max := float64(h.Max()) / w.maxValueDivisor
	if _, err := fmt.Fprintf(w.w, "%.3f,%.3f,%.3f,", durationSeconds(start), durationSeconds(duration), max); err != nil {
		return err
	}

	encoded, err := w.serializer.Serialize(h)
	if err != nil {
		return fmt.Errorf("intervallog: serializing interval histogram: %w", err)
	}
	n := base64.StdEncoding.EncodedLen(len(encoded))
	if cap(w.scratch) < n {
		w.scratch = make([]byte, n)
	}
	w.scratch = w.scratch[:n]
	base64.StdEncoding.Encode(w.scratch, encoded)

	if _, err := w.w.Write(w.scratch); err != nil {
		return err
	}
	_, err = io.WriteString(w.w, "\n")
	return err
}

func durationSeconds(d time.Duration) float64 {
	return d.Seconds()
}

// WriteHistogramToCloser is a convenience for the common case where the
// destination also needs to be closed and any Close error folded into the
// result, matching the teacher's internal/errcapture convention.
func WriteHistogramToCloser[C hdr.Count](wc io.WriteCloser, w *Writer[C], h *hdr.Histogram[C], start, duration time.Duration, tag Tag) (err error) {
	defer errcapture.Close(&err, wc, "closing interval log destination")
	return w.WriteHistogram(h, start, duration, tag)
}
