package intervallog

import (
	"bytes"
	"strconv"
	"time"
)

// ParseError reports where in the input parsing gave up.
type ParseError struct {
	Offset int
}

func (e *ParseError) Error() string {
	return "intervallog: parse error at offset " + strconv.Itoa(e.Offset)
}

// LogIterator walks an interval log held entirely in memory (mmap-friendly:
// the caller may hand it a memory-mapped byte slice). It never allocates
// for the bytes it yields — Tag and EncodedHistogram in a produced Entry
// are subslices of the original input.
type LogIterator struct {
	origLen int
	input   []byte
	ended   bool
	err     error
}

// NewLogIterator returns an iterator over input, which must be the
// complete contents of an interval log.
func NewLogIterator(input []byte) *LogIterator {
	return &LogIterator{origLen: len(input), input: input}
}

// Err returns the parse error that ended iteration, if any.
func (it *LogIterator) Err() error { return it.err }

// Next returns the next entry, or ok == false once the input is exhausted
// or a parse error occurred (check Err to distinguish the two).
func (it *LogIterator) Next() (Entry, bool) {
	for {
		if it.ended {
			return Entry{}, false
		}
		if len(it.input) == 0 {
			it.ended = true
			return Entry{}, false
		}

		if e, rest, ok := parseLogEntry(it.input); ok {
			it.input = rest
			return e, true
		}

		if rest, ok := parseIgnoredLine(it.input); ok {
			it.input = rest
			continue
		}

		it.ended = true
		it.err = &ParseError{Offset: it.origLen - len(it.input)}
		return Entry{}, false
	}
}

func parseLogEntry(input []byte) (Entry, []byte, bool) {
	if e, rest, ok := parseStartTime(input); ok {
		return e, rest, true
	}
	if e, rest, ok := parseBaseTime(input); ok {
		return e, rest, true
	}
	return parseIntervalHist(input)
}

func parseStartTime(input []byte) (Entry, []byte, bool) {
	rest, ok := consumePrefix(input, "#[StartTime: ")
	if !ok {
		return Entry{}, nil, false
	}
	d, rest, ok := parseFractionalSecondsDuration(rest)
	if !ok {
		return Entry{}, nil, false
	}
	rest, ok = consumePrefix(rest, " ")
	if !ok {
		return Entry{}, nil, false
	}
	rest, ok = skipToAndPastNewline(rest)
	if !ok {
		return Entry{}, nil, false
	}
	return Entry{Kind: EntryStartTime, Time: d}, rest, true
}

func parseBaseTime(input []byte) (Entry, []byte, bool) {
	rest, ok := consumePrefix(input, "#[BaseTime: ")
	if !ok {
		return Entry{}, nil, false
	}
	d, rest, ok := parseFractionalSecondsDuration(rest)
	if !ok {
		return Entry{}, nil, false
	}
	rest, ok = consumePrefix(rest, " ")
	if !ok {
		return Entry{}, nil, false
	}
	rest, ok = skipToAndPastNewline(rest)
	if !ok {
		return Entry{}, nil, false
	}
	return Entry{Kind: EntryBaseTime, Time: d}, rest, true
}

func parseIntervalHist(input []byte) (Entry, []byte, bool) {
	rest := input
	var tag []byte
	if afterTag, ok := consumePrefix(rest, "Tag="); ok {
		end := bytes.IndexByte(afterTag, ',')
		if end < 0 {
			return Entry{}, nil, false
		}
		tag = afterTag[:end]
		rest = afterTag[end+1:]
	}

	start, rest, ok := parseFractionalSecondsDuration(rest)
	if !ok {
		return Entry{}, nil, false
	}
	rest, ok = consumePrefix(rest, ",")
	if !ok {
		return Entry{}, nil, false
	}

	dur, rest, ok := parseFractionalSecondsDuration(rest)
	if !ok {
		return Entry{}, nil, false
	}
	rest, ok = consumePrefix(rest, ",")
	if !ok {
		return Entry{}, nil, false
	}

	maxEnd := bytes.IndexByte(rest, ',')
	if maxEnd < 0 {
		return Entry{}, nil, false
	}
	max, err := strconv.ParseFloat(string(rest[:maxEnd]), 64)
	if err != nil {
		return Entry{}, nil, false
	}
	rest = rest[maxEnd+1:]

	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 {
		return Entry{}, nil, false
	}
	encoded := rest[:nl]
	rest = rest[nl+1:]

	return Entry{
		Kind: EntryInterval,
		Interval: Interval{
			Tag:              tag,
			StartTimestamp:   start,
			Duration:         dur,
			Max:              max,
			EncodedHistogram: encoded,
		},
	}, rest, true
}

func parseIgnoredLine(input []byte) ([]byte, bool) {
	if rest, ok := consumePrefix(input, "#"); ok {
		return skipToAndPastNewline(rest)
	}
	if rest, ok := consumePrefix(input, `"StartTimestamp"`); ok {
		return skipToAndPastNewline(rest)
	}
	return nil, false
}

func consumePrefix(input []byte, prefix string) ([]byte, bool) {
	if !bytes.HasPrefix(input, []byte(prefix)) {
		return nil, false
	}
	return input[len(prefix):], true
}

func skipToAndPastNewline(input []byte) ([]byte, bool) {
	nl := bytes.IndexByte(input, '\n')
	if nl < 0 {
		return nil, false
	}
	return input[nl+1:], true
}

// parseFractionalSecondsDuration parses "<digits>.<digits>" into a
// time.Duration at nanosecond resolution, truncating any fractional digits
// beyond 9 and zero-padding on the right if fewer than 9 are present.
func parseFractionalSecondsDuration(input []byte) (time.Duration, []byte, bool) {
	dot := bytes.IndexByte(input, '.')
	if dot < 0 {
		return 0, nil, false
	}
	secs, err := strconv.ParseUint(string(input[:dot]), 10, 64)
	if err != nil {
		return 0, nil, false
	}
	rest := input[dot+1:]

	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, nil, false
	}
	digits := rest[:end]
	rest = rest[end:]

	var nanos uint64
	switch {
	case len(digits) > 9:
		nanos, err = strconv.ParseUint(string(digits[:9]), 10, 32)
	case len(digits) == 9:
		nanos, err = strconv.ParseUint(string(digits), 10, 32)
	default:
		nanos, err = strconv.ParseUint(string(digits), 10, 32)
		if err == nil {
			for i := len(digits); i < 9; i++ {
				nanos *= 10
			}
		}
	}
	if err != nil {
		return 0, nil, false
	}

	return time.Duration(secs)*time.Second + time.Duration(nanos)*time.Nanosecond, rest, true
}
