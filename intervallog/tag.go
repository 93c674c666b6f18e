// Package intervallog reads and writes the line-oriented interval log
// format: a header of comments and optional StartTime/BaseTime lines
// followed by a sequence of base64-encoded histograms, one per recorded
// interval.
package intervallog

import (
	"bytes"
	"errors"
)

// ErrInvalidTag is returned by NewTag when s contains a comma, carriage
// return, line feed, or space.
var ErrInvalidTag = errors.New("intervallog: tag contains a disallowed character")

// Tag labels an interval histogram. Tags may not contain ',', '\r', '\n',
// or ' '.
type Tag string

// NewTag validates s and returns it as a Tag.
func NewTag(s string) (Tag, error) {
	if bytes.ContainsAny([]byte(s), ",\r\n ") {
		return "", ErrInvalidTag
	}
	return Tag(s), nil
}
