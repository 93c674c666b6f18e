package hdr

import "errors"

// Construction errors, returned by New, NewWithMax, and NewWithBounds.
var (
	ErrLowIsZero                      = errors.New("hdr: lowest discernible value must be >= 1")
	ErrLowExceedsMax                  = errors.New("hdr: lowest discernible value exceeds 2^62")
	ErrHighLessThanTwiceLow           = errors.New("hdr: highest trackable value must be >= 2 * lowest discernible value")
	ErrSigFigExceedsMax               = errors.New("hdr: significant value digits must be between 0 and 5")
	ErrCannotRepresentSigFigBeyondLow = errors.New("hdr: cannot represent significant figures for this lowest discernible value")
	ErrUsizeTypeTooSmall              = errors.New("hdr: counts array length overflows the host int type")
)

// Recording errors, returned by Record, RecordN, and their corrected variants.
var (
	ErrValueOutOfRangeResizeDisabled = errors.New("hdr: value out of range and auto-resize is disabled")
	ErrResizeFailedUsizeTypeTooSmall = errors.New("hdr: resize would overflow the host int type")
)

// Addition errors, returned by Add.
var (
	ErrOtherAddendValueExceedsRange = errors.New("hdr: addend's recorded values exceed this histogram's range")
)

// Subtraction errors, returned by Subtract. SubtrahendCountExceedsMinuendCount
// may be returned after partially mutating the receiver; callers that need a
// clean rollback should operate on a clone.
var (
	ErrSubtrahendValueExceedsMinuendRange = errors.New("hdr: subtrahend has values beyond this histogram's range")
	ErrSubtrahendCountExceedsMinuendCount = errors.New("hdr: subtrahend count at some value exceeds minuend count")
)
