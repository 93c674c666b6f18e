// Package wire implements the V2 binary serialization format for gohdr
// histograms: a fixed 40-byte header plus a LEB128-64b9B/zig-zag-encoded
// counts payload, with an optional zlib-compressed outer wrapper.
package wire

import "errors"

// Sentinel errors returned by the serializers and Deserializer, grouped the
// way hdr's errors.go groups its own sentinels.
var (
	ErrInvalidCookie         = errors.New("wire: unrecognized cookie")
	ErrUnsupportedFeature    = errors.New("wire: unsupported feature (nonzero normalizing offset or non-1.0 conversion ratio)")
	ErrUnsuitableCounterType = errors.New("wire: decoded count overflows the target counter type")
	ErrInvalidParameters     = errors.New("wire: invalid low/high/sigfigs in header")
	ErrUsizeTypeTooSmall     = errors.New("wire: length overflows the host int type")
	ErrEncodedArrayTooLong   = errors.New("wire: payload addresses an index beyond the histogram's counts array")
	ErrCountNotSerializable  = errors.New("wire: count exceeds the maximum representable signed 64-bit magnitude")
	ErrInternalSerialization = errors.New("wire: the plain V2 stage of the compressed format failed")
)
