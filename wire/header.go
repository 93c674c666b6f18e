package wire

import (
	"encoding/binary"
	"math"
)

const (
	cookiePlainV2      uint32 = 0x1C849303 | 0x10
	cookieCompressedV2 uint32 = 0x1C849304 | 0x10
	headerLen                 = 40
)

// header is the fixed 40-byte V2 preamble, always big-endian on the wire.
type header struct {
	cookie            uint32
	payloadLength     uint32
	normalizingOffset uint32
	sigFigs           uint32
	low               uint64
	high              uint64
	conversionRatio   float64
}

func (h header) appendTo(buf []byte) []byte {
	var b [headerLen]byte
	binary.BigEndian.PutUint32(b[0:4], h.cookie)
	binary.BigEndian.PutUint32(b[4:8], h.payloadLength)
	binary.BigEndian.PutUint32(b[8:12], h.normalizingOffset)
	binary.BigEndian.PutUint32(b[12:16], h.sigFigs)
	binary.BigEndian.PutUint64(b[16:24], h.low)
	binary.BigEndian.PutUint64(b[24:32], h.high)
	binary.BigEndian.PutUint64(b[32:40], math.Float64bits(h.conversionRatio))
	return append(buf, b[:]...)
}

func readHeader(buf []byte) (header, error) {
	if len(buf) < headerLen {
		return header{}, ErrInvalidCookie
	}
	var h header
	h.cookie = binary.BigEndian.Uint32(buf[0:4])
	if h.cookie != cookiePlainV2 && h.cookie != cookieCompressedV2 {
		return header{}, ErrInvalidCookie
	}
	h.payloadLength = binary.BigEndian.Uint32(buf[4:8])
	h.normalizingOffset = binary.BigEndian.Uint32(buf[8:12])
	h.sigFigs = binary.BigEndian.Uint32(buf[12:16])
	h.low = binary.BigEndian.Uint64(buf[16:24])
	h.high = binary.BigEndian.Uint64(buf[24:32])
	h.conversionRatio = math.Float64frombits(binary.BigEndian.Uint64(buf[32:40]))

	if h.normalizingOffset != 0 || h.conversionRatio != 1.0 {
		return header{}, ErrUnsupportedFeature
	}
	return h, nil
}
