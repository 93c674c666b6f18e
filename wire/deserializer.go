package wire

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hdrhistogram/gohdr/hdr"
)

// Deserializer reconstructs histograms from either plain or compressed V2
// bytes, distinguishing the two by the leading 4-byte cookie.
type Deserializer[C hdr.Count] struct{}

// NewDeserializer returns a ready-to-use deserializer.
func NewDeserializer[C hdr.Count]() *Deserializer[C] {
	return &Deserializer[C]{}
}

// Deserialize reads one histogram from buf, which must hold exactly one
// encoded histogram (plain or compressed V2).
func (d *Deserializer[C]) Deserialize(buf []byte) (*hdr.Histogram[C], error) {
	if len(buf) < 4 {
		return nil, ErrInvalidCookie
	}
	cookie := binary.BigEndian.Uint32(buf[0:4])
	if cookie == cookieCompressedV2 {
		return d.deserializeCompressed(buf)
	}
	return d.deserializePlain(buf)
}

func (d *Deserializer[C]) deserializeCompressed(buf []byte) (*hdr.Histogram[C], error) {
	if len(buf) < 8 {
		return nil, ErrInvalidCookie
	}
	length := binary.BigEndian.Uint32(buf[4:8])
	if uint64(length) > uint64(len(buf)-8) {
		return nil, ErrUsizeTypeTooSmall
	}
	zr, err := zlib.NewReader(bytes.NewReader(buf[8 : 8+length]))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternalSerialization, err)
	}
	defer zr.Close()

	plain, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternalSerialization, err)
	}
	return d.deserializePlain(plain)
}

func (d *Deserializer[C]) deserializePlain(buf []byte) (*hdr.Histogram[C], error) {
	hd, err := readHeader(buf)
	if err != nil {
		return nil, err
	}
	if hd.cookie != cookiePlainV2 {
		return nil, ErrInvalidCookie
	}
	if hd.sigFigs > 5 {
		return nil, ErrInvalidParameters
	}

	payloadEnd := headerLen + uint64(hd.payloadLength)
	if payloadEnd > uint64(len(buf)) {
		return nil, ErrUsizeTypeTooSmall
	}
	payload := buf[headerLen:payloadEnd]

	h, err := hdr.NewWithBounds[C](hd.low, hd.high, int(hd.sigFigs))
	if err != nil {
		return nil, ErrInvalidParameters
	}

	if err := decodeCounts(h, payload); err != nil {
		return nil, err
	}
	h.RecomputeAggregates()
	return h, nil
}

// decodeCounts walks the counts payload one varint at a time via
// readVarint; it has no separate path that reads 9 bytes at once.
// For each decoded signed number, negative means "advance the destination
// index by its magnitude" and nonnegative means "write this count".
func decodeCounts[C hdr.Count](h *hdr.Histogram[C], payload []byte) error {
	destIndex := 0
	maxCount := h.MaxCount()
	countsLen := h.DistinctValues()

	for len(payload) > 0 {
		u, n, ok := readVarint(payload)
		if !ok {
			return ErrEncodedArrayTooLong
		}
		payload = payload[n:]

		signed := zigZagDecode(u)
		if signed < 0 {
			skip := uint64(-signed)
			if skip > uint64(countsLen-destIndex) {
				return ErrEncodedArrayTooLong
			}
			destIndex += int(skip)
			continue
		}

		count := uint64(signed)
		if count > maxCount {
			return ErrUnsuitableCounterType
		}
		if destIndex >= countsLen {
			return ErrEncodedArrayTooLong
		}
		h.SetCountAt(destIndex, count)
		destIndex++
	}
	return nil
}
