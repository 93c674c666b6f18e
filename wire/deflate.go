package wire

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"

	"github.com/hdrhistogram/gohdr/hdr"
)

// V2DeflateSerializer wraps V2Serializer's plain output in the compressed
// outer envelope: cookie + 4-byte length + zlib stream.
type V2DeflateSerializer[C hdr.Count] struct {
	inner V2Serializer[C]
}

// NewV2DeflateSerializer returns a ready-to-use compressed V2 serializer.
func NewV2DeflateSerializer[C hdr.Count]() *V2DeflateSerializer[C] {
	return &V2DeflateSerializer[C]{}
}

// Serialize produces the plain V2 encoding of h, deflates it, and wraps
// the result in the compressed header.
func (s *V2DeflateSerializer[C]) Serialize(h *hdr.Histogram[C]) ([]byte, error) {
	plain, err := s.inner.Serialize(h)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternalSerialization, err)
	}

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(plain); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	out := make([]byte, 0, 8+compressed.Len())
	var cookieBuf [4]byte
	binary.BigEndian.PutUint32(cookieBuf[:], cookieCompressedV2)
	out = append(out, cookieBuf[:]...)

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(compressed.Len()))
	out = append(out, lenBuf[:]...)

	return append(out, compressed.Bytes()...), nil
}
