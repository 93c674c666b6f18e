package wire

import (
	"testing"

	"github.com/hdrhistogram/gohdr/hdr"
)

// S2: header is exactly 40 bytes, followed by a 4-byte counts payload
// encoding [+1, -2046, +1].
func TestSerializeV2LiteralScenario(t *testing.T) {
	h, err := hdr.NewWithBounds[uint64](1, 2047, 3)
	if err != nil {
		t.Fatalf("NewWithBounds: %v", err)
	}
	if err := h.Record(0); err != nil {
		t.Fatal(err)
	}
	if err := h.Record(2047); err != nil {
		t.Fatal(err)
	}

	s := NewV2Serializer[uint64]()
	out, err := s.Serialize(h)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	if len(out) != headerLen+4 {
		t.Fatalf("len(out) = %d, want %d (40-byte header + 4-byte payload)", len(out), headerLen+4)
	}

	d := NewDeserializer[uint64]()
	got, err := d.Deserialize(out)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if !got.Equals(h) {
		t.Error("deserialized histogram does not equal the original")
	}
}

// Round-trip law 8: V2 serialize -> deserialize is the identity.
func TestV2RoundTrip(t *testing.T) {
	h, err := hdr.NewWithBounds[uint64](1, 1<<40, 3)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []uint64{1, 5, 100, 100000, 1 << 30} {
		if err := h.RecordN(v, uint64(v%97+1)); err != nil {
			t.Fatal(err)
		}
	}

	s := NewV2Serializer[uint64]()
	out, err := s.Serialize(h)
	if err != nil {
		t.Fatal(err)
	}

	d := NewDeserializer[uint64]()
	got, err := d.Deserialize(out)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if !got.Equals(h) {
		t.Error("V2 serialize -> deserialize was not the identity")
	}
}

// Round-trip law 9: V2+zlib serialize -> deserialize is the identity.
func TestV2DeflateRoundTrip(t *testing.T) {
	h, err := hdr.NewWithBounds[uint64](1, 1<<40, 3)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []uint64{2, 50, 5000, 999999} {
		if err := h.RecordN(v, 7); err != nil {
			t.Fatal(err)
		}
	}

	s := NewV2DeflateSerializer[uint64]()
	out, err := s.Serialize(h)
	if err != nil {
		t.Fatal(err)
	}

	d := NewDeserializer[uint64]()
	got, err := d.Deserialize(out)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if !got.Equals(h) {
		t.Error("V2+zlib serialize -> deserialize was not the identity")
	}
}

func TestDeserializeRejectsInvalidCookie(t *testing.T) {
	buf := make([]byte, headerLen)
	buf[0], buf[1], buf[2], buf[3] = 0, 0, 0, 0
	d := NewDeserializer[uint64]()
	if _, err := d.Deserialize(buf); err != ErrInvalidCookie {
		t.Errorf("Deserialize with bogus cookie: got %v, want ErrInvalidCookie", err)
	}
}
