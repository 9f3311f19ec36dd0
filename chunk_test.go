package pngchunk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

const secretMessage = "This is where your secret message will be!"

// secretCRC is the CRC-32/IEEE of "RuSt" followed by secretMessage.
const secretCRC uint32 = 2882656334

// buildRecord assembles a raw wire record by hand.
func buildRecord(length uint32, tag string, data []byte, crc uint32) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, length)
	buf.WriteString(tag)
	buf.Write(data)
	_ = binary.Write(&buf, binary.BigEndian, crc)
	return buf.Bytes()
}

func testingChunk(t *testing.T) *Chunk {
	t.Helper()
	raw := buildRecord(uint32(len(secretMessage)), "RuSt", []byte(secretMessage), secretCRC)
	c, err := ParseChunk(raw)
	if err != nil {
		t.Fatalf("ParseChunk: %v", err)
	}
	return c
}

func TestNewChunk(t *testing.T) {
	ct, err := ChunkTypeFromString("RuSt")
	if err != nil {
		t.Fatal(err)
	}
	c := NewChunk(ct, []byte(secretMessage))
	if c.Length() != uint32(len(secretMessage)) {
		t.Fatalf("length = %d", c.Length())
	}
	if c.CRC() != secretCRC {
		t.Fatalf("crc = %d, want %d", c.CRC(), secretCRC)
	}
}

func TestNewChunkEmptyData(t *testing.T) {
	ct, _ := ChunkTypeFromString("teSt")
	c := NewChunk(ct, nil)
	if c.Length() != 0 {
		t.Fatalf("length = %d", c.Length())
	}
	if len(c.Bytes()) != 12 {
		t.Fatalf("empty record must be 12 bytes, got %d", len(c.Bytes()))
	}
}

func TestNewChunkCopiesData(t *testing.T) {
	ct, _ := ChunkTypeFromString("teSt")
	data := []byte("mutable")
	c := NewChunk(ct, data)
	data[0] = 'X'
	if c.Data()[0] != 'm' {
		t.Fatal("chunk must own a copy of its data")
	}
}

func TestCRCDeterminism(t *testing.T) {
	ct, _ := ChunkTypeFromString("RuSt")
	a := NewChunk(ct, []byte(secretMessage))
	b := NewChunk(ct, []byte(secretMessage))
	if a.CRC() != b.CRC() {
		t.Fatalf("crc not deterministic: %d vs %d", a.CRC(), b.CRC())
	}
}

func TestChunkAccessors(t *testing.T) {
	c := testingChunk(t)
	if c.Length() != uint32(len(secretMessage)) {
		t.Fatalf("length = %d", c.Length())
	}
	if c.Type().String() != "RuSt" {
		t.Fatalf("type = %q", c.Type())
	}
	if !bytes.Equal(c.Data(), []byte(secretMessage)) {
		t.Fatalf("data = %q", c.Data())
	}
	if c.CRC() != secretCRC {
		t.Fatalf("crc = %d", c.CRC())
	}
}

func TestChunkDataString(t *testing.T) {
	c := testingChunk(t)
	s, err := c.DataString()
	if err != nil {
		t.Fatal(err)
	}
	if s != secretMessage {
		t.Fatalf("got %q", s)
	}

	ct, _ := ChunkTypeFromString("teSt")
	bad := NewChunk(ct, []byte{0xFF, 0xFE})
	if _, err := bad.DataString(); !errors.Is(err, ErrDataNotUTF8) {
		t.Fatalf("expected ErrDataNotUTF8, got %v", err)
	}
}

func TestChunkString(t *testing.T) {
	s := testingChunk(t).String()
	if s == "" {
		t.Fatal("empty summary")
	}
	for _, want := range []string{"RuSt", "42", "2882656334"} {
		if !bytes.Contains([]byte(s), []byte(want)) {
			t.Fatalf("summary %q missing %q", s, want)
		}
	}
}

func TestParseChunkRoundTrip(t *testing.T) {
	ct, err := ChunkTypeFromString("FrSt")
	if err != nil {
		t.Fatal(err)
	}
	payload := []byte("I am the first chunkd")
	c := NewChunk(ct, payload)
	if c.Length() != uint32(len(payload)) {
		t.Fatalf("length = %d", c.Length())
	}

	got, err := ParseChunk(c.Bytes())
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if got.Length() != c.Length() || got.Type() != c.Type() || got.CRC() != c.CRC() {
		t.Fatalf("field mismatch: %v vs %v", got, c)
	}
	if !bytes.Equal(got.Data(), c.Data()) {
		t.Fatal("data mismatch")
	}

	// Corrupt one payload byte of the serialized form.
	raw := c.Bytes()
	raw[10] ^= 0x01
	if _, err := ParseChunk(raw); !errors.Is(err, ErrCRCMismatch) {
		t.Fatalf("expected ErrCRCMismatch, got %v", err)
	}
}

func TestParseChunkCRCMismatch(t *testing.T) {
	raw := buildRecord(uint32(len(secretMessage)), "RuSt", []byte(secretMessage), secretCRC+1)
	_, err := ParseChunk(raw)
	if !errors.Is(err, ErrCRCMismatch) {
		t.Fatalf("expected ErrCRCMismatch, got %v", err)
	}
	var ce *CRCError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CRCError, got %T", err)
	}
	if ce.Computed != secretCRC || ce.Declared != secretCRC+1 {
		t.Fatalf("CRCError = %+v", ce)
	}
}

func TestParseChunkTamperAnyBit(t *testing.T) {
	ct, _ := ChunkTypeFromString("RuSt")
	c := NewChunk(ct, []byte("payload"))
	base := c.Bytes()
	// Flip each bit of the payload and of the declared CRC in turn.
	for off := 8; off < len(base); off++ {
		for bit := 0; bit < 8; bit++ {
			raw := make([]byte, len(base))
			copy(raw, base)
			raw[off] ^= 1 << bit
			if _, err := ParseChunk(raw); !errors.Is(err, ErrCRCMismatch) {
				t.Fatalf("offset %d bit %d: expected ErrCRCMismatch, got %v", off, bit, err)
			}
		}
	}
}

func TestParseChunkInputTooSmall(t *testing.T) {
	for n := 0; n < 16; n++ {
		_, err := ParseChunk(make([]byte, n))
		if !errors.Is(err, ErrInputTooSmall) {
			t.Fatalf("%d bytes: expected ErrInputTooSmall, got %v", n, err)
		}
	}
}

func TestParseChunkEmptyDataBoundary(t *testing.T) {
	// 16-byte buffer: length 0, a valid type, a correct CRC over type only,
	// and 4 trailing bytes past the record.
	ct, _ := ChunkTypeFromString("teSt")
	c := NewChunk(ct, nil)
	raw := append(c.Bytes(), 0, 0, 0, 0)
	if len(raw) != 16 {
		t.Fatalf("fixture is %d bytes", len(raw))
	}
	got, err := ParseChunk(raw)
	if err != nil {
		t.Fatal(err)
	}
	if got.Length() != 0 || len(got.Data()) != 0 {
		t.Fatalf("expected empty data, got %d bytes", got.Length())
	}
	if got.CRC() != c.CRC() {
		t.Fatalf("crc mismatch: %d vs %d", got.CRC(), c.CRC())
	}
}

func TestParseChunkDeclaredLengthExceedsBuffer(t *testing.T) {
	// Crafted length far past the end of the buffer must fail cleanly.
	raw := buildRecord(1<<20, "RuSt", []byte("short"), 0)
	_, err := ParseChunk(raw)
	if !errors.Is(err, ErrInputTooSmall) {
		t.Fatalf("expected ErrInputTooSmall, got %v", err)
	}
}

func TestParseChunkInvalidType(t *testing.T) {
	raw := buildRecord(4, "Ru1t", []byte("data"), 0)
	_, err := ParseChunk(raw)
	if !errors.Is(err, ErrChunkTypeNotValid) {
		t.Fatalf("expected ErrChunkTypeNotValid, got %v", err)
	}
	// The type-level detail stays reachable through the record-level error.
	if !errors.Is(err, ErrValueNotInRange) {
		t.Fatalf("expected ErrValueNotInRange, got %v", err)
	}
}

func TestParseChunkDataLenLimit(t *testing.T) {
	ct, _ := ChunkTypeFromString("RuSt")
	c := NewChunk(ct, make([]byte, 64))
	_, err := ParseChunk(c.Bytes(), WithParseLimits(Limits{MaxDataLen: 8}))
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
}

func TestParseChunkSkipCRCVerification(t *testing.T) {
	raw := buildRecord(uint32(len(secretMessage)), "RuSt", []byte(secretMessage), secretCRC+1)
	c, err := ParseChunk(raw, WithVerifyCRC(false))
	if err != nil {
		t.Fatalf("ParseChunk: %v", err)
	}
	// The chunk carries the recomputed CRC, not the corrupted declared one.
	if c.CRC() != secretCRC {
		t.Fatalf("crc = %d", c.CRC())
	}
}

func TestParseChunkIgnoresTrailingBytes(t *testing.T) {
	c := testingChunk(t)
	raw := append(c.Bytes(), []byte("trailing garbage")...)
	got, err := ParseChunk(raw)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Data(), c.Data()) {
		t.Fatal("data mismatch")
	}
}
