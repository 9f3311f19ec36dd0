package pngchunk

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"strings"
	"unicode/utf8"
)

const (
	// chunkOverhead is the non-data portion of a record: 4-byte length,
	// 4-byte type, 4-byte CRC.
	chunkOverhead = 12

	// minParseSize is the smallest buffer ParseChunk accepts.
	minParseSize = 16
)

// Chunk is one length-prefixed, CRC-protected record. A Chunk owns its type
// and data; the CRC is computed at construction and never recomputed, so a
// Chunk in hand is always internally consistent.
type Chunk struct {
	chunkType ChunkType
	data      []byte
	crc       uint32
}

// NewChunk builds a chunk from a type and payload. The payload is copied and
// may be empty; the CRC is computed over the type bytes followed by the data.
func NewChunk(t ChunkType, data []byte) *Chunk {
	owned := make([]byte, len(data))
	copy(owned, data)
	h := crc32.NewIEEE()
	tb := t.Bytes()
	h.Write(tb[:])
	h.Write(owned)
	return &Chunk{chunkType: t, data: owned, crc: h.Sum32()}
}

// ParseChunk decodes and verifies one record from b. Bytes beyond the record
// are ignored, so b may be a window into a larger buffer as long as it covers
// the whole record.
//
// ParseChunk returns ErrInputTooSmall if b is under 16 bytes or shorter than
// the declared record, ErrLimitExceeded if the declared data length exceeds
// Limits.MaxDataLen, ErrChunkTypeNotValid if the type bytes are not four
// ASCII letters, and ErrCRCMismatch (a *CRCError) if the integrity check
// fails. Malformed input never panics.
func ParseChunk(b []byte, opts ...ParseOption) (*Chunk, error) {
	cfg := parseConfig{limits: defaultLimits(), verifyCRC: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()

	if len(b) < minParseSize {
		return nil, fmt.Errorf("%w: got %d bytes, need at least %d", ErrInputTooSmall, len(b), minParseSize)
	}
	dataLen := binary.BigEndian.Uint32(b[0:4])
	if dataLen > cfg.limits.MaxDataLen {
		return nil, fmt.Errorf("%w: declared data length %d", ErrLimitExceeded, dataLen)
	}
	var tag [4]byte
	copy(tag[:], b[4:8])
	ct, err := NewChunkType(tag)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrChunkTypeNotValid, err)
	}
	// Bounds-check the declared length before slicing; a crafted length must
	// fail cleanly, not read out of range.
	end := chunkOverhead + uint64(dataLen)
	if end > uint64(len(b)) {
		return nil, fmt.Errorf("%w: declared data length %d exceeds %d remaining bytes",
			ErrInputTooSmall, dataLen, len(b)-chunkOverhead)
	}
	data := b[8 : 8+dataLen]
	declared := binary.BigEndian.Uint32(b[8+dataLen : end])
	computed := crc32.ChecksumIEEE(b[4 : 8+dataLen])
	if cfg.verifyCRC && computed != declared {
		return nil, &CRCError{Computed: computed, Declared: declared}
	}

	owned := make([]byte, dataLen)
	copy(owned, data)
	return &Chunk{chunkType: ct, data: owned, crc: computed}, nil
}

// Length returns the payload byte count.
func (c *Chunk) Length() uint32 { return uint32(len(c.data)) }

// Type returns the chunk's type tag.
func (c *Chunk) Type() ChunkType { return c.chunkType }

// Data returns the payload. The returned slice is the chunk's own buffer and
// must not be modified.
func (c *Chunk) Data() []byte { return c.data }

// CRC returns the CRC-32/IEEE over the type bytes followed by the payload.
func (c *Chunk) CRC() uint32 { return c.crc }

// DataString returns the payload decoded as UTF-8 text.
func (c *Chunk) DataString() (string, error) {
	if !utf8.Valid(c.data) {
		return "", ErrDataNotUTF8
	}
	return string(c.data), nil
}

// Bytes serializes the full wire record: big-endian length, type, data and
// big-endian CRC. The result round-trips through ParseChunk for non-empty
// payloads; an empty-payload record is 12 bytes, below ParseChunk's 16-byte
// floor, and round-trips through ReadChunk instead.
func (c *Chunk) Bytes() []byte {
	out := make([]byte, chunkOverhead+len(c.data))
	binary.BigEndian.PutUint32(out[0:4], uint32(len(c.data)))
	tb := c.chunkType.Bytes()
	copy(out[4:8], tb[:])
	copy(out[8:], c.data)
	binary.BigEndian.PutUint32(out[8+len(c.data):], c.crc)
	return out
}

// String returns a multi-line diagnostic summary. Not part of the wire format.
func (c *Chunk) String() string {
	var sb strings.Builder
	sb.WriteString("Chunk {\n")
	fmt.Fprintf(&sb, "  Length: %d\n", c.Length())
	fmt.Fprintf(&sb, "  Type: %s\n", c.chunkType)
	fmt.Fprintf(&sb, "  Data: %d bytes\n", len(c.data))
	fmt.Fprintf(&sb, "  Crc: %d\n", c.crc)
	sb.WriteString("}")
	return sb.String()
}
