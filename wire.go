package pngchunk

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
)

// ReadChunk reads exactly one record from r. The reader is left positioned at
// the first byte after the record, so consecutive calls walk a chunk stream.
//
// Decode errors use the same taxonomy as ParseChunk; I/O errors from r are
// returned as-is (io.ErrUnexpectedEOF for a truncated record).
func ReadChunk(r io.Reader, opts ...ParseOption) (*Chunk, error) {
	cfg := parseConfig{limits: defaultLimits(), verifyCRC: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()

	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	dataLen := binary.BigEndian.Uint32(hdr[0:4])
	if dataLen > cfg.limits.MaxDataLen {
		return nil, fmt.Errorf("%w: declared data length %d", ErrLimitExceeded, dataLen)
	}
	var tag [4]byte
	copy(tag[:], hdr[4:8])
	ct, err := NewChunkType(tag)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrChunkTypeNotValid, err)
	}

	data := make([]byte, dataLen)
	if _, err := io.ReadFull(r, data); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	var crcBuf [4]byte
	if _, err := io.ReadFull(r, crcBuf[:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	declared := binary.BigEndian.Uint32(crcBuf[:])

	h := crc32.NewIEEE()
	h.Write(hdr[4:8])
	h.Write(data)
	computed := h.Sum32()
	if cfg.verifyCRC && computed != declared {
		return nil, &CRCError{Computed: computed, Declared: declared}
	}
	return &Chunk{chunkType: ct, data: data, crc: computed}, nil
}

// WriteChunk writes c's full wire record to w.
func WriteChunk(w io.Writer, c *Chunk) error {
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:4], c.Length())
	tb := c.chunkType.Bytes()
	copy(hdr[4:8], tb[:])
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	if len(c.data) > 0 {
		if _, err := w.Write(c.data); err != nil {
			return err
		}
	}
	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], c.crc)
	_, err := w.Write(crcBuf[:])
	return err
}
