// Package pngchunk implements the PNG chunk record format.
//
// A PNG file is a signature followed by a sequence of chunks. Each chunk is a
// self-contained, CRC-protected record:
//
//	+--------+--------+-----------+--------+
//	| length | type   | data      | crc    |
//	| 4 B BE | 4 B    | length B  | 4 B BE |
//	+--------+--------+-----------+--------+
//
// The type is four ASCII letters; bit 5 of each byte carries a semantic flag
// (critical/ancillary, public/private, reserved, safe-to-copy). The CRC is
// CRC-32/IEEE computed over the type bytes followed by the data bytes.
//
// This package implements the record codec only: building a chunk from a type
// and payload, parsing and verifying a chunk from raw bytes or a stream, and
// the standard textual payload formats (tEXt, zTXt, iTXt). It does not walk
// whole-file chunk streams and does not decode image data.
//
// # Basic Usage
//
// To build and serialize a chunk:
//
//	ct, _ := pngchunk.ChunkTypeFromString("tEXt")
//	c := pngchunk.NewChunk(ct, payload)
//	wire := c.Bytes()
//
// To parse and verify a chunk from raw bytes:
//
//	c, err := pngchunk.ParseChunk(wire)
//
// # Security Considerations
//
// Parsing bounds-checks the declared data length against the supplied buffer
// and enforces configurable [Limits] on declared lengths and on decompressed
// textual payloads, so malformed or hostile input fails with an error instead
// of panicking or exhausting memory.
package pngchunk
