package pngchunk

import "fmt"

// ChunkType is the 4-letter tag identifying a chunk's role. Bit 5 (0x20) of
// each byte carries a semantic flag; because bit 5 is the ASCII case bit, the
// flags read directly off the capitalization of the tag.
type ChunkType [4]byte

// propertyBit is the flag bit within each type byte.
const propertyBit byte = 0x20

// Standard textual chunk types whose payload formats this package implements.
var (
	TypeText              = ChunkType{'t', 'E', 'X', 't'}
	TypeCompressedText    = ChunkType{'z', 'T', 'X', 't'}
	TypeInternationalText = ChunkType{'i', 'T', 'X', 't'}
)

// NewChunkType validates b as a chunk type. Every byte must be an ASCII
// letter (A-Z or a-z). All four bytes are checked before reporting, so the
// result does not depend on which byte is invalid.
func NewChunkType(b [4]byte) (ChunkType, error) {
	ok := true
	for _, c := range b {
		if !isTagLetter(c) {
			ok = false
		}
	}
	if !ok {
		return ChunkType{}, fmt.Errorf("%w: %q", ErrValueNotInRange, b[:])
	}
	return ChunkType(b), nil
}

// ChunkTypeFromString validates s as a chunk type. The length is checked
// before any character is inspected.
func ChunkTypeFromString(s string) (ChunkType, error) {
	if len(s) != 4 {
		return ChunkType{}, fmt.Errorf("%w: got %d", ErrWrongLength, len(s))
	}
	var b [4]byte
	copy(b[:], s)
	return NewChunkType(b)
}

func isTagLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// String returns the four tag characters in their original case.
func (t ChunkType) String() string { return string(t[:]) }

// Bytes returns the canonical 4-byte form, as used on the wire and as the
// leading CRC input.
func (t ChunkType) Bytes() [4]byte { return t }

// IsCritical reports whether the chunk is necessary for meaningful display
// (bit 5 of the first byte clear, i.e. uppercase).
func (t ChunkType) IsCritical() bool { return t[0]&propertyBit == 0 }

// IsPublic reports whether the type is defined by the public specification
// rather than privately (bit 5 of the second byte clear).
func (t ChunkType) IsPublic() bool { return t[1]&propertyBit == 0 }

// IsReservedBitValid reports whether the reserved bit (bit 5 of the third
// byte) is clear, as required of all conforming chunk types.
func (t ChunkType) IsReservedBitValid() bool { return t[2]&propertyBit == 0 }

// IsSafeToCopy reports whether an editor that does not recognize the chunk
// may copy it unchanged (bit 5 of the fourth byte set).
func (t ChunkType) IsSafeToCopy() bool { return t[3]&propertyBit != 0 }

// IsValid reports whether the type is semantically valid, which for a
// well-formed tag reduces to the reserved bit being clear. A tag can pass
// construction and still be invalid here.
func (t ChunkType) IsValid() bool { return t.IsReservedBitValid() }
