package pngchunk

import "math"

// maxPNGDataLen is the format ceiling on a chunk's data length: PNG caps the
// length field at 2^31-1 so it stays representable in a signed 32-bit int.
const maxPNGDataLen uint32 = 1<<31 - 1

// maxTextLenCap keeps the limit representable in the signed arithmetic the
// decompression cap uses.
const maxTextLenCap uint64 = math.MaxInt64 - 1

type Limits struct {
	MaxDataLen uint32 // declared chunk data length
	MaxTextLen uint64 // decompressed zTXt/iTXt text bytes
}

func defaultLimits() Limits {
	return Limits{
		MaxDataLen: maxPNGDataLen,
		MaxTextLen: 64 << 20, // 64 MiB
	}
}

func (l Limits) withDefaults() Limits {
	d := defaultLimits()
	if l.MaxDataLen == 0 {
		l.MaxDataLen = d.MaxDataLen
	}
	if l.MaxDataLen > maxPNGDataLen {
		l.MaxDataLen = maxPNGDataLen
	}
	if l.MaxTextLen == 0 {
		l.MaxTextLen = d.MaxTextLen
	}
	if l.MaxTextLen > maxTextLenCap {
		l.MaxTextLen = maxTextLenCap
	}
	return l
}
