package pngchunk

import (
	"errors"
	"fmt"
)

var (
	ErrInputTooSmall     = errors.New("pngchunk: input too small")
	ErrChunkTypeNotValid = errors.New("pngchunk: chunk type not valid")
	ErrValueNotInRange   = errors.New("pngchunk: type byte not an ASCII letter")
	ErrWrongLength       = errors.New("pngchunk: type string must be 4 characters")
	ErrCRCMismatch       = errors.New("pngchunk: crc mismatch")
	ErrDataNotUTF8       = errors.New("pngchunk: data is not valid UTF-8")
	ErrInvalidPayload    = errors.New("pngchunk: invalid payload")
	ErrLimitExceeded     = errors.New("pngchunk: limit exceeded")
)

// CRCError reports a failed integrity check. It unwraps to ErrCRCMismatch.
type CRCError struct {
	Computed uint32
	Declared uint32
}

func (e *CRCError) Error() string {
	return fmt.Sprintf("%v: computed 0x%08x, declared 0x%08x", ErrCRCMismatch, e.Computed, e.Declared)
}

func (e *CRCError) Unwrap() error { return ErrCRCMismatch }
