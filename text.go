package pngchunk

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/klauspost/compress/zlib"
)

// zlibMethod is the only compression method PNG defines for textual chunks.
const zlibMethod byte = 0

// Function variables for testing injection.
var (
	newZlibReader = func(r io.Reader) (io.ReadCloser, error) { return zlib.NewReader(r) }
	zlibClose     = func(w *zlib.Writer) error { return w.Close() }
	readAll       = io.ReadAll
)

// TextData is the logical content of a tEXt or zTXt payload: a short Latin-1
// keyword and the text it labels.
type TextData struct {
	Keyword string
	Text    string
}

// InternationalTextData is the logical content of an iTXt payload.
//
// Keyword follows the same rules as TextData.Keyword. LanguageTag is an
// RFC 3066 style tag ("en-us"); it and TranslatedKeyword may be empty.
// Text and TranslatedKeyword are UTF-8. When Compressed is set the text is
// stored zlib-compressed on the wire.
type InternationalTextData struct {
	Keyword           string
	LanguageTag       string
	TranslatedKeyword string
	Text              string
	Compressed        bool
}

// EncodeTextData builds a tEXt payload: keyword, a zero separator, then the
// uncompressed text.
func EncodeTextData(td TextData) ([]byte, error) {
	if err := validateKeyword(td.Keyword); err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(td.Keyword)+1+len(td.Text))
	out = append(out, td.Keyword...)
	out = append(out, 0)
	out = append(out, td.Text...)
	return out, nil
}

// ParseTextData splits a tEXt payload at its zero separator.
func ParseTextData(payload []byte) (TextData, error) {
	kw, text, ok := bytes.Cut(payload, []byte{0})
	if !ok {
		return TextData{}, fmt.Errorf("%w: missing keyword separator", ErrInvalidPayload)
	}
	if err := validateKeyword(string(kw)); err != nil {
		return TextData{}, err
	}
	return TextData{Keyword: string(kw), Text: string(text)}, nil
}

// EncodeCompressedTextData builds a zTXt payload: keyword, a zero separator,
// the compression method byte, then the zlib-compressed text.
func EncodeCompressedTextData(td TextData) ([]byte, error) {
	if err := validateKeyword(td.Keyword); err != nil {
		return nil, err
	}
	compressed, err := zlibCompress([]byte(td.Text))
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(td.Keyword)+2+len(compressed))
	out = append(out, td.Keyword...)
	out = append(out, 0, zlibMethod)
	out = append(out, compressed...)
	return out, nil
}

// ParseCompressedTextData decodes a zTXt payload. Decompression is capped at
// Limits.MaxTextLen; text that expands beyond the cap fails with
// ErrLimitExceeded rather than being allocated.
func ParseCompressedTextData(payload []byte, opts ...ParseOption) (TextData, error) {
	cfg := parseConfig{limits: defaultLimits(), verifyCRC: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()

	kw, rest, ok := bytes.Cut(payload, []byte{0})
	if !ok {
		return TextData{}, fmt.Errorf("%w: missing keyword separator", ErrInvalidPayload)
	}
	if err := validateKeyword(string(kw)); err != nil {
		return TextData{}, err
	}
	if len(rest) < 1 {
		return TextData{}, fmt.Errorf("%w: missing compression method", ErrInvalidPayload)
	}
	if rest[0] != zlibMethod {
		return TextData{}, fmt.Errorf("%w: unknown compression method %d", ErrInvalidPayload, rest[0])
	}
	text, err := zlibDecompress(rest[1:], cfg.limits.MaxTextLen)
	if err != nil {
		return TextData{}, err
	}
	return TextData{Keyword: string(kw), Text: string(text)}, nil
}

// EncodeInternationalTextData builds an iTXt payload.
func EncodeInternationalTextData(td InternationalTextData) ([]byte, error) {
	if err := validateKeyword(td.Keyword); err != nil {
		return nil, err
	}
	if !utf8.ValidString(td.TranslatedKeyword) || !utf8.ValidString(td.Text) {
		return nil, fmt.Errorf("%w: translated keyword and text must be UTF-8", ErrInvalidPayload)
	}
	text := []byte(td.Text)
	compFlag := byte(0)
	if td.Compressed {
		compFlag = 1
		var err error
		text, err = zlibCompress(text)
		if err != nil {
			return nil, err
		}
	}
	out := make([]byte, 0, len(td.Keyword)+5+len(td.LanguageTag)+len(td.TranslatedKeyword)+len(text))
	out = append(out, td.Keyword...)
	out = append(out, 0, compFlag, zlibMethod)
	out = append(out, td.LanguageTag...)
	out = append(out, 0)
	out = append(out, td.TranslatedKeyword...)
	out = append(out, 0)
	out = append(out, text...)
	return out, nil
}

// ParseInternationalTextData decodes an iTXt payload, decompressing the text
// when the compression flag is set. The same MaxTextLen cap as zTXt applies.
func ParseInternationalTextData(payload []byte, opts ...ParseOption) (InternationalTextData, error) {
	cfg := parseConfig{limits: defaultLimits(), verifyCRC: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()

	kw, rest, ok := bytes.Cut(payload, []byte{0})
	if !ok {
		return InternationalTextData{}, fmt.Errorf("%w: missing keyword separator", ErrInvalidPayload)
	}
	if err := validateKeyword(string(kw)); err != nil {
		return InternationalTextData{}, err
	}
	if len(rest) < 2 {
		return InternationalTextData{}, fmt.Errorf("%w: missing compression flag or method", ErrInvalidPayload)
	}
	compFlag, compMethod := rest[0], rest[1]
	if compFlag != 0 && compFlag != 1 {
		return InternationalTextData{}, fmt.Errorf("%w: compression flag must be 0 or 1, got %d", ErrInvalidPayload, compFlag)
	}
	if compMethod != zlibMethod {
		return InternationalTextData{}, fmt.Errorf("%w: unknown compression method %d", ErrInvalidPayload, compMethod)
	}
	lang, rest, ok := bytes.Cut(rest[2:], []byte{0})
	if !ok {
		return InternationalTextData{}, fmt.Errorf("%w: missing language tag separator", ErrInvalidPayload)
	}
	translated, text, ok := bytes.Cut(rest, []byte{0})
	if !ok {
		return InternationalTextData{}, fmt.Errorf("%w: missing translated keyword separator", ErrInvalidPayload)
	}
	if !utf8.Valid(translated) {
		return InternationalTextData{}, fmt.Errorf("%w: translated keyword is not UTF-8", ErrInvalidPayload)
	}
	if compFlag == 1 {
		var err error
		text, err = zlibDecompress(text, cfg.limits.MaxTextLen)
		if err != nil {
			return InternationalTextData{}, err
		}
	}
	if !utf8.Valid(text) {
		return InternationalTextData{}, fmt.Errorf("%w: text is not UTF-8", ErrInvalidPayload)
	}
	return InternationalTextData{
		Keyword:           string(kw),
		LanguageTag:       string(lang),
		TranslatedKeyword: string(translated),
		Text:              string(text),
		Compressed:        compFlag == 1,
	}, nil
}

// validateKeyword enforces the PNG keyword rules: 1-79 bytes of printable
// Latin-1, no leading, trailing or consecutive spaces.
func validateKeyword(kw string) error {
	if len(kw) == 0 || len(kw) > 79 {
		return fmt.Errorf("%w: keyword must be 1-79 bytes, got %d", ErrInvalidPayload, len(kw))
	}
	prevSpace := false
	for i := 0; i < len(kw); i++ {
		c := kw[i]
		printable := (c >= 32 && c <= 126) || (c >= 161)
		if !printable {
			return fmt.Errorf("%w: keyword byte 0x%02x not printable Latin-1", ErrInvalidPayload, c)
		}
		if c == ' ' {
			if i == 0 || i == len(kw)-1 || prevSpace {
				return fmt.Errorf("%w: keyword has leading, trailing or consecutive spaces", ErrInvalidPayload)
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
	}
	return nil
}

// zlibCompress compresses in using zlib.
func zlibCompress(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(in); err != nil {
		_ = zlibClose(zw)
		return nil, err
	}
	if err := zlibClose(zw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// zlibDecompress decompresses zlib data. It uses a LimitReader so hostile
// input cannot expand beyond max bytes.
func zlibDecompress(in []byte, max uint64) ([]byte, error) {
	zr, err := newZlibReader(bytes.NewReader(in))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	defer zr.Close()
	b, err := readAll(io.LimitReader(zr, int64(max)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if uint64(len(b)) > max {
		return nil, fmt.Errorf("%w: text expanded beyond %d bytes", ErrLimitExceeded, max)
	}
	return b, nil
}
