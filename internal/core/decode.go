package core

// decode.go normalizes raw upload bytes to clean UTF-8 before tokenizing.
//
// Payroll exports arrive in whatever encoding the vendor's desktop software
// saved them in:
//
//   - UTF-8 with a BOM (Excel "CSV UTF-8")
//   - Windows-1252 (older BrightPay and Sage exports)
//   - UTF-16 with a BOM (Excel "Unicode Text")
//
// Invalid UTF-8 is replaced with U+FFFD rather than rejected so one bad byte
// in a name does not fail the whole file.

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// ErrUnsupportedEncoding is returned for an unknown Encoding option.
var ErrUnsupportedEncoding = errors.New("encoding error: unsupported input encoding")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeInput converts data in the named encoding to UTF-8.
func DecodeInput(data []byte, enc string) ([]byte, error) {
	var dec *encoding.Decoder

	switch strings.ToLower(strings.TrimSpace(enc)) {
	case "", "utf-8", "utf8":
		return sanitizeUTF8(bytes.TrimPrefix(data, utf8BOM)), nil
	case "windows-1252", "cp1252":
		dec = charmap.Windows1252.NewDecoder()
	case "iso-8859-1", "latin1":
		dec = charmap.ISO8859_1.NewDecoder()
	case "utf-16", "utf16":
		dec = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, enc)
	}

	out, err := dec.Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("encoding error: decode %s: %w", enc, err)
	}
	return sanitizeUTF8(bytes.TrimPrefix(out, utf8BOM)), nil
}

// sanitizeUTF8 replaces invalid UTF-8 sequences with the replacement character.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune(utf8.RuneError)
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
