// Package encoding provides text decoding for the zero-terminated strings
// stored in 3DS chunks.
package encoding

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Charset names a legacy single-byte code page used for chunk strings.
type Charset string

// Supported charsets.
const (
	CharsetRaw         Charset = "raw"
	CharsetWindows1252 Charset = "windows-1252"
	CharsetCP437       Charset = "cp437"
	CharsetLatin1      Charset = "iso-8859-1"
)

// DefaultCharset is used when no charset is configured.
const DefaultCharset = CharsetWindows1252

// ParseCharset converts a configuration string to a Charset.
func ParseCharset(name string) (Charset, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return DefaultCharset, nil
	case "raw", "none":
		return CharsetRaw, nil
	case "windows-1252", "cp1252":
		return CharsetWindows1252, nil
	case "cp437", "ibm437":
		return CharsetCP437, nil
	case "iso-8859-1", "latin1":
		return CharsetLatin1, nil
	}
	return "", fmt.Errorf("unknown charset %q", name)
}

func (c Charset) encoding() encoding.Encoding {
	switch c {
	case CharsetWindows1252:
		return charmap.Windows1252
	case CharsetCP437:
		return charmap.CodePage437
	case CharsetLatin1:
		return charmap.ISO8859_1
	}
	return nil
}

// Decode converts bytes in charset c to a UTF-8 string.
// Returns the bytes as-is for CharsetRaw or if conversion fails.
func (c Charset) Decode(data []byte) string {
	enc := c.encoding()
	if enc == nil {
		return string(data)
	}
	result, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// CString returns the bytes of data up to the first zero byte, and whether a
// terminator was found. Nothing past len(data) is ever examined.
func CString(data []byte) ([]byte, bool) {
	if idx := bytes.IndexByte(data, 0); idx >= 0 {
		return data[:idx], true
	}
	return data, false
}
