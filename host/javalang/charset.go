package javalang

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// charsets are the standard charsets every Java platform supports, keyed by
// canonical upper-case name. US-ASCII is missing: x/text has no plain ASCII
// codec.
var charsets = map[string]encoding.Encoding{
	"UTF-8":      unicode.UTF8,
	"UTF-16":     unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	"UTF-16BE":   unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"UTF-16LE":   unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"ISO-8859-1": charmap.ISO8859_1,
}

var charsetAliases = map[string]string{
	"UTF8":      "UTF-8",
	"UTF_8":     "UTF-8",
	"UNICODE":   "UTF-16",
	"ISO8859_1": "ISO-8859-1",
	"LATIN1":    "ISO-8859-1",
	"ISO8859-1": "ISO-8859-1",
}

func lookupCharset(name string) (encoding.Encoding, *Exception) {
	key := strings.ToUpper(name)
	if canonical, ok := charsetAliases[key]; ok {
		key = canonical
	}
	if enc, ok := charsets[key]; ok {
		return enc, nil
	}
	return nil, &Exception{Class: "java.io.UnsupportedEncodingException", Message: name}
}

// encodeString is String.getBytes(charset). Unmappable characters become the
// charset's replacement byte.
func encodeString(s, charset string) ([]int8, error) {
	enc, exc := lookupCharset(charset)
	if exc != nil {
		return nil, exc
	}
	b, err := encoding.ReplaceUnsupported(enc.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return nil, &Exception{Class: "java.lang.IllegalArgumentException", Message: err.Error()}
	}
	return toJavaBytes(b), nil
}

// decodeBytes is new String(bytes, charset). Malformed input decodes to
// U+FFFD.
func decodeBytes(b []int8, charset string) (string, error) {
	if b == nil {
		return "", nullPointer()
	}
	enc, exc := lookupCharset(charset)
	if exc != nil {
		return "", exc
	}
	out, err := enc.NewDecoder().Bytes(fromJavaBytes(b))
	if err != nil {
		return "", &Exception{Class: "java.lang.IllegalArgumentException", Message: err.Error()}
	}
	return string(out), nil
}

func toJavaBytes(b []byte) []int8 {
	out := make([]int8, len(b))
	for i, c := range b {
		out[i] = int8(c)
	}
	return out
}

func fromJavaBytes(b []int8) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[i] = byte(c)
	}
	return out
}
