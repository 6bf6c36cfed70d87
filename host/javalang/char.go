package javalang

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/chazu/smalireflect/host"
)

func registerBoolean(r *host.Registry) {
	r.Register("java.lang.Boolean", reflect.TypeOf(false)).
		Static("parseBoolean", func(s string) bool { return strings.EqualFold(s, "true") }).
		Static("valueOf", func(z bool) bool { return z }).
		Static("valueOf", func(s string) bool { return strings.EqualFold(s, "true") }).
		Static("toString", func(z bool) string { return toString(z) }).
		Static("logicalAnd", func(a, b bool) bool { return a && b }).
		Static("logicalOr", func(a, b bool) bool { return a || b }).
		Static("logicalXor", func(a, b bool) bool { return a != b }).
		Static("compare", compareBool).
		Method("booleanValue", func(z bool) bool { return z }).
		Method("hashCode", boolHash).
		Method("toString", func(z bool) string { return toString(z) }).
		Method("compareTo", compareBool)
}

func compareBool(a, b bool) int32 {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	}
	return -1
}

func registerCharacter(r *host.Registry) {
	r.Register("java.lang.Character", reflect.TypeOf(uint16(0))).
		Static("isDigit", func(c uint16) bool { return unicode.IsDigit(rune(c)) }).
		Static("isLetter", func(c uint16) bool { return unicode.IsLetter(rune(c)) }).
		Static("isLetterOrDigit", func(c uint16) bool { return unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c)) }).
		Static("isWhitespace", func(c uint16) bool { return isJavaWhitespace(rune(c)) }).
		Static("isUpperCase", func(c uint16) bool { return unicode.IsUpper(rune(c)) }).
		Static("isLowerCase", func(c uint16) bool { return unicode.IsLower(rune(c)) }).
		Static("toUpperCase", func(c uint16) uint16 { return toUnit(unicode.ToUpper(rune(c)), c) }).
		Static("toLowerCase", func(c uint16) uint16 { return toUnit(unicode.ToLower(rune(c)), c) }).
		Static("valueOf", func(c uint16) uint16 { return c }).
		Static("toString", func(c uint16) string { return toString(c) }).
		Static("getNumericValue", func(c uint16) int32 { return digit(rune(c), 36) }).
		Static("digit", func(c uint16, radix int32) int32 {
			if radix < 2 || radix > 36 {
				return -1
			}
			return digit(rune(c), radix)
		}).
		Static("forDigit", func(d, radix int32) uint16 {
			if radix < 2 || radix > 36 || d < 0 || d >= radix {
				return 0
			}
			if d < 10 {
				return uint16('0' + d)
			}
			return uint16('a' + d - 10)
		}).
		Static("isSurrogate", func(c uint16) bool { return c >= 0xD800 && c <= 0xDFFF }).
		Method("charValue", func(c uint16) uint16 { return c }).
		Method("hashCode", func(c uint16) int32 { return int32(c) }).
		Method("toString", func(c uint16) string { return toString(c) }).
		Method("compareTo", func(a, b uint16) int32 { return int32(a) - int32(b) })
}

// toUnit keeps the original unit when case mapping leaves the BMP.
func toUnit(r rune, orig uint16) uint16 {
	if r > 0xFFFF {
		return orig
	}
	return uint16(r)
}

func digit(r rune, radix int32) int32 {
	var d int32
	switch {
	case r >= '0' && r <= '9':
		d = r - '0'
	case r >= 'a' && r <= 'z':
		d = r - 'a' + 10
	case r >= 'A' && r <= 'Z':
		d = r - 'A' + 10
	case unicode.IsDigit(r):
		// Other Unicode decimal digits: count from the zero of their block.
		z := r
		for z > 0 && unicode.IsDigit(z-1) {
			z--
		}
		d = (r - z) % 10
	default:
		return -1
	}
	if d >= radix {
		return -1
	}
	return d
}

func isJavaWhitespace(r rune) bool {
	switch r {
	case '\u00A0', '\u2007', '\u202F':
		return false
	case '\u001C', '\u001D', '\u001E', '\u001F':
		return true
	}
	return unicode.IsSpace(r)
}
