package javalang

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf16"
)

// units returns the UTF-16 code units of s. Java string indices count
// these, not bytes or runes.
func units(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

func fromUnits(u []uint16) string {
	return string(utf16.Decode(u))
}

// toString renders v the way String.valueOf(Object) would.
func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case uint16:
		return fromUnits([]uint16{x})
	case float64:
		return formatDouble(x, 64)
	case float32:
		return formatDouble(float64(x), 32)
	case *StringBuilder:
		return x.String()
	case []uint16:
		return "[C@" + strconv.FormatInt(int64(identityHash(x)), 16)
	case *Object:
		return "java.lang.Object@" + strconv.FormatInt(int64(identityHash(x)), 16)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// formatDouble follows Double.toString: plain notation between 10^-3 and
// 10^7, computerized scientific notation outside it.
func formatDouble(d float64, bits int) string {
	switch {
	case math.IsNaN(d):
		return "NaN"
	case math.IsInf(d, 1):
		return "Infinity"
	case math.IsInf(d, -1):
		return "-Infinity"
	case d == 0:
		if math.Signbit(d) {
			return "-0.0"
		}
		return "0.0"
	}

	abs := math.Abs(d)
	if abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(d, 'f', -1, bits)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	s := strconv.FormatFloat(d, 'E', -1, bits)
	mant, exp, _ := strings.Cut(s, "E")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	e, _ := strconv.Atoi(exp)
	return mant + "E" + strconv.Itoa(e)
}

// stringHash is String.hashCode: s[0]*31^(n-1) + ... + s[n-1] over UTF-16
// code units with int overflow.
func stringHash(s string) int32 {
	var h int32
	for _, u := range units(s) {
		h = 31*h + int32(u)
	}
	return h
}

func longHash(v int64) int32 {
	return int32(v ^ int64(uint64(v)>>32))
}

func doubleHash(d float64) int32 {
	return longHash(doubleToLongBits(d))
}

func boolHash(b bool) int32 {
	if b {
		return 1231
	}
	return 1237
}

// hashCode dispatches to the class-specific hash for known value types and
// falls back to an identity hash.
func hashCode(v any) int32 {
	switch x := v.(type) {
	case nil:
		return 0
	case string:
		return stringHash(x)
	case bool:
		return boolHash(x)
	case int32:
		return x
	case int64:
		return longHash(x)
	case int16:
		return int32(x)
	case int8:
		return int32(x)
	case uint16:
		return int32(x)
	case float64:
		return doubleHash(x)
	case float32:
		return int32(math.Float32bits(canonicalFloat(x)))
	}
	return identityHash(v)
}

func identityHash(v any) int32 {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		p := rv.Pointer()
		return int32(p ^ p>>32)
	}
	return stringHash(fmt.Sprint(v))
}
