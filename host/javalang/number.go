package javalang

import (
	"math"
	"math/bits"
	"reflect"
	"strconv"
	"strings"

	"github.com/chazu/smalireflect/host"
)

func parseInteger(s string, radix int32, bitSize int) (int64, error) {
	if radix < 2 || radix > 36 {
		return 0, &Exception{Class: "java.lang.NumberFormatException", Message: "radix " + toString(radix) + " out of range"}
	}
	v, err := strconv.ParseInt(s, int(radix), bitSize)
	if err != nil {
		return 0, numberFormat(s)
	}
	return v, nil
}

func formatRadix(v int64, radix int32) string {
	if radix < 2 || radix > 36 {
		radix = 10
	}
	return strconv.FormatInt(v, int(radix))
}

func registerInteger(r *host.Registry) {
	r.Register("java.lang.Integer", reflect.TypeOf(int32(0))).
		Static("parseInt", func(s string) (int32, error) {
			v, err := parseInteger(s, 10, 32)
			return int32(v), err
		}).
		Static("parseInt", func(s string, radix int32) (int32, error) {
			v, err := parseInteger(s, radix, 32)
			return int32(v), err
		}).
		Static("valueOf", func(i int32) int32 { return i }).
		Static("valueOf", func(s string) (int32, error) {
			v, err := parseInteger(s, 10, 32)
			return int32(v), err
		}).
		Static("toString", func(i int32) string { return toString(i) }).
		Static("toString", func(i, radix int32) string { return formatRadix(int64(i), radix) }).
		Static("toHexString", func(i int32) string { return strconv.FormatUint(uint64(uint32(i)), 16) }).
		Static("toOctalString", func(i int32) string { return strconv.FormatUint(uint64(uint32(i)), 8) }).
		Static("toBinaryString", func(i int32) string { return strconv.FormatUint(uint64(uint32(i)), 2) }).
		Static("bitCount", func(i int32) int32 { return int32(bits.OnesCount32(uint32(i))) }).
		Static("reverse", func(i int32) int32 { return int32(bits.Reverse32(uint32(i))) }).
		Static("reverseBytes", func(i int32) int32 { return int32(bits.ReverseBytes32(uint32(i))) }).
		Static("rotateLeft", func(i, d int32) int32 { return int32(bits.RotateLeft32(uint32(i), int(d))) }).
		Static("rotateRight", func(i, d int32) int32 { return int32(bits.RotateLeft32(uint32(i), -int(d))) }).
		Static("numberOfLeadingZeros", func(i int32) int32 { return int32(bits.LeadingZeros32(uint32(i))) }).
		Static("numberOfTrailingZeros", func(i int32) int32 { return int32(bits.TrailingZeros32(uint32(i))) }).
		Static("highestOneBit", func(i int32) int32 {
			if i == 0 {
				return 0
			}
			return int32(uint32(1) << (31 - bits.LeadingZeros32(uint32(i))))
		}).
		Static("signum", func(i int32) int32 { return int32(sign(int64(i))) }).
		Static("compare", func(a, b int32) int32 { return int32(sign(int64(a) - int64(b))) }).
		Static("max", func(a, b int32) int32 { return max(a, b) }).
		Static("min", func(a, b int32) int32 { return min(a, b) }).
		Static("sum", func(a, b int32) int32 { return a + b }).
		Method("intValue", func(i int32) int32 { return i }).
		Method("longValue", func(i int32) int64 { return int64(i) }).
		Method("doubleValue", func(i int32) float64 { return float64(i) }).
		Method("byteValue", func(i int32) int8 { return int8(i) }).
		Method("shortValue", func(i int32) int16 { return int16(i) }).
		Method("hashCode", func(i int32) int32 { return i }).
		Method("toString", func(i int32) string { return toString(i) }).
		Method("equals", func(i int32, o any) bool {
			other, ok := o.(int32)
			return ok && other == i
		}).
		Method("compareTo", func(a, b int32) int32 { return int32(sign(int64(a) - int64(b))) })
}

func registerLong(r *host.Registry) {
	r.Register("java.lang.Long", reflect.TypeOf(int64(0))).
		Static("parseLong", func(s string) (int64, error) { return parseInteger(s, 10, 64) }).
		Static("parseLong", func(s string, radix int32) (int64, error) { return parseInteger(s, radix, 64) }).
		Static("valueOf", func(j int64) int64 { return j }).
		Static("valueOf", func(s string) (int64, error) { return parseInteger(s, 10, 64) }).
		Static("toString", func(j int64) string { return toString(j) }).
		Static("toString", func(j int64, radix int32) string { return formatRadix(j, radix) }).
		Static("toHexString", func(j int64) string { return strconv.FormatUint(uint64(j), 16) }).
		Static("toBinaryString", func(j int64) string { return strconv.FormatUint(uint64(j), 2) }).
		Static("bitCount", func(j int64) int32 { return int32(bits.OnesCount64(uint64(j))) }).
		Static("numberOfLeadingZeros", func(j int64) int32 { return int32(bits.LeadingZeros64(uint64(j))) }).
		Static("numberOfTrailingZeros", func(j int64) int32 { return int32(bits.TrailingZeros64(uint64(j))) }).
		Static("signum", func(j int64) int32 { return int32(sign(j)) }).
		Static("compare", func(a, b int64) int32 { return compareLong(a, b) }).
		Static("max", func(a, b int64) int64 { return max(a, b) }).
		Static("min", func(a, b int64) int64 { return min(a, b) }).
		Static("sum", func(a, b int64) int64 { return a + b }).
		Method("longValue", func(j int64) int64 { return j }).
		Method("intValue", func(j int64) int32 { return int32(j) }).
		Method("doubleValue", func(j int64) float64 { return float64(j) }).
		Method("hashCode", longHash).
		Method("toString", func(j int64) string { return toString(j) }).
		Method("equals", func(j int64, o any) bool {
			other, ok := o.(int64)
			return ok && other == j
		}).
		Method("compareTo", compareLong)
}

func compareLong(a, b int64) int32 {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func registerShort(r *host.Registry) {
	r.Register("java.lang.Short", reflect.TypeOf(int16(0))).
		Static("parseShort", func(s string) (int16, error) {
			v, err := parseInteger(s, 10, 16)
			return int16(v), err
		}).
		Static("valueOf", func(v int16) int16 { return v }).
		Static("toString", func(v int16) string { return toString(v) }).
		Static("reverseBytes", func(v int16) int16 { return int16(bits.ReverseBytes16(uint16(v))) }).
		Method("shortValue", func(v int16) int16 { return v }).
		Method("intValue", func(v int16) int32 { return int32(v) }).
		Method("hashCode", func(v int16) int32 { return int32(v) }).
		Method("toString", func(v int16) string { return toString(v) })
}

func registerByte(r *host.Registry) {
	r.Register("java.lang.Byte", reflect.TypeOf(int8(0))).
		Static("parseByte", func(s string) (int8, error) {
			v, err := parseInteger(s, 10, 8)
			return int8(v), err
		}).
		Static("valueOf", func(v int8) int8 { return v }).
		Static("toString", func(v int8) string { return toString(v) }).
		Static("toUnsignedInt", func(v int8) int32 { return int32(uint8(v)) }).
		Method("byteValue", func(v int8) int8 { return v }).
		Method("intValue", func(v int8) int32 { return int32(v) }).
		Method("hashCode", func(v int8) int32 { return int32(v) }).
		Method("toString", func(v int8) string { return toString(v) })
}

// canonicalFloat collapses every NaN to the canonical one, as
// Float.floatToIntBits does.
func canonicalFloat(f float32) float32 {
	if f != f {
		return math.Float32frombits(0x7fc00000)
	}
	return f
}

func doubleToLongBits(d float64) int64 {
	if math.IsNaN(d) {
		return 0x7ff8000000000000
	}
	return int64(math.Float64bits(d))
}

func parseFloating(s string, bitSize int) (float64, error) {
	t := strings.TrimSpace(s)
	t = strings.TrimSuffix(strings.TrimSuffix(t, "d"), "D")
	t = strings.TrimSuffix(strings.TrimSuffix(t, "f"), "F")
	v, err := strconv.ParseFloat(t, bitSize)
	if err != nil {
		switch t {
		case "NaN":
			return math.NaN(), nil
		case "Infinity", "+Infinity":
			return math.Inf(1), nil
		case "-Infinity":
			return math.Inf(-1), nil
		}
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return v, nil
		}
		return 0, numberFormat(s)
	}
	return v, nil
}

func registerFloat(r *host.Registry) {
	r.Register("java.lang.Float", reflect.TypeOf(float32(0))).
		Static("parseFloat", func(s string) (float32, error) {
			v, err := parseFloating(s, 32)
			return float32(v), err
		}).
		Static("valueOf", func(f float32) float32 { return f }).
		Static("toString", func(f float32) string { return toString(f) }).
		Static("floatToIntBits", func(f float32) int32 { return int32(math.Float32bits(canonicalFloat(f))) }).
		Static("floatToRawIntBits", func(f float32) int32 { return int32(math.Float32bits(f)) }).
		Static("intBitsToFloat", func(i int32) float32 { return math.Float32frombits(uint32(i)) }).
		Static("isNaN", func(f float32) bool { return f != f }).
		Static("isInfinite", func(f float32) bool { return math.IsInf(float64(f), 0) }).
		Method("floatValue", func(f float32) float32 { return f }).
		Method("doubleValue", func(f float32) float64 { return float64(f) }).
		Method("intValue", func(f float32) int32 { return int32(f) }).
		Method("hashCode", func(f float32) int32 { return int32(math.Float32bits(canonicalFloat(f))) }).
		Method("toString", func(f float32) string { return toString(f) })
}

func registerDouble(r *host.Registry) {
	r.Register("java.lang.Double", reflect.TypeOf(float64(0))).
		Static("parseDouble", func(s string) (float64, error) { return parseFloating(s, 64) }).
		Static("valueOf", func(d float64) float64 { return d }).
		Static("valueOf", func(s string) (float64, error) { return parseFloating(s, 64) }).
		Static("toString", func(d float64) string { return toString(d) }).
		Static("doubleToLongBits", doubleToLongBits).
		Static("doubleToRawLongBits", func(d float64) int64 { return int64(math.Float64bits(d)) }).
		Static("longBitsToDouble", func(j int64) float64 { return math.Float64frombits(uint64(j)) }).
		Static("isNaN", math.IsNaN).
		Static("isInfinite", func(d float64) bool { return math.IsInf(d, 0) }).
		Static("compare", func(a, b float64) int32 {
			switch {
			case a < b:
				return -1
			case a > b:
				return 1
			}
			return compareLong(doubleToLongBits(a), doubleToLongBits(b))
		}).
		Method("doubleValue", func(d float64) float64 { return d }).
		Method("intValue", func(d float64) int32 { return int32(d) }).
		Method("longValue", func(d float64) int64 { return int64(d) }).
		Method("hashCode", doubleHash).
		Method("toString", func(d float64) string { return toString(d) })
}

func sign(v int64) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
