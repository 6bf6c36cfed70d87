package javalang

import (
	"slices"
	"strings"

	"github.com/chazu/smalireflect/host"
)

func registerString(r *host.Registry) {
	r.Register("java.lang.String", stringType).
		Constructor(func() string { return "" }).
		Constructor(func(s string) string { return s }).
		Constructor(func(chars []uint16) (string, error) {
			if chars == nil {
				return "", nullPointer()
			}
			return fromUnits(chars), nil
		}).
		Constructor(func(b []int8) (string, error) { return decodeBytes(b, "UTF-8") }).
		Constructor(decodeBytes).
		Constructor(func(sb *StringBuilder) (string, error) {
			if sb == nil {
				return "", nullPointer()
			}
			return sb.String(), nil
		}).
		Static("valueOf", func(i int32) string { return toString(i) }).
		Static("valueOf", func(j int64) string { return toString(j) }).
		Static("valueOf", func(z bool) string { return toString(z) }).
		Static("valueOf", func(c uint16) string { return toString(c) }).
		Static("valueOf", func(d float64) string { return toString(d) }).
		Static("valueOf", func(f float32) string { return toString(f) }).
		Static("valueOf", func(o any) string { return toString(o) }).
		Static("valueOf", func(chars []uint16) string { return fromUnits(chars) }).
		Method("length", func(s string) int32 { return int32(len(units(s))) }).
		Method("getBytes", func(s string) []int8 { return toJavaBytes([]byte(s)) }).
		Method("getBytes", encodeString).
		Method("isEmpty", func(s string) bool { return s == "" }).
		Method("charAt", stringCharAt).
		Method("substring", func(s string, begin int32) (string, error) {
			return stringSubstring(s, begin, int32(len(units(s))))
		}).
		Method("substring", stringSubstring).
		Method("indexOf", func(s, sub string) int32 { return indexUnits(units(s), units(sub), 0) }).
		Method("indexOf", func(s string, sub string, from int32) int32 { return indexUnits(units(s), units(sub), int(from)) }).
		Method("indexOf", func(s string, c int32) int32 { return indexUnits(units(s), units(string(rune(c))), 0) }).
		Method("lastIndexOf", func(s, sub string) int32 { return lastIndexUnits(units(s), units(sub)) }).
		Method("concat", func(s, other string) string { return s + other }).
		Method("equals", func(s string, other any) bool {
			o, ok := other.(string)
			return ok && o == s
		}).
		Method("equalsIgnoreCase", func(s, other string) bool { return strings.EqualFold(s, other) }).
		Method("compareTo", func(s, other string) int32 { return compareUnits(units(s), units(other)) }).
		Method("startsWith", func(s, prefix string) bool { return strings.HasPrefix(s, prefix) }).
		Method("endsWith", func(s, suffix string) bool { return strings.HasSuffix(s, suffix) }).
		Method("toUpperCase", func(s string) string { return strings.ToUpper(s) }).
		Method("toLowerCase", func(s string) string { return strings.ToLower(s) }).
		Method("trim", stringTrim).
		Method("replace", func(s string, old, repl uint16) string {
			u := units(s)
			for i, c := range u {
				if c == old {
					u[i] = repl
				}
			}
			return fromUnits(u)
		}).
		Method("hashCode", stringHash).
		Method("toCharArray", func(s string) []uint16 { return units(s) }).
		Method("intern", func(s string) string { return s }).
		Method("toString", func(s string) string { return s })
}

func stringCharAt(s string, index int32) (uint16, error) {
	u := units(s)
	if index < 0 || int(index) >= len(u) {
		return 0, indexOutOfBounds("java.lang.StringIndexOutOfBoundsException", int(index), len(u))
	}
	return u[index], nil
}

func stringSubstring(s string, begin, end int32) (string, error) {
	u := units(s)
	if begin < 0 || end > int32(len(u)) || begin > end {
		return "", indexOutOfBounds("java.lang.StringIndexOutOfBoundsException", int(begin), len(u))
	}
	return fromUnits(u[begin:end]), nil
}

func stringTrim(s string) string {
	u := units(s)
	start, end := 0, len(u)
	for start < end && u[start] <= ' ' {
		start++
	}
	for end > start && u[end-1] <= ' ' {
		end--
	}
	return fromUnits(u[start:end])
}

func indexUnits(s, sub []uint16, from int) int32 {
	if from < 0 {
		from = 0
	}
	for i := from; i+len(sub) <= len(s); i++ {
		if slices.Equal(s[i:i+len(sub)], sub) {
			return int32(i)
		}
	}
	return -1
}

func lastIndexUnits(s, sub []uint16) int32 {
	for i := len(s) - len(sub); i >= 0; i-- {
		if slices.Equal(s[i:i+len(sub)], sub) {
			return int32(i)
		}
	}
	return -1
}

func compareUnits(a, b []uint16) int32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return int32(a[i]) - int32(b[i])
		}
	}
	return int32(len(a) - len(b))
}
