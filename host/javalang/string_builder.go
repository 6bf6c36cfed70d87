package javalang

import (
	"reflect"
	"slices"

	"github.com/chazu/smalireflect/host"
)

// StringBuilder is a java.lang.StringBuilder: a mutable sequence of UTF-16
// code units.
type StringBuilder struct {
	buf []uint16
}

// NewStringBuilder creates a StringBuilder holding s.
func NewStringBuilder(s string) *StringBuilder {
	return &StringBuilder{buf: units(s)}
}

func (sb *StringBuilder) String() string {
	return fromUnits(sb.buf)
}

// Len returns the length in code units.
func (sb *StringBuilder) Len() int32 {
	return int32(len(sb.buf))
}

func (sb *StringBuilder) appendString(s string) *StringBuilder {
	sb.buf = append(sb.buf, units(s)...)
	return sb
}

func (sb *StringBuilder) reverse() *StringBuilder {
	// Reverse by code point so surrogate pairs stay intact.
	runes := []rune(sb.String())
	slices.Reverse(runes)
	sb.buf = units(string(runes))
	return sb
}

func registerStringBuilder(r *host.Registry) {
	r.Register("java.lang.StringBuilder", reflect.TypeOf(&StringBuilder{})).
		Constructor(func() *StringBuilder { return &StringBuilder{} }).
		Constructor(func(capacity int32) (*StringBuilder, error) {
			if capacity < 0 {
				return nil, &Exception{Class: "java.lang.NegativeArraySizeException", Message: toString(capacity)}
			}
			return &StringBuilder{buf: make([]uint16, 0, capacity)}, nil
		}).
		Constructor(NewStringBuilder).
		Method("append", func(sb *StringBuilder, s string) *StringBuilder { return sb.appendString(s) }).
		Method("append", func(sb *StringBuilder, i int32) *StringBuilder { return sb.appendString(toString(i)) }).
		Method("append", func(sb *StringBuilder, j int64) *StringBuilder { return sb.appendString(toString(j)) }).
		Method("append", func(sb *StringBuilder, c uint16) *StringBuilder {
			sb.buf = append(sb.buf, c)
			return sb
		}).
		Method("append", func(sb *StringBuilder, z bool) *StringBuilder { return sb.appendString(toString(z)) }).
		Method("append", func(sb *StringBuilder, d float64) *StringBuilder { return sb.appendString(toString(d)) }).
		Method("append", func(sb *StringBuilder, f float32) *StringBuilder { return sb.appendString(toString(f)) }).
		Method("append", func(sb *StringBuilder, o any) *StringBuilder { return sb.appendString(toString(o)) }).
		Method("toString", (*StringBuilder).String).
		Method("length", (*StringBuilder).Len).
		Method("charAt", func(sb *StringBuilder, index int32) (uint16, error) {
			if index < 0 || int(index) >= len(sb.buf) {
				return 0, indexOutOfBounds("java.lang.StringIndexOutOfBoundsException", int(index), len(sb.buf))
			}
			return sb.buf[index], nil
		}).
		Method("reverse", (*StringBuilder).reverse).
		Method("setLength", func(sb *StringBuilder, n int32) error {
			if n < 0 {
				return indexOutOfBounds("java.lang.StringIndexOutOfBoundsException", int(n), len(sb.buf))
			}
			for int(n) > len(sb.buf) {
				sb.buf = append(sb.buf, 0)
			}
			sb.buf = sb.buf[:n]
			return nil
		}).
		Method("insert", func(sb *StringBuilder, offset int32, s string) (*StringBuilder, error) {
			if offset < 0 || int(offset) > len(sb.buf) {
				return nil, indexOutOfBounds("java.lang.StringIndexOutOfBoundsException", int(offset), len(sb.buf))
			}
			sb.buf = slices.Insert(sb.buf, int(offset), units(s)...)
			return sb, nil
		}).
		Method("deleteCharAt", func(sb *StringBuilder, index int32) (*StringBuilder, error) {
			if index < 0 || int(index) >= len(sb.buf) {
				return nil, indexOutOfBounds("java.lang.StringIndexOutOfBoundsException", int(index), len(sb.buf))
			}
			sb.buf = slices.Delete(sb.buf, int(index), int(index)+1)
			return sb, nil
		}).
		Method("indexOf", func(sb *StringBuilder, s string) int32 { return indexUnits(sb.buf, units(s), 0) })
}
