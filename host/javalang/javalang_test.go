package javalang

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/chazu/smalireflect/host"
)

func types(t *testing.T, r *host.Registry, descs ...string) []reflect.Type {
	t.Helper()
	out := make([]reflect.Type, len(descs))
	for i, d := range descs {
		typ, err := r.TypeOf(d)
		if err != nil {
			t.Fatalf("TypeOf(%s): %v", d, err)
		}
		out[i] = typ
	}
	return out
}

func static(t *testing.T, r *host.Registry, class, name string, descs []string, args ...any) (any, error) {
	t.Helper()
	c, err := r.Lookup(class)
	if err != nil {
		t.Fatalf("Lookup(%s): %v", class, err)
	}
	return c.InvokeStatic(name, args, types(t, r, descs...))
}

func virtual(t *testing.T, r *host.Registry, class string, recv any, name string, descs []string, args ...any) (any, error) {
	t.Helper()
	c, err := r.Lookup(class)
	if err != nil {
		t.Fatalf("Lookup(%s): %v", class, err)
	}
	return c.Invoke(recv, name, args, types(t, r, descs...))
}

func TestDefault_IsShared(t *testing.T) {
	if Default() != Default() {
		t.Error("expected Default to return the same registry")
	}
	if NewRegistry() == Default() {
		t.Error("expected NewRegistry to return a fresh registry")
	}
	if Default().Count() != 12 {
		t.Errorf("expected 12 classes, got %d", Default().Count())
	}
}

func TestString(t *testing.T) {
	r := NewRegistry()
	const cls = "java.lang.String"

	tests := []struct {
		name  string
		recv  string
		descs []string
		args  []any
		want  any
	}{
		{"length", "héllo", nil, nil, int32(5)},
		{"charAt", "abc", []string{"I"}, []any{int32(1)}, uint16('b')},
		{"substring", "hello", []string{"I"}, []any{int32(2)}, "llo"},
		{"substring", "hello", []string{"I", "I"}, []any{int32(1), int32(3)}, "el"},
		{"indexOf", "banana", []string{"Ljava/lang/String;"}, []any{"na"}, int32(2)},
		{"indexOf", "banana", []string{"I"}, []any{int32('n')}, int32(2)},
		{"indexOf", "banana", []string{"Ljava/lang/String;", "I"}, []any{"na", int32(3)}, int32(4)},
		{"lastIndexOf", "banana", []string{"Ljava/lang/String;"}, []any{"na"}, int32(4)},
		{"indexOf", "banana", []string{"Ljava/lang/String;"}, []any{"x"}, int32(-1)},
		{"concat", "foo", []string{"Ljava/lang/String;"}, []any{"bar"}, "foobar"},
		{"equals", "foo", []string{"Ljava/lang/Object;"}, []any{"foo"}, true},
		{"equals", "foo", []string{"Ljava/lang/Object;"}, []any{int32(1)}, false},
		{"compareTo", "apple", []string{"Ljava/lang/String;"}, []any{"banana"}, int32(-1)},
		{"trim", "  x \t", nil, nil, "x"},
		{"replace", "a-b-c", []string{"C", "C"}, []any{uint16('-'), uint16('+')}, "a+b+c"},
		{"hashCode", "hello", nil, nil, int32(99162322)},
		{"isEmpty", "", nil, nil, true},
		{"toUpperCase", "abc", nil, nil, "ABC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := virtual(t, r, cls, tt.recv, tt.name, tt.descs, tt.args...)
			if err != nil {
				t.Fatalf("%s: %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("%s(%v) on %q: expected %#v, got %#v", tt.name, tt.args, tt.recv, tt.want, got)
			}
		})
	}
}

func TestString_Exceptions(t *testing.T) {
	r := NewRegistry()
	_, err := virtual(t, r, "java.lang.String", "abc", "charAt", []string{"I"}, int32(5))
	var target *host.InvocationTargetError
	if !errors.As(err, &target) {
		t.Fatalf("expected InvocationTargetError, got %v", err)
	}
	var exc *Exception
	if !errors.As(err, &exc) || exc.Class != "java.lang.StringIndexOutOfBoundsException" {
		t.Errorf("expected StringIndexOutOfBoundsException, got %v", err)
	}
}

func TestString_ValueOf(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		desc string
		arg  any
		want string
	}{
		{"I", int32(-7), "-7"},
		{"J", int64(1) << 40, "1099511627776"},
		{"Z", true, "true"},
		{"C", uint16('x'), "x"},
		{"D", 1.0, "1.0"},
		{"D", 1e10, "1.0E10"},
		{"D", 0.0001, "1.0E-4"},
		{"F", float32(2.5), "2.5"},
		{"Ljava/lang/Object;", nil, "null"},
		{"[C", []uint16{'h', 'i'}, "hi"},
	}
	for _, tt := range tests {
		got, err := static(t, r, "java.lang.String", "valueOf", []string{tt.desc}, tt.arg)
		if err != nil {
			t.Errorf("valueOf(%s): %v", tt.desc, err)
			continue
		}
		if got != tt.want {
			t.Errorf("valueOf(%s %v): expected %q, got %q", tt.desc, tt.arg, tt.want, got)
		}
	}
}

func TestString_Constructors(t *testing.T) {
	r := NewRegistry()
	c, _ := r.Lookup("java.lang.String")

	got, err := c.NewInstance([]any{[]uint16{'o', 'k'}}, types(t, r, "[C"))
	if err != nil || got != "ok" {
		t.Errorf("new String([C): expected ok, got %v (err=%v)", got, err)
	}
	got, err = c.NewInstance(nil, nil)
	if err != nil || got != "" {
		t.Errorf("new String(): expected empty, got %v (err=%v)", got, err)
	}
	got, err = c.NewInstance([]any{NewStringBuilder("sb")}, types(t, r, "Ljava/lang/StringBuilder;"))
	if err != nil || got != "sb" {
		t.Errorf("new String(StringBuilder): expected sb, got %v (err=%v)", got, err)
	}
}

func TestString_Charsets(t *testing.T) {
	r := NewRegistry()
	const cls = "java.lang.String"

	encode := []struct {
		recv    string
		charset string
		want    []int8
	}{
		{"hé", "", []int8{104, -61, -87}},
		{"hé", "ISO-8859-1", []int8{104, -23}},
		{"hé", "latin1", []int8{104, -23}},
		{"A", "utf-16be", []int8{0, 65}},
		{"A", "UTF-16LE", []int8{65, 0}},
		{"A", "UTF-16", []int8{-2, -1, 0, 65}},
	}
	for _, tt := range encode {
		var (
			got any
			err error
		)
		if tt.charset == "" {
			got, err = virtual(t, r, cls, tt.recv, "getBytes", nil)
		} else {
			got, err = virtual(t, r, cls, tt.recv, "getBytes", []string{"Ljava/lang/String;"}, tt.charset)
		}
		if err != nil {
			t.Errorf("getBytes(%q): %v", tt.charset, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%q.getBytes(%q): expected %v, got %v", tt.recv, tt.charset, tt.want, got)
		}
	}

	_, err := virtual(t, r, cls, "x", "getBytes", []string{"Ljava/lang/String;"}, "EBCDIC-X")
	var exc *Exception
	if !errors.As(err, &exc) || exc.Class != "java.io.UnsupportedEncodingException" {
		t.Errorf("expected UnsupportedEncodingException, got %v", err)
	}

	c, _ := r.Lookup(cls)
	decode := []struct {
		args  []any
		descs []string
		want  string
	}{
		{[]any{[]int8{104, -61, -87}}, []string{"[B"}, "hé"},
		{[]any{[]int8{104, -23}, "ISO8859_1"}, []string{"[B", "Ljava/lang/String;"}, "hé"},
		{[]any{[]int8{0, 65}, "UTF-16"}, []string{"[B", "Ljava/lang/String;"}, "A"},
		{[]any{[]int8{-1, -2, 65, 0}, "UTF-16"}, []string{"[B", "Ljava/lang/String;"}, "A"},
		{[]any{[]int8{-1}}, []string{"[B"}, "\uFFFD"},
	}
	for _, tt := range decode {
		got, err := c.NewInstance(tt.args, types(t, r, tt.descs...))
		if err != nil {
			t.Errorf("new String%v: %v", tt.args, err)
			continue
		}
		if got != tt.want {
			t.Errorf("new String%v: expected %q, got %q", tt.args, tt.want, got)
		}
	}

	_, err = c.NewInstance([]any{nil}, types(t, r, "[B"))
	if !errors.As(err, &exc) || exc.Class != "java.lang.NullPointerException" {
		t.Errorf("expected NullPointerException, got %v", err)
	}
}

func TestStringBuilder(t *testing.T) {
	r := NewRegistry()
	c, _ := r.Lookup("java.lang.StringBuilder")

	obj, err := c.NewInstance([]any{"ab"}, types(t, r, "Ljava/lang/String;"))
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	sb := obj.(*StringBuilder)

	steps := []struct {
		desc string
		arg  any
	}{
		{"I", int32(1)},
		{"C", uint16('c')},
		{"Z", false},
		{"J", int64(2)},
		{"Ljava/lang/Object;", nil},
	}
	for _, s := range steps {
		ret, err := c.Invoke(sb, "append", []any{s.arg}, types(t, r, s.desc))
		if err != nil {
			t.Fatalf("append(%s): %v", s.desc, err)
		}
		if ret != sb {
			t.Errorf("append(%s): expected builder to return itself", s.desc)
		}
	}
	if sb.String() != "ab1cfalse2null" {
		t.Errorf("expected ab1cfalse2null, got %q", sb.String())
	}

	if _, err := c.Invoke(sb, "reverse", nil, nil); err != nil {
		t.Fatalf("reverse: %v", err)
	}
	got, _ := c.Invoke(sb, "toString", nil, nil)
	if got != "llun2eslafc1ba" {
		t.Errorf("expected reversed string, got %q", got)
	}
	n, _ := c.Invoke(sb, "length", nil, nil)
	if n != int32(14) {
		t.Errorf("expected length 14, got %v", n)
	}

	if _, err := c.Invoke(sb, "setLength", []any{int32(2)}, types(t, r, "I")); err != nil {
		t.Fatalf("setLength: %v", err)
	}
	if _, err := c.Invoke(sb, "insert", []any{int32(1), "XY"}, types(t, r, "I", "Ljava/lang/String;")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if sb.String() != "lXYl" {
		t.Errorf("expected lXYl, got %q", sb.String())
	}
	if _, err := c.Invoke(sb, "deleteCharAt", []any{int32(9)}, types(t, r, "I")); err == nil {
		t.Error("expected deleteCharAt out of range to fail")
	}
}

func TestInteger(t *testing.T) {
	r := NewRegistry()
	const cls = "java.lang.Integer"

	got, err := static(t, r, cls, "parseInt", []string{"Ljava/lang/String;"}, "-123")
	if err != nil || got != int32(-123) {
		t.Errorf("parseInt: expected -123, got %v (err=%v)", got, err)
	}
	got, err = static(t, r, cls, "parseInt", []string{"Ljava/lang/String;", "I"}, "ff", int32(16))
	if err != nil || got != int32(255) {
		t.Errorf("parseInt radix 16: expected 255, got %v (err=%v)", got, err)
	}

	_, err = static(t, r, cls, "parseInt", []string{"Ljava/lang/String;"}, "12x")
	var exc *Exception
	if !errors.As(err, &exc) || exc.Class != "java.lang.NumberFormatException" {
		t.Errorf("expected NumberFormatException, got %v", err)
	}
	_, err = static(t, r, cls, "parseInt", []string{"Ljava/lang/String;"}, "2147483648")
	if !errors.As(err, &exc) {
		t.Errorf("expected overflow to throw, got %v", err)
	}

	checks := []struct {
		name  string
		descs []string
		args  []any
		want  any
	}{
		{"toHexString", []string{"I"}, []any{int32(-1)}, "ffffffff"},
		{"toBinaryString", []string{"I"}, []any{int32(5)}, "101"},
		{"toString", []string{"I", "I"}, []any{int32(-255), int32(16)}, "-ff"},
		{"bitCount", []string{"I"}, []any{int32(7)}, int32(3)},
		{"highestOneBit", []string{"I"}, []any{int32(100)}, int32(64)},
		{"compare", []string{"I", "I"}, []any{int32(1), int32(9)}, int32(-1)},
		{"reverse", []string{"I"}, []any{int32(1)}, int32(math.MinInt32)},
	}
	for _, c := range checks {
		got, err := static(t, r, cls, c.name, c.descs, c.args...)
		if err != nil || got != c.want {
			t.Errorf("%s%v: expected %#v, got %#v (err=%v)", c.name, c.args, c.want, got, err)
		}
	}

	got, err = virtual(t, r, cls, int32(42), "longValue", nil)
	if err != nil || got != int64(42) {
		t.Errorf("longValue: expected 42, got %v (err=%v)", got, err)
	}
}

func TestLongDoubleFloat(t *testing.T) {
	r := NewRegistry()

	got, err := static(t, r, "java.lang.Long", "parseLong", []string{"Ljava/lang/String;"}, "9223372036854775807")
	if err != nil || got != int64(math.MaxInt64) {
		t.Errorf("parseLong: expected MaxInt64, got %v (err=%v)", got, err)
	}
	got, _ = static(t, r, "java.lang.Long", "toHexString", []string{"J"}, int64(-1))
	if got != "ffffffffffffffff" {
		t.Errorf("Long.toHexString(-1): got %v", got)
	}

	got, err = static(t, r, "java.lang.Double", "parseDouble", []string{"Ljava/lang/String;"}, "3.5d")
	if err != nil || got != 3.5 {
		t.Errorf("parseDouble: expected 3.5, got %v (err=%v)", got, err)
	}
	got, _ = static(t, r, "java.lang.Double", "doubleToLongBits", []string{"D"}, math.NaN())
	if got != int64(0x7ff8000000000000) {
		t.Errorf("doubleToLongBits(NaN): expected canonical NaN, got %#x", got)
	}
	got, _ = static(t, r, "java.lang.Double", "compare", []string{"D", "D"}, 0.0, math.Copysign(0, -1))
	if got != int32(1) {
		t.Errorf("compare(0.0, -0.0): expected 1, got %v", got)
	}
	got, _ = static(t, r, "java.lang.Float", "floatToIntBits", []string{"F"}, float32(1))
	if got != int32(0x3f800000) {
		t.Errorf("floatToIntBits(1): got %#x", got)
	}
	got, _ = static(t, r, "java.lang.Float", "intBitsToFloat", []string{"I"}, int32(0x40000000))
	if got != float32(2) {
		t.Errorf("intBitsToFloat: expected 2, got %v", got)
	}
}

func TestBooleanCharacter(t *testing.T) {
	r := NewRegistry()
	got, _ := static(t, r, "java.lang.Boolean", "parseBoolean", []string{"Ljava/lang/String;"}, "TRUE")
	if got != true {
		t.Errorf("parseBoolean(TRUE): expected true, got %v", got)
	}
	got, _ = virtual(t, r, "java.lang.Boolean", true, "hashCode", nil)
	if got != int32(1231) {
		t.Errorf("Boolean.hashCode(true): expected 1231, got %v", got)
	}

	charChecks := []struct {
		name  string
		descs []string
		args  []any
		want  any
	}{
		{"isDigit", []string{"C"}, []any{uint16('7')}, true},
		{"isLetter", []string{"C"}, []any{uint16('7')}, false},
		{"toUpperCase", []string{"C"}, []any{uint16('q')}, uint16('Q')},
		{"digit", []string{"C", "I"}, []any{uint16('f'), int32(16)}, int32(15)},
		{"digit", []string{"C", "I"}, []any{uint16('g'), int32(16)}, int32(-1)},
		{"forDigit", []string{"I", "I"}, []any{int32(11), int32(16)}, uint16('b')},
		{"isWhitespace", []string{"C"}, []any{uint16('\t')}, true},
		{"isWhitespace", []string{"C"}, []any{uint16(0xA0)}, false},
	}
	for _, c := range charChecks {
		got, err := static(t, r, "java.lang.Character", c.name, c.descs, c.args...)
		if err != nil || got != c.want {
			t.Errorf("%s%v: expected %#v, got %#v (err=%v)", c.name, c.args, c.want, got, err)
		}
	}
}

func TestMath(t *testing.T) {
	r := NewRegistry()
	checks := []struct {
		name  string
		descs []string
		args  []any
		want  any
	}{
		{"abs", []string{"I"}, []any{int32(-3)}, int32(3)},
		{"abs", []string{"J"}, []any{int64(-3)}, int64(3)},
		{"abs", []string{"D"}, []any{-1.5}, 1.5},
		{"max", []string{"J", "J"}, []any{int64(2), int64(9)}, int64(9)},
		{"min", []string{"I", "I"}, []any{int32(2), int32(9)}, int32(2)},
		{"pow", []string{"D", "D"}, []any{2.0, 10.0}, 1024.0},
		{"round", []string{"D"}, []any{2.5}, int64(3)},
		{"round", []string{"D"}, []any{-2.5}, int64(-2)},
		{"round", []string{"F"}, []any{float32(1.4)}, int32(1)},
		{"floorDiv", []string{"I", "I"}, []any{int32(-7), int32(2)}, int32(-4)},
		{"floorMod", []string{"I", "I"}, []any{int32(-7), int32(2)}, int32(1)},
	}
	for _, c := range checks {
		got, err := static(t, r, "java.lang.Math", c.name, c.descs, c.args...)
		if err != nil || got != c.want {
			t.Errorf("%s%v: expected %#v, got %#v (err=%v)", c.name, c.args, c.want, got, err)
		}
	}

	// short widens to the int overload
	got, err := static(t, r, "java.lang.Math", "abs", []string{"S"}, int16(-4))
	if err != nil || got != int32(4) {
		t.Errorf("abs(S): expected int32 4, got %#v (err=%v)", got, err)
	}

	var exc *Exception
	_, err = static(t, r, "java.lang.Math", "addExact", []string{"I", "I"}, int32(math.MaxInt32), int32(1))
	if !errors.As(err, &exc) || exc.Class != "java.lang.ArithmeticException" {
		t.Errorf("addExact overflow: expected ArithmeticException, got %v", err)
	}

	c, _ := r.Lookup("java.lang.Math")
	if _, err := c.NewInstance(nil, nil); !errors.Is(err, host.ErrInstantiation) {
		t.Errorf("expected Math to be un-instantiable, got %v", err)
	}
}

func TestObject(t *testing.T) {
	r := NewRegistry()
	c, _ := r.Lookup("java.lang.Object")
	obj, err := c.NewInstance(nil, nil)
	if err != nil {
		t.Fatalf("new Object(): %v", err)
	}
	got, _ := c.Invoke(obj, "equals", []any{obj}, types(t, r, "Ljava/lang/Object;"))
	if got != true {
		t.Error("expected object to equal itself")
	}
	got, _ = c.Invoke("str", "hashCode", nil, nil)
	if got != stringHash("str") {
		t.Errorf("expected Object.hashCode on a string to use String.hashCode, got %v", got)
	}
}

func TestFormatDouble(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{math.Copysign(0, -1), "-0.0"},
		{100, "100.0"},
		{1234567.5, "1234567.5"},
		{12345678, "1.2345678E7"},
		{0.001, "0.001"},
		{1.5e-5, "1.5E-5"},
		{math.Inf(-1), "-Infinity"},
		{math.NaN(), "NaN"},
	}
	for _, tt := range tests {
		if got := formatDouble(tt.in, 64); got != tt.want {
			t.Errorf("formatDouble(%v): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
