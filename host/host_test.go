package host

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

type counter struct {
	n int32
}

func (c *counter) Add(d int32) int32 {
	c.n += d
	return c.n
}

func (c *counter) Value() int32 {
	return c.n
}

func (c *counter) Fail() error {
	return errors.New("boom")
}

var (
	intType    = reflect.TypeOf(int32(0))
	longType   = reflect.TypeOf(int64(0))
	stringType = reflect.TypeOf("")
	anyType    = reflect.TypeOf((*any)(nil)).Elem()
)

func newTestRegistry() *Registry {
	r := NewRegistry()
	r.Register("java.lang.Object", anyType)
	r.Register("java.lang.String", stringType).
		Static("valueOf", func(i int32) string { return fmt.Sprint(i) }).
		Static("valueOf", func(b bool) string { return fmt.Sprint(b) }).
		Static("valueOf", func(o any) string { return fmt.Sprint(o) }).
		Method("length", func(s string) int32 { return int32(len(s)) })
	r.Register("test.Counter", reflect.TypeOf(&counter{})).
		Constructor(func() *counter { return &counter{} }).
		Constructor(func(n int32) *counter { return &counter{n: n} }).
		Static("explode", func() int32 { panic("kaboom") }).
		Static("widen", func(v int64) int64 { return v * 2 }).
		BindMethods()
	return r
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := newTestRegistry()

	c, err := r.Lookup("java.lang.String")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if c.GoType != stringType {
		t.Errorf("expected Go type string, got %s", c.GoType)
	}

	// Duplicate registration returns the same class
	if again := r.Register("java.lang.String", stringType); again != c {
		t.Error("expected re-register to return existing class")
	}
	if r.Count() != 3 {
		t.Errorf("expected 3 classes, got %d", r.Count())
	}
	if r.ClassOf(stringType) != c {
		t.Error("ClassOf(string) failed")
	}

	_, err = r.Lookup("java.lang.Runtime")
	if !errors.Is(err, ErrClassNotFound) {
		t.Errorf("expected ErrClassNotFound, got %v", err)
	}
}

func TestRegistry_Policy(t *testing.T) {
	r := newTestRegistry()
	r.SetPolicy(Policy{Unsafe: []string{"test.Counter"}})
	if _, err := r.Lookup("test.Counter"); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied for unsafe class, got %v", err)
	}

	r.SetPolicy(Policy{Safe: []string{"java.lang.String"}})
	if _, err := r.Lookup("java.lang.String"); err != nil {
		t.Errorf("expected safe class to resolve, got %v", err)
	}
	if _, err := r.Lookup("java.lang.Object"); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied outside safe list, got %v", err)
	}

	// Types still resolve for parameters
	if _, err := r.TypeOf("Ljava/lang/Object;"); err != nil {
		t.Errorf("TypeOf should ignore policy, got %v", err)
	}
}

func TestRegistry_TypeOf(t *testing.T) {
	r := newTestRegistry()
	tests := []struct {
		desc string
		want reflect.Type
	}{
		{"I", intType},
		{"Z", reflect.TypeOf(false)},
		{"J", longType},
		{"B", reflect.TypeOf(int8(0))},
		{"S", reflect.TypeOf(int16(0))},
		{"C", reflect.TypeOf(uint16(0))},
		{"D", reflect.TypeOf(float64(0))},
		{"F", reflect.TypeOf(float32(0))},
		{"Ljava/lang/String;", stringType},
		{"[Ljava/lang/String;", reflect.TypeOf([]string(nil))},
		{"[[I", reflect.TypeOf([][]int32(nil))},
		{"Ljava/lang/Object;", anyType},
	}
	for _, tt := range tests {
		got, err := r.TypeOf(tt.desc)
		if err != nil {
			t.Errorf("TypeOf(%s): %v", tt.desc, err)
			continue
		}
		if got != tt.want {
			t.Errorf("TypeOf(%s): expected %s, got %s", tt.desc, tt.want, got)
		}
		back, ok := r.DescriptorOf(got)
		if !ok || back != tt.desc {
			t.Errorf("DescriptorOf(%s): expected %s, got %s (ok=%v)", got, tt.desc, back, ok)
		}
	}

	for _, desc := range []string{"Lcom/example/Missing;", "[Lcom/example/Missing;", "V"} {
		if _, err := r.TypeOf(desc); !errors.Is(err, ErrClassNotFound) {
			t.Errorf("TypeOf(%s): expected ErrClassNotFound, got %v", desc, err)
		}
	}
}

func TestClass_OverloadSelection(t *testing.T) {
	r := newTestRegistry()
	c, _ := r.Lookup("java.lang.String")

	got, err := c.InvokeStatic("valueOf", []any{int32(5)}, []reflect.Type{intType})
	if err != nil || got != "5" {
		t.Errorf("valueOf(I): expected \"5\", got %v (err=%v)", got, err)
	}
	got, err = c.InvokeStatic("valueOf", []any{true}, []reflect.Type{reflect.TypeOf(false)})
	if err != nil || got != "true" {
		t.Errorf("valueOf(Z): expected \"true\", got %v (err=%v)", got, err)
	}
	// string is only assignable to the Object overload
	got, err = c.InvokeStatic("valueOf", []any{"x"}, []reflect.Type{stringType})
	if err != nil || got != "x" {
		t.Errorf("valueOf(Object): expected \"x\", got %v (err=%v)", got, err)
	}

	_, err = c.InvokeStatic("valueOf", []any{int32(1), int32(2)}, []reflect.Type{intType, intType})
	if !errors.Is(err, ErrNoSuchMethod) {
		t.Errorf("expected ErrNoSuchMethod for wrong arity, got %v", err)
	}
	_, err = c.InvokeStatic("nope", nil, nil)
	if !errors.Is(err, ErrNoSuchMethod) {
		t.Errorf("expected ErrNoSuchMethod for unknown name, got %v", err)
	}
}

func TestClass_Widening(t *testing.T) {
	r := newTestRegistry()
	c, _ := r.Lookup("test.Counter")
	got, err := c.InvokeStatic("widen", []any{int32(21)}, []reflect.Type{intType})
	if err != nil {
		t.Fatalf("widen: %v", err)
	}
	if got != int64(42) {
		t.Errorf("expected int64(42), got %#v", got)
	}
}

func TestClass_ResolutionCache(t *testing.T) {
	r := NewRegistry()
	c := r.Register("test.Cached", reflect.TypeOf(struct{}{})).
		Static("f", func(j int64) string { return "long" })

	for i := 0; i < 3; i++ {
		got, err := c.InvokeStatic("f", []any{int32(1)}, []reflect.Type{intType})
		if err != nil || got != "long" {
			t.Fatalf("f(I) before overload: expected long, got %v (err=%v)", got, err)
		}
	}
	if c.resolved.Len() != 1 {
		t.Errorf("expected 1 cached resolution, got %d", c.resolved.Len())
	}

	c.Static("f", func(i int32) string { return "int" })
	got, err := c.InvokeStatic("f", []any{int32(1)}, []reflect.Type{intType})
	if err != nil || got != "int" {
		t.Errorf("f(I) after overload: expected int, got %v (err=%v)", got, err)
	}

	_, err = c.InvokeStatic("g", nil, nil)
	if !errors.Is(err, ErrNoSuchMethod) {
		t.Errorf("expected ErrNoSuchMethod, got %v", err)
	}
	if c.resolved.Len() != 1 {
		t.Errorf("expected failures to stay uncached, got %d entries", c.resolved.Len())
	}
}

func TestClass_ConstructorAndInstanceMethods(t *testing.T) {
	r := newTestRegistry()
	c, _ := r.Lookup("test.Counter")

	obj, err := c.NewInstance([]any{int32(10)}, []reflect.Type{intType})
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	if _, ok := obj.(*counter); !ok {
		t.Fatalf("expected *counter, got %T", obj)
	}

	got, err := c.Invoke(obj, "add", []any{int32(5)}, []reflect.Type{intType})
	if err != nil || got != int32(15) {
		t.Errorf("add: expected 15, got %v (err=%v)", got, err)
	}
	got, err = c.Invoke(obj, "value", nil, nil)
	if err != nil || got != int32(15) {
		t.Errorf("value: expected 15, got %v (err=%v)", got, err)
	}

	if _, err := c.Invoke(nil, "value", nil, nil); !errors.Is(err, ErrNullReceiver) {
		t.Errorf("expected ErrNullReceiver, got %v", err)
	}
	if _, err := c.Invoke("not a counter", "value", nil, nil); !errors.Is(err, ErrIllegalArgument) {
		t.Errorf("expected ErrIllegalArgument for foreign receiver, got %v", err)
	}
}

func TestClass_Abstract(t *testing.T) {
	r := newTestRegistry()
	c, _ := r.Lookup("test.Counter")
	c.SetAbstract()
	if _, err := c.NewInstance(nil, nil); !errors.Is(err, ErrInstantiation) {
		t.Errorf("expected ErrInstantiation, got %v", err)
	}
}

func TestClass_TargetFailures(t *testing.T) {
	r := newTestRegistry()
	c, _ := r.Lookup("test.Counter")

	_, err := c.InvokeStatic("explode", nil, nil)
	var target *InvocationTargetError
	if !errors.As(err, &target) {
		t.Fatalf("expected InvocationTargetError from panic, got %v", err)
	}
	if !strings.Contains(target.Cause.Error(), "kaboom") {
		t.Errorf("expected panic message in cause, got %v", target.Cause)
	}
	if len(target.Stack) == 0 {
		t.Error("expected stack trace for recovered panic")
	}

	obj, _ := c.NewInstance(nil, nil)
	_, err = c.Invoke(obj, "fail", nil, nil)
	if !errors.As(err, &target) {
		t.Fatalf("expected InvocationTargetError from error result, got %v", err)
	}
	if target.Cause.Error() != "boom" {
		t.Errorf("expected cause boom, got %v", target.Cause)
	}
}

func TestClass_NullArguments(t *testing.T) {
	r := newTestRegistry()
	c, _ := r.Lookup("java.lang.String")

	// null is fine for Object
	got, err := c.InvokeStatic("valueOf", []any{nil}, []reflect.Type{anyType})
	if err != nil || got != "<nil>" {
		t.Errorf("valueOf(null): expected <nil>, got %v (err=%v)", got, err)
	}
	// but not for a primitive
	counterClass, _ := r.Lookup("test.Counter")
	obj, _ := counterClass.NewInstance(nil, nil)
	_, err = counterClass.Invoke(obj, "add", []any{nil}, []reflect.Type{intType})
	if !errors.Is(err, ErrIllegalArgument) {
		t.Errorf("expected ErrIllegalArgument for null int, got %v", err)
	}
}

func TestMember_Signature(t *testing.T) {
	r := newTestRegistry()
	c, _ := r.Lookup("java.lang.String")
	var sigs []string
	for _, m := range c.Members() {
		sig, ok := m.Signature()
		if !ok {
			t.Errorf("member %s has no signature", m.Name)
			continue
		}
		sigs = append(sigs, sig)
	}
	want := []string{
		"Ljava/lang/String;->valueOf(I)Ljava/lang/String;",
		"Ljava/lang/String;->valueOf(Z)Ljava/lang/String;",
		"Ljava/lang/String;->valueOf(Ljava/lang/Object;)Ljava/lang/String;",
		"Ljava/lang/String;->length()I",
	}
	if !reflect.DeepEqual(sigs, want) {
		t.Errorf("unexpected signatures:\n%s", strings.Join(sigs, "\n"))
	}
}

func TestNewMember_Validation(t *testing.T) {
	r := newTestRegistry()
	c, _ := r.Lookup("java.lang.String")
	bad := map[string]func(){
		"not a func":          func() { c.Static("x", 42) },
		"variadic":            func() { c.Static("x", func(a ...int32) {}) },
		"no receiver":         func() { c.Method("x", func() {}) },
		"wrong receiver":      func() { c.Method("x", func(i int32) {}) },
		"second result":       func() { c.Static("x", func() (int32, int32) { return 0, 0 }) },
		"void constructor":    func() { c.Constructor(func() {}) },
		"three results":       func() { c.Static("x", func() (int32, int32, error) { return 0, 0, nil }) },
	}
	for name, fn := range bad {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			fn()
		})
	}
}

func TestCastToPrimitive(t *testing.T) {
	tests := []struct {
		value any
		desc  string
		want  any
	}{
		{int32(1), "Z", true},
		{int32(0), "Z", false},
		{int32(65), "C", uint16('A')},
		{int32(-1), "B", int8(-1)},
		{int32(300), "S", int16(300)},
		{int32(7), "I", int32(7)},
		{int32(7), "J", int64(7)},
		{int64(1) << 40, "J", int64(1) << 40},
		{int32(3), "F", float32(3)},
		{int32(3), "D", float64(3)},
		{float64(2.75), "I", int32(2)},
		{true, "Z", true},
		{true, "I", int32(1)},
		{uint16('z'), "C", uint16('z')},
		{int32(9), "Ljava/lang/Integer;", int32(9)},
		{int32(1), "Ljava/lang/Boolean;", true},
		{"unchanged", "Ljava/lang/String;", "unchanged"},
	}
	for _, tt := range tests {
		got, err := CastToPrimitive(tt.value, tt.desc)
		if err != nil {
			t.Errorf("CastToPrimitive(%#v, %s): %v", tt.value, tt.desc, err)
			continue
		}
		if got != tt.want {
			t.Errorf("CastToPrimitive(%#v, %s): expected %#v, got %#v", tt.value, tt.desc, tt.want, got)
		}
	}

	if _, err := CastToPrimitive("x", "I"); !errors.Is(err, ErrIllegalArgument) {
		t.Errorf("expected ErrIllegalArgument for string to int, got %v", err)
	}
}

func TestNaming(t *testing.T) {
	if got := JavaMethodName("IndexOf"); got != "indexOf" {
		t.Errorf("expected indexOf, got %s", got)
	}
	if got := JavaMethodName("String"); got != "toString" {
		t.Errorf("expected toString, got %s", got)
	}
	if got := JavaMethodName(""); got != "" {
		t.Errorf("expected empty, got %s", got)
	}
	if got := GoPackageClassName("encoding/json"); got != "encoding.json.Json" {
		t.Errorf("expected encoding.json.Json, got %s", got)
	}
	if got := GoPackageClassName("go-yaml"); got != "go-yaml.GoYaml" {
		t.Errorf("expected go-yaml.GoYaml, got %s", got)
	}
	if got := GoTypeClassName("strings", "Builder"); got != "strings.Builder" {
		t.Errorf("expected strings.Builder, got %s", got)
	}
}
