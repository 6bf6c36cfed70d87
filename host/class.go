package host

import (
	"fmt"
	"reflect"
	"runtime/debug"
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/chazu/smalireflect/descriptor"
)

// MemberKind distinguishes the three kinds of callable.
type MemberKind uint8

const (
	Constructor MemberKind = iota
	Static
	Virtual
)

func (k MemberKind) String() string {
	switch k {
	case Constructor:
		return "constructor"
	case Static:
		return "static"
	case Virtual:
		return "virtual"
	}
	return fmt.Sprintf("MemberKind(%d)", k)
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Class is a bridgeable host class.
type Class struct {
	// Name is the binary class name, e.g. "java.lang.String".
	Name   string
	GoType reflect.Type

	registry *Registry

	mu       sync.RWMutex
	abstract bool
	ctors    []*Member
	statics  map[string][]*Member
	methods  map[string][]*Member

	// resolved caches overload selection by kind, name and argument types.
	resolved *lru.Cache
}

const resolvedCacheSize = 128

type resolutionKey struct {
	kind  MemberKind
	name  string
	types string
}

func newClass(r *Registry, name string, goType reflect.Type) *Class {
	resolved, _ := lru.New(resolvedCacheSize)
	return &Class{
		Name:     name,
		GoType:   goType,
		registry: r,
		statics:  make(map[string][]*Member),
		methods:  make(map[string][]*Member),
		resolved: resolved,
	}
}

// SetAbstract marks the class as not instantiable; NewInstance then fails
// with ErrInstantiation regardless of registered constructors.
func (c *Class) SetAbstract() *Class {
	c.mu.Lock()
	c.abstract = true
	c.mu.Unlock()
	return c
}

// Constructor registers fn as a constructor. fn returns the new instance,
// optionally followed by an error.
func (c *Class) Constructor(fn any) *Class {
	m := c.newMember(descriptor.ConstructorName, Constructor, fn)
	c.mu.Lock()
	c.ctors = append(c.ctors, m)
	c.mu.Unlock()
	c.resolved.Purge()
	return c
}

// Static registers fn as a static method called name.
func (c *Class) Static(name string, fn any) *Class {
	m := c.newMember(name, Static, fn)
	c.mu.Lock()
	c.statics[name] = append(c.statics[name], m)
	c.mu.Unlock()
	c.resolved.Purge()
	return c
}

// Method registers fn as an instance method called name. The first
// parameter of fn receives the receiver.
func (c *Class) Method(name string, fn any) *Class {
	m := c.newMember(name, Virtual, fn)
	c.mu.Lock()
	c.methods[name] = append(c.methods[name], m)
	c.mu.Unlock()
	c.resolved.Purge()
	return c
}

// BindMethods registers every exported method of the class's Go type as an
// instance method, named by JavaMethodName.
func (c *Class) BindMethods() *Class {
	if c.GoType.Kind() == reflect.Interface {
		return c
	}
	for i := 0; i < c.GoType.NumMethod(); i++ {
		gm := c.GoType.Method(i)
		if gm.Type.IsVariadic() {
			continue
		}
		c.Method(JavaMethodName(gm.Name), gm.Func.Interface())
	}
	return c
}

// Members returns every registered member, constructors first, then statics
// and instance methods by name.
func (c *Class) Members() []*Member {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := append([]*Member(nil), c.ctors...)
	for _, group := range []map[string][]*Member{c.statics, c.methods} {
		names := make([]string, 0, len(group))
		for n := range group {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			out = append(out, group[n]...)
		}
	}
	return out
}

// NewInstance invokes the constructor matching types.
func (c *Class) NewInstance(args []any, types []reflect.Type) (any, error) {
	c.mu.RLock()
	abstract := c.abstract
	ctors := c.ctors
	c.mu.RUnlock()

	if abstract {
		return nil, fmt.Errorf("%w: %s", ErrInstantiation, c.Name)
	}
	m, err := c.resolve(Constructor, descriptor.ConstructorName, ctors, types)
	if err != nil {
		return nil, err
	}
	return m.call(reflect.Value{}, args)
}

// InvokeStatic invokes the static method name whose parameters match types.
func (c *Class) InvokeStatic(name string, args []any, types []reflect.Type) (any, error) {
	c.mu.RLock()
	candidates := c.statics[name]
	c.mu.RUnlock()

	m, err := c.resolve(Static, name, candidates, types)
	if err != nil {
		return nil, err
	}
	return m.call(reflect.Value{}, args)
}

// Invoke invokes the instance method name on receiver.
func (c *Class) Invoke(receiver any, name string, args []any, types []reflect.Type) (any, error) {
	if receiver == nil {
		return nil, fmt.Errorf("%w: %s.%s", ErrNullReceiver, c.Name, name)
	}
	c.mu.RLock()
	candidates := c.methods[name]
	c.mu.RUnlock()

	m, err := c.resolve(Virtual, name, candidates, types)
	if err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(receiver)
	if !rv.Type().AssignableTo(m.recv) {
		return nil, fmt.Errorf("%w: receiver %s is not an instance of %s", ErrIllegalArgument, rv.Type(), c.Name)
	}
	return m.call(rv, args)
}

// resolve is selectMember behind the class's resolution cache. Failures are
// not cached.
func (c *Class) resolve(kind MemberKind, name string, candidates []*Member, types []reflect.Type) (*Member, error) {
	key := resolutionKey{kind: kind, name: name, types: typeKey(types)}
	if m, ok := c.resolved.Get(key); ok {
		return m.(*Member), nil
	}
	m, err := c.selectMember(name, candidates, types)
	if err != nil {
		return nil, err
	}
	c.resolved.Add(key, m)
	return m, nil
}

// typeKey identifies a parameter type list. Type identity, not the printed
// name, so two packages' T never share an entry.
func typeKey(types []reflect.Type) string {
	var b strings.Builder
	for _, t := range types {
		fmt.Fprintf(&b, "%p;", t)
	}
	return b.String()
}

// selectMember picks the overload for types: an exact match if there is
// one, otherwise the most specific compatible candidate.
func (c *Class) selectMember(name string, candidates []*Member, types []reflect.Type) (*Member, error) {
	var compatible []*Member
	for _, m := range candidates {
		if len(m.params) != len(types) {
			continue
		}
		if m.matchesExactly(types) {
			return m, nil
		}
		if m.accepts(types) {
			compatible = append(compatible, m)
		}
	}
	switch len(compatible) {
	case 0:
		return nil, fmt.Errorf("%w: %s.%s%s", ErrNoSuchMethod, c.Name, name, typeList(types))
	case 1:
		return compatible[0], nil
	}

	best := compatible[0]
	for _, m := range compatible[1:] {
		if m.moreSpecificThan(best) {
			best = m
		}
	}
	for _, m := range compatible {
		if m != best && !best.moreSpecificThan(m) {
			return nil, fmt.Errorf("%w: ambiguous call %s.%s%s", ErrNoSuchMethod, c.Name, name, typeList(types))
		}
	}
	return best, nil
}

func typeList(types []reflect.Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Member is one registered callable.
type Member struct {
	Class *Class
	Name  string
	Kind  MemberKind

	fn         reflect.Value
	recv       reflect.Type
	params     []reflect.Type
	result     reflect.Type
	returnsErr bool
}

// newMember validates fn's shape. Registration happens at init time, so a
// malformed fn is a programming error and panics.
func (c *Class) newMember(name string, kind MemberKind, fn any) *Member {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		panic(fmt.Sprintf("host: %s.%s: expected func, got %s", c.Name, name, ft))
	}
	if ft.IsVariadic() {
		panic(fmt.Sprintf("host: %s.%s: variadic funcs are not bridgeable", c.Name, name))
	}

	m := &Member{Class: c, Name: name, Kind: kind, fn: fv}
	first := 0
	if kind == Virtual {
		if ft.NumIn() == 0 {
			panic(fmt.Sprintf("host: %s.%s: instance method needs a receiver parameter", c.Name, name))
		}
		m.recv = ft.In(0)
		if !c.GoType.AssignableTo(m.recv) {
			panic(fmt.Sprintf("host: %s.%s: receiver %s does not accept %s", c.Name, name, m.recv, c.GoType))
		}
		first = 1
	}
	for i := first; i < ft.NumIn(); i++ {
		m.params = append(m.params, ft.In(i))
	}

	switch ft.NumOut() {
	case 0:
	case 1:
		if ft.Out(0) == errorType {
			m.returnsErr = true
		} else {
			m.result = ft.Out(0)
		}
	case 2:
		if ft.Out(1) != errorType {
			panic(fmt.Sprintf("host: %s.%s: second result must be error", c.Name, name))
		}
		m.result = ft.Out(0)
		m.returnsErr = true
	default:
		panic(fmt.Sprintf("host: %s.%s: too many results", c.Name, name))
	}
	if kind == Constructor && m.result == nil {
		panic(fmt.Sprintf("host: %s: constructor must return the instance", c.Name))
	}
	return m
}

func (m *Member) matchesExactly(types []reflect.Type) bool {
	for i, t := range types {
		if m.params[i] != t {
			return false
		}
	}
	return true
}

func (m *Member) accepts(types []reflect.Type) bool {
	for i, t := range types {
		if !compatible(t, m.params[i]) {
			return false
		}
	}
	return true
}

func (m *Member) moreSpecificThan(other *Member) bool {
	for i, p := range m.params {
		if !compatible(p, other.params[i]) {
			return false
		}
	}
	return true
}

// Params returns the Go parameter types, receiver excluded.
func (m *Member) Params() []reflect.Type {
	return append([]reflect.Type(nil), m.params...)
}

// Result returns the Go result type, or nil for void members.
func (m *Member) Result() reflect.Type {
	return m.result
}

// Signature renders the member as a smali signature, or reports false if a
// parameter or result type has no descriptor in the registry.
func (m *Member) Signature() (string, bool) {
	var b strings.Builder
	b.WriteString(descriptor.BinaryToInternal(m.Class.Name))
	b.WriteString("->")
	b.WriteString(m.Name)
	b.WriteByte('(')
	for _, p := range m.params {
		d, ok := m.Class.registry.DescriptorOf(p)
		if !ok {
			return "", false
		}
		b.WriteString(d)
	}
	b.WriteByte(')')
	switch {
	case m.Kind == Constructor || m.result == nil:
		b.WriteByte('V')
	default:
		d, ok := m.Class.registry.DescriptorOf(m.result)
		if !ok {
			return "", false
		}
		b.WriteString(d)
	}
	return b.String(), true
}

func (m *Member) String() string {
	if sig, ok := m.Signature(); ok {
		return sig
	}
	return m.Class.Name + "." + m.Name
}

// call converts args to the member's parameter types and invokes it. A panic
// inside the callable is reported as an InvocationTargetError.
func (m *Member) call(recv reflect.Value, args []any) (result any, err error) {
	if len(args) != len(m.params) {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrIllegalArgument, m, len(m.params), len(args))
	}
	in := make([]reflect.Value, 0, len(args)+1)
	if m.Kind == Virtual {
		in = append(in, recv.Convert(m.recv))
	}
	for i, arg := range args {
		v, err := convertArg(arg, m.params[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %s argument %d: %v", ErrIllegalArgument, m, i, err)
		}
		in = append(in, v)
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &InvocationTargetError{Member: m.String(), Cause: panicError(r), Stack: debug.Stack()}
		}
	}()
	out := m.fn.Call(in)

	if m.returnsErr {
		if e := out[len(out)-1]; !e.IsNil() {
			return nil, &InvocationTargetError{Member: m.String(), Cause: e.Interface().(error)}
		}
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return nil, nil
	}
	return unwrapResult(out[0]), nil
}

// unwrapResult returns a result as an interface value, turning typed nils
// into a plain nil so the VM sees a null reference.
func unwrapResult(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return nil
		}
	}
	return v.Interface()
}
