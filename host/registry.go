// Package host is the bridge's host type universe: a registry of bridgeable
// classes keyed by binary name, each carrying Go callables that stand in for
// the class's constructors, static methods and instance methods.
//
// Go cannot look types up by name at run time, so every class the bridge can
// reach is registered explicitly, usually from an init-time Register
// function in a library package such as host/javalang.
package host

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/chazu/smalireflect/descriptor"
)

// primitiveTypes maps primitive descriptors to their Go representation.
var primitiveTypes = map[string]reflect.Type{
	"I": reflect.TypeOf(int32(0)),
	"Z": reflect.TypeOf(false),
	"J": reflect.TypeOf(int64(0)),
	"B": reflect.TypeOf(int8(0)),
	"S": reflect.TypeOf(int16(0)),
	"C": reflect.TypeOf(uint16(0)),
	"D": reflect.TypeOf(float64(0)),
	"F": reflect.TypeOf(float32(0)),
}

// PrimitiveType returns the Go type for a primitive descriptor.
func PrimitiveType(desc string) (reflect.Type, bool) {
	t, ok := primitiveTypes[desc]
	return t, ok
}

// Registry maps binary class names to classes and Go types back to classes.
// Safe for concurrent registration and lookup.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*Class
	byType  map[reflect.Type]*Class
	policy  Policy
}

// NewRegistry creates an empty registry that allows every class.
func NewRegistry() *Registry {
	return &Registry{
		classes: make(map[string]*Class),
		byType:  make(map[reflect.Type]*Class),
	}
}

// Register adds a class with the given binary name backed by goType. If the
// name is already registered the existing class is returned.
func (r *Registry) Register(name string, goType reflect.Type) *Class {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.classes[name]; ok {
		return c
	}
	c := newClass(r, name, goType)
	r.classes[name] = c
	// The first class registered for a Go type owns the reverse mapping.
	if _, ok := r.byType[goType]; !ok {
		r.byType[goType] = c
	}
	return c
}

// SetPolicy replaces the access policy.
func (r *Registry) SetPolicy(p Policy) {
	r.mu.Lock()
	r.policy = p
	r.mu.Unlock()
}

// Policy returns the current access policy.
func (r *Registry) Policy() Policy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.policy
}

// Lookup resolves a class by binary name for invocation. It fails with
// ErrClassNotFound for unregistered names and ErrAccessDenied for classes
// the policy forbids.
func (r *Registry) Lookup(name string) (*Class, error) {
	r.mu.RLock()
	c, ok := r.classes[name]
	policy := r.policy
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrClassNotFound, name)
	}
	if !policy.Allows(name) {
		return nil, fmt.Errorf("%w: %s", ErrAccessDenied, name)
	}
	return c, nil
}

// ClassOf returns the class registered for a Go type, or nil.
func (r *Registry) ClassOf(goType reflect.Type) *Class {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byType[goType]
}

// Count returns the number of registered classes.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.classes)
}

// Classes returns all registered classes sorted by name.
func (r *Registry) Classes() []*Class {
	r.mu.RLock()
	out := make([]*Class, 0, len(r.classes))
	for _, c := range r.classes {
		out = append(out, c)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// TypeOf maps a type descriptor to the Go type used for dispatch. Primitive
// codes map to fixed Go types, arrays to slices of their element type, and
// class descriptors to the registered class's Go type. The access policy does
// not apply: a parameter may name a class that cannot itself be invoked.
func (r *Registry) TypeOf(desc string) (reflect.Type, error) {
	if t, ok := primitiveTypes[desc]; ok {
		return t, nil
	}
	typ, err := descriptor.ParseType(desc)
	if err != nil {
		return nil, err
	}
	if typ.Kind != descriptor.Reference {
		return nil, fmt.Errorf("%w: no host type for %s", ErrClassNotFound, desc)
	}
	if elem, ok := typ.Elem(); ok {
		et, err := r.TypeOf(elem.Name)
		if err != nil {
			return nil, err
		}
		return reflect.SliceOf(et), nil
	}

	name := descriptor.InternalToBinary(desc)
	r.mu.RLock()
	c, ok := r.classes[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrClassNotFound, name)
	}
	return c.GoType, nil
}

// DescriptorOf is the inverse of TypeOf for Go types the registry knows.
func (r *Registry) DescriptorOf(t reflect.Type) (string, bool) {
	for desc, pt := range primitiveTypes {
		if pt == t {
			return desc, true
		}
	}
	if t.Kind() == reflect.Slice {
		elem, ok := r.DescriptorOf(t.Elem())
		if !ok {
			return "", false
		}
		return "[" + elem, true
	}
	if c := r.ClassOf(t); c != nil {
		return descriptor.BinaryToInternal(c.Name), true
	}
	return "", false
}
