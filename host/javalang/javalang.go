// Package javalang registers the java.lang classes the bridge can invoke.
//
// Java strings are Go strings; boxed numbers share the Go type of the
// primitive they wrap (java.lang.Integer is int32, java.lang.Character is
// uint16, ...). Methods that throw in Java return an *Exception.
package javalang

import (
	"reflect"
	"sync"

	"github.com/chazu/smalireflect/host"
)

var (
	defaultOnce     sync.Once
	defaultRegistry *host.Registry
)

// Default returns a shared registry holding every class in this package.
func Default() *host.Registry {
	defaultOnce.Do(func() {
		defaultRegistry = host.NewRegistry()
		Register(defaultRegistry)
	})
	return defaultRegistry
}

// NewRegistry returns a fresh registry holding every class in this package.
func NewRegistry() *host.Registry {
	r := host.NewRegistry()
	Register(r)
	return r
}

// Register adds the java.lang classes to r.
func Register(r *host.Registry) {
	registerObject(r)
	registerString(r)
	registerStringBuilder(r)
	registerInteger(r)
	registerLong(r)
	registerShort(r)
	registerByte(r)
	registerBoolean(r)
	registerCharacter(r)
	registerFloat(r)
	registerDouble(r)
	registerMath(r)
}

var (
	objectType = reflect.TypeOf((*any)(nil)).Elem()
	stringType = reflect.TypeOf("")
)

// Object is a plain java.lang.Object instance.
type Object struct{}

func registerObject(r *host.Registry) {
	r.Register("java.lang.Object", objectType).
		Constructor(func() any { return &Object{} }).
		Method("toString", func(o any) string { return toString(o) }).
		Method("equals", func(o, other any) bool { return o == other }).
		Method("hashCode", func(o any) int32 { return hashCode(o) })
}
