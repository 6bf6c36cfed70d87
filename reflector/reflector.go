// Package reflector bridges calls from the symbolic interpreter to host
// callables. A MethodReflector is built once per smali method signature and
// then invoked with the callee's register file: it marshals the arguments
// out of the registers, dispatches to the host class registry, and writes
// the result (or Unknown) back.
//
// Reflect never fails. Every resolution or invocation failure degrades to an
// Unknown value in the return register so the interpreter can carry on.
package reflector

import (
	"github.com/tliron/commonlog"

	"github.com/chazu/smalireflect/descriptor"
	"github.com/chazu/smalireflect/host"
	"github.com/chazu/smalireflect/host/javalang"
	"github.com/chazu/smalireflect/journal"
	"github.com/chazu/smalireflect/vm"
)

type (
	RegisterFile = vm.RegisterFile
	ValueCell    = vm.ValueCell
)

// MethodReflector invokes one host method on behalf of the interpreter. It
// holds no per-call state, so one reflector may serve concurrent Reflect
// calls on distinct register files.
type MethodReflector struct {
	sig      *descriptor.MethodSignature
	registry *host.Registry
	journal  *journal.Journal
	log      commonlog.Logger
}

// Option configures a MethodReflector.
type Option func(*MethodReflector)

// WithRegistry sets the host class registry. The default is
// javalang.Default().
func WithRegistry(r *host.Registry) Option {
	return func(m *MethodReflector) { m.registry = r }
}

// WithJournal records every failed call in j.
func WithJournal(j *journal.Journal) Option {
	return func(m *MethodReflector) { m.journal = j }
}

// WithLogger replaces the package logger.
func WithLogger(l commonlog.Logger) Option {
	return func(m *MethodReflector) { m.log = l }
}

// New parses signature and returns a reflector for it. static must match how
// the interpreter invokes the method (invoke-static or not).
func New(signature string, static bool, opts ...Option) (*MethodReflector, error) {
	sig, err := descriptor.ParseSignature(signature, static)
	if err != nil {
		return nil, err
	}
	return NewForSignature(sig, opts...), nil
}

// NewForSignature returns a reflector for an already parsed signature.
func NewForSignature(sig *descriptor.MethodSignature, opts ...Option) *MethodReflector {
	m := &MethodReflector{sig: sig}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = javalang.Default()
	}
	if m.log == nil {
		m.log = commonlog.GetLogger("smalireflect.reflector")
	}
	return m
}

// MustNew is like New but panics on a malformed signature.
func MustNew(signature string, static bool, opts ...Option) *MethodReflector {
	m, err := New(signature, static, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Signature returns the parsed signature.
func (m *MethodReflector) Signature() *descriptor.MethodSignature {
	return m.sig
}

// Reflect performs the call described by the signature using the arguments
// in state, then stores the outcome in state. Constructors replace the
// instance in parameter register 0. Non-void methods write the return
// register, with Unknown standing in for any failure.
func (m *MethodReflector) Reflect(state RegisterFile) {
	if m.log.AllowLevel(commonlog.Debug) {
		m.log.Debugf("Reflecting %s with context:\n%v", m.sig, state)
	}

	result, err := m.invoke(state)
	if err != nil {
		m.fail(err)
		result = vm.NewUnknownValue(m.sig.Return)
	}
	m.bind(state, result)
}
