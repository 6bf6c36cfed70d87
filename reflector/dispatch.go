package reflector

import (
	"fmt"
	"runtime/debug"

	"github.com/tliron/commonlog"

	"github.com/chazu/smalireflect/journal"
	"github.com/chazu/smalireflect/vm"
)

// invoke resolves and calls the host member. A panic anywhere in the bridge
// is recovered here; panics inside the callable itself are already reported
// by package host as an InvocationTargetError.
func (m *MethodReflector) invoke(state RegisterFile) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			err = &internalError{cause: cause, stack: debug.Stack()}
		}
	}()

	class, err := m.registry.Lookup(m.sig.ClassBinary)
	if err != nil {
		return nil, err
	}
	ia, err := m.arguments(state)
	if err != nil {
		return nil, err
	}

	switch {
	case m.sig.Static:
		if m.log.AllowLevel(commonlog.Debug) {
			m.log.Debugf("Reflecting %s, clazz=%s args=%v", m.sig, class.Name, ia.args)
		}
		result, err = class.InvokeStatic(m.sig.Name, ia.args, ia.types)

	case m.sig.Constructor:
		if m.log.AllowLevel(commonlog.Debug) {
			m.log.Debugf("Reflecting %s, class=%s args=%v", m.sig, class.Name, ia.args)
		}
		instance, err := class.NewInstance(ia.args, ia.types)
		if err != nil {
			return nil, err
		}
		state.AssignParameter(0, vm.NewHeapItem(instance, m.sig.ClassInternal))
		return nil, nil

	default:
		target := state.PeekParameter(0)
		if m.log.AllowLevel(commonlog.Debug) {
			m.log.Debugf("Reflecting %s, target=%v args=%v", m.sig, target, ia.args)
		}
		if target == nil {
			return nil, fmt.Errorf("%w: receiver register is empty", ErrNullReceiver)
		}
		receiver := target.Value()
		if vm.IsUnknown(receiver) {
			return nil, fmt.Errorf("%w: receiver is %v", ErrIllegalArgument, receiver)
		}
		result, err = class.Invoke(receiver, m.sig.Name, ia.args, ia.types)
	}
	if err != nil {
		return nil, err
	}
	return m.normalize(result)
}

// fail logs and journals a failed call. Anticipated failures are warnings;
// anything else is a bug in the bridge and logs as an error.
func (m *MethodReflector) fail(err error) {
	category := Classify(err)
	stack := stackOf(err)

	if category.Expected() {
		m.log.Warningf("Failed to reflect %s: %v", m.sig, err)
		if len(stack) > 0 && m.log.AllowLevel(commonlog.Debug) {
			m.log.Debugf("Stack trace:\n%s", stack)
		}
	} else {
		m.log.Errorf("Bridge failure reflecting %s: %v\n%s", m.sig, err, stack)
	}

	if m.journal == nil {
		return
	}
	rec := journal.Record{
		Signature: m.sig.String(),
		Category:  category,
		Message:   err.Error(),
		Trace:     string(stack),
	}
	if jerr := m.journal.Append(rec); jerr != nil {
		m.log.Errorf("Cannot journal failure of %s: %v", m.sig, jerr)
	}
}
