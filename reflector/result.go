package reflector

import (
	"github.com/chazu/smalireflect/descriptor"
	"github.com/chazu/smalireflect/host"
	"github.com/chazu/smalireflect/vm"
)

// bind writes result to the return register. Void methods and constructors
// leave the register untouched, whatever return type a constructor declares.
func (m *MethodReflector) bind(state RegisterFile, result any) {
	if m.sig.IsVoid() || m.sig.Constructor {
		return
	}
	state.AssignReturnRegister(vm.NewHeapItem(result, m.sig.Return))
}

// normalize sizes a primitive result to the declared return type, so a host
// callable returning int for a J method still yields an int64.
func (m *MethodReflector) normalize(result any) (any, error) {
	if result == nil || m.sig.IsVoid() || !descriptor.IsPrimitiveOrWrapper(m.sig.Return) {
		return result, nil
	}
	return host.CastToPrimitive(result, m.sig.Return)
}
