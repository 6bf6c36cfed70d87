package vm

import (
	"fmt"
	"strings"

	"github.com/chazu/smalireflect/descriptor"
)

// ValueCell is the bridge's view of a register value. HeapItem is the
// in-memory implementation; interpreters may supply their own.
type ValueCell interface {
	Value() any
	Type() string
	IsPrimitiveOrWrapper() bool
	IntegerValue() (int64, bool)
}

// RegisterFile is the bridge's view of a callee's registers: the parameter
// registers in calling-convention order and a return register.
type RegisterFile interface {
	RegisterCount() int
	PeekParameter(i int) ValueCell
	AssignParameter(i int, cell ValueCell)
	AssignReturnRegister(cell ValueCell)
}

var (
	_ ValueCell    = (*HeapItem)(nil)
	_ RegisterFile = (*MethodState)(nil)
)

// MethodState is an in-memory register file for one callee invocation. It
// holds only the parameter registers (receiver first for instance methods,
// wide values spanning two slots) plus the return register.
//
// A MethodState is not safe for concurrent use.
type MethodState struct {
	params    []ValueCell
	ret       ValueCell
	hasReturn bool
}

// NewMethodState creates a register file with n empty parameter registers.
func NewMethodState(n int) *MethodState {
	return &MethodState{params: make([]ValueCell, n)}
}

// NewMethodStateFor creates a register file sized for sig and lays out the
// given items in calling-convention order: receiver first for instance
// methods, then one item per logical parameter. Wide parameters take two
// registers; the second register receives a copy of the same item.
func NewMethodStateFor(sig *descriptor.MethodSignature, items ...ValueCell) (*MethodState, error) {
	want := len(sig.Params) + sig.Offset()
	if len(items) != want {
		return nil, fmt.Errorf("vm: %s expects %d items, got %d", sig, want, len(items))
	}
	ms := NewMethodState(sig.RegisterCount())
	r := 0
	if !sig.Static {
		ms.params[0] = items[0]
		r = 1
	}
	for i, p := range sig.Params {
		item := items[i+sig.Offset()]
		ms.params[r] = item
		if descriptor.Width(p) == 2 {
			ms.params[r+1] = item
		}
		r += descriptor.Width(p)
	}
	return ms, nil
}

// RegisterCount returns the number of parameter registers.
func (ms *MethodState) RegisterCount() int {
	return len(ms.params)
}

// PeekParameter returns the item in parameter register i, or nil if the
// register is empty or out of range.
func (ms *MethodState) PeekParameter(i int) ValueCell {
	if i < 0 || i >= len(ms.params) {
		return nil
	}
	return ms.params[i]
}

// AssignParameter stores item in parameter register i.
func (ms *MethodState) AssignParameter(i int, item ValueCell) {
	if i < 0 || i >= len(ms.params) {
		panic(fmt.Sprintf("vm: parameter register %d out of range (count=%d)", i, len(ms.params)))
	}
	ms.params[i] = item
}

// AssignReturnRegister stores the method's result.
func (ms *MethodState) AssignReturnRegister(item ValueCell) {
	ms.ret = item
	ms.hasReturn = true
}

// ReturnRegister returns the result item and whether one was assigned.
func (ms *MethodState) ReturnRegister() (ValueCell, bool) {
	return ms.ret, ms.hasReturn
}

func (ms *MethodState) String() string {
	var b strings.Builder
	for i, item := range ms.params {
		fmt.Fprintf(&b, "p%d: %v\n", i, item)
	}
	if ms.hasReturn {
		fmt.Fprintf(&b, "result: %v\n", ms.ret)
	}
	return b.String()
}
