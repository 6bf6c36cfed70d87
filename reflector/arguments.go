package reflector

import (
	"fmt"
	"reflect"

	"github.com/chazu/smalireflect/descriptor"
	"github.com/chazu/smalireflect/host"
	"github.com/chazu/smalireflect/vm"
)

// invocationArguments are the marshaled arguments of one call, in parameter
// order, with the Go type each parameter declares.
type invocationArguments struct {
	args  []any
	types []reflect.Type
}

// arguments reads the logical parameters out of state. Parameter registers
// start after the receiver for instance calls, and a wide parameter takes
// two registers of which only the first is read.
func (m *MethodReflector) arguments(state RegisterFile) (*invocationArguments, error) {
	params := m.sig.Params
	ia := &invocationArguments{
		args:  make([]any, len(params)),
		types: make([]reflect.Type, len(params)),
	}

	r := m.sig.Offset()
	for p, expected := range params {
		width := descriptor.Width(expected)
		if r+width > state.RegisterCount() {
			return nil, fmt.Errorf("%w: parameter %d (%s) needs register %d, have %d",
				ErrIllegalArgument, p, expected, r+width-1, state.RegisterCount())
		}
		cell := state.PeekParameter(r)
		if cell == nil {
			return nil, fmt.Errorf("%w: parameter register %d is empty", ErrIllegalArgument, r)
		}

		arg, err := coerce(cell, expected)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", p, err)
		}
		typ, err := m.registry.TypeOf(expected)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", p, err)
		}
		ia.args[p] = arg
		ia.types[p] = typ
		r += width
	}
	return ia, nil
}

// coerce converts a register value to the host value for a parameter of
// type expected.
//
// Dalvik uses int registers for booleans, bytes, shorts, chars and for null
// itself, so the cell's value alone does not say what was meant. Primitive
// cells are re-typed to the parameter's primitive. A numeric zero in a
// non-primitive cell is taken to be null unless the parameter is
// java.lang.Object; this is a heuristic, not a rule of the calling
// convention.
func coerce(cell ValueCell, expected string) (any, error) {
	value := cell.Value()
	switch {
	case value == nil:
		return nil, nil
	case vm.IsUnknown(value):
		return nil, fmt.Errorf("%w: %v passed for %s", ErrIllegalArgument, value, expected)
	case cell.IsPrimitiveOrWrapper():
		return host.CastToPrimitive(value, expected)
	case expected != descriptor.ObjectType && isReference(expected) && isZero(cell):
		return nil, nil
	}
	return value, nil
}

func isReference(desc string) bool {
	return len(desc) > 0 && (desc[0] == 'L' || desc[0] == '[')
}

// isZero reports whether the cell holds a number equal to zero. Floats are
// compared as floats so a fraction never reads as zero.
func isZero(cell ValueCell) bool {
	v := cell.Value()
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	}
	return false
}
