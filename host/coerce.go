package host

import (
	"fmt"
	"reflect"

	"github.com/chazu/smalireflect/descriptor"
)

// widening lists the primitive widening conversions a call may apply to an
// argument, by source kind.
var widening = map[reflect.Kind][]reflect.Kind{
	reflect.Int8:    {reflect.Int16, reflect.Int32, reflect.Int64, reflect.Float32, reflect.Float64},
	reflect.Int16:   {reflect.Int32, reflect.Int64, reflect.Float32, reflect.Float64},
	reflect.Uint16:  {reflect.Int32, reflect.Int64, reflect.Float32, reflect.Float64},
	reflect.Int32:   {reflect.Int64, reflect.Float32, reflect.Float64},
	reflect.Int64:   {reflect.Float32, reflect.Float64},
	reflect.Float32: {reflect.Float64},
}

func widens(from, to reflect.Type) bool {
	if from.PkgPath() != "" || to.PkgPath() != "" {
		return false
	}
	for _, k := range widening[from.Kind()] {
		if k == to.Kind() {
			return true
		}
	}
	return false
}

// compatible reports whether a value of type from may be passed where to is
// expected.
func compatible(from, to reflect.Type) bool {
	return from.AssignableTo(to) || widens(from, to)
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

func convertArg(arg any, to reflect.Type) (reflect.Value, error) {
	if arg == nil {
		if !nillable(to) {
			return reflect.Value{}, fmt.Errorf("null passed for %s", to)
		}
		return reflect.Zero(to), nil
	}
	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(to) {
		return v, nil
	}
	if widens(v.Type(), to) {
		return v.Convert(to), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", v.Type(), to)
}

// CastToPrimitive converts value to the Go representation of desc when desc
// is a primitive or wrapper descriptor. smali stores boolean, byte, short and
// char values in int registers, so an int32 arriving for a Z, B, S or C
// parameter must be re-typed before dispatch. Reference descriptors leave the
// value unchanged.
func CastToPrimitive(value any, desc string) (any, error) {
	prim, ok := descriptor.Unbox(desc)
	if !ok {
		return value, nil
	}

	var (
		i       int64
		f       float64
		isFloat bool
	)
	switch v := value.(type) {
	case bool:
		if prim == "Z" {
			return v, nil
		}
		if v {
			i = 1
		}
	default:
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			i = rv.Int()
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			i = int64(rv.Uint())
		case reflect.Float32, reflect.Float64:
			f = rv.Float()
			isFloat = true
		default:
			return nil, fmt.Errorf("%w: cannot cast %T to %s", ErrIllegalArgument, value, desc)
		}
	}
	if isFloat {
		i = int64(f)
	} else {
		f = float64(i)
	}

	switch prim {
	case "Z":
		if isFloat {
			return f != 0, nil
		}
		return i != 0, nil
	case "I":
		return int32(i), nil
	case "J":
		return i, nil
	case "B":
		return int8(i), nil
	case "S":
		return int16(i), nil
	case "C":
		return uint16(i), nil
	case "F":
		return float32(f), nil
	case "D":
		return f, nil
	}
	return value, nil
}
