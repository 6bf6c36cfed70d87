package vm

import (
	"fmt"
	"reflect"

	"github.com/chazu/smalireflect/descriptor"
)

// HeapItem pairs a runtime value with its declared type descriptor.
//
// Values use the host representation of the declared type: int32 for I,
// bool for Z, int64 for J, int8 for B, int16 for S, uint16 for C, float64
// for D, float32 for F, string for java.lang.String, and host objects for
// other classes. A nil Value is a null reference.
type HeapItem struct {
	value any
	typ   string
}

// NewHeapItem creates a HeapItem.
func NewHeapItem(value any, desc string) *HeapItem {
	return &HeapItem{value: value, typ: desc}
}

// NewUnknownHeapItem creates a HeapItem holding an Unknown placeholder.
func NewUnknownHeapItem(desc string) *HeapItem {
	return &HeapItem{value: NewUnknownValue(desc), typ: desc}
}

// Value returns the runtime value.
func (h *HeapItem) Value() any {
	return h.value
}

// Type returns the declared type descriptor.
func (h *HeapItem) Type() string {
	return h.typ
}

// IsUnknown reports whether the value is the Unknown placeholder.
func (h *HeapItem) IsUnknown() bool {
	return IsUnknown(h.value)
}

// IsNull reports whether the value is a null reference.
func (h *HeapItem) IsNull() bool {
	return h.value == nil
}

// IsPrimitiveOrWrapper reports whether the declared type is a primitive or
// one of the wrapper classes. The answer comes from the declared type, not
// from the value: smali reuses the int representation for several types.
func (h *HeapItem) IsPrimitiveOrWrapper() bool {
	return descriptor.IsPrimitiveOrWrapper(h.typ)
}

// IntegerValue returns the value as an integer if it is numeric.
func (h *HeapItem) IntegerValue() (int64, bool) {
	return integerValue(h.value)
}

func integerValue(v any) (int64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return int64(rv.Float()), true
	}
	return 0, false
}

func (h *HeapItem) String() string {
	if h == nil {
		return "<empty>"
	}
	switch v := h.value.(type) {
	case nil:
		return fmt.Sprintf("type=%s, value=null", h.typ)
	case string:
		return fmt.Sprintf("type=%s, value=%q", h.typ, v)
	}
	return fmt.Sprintf("type=%s, value=%v", h.typ, h.value)
}
