// Package vm holds the value model the bridge exchanges with the symbolic
// interpreter: heap items (a value paired with its declared type), the
// Unknown sentinel, and an in-memory method state that lays parameters out
// the way the Dalvik calling convention does.
package vm

// UnknownValue stands in for a value that could not be computed. It is a
// distinct type so it never collides with a genuine null.
type UnknownValue struct {
	// Type is the descriptor of the value this placeholder replaces.
	Type string
}

// NewUnknownValue returns an Unknown placeholder for a value of type desc.
func NewUnknownValue(desc string) *UnknownValue {
	return &UnknownValue{Type: desc}
}

func (u *UnknownValue) String() string {
	if u.Type == "" {
		return "Unknown"
	}
	return "Unknown(" + u.Type + ")"
}

// IsUnknown reports whether v is an Unknown placeholder.
func IsUnknown(v any) bool {
	_, ok := v.(*UnknownValue)
	return ok
}
