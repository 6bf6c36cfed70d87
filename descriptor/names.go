package descriptor

import "strings"

// wrappers maps wrapper class descriptors to the primitive they box.
var wrappers = map[string]string{
	"Ljava/lang/Integer;":   "I",
	"Ljava/lang/Boolean;":   "Z",
	"Ljava/lang/Long;":      "J",
	"Ljava/lang/Byte;":      "B",
	"Ljava/lang/Short;":     "S",
	"Ljava/lang/Character;": "C",
	"Ljava/lang/Double;":    "D",
	"Ljava/lang/Float;":     "F",
}

// InternalToBinary converts an internal descriptor into the host's binary
// class name.
//
//	Ljava/lang/String;   -> java.lang.String
//	[Ljava/lang/String;  -> [Ljava.lang.String;
//	[I                   -> [I
//	I                    -> I
func InternalToBinary(internal string) string {
	if strings.HasPrefix(internal, "[") {
		return strings.ReplaceAll(internal, "/", ".")
	}
	if strings.HasPrefix(internal, "L") && strings.HasSuffix(internal, ";") {
		return strings.ReplaceAll(internal[1:len(internal)-1], "/", ".")
	}
	return internal
}

// BinaryToInternal is the inverse of InternalToBinary.
func BinaryToInternal(binary string) string {
	if strings.HasPrefix(binary, "[") {
		return strings.ReplaceAll(binary, ".", "/")
	}
	if len(binary) == 1 {
		if _, ok := primitives[binary[0]]; ok {
			return binary
		}
	}
	return "L" + strings.ReplaceAll(binary, ".", "/") + ";"
}

// IsPrimitiveOrWrapper reports whether desc names a primitive type or one of
// the java.lang wrapper classes that box one.
func IsPrimitiveOrWrapper(desc string) bool {
	if len(desc) == 1 {
		k, ok := primitives[desc[0]]
		return ok && k != Void
	}
	_, ok := wrappers[desc]
	return ok
}

// Unbox returns the primitive descriptor for desc: desc itself if it is
// primitive, the boxed primitive if it is a wrapper class.
func Unbox(desc string) (string, bool) {
	if len(desc) == 1 {
		k, ok := primitives[desc[0]]
		return desc, ok && k != Void
	}
	p, ok := wrappers[desc]
	return p, ok
}
