// Package descriptor parses smali type descriptors and method signatures.
//
// A type descriptor is either one of the single-character primitive codes
// (I, Z, J, B, S, C, D, F, V) or a reference: an internal class name such as
// "Ljava/lang/String;" or an array such as "[I" or "[Ljava/lang/String;".
package descriptor

import (
	"fmt"
	"strings"
)

// Kind tags a Type.
type Kind uint8

const (
	Invalid Kind = iota
	Int
	Boolean
	Long
	Byte
	Short
	Char
	Double
	Float
	Void
	Reference
)

var kindNames = [...]string{
	Invalid:   "invalid",
	Int:       "int",
	Boolean:   "boolean",
	Long:      "long",
	Byte:      "byte",
	Short:     "short",
	Char:      "char",
	Double:    "double",
	Float:     "float",
	Void:      "void",
	Reference: "reference",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// primitives maps the single-character codes to their kinds.
var primitives = map[byte]Kind{
	'I': Int,
	'Z': Boolean,
	'J': Long,
	'B': Byte,
	'S': Short,
	'C': Char,
	'D': Double,
	'F': Float,
	'V': Void,
}

// ObjectType is the descriptor of the universal object type.
const ObjectType = "Ljava/lang/Object;"

// Type is a parsed type descriptor.
type Type struct {
	Kind Kind
	// Name is the full descriptor text, e.g. "I" or "[Ljava/lang/String;".
	Name string
}

// ParseType parses a single complete descriptor.
func ParseType(desc string) (Type, error) {
	t, n, err := scanType(desc, 0)
	if err != nil {
		return Type{}, err
	}
	if n != len(desc) {
		return Type{}, &SyntaxError{Input: desc, Offset: n, Msg: "trailing characters after type"}
	}
	return t, nil
}

// MustParseType is like ParseType but panics on malformed input.
func MustParseType(desc string) Type {
	t, err := ParseType(desc)
	if err != nil {
		panic(err)
	}
	return t
}

// scanType reads one descriptor starting at s[pos:] and returns the type and
// the offset just past it.
func scanType(s string, pos int) (Type, int, error) {
	if pos >= len(s) {
		return Type{}, pos, &SyntaxError{Input: s, Offset: pos, Msg: "unexpected end of descriptor"}
	}
	c := s[pos]
	if k, ok := primitives[c]; ok {
		return Type{Kind: k, Name: s[pos : pos+1]}, pos + 1, nil
	}
	switch c {
	case 'L':
		end := strings.IndexByte(s[pos:], ';')
		if end < 0 {
			return Type{}, pos, &SyntaxError{Input: s, Offset: pos, Msg: "unterminated class name"}
		}
		if end == 1 {
			return Type{}, pos, &SyntaxError{Input: s, Offset: pos, Msg: "empty class name"}
		}
		return Type{Kind: Reference, Name: s[pos : pos+end+1]}, pos + end + 1, nil
	case '[':
		elem, next, err := scanType(s, pos+1)
		if err != nil {
			return Type{}, pos, err
		}
		if elem.Kind == Void {
			return Type{}, pos, &SyntaxError{Input: s, Offset: pos, Msg: "array of void"}
		}
		return Type{Kind: Reference, Name: s[pos:next]}, next, nil
	}
	return Type{}, pos, &SyntaxError{Input: s, Offset: pos, Msg: fmt.Sprintf("unknown type code %q", c)}
}

// Width returns the number of registers a value of this type occupies.
func (t Type) Width() int {
	switch t.Kind {
	case Long, Double:
		return 2
	case Void, Invalid:
		return 0
	}
	return 1
}

// IsPrimitive reports whether t is one of the eight primitive kinds.
func (t Type) IsPrimitive() bool {
	return t.Kind != Reference && t.Kind != Void && t.Kind != Invalid
}

// IsArray reports whether t is an array type.
func (t Type) IsArray() bool {
	return t.Kind == Reference && strings.HasPrefix(t.Name, "[")
}

// Elem returns the component type of an array type.
func (t Type) Elem() (Type, bool) {
	if !t.IsArray() {
		return Type{}, false
	}
	elem, err := ParseType(t.Name[1:])
	if err != nil {
		return Type{}, false
	}
	return elem, true
}

// IsObject reports whether t is java.lang.Object.
func (t Type) IsObject() bool {
	return t.Kind == Reference && t.Name == ObjectType
}

func (t Type) String() string {
	return t.Name
}

// Width returns the register width of a descriptor string. Malformed
// descriptors count as one register.
func Width(desc string) int {
	if len(desc) == 1 {
		switch desc[0] {
		case 'J', 'D':
			return 2
		case 'V':
			return 0
		}
	}
	return 1
}

// SyntaxError describes malformed descriptor or signature text.
type SyntaxError struct {
	Input  string
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("descriptor: %s at offset %d in %q", e.Msg, e.Offset, e.Input)
}
