package descriptor

import (
	"strings"
)

// ConstructorName is the method name smali uses for constructors.
const ConstructorName = "<init>"

// MethodSignature is a parsed smali method signature such as
// "Ljava/lang/String;->indexOf(Ljava/lang/String;I)I". It is immutable once
// parsed.
type MethodSignature struct {
	text string

	// ClassInternal is the owning class in descriptor form ("Ljava/lang/String;").
	ClassInternal string
	// ClassBinary is the owning class in binary form ("java.lang.String").
	ClassBinary string
	Name        string
	// Params holds the logical parameter descriptors, never the receiver.
	Params      []string
	Return      string
	Static      bool
	Constructor bool
}

// ParseSignature parses "<owner>-><name>(<params>)<return>". Static-ness is
// not encoded in the text so the caller supplies it.
func ParseSignature(text string, static bool) (*MethodSignature, error) {
	sep := strings.Index(text, "->")
	if sep < 0 {
		return nil, &SyntaxError{Input: text, Offset: 0, Msg: "missing \"->\" separator"}
	}
	owner := text[:sep]
	ownerType, err := ParseType(owner)
	if err != nil || ownerType.Kind != Reference {
		return nil, &SyntaxError{Input: text, Offset: 0, Msg: "owner is not a class descriptor"}
	}

	rest := text[sep+2:]
	open := strings.IndexByte(rest, '(')
	if open <= 0 {
		return nil, &SyntaxError{Input: text, Offset: sep + 2, Msg: "missing method name or parameter list"}
	}
	end := strings.IndexByte(rest, ')')
	if end < open {
		return nil, &SyntaxError{Input: text, Offset: sep + 2 + open, Msg: "unterminated parameter list"}
	}

	base := sep + 2
	var params []string
	for pos := open + 1; pos < end; {
		t, next, err := scanType(rest[:end], pos)
		if err != nil {
			return nil, &SyntaxError{Input: text, Offset: base + pos, Msg: err.(*SyntaxError).Msg}
		}
		if t.Kind == Void {
			return nil, &SyntaxError{Input: text, Offset: base + pos, Msg: "void parameter"}
		}
		params = append(params, t.Name)
		pos = next
	}

	ret := rest[end+1:]
	if _, err := ParseType(ret); err != nil {
		return nil, &SyntaxError{Input: text, Offset: base + end + 1, Msg: "bad return type"}
	}

	name := rest[:open]
	return &MethodSignature{
		text:          text,
		ClassInternal: owner,
		ClassBinary:   InternalToBinary(owner),
		Name:          name,
		Params:        params,
		Return:        ret,
		Static:        static,
		Constructor:   !static && name == ConstructorName,
	}, nil
}

// MustParseSignature is like ParseSignature but panics on malformed input.
func MustParseSignature(text string, static bool) *MethodSignature {
	sig, err := ParseSignature(text, static)
	if err != nil {
		panic(err)
	}
	return sig
}

// Offset is the register index of the first logical parameter: 1 when
// register 0 holds a receiver, 0 for static methods.
func (s *MethodSignature) Offset() int {
	if s.Static {
		return 0
	}
	return 1
}

// RegisterCount is the number of parameter registers the calling convention
// uses for this method, receiver included.
func (s *MethodSignature) RegisterCount() int {
	n := s.Offset()
	for _, p := range s.Params {
		n += Width(p)
	}
	return n
}

// IsVoid reports whether the method returns nothing.
func (s *MethodSignature) IsVoid() bool {
	return s.Return == "V"
}

func (s *MethodSignature) String() string {
	return s.text
}
