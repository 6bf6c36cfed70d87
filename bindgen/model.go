// Package bindgen introspects Go packages and derives the smali signatures
// under which their API can be bridged, plus the host registration code that
// exposes it.
package bindgen

import "go/types"

// PackageModel is the in-memory representation of a Go package's exported API.
type PackageModel struct {
	ImportPath string
	Name       string // short package name (e.g., "json")
	Functions  []FunctionModel
	Types      []TypeModel
}

// TypeModel represents an exported named type.
type TypeModel struct {
	Name        string
	GoType      types.Type
	IsStruct    bool
	IsInterface bool
	Generic     bool
	Methods     []FunctionModel // method set of *T, or of T for interfaces
}

// FunctionModel represents an exported function or method.
type FunctionModel struct {
	Name       string
	IsMethod   bool
	RecvType   string // non-empty for methods (e.g., "*Builder")
	Params     []ParamModel
	Results    []ParamModel
	Variadic   bool
	Generic    bool
	ReturnsErr bool // true if last result is error
}

// ParamModel represents a function parameter or result.
type ParamModel struct {
	Name    string
	GoType  types.Type
	TypeStr string // human-readable type string (e.g., "string", "*strings.Builder")
}
