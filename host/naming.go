package host

import (
	"strings"
	"unicode"
)

// JavaMethodName converts a Go method name to the Java convention.
// e.g., "IndexOf" → "indexOf", "String" → "toString"
func JavaMethodName(name string) string {
	if len(name) == 0 {
		return name
	}
	if name == "String" {
		return "toString"
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// GoPackageClassName returns the binary class name that holds a Go package's
// top-level functions as static methods.
// e.g., "encoding/json" → "encoding.json.Json", "strings" → "strings.Strings"
func GoPackageClassName(importPath string) string {
	parts := strings.Split(importPath, "/")
	last := parts[len(parts)-1]
	return strings.Join(parts, ".") + "." + toPascal(last)
}

// GoTypeClassName returns the binary class name for a named Go type.
// e.g., "strings", "Builder" → "strings.Builder"
func GoTypeClassName(importPath, typeName string) string {
	return strings.ReplaceAll(importPath, "/", ".") + "." + typeName
}

// toPascal converts a string to PascalCase.
// Handles hyphenated and underscore-separated names.
func toPascal(s string) string {
	if len(s) == 0 {
		return s
	}

	var b strings.Builder
	nextUpper := true
	for _, r := range s {
		if r == '-' || r == '_' || r == '.' {
			nextUpper = true
			continue
		}
		if nextUpper {
			b.WriteRune(unicode.ToUpper(r))
			nextUpper = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
