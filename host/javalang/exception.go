package javalang

import "fmt"

// Exception is a Java exception raised by a bridged method. It is returned
// as an error from the Go callable.
type Exception struct {
	// Class is the binary name of the exception class.
	Class   string
	Message string
}

func (e *Exception) Error() string {
	if e.Message == "" {
		return e.Class
	}
	return fmt.Sprintf("%s: %s", e.Class, e.Message)
}

func numberFormat(s string) *Exception {
	return &Exception{Class: "java.lang.NumberFormatException", Message: fmt.Sprintf("For input string: %q", s)}
}

func indexOutOfBounds(class string, index, length int) *Exception {
	return &Exception{Class: class, Message: fmt.Sprintf("index %d, length %d", index, length)}
}

func nullPointer() *Exception {
	return &Exception{Class: "java.lang.NullPointerException"}
}
