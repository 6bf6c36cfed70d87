package host

// Policy decides which registered classes the bridge may invoke. An empty
// Safe list allows every class not named in Unsafe.
type Policy struct {
	Safe   []string
	Unsafe []string
}

// Allows reports whether the class with the given binary name may be used.
func (p Policy) Allows(name string) bool {
	for _, n := range p.Unsafe {
		if n == name {
			return false
		}
	}
	if len(p.Safe) == 0 {
		return true
	}
	for _, n := range p.Safe {
		if n == name {
			return true
		}
	}
	return false
}
