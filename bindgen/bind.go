package bindgen

import (
	"errors"
	"fmt"
	"go/types"
	"sort"
	"strings"

	"github.com/chazu/smalireflect/descriptor"
	"github.com/chazu/smalireflect/host"
)

// Binding is one bridgeable member of a Go package.
type Binding struct {
	// Class is the binary class name the member is registered under.
	Class string
	// Name is the Java member name ("<init>" for constructors).
	Name string
	Kind host.MemberKind
	// Signature is the smali signature an interpreter would reflect on.
	Signature string

	goName string
	recv   string
}

// Skipped is an exported member that cannot be bridged.
type Skipped struct {
	Name   string
	Reason string
}

// BindingSet is the bridgeable view of a package.
type BindingSet struct {
	Package  *PackageModel
	Bindings []Binding
	Skipped  []Skipped
}

// ClassNames returns the distinct classes in the set, sorted.
func (bs *BindingSet) ClassNames() []string {
	seen := make(map[string]bool)
	var out []string
	for _, b := range bs.Bindings {
		if !seen[b.Class] {
			seen[b.Class] = true
			out = append(out, b.Class)
		}
	}
	sort.Strings(out)
	return out
}

var errUnsupported = errors.New("no Java equivalent")

// Bind derives the bindings of model. Package-level functions become static
// methods of the package class (host.GoPackageClassName); methods of a named
// type become instance methods of the type's class, and struct types also get
// a no-argument constructor returning a zero value.
func Bind(model *PackageModel) *BindingSet {
	bs := &BindingSet{Package: model}
	pkgClass := host.GoPackageClassName(model.ImportPath)

	for _, fn := range model.Functions {
		b, err := bindFunc(pkgClass, host.Static, fn)
		if err != nil {
			bs.skip(fn.Name, err)
			continue
		}
		bs.Bindings = append(bs.Bindings, b)
	}

	for _, tm := range model.Types {
		if tm.Generic {
			bs.skip(tm.Name, errors.New("generic type"))
			continue
		}
		class := host.GoTypeClassName(model.ImportPath, tm.Name)
		if tm.IsStruct {
			bs.Bindings = append(bs.Bindings, Binding{
				Class:     class,
				Name:      descriptor.ConstructorName,
				Kind:      host.Constructor,
				Signature: descriptor.BinaryToInternal(class) + "->" + descriptor.ConstructorName + "()V",
				goName:    tm.Name,
			})
		}
		for _, fn := range tm.Methods {
			b, err := bindFunc(class, host.Virtual, fn)
			if err != nil {
				bs.skip(tm.Name+"."+fn.Name, err)
				continue
			}
			bs.Bindings = append(bs.Bindings, b)
		}
	}
	return bs
}

func (bs *BindingSet) skip(name string, err error) {
	bs.Skipped = append(bs.Skipped, Skipped{Name: name, Reason: err.Error()})
}

func bindFunc(class string, kind host.MemberKind, fn FunctionModel) (Binding, error) {
	switch {
	case fn.Generic:
		return Binding{}, errors.New("generic function")
	case fn.Variadic:
		return Binding{}, errors.New("variadic function")
	}

	var b strings.Builder
	b.WriteString(descriptor.BinaryToInternal(class))
	b.WriteString("->")
	name := host.JavaMethodName(fn.Name)
	b.WriteString(name)
	b.WriteByte('(')
	for _, p := range fn.Params {
		d, err := DescriptorOf(p.GoType)
		if err != nil {
			return Binding{}, fmt.Errorf("parameter %s: %w", p.TypeStr, err)
		}
		b.WriteString(d)
	}
	b.WriteByte(')')

	results := fn.Results
	if fn.ReturnsErr {
		results = results[:len(results)-1]
	}
	switch len(results) {
	case 0:
		b.WriteByte('V')
	case 1:
		d, err := DescriptorOf(results[0].GoType)
		if err != nil {
			return Binding{}, fmt.Errorf("result %s: %w", results[0].TypeStr, err)
		}
		b.WriteString(d)
	default:
		return Binding{}, errors.New("multiple results")
	}

	return Binding{
		Class:     class,
		Name:      name,
		Kind:      kind,
		Signature: b.String(),
		goName:    fn.Name,
		recv:      fn.RecvType,
	}, nil
}

// DescriptorOf maps a Go type to the descriptor the bridge would use for it,
// mirroring the host registry's mapping in the other direction. Go types with
// no exact Java counterpart (int, uint, byte, maps, funcs, ...) fail.
func DescriptorOf(t types.Type) (string, error) {
	t = types.Unalias(t)
	switch u := t.(type) {
	case *types.Basic:
		switch u.Kind() {
		case types.Bool:
			return "Z", nil
		case types.Int8:
			return "B", nil
		case types.Int16:
			return "S", nil
		case types.Int32:
			return "I", nil
		case types.Int64:
			return "J", nil
		case types.Uint16:
			return "C", nil
		case types.Float32:
			return "F", nil
		case types.Float64:
			return "D", nil
		case types.String:
			return "Ljava/lang/String;", nil
		}
	case *types.Slice:
		elem, err := DescriptorOf(u.Elem())
		if err != nil {
			return "", err
		}
		return "[" + elem, nil
	case *types.Interface:
		if u.Empty() {
			return descriptor.ObjectType, nil
		}
	case *types.Pointer:
		if named, ok := types.Unalias(u.Elem()).(*types.Named); ok {
			if _, isStruct := named.Underlying().(*types.Struct); isStruct {
				return classDescriptor(named)
			}
		}
	case *types.Named:
		if _, isIface := u.Underlying().(*types.Interface); isIface {
			return classDescriptor(u)
		}
	}
	return "", fmt.Errorf("%w for %s", errUnsupported, t)
}

func classDescriptor(named *types.Named) (string, error) {
	obj := named.Obj()
	if obj.Pkg() == nil {
		// error and comparable
		return "", fmt.Errorf("%w for %s", errUnsupported, obj.Name())
	}
	if named.TypeArgs().Len() > 0 {
		return "", fmt.Errorf("%w for instantiated %s", errUnsupported, obj.Name())
	}
	return descriptor.BinaryToInternal(host.GoTypeClassName(obj.Pkg().Path(), obj.Name())), nil
}
