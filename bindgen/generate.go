package bindgen

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/chazu/smalireflect/host"
)

const hostPath = "github.com/chazu/smalireflect/host"

// GeneratedPackageName returns the package name used for generated glue,
// e.g. "strings" → "bind_strings".
func GeneratedPackageName(model *PackageModel) string {
	return "bind_" + model.Name
}

// Generate returns Go source for a package whose Register function adds every
// binding in bs to a host registry.
func Generate(bs *BindingSet) (string, error) {
	if len(bs.Bindings) == 0 {
		return "", errors.New("bindgen: nothing to bind")
	}
	model := bs.Package
	path := model.ImportPath
	pkgClass := host.GoPackageClassName(path)
	holder := pkgClass[strings.LastIndexByte(pkgClass, '.')+1:]

	typeModels := make(map[string]*TypeModel)
	for i := range model.Types {
		tm := &model.Types[i]
		typeModels[host.GoTypeClassName(path, tm.Name)] = tm
	}

	f := jen.NewFile(GeneratedPackageName(model))
	f.HeaderComment("Code generated by smalireflect bindings. DO NOT EDIT.")
	f.ImportAlias(path, "pkg")
	f.ImportName(hostPath, "host")

	classes := groupByClass(bs.Bindings)
	if _, ok := classes[pkgClass]; ok {
		f.Commentf("%s holds the package-level functions of %s.", holder, path)
		f.Type().Id(holder).Struct()
		f.Line()
	}

	var body []jen.Code
	for _, class := range orderedClasses(bs.Bindings) {
		var stmt *jen.Statement
		if class == pkgClass {
			stmt = jen.Id("r").Dot("Register").Call(jen.Lit(class), jen.Qual("reflect", "TypeOf").Call(jen.Id(holder).Values())).
				Op(".").Line().Id("SetAbstract").Call()
		} else {
			stmt = jen.Id("r").Dot("Register").Call(jen.Lit(class), goTypeExpr(path, typeModels[class]))
		}
		for _, m := range classes[class] {
			stmt.Op(".").Line().Add(memberCall(path, m))
		}
		body = append(body, stmt)
	}

	f.Commentf("Register adds the bridgeable API of %s to r.", path)
	f.Func().Id("Register").Params(jen.Id("r").Op("*").Qual(hostPath, "Registry")).Block(body...)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return "", fmt.Errorf("bindgen: rendering generated code: %w", err)
	}
	return buf.String(), nil
}

func memberCall(path string, m Binding) *jen.Statement {
	switch m.Kind {
	case host.Constructor:
		return jen.Id("Constructor").Call(
			jen.Func().Params().Op("*").Qual(path, m.goName).Block(
				jen.Return(jen.New(jen.Qual(path, m.goName))),
			),
		)
	case host.Static:
		return jen.Id("Static").Call(jen.Lit(m.Name), jen.Qual(path, m.goName))
	}
	return jen.Id("Method").Call(jen.Lit(m.Name), recvExpr(path, m.recv).Dot(m.goName))
}

func groupByClass(bindings []Binding) map[string][]Binding {
	out := make(map[string][]Binding)
	for _, b := range bindings {
		out[b.Class] = append(out[b.Class], b)
	}
	return out
}

// orderedClasses returns class names in order of first appearance.
func orderedClasses(bindings []Binding) []string {
	seen := make(map[string]bool)
	var out []string
	for _, b := range bindings {
		if !seen[b.Class] {
			seen[b.Class] = true
			out = append(out, b.Class)
		}
	}
	return out
}

func goTypeExpr(path string, tm *TypeModel) *jen.Statement {
	typ := jen.Qual("reflect", "TypeOf").Call(jen.Parens(jen.Op("*").Qual(path, tm.Name)).Call(jen.Nil()))
	if tm.IsInterface {
		typ.Dot("Elem").Call()
	}
	return typ
}

// recvExpr turns a receiver such as "*Builder" into a method expression
// operand.
func recvExpr(path, recv string) *jen.Statement {
	if name, ok := strings.CutPrefix(recv, "*"); ok {
		return jen.Parens(jen.Op("*").Qual(path, name))
	}
	return jen.Qual(path, recv)
}
