package bindgen

import (
	"fmt"
	"go/types"

	"golang.org/x/tools/go/packages"
)

// Introspect loads a Go package by import path and returns its API model.
// The includeFilter, if non-nil, restricts which exported names are included.
func Introspect(importPath string, includeFilter map[string]bool) (*PackageModel, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes,
	}

	pkgs, err := packages.Load(cfg, importPath)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", importPath, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found for %s", importPath)
	}
	if len(pkgs[0].Errors) > 0 {
		return nil, fmt.Errorf("package errors: %v", pkgs[0].Errors)
	}

	pkg := pkgs[0]
	if pkg.Types == nil {
		return nil, fmt.Errorf("type information not available for %s", importPath)
	}
	return modelOf(pkg.Types, includeFilter), nil
}

func modelOf(pkg *types.Package, includeFilter map[string]bool) *PackageModel {
	model := &PackageModel{
		ImportPath: pkg.Path(),
		Name:       pkg.Name(),
	}

	scope := pkg.Scope()
	for _, name := range scope.Names() {
		if includeFilter != nil && !includeFilter[name] {
			continue
		}
		obj := scope.Lookup(name)
		if !obj.Exported() {
			continue
		}

		switch o := obj.(type) {
		case *types.Func:
			sig := o.Type().(*types.Signature)
			model.Functions = append(model.Functions, functionModelFromSig(o.Name(), sig, false, "", pkg))
		case *types.TypeName:
			if tm := extractType(o, pkg); tm != nil {
				model.Types = append(model.Types, *tm)
			}
		}
	}
	return model
}

func extractType(tn *types.TypeName, pkg *types.Package) *TypeModel {
	if tn.IsAlias() {
		return nil
	}
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return nil
	}

	tm := &TypeModel{
		Name:   tn.Name(),
		GoType: named,
	}
	_, tm.IsStruct = named.Underlying().(*types.Struct)
	_, tm.IsInterface = named.Underlying().(*types.Interface)
	tm.Generic = named.TypeParams().Len() > 0

	var (
		mset *types.MethodSet
		recv string
	)
	if tm.IsInterface {
		mset = types.NewMethodSet(named)
		recv = tn.Name()
	} else {
		mset = types.NewMethodSet(types.NewPointer(named))
		recv = "*" + tn.Name()
	}
	for i := 0; i < mset.Len(); i++ {
		sel := mset.At(i)
		fn, ok := sel.Obj().(*types.Func)
		if !ok || !fn.Exported() {
			continue
		}
		// Only include methods directly defined on this type (not promoted)
		if len(sel.Index()) > 1 {
			continue
		}
		sig := fn.Type().(*types.Signature)
		tm.Methods = append(tm.Methods, functionModelFromSig(fn.Name(), sig, true, recv, pkg))
	}
	return tm
}

func functionModelFromSig(name string, sig *types.Signature, isMethod bool, recvType string, pkg *types.Package) FunctionModel {
	fm := FunctionModel{
		Name:     name,
		IsMethod: isMethod,
		RecvType: recvType,
		Variadic: sig.Variadic(),
		Generic:  sig.TypeParams().Len() > 0 || sig.RecvTypeParams().Len() > 0,
	}

	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		p := params.At(i)
		fm.Params = append(fm.Params, ParamModel{
			Name:    p.Name(),
			GoType:  p.Type(),
			TypeStr: types.TypeString(p.Type(), qualifier(pkg)),
		})
	}

	results := sig.Results()
	for i := 0; i < results.Len(); i++ {
		r := results.At(i)
		fm.Results = append(fm.Results, ParamModel{
			Name:    r.Name(),
			GoType:  r.Type(),
			TypeStr: types.TypeString(r.Type(), qualifier(pkg)),
		})
	}

	if results.Len() > 0 && isErrorType(results.At(results.Len()-1).Type()) {
		fm.ReturnsErr = true
	}
	return fm
}

func isErrorType(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}

func qualifier(pkg *types.Package) types.Qualifier {
	return func(other *types.Package) string {
		if other == pkg {
			return ""
		}
		return other.Name()
	}
}
