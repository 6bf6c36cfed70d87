package main

import (
	"flag"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/chazu/smalireflect/descriptor"
	"github.com/chazu/smalireflect/host"
	"github.com/chazu/smalireflect/reflector"
	"github.com/chazu/smalireflect/vm"
)

// runInvoke handles `smalireflect invoke`.
// Usage:
//
//	smalireflect invoke -static 'Ljava/lang/Math;->max(II)I' 3 9
//	smalireflect invoke 'Ljava/lang/String;->charAt(I)C' hello 1
//	smalireflect invoke 'Ljava/lang/StringBuilder;->reverse()Ljava/lang/StringBuilder;' new
//
// Instance calls take the receiver as the first argument; "new" constructs it
// with the class's no-argument constructor.
func runInvoke(w io.Writer, e *env, args []string) error {
	fs := flag.NewFlagSet("invoke", flag.ContinueOnError)
	static := fs.Bool("static", false, "Invoke as invoke-static")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("invoke: missing signature")
	}

	m, err := reflector.New(fs.Arg(0), *static, e.options()...)
	if err != nil {
		return err
	}
	sig := m.Signature()

	texts := fs.Args()[1:]
	if want := len(sig.Params) + sig.Offset(); len(texts) != want {
		return fmt.Errorf("invoke: %s takes %d argument(s), got %d", sig, want, len(texts))
	}

	var items []vm.ValueCell
	if !sig.Static {
		recv, err := receiverItem(e, sig, texts[0])
		if err != nil {
			return err
		}
		items = append(items, recv)
		texts = texts[1:]
	}
	for i, p := range sig.Params {
		item, err := parseItem(e.registry, p, texts[i])
		if err != nil {
			return fmt.Errorf("argument %d: %w", i, err)
		}
		items = append(items, item)
	}

	ms, err := vm.NewMethodStateFor(sig, items...)
	if err != nil {
		return err
	}
	m.Reflect(ms)

	fmt.Fprintf(w, "%s\n", sig)
	fmt.Fprint(w, ms)
	if _, ok := ms.ReturnRegister(); !ok {
		fmt.Fprintln(w, "result: (void)")
	}
	return nil
}

// receiverItem builds the receiver for an instance call.
func receiverItem(e *env, sig *descriptor.MethodSignature, text string) (vm.ValueCell, error) {
	if text != "new" {
		return parseItem(e.registry, sig.ClassInternal, text)
	}
	if sig.Constructor {
		// The constructor itself fills register 0.
		return vm.NewHeapItem(nil, sig.ClassInternal), nil
	}

	ctor, err := reflector.New(sig.ClassInternal+"->"+descriptor.ConstructorName+"()V", false, e.options()...)
	if err != nil {
		return nil, err
	}
	ms, err := vm.NewMethodStateFor(ctor.Signature(), vm.NewHeapItem(nil, sig.ClassInternal))
	if err != nil {
		return nil, err
	}
	ctor.Reflect(ms)
	recv := ms.PeekParameter(0)
	if recv == nil || recv.Value() == nil {
		return nil, fmt.Errorf("cannot construct %s", sig.ClassBinary)
	}
	return recv, nil
}

// parseItem builds a register value of type desc from command-line text.
// "null" is a null reference and "?" is an Unknown value of any type.
func parseItem(r *host.Registry, desc, text string) (vm.ValueCell, error) {
	switch {
	case text == "?":
		return vm.NewUnknownHeapItem(desc), nil
	case text == "null" && !isPrimitive(desc):
		return vm.NewHeapItem(nil, desc), nil
	}
	v, err := parseValue(r, desc, text)
	if err != nil {
		return nil, err
	}
	return vm.NewHeapItem(v, desc), nil
}

func isPrimitive(desc string) bool {
	_, ok := host.PrimitiveType(desc)
	return ok
}

func parseValue(r *host.Registry, desc, text string) (any, error) {
	if prim, ok := descriptor.Unbox(desc); ok {
		desc = prim
	}
	switch desc {
	case "Z":
		return strconv.ParseBool(text)
	case "B":
		n, err := strconv.ParseInt(text, 0, 8)
		return int8(n), err
	case "S":
		n, err := strconv.ParseInt(text, 0, 16)
		return int16(n), err
	case "I":
		n, err := strconv.ParseInt(text, 0, 32)
		return int32(n), err
	case "J":
		n, err := strconv.ParseInt(text, 0, 64)
		return n, err
	case "F":
		f, err := strconv.ParseFloat(text, 32)
		return float32(f), err
	case "D":
		return strconv.ParseFloat(text, 64)
	case "C":
		return parseChar(text)
	case "Ljava/lang/String;", descriptor.ObjectType:
		if strings.HasPrefix(text, `"`) {
			return strconv.Unquote(text)
		}
		return text, nil
	}

	typ, err := descriptor.ParseType(desc)
	if err != nil {
		return nil, err
	}
	elem, ok := typ.Elem()
	if !ok {
		return nil, fmt.Errorf("cannot build a %s from %q", descriptor.InternalToBinary(desc), text)
	}
	st, err := r.TypeOf(desc)
	if err != nil {
		return nil, err
	}
	out := reflect.MakeSlice(st, 0, 0)
	if text == "" {
		return out.Interface(), nil
	}
	for _, part := range strings.Split(text, ",") {
		v, err := parseValue(r, elem.Name, part)
		if err != nil {
			return nil, err
		}
		ev := reflect.New(st.Elem()).Elem()
		if v != nil {
			ev.Set(reflect.ValueOf(v))
		}
		out = reflect.Append(out, ev)
	}
	return out.Interface(), nil
}

// parseChar accepts a quoted character ('A') or a UTF-16 code unit number.
func parseChar(text string) (uint16, error) {
	if len(text) >= 3 && text[0] == '\'' {
		s, err := strconv.Unquote(text)
		if err != nil {
			return 0, err
		}
		units := utf16.Encode([]rune(s))
		if len(units) != 1 {
			return 0, fmt.Errorf("%s is not a single char", text)
		}
		return units[0], nil
	}
	n, err := strconv.ParseUint(text, 0, 16)
	return uint16(n), err
}
