package reflection

import (
	"fmt"
	"reflect"
	"strings"
	"unsafe"
)

// modifiers derives member flags from export status and the "mirror" tag
// key, a comma separated list of "protected" and "final".
func modifiers(name string, tag reflect.StructTag) Modifier {
	var m Modifier
	if isExported(name) {
		m |= Public
	} else {
		m |= Private
	}
	for _, opt := range strings.Split(tag.Get("mirror"), ",") {
		switch strings.TrimSpace(opt) {
		case "protected":
			m = m&^(Public|Private) | Protected
		case "final":
			m |= Final
		}
	}
	return m
}

func isExported(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

// locate finds the value of type target inside v, following pointers and
// embedded fields. The result is addressable, or an interface value when
// target is an interface embedded in a struct.
func locate(v reflect.Value, target reflect.Type) (reflect.Value, bool) {
	if !v.IsValid() {
		return reflect.Value{}, false
	}
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	v = addressable(v)
	if v.Type() == target {
		return v, true
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	return search(v, target, map[reflect.Type]bool{v.Type(): true})
}

func search(v reflect.Value, target reflect.Type, visited map[reflect.Type]bool) (reflect.Value, bool) {
	st := v.Type()
	for i := range st.NumField() {
		sf := st.Field(i)
		if !sf.Anonymous {
			continue
		}
		fv := expose(v.Field(i))
		if sf.Type == target {
			return fv, true
		}
		for fv.Kind() == reflect.Pointer && !fv.IsNil() {
			fv = fv.Elem()
		}
		if fv.Kind() != reflect.Struct || visited[fv.Type()] {
			continue
		}
		if fv.Type() == target {
			return fv, true
		}
		visited[fv.Type()] = true
		if found, ok := search(fv, target, visited); ok {
			return found, true
		}
	}
	return reflect.Value{}, false
}

// expose lifts the read-only flag reflect puts on unexported fields.
// f must be addressable.
func expose(f reflect.Value) reflect.Value {
	return reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem()
}

func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v
	}
	c := reflect.New(v.Type()).Elem()
	c.Set(v)
	return c
}

func assignValue(v any, t reflect.Type) (reflect.Value, bool) {
	if v == nil {
		switch t.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map,
			reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
			return reflect.Zero(t), true
		}
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(t) {
		return reflect.Value{}, false
	}
	return rv, true
}

// convertArgs checks args against params positionally.
func convertArgs(name string, params []reflect.Type, variadic bool, args []any) ([]reflect.Value, error) {
	n := len(params)
	if variadic {
		if len(args) < n-1 {
			return nil, fmt.Errorf("%w: found %d but expected at least %d: call %s", ErrArity, len(args), n-1, name)
		}
	} else if len(args) != n {
		return nil, fmt.Errorf("%w: found %d but expected %d: call %s", ErrArity, len(args), n, name)
	}

	in := make([]reflect.Value, 0, len(args))
	for i, a := range args {
		pt := paramAt(params, variadic, i)
		v, ok := assignValue(a, pt)
		if !ok {
			return nil, fmt.Errorf("%w: argument %d of %s: %T is not assignable to %s", ErrTypeMismatch, i, name, a, pt)
		}
		in = append(in, v)
	}
	return in, nil
}

func paramAt(params []reflect.Type, variadic bool, i int) reflect.Type {
	last := len(params) - 1
	if variadic && i >= last {
		return params[last].Elem()
	}
	return params[i]
}

// call invokes fn and folds its results. Panics and a trailing non-nil
// error are returned wrapped in ErrInvocation with the cause kept.
func call(name string, fn reflect.Value, in []reflect.Value) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("panic: %v", r)
			}
			out, err = nil, fmt.Errorf("%w: %s: %w", ErrInvocation, name, cause)
		}
	}()

	res := fn.Call(in)
	ft := fn.Type()
	if n := ft.NumOut(); n > 0 && ft.Out(n-1) == errorType {
		last := res[n-1]
		res = res[:n-1]
		if !last.IsNil() {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvocation, name, last.Interface().(error))
		}
	}

	switch len(res) {
	case 0:
		return nil, nil
	case 1:
		return res[0].Interface(), nil
	}
	vals := make([]any, 0, len(res))
	for _, r := range res {
		vals = append(vals, r.Interface())
	}
	return vals, nil
}

func outTypes(ft reflect.Type) []reflect.Type {
	out := make([]reflect.Type, 0, ft.NumOut())
	for i := range ft.NumOut() {
		out = append(out, ft.Out(i))
	}
	return out
}

func inTypes(ft reflect.Type, skip int) []reflect.Type {
	out := make([]reflect.Type, 0, ft.NumIn())
	for i := skip; i < ft.NumIn(); i++ {
		out = append(out, ft.In(i))
	}
	return out
}
