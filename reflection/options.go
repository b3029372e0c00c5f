package reflection

import (
	"fmt"
	"reflect"
)

var errorType = reflect.TypeFor[error]()

// Option adds metadata to a type during Register.
type Option func(d *decl) error

type decl struct {
	t          reflect.Type
	implements []reflect.Type
	enclosing  reflect.Type
	ctors      []reflect.Value
	statics    []staticVar
	funcs      []boundFunc
	methodTags map[string]reflect.StructTag
	shadows    map[string]bool
	tag        reflect.StructTag
	enum       []any
	aliases    []string
}

type staticVar struct {
	name string
	ptr  reflect.Value
	tag  reflect.StructTag
}

type boundFunc struct {
	name   string
	fn     reflect.Value
	static bool
}

func newDecl(t reflect.Type) *decl {
	return &decl{
		t:          t,
		methodTags: map[string]reflect.StructTag{},
		shadows:    map[string]bool{},
	}
}

// Implements records interfaces the type implements directly. Either the
// type or a pointer to it must satisfy each interface.
func Implements(ifaces ...reflect.Type) Option {
	return func(d *decl) error {
		for _, it := range ifaces {
			if it == nil || it.Kind() != reflect.Interface {
				return fmt.Errorf("%w: %s: %v is not an interface", ErrOption, d.t, it)
			}
			if !d.t.Implements(it) && !reflect.PointerTo(d.t).Implements(it) {
				return fmt.Errorf("%w: %s does not implement %s", ErrOption, d.t, it)
			}
			d.implements = append(d.implements, it)
		}
		return nil
	}
}

// EnclosedBy marks the type as nested in outer.
func EnclosedBy(outer reflect.Type) Option {
	return func(d *decl) error {
		if outer == nil {
			return fmt.Errorf("%w: %s: nil enclosing type", ErrOption, d.t)
		}
		d.enclosing = normalize(outer)
		return nil
	}
}

// WithConstructor registers fn as a constructor. fn must return the type or a
// pointer to it, optionally followed by an error.
func WithConstructor(fn any) Option {
	return func(d *decl) error {
		v := reflect.ValueOf(fn)
		if v.Kind() != reflect.Func || v.IsNil() {
			return fmt.Errorf("%w: %s: constructor is not a func", ErrOption, d.t)
		}
		ft := v.Type()
		n := ft.NumOut()
		if n == 2 && ft.Out(1) != errorType {
			return fmt.Errorf("%w: %s: second constructor result must be error", ErrOption, d.t)
		}
		if n < 1 || n > 2 || normalize(ft.Out(0)) != d.t {
			return fmt.Errorf("%w: %s: constructor must return %s or *%s", ErrOption, d.t, d.t.Name(), d.t.Name())
		}
		d.ctors = append(d.ctors, v)
		return nil
	}
}

// StaticField registers the variable behind ptr as a static field.
func StaticField(name string, ptr any, tag reflect.StructTag) Option {
	return func(d *decl) error {
		v := reflect.ValueOf(ptr)
		if v.Kind() != reflect.Pointer || v.IsNil() {
			return fmt.Errorf("%w: %s.%s: static field needs a non-nil pointer", ErrOption, d.t.Name(), name)
		}
		d.statics = append(d.statics, staticVar{name: name, ptr: v, tag: tag})
		return nil
	}
}

// BoundMethod binds fn as a method named name. The first parameter of fn is the
// receiver and must be the type or a pointer to it. Use it for methods
// reflect cannot see, such as unexported ones.
func BoundMethod(name string, fn any) Option {
	return func(d *decl) error {
		v := reflect.ValueOf(fn)
		if v.Kind() != reflect.Func || v.IsNil() {
			return fmt.Errorf("%w: %s.%s: method is not a func", ErrOption, d.t.Name(), name)
		}
		if v.Type().NumIn() == 0 || normalize(v.Type().In(0)) != d.t {
			return fmt.Errorf("%w: %s.%s: first parameter must be the receiver", ErrOption, d.t.Name(), name)
		}
		d.funcs = append(d.funcs, boundFunc{name: name, fn: v})
		return nil
	}
}

// StaticMethod binds fn as a static method named name.
func StaticMethod(name string, fn any) Option {
	return func(d *decl) error {
		v := reflect.ValueOf(fn)
		if v.Kind() != reflect.Func || v.IsNil() {
			return fmt.Errorf("%w: %s.%s: static method is not a func", ErrOption, d.t.Name(), name)
		}
		d.funcs = append(d.funcs, boundFunc{name: name, fn: v, static: true})
		return nil
	}
}

// MethodTag attaches tag metadata to the method named name.
func MethodTag(name string, tag reflect.StructTag) Option {
	return func(d *decl) error {
		d.methodTags[name] = tag
		return nil
	}
}

// Shadows declares methods that the type defines itself although an
// embedded type has a method of the same name.
func Shadows(names ...string) Option {
	return func(d *decl) error {
		for _, n := range names {
			d.shadows[n] = true
		}
		return nil
	}
}

// Tags attaches type level tag metadata.
func Tags(tag reflect.StructTag) Option {
	return func(d *decl) error {
		d.tag = tag
		return nil
	}
}

// EnumConstants lists the constants of an enum type in ordinal order.
func EnumConstants(values ...any) Option {
	return func(d *decl) error {
		for _, v := range values {
			if reflect.TypeOf(v) != d.t {
				return fmt.Errorf("%w: %s: enum constant %v has type %T", ErrOption, d.t, v, v)
			}
		}
		d.enum = append(d.enum, values...)
		return nil
	}
}

// Alias registers an extra name Resolve answers for the type.
func Alias(name string) Option {
	return func(d *decl) error {
		if name == "" {
			return fmt.Errorf("%w: %s: empty alias", ErrOption, d.t)
		}
		d.aliases = append(d.aliases, name)
		return nil
	}
}

func normalize(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer && t.Name() == "" {
		t = t.Elem()
	}
	return t
}
